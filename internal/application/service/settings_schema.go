package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/likelee/agency-dashboard/internal/domain/apperr"
)

const commissionSchemaJSON = `{
	"type": "object",
	"properties": {
		"default_rate": {"type": "number", "minimum": 0, "maximum": 100},
		"divisions": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name"],
				"properties": {
					"id": {"type": "string"},
					"name": {"type": "string", "minLength": 1, "maxLength": 60},
					"commission_rate": {"type": "number", "minimum": 0, "maximum": 100}
				}
			}
		},
		"payment_terms_days": {"type": "integer", "minimum": 0, "maximum": 365},
		"payout_schedule": {"type": "string", "enum": ["", "weekly", "biweekly", "monthly"]}
	}
}`

const notificationSchemaJSON = `{
	"type": "object",
	"properties": {
		"email_enabled": {"type": "boolean"},
		"new_booking_alerts": {"type": "boolean"},
		"payment_received": {"type": "boolean"},
		"invoice_overdue": {"type": "boolean"},
		"license_activity": {"type": "boolean"},
		"weekly_digest": {"type": "boolean"},
		"digest_day": {
			"type": "string",
			"enum": ["", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"]
		}
	}
}`

const taxCurrencySchemaJSON = `{
	"type": "object",
	"required": ["currency"],
	"properties": {
		"currency": {"type": "string", "pattern": "^[A-Z]{3}$"},
		"tax_name": {"type": "string", "maxLength": 40},
		"tax_rate": {"type": "number", "minimum": 0, "maximum": 100},
		"tax_id": {"type": "string", "maxLength": 60},
		"include_tax_in_prices": {"type": "boolean"},
		"invoice_prefix": {"type": "string", "pattern": "^[A-Za-z0-9-]{0,10}$"},
		"fiscal_year_start": {"type": "string", "pattern": "^(|(0[1-9]|1[0-2])-(0[1-9]|[12][0-9]|3[01]))$"}
	}
}`

const emailTemplateSchemaJSON = `{
	"type": "object",
	"required": ["subject"],
	"properties": {
		"name": {"type": "string", "maxLength": 80},
		"subject": {"type": "string", "minLength": 1, "maxLength": 200},
		"body": {"type": "string"},
		"enabled": {"type": "boolean"}
	}
}`

const agencySchemaJSON = `{
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string", "minLength": 1, "maxLength": 120},
		"legal_name": {"type": "string", "maxLength": 200},
		"email": {"type": "string"},
		"phone": {"type": "string", "maxLength": 40},
		"website": {"type": "string"},
		"address": {"type": "string", "maxLength": 400}
	}
}`

var (
	commissionSchema    = mustCompileSchema(commissionSchemaJSON)
	notificationSchema  = mustCompileSchema(notificationSchemaJSON)
	taxCurrencySchema   = mustCompileSchema(taxCurrencySchemaJSON)
	emailTemplateSchema = mustCompileSchema(emailTemplateSchemaJSON)
	agencySchema        = mustCompileSchema(agencySchemaJSON)
)

func mustCompileSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("invalid settings schema: %v", err))
	}
	return schema
}

// decodeDocument parses a settings payload into a generic JSON object
func decodeDocument(payload []byte) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, apperr.Validation("settings payload is not valid JSON")
	}
	if doc == nil {
		return nil, apperr.Validation("settings payload must be a JSON object")
	}
	return doc, nil
}

func validateDocument(schema *gojsonschema.Schema, label string, doc map[string]interface{}) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validate %s: %w", label, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return apperr.Validation("invalid %s: %s", label, strings.Join(errs, "; "))
	}
	return nil
}

// remarshal converts a validated document into its typed form
func remarshal(doc map[string]interface{}, dst interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return apperr.Validation("settings payload has the wrong shape: %v", err)
	}
	return nil
}

// ClampRate turns a percentage input into a number between 0 and 100.
// Strings are parsed, so "150" becomes 100; anything non-numeric becomes 0.
func ClampRate(v interface{}) float64 {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case float32:
		n = float64(t)
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(t), "%")), 64)
		if err != nil {
			return 0
		}
		n = f
	default:
		return 0
	}
	if math.IsNaN(n) {
		return 0
	}
	return math.Max(0, math.Min(100, n))
}

func clampField(doc map[string]interface{}, key string) {
	if v, ok := doc[key]; ok {
		doc[key] = ClampRate(v)
	}
}
