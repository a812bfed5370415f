package base44

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// Entities is a generic accessor over one backend entity collection.
// Records pass through untouched as raw JSON.
type Entities struct {
	client *Client
	name   string
}

// Entities returns the accessor for the named collection, e.g. "Agency"
func (c *Client) Entities(name string) *Entities {
	return &Entities{client: c, name: name}
}

func (e *Entities) path(id string) string {
	p := "/entities/" + url.PathEscape(e.name)
	if id != "" {
		p += "/" + url.PathEscape(id)
	}
	return p
}

// List returns every record, optionally ordered by sort (e.g. "-created_date")
func (e *Entities) List(ctx context.Context, sort string) (json.RawMessage, error) {
	q := url.Values{}
	if sort != "" {
		q.Set("sort", sort)
	}
	var out json.RawMessage
	if err := e.client.Get(ctx, e.path(""), q, &out); err != nil {
		return nil, fmt.Errorf("list %s: %w", e.name, err)
	}
	return out, nil
}

// Filter returns the records matching every key/value in query
func (e *Entities) Filter(ctx context.Context, query map[string]interface{}) (json.RawMessage, error) {
	q := url.Values{}
	if len(query) > 0 {
		data, err := json.Marshal(query)
		if err != nil {
			return nil, fmt.Errorf("failed to encode filter: %w", err)
		}
		q.Set("q", string(data))
	}
	var out json.RawMessage
	if err := e.client.Get(ctx, e.path(""), q, &out); err != nil {
		return nil, fmt.Errorf("filter %s: %w", e.name, err)
	}
	return out, nil
}

// Get returns a single record
func (e *Entities) Get(ctx context.Context, id string) (json.RawMessage, error) {
	var out json.RawMessage
	if err := e.client.Get(ctx, e.path(id), nil, &out); err != nil {
		return nil, fmt.Errorf("get %s %s: %w", e.name, id, err)
	}
	return out, nil
}

// Create inserts a record and returns the stored version
func (e *Entities) Create(ctx context.Context, record interface{}) (json.RawMessage, error) {
	var out json.RawMessage
	if err := e.client.Post(ctx, e.path(""), record, &out); err != nil {
		return nil, fmt.Errorf("create %s: %w", e.name, err)
	}
	return out, nil
}

// Update replaces the fields present in changes
func (e *Entities) Update(ctx context.Context, id string, changes interface{}) (json.RawMessage, error) {
	var out json.RawMessage
	if err := e.client.Put(ctx, e.path(id), changes, &out); err != nil {
		return nil, fmt.Errorf("update %s %s: %w", e.name, id, err)
	}
	return out, nil
}

// Delete removes a record
func (e *Entities) Delete(ctx context.Context, id string) error {
	if err := e.client.Delete(ctx, e.path(id), nil); err != nil {
		return fmt.Errorf("delete %s %s: %w", e.name, id, err)
	}
	return nil
}
