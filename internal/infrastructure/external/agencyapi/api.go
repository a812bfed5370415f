// Package agencyapi maps each agency backend resource onto Go calls. Every
// method is a direct REST pass-through: no validation, no transformation.
package agencyapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	"github.com/likelee/agency-dashboard/internal/infrastructure/external/base44"
)

// API bundles the resource modules over one backend client
type API struct {
	ActiveLicenses     *ActiveLicenses
	LicenseTemplates   *LicenseTemplates
	LicenseSubmissions *LicenseSubmissions
	Catalogs           *Catalogs
	Packages           *Packages
	CRM                *CRM
	Voice              *Voice
}

// New creates the resource modules
func New(client *base44.Client) *API {
	r := resource{client: client}
	return &API{
		ActiveLicenses:     &ActiveLicenses{r},
		LicenseTemplates:   &LicenseTemplates{r},
		LicenseSubmissions: &LicenseSubmissions{r},
		Catalogs:           &Catalogs{r},
		Packages:           &Packages{r},
		CRM:                &CRM{r},
		Voice:              &Voice{r},
	}
}

// File is an upload forwarded to the backend
type File struct {
	Name    string
	Content io.Reader
}

type resource struct {
	client *base44.Client
}

func (r resource) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	var out json.RawMessage
	if err := r.client.Get(ctx, path, query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r resource) post(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	var out json.RawMessage
	if err := r.client.Post(ctx, path, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r resource) put(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	var out json.RawMessage
	if err := r.client.Put(ctx, path, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r resource) delete(ctx context.Context, path string) error {
	return r.client.Delete(ctx, path, nil)
}

func (r resource) upload(ctx context.Context, path string, fields map[string]string, f File) (json.RawMessage, error) {
	var out json.RawMessage
	err := r.client.PostMultipart(ctx, path, fields, base44.Upload{FileName: f.Name, Content: f.Content}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func join(base string, parts ...string) string {
	for _, p := range parts {
		base += "/" + url.PathEscape(p)
	}
	return base
}

func toValues(filters map[string]string) url.Values {
	if len(filters) == 0 {
		return nil
	}
	q := url.Values{}
	for k, v := range filters {
		if v != "" {
			q.Set(k, v)
		}
	}
	return q
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
