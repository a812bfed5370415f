package agencyapi

import (
	"context"
	"encoding/json"
)

const (
	catalogsPath       = "/api/agency/catalogs"
	publicCatalogsPath = "/public/catalogs"
	packagesPath       = "/api/agency/packages"
	publicPackagesPath = "/public/packages"
)

// Catalogs manages talent catalogs shared with clients
type Catalogs struct{ resource }

func (c *Catalogs) List(ctx context.Context) (json.RawMessage, error) {
	out, err := c.get(ctx, catalogsPath, nil)
	return out, wrap("list catalogs", err)
}

func (c *Catalogs) Get(ctx context.Context, id string) (json.RawMessage, error) {
	out, err := c.get(ctx, join(catalogsPath, id), nil)
	return out, wrap("get catalog", err)
}

func (c *Catalogs) Create(ctx context.Context, catalog interface{}) (json.RawMessage, error) {
	out, err := c.post(ctx, catalogsPath, catalog)
	return out, wrap("create catalog", err)
}

func (c *Catalogs) Update(ctx context.Context, id string, catalog interface{}) (json.RawMessage, error) {
	out, err := c.put(ctx, join(catalogsPath, id), catalog)
	return out, wrap("update catalog", err)
}

func (c *Catalogs) Delete(ctx context.Context, id string) error {
	return wrap("delete catalog", c.delete(ctx, join(catalogsPath, id)))
}

// UploadAsset attaches an image or video to a catalog
func (c *Catalogs) UploadAsset(ctx context.Context, catalogID string, f File) (json.RawMessage, error) {
	out, err := c.upload(ctx, join(catalogsPath, catalogID, "assets"), nil, f)
	return out, wrap("upload catalog asset", err)
}

// GetPublic fetches a catalog through its share token
func (c *Catalogs) GetPublic(ctx context.Context, token string) (json.RawMessage, error) {
	out, err := c.get(ctx, join(publicCatalogsPath, token), nil)
	return out, wrap("get public catalog", err)
}

// Packages manages talent packages pitched to clients
type Packages struct{ resource }

func (p *Packages) List(ctx context.Context) (json.RawMessage, error) {
	out, err := p.get(ctx, packagesPath, nil)
	return out, wrap("list packages", err)
}

func (p *Packages) Get(ctx context.Context, id string) (json.RawMessage, error) {
	out, err := p.get(ctx, join(packagesPath, id), nil)
	return out, wrap("get package", err)
}

func (p *Packages) Create(ctx context.Context, pkg interface{}) (json.RawMessage, error) {
	out, err := p.post(ctx, packagesPath, pkg)
	return out, wrap("create package", err)
}

func (p *Packages) Update(ctx context.Context, id string, pkg interface{}) (json.RawMessage, error) {
	out, err := p.put(ctx, join(packagesPath, id), pkg)
	return out, wrap("update package", err)
}

func (p *Packages) Delete(ctx context.Context, id string) error {
	return wrap("delete package", p.delete(ctx, join(packagesPath, id)))
}

// Stats returns view and interaction counts across packages
func (p *Packages) Stats(ctx context.Context) (json.RawMessage, error) {
	out, err := p.get(ctx, packagesPath+"/stats", nil)
	return out, wrap("package stats", err)
}

func (p *Packages) UploadFile(ctx context.Context, packageID string, f File) (json.RawMessage, error) {
	out, err := p.upload(ctx, join(packagesPath, packageID, "files"), nil, f)
	return out, wrap("upload package file", err)
}

func (p *Packages) GetPublic(ctx context.Context, token string) (json.RawMessage, error) {
	out, err := p.get(ctx, join(publicPackagesPath, token), nil)
	return out, wrap("get public package", err)
}

// RecordInteraction logs a client action (view, like, request) on a shared package
func (p *Packages) RecordInteraction(ctx context.Context, token, kind string, details map[string]interface{}) (json.RawMessage, error) {
	body := map[string]interface{}{"type": kind}
	for k, v := range details {
		body[k] = v
	}
	out, err := p.post(ctx, join(publicPackagesPath, token, "interactions"), body)
	return out, wrap("record package interaction", err)
}
