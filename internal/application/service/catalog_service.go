package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/likelee/agency-dashboard/internal/application/port"
	"github.com/likelee/agency-dashboard/internal/domain/apperr"
)

// CatalogService passes talent packages and catalogs through to the remote
// backend. Create payloads must be JSON objects with a name.
type CatalogService interface {
	ListPackages(ctx context.Context) (json.RawMessage, error)
	CreatePackage(ctx context.Context, body json.RawMessage) (json.RawMessage, error)
	PackageStats(ctx context.Context) (json.RawMessage, error)
	ListCatalogs(ctx context.Context) (json.RawMessage, error)
	CreateCatalog(ctx context.Context, body json.RawMessage) (json.RawMessage, error)
}

type catalogServiceImpl struct {
	backend port.CatalogBackend
	logger  Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(backend port.CatalogBackend, logger Logger) CatalogService {
	return &catalogServiceImpl{backend: backend, logger: logger}
}

func (s *catalogServiceImpl) ListPackages(ctx context.Context) (json.RawMessage, error) {
	data, err := s.backend.Packages(ctx)
	if err != nil {
		s.logger.Error("Failed to load packages", "error", err)
		return nil, err
	}
	return data, nil
}

func (s *catalogServiceImpl) CreatePackage(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	name, err := namedObject("package", body)
	if err != nil {
		return nil, err
	}
	data, err := s.backend.CreatePackage(ctx, body)
	if err != nil {
		s.logger.Error("Failed to create package", "name", name, "error", err)
		return nil, err
	}
	s.logger.Info("Package created", "name", name)
	return data, nil
}

func (s *catalogServiceImpl) PackageStats(ctx context.Context) (json.RawMessage, error) {
	data, err := s.backend.PackageStats(ctx)
	if err != nil {
		s.logger.Error("Failed to load package stats", "error", err)
		return nil, err
	}
	return data, nil
}

func (s *catalogServiceImpl) ListCatalogs(ctx context.Context) (json.RawMessage, error) {
	data, err := s.backend.Catalogs(ctx)
	if err != nil {
		s.logger.Error("Failed to load catalogs", "error", err)
		return nil, err
	}
	return data, nil
}

func (s *catalogServiceImpl) CreateCatalog(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	name, err := namedObject("catalog", body)
	if err != nil {
		return nil, err
	}
	data, err := s.backend.CreateCatalog(ctx, body)
	if err != nil {
		s.logger.Error("Failed to create catalog", "name", name, "error", err)
		return nil, err
	}
	s.logger.Info("Catalog created", "name", name)
	return data, nil
}

func namedObject(kind string, body json.RawMessage) (string, error) {
	var obj map[string]interface{}
	if err := json.Unmarshal(body, &obj); err != nil || obj == nil {
		return "", apperr.Validation("%s must be a JSON object", kind)
	}
	name, _ := obj["name"].(string)
	if name = strings.TrimSpace(name); name == "" {
		return "", apperr.Validation("%s name is required", kind)
	}
	return name, nil
}
