package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/likelee/agency-dashboard/internal/application/port"
	"github.com/likelee/agency-dashboard/internal/domain/apperr"
	"github.com/likelee/agency-dashboard/internal/domain/entity"
)

// LicenseService passes license views through to the remote backend
type LicenseService interface {
	ActiveLicenses(ctx context.Context, filters map[string]string) (json.RawMessage, error)
	Stats(ctx context.Context) (json.RawMessage, error)
	LicensingRequests(ctx context.Context) (json.RawMessage, error)
	Submissions(ctx context.Context, status string) (json.RawMessage, error)
	SubmissionAction(ctx context.Context, id, action string) (json.RawMessage, error)
}

type licenseServiceImpl struct {
	backend port.LicenseBackend
	logger  Logger
}

// NewLicenseService creates a new LicenseService
func NewLicenseService(backend port.LicenseBackend, logger Logger) LicenseService {
	return &licenseServiceImpl{backend: backend, logger: logger}
}

func (s *licenseServiceImpl) ActiveLicenses(ctx context.Context, filters map[string]string) (json.RawMessage, error) {
	clean := make(map[string]string, len(filters))
	for k, v := range filters {
		if v = strings.TrimSpace(v); v != "" && !strings.EqualFold(v, entity.FilterAll) {
			clean[k] = v
		}
	}
	data, err := s.backend.ActiveLicenses(ctx, clean)
	if err != nil {
		s.logger.Error("Failed to load active licenses", "error", err)
		return nil, err
	}
	return data, nil
}

func (s *licenseServiceImpl) Stats(ctx context.Context) (json.RawMessage, error) {
	data, err := s.backend.LicenseStats(ctx)
	if err != nil {
		s.logger.Error("Failed to load license stats", "error", err)
		return nil, err
	}
	return data, nil
}

func (s *licenseServiceImpl) LicensingRequests(ctx context.Context) (json.RawMessage, error) {
	data, err := s.backend.LicensingRequests(ctx)
	if err != nil {
		s.logger.Error("Failed to load licensing requests", "error", err)
		return nil, err
	}
	return data, nil
}

func (s *licenseServiceImpl) Submissions(ctx context.Context, status string) (json.RawMessage, error) {
	data, err := s.backend.Submissions(ctx, strings.ToLower(strings.TrimSpace(status)))
	if err != nil {
		s.logger.Error("Failed to load license submissions", "status", status, "error", err)
		return nil, err
	}
	return data, nil
}

func (s *licenseServiceImpl) SubmissionAction(ctx context.Context, id, action string) (json.RawMessage, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.Validation("submission id is required")
	}
	data, err := s.backend.SubmissionAction(ctx, id, strings.ToLower(strings.TrimSpace(action)))
	if err != nil {
		s.logger.Error("License submission action failed", "submission_id", id, "action", action, "error", err)
		return nil, err
	}
	s.logger.Info("License submission action", "submission_id", id, "action", action)
	return data, nil
}
