// Package requestlog is the audit trail of payment attempts. Every attempt
// gets exactly one record; its status starts Queued and is mutated at most
// once after the charge resolves.
package requestlog

import (
	"encoding/json"
	"fmt"
	"log/slog"

	datamodel "github.com/frahmantamala/payment-integration/internal/core/datamodel/requestlog"
)

// Status labels shared with the upstream integration-request convention.
const (
	StatusQueued     = "Queued"
	StatusAuthorized = "Authorized"
	StatusCompleted  = "Completed"
	StatusFailed     = "Failed"
	StatusCancelled  = "Cancelled"
)

type RepositoryAPI interface {
	Create(log *datamodel.RequestLog) error
	SetStatus(id int64, status string) error
	GetByID(id int64) (*datamodel.RequestLog, error)
	List(limit, offset int) ([]*datamodel.RequestLog, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Create snapshots the attempt payload into a new Queued record.
func (s *Service) Create(serviceName string, payload interface{}, referenceDoctype, referenceDocname string) (*datamodel.RequestLog, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request log payload: %w", err)
	}

	record := &datamodel.RequestLog{
		ServiceName:      serviceName,
		Status:           StatusQueued,
		Data:             data,
		ReferenceDoctype: referenceDoctype,
		ReferenceDocname: referenceDocname,
	}

	if err := s.repo.Create(record); err != nil {
		return nil, fmt.Errorf("create request log: %w", err)
	}

	s.logger.Info("request log created",
		"request_log_id", record.ID,
		"service_name", serviceName,
		"reference_doctype", referenceDoctype,
		"reference_docname", referenceDocname)

	return record, nil
}

func (s *Service) SetStatus(id int64, status string) error {
	if err := s.repo.SetStatus(id, status); err != nil {
		return fmt.Errorf("set request log status: %w", err)
	}

	s.logger.Info("request log status updated",
		"request_log_id", id,
		"status", status)
	return nil
}

func (s *Service) GetByID(id int64) (*datamodel.RequestLog, error) {
	return s.repo.GetByID(id)
}

func (s *Service) List(limit, offset int) ([]*datamodel.RequestLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(limit, offset)
}
