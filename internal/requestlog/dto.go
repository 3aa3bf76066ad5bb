package requestlog

import (
	"encoding/json"
	"time"

	datamodel "github.com/frahmantamala/payment-integration/internal/core/datamodel/requestlog"
)

// RequestLogResponse is the admin view of one audit record. Data is the
// attempt payload snapshot taken when the record was created.
type RequestLogResponse struct {
	ID               int64           `json:"id"`
	ServiceName      string          `json:"service_name"`
	Status           string          `json:"status"`
	Data             json.RawMessage `json:"data,omitempty"`
	Output           *string         `json:"output,omitempty"`
	ErrorDetail      *string         `json:"error_detail,omitempty"`
	ReferenceDoctype string          `json:"reference_doctype,omitempty"`
	ReferenceDocname string          `json:"reference_docname,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func toResponse(log *datamodel.RequestLog) *RequestLogResponse {
	return &RequestLogResponse{
		ID:               log.ID,
		ServiceName:      log.ServiceName,
		Status:           log.Status,
		Data:             log.Data,
		Output:           log.Output,
		ErrorDetail:      log.ErrorDetail,
		ReferenceDoctype: log.ReferenceDoctype,
		ReferenceDocname: log.ReferenceDocname,
		CreatedAt:        log.CreatedAt,
		UpdatedAt:        log.UpdatedAt,
	}
}
