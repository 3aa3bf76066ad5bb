package requestlog

import (
	"encoding/json"
	"time"
)

type RequestLog struct {
	ID               int64           `gorm:"primaryKey"`
	ServiceName      string          `gorm:"column:service_name;not null"`
	Status           string          `gorm:"column:status;default:Queued"`
	Data             json.RawMessage `gorm:"column:data;type:jsonb"`
	Output           *string         `gorm:"column:output"`
	ErrorDetail      *string         `gorm:"column:error_detail"`
	ReferenceDoctype string          `gorm:"column:reference_doctype"`
	ReferenceDocname string          `gorm:"column:reference_docname"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (RequestLog) TableName() string {
	return "request_logs"
}
