package postgres

import (
	"gorm.io/gorm"

	errors "github.com/frahmantamala/payment-integration/internal"
	datamodel "github.com/frahmantamala/payment-integration/internal/core/datamodel/requestlog"
	requestlogpkg "github.com/frahmantamala/payment-integration/internal/requestlog"
)

type RequestLogRepository struct {
	db *gorm.DB
}

func NewRequestLogRepository(db *gorm.DB) requestlogpkg.RepositoryAPI {
	return &RequestLogRepository{
		db: db,
	}
}

func (r *RequestLogRepository) Create(log *datamodel.RequestLog) error {
	return r.db.Create(log).Error
}

func (r *RequestLogRepository) SetStatus(id int64, status string) error {
	return r.db.Model(&datamodel.RequestLog{}).Where("id = ?", id).Update("status", status).Error
}

func (r *RequestLogRepository) GetByID(id int64) (*datamodel.RequestLog, error) {
	var log datamodel.RequestLog
	err := r.db.First(&log, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRequestLogNotFound
		}
		return nil, err
	}
	return &log, nil
}

func (r *RequestLogRepository) List(limit, offset int) ([]*datamodel.RequestLog, error) {
	var logs []*datamodel.RequestLog
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&logs).Error
	return logs, err
}
