package postgres

import (
	"time"

	"gorm.io/gorm"

	errors "github.com/frahmantamala/payment-integration/internal"
	datamodel "github.com/frahmantamala/payment-integration/internal/core/datamodel/paymentrequest"
	paymentrequestpkg "github.com/frahmantamala/payment-integration/internal/paymentrequest"
)

type PaymentRequestRepository struct {
	db *gorm.DB
}

func NewPaymentRequestRepository(db *gorm.DB) paymentrequestpkg.RepositoryAPI {
	return &PaymentRequestRepository{
		db: db,
	}
}

func (r *PaymentRequestRepository) Create(pr *datamodel.PaymentRequest) error {
	return r.db.Create(pr).Error
}

func (r *PaymentRequestRepository) GetByName(name string) (*datamodel.PaymentRequest, error) {
	var pr datamodel.PaymentRequest
	err := r.db.Where("name = ?", name).First(&pr).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPaymentRequestNotFound
		}
		return nil, err
	}
	return &pr, nil
}

func (r *PaymentRequestRepository) UpdateStatus(name, status string) error {
	return r.db.Model(&datamodel.PaymentRequest{}).Where("name = ?", name).Update("status", status).Error
}

func (r *PaymentRequestRepository) MarkPaid(name string, paidAt time.Time) error {
	return r.db.Model(&datamodel.PaymentRequest{}).Where("name = ?", name).Updates(map[string]interface{}{
		"status":  paymentrequestpkg.StatusPaid,
		"paid_at": paidAt,
	}).Error
}
