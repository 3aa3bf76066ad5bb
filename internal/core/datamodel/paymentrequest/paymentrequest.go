package paymentrequest

import "time"

type PaymentRequest struct {
	ID               int64      `gorm:"primaryKey"`
	Name             string     `gorm:"column:name;not null;uniqueIndex"`
	Amount           float64    `gorm:"column:amount;not null"`
	Currency         string     `gorm:"column:currency;not null"`
	PayerEmail       string     `gorm:"column:payer_email"`
	PayerName        string     `gorm:"column:payer_name"`
	Description      string     `gorm:"column:description"`
	Status           string     `gorm:"column:status;default:draft"`
	GatewayProvider  string     `gorm:"column:gateway_provider"`
	GatewayName      string     `gorm:"column:gateway_name"`
	ReferenceDoctype string     `gorm:"column:reference_doctype"`
	ReferenceDocname string     `gorm:"column:reference_docname"`
	SuccessURL       string     `gorm:"column:success_url"`
	PaidAt           *time.Time `gorm:"column:paid_at"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (PaymentRequest) TableName() string {
	return "payment_requests"
}
