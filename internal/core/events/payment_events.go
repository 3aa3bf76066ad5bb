package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeGatewayEnabled       = "gateway.enabled"
	EventTypePaymentCaptured      = "payment.captured"
	EventTypePaymentCaptureFailed = "payment.capture_failed"
	EventTypePaymentHookFailed    = "payment.hook_failed"
	EventTypeChargeErrored        = "payment.charge_errored"
)

// GatewayEnabledEvent fires when a gateway configuration becomes usable,
// either at startup or after an admin update passes credential checks.
type GatewayEnabledEvent struct {
	BaseEvent
	Provider    string `json:"provider"`
	GatewayName string `json:"gateway_name"`
	ServiceName string `json:"service_name"`
}

func NewGatewayEnabledEvent(provider, gatewayName, serviceName string) *GatewayEnabledEvent {
	return &GatewayEnabledEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeGatewayEnabled,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"provider":     provider,
				"gateway_name": gatewayName,
				"service_name": serviceName,
			},
		},
		Provider:    provider,
		GatewayName: gatewayName,
		ServiceName: serviceName,
	}
}

type PaymentCapturedEvent struct {
	BaseEvent
	RequestLogID     int64   `json:"request_log_id"`
	Provider         string  `json:"provider"`
	ChargeID         string  `json:"charge_id"`
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
	ReferenceDoctype string  `json:"reference_doctype"`
	ReferenceDocname string  `json:"reference_docname"`
}

func NewPaymentCapturedEvent(requestLogID int64, provider, chargeID string, amount float64, currency, referenceDoctype, referenceDocname string) *PaymentCapturedEvent {
	return &PaymentCapturedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentCaptured,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"request_log_id":    requestLogID,
				"provider":          provider,
				"charge_id":         chargeID,
				"amount":            amount,
				"currency":          currency,
				"reference_doctype": referenceDoctype,
				"reference_docname": referenceDocname,
			},
		},
		RequestLogID:     requestLogID,
		Provider:         provider,
		ChargeID:         chargeID,
		Amount:           amount,
		Currency:         currency,
		ReferenceDoctype: referenceDoctype,
		ReferenceDocname: referenceDocname,
	}
}

// PaymentCaptureFailedEvent fires when the gateway accepted the charge
// request but did not capture the funds.
type PaymentCaptureFailedEvent struct {
	BaseEvent
	RequestLogID   int64   `json:"request_log_id"`
	Provider       string  `json:"provider"`
	ChargeID       string  `json:"charge_id"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	FailureMessage string  `json:"failure_message"`
}

func NewPaymentCaptureFailedEvent(requestLogID int64, provider, chargeID string, amount float64, currency, failureMessage string) *PaymentCaptureFailedEvent {
	return &PaymentCaptureFailedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentCaptureFailed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"request_log_id":  requestLogID,
				"provider":        provider,
				"charge_id":       chargeID,
				"amount":          amount,
				"currency":        currency,
				"failure_message": failureMessage,
			},
		},
		RequestLogID:   requestLogID,
		Provider:       provider,
		ChargeID:       chargeID,
		Amount:         amount,
		Currency:       currency,
		FailureMessage: failureMessage,
	}
}

// PaymentHookFailedEvent records a business document callback that blew up
// after funds were already captured. Money moved, so the flow carries on
// and this event is the paper trail for manual reconciliation.
type PaymentHookFailedEvent struct {
	BaseEvent
	RequestLogID     int64  `json:"request_log_id"`
	ReferenceDoctype string `json:"reference_doctype"`
	ReferenceDocname string `json:"reference_docname"`
	Reason           string `json:"reason"`
}

func NewPaymentHookFailedEvent(requestLogID int64, referenceDoctype, referenceDocname, reason string) *PaymentHookFailedEvent {
	return &PaymentHookFailedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentHookFailed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"request_log_id":    requestLogID,
				"reference_doctype": referenceDoctype,
				"reference_docname": referenceDocname,
				"reason":            reason,
			},
		},
		RequestLogID:     requestLogID,
		ReferenceDoctype: referenceDoctype,
		ReferenceDocname: referenceDocname,
		Reason:           reason,
	}
}

type ChargeErroredEvent struct {
	BaseEvent
	RequestLogID int64   `json:"request_log_id"`
	Provider     string  `json:"provider"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	Reason       string  `json:"reason"`
}

func NewChargeErroredEvent(requestLogID int64, provider string, amount float64, currency, reason string) *ChargeErroredEvent {
	return &ChargeErroredEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeChargeErrored,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"request_log_id": requestLogID,
				"provider":       provider,
				"amount":         amount,
				"currency":       currency,
				"reason":         reason,
			},
		},
		RequestLogID: requestLogID,
		Provider:     provider,
		Amount:       amount,
		Currency:     currency,
		Reason:       reason,
	}
}
