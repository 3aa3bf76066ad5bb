// Package paymentrequest is the built-in business document that drives the
// gateway contract from the caller side: it asks a gateway for money, vetoes
// or allows its own submission through the gateway's optional hooks, and is
// the document a captured payment reports back to.
package paymentrequest

import (
	"strings"
	"time"

	"github.com/google/uuid"

	datamodel "github.com/frahmantamala/payment-integration/internal/core/datamodel/paymentrequest"
)

// Doctype is the reference document type gateways see for payment requests.
const Doctype = "Payment Request"

const (
	StatusDraft     = "draft"
	StatusRequested = "requested"
	StatusPaid      = "paid"
)

type RepositoryAPI interface {
	Create(pr *datamodel.PaymentRequest) error
	GetByName(name string) (*datamodel.PaymentRequest, error)
	UpdateStatus(name, status string) error
	MarkPaid(name string, paidAt time.Time) error
}

// NewName mints a document name like PR-3FA85F64.
func NewName() string {
	return "PR-" + strings.ToUpper(uuid.New().String()[:8])
}
