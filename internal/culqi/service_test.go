package culqi_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	datamodel "github.com/frahmantamala/payment-integration/internal/core/datamodel/requestlog"
	"github.com/frahmantamala/payment-integration/internal/core/events"
	"github.com/frahmantamala/payment-integration/internal/culqi"
	"github.com/frahmantamala/payment-integration/internal/gateway"
	"github.com/frahmantamala/payment-integration/internal/requestlog"
)

// Mock charge client for testing
type mockChargeClient struct {
	result      *culqi.ChargeResult
	chargeError error
	lastParams  culqi.ChargeParams
	chargeCalls int
}

func newMockChargeClient() *mockChargeClient {
	return &mockChargeClient{
		result: &culqi.ChargeResult{
			ID:       "chr_mock_1",
			Captured: true,
			Outcome:  "venta_exitosa",
		},
	}
}

func (m *mockChargeClient) CreateCharge(ctx context.Context, secretKey string, params culqi.ChargeParams) (*culqi.ChargeResult, error) {
	m.chargeCalls++
	m.lastParams = params
	if m.chargeError != nil {
		return nil, m.chargeError
	}
	return m.result, nil
}

func (m *mockChargeClient) VerifyCredentials(ctx context.Context, secretKey string) error {
	return nil
}

// Mock request log for testing
type mockRequestLog struct {
	records  map[int64]*datamodel.RequestLog
	statuses map[int64]string
	nextID   int64
}

func newMockRequestLog() *mockRequestLog {
	return &mockRequestLog{
		records:  make(map[int64]*datamodel.RequestLog),
		statuses: make(map[int64]string),
		nextID:   1,
	}
}

func (m *mockRequestLog) Create(serviceName string, payload interface{}, referenceDoctype, referenceDocname string) (*datamodel.RequestLog, error) {
	record := &datamodel.RequestLog{
		ID:               m.nextID,
		ServiceName:      serviceName,
		Status:           requestlog.StatusQueued,
		ReferenceDoctype: referenceDoctype,
		ReferenceDocname: referenceDocname,
	}
	m.nextID++
	m.records[record.ID] = record
	return record, nil
}

func (m *mockRequestLog) SetStatus(id int64, status string) error {
	m.statuses[id] = status
	if record, ok := m.records[id]; ok {
		record.Status = status
	}
	return nil
}

// Mock secret store for testing
type mockSecretStore struct {
	secrets map[string]string
}

func (m *mockSecretStore) Get(ctx context.Context, ref string) (string, error) {
	value, ok := m.secrets[ref]
	if !ok {
		return "", errors.New("secret not found: " + ref)
	}
	return value, nil
}

// Mock event publisher for testing
type mockPublisher struct {
	published []events.Event
}

func (m *mockPublisher) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

func (m *mockPublisher) types() []string {
	out := make([]string, 0, len(m.published))
	for _, e := range m.published {
		out = append(out, e.EventType())
	}
	return out
}

var _ = Describe("CulqiService", func() {
	var (
		service   *culqi.Service
		settings  *culqi.Settings
		charges   *mockChargeClient
		logs      *mockRequestLog
		publisher *mockPublisher
		ctx       context.Context
	)

	newAttempt := func() *culqi.PaymentAttempt {
		return &culqi.PaymentAttempt{
			Amount:     25,
			Currency:   "PEN",
			Token:      "tkn_test_0001",
			PayerEmail: "payer@example.com",
		}
	}

	BeforeEach(func() {
		charges = newMockChargeClient()
		logs = newMockRequestLog()
		publisher = &mockPublisher{}
		ctx = context.Background()

		store := &mockSecretStore{secrets: map[string]string{"culqi/main/secret": "sk_test_culqi"}}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = culqi.NewService(charges, logs, store, gateway.NewHookRunner(), nil, publisher, logger)

		settings = &culqi.Settings{
			GatewayName:         "main",
			SecretKeyRef:        "culqi/main/secret",
			SupportedCurrencies: culqi.DefaultSupportedCurrencies,
			MinimumAmounts:      culqi.DefaultMinimumAmounts,
		}
	})

	Describe("CreateRequest", func() {
		It("should complete a captured charge and record it under the Culqi service name", func() {
			// Given
			attempt := newAttempt()

			// When
			descriptor, err := service.CreateRequest(ctx, settings, attempt)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(descriptor.RedirectTo).To(Equal("payment-success?redirect_to="))
			Expect(descriptor.Status).To(Equal(requestlog.StatusCompleted))
			Expect(logs.records[1].ServiceName).To(Equal("Culqi"))
			Expect(charges.lastParams.AmountMinorUnits).To(Equal(int64(2500)))
			Expect(charges.lastParams.CurrencyCode).To(Equal("PEN"))
		})

		It("should treat a decline as an uncaptured attempt", func() {
			// Given
			charges.result = &culqi.ChargeResult{
				Captured:       false,
				FailureMessage: "Tarjeta rechazada.",
			}
			attempt := newAttempt()

			// When
			descriptor, err := service.CreateRequest(ctx, settings, attempt)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(descriptor.RedirectTo).To(Equal("payment-failed?redirect_to="))
			Expect(descriptor.Status).To(Equal(requestlog.StatusQueued))
			Expect(logs.statuses).To(BeEmpty())
			Expect(publisher.types()).To(ContainElement(events.EventTypePaymentCaptureFailed))
		})

		It("should return the server error descriptor when the charge call fails", func() {
			// Given
			charges.chargeError = errors.New("request timed out")
			attempt := newAttempt()

			// When
			descriptor, err := service.CreateRequest(ctx, settings, attempt)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(descriptor.Status).To(Equal("401"))
			Expect(descriptor.RedirectTo).To(HavePrefix("payment-error?"))
			Expect(publisher.types()).To(ContainElement(events.EventTypeChargeErrored))
		})

		It("should accept USD, which has no configured minimum", func() {
			// Given
			attempt := newAttempt()
			attempt.Currency = "USD"
			attempt.Amount = 0.5

			// When
			descriptor, err := service.CreateRequest(ctx, settings, attempt)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(descriptor.Status).To(Equal(requestlog.StatusCompleted))
		})

		It("should enforce the three sol minimum for PEN", func() {
			// Given
			attempt := newAttempt()
			attempt.Amount = 2.5

			// When
			_, err := service.CreateRequest(ctx, settings, attempt)

			// Then
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(Equal("For currency PEN, the minimum transaction amount should be 3"))
			Expect(charges.chargeCalls).To(BeZero())
		})

		It("should reject currencies Culqi does not settle", func() {
			// Given
			attempt := newAttempt()
			attempt.Currency = "EUR"

			// When
			_, err := service.CreateRequest(ctx, settings, attempt)

			// Then
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(Equal("Please select another payment method. Culqi does not support transactions in currency 'EUR'"))
		})
	})

	Describe("PaymentURL", func() {
		It("should point at the culqi checkout page", func() {
			checkoutURL, err := settings.PaymentURL(gateway.PaymentURLParams{Amount: 25, Currency: "PEN"})

			Expect(err).ToNot(HaveOccurred())
			Expect(checkoutURL).To(HavePrefix("./culqi_checkout?"))
			Expect(checkoutURL).To(ContainSubstring("amount=25"))
		})
	})
})
