package izipay_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/frahmantamala/payment-integration/internal"
	"github.com/frahmantamala/payment-integration/internal/gateway"
	"github.com/frahmantamala/payment-integration/internal/izipay"
)

type mockCheckoutService struct {
	descriptor   *gateway.RedirectDescriptor
	err          error
	lastSettings *izipay.Settings
	lastAttempt  *izipay.PaymentAttempt
}

func (m *mockCheckoutService) CreateRequest(ctx context.Context, settings *izipay.Settings, attempt *izipay.PaymentAttempt) (*gateway.RedirectDescriptor, error) {
	m.lastSettings = settings
	m.lastAttempt = attempt
	if m.err != nil {
		return nil, m.err
	}
	return m.descriptor, nil
}

// stubController stands in for a controller from another provider that
// happens to share a gateway name.
type stubController struct{}

func (stubController) ValidateTransactionCurrency(currency string) error { return nil }
func (stubController) PaymentURL(params gateway.PaymentURLParams) (string, error) {
	return "", nil
}

var _ = Describe("Izipay Handler", func() {
	var (
		registry *gateway.Registry
		service  *mockCheckoutService
		handler  *izipay.Handler
		settings *izipay.Settings
	)

	checkoutRequest := func(gatewayName string, body []byte) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/gateways/izipay/"+gatewayName+"/checkout", bytes.NewReader(body))
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("gateway", gatewayName)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

		w := httptest.NewRecorder()
		handler.Checkout(w, req)
		return w
	}

	BeforeEach(func() {
		registry = gateway.NewRegistry()
		settings = &izipay.Settings{
			GatewayName:         "main",
			SecretKeyRef:        "izipay/main/secret",
			SupportedCurrencies: []string{"PEN"},
		}
		registry.Register(izipay.Provider, "main", settings)

		service = &mockCheckoutService{
			descriptor: &gateway.RedirectDescriptor{
				RedirectTo: "payment-success?redirect_to=",
				Status:     "Completed",
			},
		}
		handler = izipay.NewHandler(service, registry)
	})

	It("should return the redirect descriptor for a registered gateway", func() {
		body, err := json.Marshal(map[string]interface{}{
			"amount":   150,
			"currency": "PEN",
			"token":    "tok_visa_0001",
		})
		Expect(err).NotTo(HaveOccurred())

		w := checkoutRequest("main", body)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var response map[string]string
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response).To(HaveKeyWithValue("redirect_to", "payment-success?redirect_to="))
		Expect(response).To(HaveKeyWithValue("status", "Completed"))

		Expect(service.lastSettings).To(Equal(settings))
		Expect(service.lastAttempt.Token).To(Equal("tok_visa_0001"))
	})

	It("should return 404 for an unknown gateway", func() {
		w := checkoutRequest("nope", []byte(`{}`))

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should return 404 when the name belongs to another provider's controller", func() {
		registry.Register(izipay.Provider, "foreign", stubController{})

		w := checkoutRequest("foreign", []byte(`{}`))

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should reject malformed request bodies", func() {
		w := checkoutRequest("main", []byte(`{"amount":`))

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should map validation errors onto their status code", func() {
		service.err = apperrors.NewValidationError("Please select another payment method. Izipay does not support transactions in currency 'USD'", apperrors.ErrCodeUnsupportedCurrency)

		body, err := json.Marshal(map[string]interface{}{
			"amount":   150,
			"currency": "USD",
			"token":    "tok_visa_0001",
		})
		Expect(err).NotTo(HaveOccurred())

		w := checkoutRequest("main", body)

		Expect(w.Code).To(Equal(http.StatusBadRequest))

		var response struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Error.Code).To(Equal("UNSUPPORTED_CURRENCY"))
	})
})
