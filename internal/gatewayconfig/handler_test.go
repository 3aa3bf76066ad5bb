package gatewayconfig_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/payment-integration/internal"
	"github.com/frahmantamala/payment-integration/internal/gateway"
	"github.com/frahmantamala/payment-integration/internal/gatewayconfig"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockAdminService struct {
	saveResponse *gatewayconfig.GatewayResponse
	saveError    error
	getResponse  *gatewayconfig.GatewayResponse
	getError     error
	listResponse []*gatewayconfig.GatewayResponse
	listError    error
	paymentURL   string
	urlError     error

	lastProvider  string
	lastGateway   string
	lastDTO       *gatewayconfig.SaveGatewayDTO
	lastUpdatedBy string
	lastParams    gateway.PaymentURLParams
}

func (m *mockAdminService) Save(ctx context.Context, provider, gatewayName string, dto *gatewayconfig.SaveGatewayDTO, updatedBy string) (*gatewayconfig.GatewayResponse, error) {
	m.lastProvider = provider
	m.lastGateway = gatewayName
	m.lastDTO = dto
	m.lastUpdatedBy = updatedBy
	if m.saveError != nil {
		return nil, m.saveError
	}
	return m.saveResponse, nil
}

func (m *mockAdminService) Get(provider, gatewayName string) (*gatewayconfig.GatewayResponse, error) {
	m.lastProvider = provider
	m.lastGateway = gatewayName
	if m.getError != nil {
		return nil, m.getError
	}
	return m.getResponse, nil
}

func (m *mockAdminService) List() ([]*gatewayconfig.GatewayResponse, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	return m.listResponse, nil
}

func (m *mockAdminService) PaymentURL(provider, gatewayName string, params gateway.PaymentURLParams) (string, error) {
	m.lastProvider = provider
	m.lastGateway = gatewayName
	m.lastParams = params
	if m.urlError != nil {
		return "", m.urlError
	}
	return m.paymentURL, nil
}

func adminRequest(method, target, provider, gatewayName string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("provider", provider)
	rctx.URLParams.Add("gateway", gatewayName)

	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = internal.ContextWithUserID(ctx, "admin@example.com")
	return req.WithContext(ctx)
}

var _ = Describe("GatewayConfigHandler", func() {
	var (
		service *mockAdminService
		handler *gatewayconfig.Handler
	)

	BeforeEach(func() {
		service = &mockAdminService{}
		handler = gatewayconfig.NewHandler(service)
	})

	Describe("SaveGateway", func() {
		It("should pass the parsed dto and authenticated user to the service", func() {
			service.saveResponse = &gatewayconfig.GatewayResponse{
				Provider:    "izipay",
				GatewayName: "main",
				ServiceName: "Izipay-main",
				Enabled:     true,
			}
			body := []byte(`{"publishable_key":"pk_test_123","secret_key":"sk_test_123","supported_currencies":["PEN"]}`)

			req := adminRequest(http.MethodPut, "/api/v1/admin/gateways/izipay/main", "izipay", "main", body)
			rec := httptest.NewRecorder()

			handler.SaveGateway(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(service.lastProvider).To(Equal("izipay"))
			Expect(service.lastGateway).To(Equal("main"))
			Expect(service.lastUpdatedBy).To(Equal("admin@example.com"))
			Expect(service.lastDTO.PublishableKey).To(Equal("pk_test_123"))
			Expect(service.lastDTO.SupportedCurrencies).To(Equal([]string{"PEN"}))

			var resp map[string]interface{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["service_name"]).To(Equal("Izipay-main"))
			Expect(resp["enabled"]).To(BeTrue())
		})

		It("should return 400 for a malformed body", func() {
			req := adminRequest(http.MethodPut, "/api/v1/admin/gateways/izipay/main", "izipay", "main", []byte("{not json"))
			rec := httptest.NewRecorder()

			handler.SaveGateway(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(service.lastDTO).To(BeNil())
		})

		It("should map service errors onto the error envelope", func() {
			service.saveError = internal.ErrGatewayNotFound
			body := []byte(`{"publishable_key":"pk_test_123","secret_key":"sk_test_123"}`)

			req := adminRequest(http.MethodPut, "/api/v1/admin/gateways/paypal/main", "paypal", "main", body)
			rec := httptest.NewRecorder()

			handler.SaveGateway(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNotFound))

			var resp map[string]map[string]interface{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["error"]["code"]).To(Equal("GATEWAY_NOT_FOUND"))
		})
	})

	Describe("GetGateway", func() {
		It("should return the stored config", func() {
			service.getResponse = &gatewayconfig.GatewayResponse{
				Provider:            "culqi",
				GatewayName:         "main",
				ServiceName:         "Culqi-main",
				SupportedCurrencies: []string{"PEN", "USD"},
			}

			req := adminRequest(http.MethodGet, "/api/v1/admin/gateways/culqi/main", "culqi", "main", nil)
			rec := httptest.NewRecorder()

			handler.GetGateway(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(service.lastProvider).To(Equal("culqi"))

			var resp map[string]interface{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["service_name"]).To(Equal("Culqi-main"))
		})

		It("should return 404 for an unknown gateway", func() {
			service.getError = internal.ErrGatewayNotFound

			req := adminRequest(http.MethodGet, "/api/v1/admin/gateways/izipay/missing", "izipay", "missing", nil)
			rec := httptest.NewRecorder()

			handler.GetGateway(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("ListGateways", func() {
		It("should wrap the configs in a gateways envelope", func() {
			service.listResponse = []*gatewayconfig.GatewayResponse{
				{Provider: "culqi", GatewayName: "main"},
				{Provider: "izipay", GatewayName: "main"},
			}

			req := adminRequest(http.MethodGet, "/api/v1/admin/gateways", "", "", nil)
			rec := httptest.NewRecorder()

			handler.ListGateways(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp map[string][]map[string]interface{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["gateways"]).To(HaveLen(2))
		})
	})

	Describe("PaymentURL", func() {
		It("should parse the query into payment url params", func() {
			service.paymentURL = "./stripe_checkout?amount=150"

			req := adminRequest(http.MethodGet, "/api/v1/gateways/izipay/main/payment-url?amount=150&currency=PEN&title=Order&reference_doctype=Sales+Invoice&reference_docname=SINV-0001", "izipay", "main", nil)
			rec := httptest.NewRecorder()

			handler.PaymentURL(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(service.lastParams.Amount).To(Equal(150.0))
			Expect(service.lastParams.Currency).To(Equal("PEN"))
			Expect(service.lastParams.Title).To(Equal("Order"))
			Expect(service.lastParams.ReferenceDoctype).To(Equal("Sales Invoice"))
			Expect(service.lastParams.ReferenceDocname).To(Equal("SINV-0001"))

			var resp map[string]string
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["payment_url"]).To(Equal("./stripe_checkout?amount=150"))
		})

		It("should return 400 for a malformed amount", func() {
			req := adminRequest(http.MethodGet, "/api/v1/gateways/izipay/main/payment-url?amount=abc", "izipay", "main", nil)
			rec := httptest.NewRecorder()

			handler.PaymentURL(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 404 for an unregistered gateway", func() {
			service.urlError = internal.ErrGatewayNotFound

			req := adminRequest(http.MethodGet, "/api/v1/gateways/izipay/main/payment-url?amount=10", "izipay", "main", nil)
			rec := httptest.NewRecorder()

			handler.PaymentURL(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})
})
