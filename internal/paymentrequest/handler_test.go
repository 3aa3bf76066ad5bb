package paymentrequest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	apperrors "github.com/frahmantamala/payment-integration/internal"
	"github.com/frahmantamala/payment-integration/internal/paymentrequest"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockRequestService struct {
	createResponse *paymentrequest.PaymentRequestResponse
	createError    error
	submitResponse *paymentrequest.PaymentRequestResponse
	submitError    error
	getResponse    *paymentrequest.PaymentRequestResponse
	getError       error

	lastDTO  *paymentrequest.CreatePaymentRequestDTO
	lastName string
}

func (m *mockRequestService) Create(dto *paymentrequest.CreatePaymentRequestDTO) (*paymentrequest.PaymentRequestResponse, error) {
	m.lastDTO = dto
	if m.createError != nil {
		return nil, m.createError
	}
	return m.createResponse, nil
}

func (m *mockRequestService) Submit(ctx context.Context, name string) (*paymentrequest.PaymentRequestResponse, error) {
	m.lastName = name
	if m.submitError != nil {
		return nil, m.submitError
	}
	return m.submitResponse, nil
}

func (m *mockRequestService) GetByName(name string) (*paymentrequest.PaymentRequestResponse, error) {
	m.lastName = name
	if m.getError != nil {
		return nil, m.getError
	}
	return m.getResponse, nil
}

func namedRequest(method, target, name string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("name", name)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

var _ = Describe("PaymentRequestHandler", func() {
	var (
		service *mockRequestService
		handler *paymentrequest.Handler
	)

	BeforeEach(func() {
		service = &mockRequestService{}
		handler = paymentrequest.NewHandler(service)
	})

	Describe("CreateRequest", func() {
		It("should create a draft and return 201", func() {
			service.createResponse = &paymentrequest.PaymentRequestResponse{
				Name:   "PR-TEST0001",
				Status: paymentrequest.StatusDraft,
			}
			body := []byte(`{"amount":150.5,"currency":"PEN","gateway_provider":"izipay","gateway_name":"main"}`)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/payment-requests", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.CreateRequest(rec, req)

			Expect(rec.Code).To(Equal(http.StatusCreated))
			Expect(service.lastDTO.Amount).To(Equal(150.5))
			Expect(service.lastDTO.GatewayProvider).To(Equal("izipay"))

			var resp map[string]interface{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["name"]).To(Equal("PR-TEST0001"))
			Expect(resp["status"]).To(Equal(paymentrequest.StatusDraft))
		})

		It("should return 400 for a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/payment-requests", bytes.NewReader([]byte("{broken")))
			rec := httptest.NewRecorder()

			handler.CreateRequest(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(service.lastDTO).To(BeNil())
		})

		It("should map validation failures onto the error envelope", func() {
			service.createError = apperrors.NewValidationError("amount is required", apperrors.ErrCodeValidationFailed)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/payment-requests", bytes.NewReader([]byte(`{}`)))
			rec := httptest.NewRecorder()

			handler.CreateRequest(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))

			var resp map[string]map[string]interface{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["error"]["code"]).To(Equal("VALIDATION_FAILED"))
		})
	})

	Describe("SubmitRequest", func() {
		It("should submit the named request", func() {
			service.submitResponse = &paymentrequest.PaymentRequestResponse{
				Name:       "PR-TEST0001",
				Status:     paymentrequest.StatusRequested,
				PaymentURL: "./stripe_checkout?amount=150.5",
			}

			rec := httptest.NewRecorder()
			handler.SubmitRequest(rec, namedRequest(http.MethodPost, "/api/v1/payment-requests/PR-TEST0001/submit", "PR-TEST0001", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(service.lastName).To(Equal("PR-TEST0001"))

			var resp map[string]interface{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["payment_url"]).To(Equal("./stripe_checkout?amount=150.5"))
		})

		It("should return 400 when the gateway declines the submission", func() {
			service.submitError = apperrors.NewValidationError("the payment gateway declined this payment request", apperrors.ErrCodeSubmissionRejected)

			rec := httptest.NewRecorder()
			handler.SubmitRequest(rec, namedRequest(http.MethodPost, "/api/v1/payment-requests/PR-TEST0001/submit", "PR-TEST0001", nil))

			Expect(rec.Code).To(Equal(http.StatusBadRequest))

			var resp map[string]map[string]interface{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["error"]["code"]).To(Equal("SUBMISSION_REJECTED"))
		})
	})

	Describe("GetRequest", func() {
		It("should return the named request", func() {
			service.getResponse = &paymentrequest.PaymentRequestResponse{
				Name:   "PR-TEST0001",
				Status: paymentrequest.StatusPaid,
			}

			rec := httptest.NewRecorder()
			handler.GetRequest(rec, namedRequest(http.MethodGet, "/api/v1/payment-requests/PR-TEST0001", "PR-TEST0001", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp map[string]interface{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["status"]).To(Equal(paymentrequest.StatusPaid))
		})

		It("should return 404 for an unknown request", func() {
			service.getError = apperrors.ErrPaymentRequestNotFound

			rec := httptest.NewRecorder()
			handler.GetRequest(rec, namedRequest(http.MethodGet, "/api/v1/payment-requests/PR-MISSING", "PR-MISSING", nil))

			Expect(rec.Code).To(Equal(http.StatusNotFound))

			var resp map[string]map[string]interface{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["error"]["code"]).To(Equal("PAYMENT_REQUEST_NOT_FOUND"))
		})
	})
})
