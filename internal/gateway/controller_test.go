package gateway_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/frahmantamala/payment-integration/internal"
	"github.com/frahmantamala/payment-integration/internal/gateway"
)

// bareController implements only the mandatory surface.
type bareController struct{}

func (bareController) ValidateTransactionCurrency(currency string) error {
	return nil
}

func (bareController) PaymentURL(params gateway.PaymentURLParams) (string, error) {
	return "./bare_checkout?" + params.Values().Encode(), nil
}

// fullController upgrades every optional capability.
type fullController struct {
	bareController
	minAmountErr     error
	requestedFor     *gateway.PaymentURLParams
	submissionResult bool
	submissionErr    error
}

func (c *fullController) ValidateMinimumTransactionAmount(currency string, amount float64) error {
	return c.minAmountErr
}

func (c *fullController) RequestForPayment(ctx context.Context, params gateway.PaymentURLParams) error {
	c.requestedFor = &params
	return nil
}

func (c *fullController) OnPaymentRequestSubmission(data gateway.SubmissionData) (bool, error) {
	return c.submissionResult, c.submissionErr
}

var _ = Describe("capability dispatch", func() {
	Context("when the controller implements only the mandatory operations", func() {
		It("should accept any amount", func() {
			err := gateway.ValidateMinimumTransactionAmount(bareController{}, "PEN", 0.01)
			Expect(err).ToNot(HaveOccurred())
		})

		It("should treat payment requests as a no-op", func() {
			err := gateway.RequestForPayment(context.Background(), bareController{}, gateway.PaymentURLParams{})
			Expect(err).ToNot(HaveOccurred())
		})

		It("should accept submissions", func() {
			ok, err := gateway.OnPaymentRequestSubmission(bareController{}, gateway.SubmissionData{})
			Expect(err).ToNot(HaveOccurred())
			Expect(ok).To(BeTrue())
		})
	})

	Context("when the controller implements the optional capabilities", func() {
		It("should dispatch minimum amount validation", func() {
			c := &fullController{minAmountErr: errors.New("too low")}
			err := gateway.ValidateMinimumTransactionAmount(c, "PEN", 0.5)
			Expect(err).To(MatchError("too low"))
		})

		It("should dispatch payment requests", func() {
			c := &fullController{}
			err := gateway.RequestForPayment(context.Background(), c, gateway.PaymentURLParams{OrderID: "ORD-1"})
			Expect(err).ToNot(HaveOccurred())
			Expect(c.requestedFor).ToNot(BeNil())
			Expect(c.requestedFor.OrderID).To(Equal("ORD-1"))
		})

		It("should dispatch submission hooks and return their verdict", func() {
			c := &fullController{submissionResult: false}
			ok, err := gateway.OnPaymentRequestSubmission(c, gateway.SubmissionData{Currency: "PEN"})
			Expect(err).ToNot(HaveOccurred())
			Expect(ok).To(BeFalse())
		})
	})
})

var _ = Describe("PaymentURLParams", func() {
	It("should encode every field including empty ones", func() {
		params := gateway.PaymentURLParams{
			Amount:   150.5,
			Title:    "Order 42",
			Currency: "PEN",
		}

		values := params.Values()
		Expect(values.Get("amount")).To(Equal("150.5"))
		Expect(values.Get("title")).To(Equal("Order 42"))
		Expect(values.Get("currency")).To(Equal("PEN"))
		Expect(values.Has("payer_email")).To(BeTrue())
		Expect(values.Get("payer_email")).To(Equal(""))
	})
})

var _ = Describe("Registry", func() {
	var registry *gateway.Registry

	BeforeEach(func() {
		registry = gateway.NewRegistry()
	})

	It("should return registered controllers", func() {
		registry.Register("izipay", "main", bareController{})

		c, err := registry.Get("izipay", "main")
		Expect(err).ToNot(HaveOccurred())
		Expect(c).ToNot(BeNil())
	})

	It("should fail lookups for unknown gateways", func() {
		_, err := registry.Get("izipay", "missing")
		Expect(err).To(Equal(apperrors.ErrGatewayNotFound))
	})

	It("should replace an existing registration for the same pair", func() {
		registry.Register("izipay", "main", bareController{})
		replacement := &fullController{}
		registry.Register("izipay", "main", replacement)

		c, err := registry.Get("izipay", "main")
		Expect(err).ToNot(HaveOccurred())
		Expect(c).To(BeIdenticalTo(replacement))
	})

	It("should list registrations ordered by provider then gateway name", func() {
		registry.Register("izipay", "sandbox", bareController{})
		registry.Register("culqi", "main", bareController{})
		registry.Register("izipay", "main", bareController{})

		regs := registry.List()
		Expect(regs).To(HaveLen(3))
		Expect(regs[0].Provider).To(Equal("culqi"))
		Expect(regs[1].GatewayName).To(Equal("main"))
		Expect(regs[2].GatewayName).To(Equal("sandbox"))
	})

	It("should drop deregistered gateways", func() {
		registry.Register("culqi", "main", bareController{})
		registry.Deregister("culqi", "main")

		_, err := registry.Get("culqi", "main")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("ServiceName", func() {
	It("should title-case the provider and join with a dash", func() {
		Expect(gateway.ServiceName("izipay", "main")).To(Equal("Izipay-main"))
	})

	It("should fall back to the provider alone when no gateway name is set", func() {
		Expect(gateway.ServiceName("culqi", "")).To(Equal("Culqi"))
	})
})

var _ = Describe("HookRunner", func() {
	It("should be a no-op for document types without a handler", func() {
		runner := gateway.NewHookRunner()

		redirect, err := runner.Run(context.Background(), "Sales Order", "SO-1", "Completed")
		Expect(err).ToNot(HaveOccurred())
		Expect(redirect).To(Equal(""))
	})

	It("should route to the handler registered for the document type", func() {
		runner := gateway.NewHookRunner()
		runner.RegisterDoctype("Payment Request", authorizedFunc(func(ctx context.Context, docname, status string) (string, error) {
			return "https://shop.example/orders/" + docname, nil
		}))

		redirect, err := runner.Run(context.Background(), "Payment Request", "PR-7", "Completed")
		Expect(err).ToNot(HaveOccurred())
		Expect(redirect).To(Equal("https://shop.example/orders/PR-7"))
	})

	It("should return handler errors to the caller", func() {
		runner := gateway.NewHookRunner()
		runner.RegisterDoctype("Payment Request", authorizedFunc(func(ctx context.Context, docname, status string) (string, error) {
			return "", errors.New("document is locked")
		}))

		_, err := runner.Run(context.Background(), "Payment Request", "PR-7", "Completed")
		Expect(err).To(MatchError("document is locked"))
	})
})

type authorizedFunc func(ctx context.Context, docname, status string) (string, error)

func (f authorizedFunc) OnPaymentAuthorized(ctx context.Context, docname, status string) (string, error) {
	return f(ctx, docname, status)
}
