package izipay_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	stripeapi "github.com/stripe/stripe-go/v79"

	gatewayconfig "github.com/frahmantamala/payment-integration/internal/core/datamodel/gatewayconfig"
	"github.com/frahmantamala/payment-integration/internal/gateway"
	"github.com/frahmantamala/payment-integration/internal/izipay"
)

var _ = Describe("IzipaySettings", func() {
	Describe("SettingsFromConfig", func() {
		It("should fall back to the Izipay defaults when the config has no overrides", func() {
			cfg := &gatewayconfig.GatewayConfig{
				GatewayName:    "main",
				PublishableKey: "pk_test_1",
				SecretKeyRef:   "izipay/main/secret",
			}

			settings, err := izipay.SettingsFromConfig(cfg)

			Expect(err).ToNot(HaveOccurred())
			Expect(settings.SupportedCurrencies).To(Equal([]string{"PEN"}))
			Expect(settings.MinimumAmounts).To(Equal(map[string]float64{"PEN": 1}))
		})

		It("should apply stored currency and minimum overrides", func() {
			cfg := &gatewayconfig.GatewayConfig{
				GatewayName:         "latam",
				SupportedCurrencies: json.RawMessage(`["PEN","USD"]`),
				MinimumAmounts:      json.RawMessage(`{"PEN":2,"USD":0.5}`),
			}

			settings, err := izipay.SettingsFromConfig(cfg)

			Expect(err).ToNot(HaveOccurred())
			Expect(settings.SupportedCurrencies).To(Equal([]string{"PEN", "USD"}))
			Expect(settings.MinimumAmounts).To(HaveKeyWithValue("USD", 0.5))
		})

		It("should reject configs with malformed currency JSON", func() {
			cfg := &gatewayconfig.GatewayConfig{
				GatewayName:         "broken",
				SupportedCurrencies: json.RawMessage(`["PEN"`),
			}

			_, err := izipay.SettingsFromConfig(cfg)

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("broken"))
		})
	})

	Describe("ValidateTransactionCurrency", func() {
		var settings *izipay.Settings

		BeforeEach(func() {
			settings = &izipay.Settings{
				GatewayName:         "main",
				SupportedCurrencies: []string{"PEN"},
			}
		})

		It("should accept a supported currency", func() {
			Expect(settings.ValidateTransactionCurrency("PEN")).To(Succeed())
		})

		It("should reject an unsupported currency with the payer-facing message", func() {
			err := settings.ValidateTransactionCurrency("USD")

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(Equal("Please select another payment method. Izipay does not support transactions in currency 'USD'"))
		})

		It("should not case fold currency codes", func() {
			Expect(settings.ValidateTransactionCurrency("pen")).ToNot(Succeed())
		})
	})

	Describe("ValidateMinimumTransactionAmount", func() {
		var settings *izipay.Settings

		BeforeEach(func() {
			settings = &izipay.Settings{
				GatewayName:    "main",
				MinimumAmounts: map[string]float64{"PEN": 1},
			}
		})

		It("should accept an amount equal to the minimum", func() {
			Expect(settings.ValidateMinimumTransactionAmount("PEN", 1)).To(Succeed())
		})

		It("should reject an amount below the minimum with the payer-facing message", func() {
			err := settings.ValidateMinimumTransactionAmount("PEN", 0.99)

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(Equal("For currency PEN, the minimum transaction amount should be 1"))
		})

		It("should accept any amount for a currency without a configured minimum", func() {
			Expect(settings.ValidateMinimumTransactionAmount("USD", 0.01)).To(Succeed())
		})
	})

	Describe("PaymentURL", func() {
		It("should point at the hosted checkout page with every param encoded", func() {
			settings := &izipay.Settings{GatewayName: "main"}
			params := gateway.PaymentURLParams{
				Amount:           150,
				Title:            "Payment for SINV-0001",
				Description:      "Dinner",
				ReferenceDoctype: "Sales Invoice",
				ReferenceDocname: "SINV-0001",
				PayerName:        "Jane Doe",
				PayerEmail:       "p@example.com",
				OrderID:          "ORD-9",
				Currency:         "PEN",
			}

			checkoutURL, err := settings.PaymentURL(params)

			Expect(err).ToNot(HaveOccurred())
			Expect(checkoutURL).To(Equal("./stripe_checkout?amount=150&currency=PEN&description=Dinner&order_id=ORD-9&payer_email=p%40example.com&payer_name=Jane+Doe&reference_doctype=Sales+Invoice&reference_docname=SINV-0001&title=Payment+for+SINV-0001"))
		})
	})

	Describe("ServiceName", func() {
		It("should combine the provider and the gateway account name", func() {
			settings := &izipay.Settings{GatewayName: "main"}
			Expect(settings.ServiceName()).To(Equal("Izipay-main"))
		})
	})
})

var _ = Describe("IzipayAdapter", func() {
	var (
		charges *mockChargeClient
		adapter *izipay.Adapter
	)

	BeforeEach(func() {
		charges = newMockChargeClient()
		adapter = izipay.NewAdapter(charges)
	})

	It("should report its provider key", func() {
		Expect(adapter.Provider()).To(Equal("izipay"))
	})

	It("should build a live controller from a stored config", func() {
		cfg := &gatewayconfig.GatewayConfig{GatewayName: "main", SecretKeyRef: "izipay/main/secret"}

		controller, err := adapter.BuildController(cfg)

		Expect(err).ToNot(HaveOccurred())
		Expect(controller.ValidateTransactionCurrency("PEN")).To(Succeed())
	})

	Describe("VerifyCredentials", func() {
		It("should pass when the provider accepts the key", func() {
			Expect(adapter.VerifyCredentials(context.Background(), "sk_test_ok")).To(Succeed())
		})

		It("should surface the admin-facing message when the key is rejected", func() {
			charges.verifyError = &stripeapi.Error{HTTPStatusCode: http.StatusUnauthorized}

			err := adapter.VerifyCredentials(context.Background(), "sk_test_bad")

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(Equal("Seems Publishable Key or Secret Key is wrong !!!"))
		})

		It("should report unreachable providers separately", func() {
			charges.verifyError = errors.New("connection refused")

			err := adapter.VerifyCredentials(context.Background(), "sk_test_ok")

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("could not verify credentials"))
		})
	})
})
