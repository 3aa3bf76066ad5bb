package gateway_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/payment-integration/internal/gateway"
)

func TestGateway(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Gateway Suite")
}

var _ = Describe("BuildRedirectURL", func() {
	Context("when the charge completed with a reference document", func() {
		It("should land on the success page with raw document parameters and an empty redirect_to", func() {
			url := gateway.BuildRedirectURL(gateway.RedirectParams{
				StatusChangedToCompleted: true,
				ReferenceDoctype:         "Sales Invoice",
				ReferenceDocname:         "SINV-0001",
			})

			Expect(url).To(Equal("payment-success?doctype=Sales Invoice&docname=SINV-0001?redirect_to="))
		})

		It("should join a caller redirect target with & because the success base carries a query string", func() {
			url := gateway.BuildRedirectURL(gateway.RedirectParams{
				StatusChangedToCompleted: true,
				ReferenceDoctype:         "Sales Invoice",
				ReferenceDocname:         "SINV-0001",
				RedirectTo:               "https://caller.example/x",
			})

			Expect(url).To(Equal("payment-success?doctype=Sales Invoice&docname=SINV-0001&redirect_to=https%3A%2F%2Fcaller.example%2Fx"))
		})

		It("should append redirect_message with & and form encoding", func() {
			url := gateway.BuildRedirectURL(gateway.RedirectParams{
				StatusChangedToCompleted: true,
				ReferenceDoctype:         "Sales Invoice",
				ReferenceDocname:         "SINV-0001",
				RedirectMessage:          "Thank you for your order",
			})

			Expect(url).To(Equal("payment-success?doctype=Sales Invoice&docname=SINV-0001?redirect_to=&redirect_message=Thank+you+for+your+order"))
		})
	})

	Context("when a gateway-level override URL is configured", func() {
		It("should replace the success base and clear the caller redirect target", func() {
			url := gateway.BuildRedirectURL(gateway.RedirectParams{
				StatusChangedToCompleted: true,
				ReferenceDoctype:         "Sales Invoice",
				ReferenceDocname:         "SINV-0001",
				RedirectOverrideURL:      "https://shop.example/thanks",
				RedirectTo:               "https://caller.example/x",
			})

			Expect(url).To(Equal("https://shop.example/thanks?redirect_to="))
		})

		It("should keep the second question mark when the override already has a query string", func() {
			url := gateway.BuildRedirectURL(gateway.RedirectParams{
				StatusChangedToCompleted: true,
				RedirectOverrideURL:      "https://shop.example/landing?src=pay",
			})

			Expect(url).To(Equal("https://shop.example/landing?src=pay?redirect_to="))
		})
	})

	Context("when the charge completed without reference documents or override", func() {
		It("should land on the bare success page", func() {
			url := gateway.BuildRedirectURL(gateway.RedirectParams{
				StatusChangedToCompleted: true,
			})

			Expect(url).To(Equal("payment-success?redirect_to="))
		})
	})

	Context("when the charge did not complete", func() {
		It("should land on the failure page with an empty redirect_to", func() {
			url := gateway.BuildRedirectURL(gateway.RedirectParams{
				StatusChangedToCompleted: false,
			})

			Expect(url).To(Equal("payment-failed?redirect_to="))
		})

		It("should carry the caller redirect target on the failure page", func() {
			url := gateway.BuildRedirectURL(gateway.RedirectParams{
				StatusChangedToCompleted: false,
				RedirectTo:               "https://caller.example/cart",
			})

			Expect(url).To(Equal("payment-failed?redirect_to=https%3A%2F%2Fcaller.example%2Fcart"))
		})
	})

	It("should be a pure function of its inputs", func() {
		params := gateway.RedirectParams{
			StatusChangedToCompleted: true,
			ReferenceDoctype:         "Payment Request",
			ReferenceDocname:         "PR-0042",
			RedirectMessage:          "done",
		}

		first := gateway.BuildRedirectURL(params)
		second := gateway.BuildRedirectURL(params)

		Expect(first).To(Equal(second))
	})
})
