package rest

import (
	"crypto/rsa"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/payment-integration/internal/culqi"
	"github.com/frahmantamala/payment-integration/internal/gateway"
	"github.com/frahmantamala/payment-integration/internal/gatewayconfig"
	"github.com/frahmantamala/payment-integration/internal/izipay"
	"github.com/frahmantamala/payment-integration/internal/paymentrequest"
	"github.com/frahmantamala/payment-integration/internal/requestlog"
	"github.com/frahmantamala/payment-integration/internal/transport/middleware"
	"github.com/frahmantamala/payment-integration/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, registry *gateway.Registry, izipayHandler *izipay.Handler, culqiHandler *culqi.Handler, gatewayHandler *gatewayconfig.Handler, requestHandler *paymentrequest.Handler, logHandler *requestlog.Handler, adminKey *rsa.PublicKey, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db, registry)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Checkout routes, called by the hosted payment pages. The provider
		// segment is fixed per handler because each one decodes its own
		// charge payload.
		r.Route("/gateways", func(gr chi.Router) {
			if izipayHandler != nil {
				gr.Post("/izipay/{gateway}/checkout", izipayHandler.Checkout)
			}
			if culqiHandler != nil {
				gr.Post("/culqi/{gateway}/checkout", culqiHandler.Checkout)
			}
			if gatewayHandler != nil {
				gr.Get("/{provider}/{gateway}/payment-url", gatewayHandler.PaymentURL)
			}
		})

		// Payment request lifecycle
		if requestHandler != nil {
			r.Route("/payment-requests", func(pr chi.Router) {
				pr.Post("/", requestHandler.CreateRequest)
				pr.Get("/{name}", requestHandler.GetRequest)
				pr.Post("/{name}/submit", requestHandler.SubmitRequest)
			})
		}

		// Admin surface, gated by the RS256 bearer token
		if adminKey != nil {
			r.Group(func(ar chi.Router) {
				ar.Use(middleware.AdminAuth(adminKey, logger))

				if gatewayHandler != nil {
					ar.Route("/admin/gateways", func(agr chi.Router) {
						agr.Get("/", gatewayHandler.ListGateways)
						agr.Get("/{provider}/{gateway}", gatewayHandler.GetGateway)
						agr.Put("/{provider}/{gateway}", gatewayHandler.SaveGateway)
					})
				}

				if logHandler != nil {
					ar.Route("/admin/request-logs", func(alr chi.Router) {
						alr.Get("/", logHandler.ListLogs)
						alr.Get("/{id}", logHandler.GetLog)
					})
				}
			})
		}
	})
}
