package router

import (
	"net/http"

	"skinker-shop/internal/handler"
	"skinker-shop/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Product *handler.ProductHandler
	Order   *handler.OrderHandler
	Mail    *handler.MailHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, allowedOrigins []string, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Recovery -> RequestID -> Logging -> CORS
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(allowedOrigins))

	r.Get("/health", handler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.Product.List)
		r.Get("/products/{id}", h.Product.GetByID)

		r.Post("/orders", h.Order.Create)
		r.Get("/orders/{id}", h.Order.GetByID)

		r.Get("/test-email", h.Mail.TestEmail)
	})

	return r
}
