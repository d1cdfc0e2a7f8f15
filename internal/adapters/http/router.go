package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/algonex/license-portal/internal/application"
)

// Options carries the transport-level knobs the router needs.
type Options struct {
	// CookieSecure marks session cookies Secure; off for plain-HTTP dev.
	CookieSecure bool
}

// Handler is the HTTP adapter entrypoint. It holds only the
// application service and transport options so the adapter boundary
// stays clean.
type Handler struct {
	service  *application.Service
	validate *validator.Validate
	opts     Options
}

func NewHandler(service *application.Service, opts Options) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		opts:     opts,
	}
}

// NewRouter registers all routes and the middleware stack.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(corsMiddleware)
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", "method not allowed")
	})

	r.Get("/healthz", handler.healthz)

	r.Route("/api", func(r chi.Router) {
		r.Post("/license/validate", handler.validateLicense)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/auth/login", handler.adminLogin)
			r.Group(func(r chi.Router) {
				r.Use(handler.adminAuthMiddleware)
				r.Get("/auth/verify", handler.adminVerify)
				r.Route("/licenses", func(r chi.Router) {
					r.Get("/list", handler.listLicenses)
					r.Post("/create", handler.createLicense)
					r.Put("/update", handler.updateLicense)
					r.Delete("/delete", handler.deleteLicense)
					r.Get("/pending", handler.listPending)
					r.Post("/approve", handler.approveLicense)
					r.Post("/reject", handler.rejectLicense)
				})
			})
		})

		r.Route("/client", func(r chi.Router) {
			r.Post("/auth/signup", handler.clientSignup)
			r.Post("/auth/login", handler.clientLogin)
			r.Group(func(r chi.Router) {
				r.Use(handler.clientAuthMiddleware)
				r.Get("/auth/verify", handler.clientVerify)
				r.Post("/license/request", handler.requestLicense)
				r.Get("/license/my-licenses", handler.myLicenses)
			})
		})
	})

	return r
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
