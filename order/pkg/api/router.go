// Package api is the HTTP surface of the order service.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

const defaultRequestTimeout = 10 * time.Second

func (a *API) Routes() http.Handler {
	timeout := a.opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(slogFormatter{log: a.log}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/healthz", a.healthz)

	r.Route("/payments", func(r chi.Router) {
		r.Get("/config", a.getConfig)

		r.Group(func(r chi.Router) {
			r.Use(a.Authenticate)
			r.Use(a.RateLimit)
			r.Post("/create-order", a.createOrder)
			r.Post("/capture-order/{id}", a.captureOrder)

			r.Group(func(r chi.Router) {
				r.Use(a.RequireAdmin)
				r.Post("/refund-order/{id}", a.refundOrder)
				r.Put("/admin/capabilities", a.updateCapabilities)
				r.Post("/admin/provider/{name}/toggle", a.toggleProvider)
			})
		})
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(a.Authenticate)
		r.Get("/", a.listOrders)
		r.With(a.RequireAdmin).Get("/admin", a.listAllOrders)
		r.Get("/{order_uuid}", a.getOrder)
		r.With(a.RateLimit).Post("/{order_uuid}/cancel", a.cancelOrder)
		r.With(a.RequireAdmin).Put("/admin/{order_uuid}/status", a.updateStatus)
	})

	r.Post("/{provider}/webhook", a.receiveWebhook)

	return r
}
