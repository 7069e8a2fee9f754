package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *CartHandler, stream *StreamHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", healthHandler)

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Post("/", h.CreateCart)
		r.Get("/{cartId}", h.GetCart)
		r.Post("/{cartId}/items", h.AddItem)
		r.Delete("/{cartId}/items/{itemName}", h.RemoveItem)
		r.Delete("/{cartId}", h.ClearCart)
		r.Post("/{cartId}/sync", h.Sync)
	})

	r.Get("/ws/cart/{cartId}", stream.Serve)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "cart-session-service"})
}
