package http

import (
	"log"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/andreasstove999/ecommerce-system/cart-session-service-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/cart-session-service-go/internal/notify"
)

// StreamHandler upgrades a per-cart websocket, pushes the full current state
// as the first frame, and then relays every mutation event until the client
// disconnects or a newer connection for the same cart displaces this one.
type StreamHandler struct {
	service  CartService
	router   *notify.Router
	logger   *log.Logger
	upgrader websocket.Upgrader
}

func NewStreamHandler(service CartService, router *notify.Router, logger *log.Logger) *StreamHandler {
	return &StreamHandler{
		service: service,
		router:  router,
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// wsObserver serializes frame writes; the snapshot and routed events share
// one connection.
type wsObserver struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (o *wsObserver) Send(ev events.Event) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.conn.WriteJSON(ev)
}

func (o *wsObserver) sendSnapshot(resp CartResponse) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.conn.WriteJSON(resp)
}

func (h *StreamHandler) Serve(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartId")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		return
	}

	obs := &wsObserver{conn: conn}
	handle := h.router.Register(cartID, obs)

	c, err := h.service.GetCart(r.Context(), cartID)
	if err != nil {
		h.logger.Printf("stream: initial state for cart %s: %v", cartID, err)
		h.router.Release(cartID, handle)
		_ = conn.Close()
		return
	}
	if err := obs.sendSnapshot(NewCartResponse(c)); err != nil {
		h.logger.Printf("stream: send snapshot for cart %s: %v", cartID, err)
		h.router.Release(cartID, handle)
		_ = conn.Close()
		return
	}

	// Block on the read side to notice the disconnect; the client is not
	// expected to send frames.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.router.Release(cartID, handle)
	_ = conn.Close()
}
