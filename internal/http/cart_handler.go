package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/cart-session-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/cart-session-service-go/internal/pricing"
)

const requestTimeout = 3 * time.Second

// CartService is the slice of the cart engine the handlers call.
type CartService interface {
	CreateCart(ctx context.Context) (*cart.Cart, error)
	GetCart(ctx context.Context, cartID string) (*cart.Cart, error)
	AddItem(ctx context.Context, cartID, itemName string, clientVersion *int64) (*cart.Cart, error)
	RemoveItem(ctx context.Context, cartID, itemName string, clientVersion *int64) (*cart.Cart, error)
	ClearCart(ctx context.Context, cartID string, clientVersion *int64) (*cart.Cart, error)
	Sync(ctx context.Context, cartID string, ops []cart.PendingOperation) (cart.SyncResult, error)
}

type CartHandler struct {
	service CartService
}

func NewCartHandler(service CartService) *CartHandler {
	return &CartHandler{service: service}
}

// CartResponse is the wire shape of a cart, also used as the stream's initial
// snapshot frame.
type CartResponse struct {
	CartID  string          `json:"cartId"`
	Items   []CartItemDTO   `json:"items"`
	Total   decimal.Decimal `json:"total"`
	Version int64           `json:"version"`
}

type CartItemDTO struct {
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

func NewCartResponse(c *cart.Cart) CartResponse {
	resp := CartResponse{
		CartID:  c.ID,
		Items:   []CartItemDTO{},
		Total:   c.Total,
		Version: c.Version,
	}
	for _, line := range c.Lines() {
		resp.Items = append(resp.Items, CartItemDTO{
			Name:       line.Name,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			TotalPrice: line.LineTotal,
		})
	}
	return resp
}

func (h *CartHandler) CreateCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	c, err := h.service.CreateCart(ctx)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NewCartResponse(c))
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartId")

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	c, err := h.service.GetCart(ctx, cartID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NewCartResponse(c))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartId")

	var body struct {
		ItemName      string `json:"itemName"`
		ClientVersion *int64 `json:"clientVersion"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(body.ItemName) == "" {
		writeError(w, http.StatusBadRequest, "Item name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	c, err := h.service.AddItem(ctx, cartID, body.ItemName, body.ClientVersion)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NewCartResponse(c))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartId")
	itemName := chi.URLParam(r, "itemName")

	clientVersion, err := clientVersionQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid clientVersion")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	c, err := h.service.RemoveItem(ctx, cartID, itemName, clientVersion)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NewCartResponse(c))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartId")

	clientVersion, err := clientVersionQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid clientVersion")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if _, err := h.service.ClearCart(ctx, cartID, clientVersion); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (h *CartHandler) Sync(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartId")

	var body struct {
		Operations []cart.PendingOperation `json:"operations"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := h.service.Sync(ctx, cartID, body.Operations)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func clientVersionQuery(r *http.Request) (*int64, error) {
	raw := r.URL.Query().Get("clientVersion")
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

type errorResponse struct {
	Message          string    `json:"message"`
	Status           string    `json:"status"`
	Timestamp        time.Time `json:"timestamp"`
	SyncedOperations *int      `json:"syncedOperations,omitempty"`
}

// writeDomainError maps the domain error taxonomy onto HTTP statuses. Anything
// unclassified becomes a generic 500 without leaking internals.
func writeDomainError(w http.ResponseWriter, err error) {
	var (
		notFound        *cart.NotFoundError
		unknownItem     *pricing.UnknownItemError
		invalidQuantity *pricing.InvalidQuantityError
		versionConflict *cart.VersionConflictError
		syncErr         *cart.SyncError
	)

	switch {
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &syncErr):
		resp := errorResponse{
			Message:          syncErr.Error(),
			Status:           "error",
			Timestamp:        time.Now().UTC(),
			SyncedOperations: &syncErr.Synced,
		}
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.As(err, &unknownItem):
		writeError(w, http.StatusBadRequest, unknownItem.Error())
	case errors.As(err, &invalidQuantity):
		writeError(w, http.StatusBadRequest, invalidQuantity.Error())
	case errors.As(err, &versionConflict):
		writeError(w, http.StatusConflict, "Version conflict, please refresh")
	default:
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{
		Message:   msg,
		Status:    "error",
		Timestamp: time.Now().UTC(),
	})
}
