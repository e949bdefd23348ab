package cart

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/pos-toko/internal/catalog"
	"github.com/noah-isme/pos-toko/internal/common"
	"github.com/noah-isme/pos-toko/internal/money"
	"github.com/noah-isme/pos-toko/internal/pricing"
)

// Handler exposes the active cart over HTTP for the terminal UI.
type Handler struct {
	Session           *Session
	Catalog           *catalog.Service
	DefaultTaxRateBps int
}

// View is the cart payload returned to the UI: the snapshot plus the current
// quote when one can be computed.
type View struct {
	Snapshot
	Quote *pricing.Quote `json:"quote,omitempty"`
}

// Get handles GET /api/v1/cart.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{"data": h.view()})
}

// AddItem handles POST /api/v1/cart/items.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ProductID string `json:"productId"`
		Qty       int    `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_JSON", "invalid request body", nil)
		return
	}
	product, err := h.Catalog.GetProduct(r.Context(), in.ProductID)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	h.Session.AddItem(product.ID, product.Name, product.Price, in.Qty)
	common.JSON(w, http.StatusOK, map[string]any{"data": h.view()})
}

// UpdateItem handles PATCH /api/v1/cart/items/{productId}. Quantity zero
// removes the line, mirroring the minus button at quantity one.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Qty int `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_JSON", "invalid request body", nil)
		return
	}
	if err := h.Session.SetQuantity(chi.URLParam(r, "productId"), in.Qty); err != nil {
		h.writeCartError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.view()})
}

// RemoveItem handles DELETE /api/v1/cart/items/{productId}.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.RemoveItem(chi.URLParam(r, "productId")); err != nil {
		h.writeCartError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.view()})
}

// SetDiscount handles POST /api/v1/cart/discount. Amounts arrive as the raw
// text typed on the keypad; malformed input counts as zero.
func (h *Handler) SetDiscount(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Amount string `json:"amount"`
		Mode   string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_JSON", "invalid request body", nil)
		return
	}
	spec := pricing.DiscountSpec{Mode: pricing.DiscountMode(in.Mode)}
	switch spec.Mode {
	case pricing.DiscountPercent:
		spec.Bps = money.ParseRateBps(in.Amount)
	case pricing.DiscountFixed:
		spec.Amount = money.ParseAmount(in.Amount)
	default:
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "mode must be percentage or fixed", nil)
		return
	}
	h.Session.SetDiscount(spec)
	common.JSON(w, http.StatusOK, map[string]any{"data": h.view()})
}

// SetTaxRate handles POST /api/v1/cart/tax-rate.
func (h *Handler) SetTaxRate(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Rate string `json:"rate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_JSON", "invalid request body", nil)
		return
	}
	h.Session.SetTaxRate(money.ParseRateBps(in.Rate))
	common.JSON(w, http.StatusOK, map[string]any{"data": h.view()})
}

// Quote handles GET /api/v1/cart/quote.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	quote, err := h.Session.Quote()
	if err != nil {
		h.writeCartError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": quote})
}

// Cancel handles POST /api/v1/cart/cancel: the session is discarded with no
// side effects on history.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.Session.Cancel(h.DefaultTaxRateBps)
	common.JSON(w, http.StatusOK, map[string]any{"data": h.view()})
}

func (h *Handler) view() View {
	v := View{Snapshot: h.Session.Snapshot()}
	if quote, err := h.Session.Quote(); err == nil {
		v.Quote = &quote
	}
	return v
}

func (h *Handler) writeCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnknownItem):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "item not in cart", nil)
	case errors.Is(err, ErrEmptyCart):
		common.JSONError(w, http.StatusUnprocessableEntity, "EMPTY_CART", "cart is empty", nil)
	case errors.Is(err, pricing.ErrInvalidQuantity):
		common.JSONError(w, http.StatusUnprocessableEntity, "INVALID_QUANTITY", "quantity must be at least 1", nil)
	case errors.Is(err, pricing.ErrInvalidPrice):
		common.JSONError(w, http.StatusUnprocessableEntity, "INVALID_PRICE", "unit price must not be negative", nil)
	case errors.Is(err, pricing.ErrInvalidTaxRate):
		common.JSONError(w, http.StatusUnprocessableEntity, "INVALID_TAX_RATE", "tax rate must not be negative", nil)
	default:
		common.WriteError(w, err)
	}
}
