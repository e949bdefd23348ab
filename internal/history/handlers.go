package history

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/pos-toko/internal/common"
	"github.com/noah-isme/pos-toko/internal/receipt"
	"github.com/noah-isme/pos-toko/internal/store"
)

// Handler exposes transaction history endpoints.
type Handler struct {
	Service  *Service
	Receipts *receipt.Renderer
}

// List handles GET /api/v1/transactions.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, 20)
	records, total, err := h.Service.List(r.Context(), page, perPage)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       records,
		"pagination": common.Pagination{Page: page, PerPage: perPage, TotalItems: total},
	})
}

// Get handles GET /api/v1/transactions/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	record, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": record})
}

// Receipt handles GET /api/v1/transactions/{id}/receipt, returning the
// printable plain-text document for the thermal printer.
func (h *Handler) Receipt(w http.ResponseWriter, r *http.Request) {
	t, err := h.Service.Storage.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "transaction not found", nil)
			return
		}
		common.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(h.Receipts.Render(t)))
}
