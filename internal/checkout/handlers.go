package checkout

import (
	"encoding/json"
	"net/http"

	"github.com/noah-isme/pos-toko/internal/common"
	"github.com/noah-isme/pos-toko/internal/history"
	"github.com/noah-isme/pos-toko/internal/receipt"
)

// Handler exposes the checkout endpoint.
type Handler struct {
	Service  *Service
	Receipts *receipt.Renderer
}

// Response carries the persisted record plus a ready-to-print receipt.
type Response struct {
	Transaction history.Record `json:"transaction"`
	Receipt     string         `json:"receipt"`
}

// Complete handles POST /checkout.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return
	}
	t, err := h.Service.Complete(r.Context(), in)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, Response{
		Transaction: history.FromStore(t),
		Receipt:     h.Receipts.Render(t),
	})
}
