package dashboard

import (
	"net/http"

	"github.com/noah-isme/pos-toko/internal/common"
)

// Handler exposes the dashboard summary endpoint.
type Handler struct {
	Service *Service
}

// Summary handles GET /dashboard/summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.TodaySummary(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, summary)
}
