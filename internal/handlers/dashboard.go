package handlers

import (
	"net/http"

	"github.com/AnokSystem/anok-pedido-flow/httpx"
	"github.com/AnokSystem/anok-pedido-flow/internal/services"
)

type DashboardHandler struct {
	stats *services.DashboardService
}

func NewDashboardHandler(stats *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{stats: stats}
}

func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	d, err := h.stats.Stats(r.Context(), currentUser(r))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}
