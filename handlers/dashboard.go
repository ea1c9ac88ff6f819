package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/sports-event-tracker/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
	responder
}

func NewDashboardHandler(s services.DashboardService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{dashboardService: s, responder: newResponder(logger)}
}

func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.dashboardService.GetOverview(r.Context())
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, overview)
}
