package handler

import (
	"net/http"

	"github.com/recoverypro/portal/internal/service"
)

// PlanHandler exposes the public payment plan catalog.
type PlanHandler struct {
	planSvc *service.PlanService
}

func NewPlanHandler(planSvc *service.PlanService) *PlanHandler {
	return &PlanHandler{planSvc: planSvc}
}

// ListPlans handles GET /v1/plans
func (h *PlanHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.planSvc.ListActive(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{"plans": plans})
}
