package handler

import (
	"net/http"
	"strings"

	"github.com/recoverypro/portal/internal/service"
)

// DashboardHandler serves the user dashboard and display-rate lookups.
type DashboardHandler struct {
	statsSvc *service.StatsService
	rates    service.ExchangeRateService
}

func NewDashboardHandler(statsSvc *service.StatsService, rates service.ExchangeRateService) *DashboardHandler {
	return &DashboardHandler{statsSvc: statsSvc, rates: rates}
}

// Dashboard handles GET /v1/me/dashboard
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
		return
	}

	dash, err := h.statsSvc.UserDashboard(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, dash)
}

// Rate handles GET /v1/rates?from=USD&to=EUR
func (h *DashboardHandler) Rate(w http.ResponseWriter, r *http.Request) {
	from := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("from")))
	to := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("to")))
	if len(from) != 3 || len(to) != 3 {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-currency", "from and to must be 3-letter ISO codes")
		return
	}

	rate, err := h.rates.GetExchangeRate(r.Context(), from, to)
	if err != nil {
		RespondError(w, r, http.StatusBadGateway, "rates/unavailable", "no rate available for this pair")
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"from": from,
		"to":   to,
		"rate": rate,
	})
}
