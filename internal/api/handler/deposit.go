package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/recoverypro/portal/internal/service"
)

// DepositHandler handles HTTP requests for crypto deposits.
type DepositHandler struct {
	depositSvc *service.DepositService
}

func NewDepositHandler(depositSvc *service.DepositService) *DepositHandler {
	return &DepositHandler{depositSvc: depositSvc}
}

type initiateDepositRequest struct {
	CryptoCurrency string `json:"crypto_currency"`
}

// InitiateDeposit handles POST /v1/cases/{id}/deposits
func (h *DepositHandler) InitiateDeposit(w http.ResponseWriter, r *http.Request) {
	userID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
		return
	}

	caseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-case-id", "Invalid case ID")
		return
	}

	var req initiateDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	d, err := h.depositSvc.InitiateDeposit(r.Context(), userID, caseID, req.CryptoCurrency)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusCreated, d)
}

// ListDeposits handles GET /v1/deposits
func (h *DepositHandler) ListDeposits(w http.ResponseWriter, r *http.Request) {
	userID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
		return
	}

	limit, offset := paginationParams(r)
	deposits, err := h.depositSvc.ListDeposits(r.Context(), userID, limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{"deposits": deposits})
}

// GetDeposit handles GET /v1/deposits/{id}
func (h *DepositHandler) GetDeposit(w http.ResponseWriter, r *http.Request) {
	userID, isStaff, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
		return
	}

	depositID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-deposit-id", "Invalid deposit ID")
		return
	}

	d, err := h.depositSvc.GetDeposit(r.Context(), depositID, userID, isStaff)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, d)
}

type submitTxHashRequest struct {
	TxHash string `json:"tx_hash"`
}

// SubmitTxHash handles POST /v1/deposits/{id}/tx-hash
func (h *DepositHandler) SubmitTxHash(w http.ResponseWriter, r *http.Request) {
	userID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
		return
	}

	depositID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-deposit-id", "Invalid deposit ID")
		return
	}

	var req submitTxHashRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	d, err := h.depositSvc.SubmitTxHash(r.Context(), userID, depositID, req.TxHash)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, d)
}
