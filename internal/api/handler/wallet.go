package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/recoverypro/portal/internal/service"
)

// WalletHandler handles the recovery wallet, withdrawals, and the recovery
// transaction history.
type WalletHandler struct {
	ledgerSvc *service.LedgerService
}

func NewWalletHandler(ledgerSvc *service.LedgerService) *WalletHandler {
	return &WalletHandler{ledgerSvc: ledgerSvc}
}

// GetWallet handles GET /v1/wallet
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
		return
	}

	wallet, err := h.ledgerSvc.GetWallet(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, wallet)
}

// ListRecoveries handles GET /v1/recoveries
func (h *WalletHandler) ListRecoveries(w http.ResponseWriter, r *http.Request) {
	userID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
		return
	}

	limit, offset := paginationParams(r)
	recoveries, err := h.ledgerSvc.ListRecoveries(r.Context(), userID, limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{"recoveries": recoveries})
}

type withdrawalRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	Destination string          `json:"destination"`
}

// RequestWithdrawal handles POST /v1/withdrawals
func (h *WalletHandler) RequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	userID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
		return
	}

	var req withdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	wd, err := h.ledgerSvc.RequestWithdrawal(r.Context(), service.WithdrawalInput{
		UserID:      userID,
		Amount:      req.Amount,
		Method:      req.Method,
		Destination: req.Destination,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusCreated, wd)
}

// ListWithdrawals handles GET /v1/withdrawals
func (h *WalletHandler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	userID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
		return
	}

	limit, offset := paginationParams(r)
	withdrawals, err := h.ledgerSvc.ListWithdrawals(r.Context(), userID, limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{"withdrawals": withdrawals})
}

// GetWithdrawal handles GET /v1/withdrawals/{id}
func (h *WalletHandler) GetWithdrawal(w http.ResponseWriter, r *http.Request) {
	userID, isStaff, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
		return
	}

	withdrawalID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-withdrawal-id", "Invalid withdrawal ID")
		return
	}

	wd, err := h.ledgerSvc.GetWithdrawal(r.Context(), withdrawalID, userID, isStaff)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, wd)
}
