package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/recoverypro/portal/internal/domain"
	"github.com/recoverypro/portal/internal/models"
	"github.com/recoverypro/portal/internal/service"
)

// AdminHandler groups the staff-only review and pipeline operations.
type AdminHandler struct {
	caseSvc    *service.CaseService
	depositSvc *service.DepositService
	ledgerSvc  *service.LedgerService
	kycSvc     *service.KYCService
	planSvc    *service.PlanService
	statsSvc   *service.StatsService
	store      service.QueryStore
}

func NewAdminHandler(caseSvc *service.CaseService, depositSvc *service.DepositService, ledgerSvc *service.LedgerService, kycSvc *service.KYCService, planSvc *service.PlanService, statsSvc *service.StatsService, store service.QueryStore) *AdminHandler {
	return &AdminHandler{
		caseSvc:    caseSvc,
		depositSvc: depositSvc,
		ledgerSvc:  ledgerSvc,
		kycSvc:     kycSvc,
		planSvc:    planSvc,
		statsSvc:   statsSvc,
		store:      store,
	}
}

// Overview handles GET /v1/admin/overview
func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.statsSvc.AdminOverview(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, overview)
}

// ListCases handles GET /v1/admin/cases?status=
func (h *AdminHandler) ListCases(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = string(domain.CaseSubmitted)
	}
	limit, offset := paginationParams(r)
	cases, err := h.caseSvc.ListCasesByStatus(r.Context(), domain.CaseStatus(status), limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"cases": cases})
}

type updateCaseStatusRequest struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// UpdateCaseStatus handles POST /v1/admin/cases/{id}/status
func (h *AdminHandler) UpdateCaseStatus(w http.ResponseWriter, r *http.Request) {
	actorID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
		return
	}

	caseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-case-id", "Invalid case ID")
		return
	}

	var req updateCaseStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	c, err := h.caseSvc.AdvanceStatus(r.Context(), caseID, domain.CaseStatus(req.Status), req.Message, actorID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, c)
}

type assignCaseRequest struct {
	AgentID   uuid.UUID `json:"agent_id"`
	RiskScore int       `json:"risk_score"`
}

// AssignCase handles POST /v1/admin/cases/{id}/assign
func (h *AdminHandler) AssignCase(w http.ResponseWriter, r *http.Request) {
	caseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-case-id", "Invalid case ID")
		return
	}

	var req assignCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	c, err := h.caseSvc.Assign(r.Context(), caseID, req.AgentID, req.RiskScore)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, c)
}

type recordRecoveryRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// RecordRecovery handles POST /v1/admin/cases/{id}/recoveries
func (h *AdminHandler) RecordRecovery(w http.ResponseWriter, r *http.Request) {
	actorID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
		return
	}

	caseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-case-id", "Invalid case ID")
		return
	}

	var req recordRecoveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	rec, err := h.ledgerSvc.RecordRecovery(r.Context(), caseID, req.Amount, req.Description, actorID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusCreated, rec)
}

// ListDeposits handles GET /v1/admin/deposits?status=
func (h *AdminHandler) ListDeposits(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = string(domain.DepositUnderReview)
	}
	limit, offset := paginationParams(r)
	deposits, err := h.depositSvc.ListDepositsByStatus(r.Context(), domain.DepositStatus(status), limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"deposits": deposits})
}

// ConfirmDeposit handles POST /v1/admin/deposits/{id}/confirm
func (h *AdminHandler) ConfirmDeposit(w http.ResponseWriter, r *http.Request) {
	actorID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
		return
	}

	depositID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-deposit-id", "Invalid deposit ID")
		return
	}

	d, err := h.depositSvc.ConfirmDeposit(r.Context(), depositID, actorID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, d)
}

type rejectDepositRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// RejectDeposit handles POST /v1/admin/deposits/{id}/reject
func (h *AdminHandler) RejectDeposit(w http.ResponseWriter, r *http.Request) {
	depositID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-deposit-id", "Invalid deposit ID")
		return
	}

	var req rejectDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}
	if req.Status == "" {
		req.Status = string(domain.DepositFailed)
	}

	d, err := h.depositSvc.RejectDeposit(r.Context(), depositID, domain.DepositStatus(req.Status), req.Reason)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, d)
}

// ListWithdrawals handles GET /v1/admin/withdrawals?status=
func (h *AdminHandler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = string(domain.WithdrawalPending)
	}
	limit, offset := paginationParams(r)
	withdrawals, err := h.ledgerSvc.ListWithdrawalsByStatus(r.Context(), domain.WithdrawalStatus(status), limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"withdrawals": withdrawals})
}

type resolveWithdrawalRequest struct {
	Status     string `json:"status"`
	AdminNotes string `json:"admin_notes"`
}

// ResolveWithdrawal handles POST /v1/admin/withdrawals/{id}/resolve
func (h *AdminHandler) ResolveWithdrawal(w http.ResponseWriter, r *http.Request) {
	actorID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
		return
	}

	withdrawalID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-withdrawal-id", "Invalid withdrawal ID")
		return
	}

	var req resolveWithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	wd, err := h.ledgerSvc.ResolveWithdrawal(r.Context(), withdrawalID, domain.WithdrawalStatus(req.Status), req.AdminNotes, actorID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, wd)
}

// ListKYC handles GET /v1/admin/kyc?status=
func (h *AdminHandler) ListKYC(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = string(domain.KYCPending)
	}
	limit, offset := paginationParams(r)
	subs, err := h.kycSvc.ListByStatus(r.Context(), domain.KYCStatus(status), limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"submissions": subs})
}

type reviewKYCRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// ReviewKYC handles POST /v1/admin/kyc/{id}/review
func (h *AdminHandler) ReviewKYC(w http.ResponseWriter, r *http.Request) {
	actorID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
		return
	}

	kycID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-kyc-id", "Invalid submission ID")
		return
	}

	var req reviewKYCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	k, err := h.kycSvc.Review(r.Context(), kycID, domain.KYCStatus(req.Status), req.Reason, actorID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, k)
}

type createPlanRequest struct {
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	MinAmount    decimal.Decimal  `json:"min_amount"`
	MaxAmount    decimal.Decimal  `json:"max_amount"`
	Percentage   decimal.Decimal  `json:"percentage"`
	FixedDeposit *decimal.Decimal `json:"fixed_deposit"`
}

// CreatePlan handles POST /v1/admin/plans
func (h *AdminHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req createPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	p, err := h.planSvc.Create(r.Context(), service.PlanInput{
		Name:         req.Name,
		Description:  req.Description,
		MinAmount:    req.MinAmount,
		MaxAmount:    req.MaxAmount,
		Percentage:   req.Percentage,
		FixedDeposit: req.FixedDeposit,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusCreated, p)
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

// SetPlanActive handles POST /v1/admin/plans/{id}/active
func (h *AdminHandler) SetPlanActive(w http.ResponseWriter, r *http.Request) {
	planID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-plan-id", "Invalid plan ID")
		return
	}

	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	if err := h.planSvc.SetActive(r.Context(), planID, req.Active); err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]bool{"active": req.Active})
}

type createCryptoWalletRequest struct {
	Currency string `json:"currency"`
	Network  string `json:"network"`
	Address  string `json:"address"`
}

// CreateCryptoWallet handles POST /v1/admin/crypto-wallets
func (h *AdminHandler) CreateCryptoWallet(w http.ResponseWriter, r *http.Request) {
	var req createCryptoWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}
	if !domain.IsSupportedCrypto(req.Currency) {
		RespondError(w, r, http.StatusUnprocessableEntity, "request/validation", "unsupported currency")
		return
	}
	if req.Address == "" {
		RespondError(w, r, http.StatusUnprocessableEntity, "request/validation", "address is required")
		return
	}

	wallet := &models.CryptoWallet{
		ID:       uuid.New(),
		Currency: req.Currency,
		Network:  req.Network,
		Address:  req.Address,
		Active:   true,
	}
	if err := h.store.Queries().CreateCryptoWallet(r.Context(), wallet); err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusCreated, wallet)
}

// SetCryptoWalletActive handles POST /v1/admin/crypto-wallets/{id}/active
func (h *AdminHandler) SetCryptoWalletActive(w http.ResponseWriter, r *http.Request) {
	walletID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-wallet-id", "Invalid wallet ID")
		return
	}

	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	rows, err := h.store.Queries().SetCryptoWalletActive(r.Context(), walletID, req.Active)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if rows == 0 {
		RespondError(w, r, http.StatusNotFound, "resource/not-found", "crypto wallet not found")
		return
	}

	RespondJSON(w, http.StatusOK, map[string]bool{"active": req.Active})
}
