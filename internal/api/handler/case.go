package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/recoverypro/portal/internal/service"
)

// CaseHandler handles HTTP requests for recovery cases.
type CaseHandler struct {
	caseSvc *service.CaseService
}

func NewCaseHandler(caseSvc *service.CaseService) *CaseHandler {
	return &CaseHandler{caseSvc: caseSvc}
}

type submitCaseRequest struct {
	ScamType     string          `json:"scam_type"`
	Description  string          `json:"description"`
	AmountLost   decimal.Decimal `json:"amount_lost"`
	Currency     string          `json:"currency"`
	ScammerInfo  string          `json:"scammer_info"`
	IncidentDate time.Time       `json:"incident_date"`
}

// SubmitCase handles POST /v1/cases
func (h *CaseHandler) SubmitCase(w http.ResponseWriter, r *http.Request) {
	userID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
		return
	}

	var req submitCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	c, err := h.caseSvc.SubmitCase(r.Context(), service.SubmitCaseInput{
		UserID:       userID,
		ScamType:     req.ScamType,
		Description:  req.Description,
		AmountLost:   req.AmountLost,
		Currency:     req.Currency,
		ScammerInfo:  req.ScammerInfo,
		IncidentDate: req.IncidentDate,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusCreated, c)
}

// ListCases handles GET /v1/cases
func (h *CaseHandler) ListCases(w http.ResponseWriter, r *http.Request) {
	userID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
		return
	}

	limit, offset := paginationParams(r)
	cases, err := h.caseSvc.ListCases(r.Context(), userID, limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{"cases": cases})
}

// GetCase handles GET /v1/cases/{id}
func (h *CaseHandler) GetCase(w http.ResponseWriter, r *http.Request) {
	userID, isStaff, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
		return
	}

	caseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-case-id", "Invalid case ID")
		return
	}

	c, err := h.caseSvc.GetCase(r.Context(), caseID, userID, isStaff)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, c)
}

// Timeline handles GET /v1/cases/{id}/timeline
func (h *CaseHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	userID, isStaff, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
		return
	}

	caseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-case-id", "Invalid case ID")
		return
	}

	updates, err := h.caseSvc.Timeline(r.Context(), caseID, userID, isStaff)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{"timeline": updates})
}

type selectPlanRequest struct {
	PlanID string `json:"plan_id"`
}

// SelectPlan handles POST /v1/cases/{id}/plan
func (h *CaseHandler) SelectPlan(w http.ResponseWriter, r *http.Request) {
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

	var req selectPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}
	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-plan-id", "Invalid plan ID")
		return
	}

	c, required, err := h.caseSvc.SelectPlan(r.Context(), userID, caseID, planID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"case":             c,
		"required_deposit": required,
	})
}

type attachEvidenceRequest struct {
	FileName    string `json:"file_name"`
	FileSize    int64  `json:"file_size"`
	StoragePath string `json:"storage_path"`
}

// AttachEvidence handles POST /v1/cases/{id}/evidence
func (h *CaseHandler) AttachEvidence(w http.ResponseWriter, r *http.Request) {
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

	var req attachEvidenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	f, err := h.caseSvc.AttachEvidence(r.Context(), caseID, userID, req.FileName, req.FileSize, req.StoragePath)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusCreated, f)
}

// ListEvidence handles GET /v1/cases/{id}/evidence
func (h *CaseHandler) ListEvidence(w http.ResponseWriter, r *http.Request) {
	userID, isStaff, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
		return
	}

	caseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-case-id", "Invalid case ID")
		return
	}

	files, err := h.caseSvc.ListEvidence(r.Context(), caseID, userID, isStaff)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{"evidence": files})
}
