package handler

import (
	"encoding/json"
	"net/http"

	"github.com/recoverypro/portal/internal/service"
)

// KYCHandler handles identity verification submissions.
type KYCHandler struct {
	kycSvc *service.KYCService
}

func NewKYCHandler(kycSvc *service.KYCService) *KYCHandler {
	return &KYCHandler{kycSvc: kycSvc}
}

type kycSubmitRequest struct {
	DocumentType   string `json:"document_type"`
	DocumentNumber string `json:"document_number"`
	FileName       string `json:"file_name"`
	FileSize       int64  `json:"file_size"`
	DocumentPath   string `json:"document_path"`
}

// Submit handles POST /v1/kyc
func (h *KYCHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
		return
	}

	var req kycSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	k, err := h.kycSvc.Submit(r.Context(), service.KYCSubmission{
		UserID:         userID,
		DocumentType:   req.DocumentType,
		DocumentNumber: req.DocumentNumber,
		FileName:       req.FileName,
		FileSize:       req.FileSize,
		DocumentPath:   req.DocumentPath,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusCreated, k)
}

// Status handles GET /v1/kyc/status
func (h *KYCHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
		return
	}

	k, err := h.kycSvc.Status(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, k)
}
