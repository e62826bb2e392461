package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/recoverypro/portal/internal/api/middleware"
	"github.com/recoverypro/portal/internal/api/problem"
	"github.com/recoverypro/portal/internal/models"
	"github.com/recoverypro/portal/internal/service"
)

// RespondJSON writes a JSON response.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError writes an error response.
func RespondError(w http.ResponseWriter, r *http.Request, status int, problemType, message string) {
	if problemType != "" && problemType != "about:blank" && !strings.HasPrefix(problemType, "http") {
		problemType = problem.Type(problemType)
	}
	problem.Write(w, r, status, problemType, http.StatusText(status), message)
}

func requestActor(r *http.Request) (uuid.UUID, bool, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return uuid.Nil, false, errors.New("missing user in auth context")
	}

	actorID, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, false, errors.New("invalid user_id in auth context")
	}

	role := middleware.UserRoleFromContext(r.Context())
	return actorID, role == "admin" || role == "agent", nil
}

func mapDBError(err error) (status int, problemType, message string, ok bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return 0, "", "", false
	}

	switch pgErr.Code {
	case "23505": // unique_violation
		return http.StatusConflict, "db/unique-violation", "resource already exists", true
	case "23503": // foreign_key_violation
		return http.StatusBadRequest, "db/foreign-key-violation", "invalid reference", true
	case "23514": // check_violation
		return http.StatusBadRequest, "db/check-violation", "request violates data constraints", true
	case "23502": // not_null_violation
		return http.StatusBadRequest, "db/not-null-violation", "missing required field", true
	default:
		return 0, "", "", false
	}
}

// respondServiceError maps domain errors onto problem responses. Anything
// unmapped is logged and reported as a 500.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		RespondError(w, r, http.StatusUnprocessableEntity, "request/validation", ve.Error())
		return
	}

	switch {
	case errors.Is(err, models.ErrCaseNotFound),
		errors.Is(err, models.ErrPlanNotFound),
		errors.Is(err, models.ErrDepositNotFound),
		errors.Is(err, models.ErrWithdrawalNotFound),
		errors.Is(err, models.ErrKYCNotFound),
		errors.Is(err, models.ErrWalletNotFound),
		errors.Is(err, models.ErrNotificationNotFound),
		errors.Is(err, models.ErrUserNotFound):
		RespondError(w, r, http.StatusNotFound, "resource/not-found", err.Error())
	case errors.Is(err, models.ErrInsufficientBalance):
		RespondError(w, r, http.StatusBadRequest, "wallet/insufficient-balance", err.Error())
	case errors.Is(err, models.ErrBelowMinimumWithdrawal):
		RespondError(w, r, http.StatusBadRequest, "withdrawal/below-minimum", err.Error())
	case errors.Is(err, models.ErrKYCRequired):
		RespondError(w, r, http.StatusForbidden, "withdrawal/kyc-required", err.Error())
	case errors.Is(err, models.ErrDuplicateActiveDeposit):
		RespondError(w, r, http.StatusConflict, "deposit/already-active", err.Error())
	case errors.Is(err, models.ErrPlanInactive),
		errors.Is(err, models.ErrPlanRequired):
		RespondError(w, r, http.StatusBadRequest, "plan/unavailable", err.Error())
	case errors.Is(err, models.ErrInvalidTransition):
		RespondError(w, r, http.StatusConflict, "state/invalid-transition", err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		RespondError(w, r, http.StatusUnauthorized, "auth/invalid-credentials", err.Error())
	default:
		if status, problemType, message, ok := mapDBError(err); ok {
			RespondError(w, r, status, problemType, message)
			return
		}
		zap.L().Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		RespondError(w, r, http.StatusInternalServerError, "internal/error", "internal server error")
	}
}

func paginationParams(r *http.Request) (limit, offset int) {
	limit = 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
