package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/recoverypro/portal/internal/service"
)

// NotificationHandler handles the in-app inbox and email history.
type NotificationHandler struct {
	notificationSvc *service.NotificationService
	emailSvc        *service.EmailService
}

func NewNotificationHandler(notificationSvc *service.NotificationService, emailSvc *service.EmailService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc, emailSvc: emailSvc}
}

// List handles GET /v1/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
		return
	}

	limit, offset := paginationParams(r)
	unreadOnly := r.URL.Query().Get("unread") == "true"
	notifications, err := h.notificationSvc.List(r.Context(), userID, unreadOnly, limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	unread, err := h.notificationSvc.UnreadCount(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// MarkRead handles POST /v1/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
		return
	}

	notificationID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-notification-id", "Invalid notification ID")
		return
	}

	if err := h.notificationSvc.MarkRead(r.Context(), notificationID, userID); err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

// MarkAllRead handles POST /v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
		return
	}

	updated, err := h.notificationSvc.MarkAllRead(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{"updated": updated})
}

// EmailHistory handles GET /v1/emails
func (h *NotificationHandler) EmailHistory(w http.ResponseWriter, r *http.Request) {
	userID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthorized", "Unauthorized")
		return
	}

	limit, offset := paginationParams(r)
	logs, err := h.emailSvc.History(r.Context(), userID, limit, offset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{"emails": logs})
}
