package handlers

import (
	"net/http"

	"github.com/cariaestates/backoffice/internal/store"
)

type NotificationHandler struct {
	Store *store.AdminStore
}

func NewNotificationHandler(s *store.AdminStore) *NotificationHandler {
	return &NotificationHandler{Store: s}
}

func (h *NotificationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Snapshot().Notifications)
}

func (h *NotificationHandler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	snap := h.Store.MarkAllRead()
	writeJSON(w, http.StatusOK, snap.Notifications)
}

func (h *NotificationHandler) HandleListActivities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Snapshot().Activities)
}
