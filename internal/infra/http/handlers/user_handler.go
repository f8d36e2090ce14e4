package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cariaestates/backoffice/internal/entity"
	"github.com/cariaestates/backoffice/internal/store"
)

type UserHandler struct {
	Store *store.AdminStore
}

func NewUserHandler(s *store.AdminStore) *UserHandler {
	return &UserHandler{Store: s}
}

func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Snapshot().Users)
}

type CreateUserRequest struct {
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Role    string   `json:"role"`
	Regions []string `json:"regions"`
}

func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido: "+err.Error())
		return
	}

	user, err := entity.NewUser(req.Name, req.Email, req.Role, req.Regions)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	h.Store.CreateUser(*user)
	writeJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	var patch entity.UserPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido: "+err.Error())
		return
	}

	snap := h.Store.UpdateUser(userID, patch)
	writeJSON(w, http.StatusOK, snap.Users)
}

func (h *UserHandler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	snap := h.Store.DeactivateUser(chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, snap.Users)
}

func (h *UserHandler) HandleLinkGoogle(w http.ResponseWriter, r *http.Request) {
	snap := h.Store.LinkGoogle(chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, snap.Users)
}

func (h *UserHandler) HandleUnlinkGoogle(w http.ResponseWriter, r *http.Request) {
	snap := h.Store.UnlinkGoogle(chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, snap.Users)
}
