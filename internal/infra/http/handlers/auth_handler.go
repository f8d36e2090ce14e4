package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cariaestates/backoffice/internal/entity"
	"github.com/cariaestates/backoffice/internal/infra/http/middleware"
	"github.com/cariaestates/backoffice/internal/store"
)

type AuthHandler struct {
	Store *store.AdminStore
	Auth  *middleware.AuthMiddleware
}

func NewAuthHandler(s *store.AdminStore, auth *middleware.AuthMiddleware) *AuthHandler {
	return &AuthHandler{Store: s, Auth: auth}
}

type LoginRequest struct {
	UserID string `json:"user_id"`
}

type LoginResponse struct {
	Token   string          `json:"token"`
	Session *entity.Session `json:"session"`
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido: "+err.Error())
		return
	}

	session := h.Store.LoginAs(req.UserID)
	if session == nil {
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "usuário não encontrado")
		return
	}

	token, err := h.Auth.IssueToken(session)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "TOKEN_ERROR", "falha ao emitir token")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Token: token, Session: session})
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.Store.Logout()
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
