package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cariaestates/backoffice/internal/entity"
	"github.com/cariaestates/backoffice/internal/store"
)

type ClientHandler struct {
	Store *store.AdminStore
}

func NewClientHandler(s *store.AdminStore) *ClientHandler {
	return &ClientHandler{Store: s}
}

func (h *ClientHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Snapshot().Clients)
}

func (h *ClientHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var client entity.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido: "+err.Error())
		return
	}

	client.ID = uuid.New().String()
	if err := client.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	h.Store.CreateClient(client)
	writeJSON(w, http.StatusCreated, client)
}

func (h *ClientHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "id")

	var patch entity.ClientPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido: "+err.Error())
		return
	}

	snap := h.Store.UpdateClient(clientID, patch)
	writeJSON(w, http.StatusOK, snap.Clients)
}
