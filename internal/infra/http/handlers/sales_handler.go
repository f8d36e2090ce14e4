package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cariaestates/backoffice/internal/entity"
	"github.com/cariaestates/backoffice/internal/store"
)

type SalesHandler struct {
	Store *store.AdminStore
}

func NewSalesHandler(s *store.AdminStore) *SalesHandler {
	return &SalesHandler{Store: s}
}

func (h *SalesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Snapshot().SalesLeads)
}

type UpdateSalesStatusRequest struct {
	Status string `json:"status"`
}

// HandleUpdateStatus move um card do Kanban. O grafo é livre (qualquer
// coluna alcança qualquer coluna), só o valor precisa ser conhecido.
func (h *SalesHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "id")

	var req UpdateSalesStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido: "+err.Error())
		return
	}

	if !entity.IsValidSalesStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "INVALID_STATUS", "status desconhecido: "+req.Status)
		return
	}

	snap := h.Store.UpdateSalesLeadStatus(leadID, req.Status)
	writeJSON(w, http.StatusOK, snap.SalesLeads)
}
