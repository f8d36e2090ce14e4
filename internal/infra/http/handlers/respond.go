package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cariaestates/backoffice/internal/usecase"
)

// ErrorResponse é o shape normalizado de erro de toda a API.
type ErrorResponse struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Message: message, StatusCode: status, Code: code})
}

// writeUseCaseError mapeia a taxonomia de erros dos casos de uso para
// status HTTP.
func writeUseCaseError(w http.ResponseWriter, err error) {
	if de, ok := err.(*usecase.DomainError); ok {
		status := http.StatusBadRequest
		switch de.Code {
		case "LEAD_NOT_FOUND", "USER_NOT_FOUND":
			status = http.StatusNotFound
		case "LEAD_ALREADY_PROCESSED":
			status = http.StatusConflict
		}
		writeError(w, status, de.Code, de.Message)
		return
	}
	if te, ok := err.(*usecase.TechnicalError); ok {
		writeError(w, http.StatusBadGateway, te.Code, te.Message)
		return
	}
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
}
