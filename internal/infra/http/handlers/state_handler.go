package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cariaestates/backoffice/internal/store"
)

// StateHandler expõe o snapshot do store e o stream SSE que substitui o
// hook de subscription do painel.
type StateHandler struct {
	Store *store.AdminStore
}

func NewStateHandler(s *store.AdminStore) *StateHandler {
	return &StateHandler{Store: s}
}

func (h *StateHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Snapshot())
}

// HandleEvents mantém uma conexão SSE: envia o snapshot inicial e um
// evento novo a cada broadcast do store. O listener registrado só
// sinaliza um canal, então broadcasts rápidos coalescem naturalmente do
// lado do consumidor.
func (h *StateHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "STREAMING_UNSUPPORTED", "streaming não suportado")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	signal := make(chan struct{}, 1)
	unsubscribe := h.Store.Subscribe(func() {
		select {
		case signal <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	send := func() bool {
		data, err := json.Marshal(h.Store.Snapshot())
		if err != nil {
			return false
		}
		if _, err := fmt.Fprintf(w, "event: state\ndata: %s\n\n", data); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if !send() {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-signal:
			if !send() {
				return
			}
		}
	}
}
