package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cariaestates/backoffice/internal/infra/http/middleware"
	"github.com/cariaestates/backoffice/internal/store"
	"github.com/cariaestates/backoffice/internal/usecase"
)

type LeadHandler struct {
	Store       *store.AdminStore
	LoadUC      *usecase.LoadLeadsUseCase
	ConvertUC   *usecase.ConvertLeadUseCase
	CaptureUC   *usecase.CaptureLeadUseCase
	rateLimiter *RateLimiter
}

func NewLeadHandler(s *store.AdminStore, loadUC *usecase.LoadLeadsUseCase, convertUC *usecase.ConvertLeadUseCase, captureUC *usecase.CaptureLeadUseCase) *LeadHandler {
	return &LeadHandler{
		Store:       s,
		LoadUC:      loadUC,
		ConvertUC:   convertUC,
		CaptureUC:   captureUC,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min por IP
	}
}

func (h *LeadHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Snapshot().LeadsInbox)
}

func (h *LeadHandler) HandleLoad(w http.ResponseWriter, r *http.Request) {
	output, err := h.LoadUC.Execute(r.Context())
	if err != nil {
		middleware.RecordIntegrationError("feed")
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, output)
}

type AssignLeadRequest struct {
	Advisor string `json:"advisor"`
}

func (h *LeadHandler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "id")

	var req AssignLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido: "+err.Error())
		return
	}
	if req.Advisor == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "advisor is required")
		return
	}

	snap := h.Store.AssignLeadToAdvisor(leadID, req.Advisor)
	middleware.RecordLeadAssignment(req.Advisor)
	writeJSON(w, http.StatusOK, snap.LeadsInbox)
}

type SetReminderRequest struct {
	ReminderAt time.Time `json:"reminder_at"`
}

func (h *LeadHandler) HandleSetReminder(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "id")

	var req SetReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido: "+err.Error())
		return
	}
	if req.ReminderAt.IsZero() {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "reminder_at is required")
		return
	}

	snap := h.Store.SetLeadReminder(leadID, req.ReminderAt)
	writeJSON(w, http.StatusOK, snap.LeadsInbox)
}

func (h *LeadHandler) HandleConvert(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "id")

	output, err := h.ConvertUC.Execute(r.Context(), usecase.ConvertLeadInput{LeadID: leadID})
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordLeadConversion(output.Outcome)
	writeJSON(w, http.StatusOK, output)
}

func (h *LeadHandler) HandleToggleAutoDistribution(w http.ResponseWriter, r *http.Request) {
	snap := h.Store.ToggleAutoDistribution()
	writeJSON(w, http.StatusOK, map[string]bool{"auto_distribute_leads": snap.AutoDistributeLeads})
}

// HandleCaptureWebhook é o único endpoint público: recebe leads avulsos
// dos formulários de campanha, atrás do rate limit por IP.
func (h *LeadHandler) HandleCaptureWebhook(w http.ResponseWriter, r *http.Request) {
	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.")
		return
	}

	var input usecase.CaptureLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	output, err := h.CaptureUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	if output.AssignedTo != "" {
		middleware.RecordLeadAssignment(output.AssignedTo)
	}
	writeJSON(w, http.StatusOK, output)
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
