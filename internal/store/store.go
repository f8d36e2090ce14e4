package store

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cariaestates/backoffice/internal/entity"
)

// Estratégia de deduplicação na conversão de leads.
type MatchStrategy string

const (
	// MatchAny: basta UM campo bater (phone OU email OU external id).
	// É o comportamento conservador original do painel.
	MatchAny MatchStrategy = "any"
	// MatchStrict: phone precisa bater E (email OU external id).
	MatchStrict MatchStrategy = "strict"
)

const DefaultLogCap = 200

// SessionStore é o slot durável da sessão (arquivo JSON em produção).
type SessionStore interface {
	Load() (*entity.Session, error)
	Save(session *entity.Session) error
	Clear() error
}

// ArchiveSink recebe entradas de log evictadas quando o cap estoura.
type ArchiveSink interface {
	ArchiveNotifications(ctx context.Context, notifications []entity.Notification) error
	ArchiveActivities(ctx context.Context, activities []entity.Activity) error
}

type Config struct {
	TenantKey     string
	Advisors      []string
	MatchStrategy MatchStrategy
	LogCap        int

	// Initial substitui o Seed() — usado em testes para começar vazio.
	Initial *State
}

type listener struct {
	id int
	fn func()
}

// AdminStore é o dono exclusivo do estado compartilhado do painel.
// Instância injetada (sem variável de pacote): cada teste pode ter a sua.
type AdminStore struct {
	mu    sync.Mutex
	state State

	listeners  []listener
	nextListID int

	tenantKey string
	strategy  MatchStrategy
	logCap    int

	sessions SessionStore
	archive  ArchiveSink
}

func New(cfg Config, sessions SessionStore, archive ArchiveSink) *AdminStore {
	if cfg.LogCap <= 0 {
		cfg.LogCap = DefaultLogCap
	}
	if cfg.MatchStrategy == "" {
		cfg.MatchStrategy = MatchAny
	}
	if cfg.TenantKey == "" {
		cfg.TenantKey = "caria"
	}

	var st State
	if cfg.Initial != nil {
		st = cfg.Initial.copy()
	} else {
		st = Seed()
	}
	if len(cfg.Advisors) > 0 {
		st.Advisors = append([]string(nil), cfg.Advisors...)
	}
	if len(st.Advisors) == 0 {
		st.Advisors = DefaultAdvisors()
	}

	s := &AdminStore{
		state:     st,
		tenantKey: cfg.TenantKey,
		strategy:  cfg.MatchStrategy,
		logCap:    cfg.LogCap,
		sessions:  sessions,
		archive:   archive,
	}

	// Sessão sobrevive a restart: lida uma vez na construção.
	if sessions != nil {
		if saved, err := sessions.Load(); err != nil {
			log.Printf("⚠️ store: falha ao carregar sessão persistida: %v", err)
		} else if saved != nil {
			s.state.Session = saved
		}
	}

	return s
}

// Snapshot devolve uma cópia do estado atual.
func (s *AdminStore) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.copy()
}

// Subscribe registra um listener e devolve a função de unsubscribe.
// Listeners são chamados de forma síncrona, na ordem de registro.
func (s *AdminStore) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextListID++
	id := s.nextListID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// broadcast notifica todos os listeners. Um listener que entra em pânico
// não derruba a entrega para os demais.
func (s *AdminStore) broadcast() {
	s.mu.Lock()
	snapshot := append([]listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range snapshot {
		notify(l)
	}
}

func notify(l listener) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("⚠️ store: listener %d entrou em pânico: %v", l.id, r)
		}
	}()
	l.fn()
}

// ---------------------------------------------------------------------
// Auth

// LoginAs abre sessão para o usuário informado. Usuário desconhecido é
// no-op e devolve nil.
func (s *AdminStore) LoginAs(userID string) *entity.Session {
	s.mu.Lock()
	var session *entity.Session
	for _, u := range s.state.Users {
		if u.ID == userID {
			user := u
			session = entity.NewSession(&user, s.tenantKey)
			break
		}
	}
	if session == nil {
		s.mu.Unlock()
		return nil
	}
	s.state.Session = session
	s.persistSessionLocked()
	s.mu.Unlock()

	s.broadcast()
	return session
}

func (s *AdminStore) Logout() State {
	s.mu.Lock()
	s.state.Session = nil
	if s.sessions != nil {
		if err := s.sessions.Clear(); err != nil {
			log.Printf("⚠️ store: falha ao limpar sessão persistida: %v", err)
		}
	}
	snap := s.state.copy()
	s.mu.Unlock()

	s.broadcast()
	return snap
}

func (s *AdminStore) persistSessionLocked() {
	if s.sessions == nil {
		return
	}
	if err := s.sessions.Save(s.state.Session); err != nil {
		log.Printf("⚠️ store: falha ao persistir sessão: %v", err)
	}
}

// ---------------------------------------------------------------------
// Users

func (s *AdminStore) CreateUser(user entity.User) State {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Regions == nil {
		user.Regions = []string{}
	}
	user.IsActive = true

	s.mu.Lock()
	s.state.Users = append(append([]entity.User(nil), s.state.Users...), user)
	snap := s.state.copy()
	s.mu.Unlock()

	s.broadcast()
	return snap
}

func (s *AdminStore) UpdateUser(userID string, patch entity.UserPatch) State {
	s.mu.Lock()
	next := make([]entity.User, len(s.state.Users))
	for i, u := range s.state.Users {
		if u.ID == userID {
			u.Apply(patch)
		}
		next[i] = u
	}
	s.state.Users = next
	s.syncSessionLocked(userID, patch)
	snap := s.state.copy()
	s.mu.Unlock()

	s.broadcast()
	return snap
}

// syncSessionLocked espelha na sessão ativa o patch aplicado ao próprio
// dono da sessão.
func (s *AdminStore) syncSessionLocked(userID string, patch entity.UserPatch) {
	if s.state.Session == nil || s.state.Session.UserID != userID {
		return
	}
	session := *s.state.Session
	if patch.Name != nil {
		session.UserName = *patch.Name
	}
	if patch.Email != nil {
		session.UserEmail = *patch.Email
	}
	if patch.Role != nil {
		session.Role = *patch.Role
	}
	if patch.GoogleLinked != nil {
		session.GoogleLinked = *patch.GoogleLinked
	}
	s.state.Session = &session
	s.persistSessionLocked()
}

func (s *AdminStore) DeactivateUser(userID string) State {
	inactive := false
	return s.UpdateUser(userID, entity.UserPatch{IsActive: &inactive})
}

func (s *AdminStore) LinkGoogle(userID string) State {
	linked := true
	s.mu.Lock()
	next := make([]entity.User, len(s.state.Users))
	for i, u := range s.state.Users {
		if u.ID == userID {
			u.GoogleLinked = true
		}
		next[i] = u
	}
	s.state.Users = next
	s.syncSessionLocked(userID, entity.UserPatch{GoogleLinked: &linked})
	s.appendActivityLocked(entity.NewActivity("integration", "Google Bağlantısı",
		"Google hesabı başarıyla bağlandı.", "Sistem"))
	snap := s.state.copy()
	s.mu.Unlock()

	s.broadcast()
	return snap
}

func (s *AdminStore) UnlinkGoogle(userID string) State {
	unlinked := false
	s.mu.Lock()
	next := make([]entity.User, len(s.state.Users))
	for i, u := range s.state.Users {
		if u.ID == userID {
			u.GoogleLinked = false
		}
		next[i] = u
	}
	s.state.Users = next
	s.syncSessionLocked(userID, entity.UserPatch{GoogleLinked: &unlinked})
	snap := s.state.copy()
	s.mu.Unlock()

	s.broadcast()
	return snap
}

// ---------------------------------------------------------------------
// Clients

func (s *AdminStore) CreateClient(client entity.Client) State {
	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	if client.Stage == "" {
		client.Stage = "New"
	}
	if client.LastActivity == "" {
		client.LastActivity = "Yeni oluşturuldu"
	}
	if client.CreatedAt.IsZero() {
		client.CreatedAt = time.Now()
	}
	client.UpdatedAt = time.Now()

	s.mu.Lock()
	s.state.Clients = append([]entity.Client{client}, s.state.Clients...)
	snap := s.state.copy()
	s.mu.Unlock()

	s.broadcast()
	return snap
}

func (s *AdminStore) UpdateClient(clientID string, patch entity.ClientPatch) State {
	s.mu.Lock()
	next := make([]entity.Client, len(s.state.Clients))
	for i, c := range s.state.Clients {
		if c.ID == clientID {
			c.Apply(patch)
		}
		next[i] = c
	}
	s.state.Clients = next
	snap := s.state.copy()
	s.mu.Unlock()

	s.broadcast()
	return snap
}

// ---------------------------------------------------------------------
// Lead inbox & distribuição

func (s *AdminStore) SetLeadsInbox(leads []entity.InboxLead) State {
	s.mu.Lock()
	s.state.LeadsInbox = append([]entity.InboxLead(nil), leads...)
	snap := s.state.copy()
	s.mu.Unlock()

	s.broadcast()
	return snap
}

func (s *AdminStore) ToggleAutoDistribution() State {
	s.mu.Lock()
	s.state.AutoDistributeLeads = !s.state.AutoDistributeLeads
	snap := s.state.copy()
	s.mu.Unlock()

	s.broadcast()
	return snap
}

func (s *AdminStore) AssignLeadToAdvisor(leadID, advisorName string) State {
	s.mu.Lock()
	next := make([]entity.InboxLead, len(s.state.LeadsInbox))
	for i, l := range s.state.LeadsInbox {
		if l.ID == leadID {
			l.AssignedTo = advisorName
		}
		next[i] = l
	}
	s.state.LeadsInbox = next
	snap := s.state.copy()
	s.mu.Unlock()

	s.broadcast()
	return snap
}

func (s *AdminStore) SetLeadReminder(leadID string, reminderAt time.Time) State {
	s.mu.Lock()
	next := make([]entity.InboxLead, len(s.state.LeadsInbox))
	for i, l := range s.state.LeadsInbox {
		if l.ID == leadID {
			at := reminderAt
			l.ReminderAt = &at
			l.ReminderTriggered = false
		}
		next[i] = l
	}
	s.state.LeadsInbox = next
	snap := s.state.copy()
	s.mu.Unlock()

	s.broadcast()
	return snap
}

// LoadLeads substitui o inbox pelo batch do feed. Com a distribuição
// automática ligada, o cursor round-robin avança uma vez POR LEAD e
// continua de onde o batch anterior parou.
func (s *AdminStore) LoadLeads(batch []entity.InboxLead) State {
	s.mu.Lock()
	leads := make([]entity.InboxLead, len(batch))
	for i, l := range batch {
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		if l.Status == "" {
			l.Status = entity.LeadStatusNew
		}
		if s.state.AutoDistributeLeads && len(s.state.Advisors) > 0 {
			s.state.LastAssignedAdvisorIndex = (s.state.LastAssignedAdvisorIndex + 1) % len(s.state.Advisors)
			l.AssignedTo = s.state.Advisors[s.state.LastAssignedAdvisorIndex]
		}
		leads[i] = l
	}
	s.state.LeadsInbox = leads

	desc := fmt.Sprintf("%d adet reklam lead'i yüklendi.", len(leads))
	if s.state.AutoDistributeLeads {
		desc += " Otomatik dağıtıldı."
	}
	s.appendActivityLocked(entity.NewActivity("info", "ADS LEADS YÜKLENDİ", desc, "Sistem"))

	snap := s.state.copy()
	s.mu.Unlock()

	s.broadcast()
	return snap
}

// AddInboxLead anexa um único lead (webhook de captação) respeitando a
// distribuição automática.
func (s *AdminStore) AddInboxLead(lead entity.InboxLead) State {
	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	if lead.Status == "" {
		lead.Status = entity.LeadStatusNew
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now()
	}

	s.mu.Lock()
	if s.state.AutoDistributeLeads && len(s.state.Advisors) > 0 {
		s.state.LastAssignedAdvisorIndex = (s.state.LastAssignedAdvisorIndex + 1) % len(s.state.Advisors)
		lead.AssignedTo = s.state.Advisors[s.state.LastAssignedAdvisorIndex]
	}
	s.state.LeadsInbox = append([]entity.InboxLead{lead}, s.state.LeadsInbox...)
	snap := s.state.copy()
	s.mu.Unlock()

	s.broadcast()
	return snap
}

// ---------------------------------------------------------------------
// Sales Kanban

func (s *AdminStore) UpdateSalesLeadStatus(leadID, newStatus string) State {
	s.mu.Lock()
	if entity.IsValidSalesStatus(newStatus) {
		next := make([]entity.SalesLead, len(s.state.SalesLeads))
		for i, l := range s.state.SalesLeads {
			if l.ID == leadID {
				l.Status = newStatus
			}
			next[i] = l
		}
		s.state.SalesLeads = next
	}
	snap := s.state.copy()
	s.mu.Unlock()

	s.broadcast()
	return snap
}

// ---------------------------------------------------------------------
// Seleções de UI

func (s *AdminStore) SetSelectedClient(id string) State {
	s.mu.Lock()
	s.state.SelectedClientID = id
	snap := s.state.copy()
	s.mu.Unlock()
	s.broadcast()
	return snap
}

func (s *AdminStore) SetSelectedLead(id string) State {
	s.mu.Lock()
	s.state.SelectedLeadID = id
	snap := s.state.copy()
	s.mu.Unlock()
	s.broadcast()
	return snap
}

func (s *AdminStore) SetSelectedProperty(id string) State {
	s.mu.Lock()
	s.state.SelectedPropertyID = id
	snap := s.state.copy()
	s.mu.Unlock()
	s.broadcast()
	return snap
}

// ---------------------------------------------------------------------
// Notificações & atividades (append-only, com cap + arquivamento)

func (s *AdminStore) AddNotification(n entity.Notification) State {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Time.IsZero() {
		n.Time = time.Now()
	}

	s.mu.Lock()
	s.appendNotificationLocked(n)
	snap := s.state.copy()
	s.mu.Unlock()

	s.broadcast()
	return snap
}

func (s *AdminStore) MarkAllRead() State {
	s.mu.Lock()
	next := make([]entity.Notification, len(s.state.Notifications))
	for i, n := range s.state.Notifications {
		n.Read = true
		next[i] = n
	}
	s.state.Notifications = next
	snap := s.state.copy()
	s.mu.Unlock()

	s.broadcast()
	return snap
}

func (s *AdminStore) AddActivity(a entity.Activity) State {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Time.IsZero() {
		a.Time = time.Now()
	}

	s.mu.Lock()
	s.appendActivityLocked(a)
	snap := s.state.copy()
	s.mu.Unlock()

	s.broadcast()
	return snap
}

func (s *AdminStore) appendNotificationLocked(n entity.Notification) {
	s.state.Notifications = append([]entity.Notification{n}, s.state.Notifications...)
	if len(s.state.Notifications) <= s.logCap {
		return
	}
	evicted := append([]entity.Notification(nil), s.state.Notifications[s.logCap:]...)
	s.state.Notifications = s.state.Notifications[:s.logCap]
	if s.archive == nil {
		return
	}
	go func() {
		if err := s.archive.ArchiveNotifications(context.Background(), evicted); err != nil {
			log.Printf("⚠️ store: arquivamento de notificações falhou: %v", err)
		}
	}()
}

func (s *AdminStore) appendActivityLocked(a entity.Activity) {
	s.state.Activities = append([]entity.Activity{a}, s.state.Activities...)
	if len(s.state.Activities) <= s.logCap {
		return
	}
	evicted := append([]entity.Activity(nil), s.state.Activities[s.logCap:]...)
	s.state.Activities = s.state.Activities[:s.logCap]
	if s.archive == nil {
		return
	}
	go func() {
		if err := s.archive.ArchiveActivities(context.Background(), evicted); err != nil {
			log.Printf("⚠️ store: arquivamento de atividades falhou: %v", err)
		}
	}()
}
