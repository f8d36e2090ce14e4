package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cariaestates/backoffice/internal/entity"
	"github.com/cariaestates/backoffice/internal/store"
)

// fakeSessionStore guarda a sessão em memória para os testes.
type fakeSessionStore struct {
	mu      sync.Mutex
	saved   *entity.Session
	cleared bool
}

func (f *fakeSessionStore) Load() (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved, nil
}

func (f *fakeSessionStore) Save(session *entity.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = session
	return nil
}

func (f *fakeSessionStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = nil
	f.cleared = true
	return nil
}

// fakeArchive captura as entradas evictadas pelo cap do log.
type fakeArchive struct {
	notifications chan []entity.Notification
	activities    chan []entity.Activity
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{
		notifications: make(chan []entity.Notification, 16),
		activities:    make(chan []entity.Activity, 16),
	}
}

func (f *fakeArchive) ArchiveNotifications(ctx context.Context, n []entity.Notification) error {
	f.notifications <- n
	return nil
}

func (f *fakeArchive) ArchiveActivities(ctx context.Context, a []entity.Activity) error {
	f.activities <- a
	return nil
}

func emptyState() *store.State {
	return &store.State{LastAssignedAdvisorIndex: -1}
}

func newTestStore(t *testing.T, cfgs ...store.Config) *store.AdminStore {
	t.Helper()
	cfg := store.Config{
		Advisors: []string{"Buse Aydın", "Can Korkmaz", "Ece Temel"},
		Initial:  emptyState(),
	}
	if len(cfgs) > 0 {
		cfg = cfgs[0]
	}
	return store.New(cfg, nil, nil)
}

// ============ TESTES ============

// TestRoundRobinCursorAdvancesPerLead - cursor começa em -1 e avança um
// passo por lead, continuando no batch seguinte.
func TestRoundRobinCursorAdvancesPerLead(t *testing.T) {
	s := newTestStore(t)
	s.ToggleAutoDistribution()

	batch := []entity.InboxLead{
		{Name: "Lead 1"}, {Name: "Lead 2"}, {Name: "Lead 3"}, {Name: "Lead 4"},
	}
	state := s.LoadLeads(batch)

	assert.Equal(t, "Buse Aydın", state.LeadsInbox[0].AssignedTo)
	assert.Equal(t, "Can Korkmaz", state.LeadsInbox[1].AssignedTo)
	assert.Equal(t, "Ece Temel", state.LeadsInbox[2].AssignedTo)
	assert.Equal(t, "Buse Aydın", state.LeadsInbox[3].AssignedTo)
	assert.Equal(t, 0, state.LastAssignedAdvisorIndex)

	// Segundo batch continua de onde parou, não recomeça do zero
	state = s.LoadLeads([]entity.InboxLead{{Name: "Lead 5"}, {Name: "Lead 6"}, {Name: "Lead 7"}})

	assert.Equal(t, "Can Korkmaz", state.LeadsInbox[0].AssignedTo)
	assert.Equal(t, "Ece Temel", state.LeadsInbox[1].AssignedTo)
	assert.Equal(t, "Buse Aydın", state.LeadsInbox[2].AssignedTo)
	assert.Equal(t, 0, state.LastAssignedAdvisorIndex)
}

// TestLoadLeadsWithoutDistribution - distribuição desligada deixa os leads
// sem dono e não mexe no cursor.
func TestLoadLeadsWithoutDistribution(t *testing.T) {
	s := newTestStore(t)

	state := s.LoadLeads([]entity.InboxLead{{Name: "Lead 1"}, {Name: "Lead 2"}})

	assert.Len(t, state.LeadsInbox, 2)
	for _, lead := range state.LeadsInbox {
		assert.Empty(t, lead.AssignedTo)
		assert.Equal(t, entity.LeadStatusNew, lead.Status)
		assert.NotEmpty(t, lead.ID)
	}
	assert.Equal(t, -1, state.LastAssignedAdvisorIndex)
}

// TestLoadLeadsRecordsActivity - cada carga registra a Activity do painel.
func TestLoadLeadsRecordsActivity(t *testing.T) {
	s := newTestStore(t)
	s.ToggleAutoDistribution()

	state := s.LoadLeads([]entity.InboxLead{{Name: "Lead 1"}, {Name: "Lead 2"}, {Name: "Lead 3"}})

	assert.Len(t, state.Activities, 1)
	assert.Equal(t, "ADS LEADS YÜKLENDİ", state.Activities[0].Title)
	assert.Equal(t, "3 adet reklam lead'i yüklendi. Otomatik dağıtıldı.", state.Activities[0].Description)
}

// TestAddInboxLeadPrependsAndDistributes - webhook anexa no topo do inbox
// e respeita o round-robin.
func TestAddInboxLeadPrependsAndDistributes(t *testing.T) {
	s := newTestStore(t)
	s.ToggleAutoDistribution()

	s.AddInboxLead(entity.InboxLead{Name: "Lead A"})
	state := s.AddInboxLead(entity.InboxLead{Name: "Lead B"})

	assert.Len(t, state.LeadsInbox, 2)
	assert.Equal(t, "Lead B", state.LeadsInbox[0].Name)
	assert.Equal(t, "Can Korkmaz", state.LeadsInbox[0].AssignedTo)
	assert.Equal(t, "Buse Aydın", state.LeadsInbox[1].AssignedTo)
}

// TestBroadcastNotifiesListenersInOrder - listeners recebem na ordem de
// registro, um por mutação.
func TestBroadcastNotifiesListenersInOrder(t *testing.T) {
	s := newTestStore(t)

	var order []string
	s.Subscribe(func() { order = append(order, "a") })
	s.Subscribe(func() { order = append(order, "b") })
	s.Subscribe(func() { order = append(order, "c") })

	s.ToggleAutoDistribution()

	assert.Equal(t, []string{"a", "b", "c"}, order)
}

// TestBroadcastSurvivesPanickingListener - o pânico de um listener não
// interrompe a entrega para os demais.
func TestBroadcastSurvivesPanickingListener(t *testing.T) {
	s := newTestStore(t)

	called := 0
	s.Subscribe(func() { panic("listener quebrado") })
	s.Subscribe(func() { called++ })

	assert.NotPanics(t, func() { s.ToggleAutoDistribution() })
	assert.Equal(t, 1, called)
}

// TestUnsubscribeStopsNotifications
func TestUnsubscribeStopsNotifications(t *testing.T) {
	s := newTestStore(t)

	called := 0
	unsubscribe := s.Subscribe(func() { called++ })

	s.ToggleAutoDistribution()
	unsubscribe()
	s.ToggleAutoDistribution()

	assert.Equal(t, 1, called)
}

// TestNotificationCapEvictsToArchive - o 201º registro (aqui cap=3) empurra
// o mais antigo para o arquivo, mantendo os mais recentes no topo.
func TestNotificationCapEvictsToArchive(t *testing.T) {
	archive := newFakeArchive()
	s := store.New(store.Config{Initial: emptyState(), LogCap: 3}, nil, archive)

	s.AddNotification(entity.NewNotification("N1", "m", entity.NotificationInfo))
	s.AddNotification(entity.NewNotification("N2", "m", entity.NotificationInfo))
	s.AddNotification(entity.NewNotification("N3", "m", entity.NotificationInfo))
	state := s.AddNotification(entity.NewNotification("N4", "m", entity.NotificationInfo))

	assert.Len(t, state.Notifications, 3)
	assert.Equal(t, "N4", state.Notifications[0].Title)
	assert.Equal(t, "N2", state.Notifications[2].Title)

	select {
	case evicted := <-archive.notifications:
		assert.Len(t, evicted, 1)
		assert.Equal(t, "N1", evicted[0].Title)
	case <-time.After(2 * time.Second):
		t.Fatal("arquivamento não aconteceu")
	}
}

// TestActivityCapEvictsToArchive
func TestActivityCapEvictsToArchive(t *testing.T) {
	archive := newFakeArchive()
	s := store.New(store.Config{Initial: emptyState(), LogCap: 2}, nil, archive)

	s.AddActivity(entity.NewActivity("info", "A1", "d", "Sistem"))
	s.AddActivity(entity.NewActivity("info", "A2", "d", "Sistem"))
	state := s.AddActivity(entity.NewActivity("info", "A3", "d", "Sistem"))

	assert.Len(t, state.Activities, 2)
	assert.Equal(t, "A3", state.Activities[0].Title)

	select {
	case evicted := <-archive.activities:
		assert.Len(t, evicted, 1)
		assert.Equal(t, "A1", evicted[0].Title)
	case <-time.After(2 * time.Second):
		t.Fatal("arquivamento não aconteceu")
	}
}

// TestLoginPersistsSessionAndSurvivesRestart
func TestLoginPersistsSessionAndSurvivesRestart(t *testing.T) {
	sessions := &fakeSessionStore{}
	initial := emptyState()
	initial.Users = []entity.User{
		{ID: "u1", Name: "Baran Gökmen", Email: "baran@caria.com", Role: entity.RoleAdmin, IsActive: true},
	}

	s := store.New(store.Config{Initial: initial, TenantKey: "caria"}, sessions, nil)

	session := s.LoginAs("u1")
	assert.NotNil(t, session)
	assert.Equal(t, "Baran Gökmen", session.UserName)
	assert.Equal(t, entity.RoleAdmin, session.Role)
	assert.NotNil(t, sessions.saved)

	// Um store novo com o mesmo slot recupera a sessão
	restarted := store.New(store.Config{Initial: initial}, sessions, nil)
	assert.NotNil(t, restarted.Snapshot().Session)
	assert.Equal(t, "u1", restarted.Snapshot().Session.UserID)
}

// TestLoginUnknownUserIsNoOp
func TestLoginUnknownUserIsNoOp(t *testing.T) {
	s := newTestStore(t)

	notified := 0
	s.Subscribe(func() { notified++ })

	assert.Nil(t, s.LoginAs("fantasma"))
	assert.Nil(t, s.Snapshot().Session)
	assert.Equal(t, 0, notified)
}

// TestLogoutClearsPersistedSession
func TestLogoutClearsPersistedSession(t *testing.T) {
	sessions := &fakeSessionStore{}
	initial := emptyState()
	initial.Users = []entity.User{
		{ID: "u1", Name: "Baran Gökmen", Email: "baran@caria.com", Role: entity.RoleAdmin, IsActive: true},
	}
	s := store.New(store.Config{Initial: initial}, sessions, nil)

	s.LoginAs("u1")
	state := s.Logout()

	assert.Nil(t, state.Session)
	assert.True(t, sessions.cleared)
}

// TestUpdateUserSyncsActiveSession - patch no dono da sessão espelha nome,
// email e role na sessão ativa.
func TestUpdateUserSyncsActiveSession(t *testing.T) {
	sessions := &fakeSessionStore{}
	initial := emptyState()
	initial.Users = []entity.User{
		{ID: "u1", Name: "Baran Gökmen", Email: "baran@caria.com", Role: entity.RoleAdmin, IsActive: true},
		{ID: "u2", Name: "Ece Temel", Email: "ece@caria.com", Role: entity.RoleManager, IsActive: true},
	}
	s := store.New(store.Config{Initial: initial}, sessions, nil)
	s.LoginAs("u1")

	newName := "Baran G. Gökmen"
	state := s.UpdateUser("u1", entity.UserPatch{Name: &newName})

	assert.Equal(t, "Baran G. Gökmen", state.Users[0].Name)
	assert.Equal(t, "Baran G. Gökmen", state.Session.UserName)
	assert.Equal(t, "Baran G. Gökmen", sessions.saved.UserName)

	// Patch em OUTRO usuário não toca a sessão
	otherName := "Ece T."
	state = s.UpdateUser("u2", entity.UserPatch{Name: &otherName})
	assert.Equal(t, "Baran G. Gökmen", state.Session.UserName)
}

// TestDeactivateUser
func TestDeactivateUser(t *testing.T) {
	initial := emptyState()
	initial.Users = []entity.User{
		{ID: "u1", Name: "Baran Gökmen", Email: "baran@caria.com", Role: entity.RoleAdmin, IsActive: true},
	}
	s := store.New(store.Config{Initial: initial}, nil, nil)

	state := s.DeactivateUser("u1")
	assert.False(t, state.Users[0].IsActive)
}

// TestLinkGoogleRecordsActivity
func TestLinkGoogleRecordsActivity(t *testing.T) {
	initial := emptyState()
	initial.Users = []entity.User{
		{ID: "u1", Name: "Baran Gökmen", Email: "baran@caria.com", Role: entity.RoleAdmin, IsActive: true},
	}
	s := store.New(store.Config{Initial: initial}, nil, nil)

	state := s.LinkGoogle("u1")
	assert.True(t, state.Users[0].GoogleLinked)
	assert.Len(t, state.Activities, 1)
	assert.Equal(t, "Google Bağlantısı", state.Activities[0].Title)

	state = s.UnlinkGoogle("u1")
	assert.False(t, state.Users[0].GoogleLinked)
}

// TestUpdateSalesLeadStatus - qualquer coluna válida é aceita; status
// desconhecido é ignorado.
func TestUpdateSalesLeadStatus(t *testing.T) {
	initial := emptyState()
	initial.SalesLeads = []entity.SalesLead{
		{ID: "s1", Name: "Ahmet Yılmaz", Status: entity.SalesStatusNew},
	}
	s := store.New(store.Config{Initial: initial}, nil, nil)

	state := s.UpdateSalesLeadStatus("s1", entity.SalesStatusClosed)
	assert.Equal(t, entity.SalesStatusClosed, state.SalesLeads[0].Status)

	// Volta direto para negociação: transição livre entre colunas
	state = s.UpdateSalesLeadStatus("s1", entity.SalesStatusNegotiation)
	assert.Equal(t, entity.SalesStatusNegotiation, state.SalesLeads[0].Status)

	state = s.UpdateSalesLeadStatus("s1", "coluna-inexistente")
	assert.Equal(t, entity.SalesStatusNegotiation, state.SalesLeads[0].Status)
}

// TestMarkAllRead
func TestMarkAllRead(t *testing.T) {
	s := newTestStore(t)
	s.AddNotification(entity.NewNotification("N1", "m", entity.NotificationInfo))
	s.AddNotification(entity.NewNotification("N2", "m", entity.NotificationAlert))

	state := s.MarkAllRead()
	for _, n := range state.Notifications {
		assert.True(t, n.Read)
	}
}

// TestSetLeadReminderRearms - redefinir o reminder rearma o disparo.
func TestSetLeadReminderRearms(t *testing.T) {
	initial := emptyState()
	initial.LeadsInbox = []entity.InboxLead{
		{ID: "l1", Name: "Lead 1", Status: entity.LeadStatusNew, CreatedAt: time.Now(), ReminderTriggered: true},
	}
	s := store.New(store.Config{Initial: initial}, nil, nil)

	at := time.Now().Add(time.Hour)
	state := s.SetLeadReminder("l1", at)

	assert.NotNil(t, state.LeadsInbox[0].ReminderAt)
	assert.False(t, state.LeadsInbox[0].ReminderTriggered)
	assert.True(t, at.Equal(*state.LeadsInbox[0].ReminderAt))
}

// TestAssignLeadToAdvisor
func TestAssignLeadToAdvisor(t *testing.T) {
	initial := emptyState()
	initial.LeadsInbox = []entity.InboxLead{
		{ID: "l1", Name: "Lead 1", Status: entity.LeadStatusNew},
	}
	s := store.New(store.Config{Initial: initial}, nil, nil)

	state := s.AssignLeadToAdvisor("l1", "Ece Temel")
	assert.Equal(t, "Ece Temel", state.LeadsInbox[0].AssignedTo)
}

// TestSnapshotIsIsolatedCopy - mutar o snapshot devolvido não pode vazar
// para o estado interno do store.
func TestSnapshotIsIsolatedCopy(t *testing.T) {
	s := newTestStore(t)
	s.LoadLeads([]entity.InboxLead{{Name: "Lead 1"}})

	snap := s.Snapshot()
	snap.LeadsInbox[0].Name = "adulterado"

	assert.Equal(t, "Lead 1", s.Snapshot().LeadsInbox[0].Name)
}
