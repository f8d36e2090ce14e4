package store

import (
	"time"

	"github.com/cariaestates/backoffice/internal/entity"
)

// State é o snapshot completo entregue aos subscribers e à API. Todas as
// coleções são substituídas por inteiro a cada mutação; quem recebe um
// snapshot nunca vê escrita em andamento.
type State struct {
	Session *entity.Session `json:"session,omitempty"`

	Users      []entity.User      `json:"users"`
	Clients    []entity.Client    `json:"clients"`
	LeadsInbox []entity.InboxLead `json:"leads_inbox"`
	SalesLeads []entity.SalesLead `json:"sales_leads"`

	Advisors                 []string `json:"advisors"`
	AutoDistributeLeads      bool     `json:"auto_distribute_leads"`
	LastAssignedAdvisorIndex int      `json:"last_assigned_advisor_index"`

	SelectedClientID   string `json:"selected_client_id,omitempty"`
	SelectedLeadID     string `json:"selected_lead_id,omitempty"`
	SelectedPropertyID string `json:"selected_property_id,omitempty"`

	Notifications []entity.Notification `json:"notifications"`
	Activities    []entity.Activity     `json:"activities"`
}

func (s State) copy() State {
	out := s
	out.Users = append([]entity.User(nil), s.Users...)
	out.Clients = append([]entity.Client(nil), s.Clients...)
	out.LeadsInbox = append([]entity.InboxLead(nil), s.LeadsInbox...)
	out.SalesLeads = append([]entity.SalesLead(nil), s.SalesLeads...)
	out.Advisors = append([]string(nil), s.Advisors...)
	out.Notifications = append([]entity.Notification(nil), s.Notifications...)
	out.Activities = append([]entity.Activity(nil), s.Activities...)
	if s.Session != nil {
		session := *s.Session
		out.Session = &session
	}
	return out
}

// Seed devolve o snapshot inicial do painel: a equipe cadastrada, a
// carteira mínima de clientes e o Kanban de demonstração.
func Seed() State {
	now := time.Now()

	return State{
		Users: []entity.User{
			{ID: "u1", Name: "Baran Gökmen", Email: "baran@caria.com", Role: entity.RoleAdmin, Regions: []string{"Bodrum", "Fethiye"}, IsActive: true, GoogleLinked: true},
			{ID: "u2", Name: "Ece Temel", Email: "ece@caria.com", Role: entity.RoleManager, Regions: []string{"Fethiye", "Kaş"}, IsActive: true},
			{ID: "u3", Name: "Buse Aydın", Email: "buse@caria.com", Role: entity.RoleAdvisor, Regions: []string{"Bodrum"}, IsActive: true, GoogleLinked: true},
			{ID: "u4", Name: "Can Korkmaz", Email: "can@caria.com", Role: entity.RoleAdvisor, Regions: []string{"Marmaris"}, IsActive: true},
			{ID: "u5", Name: "Mehmet Demir", Email: "mehmet@caria.com", Role: entity.RoleAdvisor, Regions: []string{"Kaş"}, IsActive: true},
			{ID: "u6", Name: "Selin Yıldız", Email: "selin@caria.com", Role: entity.RoleAdvisor, Regions: []string{"Dalaman"}, IsActive: false},
			{ID: "u7", Name: "Oğuz Kağan", Email: "oguz@caria.com", Role: entity.RoleAdvisor, Regions: []string{"Girne"}, IsActive: true},
			{ID: "u8", Name: "Murat Arslan", Email: "murat@caria.com", Role: entity.RoleInvestor, Regions: []string{"All"}, IsActive: true},
		},
		Clients: []entity.Client{
			{ID: "c1", Name: "Ahmet Yılmaz", Email: "ahmet@gmail.com", Phone: "05321112233", Budget: 4500000, Currency: "TL", Region: "Bodrum", Stage: "New", Tag: "VIP", Consultant: "Buse Aydın", LastActivity: "2 saat önce", CreatedAt: now, UpdatedAt: now},
			{ID: "c2", Name: "Mehmet Demir", Email: "mehmet.d@outlook.com", Phone: "05334445566", Budget: 250000, Currency: "GBP", Region: "Fethiye", Stage: "Interested", Tag: "SICAK", Consultant: "Can Korkmaz", LastActivity: "1 gün önce", CreatedAt: now, UpdatedAt: now},
		},
		LeadsInbox: []entity.InboxLead{},
		SalesLeads: []entity.SalesLead{
			{ID: "s1", Name: "Ahmet Yılmaz", Budget: 4500000, Currency: "TL", Location: "Bodrum, Muğla", Intent: "SICAK", Status: entity.SalesStatusNew, Consultant: "Buse Aydın", LastActivity: "2 gün önce", CreatedAt: now},
			{ID: "s2", Name: "Mehmet Demir", Budget: 250000, Currency: "GBP", Location: "Fethiye, Muğla", Intent: "VIP", Status: entity.SalesStatusInterested, Consultant: "Can Korkmaz", LastActivity: "1 gün önce", CreatedAt: now},
			{ID: "s3", Name: "Zeynep Kaya", Budget: 12000000, Currency: "TL", Location: "Kaş, Antalya", Intent: "GECİKMİŞ", Status: entity.SalesStatusFirstContact, Consultant: "Buse Aydın", LastActivity: "5 gün önce", CreatedAt: now},
			{ID: "s4", Name: "Selin Yıldız", Budget: 180000, Currency: "GBP", Location: "Bodrum, Muğla", Intent: "SICAK", Status: entity.SalesStatusNegotiation, Consultant: "Ece Temel", LastActivity: "Bugün", CreatedAt: now},
			{ID: "s5", Name: "Murat Arslan", Budget: 3200000, Currency: "TL", Location: "Marmaris, Muğla", Intent: "VIP", Status: entity.SalesStatusNew, Consultant: "Can Korkmaz", LastActivity: "3 gün önce", CreatedAt: now},
		},
		Advisors:                 DefaultAdvisors(),
		LastAssignedAdvisorIndex: -1,
		Notifications: []entity.Notification{
			{ID: "n1", Title: "Sistem Hoşgeldiniz", Message: "Admin paneli başarıyla yüklendi.", Type: entity.NotificationInfo, Time: now},
			{ID: "n2", Title: "İnternet Bağlantısı", Message: "Canlı veritabanına bağlandınız.", Type: entity.NotificationInfo, Time: now, Read: true},
		},
		Activities: []entity.Activity{
			{ID: "a1", Type: "info", Title: "Sistem Girişi", Description: "Admin paneli oturumu açıldı.", Entity: "Sistem", Time: now},
		},
	}
}

func DefaultAdvisors() []string {
	return []string{"Buse Aydın", "Can Korkmaz", "Ece Temel"}
}
