package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cariaestates/backoffice/internal/entity"
)

type ConversionOutcome string

const (
	OutcomeConverted ConversionOutcome = "converted"
	OutcomeDuplicate ConversionOutcome = "duplicate"
	OutcomeNotFound  ConversionOutcome = "not_found"
	// Lead já está em estado terminal: a segunda conversão é no-op,
	// nenhum registro novo é criado.
	OutcomeAlreadyProcessed ConversionOutcome = "already_processed"
)

type ConversionResult struct {
	Outcome ConversionOutcome
	Lead    *entity.InboxLead
	// Client é o registro novo (converted) ou o existente que causou a
	// deduplicação (duplicate).
	Client *entity.Client
}

// ConvertLead promove um lead do inbox para cliente CRM + card de vendas,
// ou marca como duplicado quando já existe registro com o mesmo phone /
// email / external id. Nos dois caminhos grava exatamente UMA Activity e
// UMA Notification, e o status do lead fica terminal.
func (s *AdminStore) ConvertLead(leadID string) ConversionResult {
	s.mu.Lock()

	idx := -1
	for i, l := range s.state.LeadsInbox {
		if l.ID == leadID {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return ConversionResult{Outcome: OutcomeNotFound}
	}

	lead := s.state.LeadsInbox[idx]
	if lead.Terminal() {
		s.mu.Unlock()
		return ConversionResult{Outcome: OutcomeAlreadyProcessed, Lead: &lead}
	}

	var result ConversionResult
	if existing := s.findDuplicateLocked(lead); existing != nil {
		lead.Status = entity.LeadStatusProcessed
		lead.Result = entity.LeadResultDuplicate

		s.appendActivityLocked(entity.NewActivity("client", "TEKRAR LEAD (Ads)",
			fmt.Sprintf("%s tekrar lead bıraktı. Mevcut kayıt güncellendi.", lead.Name), "Lead Inbox"))
		s.appendNotificationLocked(entity.NewNotification("Tekrar Kayıt Engellendi",
			fmt.Sprintf("%s zaten sistemde kayıtlı.", lead.Name), entity.NotificationInfo))

		result = ConversionResult{Outcome: OutcomeDuplicate, Lead: &lead, Client: existing}
	} else {
		client := clientFromLead(lead)
		s.state.Clients = append([]entity.Client{client}, s.state.Clients...)

		// Sales sync: o card entra na coluna 'new' do Kanban.
		card := entity.SalesLead{
			ID:           uuid.New().String(),
			ClientID:     client.ID,
			Name:         client.Name,
			Budget:       client.Budget,
			Currency:     client.Currency,
			Location:     lead.Region,
			Intent:       client.Tag,
			Status:       entity.SalesStatusNew,
			Consultant:   client.Consultant,
			LastActivity: client.LastActivity,
			CreatedAt:    time.Now(),
		}
		s.state.SalesLeads = append([]entity.SalesLead{card}, s.state.SalesLeads...)

		lead.Status = entity.LeadStatusConverted

		s.appendActivityLocked(entity.NewActivity("lead", "Sales Sync: Yeni Aday",
			fmt.Sprintf("%s kanalize edildi ve Sales Kanban/Yeni Müşteriler'e eklendi.", lead.Name), "Lead Inbox"))
		s.appendNotificationLocked(entity.NewNotification("Satış Hunisine Eklendi",
			fmt.Sprintf("%s artık Sales Pipeline içinde takipte.", lead.Name), entity.NotificationSuccess))

		result = ConversionResult{Outcome: OutcomeConverted, Lead: &lead, Client: &client}
	}

	next := append([]entity.InboxLead(nil), s.state.LeadsInbox...)
	next[idx] = lead
	s.state.LeadsInbox = next

	s.mu.Unlock()

	s.broadcast()
	return result
}

// findDuplicateLocked procura um cliente existente segundo a estratégia
// configurada. Campos vazios nunca contam como match.
func (s *AdminStore) findDuplicateLocked(lead entity.InboxLead) *entity.Client {
	for _, c := range s.state.Clients {
		phoneHit := lead.Phone != "" && c.Phone == lead.Phone
		emailHit := lead.Email != "" && c.Email == lead.Email
		externalHit := lead.ExternalLeadID != "" && c.ExternalLeadID == lead.ExternalLeadID

		var hit bool
		switch s.strategy {
		case MatchStrict:
			hit = phoneHit && (emailHit || externalHit)
		default:
			hit = phoneHit || emailHit || externalHit
		}
		if hit {
			client := c
			return &client
		}
	}
	return nil
}

func clientFromLead(lead entity.InboxLead) entity.Client {
	tag := lead.Intent
	if tag == "" {
		tag = "SICAK"
	}
	currency := lead.Currency
	if currency == "" {
		currency = "GBP"
	}
	consultant := lead.AssignedTo
	if consultant == "" {
		consultant = "Atanmamış"
	}

	return entity.Client{
		ID:             uuid.New().String(),
		Name:           lead.Name,
		Email:          lead.Email,
		Phone:          lead.Phone,
		Region:         lead.Region,
		PropertyType:   lead.PropertyType,
		Budget:         lead.Budget,
		Currency:       currency,
		Tag:            tag,
		Stage:          "New",
		Consultant:     consultant,
		LeadSource:     lead.LeadSource,
		ExternalLeadID: lead.ExternalLeadID,
		LastActivity:   "Ads üzerinden geldi",
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
}
