package entity

import (
	"time"

	"github.com/google/uuid"
)

// Estados do funil de entrada. 'processed' e 'converted' são terminais:
// um lead nunca volta para 'new'.
const (
	LeadStatusNew       = "new"
	LeadStatusProcessed = "processed"
	LeadStatusConverted = "converted"
)

// Resultado gravado quando o lead é processado sem virar cliente.
const LeadResultDuplicate = "duplicate"

// Intent atribuído pelo monitor quando o SLA de primeiro contato estoura.
const IntentDelayed = "GECİKMİŞ"

// Entidade: InboxLead (lead bruto vindo do feed de anúncios)
type InboxLead struct {
	ID             string `json:"id"`
	ExternalLeadID string `json:"external_lead_id,omitempty"`
	Name           string `json:"name"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	Region         string `json:"region,omitempty"`
	PropertyType   string `json:"property_type,omitempty"`
	Budget         int64  `json:"budget,omitempty"`
	Currency       string `json:"currency,omitempty"`
	Intent         string `json:"intent,omitempty"`
	LeadSource     string `json:"lead_source,omitempty"`
	CampaignName   string `json:"campaign_name,omitempty"`

	CreatedAt  time.Time `json:"created_at"`
	Status     string    `json:"status"`
	Result     string    `json:"result,omitempty"`
	AssignedTo string    `json:"assigned_to,omitempty"`

	ReminderAt        *time.Time `json:"reminder_at,omitempty"`
	SLATriggered      bool       `json:"sla_triggered"`
	ReminderTriggered bool       `json:"reminder_triggered"`
}

func NewInboxLead(name string) *InboxLead {
	return &InboxLead{
		ID:        uuid.New().String(),
		Name:      name,
		Status:    LeadStatusNew,
		CreatedAt: time.Now(),
	}
}

// Terminal informa se o lead já saiu do funil de entrada.
func (l *InboxLead) Terminal() bool {
	return l.Status == LeadStatusProcessed || l.Status == LeadStatusConverted
}
