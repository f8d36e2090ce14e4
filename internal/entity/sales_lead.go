package entity

import (
	"time"

	"github.com/google/uuid"
)

// Colunas do Kanban de vendas. O grafo de transições é livre (drag-and-drop
// decide), o store só rejeita valores desconhecidos.
const (
	SalesStatusNew          = "new"
	SalesStatusFirstContact = "first_contact"
	SalesStatusInterested   = "interested"
	SalesStatusNegotiation  = "negotiation"
	SalesStatusClosed       = "closed"
	SalesStatusLost         = "lost"
)

func IsValidSalesStatus(status string) bool {
	switch status {
	case SalesStatusNew, SalesStatusFirstContact, SalesStatusInterested,
		SalesStatusNegotiation, SalesStatusClosed, SalesStatusLost:
		return true
	}
	return false
}

// Entidade: SalesLead (card do pipeline de vendas)
type SalesLead struct {
	ID           string    `json:"id"`
	ClientID     string    `json:"client_id,omitempty"`
	Name         string    `json:"name"`
	Budget       int64     `json:"budget"`
	Currency     string    `json:"currency"`
	Location     string    `json:"location"`
	Intent       string    `json:"intent,omitempty"`
	Status       string    `json:"status"`
	Consultant   string    `json:"consultant"`
	LastActivity string    `json:"last_activity,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewSalesLead(name string) *SalesLead {
	return &SalesLead{
		ID:        uuid.New().String(),
		Name:      name,
		Status:    SalesStatusNew,
		CreatedAt: time.Now(),
	}
}
