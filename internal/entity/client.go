package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Entidade: Client (registro CRM; nunca é hard-deleted)
type Client struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Budget       int64     `json:"budget"`
	Currency     string    `json:"currency"`
	Region       string    `json:"region"`
	PropertyType string    `json:"property_type,omitempty"`
	Stage        string    `json:"stage"`
	Tag          string    `json:"tag,omitempty"`
	Consultant   string    `json:"consultant"`
	LastActivity string    `json:"last_activity"`
	LeadSource   string    `json:"lead_source,omitempty"`

	// Preenchido quando o cliente nasceu de um lead do feed; é uma das
	// chaves usadas na deduplicação.
	ExternalLeadID string `json:"external_lead_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewClient(name, email, phone string) (*Client, error) {
	client := &Client{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		Phone:        phone,
		Stage:        "New",
		LastActivity: "Yeni oluşturuldu",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := client.Validate(); err != nil {
		return nil, err
	}

	return client, nil
}

func (c *Client) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	if c.Email == "" && c.Phone == "" {
		return errors.New("email or phone is required")
	}
	return nil
}

// ClientPatch carrega atualizações parciais vindas do formulário.
type ClientPatch struct {
	Name         *string `json:"name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Budget       *int64  `json:"budget,omitempty"`
	Currency     *string `json:"currency,omitempty"`
	Region       *string `json:"region,omitempty"`
	Stage        *string `json:"stage,omitempty"`
	Tag          *string `json:"tag,omitempty"`
	Consultant   *string `json:"consultant,omitempty"`
	LastActivity *string `json:"last_activity,omitempty"`
}

func (c *Client) Apply(patch ClientPatch) {
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Email != nil {
		c.Email = *patch.Email
	}
	if patch.Phone != nil {
		c.Phone = *patch.Phone
	}
	if patch.Budget != nil {
		c.Budget = *patch.Budget
	}
	if patch.Currency != nil {
		c.Currency = *patch.Currency
	}
	if patch.Region != nil {
		c.Region = *patch.Region
	}
	if patch.Stage != nil {
		c.Stage = *patch.Stage
	}
	if patch.Tag != nil {
		c.Tag = *patch.Tag
	}
	if patch.Consultant != nil {
		c.Consultant = *patch.Consultant
	}
	if patch.LastActivity != nil {
		c.LastActivity = *patch.LastActivity
	}
	c.UpdatedAt = time.Now()
}
