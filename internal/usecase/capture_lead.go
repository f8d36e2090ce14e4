package usecase

import (
	"context"

	"github.com/cariaestates/backoffice/internal/entity"
)

type CaptureLeadInput struct {
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
	ExternalLeadID string `json:"external_lead_id,omitempty"`
}

type CaptureLeadOutput struct {
	LeadID     string `json:"lead_id"`
	AssignedTo string `json:"assigned_to,omitempty"`
}

// CaptureLeadUseCase recebe um lead avulso do webhook público.
type CaptureLeadUseCase struct {
	Store StoreInterface
}

func NewCaptureLeadUseCase(s StoreInterface) *CaptureLeadUseCase {
	return &CaptureLeadUseCase{Store: s}
}

func (uc *CaptureLeadUseCase) Execute(ctx context.Context, input CaptureLeadInput) (*CaptureLeadOutput, error) {
	validationErrors := ValidateCaptureLeadInput(input)
	if len(validationErrors) > 0 {
		errMsg := "validation failed: "
		for _, e := range validationErrors {
			errMsg += e.Field + " (" + e.Message + "), "
		}
		return nil, &DomainError{
			Code:    "VALIDATION_ERROR",
			Message: errMsg,
		}
	}

	lead := entity.NewInboxLead(input.Name)
	lead.Phone = input.Phone
	lead.Email = input.Email
	lead.Region = input.Region
	lead.PropertyType = input.PropertyType
	lead.Budget = input.Budget
	lead.Currency = input.Currency
	lead.Intent = input.Intent
	lead.LeadSource = input.LeadSource
	lead.CampaignName = input.CampaignName
	lead.ExternalLeadID = input.ExternalLeadID

	snap := uc.Store.AddInboxLead(*lead)

	assignedTo := ""
	for _, l := range snap.LeadsInbox {
		if l.ID == lead.ID {
			assignedTo = l.AssignedTo
			break
		}
	}

	return &CaptureLeadOutput{LeadID: lead.ID, AssignedTo: assignedTo}, nil
}
