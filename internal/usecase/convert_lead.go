package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/cariaestates/backoffice/internal/infra/queue"
	"github.com/cariaestates/backoffice/internal/store"
)

type ConvertLeadInput struct {
	LeadID string `json:"lead_id"`
}

type ConvertLeadOutput struct {
	Outcome  string `json:"outcome"` // converted | duplicate
	LeadID   string `json:"lead_id"`
	ClientID string `json:"client_id,omitempty"`
	Msg      string `json:"msg"`
}

type ConvertLeadUseCase struct {
	Store StoreInterface
	Queue QueueProducerInterface
}

func NewConvertLeadUseCase(s StoreInterface, q QueueProducerInterface) *ConvertLeadUseCase {
	return &ConvertLeadUseCase{Store: s, Queue: q}
}

func (uc *ConvertLeadUseCase) Execute(ctx context.Context, input ConvertLeadInput) (*ConvertLeadOutput, error) {
	leadID := strings.TrimSpace(input.LeadID)
	if leadID == "" {
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: "lead_id is required"}
	}

	result := uc.Store.ConvertLead(leadID)

	switch result.Outcome {
	case store.OutcomeNotFound:
		return nil, &DomainError{Code: "LEAD_NOT_FOUND", Message: "lead não encontrado: " + leadID}

	case store.OutcomeAlreadyProcessed:
		// Conversão é terminal: a segunda chamada não cria nada.
		return nil, &DomainError{Code: "LEAD_ALREADY_PROCESSED", Message: "lead já saiu do funil de entrada"}
	}

	payload := queue.LeadEventPayload{
		LeadID:     result.Lead.ID,
		LeadName:   result.Lead.Name,
		Phone:      result.Lead.Phone,
		Email:      result.Lead.Email,
		Region:     result.Lead.Region,
		Intent:     result.Lead.Intent,
		AssignedTo: result.Lead.AssignedTo,
		LeadSource: result.Lead.LeadSource,
	}

	out := &ConvertLeadOutput{Outcome: string(result.Outcome), LeadID: result.Lead.ID}
	if result.Outcome == store.OutcomeConverted {
		payload.Event = queue.EventLeadConverted
		payload.ClientID = result.Client.ID
		out.ClientID = result.Client.ID
		out.Msg = "Lead convertido e adicionado ao Sales Pipeline."
	} else {
		payload.Event = queue.EventLeadDuplicate
		payload.ClientID = result.Client.ID
		out.Msg = "Registro duplicado: cliente já existe."
	}

	// A fila é best-effort: o estado do painel já mudou e não volta atrás
	// por causa de um broker fora do ar.
	if uc.Queue != nil {
		if err := uc.Queue.PublishLeadEvent(ctx, payload); err != nil {
			log.Printf("⚠️ convert: falha ao publicar evento %s: %v", payload.Event, err)
		}
	}

	return out, nil
}
