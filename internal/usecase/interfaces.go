package usecase

import (
	"context"

	"github.com/cariaestates/backoffice/internal/entity"
	"github.com/cariaestates/backoffice/internal/infra/queue"
	"github.com/cariaestates/backoffice/internal/store"
)

// StoreInterface recorta do AdminStore só o que os casos de uso precisam.
type StoreInterface interface {
	ConvertLead(leadID string) store.ConversionResult
	LoadLeads(batch []entity.InboxLead) store.State
	AddInboxLead(lead entity.InboxLead) store.State
	Snapshot() store.State
}

type QueueProducerInterface interface {
	PublishLeadEvent(ctx context.Context, payload queue.LeadEventPayload) error
}

type FeedInterface interface {
	FetchLeads(ctx context.Context) ([]entity.InboxLead, error)
}
