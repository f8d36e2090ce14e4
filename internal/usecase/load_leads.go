package usecase

import (
	"context"
)

type LoadLeadsOutput struct {
	Count       int  `json:"count"`
	Distributed bool `json:"distributed"`
}

// LoadLeadsUseCase puxa um batch do feed de anúncios e entrega ao store,
// que aplica (ou não) a distribuição round-robin.
type LoadLeadsUseCase struct {
	Store StoreInterface
	Feed  FeedInterface
}

func NewLoadLeadsUseCase(s StoreInterface, feed FeedInterface) *LoadLeadsUseCase {
	return &LoadLeadsUseCase{Store: s, Feed: feed}
}

func (uc *LoadLeadsUseCase) Execute(ctx context.Context) (*LoadLeadsOutput, error) {
	batch, err := uc.Feed.FetchLeads(ctx)
	if err != nil {
		return nil, &TechnicalError{
			Code:    "FEED_ERROR",
			Message: "falha ao buscar leads do feed: " + err.Error(),
		}
	}

	snap := uc.Store.LoadLeads(batch)

	return &LoadLeadsOutput{
		Count:       len(batch),
		Distributed: snap.AutoDistributeLeads,
	}, nil
}
