package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/cariaestates/backoffice/internal/entity"
	"github.com/cariaestates/backoffice/internal/infra/queue"
	"github.com/cariaestates/backoffice/internal/store"
	"github.com/cariaestates/backoffice/internal/usecase"
)

// MockQueueProducer
type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishLeadEvent(ctx context.Context, payload queue.LeadEventPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// MockFeed
type MockFeed struct {
	mock.Mock
}

func (m *MockFeed) FetchLeads(ctx context.Context) ([]entity.InboxLead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.InboxLead), args.Error(1)
}

func storeWithInbox(leads ...entity.InboxLead) *store.AdminStore {
	initial := &store.State{LastAssignedAdvisorIndex: -1, LeadsInbox: leads}
	return store.New(store.Config{Initial: initial}, nil, nil)
}

// ============ TESTES ============

// TestConvertLeadPublishesConvertedEvent - conversão feliz publica o
// evento lead.converted com o client_id do registro novo.
func TestConvertLeadPublishesConvertedEvent(t *testing.T) {
	ctx := context.Background()
	s := storeWithInbox(entity.InboxLead{
		ID: "l1", Name: "Zeynep Kaya", Phone: "05001112233",
		Status: entity.LeadStatusNew, CreatedAt: time.Now(),
	})

	mockQueue := new(MockQueueProducer)
	mockQueue.On("PublishLeadEvent", ctx, mock.MatchedBy(func(p queue.LeadEventPayload) bool {
		return p.Event == queue.EventLeadConverted && p.LeadID == "l1" && p.ClientID != ""
	})).Return(nil)

	uc := usecase.NewConvertLeadUseCase(s, mockQueue)

	output, err := uc.Execute(ctx, usecase.ConvertLeadInput{LeadID: "l1"})

	assert.NoError(t, err)
	assert.NotNil(t, output)
	assert.Equal(t, "converted", output.Outcome)
	assert.NotEmpty(t, output.ClientID)
	assert.Equal(t, "Lead convertido e adicionado ao Sales Pipeline.", output.Msg)

	mockQueue.AssertExpectations(t)
}

// TestConvertLeadDuplicatePublishesDuplicateEvent
func TestConvertLeadDuplicatePublishesDuplicateEvent(t *testing.T) {
	ctx := context.Background()
	initial := &store.State{
		LastAssignedAdvisorIndex: -1,
		Clients:                  []entity.Client{{ID: "c1", Name: "Zeynep Kaya", Phone: "05001112233"}},
		LeadsInbox: []entity.InboxLead{{
			ID: "l1", Name: "Zeynep K.", Phone: "05001112233",
			Status: entity.LeadStatusNew, CreatedAt: time.Now(),
		}},
	}
	s := store.New(store.Config{Initial: initial}, nil, nil)

	mockQueue := new(MockQueueProducer)
	mockQueue.On("PublishLeadEvent", ctx, mock.MatchedBy(func(p queue.LeadEventPayload) bool {
		return p.Event == queue.EventLeadDuplicate && p.ClientID == "c1"
	})).Return(nil)

	uc := usecase.NewConvertLeadUseCase(s, mockQueue)

	output, err := uc.Execute(ctx, usecase.ConvertLeadInput{LeadID: "l1"})

	assert.NoError(t, err)
	assert.Equal(t, "duplicate", output.Outcome)
	assert.Equal(t, "c1", output.ClientID)
	mockQueue.AssertExpectations(t)
}

// TestConvertLeadQueueFailureIsBestEffort - broker fora do ar não desfaz a
// conversão nem vira erro para o chamador.
func TestConvertLeadQueueFailureIsBestEffort(t *testing.T) {
	ctx := context.Background()
	s := storeWithInbox(entity.InboxLead{
		ID: "l1", Name: "Zeynep Kaya", Phone: "05001112233",
		Status: entity.LeadStatusNew, CreatedAt: time.Now(),
	})

	mockQueue := new(MockQueueProducer)
	mockQueue.On("PublishLeadEvent", ctx, mock.Anything).Return(errors.New("broker down"))

	uc := usecase.NewConvertLeadUseCase(s, mockQueue)

	output, err := uc.Execute(ctx, usecase.ConvertLeadInput{LeadID: "l1"})

	assert.NoError(t, err)
	assert.Equal(t, "converted", output.Outcome)
	assert.Len(t, s.Snapshot().Clients, 1)
}

// TestConvertLeadNotFoundIsDomainError
func TestConvertLeadNotFoundIsDomainError(t *testing.T) {
	s := storeWithInbox()
	mockQueue := new(MockQueueProducer)

	uc := usecase.NewConvertLeadUseCase(s, mockQueue)

	output, err := uc.Execute(context.Background(), usecase.ConvertLeadInput{LeadID: "fantasma"})

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, usecase.IsDomainError(err))
	mockQueue.AssertNotCalled(t, "PublishLeadEvent")
}

// TestConvertLeadAlreadyProcessedIsDomainError - segunda conversão não
// publica evento nenhum.
func TestConvertLeadAlreadyProcessedIsDomainError(t *testing.T) {
	ctx := context.Background()
	s := storeWithInbox(entity.InboxLead{
		ID: "l1", Name: "Zeynep Kaya", Phone: "05001112233",
		Status: entity.LeadStatusNew, CreatedAt: time.Now(),
	})

	mockQueue := new(MockQueueProducer)
	mockQueue.On("PublishLeadEvent", ctx, mock.Anything).Return(nil)

	uc := usecase.NewConvertLeadUseCase(s, mockQueue)

	_, err := uc.Execute(ctx, usecase.ConvertLeadInput{LeadID: "l1"})
	assert.NoError(t, err)

	output, err := uc.Execute(ctx, usecase.ConvertLeadInput{LeadID: "l1"})
	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, usecase.IsDomainError(err))
	mockQueue.AssertNumberOfCalls(t, "PublishLeadEvent", 1)
}

// TestConvertLeadEmptyIDIsValidationError
func TestConvertLeadEmptyIDIsValidationError(t *testing.T) {
	s := storeWithInbox()
	uc := usecase.NewConvertLeadUseCase(s, nil)

	output, err := uc.Execute(context.Background(), usecase.ConvertLeadInput{LeadID: "  "})

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, usecase.IsDomainError(err))
}

// TestLoadLeadsFromFeed
func TestLoadLeadsFromFeed(t *testing.T) {
	ctx := context.Background()
	s := storeWithInbox()

	batch := []entity.InboxLead{
		{Name: "Lead 1", CreatedAt: time.Now()},
		{Name: "Lead 2", CreatedAt: time.Now()},
	}
	mockFeed := new(MockFeed)
	mockFeed.On("FetchLeads", ctx).Return(batch, nil)

	uc := usecase.NewLoadLeadsUseCase(s, mockFeed)

	output, err := uc.Execute(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 2, output.Count)
	assert.False(t, output.Distributed)
	assert.Len(t, s.Snapshot().LeadsInbox, 2)
	mockFeed.AssertCalled(t, "FetchLeads", ctx)
}

// TestLoadLeadsFeedFailureIsTechnicalError
func TestLoadLeadsFeedFailureIsTechnicalError(t *testing.T) {
	ctx := context.Background()
	s := storeWithInbox()

	mockFeed := new(MockFeed)
	mockFeed.On("FetchLeads", ctx).Return(nil, errors.New("timeout"))

	uc := usecase.NewLoadLeadsUseCase(s, mockFeed)

	output, err := uc.Execute(ctx)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, usecase.IsTechnicalError(err))
	assert.Empty(t, s.Snapshot().LeadsInbox)
}

// TestCaptureLeadAssignsAdvisorWhenDistributionOn
func TestCaptureLeadAssignsAdvisorWhenDistributionOn(t *testing.T) {
	initial := &store.State{LastAssignedAdvisorIndex: -1, AutoDistributeLeads: true}
	s := store.New(store.Config{Initial: initial, Advisors: []string{"Buse Aydın", "Can Korkmaz"}}, nil, nil)

	uc := usecase.NewCaptureLeadUseCase(s)

	output, err := uc.Execute(context.Background(), usecase.CaptureLeadInput{
		Name:  "Zeynep Kaya",
		Phone: "0500 111 22 33",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, output.LeadID)
	assert.Equal(t, "Buse Aydın", output.AssignedTo)
}

// TestCaptureLeadValidationFailure
func TestCaptureLeadValidationFailure(t *testing.T) {
	s := storeWithInbox()
	uc := usecase.NewCaptureLeadUseCase(s)

	// Sem telefone e sem email
	output, err := uc.Execute(context.Background(), usecase.CaptureLeadInput{Name: "Zeynep Kaya"})

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, usecase.IsDomainError(err))
	assert.Empty(t, s.Snapshot().LeadsInbox)
}
