package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cariaestates/backoffice/internal/entity"
)

// MockFeed substitui o feed real quando FEED_URL não está configurado
// (dev local e demos). Cada chamada gera um batch novo com external ids
// únicos; um dos leads já nasce com mais de 2h para exercitar o SLA.
type MockFeed struct {
	mu    sync.Mutex
	batch int
}

func NewMockFeed() *MockFeed {
	return &MockFeed{}
}

func (m *MockFeed) FetchLeads(ctx context.Context) ([]entity.InboxLead, error) {
	m.mu.Lock()
	m.batch++
	n := m.batch
	m.mu.Unlock()

	now := time.Now()

	records := []leadRecord{
		{Name: "Deniz Şahin", Phone: "05421234501", Email: "deniz@example.com", Region: "Bodrum", PropertyType: "Villa", Budget: 350000, Currency: "GBP", Intent: "SICAK", LeadSource: "google_ads", CampaignName: "Bodrum Yazlık 2025", CreatedAt: now.Add(-15 * time.Minute).Format(time.RFC3339)},
		{Name: "Elif Arı", Phone: "05421234502", Email: "elif@example.com", Region: "Fethiye", PropertyType: "Apartman", Budget: 180000, Currency: "GBP", Intent: "SICAK", LeadSource: "meta_ads", CampaignName: "Fethiye Deniz Manzara", CreatedAt: now.Add(-45 * time.Minute).Format(time.RFC3339)},
		{Name: "Kerem Ak", Phone: "05421234503", Email: "kerem@example.com", Region: "Kaş", PropertyType: "Arsa", Budget: 9000000, Currency: "TL", Intent: "VIP", LeadSource: "google_ads", CampaignName: "Kaş Yatırım", CreatedAt: now.Add(-3 * time.Hour).Format(time.RFC3339)},
		{Name: "Aylin Kurt", Phone: "05421234504", Email: "aylin@example.com", Region: "Marmaris", PropertyType: "Villa", Budget: 5200000, Currency: "TL", Intent: "SICAK", LeadSource: "meta_ads", CampaignName: "Marmaris Premium", CreatedAt: now.Add(-10 * time.Minute).Format(time.RFC3339)},
		{Name: "Burak Öz", Phone: "05421234505", Email: "burak@example.com", Region: "Girne", PropertyType: "Apartman", Budget: 140000, Currency: "GBP", Intent: "SICAK", LeadSource: "google_ads", CampaignName: "Girne Sahil", CreatedAt: now.Add(-5 * time.Minute).Format(time.RFC3339)},
	}

	leads := make([]entity.InboxLead, 0, len(records))
	for i, rec := range records {
		rec.ExternalID = fmt.Sprintf("ads-%d-%d", n, i+1)
		leads = append(leads, recordToLead(rec))
	}
	return leads, nil
}
