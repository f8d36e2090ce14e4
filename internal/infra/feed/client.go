package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cariaestates/backoffice/internal/entity"
)

// Client consome o feed REST de leads de anúncios (Horizon/EstatesOS).
type Client struct {
	apiToken string
	baseURL  string
	http     *http.Client
}

func NewClient(baseURL, apiToken string) *Client {
	return &Client{
		apiToken: apiToken,
		baseURL:  baseURL,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) FetchLeads(ctx context.Context) ([]entity.InboxLead, error) {
	url := fmt.Sprintf("%s/v1/leads?status=new", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	c.addAuthHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &AppError{
			Message:    "Network error - please check your connection",
			StatusCode: 0,
			Code:       "NETWORK_ERROR",
		}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, normalizeError(resp.StatusCode, body)
	}

	var result leadFeedResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &AppError{
			Message:    "resposta inválida do feed: " + err.Error(),
			StatusCode: resp.StatusCode,
			Code:       "INVALID_RESPONSE",
		}
	}

	leads := make([]entity.InboxLead, 0, len(result.Leads))
	for _, rec := range result.Leads {
		leads = append(leads, recordToLead(rec))
	}
	return leads, nil
}

func (c *Client) addAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")
}

// normalizeError mapeia o status HTTP para o shape uniforme de erro.
// O 401 ganha código próprio: é a única regra transversal de protocolo
// (o consumidor descarta o token e volta para o login).
func normalizeError(status int, body []byte) *AppError {
	var parsed errorResponse
	_ = json.Unmarshal(body, &parsed)

	message := parsed.Message
	if message == "" {
		message = "Server error"
	}
	code := parsed.Code
	if code == "" {
		code = "SERVER_ERROR"
	}
	if status == http.StatusUnauthorized {
		code = "UNAUTHORIZED"
	}

	return &AppError{Message: message, StatusCode: status, Code: code}
}

func recordToLead(rec leadRecord) entity.InboxLead {
	lead := entity.NewInboxLead(rec.Name)
	lead.ExternalLeadID = rec.ExternalID
	lead.Phone = rec.Phone
	lead.Email = rec.Email
	lead.Region = rec.Region
	lead.PropertyType = rec.PropertyType
	lead.Budget = rec.Budget
	lead.Currency = rec.Currency
	lead.Intent = rec.Intent
	lead.LeadSource = rec.LeadSource
	lead.CampaignName = rec.CampaignName

	if t, err := time.Parse(time.RFC3339, rec.CreatedAt); err == nil {
		lead.CreatedAt = t
	}
	return *lead
}
