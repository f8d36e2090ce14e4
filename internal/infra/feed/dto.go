package feed

import "fmt"

// AppError é o formato normalizado de erro de transporte: toda falha do
// feed chega ao caller com message + status_code + code.
type AppError struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %d: %s", e.Code, e.StatusCode, e.Message)
}

// leadRecord é o shape cru de um lead no feed de anúncios.
type leadRecord struct {
	ExternalID   string `json:"external_id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Region       string `json:"region"`
	PropertyType string `json:"property_type"`
	Budget       int64  `json:"budget"`
	Currency     string `json:"currency"`
	Intent       string `json:"intent"`
	LeadSource   string `json:"lead_source"`
	CampaignName string `json:"campaign_name"`
	CreatedAt    string `json:"created_at"` // RFC3339
}

type leadFeedResponse struct {
	Leads []leadRecord `json:"leads"`
}

type errorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}
