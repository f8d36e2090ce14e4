package entity

// Roles conhecidos pelo painel. Managers são read-mostly por regra de
// negócio; a aplicação do bloqueio fica na camada HTTP.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleAdvisor  = "advisor"
	RoleInvestor = "investor"
)

// Session é o singleton de autenticação do painel. Substituída por inteiro
// a cada login/logout e persistida no slot durável.
type Session struct {
	UserID       string `json:"user_id"`
	UserName     string `json:"user_name"`
	UserEmail    string `json:"user_email"`
	Role         string `json:"role"`
	TenantKey    string `json:"tenant_key"`
	GoogleLinked bool   `json:"google_linked"`
}

func NewSession(u *User, tenantKey string) *Session {
	return &Session{
		UserID:       u.ID,
		UserName:     u.Name,
		UserEmail:    u.Email,
		Role:         u.Role,
		TenantKey:    tenantKey,
		GoogleLinked: u.GoogleLinked,
	}
}
