package entity

import (
	"errors"

	"github.com/google/uuid"
)

// Entidade: User (membro da equipe do back office)
type User struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Regions      []string `json:"regions"`
	IsActive     bool     `json:"is_active"`
	GoogleLinked bool     `json:"google_linked"`
}

// Factory
func NewUser(name, email, role string, regions []string) (*User, error) {
	user := &User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		Role:         role,
		Regions:      regions,
		IsActive:     true,
		GoogleLinked: false,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

func (u *User) Validate() error {
	if u.Name == "" {
		return errors.New("name is required")
	}
	if u.Email == "" {
		return errors.New("email is required")
	}
	switch u.Role {
	case RoleAdmin, RoleManager, RoleAdvisor, RoleInvestor:
	default:
		return errors.New("role is invalid")
	}
	return nil
}

// UserPatch carrega atualizações parciais (nil = não mexe no campo).
type UserPatch struct {
	Name         *string   `json:"name,omitempty"`
	Email        *string   `json:"email,omitempty"`
	Role         *string   `json:"role,omitempty"`
	Regions      *[]string `json:"regions,omitempty"`
	IsActive     *bool     `json:"is_active,omitempty"`
	GoogleLinked *bool     `json:"google_linked,omitempty"`
}

func (u *User) Apply(patch UserPatch) {
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.Regions != nil {
		u.Regions = *patch.Regions
	}
	if patch.IsActive != nil {
		u.IsActive = *patch.IsActive
	}
	if patch.GoogleLinked != nil {
		u.GoogleLinked = *patch.GoogleLinked
	}
}
