package account

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/estify-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "account not found")
	ErrAgentNotFound      = apperror.New(http.StatusNotFound, "agent not found")
	ErrEmailAlreadyUsed   = apperror.New(http.StatusConflict, "email already used")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid email or password")
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// Account is a user, agent or administrator. Phone and AgencyName are set
// for agents only.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	Role         Role
	Phone        *string
	AgencyName   *string
	CreatedAt    time.Time
}

type Filter struct {
	Role     Role
	Page     int
	PageSize int
}

// Registration is the input of both sign-up flows.
type Registration struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	DisplayName string `json:"display_name" validate:"required,notblank,max=100"`
}

// AgentRegistration adds the contact details every agent must publish.
type AgentRegistration struct {
	Registration
	Phone      string `json:"phone" validate:"required,len=10,numeric"`
	AgencyName string `json:"agency_name" validate:"required,notblank,max=200"`
}
