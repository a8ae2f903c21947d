package http

import (
	"time"

	"github.com/nekogravitycat/estify-backend/internal/account"
	"github.com/nekogravitycat/estify-backend/internal/pkg/request"
)

// RegisterRequest is the payload for POST /v1/auth/register.
type RegisterRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
}

func (r RegisterRequest) toRegistration() account.Registration {
	return account.Registration{Email: r.Email, Password: r.Password, DisplayName: r.DisplayName}
}

// RegisterAgentRequest is the payload for POST /v1/auth/register/agent.
type RegisterAgentRequest struct {
	RegisterRequest
	Phone      string `json:"phone" binding:"required"`
	AgencyName string `json:"agency_name" binding:"required"`
}

// LoginRequest is the payload for POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ListAgentsRequest struct {
	request.ListParams
}

// AccountResponse is the shape of account data returned in API responses.
type AccountResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	Phone       *string   `json:"phone,omitempty"`
	AgencyName  *string   `json:"agency_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewAccountResponse(a *account.Account) AccountResponse {
	return AccountResponse{
		ID:          a.ID,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		Role:        string(a.Role),
		Phone:       a.Phone,
		AgencyName:  a.AgencyName,
		CreatedAt:   a.CreatedAt,
	}
}

// LoginResponse carries the access token and the logged-in account.
type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int64           `json:"expires_in"`
	Account     AccountResponse `json:"account"`
}
