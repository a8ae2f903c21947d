package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/estify-backend/internal/auth"
	"github.com/nekogravitycat/estify-backend/internal/pkg/validate"
)

// Service defines business logic related to accounts.
type Service interface {
	RegisterUser(ctx context.Context, reg Registration) (*Account, error)
	RegisterAgent(ctx context.Context, reg AgentRegistration) (*Account, error)
	Login(ctx context.Context, email, password string) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	ListAgents(ctx context.Context, filter Filter) ([]*Account, int, error)
	GetAgent(ctx context.Context, id string) (*Account, error)
	// EnsureAdmin creates the administrator account when the e-mail is unused.
	EnsureAdmin(ctx context.Context, email, password string) error
}

type service struct {
	repo   Repository
	hasher auth.PasswordHasher
}

// NewService creates a new account Service.
func NewService(repo Repository, hasher auth.PasswordHasher) Service {
	return &service{
		repo:   repo,
		hasher: hasher,
	}
}

func (s *service) RegisterUser(ctx context.Context, reg Registration) (*Account, error) {
	reg.normalize()
	if err := validate.Struct(reg); err != nil {
		return nil, err
	}
	return s.create(ctx, reg, RoleUser, nil, nil)
}

func (s *service) RegisterAgent(ctx context.Context, reg AgentRegistration) (*Account, error) {
	reg.normalize()
	reg.Phone = strings.TrimSpace(reg.Phone)
	reg.AgencyName = strings.TrimSpace(reg.AgencyName)
	if err := validate.Struct(reg); err != nil {
		return nil, err
	}
	return s.create(ctx, reg.Registration, RoleAgent, &reg.Phone, &reg.AgencyName)
}

func (s *service) create(ctx context.Context, reg Registration, role Role, phone, agency *string) (*Account, error) {
	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	a := &Account{
		Email:        reg.Email,
		PasswordHash: hash,
		DisplayName:  reg.DisplayName,
		Role:         role,
		Phone:        phone,
		AgencyName:   agency,
	}
	// The unique index is the source of truth for duplicate e-mails.
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	log.Info().Str("account_id", a.ID).Str("role", string(role)).Msg("account registered")
	return a, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*Account, error) {
	cleanEmail := normalizeEmail(email)
	if cleanEmail == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidCredentials
	}

	a, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch account by email: %w", err)
	}

	if err := s.hasher.Compare(a.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return a, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Account, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListAgents(ctx context.Context, filter Filter) ([]*Account, int, error) {
	filter.Role = RoleAgent
	return s.repo.List(ctx, filter)
}

func (s *service) GetAgent(ctx context.Context, id string) (*Account, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, err
	}
	if a.Role != RoleAgent {
		return nil, ErrAgentNotFound
	}
	return a, nil
}

func (s *service) EnsureAdmin(ctx context.Context, email, password string) error {
	reg := Registration{Email: email, Password: password, DisplayName: "Administrator"}
	reg.normalize()
	if err := validate.Struct(reg); err != nil {
		return fmt.Errorf("invalid admin credentials: %w", err)
	}

	_, err := s.repo.GetByEmail(ctx, reg.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	_, err = s.create(ctx, reg, RoleAdmin, nil, nil)
	if errors.Is(err, ErrEmailAlreadyUsed) {
		return nil
	}
	return err
}

func (r *Registration) normalize() {
	r.Email = normalizeEmail(r.Email)
	r.DisplayName = strings.TrimSpace(r.DisplayName)
}

// normalizeEmail trims spaces and lowercases the email.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
