package account

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nekogravitycat/estify-backend/internal/auth"
)

type memRepository struct {
	byID map[string]*Account
}

func newMemRepository() *memRepository {
	return &memRepository{byID: map[string]*Account{}}
}

func (m *memRepository) Create(_ context.Context, a *Account) error {
	for _, existing := range m.byID {
		if existing.Email == a.Email {
			return ErrEmailAlreadyUsed
		}
	}
	a.ID = fmt.Sprintf("aaaaaaaa-0000-0000-0000-%012d", len(m.byID)+1)
	a.CreatedAt = time.Now()
	cp := *a
	m.byID[a.ID] = &cp
	return nil
}

func (m *memRepository) GetByEmail(_ context.Context, email string) (*Account, error) {
	for _, a := range m.byID {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memRepository) GetByID(_ context.Context, id string) (*Account, error) {
	a, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memRepository) List(_ context.Context, f Filter) ([]*Account, int, error) {
	var out []*Account
	for _, a := range m.byID {
		if f.Role == "" || a.Role == f.Role {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
	return out, len(out), nil
}

func newTestService() (Service, *memRepository) {
	repo := newMemRepository()
	return NewService(repo, auth.NewBcryptPasswordHasher(bcrypt.MinCost)), repo
}

func agentReg(email string) AgentRegistration {
	return AgentRegistration{
		Registration: Registration{Email: email, Password: "s3cretpass", DisplayName: "Nimal Perera"},
		Phone:        "0771234567",
		AgencyName:   "Lanka Homes",
	}
}

func TestRegisterUser(t *testing.T) {
	svc, repo := newTestService()

	a, err := svc.RegisterUser(context.Background(), Registration{
		Email: "  Jane@Example.COM ", Password: "password1", DisplayName: " Jane ",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", a.Email)
	assert.Equal(t, "Jane", a.DisplayName)
	assert.Equal(t, RoleUser, a.Role)
	assert.Nil(t, a.Phone)
	assert.NotEqual(t, "password1", repo.byID[a.ID].PasswordHash)
}

func TestRegisterUserValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name string
		reg  Registration
		msg  string
	}{
		{"bad email", Registration{Email: "nope", Password: "password1", DisplayName: "A"}, "email must be a valid email address"},
		{"short password", Registration{Email: "a@b.co", Password: "short", DisplayName: "A"}, "password must be at least 8 characters"},
		{"missing name", Registration{Email: "a@b.co", Password: "password1", DisplayName: "  "}, "display_name is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RegisterUser(ctx, tt.reg)
			require.Error(t, err)
			assert.Equal(t, tt.msg, err.Error())
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.RegisterAgent(ctx, agentReg("agent@example.com"))
	require.NoError(t, err)

	_, err = svc.RegisterUser(ctx, Registration{Email: "AGENT@example.com", Password: "password1", DisplayName: "X"})
	assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
}

func TestRegisterAgentRequiresContactDetails(t *testing.T) {
	svc, _ := newTestService()

	reg := agentReg("agent@example.com")
	reg.Phone = "12345"
	_, err := svc.RegisterAgent(context.Background(), reg)
	require.Error(t, err)
	assert.Equal(t, "phone must be exactly 10 characters", err.Error())

	reg = agentReg("agent@example.com")
	reg.AgencyName = ""
	_, err = svc.RegisterAgent(context.Background(), reg)
	assert.Error(t, err)

	a, err := svc.RegisterAgent(context.Background(), agentReg("agent@example.com"))
	require.NoError(t, err)
	assert.Equal(t, RoleAgent, a.Role)
	require.NotNil(t, a.AgencyName)
	assert.Equal(t, "Lanka Homes", *a.AgencyName)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.RegisterUser(ctx, Registration{Email: "jane@example.com", Password: "password1", DisplayName: "Jane"})
	require.NoError(t, err)

	a, err := svc.Login(ctx, " JANE@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, a.ID)

	_, err = svc.Login(ctx, "jane@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAgents(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	agent, err := svc.RegisterAgent(ctx, agentReg("agent@example.com"))
	require.NoError(t, err)
	user, err := svc.RegisterUser(ctx, Registration{Email: "jane@example.com", Password: "password1", DisplayName: "Jane"})
	require.NoError(t, err)

	list, total, err := svc.ListAgents(ctx, Filter{Role: RoleUser})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, agent.ID, list[0].ID)

	got, err := svc.GetAgent(ctx, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, "agent@example.com", got.Email)

	_, err = svc.GetAgent(ctx, user.ID)
	assert.ErrorIs(t, err, ErrAgentNotFound)
	_, err = svc.GetAgent(ctx, "aaaaaaaa-0000-0000-0000-0000000000ff")
	assert.ErrorIs(t, err, ErrAgentNotFound)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "admin@example.com", "adminpass1"))
	require.NoError(t, svc.EnsureAdmin(ctx, "admin@example.com", "adminpass1"))
	assert.Len(t, repo.byID, 1)

	a, err := svc.Login(ctx, "admin@example.com", "adminpass1")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, a.Role)

	assert.Error(t, svc.EnsureAdmin(ctx, "admin2@example.com", "short"))
}
