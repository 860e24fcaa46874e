package users

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vendaflow/vendaflow/internal/shared"
)

type memRepo struct {
	byID    map[string]User
	byEmail map[string]User
}

func newMemRepo() *memRepo {
	return &memRepo{byID: map[string]User{}, byEmail: map[string]User{}}
}

func (m *memRepo) Get(_ context.Context, id string) (User, error) {
	u, ok := m.byID[id]
	if !ok {
		return User{}, shared.NotFound("User not found")
	}
	return u, nil
}

func (m *memRepo) FindByEmail(_ context.Context, email string) (User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return User{}, shared.NotFound("User not found")
	}
	return u, nil
}

func (m *memRepo) List(_ context.Context, in shared.SearchInput) ([]User, int, error) {
	var out []User
	for _, u := range m.byID {
		if u.CompanyID == in.CompanyID {
			out = append(out, u)
		}
	}
	return out, len(out), nil
}

func (m *memRepo) Create(_ context.Context, user User) error {
	if _, ok := m.byEmail[user.Email]; ok {
		return shared.Conflict("Email already in use")
	}
	m.byID[user.ID] = user
	m.byEmail[user.Email] = user
	return nil
}

func (m *memRepo) Update(_ context.Context, user User) error {
	m.byID[user.ID] = user
	m.byEmail[user.Email] = user
	return nil
}

func (m *memRepo) SetActive(_ context.Context, id string, active bool) error {
	u := m.byID[id]
	u.Active = active
	m.byID[id] = u
	m.byEmail[u.Email] = u
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateHashesPassword(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, testLogger())

	uc := shared.UserContext{UserID: "u1", CompanyID: "c1", Role: "admin"}
	user, err := svc.Create(context.Background(), uc, CreateInput{
		Name:     "Maria",
		Email:    "Maria@Example.com",
		Password: "secret123",
		Role:     "operator",
	})
	require.NoError(t, err)
	require.NotEqual(t, "secret123", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
	require.Equal(t, "maria@example.com", user.Email)
	require.Equal(t, TypeOperator, user.UserType)
	require.True(t, user.Active)
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, testLogger())
	uc := shared.UserContext{UserID: "u1", CompanyID: "c1"}

	in := CreateInput{Name: "Maria", Email: "maria@example.com", Password: "secret123", Role: "operator"}
	_, err := svc.Create(context.Background(), uc, in)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), uc, in)
	require.ErrorIs(t, err, shared.ErrConflict)
	require.Equal(t, "Email already in use", shared.UserSafeMessage(err))
}

func TestCreateValidatesInput(t *testing.T) {
	svc := NewService(newMemRepo(), testLogger())
	uc := shared.UserContext{CompanyID: "c1"}

	_, err := svc.Create(context.Background(), uc, CreateInput{Email: "a@b.com", Password: "secret123"})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(context.Background(), uc, CreateInput{Name: "Ana", Email: "a@b.com", Password: "short"})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestGetOtherCompanyLooksAbsent(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, testLogger())

	other, err := svc.Create(context.Background(), shared.UserContext{CompanyID: "c2"}, CreateInput{
		Name: "Jo", Email: "jo@example.com", Password: "secret123", Role: "operator",
	})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), shared.UserContext{CompanyID: "c1"}, other.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
	require.Equal(t, "User not found", shared.UserSafeMessage(err))
}

func TestDeactivate(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, testLogger())
	uc := shared.UserContext{CompanyID: "c1"}

	user, err := svc.Create(context.Background(), uc, CreateInput{
		Name: "Ana", Email: "ana@example.com", Password: "secret123", Role: "operator",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), uc, user.ID))
	got, err := svc.Get(context.Background(), uc, user.ID)
	require.NoError(t, err)
	require.False(t, got.Active)
}
