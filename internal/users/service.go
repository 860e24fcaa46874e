package users

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vendaflow/vendaflow/internal/shared"
)

// CreateInput carries the fields accepted when provisioning an operator.
type CreateInput struct {
	Name     string
	Email    string
	Password string
	StoreID  *string
	Role     string
}

// UpdateInput carries the mutable user fields.
type UpdateInput struct {
	Name    string
	Email   string
	StoreID *string
	Role    string
}

// Service exposes user management scoped to the caller's company.
type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// CreateOwner provisions the first user of a company during signup. The
// caller has no session yet, so tenancy comes from the freshly created
// company rather than the request context.
func (s *Service) CreateOwner(ctx context.Context, companyID, name, email, password string) (User, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return User{}, err
	}
	user := User{
		ID:           uuid.NewString(),
		CompanyID:    companyID,
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		UserType:     TypeOwner,
		Role:         "admin",
		Active:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	s.log.Info("owner created", "user_id", user.ID, "company_id", companyID)
	return user, nil
}

// Create provisions an operator under the caller's company.
func (s *Service) Create(ctx context.Context, uc shared.UserContext, in CreateInput) (User, error) {
	if err := validateCreate(in); err != nil {
		return User{}, err
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return User{}, err
	}
	user := User{
		ID:           uuid.NewString(),
		CompanyID:    uc.CompanyID,
		StoreID:      in.StoreID,
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: hash,
		UserType:     TypeOperator,
		Role:         in.Role,
		Active:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	s.log.Info("user created", "user_id", user.ID, "company_id", uc.CompanyID)
	return user, nil
}

func (s *Service) Get(ctx context.Context, uc shared.UserContext, id string) (User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	if user.CompanyID != uc.CompanyID {
		return User{}, shared.NotFound("User not found")
	}
	return user, nil
}

func (s *Service) List(ctx context.Context, uc shared.UserContext, in shared.SearchInput) (shared.SearchOutput[User], error) {
	in.CompanyID = uc.CompanyID
	in = in.Normalize()
	items, total, err := s.repo.List(ctx, in)
	if err != nil {
		return shared.SearchOutput[User]{}, err
	}
	return shared.SearchOutput[User]{
		Items:       items,
		Total:       total,
		CurrentPage: in.Page,
		PerPage:     in.PerPage,
		SortBy:      in.SortBy,
		SortDir:     in.SortDir,
		Filter:      in.Filter,
	}, nil
}

func (s *Service) Update(ctx context.Context, uc shared.UserContext, id string, in UpdateInput) (User, error) {
	user, err := s.Get(ctx, uc, id)
	if err != nil {
		return User{}, err
	}
	user.Name = strings.TrimSpace(in.Name)
	user.Email = strings.ToLower(strings.TrimSpace(in.Email))
	user.StoreID = in.StoreID
	if in.Role != "" {
		user.Role = in.Role
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return User{}, err
	}
	return s.repo.Get(ctx, id)
}

// Deactivate revokes a user's access without deleting the row.
func (s *Service) Deactivate(ctx context.Context, uc shared.UserContext, id string) error {
	if _, err := s.Get(ctx, uc, id); err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.log.Info("user deactivated", "user_id", id, "company_id", uc.CompanyID)
	return nil
}

func validateCreate(in CreateInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return shared.Validation("User name is required")
	}
	if strings.TrimSpace(in.Email) == "" {
		return shared.Validation("User email is required")
	}
	if len(in.Password) < 6 {
		return shared.Validation("Password must have at least 6 characters")
	}
	return nil
}

func hashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
