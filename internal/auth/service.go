package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vendaflow/vendaflow/internal/masterdata/companies"
	"github.com/vendaflow/vendaflow/internal/shared"
	"github.com/vendaflow/vendaflow/internal/users"
)

// RefreshTTL is the default lifetime of a refresh session. The
// effective value comes from configuration.
const RefreshTTL = 7 * 24 * time.Hour

// SignupInput carries the fields for first-time tenant provisioning.
type SignupInput struct {
	Name        string
	Email       string
	Password    string
	CompanyName string
}

// SignupOutput returns both created entities.
type SignupOutput struct {
	Company companies.Company `json:"company"`
	User    users.User        `json:"user"`
}

// LoginInput carries the credential pair plus client metadata.
type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

// TokenPair is the login response body.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpireIn     string `json:"expireIn"`
	CreatedAt    string `json:"createdAt"`
}

// RefreshOutput carries the reissued access token.
type RefreshOutput struct {
	AccessToken string `json:"accessToken"`
	ExpireIn    string `json:"expireIn"`
}

// Service orchestrates signup, login, logout and token refresh.
type Service struct {
	companies  *companies.Service
	users      *users.Service
	userRepo   users.Repository
	sessions   SessionRepository
	issuer     *TokenIssuer
	refreshTTL time.Duration
	audit      *shared.AuditLogger
	log        *slog.Logger
	now        func() time.Time
}

func NewService(
	companySvc *companies.Service,
	userSvc *users.Service,
	userRepo users.Repository,
	sessions SessionRepository,
	issuer *TokenIssuer,
	refreshTTL time.Duration,
	audit *shared.AuditLogger,
	log *slog.Logger,
) *Service {
	if refreshTTL <= 0 {
		refreshTTL = RefreshTTL
	}
	return &Service{
		companies:  companySvc,
		users:      userSvc,
		userRepo:   userRepo,
		sessions:   sessions,
		issuer:     issuer,
		refreshTTL: refreshTTL,
		audit:      audit,
		log:        log,
		now:        time.Now,
	}
}

// SignupOwner provisions a new company together with its owner user.
// Signup never issues a session; login is a separate step.
func (s *Service) SignupOwner(ctx context.Context, in SignupInput) (SignupOutput, error) {
	if in.CompanyName == "" {
		return SignupOutput{}, shared.Validation("Company name is required")
	}
	company, err := s.companies.Create(ctx, companies.CreateInput{Name: in.CompanyName})
	if err != nil {
		return SignupOutput{}, err
	}
	user, err := s.users.CreateOwner(ctx, company.ID, in.Name, in.Email, in.Password)
	if err != nil {
		return SignupOutput{}, err
	}
	s.recordAudit(ctx, user.ID, "auth.signup", "company", company.ID)
	return SignupOutput{Company: company, User: user}, nil
}

// Login verifies credentials, opens a refresh session and signs an
// access token.
func (s *Service) Login(ctx context.Context, in LoginInput) (TokenPair, error) {
	user, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return TokenPair{}, err
	}
	if !user.Active {
		return TokenPair{}, shared.Unauthorized("User does not have authorization")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return TokenPair{}, shared.ErrUnauthorized
	}

	now := s.now()
	refresh, err := NewRefreshToken()
	if err != nil {
		return TokenPair{}, err
	}
	session := Session{
		ID:        uuid.NewString(),
		Token:     refresh,
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		UserAgent: in.UserAgent,
		IPAddress: in.IPAddress,
		ExpiresAt: now.Add(s.refreshTTL),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return TokenPair{}, err
	}

	access, err := s.issuer.Sign(user.ID, user.CompanyID, user.Role, now)
	if err != nil {
		return TokenPair{}, err
	}
	s.log.Info("user logged in", "user_id", user.ID, "company_id", user.CompanyID)
	s.recordAudit(ctx, user.ID, "auth.login", "session", session.ID)

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpireIn:     expireIn(s.issuer.AccessTTL()),
		CreatedAt:    now.UTC().Format(time.RFC3339),
	}, nil
}

// Logout revokes a refresh session. It never reveals whether the token
// existed.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.sessions.DeleteByToken(ctx, refreshToken)
}

// Refresh reissues an access token for a live session. The refresh
// token is not rotated; it stays valid until expiry or logout.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (RefreshOutput, error) {
	session, err := s.sessions.FindByToken(ctx, refreshToken)
	if err != nil {
		return RefreshOutput{}, err
	}
	if session.Expired(s.now()) {
		return RefreshOutput{}, shared.Unauthorized("Refresh token expired")
	}
	user, err := s.userRepo.Get(ctx, session.UserID)
	if err != nil {
		return RefreshOutput{}, err
	}
	access, err := s.issuer.Sign(user.ID, user.CompanyID, user.Role, s.now())
	if err != nil {
		return RefreshOutput{}, err
	}
	return RefreshOutput{AccessToken: access, ExpireIn: expireIn(s.issuer.AccessTTL())}, nil
}

func (s *Service) recordAudit(ctx context.Context, actorID, action, entity, entityID string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		At:       s.now(),
	}); err != nil {
		s.log.Warn("audit record failed", "error", err)
	}
}

func expireIn(ttl time.Duration) string {
	if ttl == time.Hour {
		return "1h"
	}
	return ttl.String()
}
