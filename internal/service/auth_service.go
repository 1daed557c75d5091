package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/serenity-care/wellness-api/internal/auth"
	"github.com/serenity-care/wellness-api/internal/domain"
	"github.com/serenity-care/wellness-api/internal/events"
	"github.com/serenity-care/wellness-api/internal/repository"
	"github.com/serenity-care/wellness-api/internal/store"
	apperrors "github.com/serenity-care/wellness-api/pkg/util"
)

const minPasswordLength = 8

// AuthResult is a freshly issued token.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
}

// AuthService coordinates signup, login and account administration.
type AuthService struct {
	accounts   repository.AccountRepository
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	Accounts   repository.AccountRepository
	Tokens     *auth.TokenManager
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	BcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		accounts:   deps.Accounts,
		tokens:     deps.Tokens,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		bcryptCost: deps.BcryptCost,
	}
}

// Signup creates a patient account and logs it in.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*domain.Account, AuthResult, error) {
	account, err := s.createAccount(ctx, domain.RoleUser, name, email, password)
	if err != nil {
		return nil, AuthResult{}, err
	}
	s.publish(ctx, events.EventAccountCreated, events.Actor{Role: domain.RoleUser, SubjectID: account.ID}, account)

	result, err := s.issue(account)
	if err != nil {
		return nil, AuthResult{}, err
	}
	return account, result, nil
}

// CreateEmployee lets an admin register a therapist or staff account.
func (s *AuthService) CreateEmployee(ctx context.Context, actor *auth.Claims, name, email, password string) (*domain.Account, error) {
	if err := auth.RequireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	account, err := s.createAccount(ctx, domain.RoleEmployee, name, email, password)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventAccountCreated, events.Actor{Role: actor.Role, SubjectID: actor.SubjectID}, account)
	return account, nil
}

// SeedAdmin creates the bootstrap admin unless an admin with that email exists.
func (s *AuthService) SeedAdmin(ctx context.Context, name, email, password string) (bool, error) {
	_, err := s.accounts.GetByEmail(ctx, domain.RoleAdmin, normalizeEmail(email))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}
	if _, err := s.createAccount(ctx, domain.RoleAdmin, name, email, password); err != nil {
		return false, err
	}
	return true, nil
}

// Login authenticates an account of the given role. Unknown accounts and wrong
// passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, role domain.Role, email, password string) (*domain.Account, AuthResult, error) {
	if !role.Valid() {
		return nil, AuthResult{}, apperrors.NewValidationError("unknown role", map[string]any{"role": string(role)})
	}
	account, err := s.accounts.GetByEmail(ctx, role, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, AuthResult{}, apperrors.NewInvalidCredentials()
	}
	if err != nil {
		return nil, AuthResult{}, err
	}
	if !auth.VerifyPassword(account.PasswordHash, password) {
		return nil, AuthResult{}, apperrors.NewInvalidCredentials()
	}
	if !account.IsActive {
		return nil, AuthResult{}, apperrors.NewAccountDisabled()
	}

	result, err := s.issue(account)
	if err != nil {
		return nil, AuthResult{}, err
	}
	return account, result, nil
}

// Me loads the account behind a token.
func (s *AuthService) Me(ctx context.Context, claims *auth.Claims) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, claims.Role, claims.SubjectID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewNotFound("account", nil)
	}
	return account, err
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, claims *auth.Claims, currentPassword, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	account, err := s.accounts.GetByID(ctx, claims.Role, claims.SubjectID)
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NewInvalidCredentials()
	}
	if err != nil {
		return err
	}
	if !auth.VerifyPassword(account.PasswordHash, currentPassword) {
		return apperrors.NewInvalidCredentials()
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	return s.accounts.UpdatePassword(ctx, claims.Role, account.ID, hash)
}

// DeactivateAccount soft-deletes an account. Tokens already issued stay valid
// unless the guard re-checks account status.
func (s *AuthService) DeactivateAccount(ctx context.Context, actor *auth.Claims, role domain.Role, id string) error {
	if err := auth.RequireRole(actor, domain.RoleAdmin); err != nil {
		return err
	}
	if !role.Valid() {
		return apperrors.NewValidationError("unknown role", map[string]any{"role": string(role)})
	}
	if role == actor.Role && id == actor.SubjectID {
		return apperrors.NewValidationError("cannot deactivate your own account", nil)
	}

	account, err := s.accounts.GetByID(ctx, role, id)
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NewNotFound("account", map[string]any{"id": id})
	}
	if err != nil {
		return err
	}
	if err := s.accounts.SetActive(ctx, role, id, false); err != nil {
		return err
	}
	account.IsActive = false

	s.logger.Info("account deactivated",
		zap.String("account_id", id),
		zap.String("role", string(role)),
		zap.String("by", actor.SubjectID))
	s.publish(ctx, events.EventAccountDeactivated, events.Actor{Role: actor.Role, SubjectID: actor.SubjectID}, account)
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *AuthService) createAccount(ctx context.Context, role domain.Role, name, email, password string) (*domain.Account, error) {
	email = normalizeEmail(email)
	if !apperrors.ValidEmail(email) {
		return nil, apperrors.NewValidationError("invalid email", nil)
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	_, err := s.accounts.GetByEmail(ctx, role, email)
	if err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	account := &domain.Account{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.NewConflict("email already registered", nil)
		}
		return nil, err
	}
	return account, nil
}

func (s *AuthService) issue(account *domain.Account) (AuthResult, error) {
	token, exp, err := s.tokens.Issue(account.ID, account.Email, account.Role)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) publish(ctx context.Context, typ events.EventType, actor events.Actor, account *domain.Account) {
	if s.dispatcher == nil {
		return
	}
	err := s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      typ,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   events.AccountPayload{AccountID: account.ID, Role: account.Role, Email: account.Email},
	})
	if err != nil {
		s.logger.Warn("event handler failed", zap.String("event", string(typ)), zap.Error(err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	if len(password) > 72 {
		return apperrors.NewValidationError("password must be at most 72 bytes", nil)
	}
	return nil
}
