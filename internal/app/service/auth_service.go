package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"inkfolio/internal/common"
	"inkfolio/internal/common/security"
	"inkfolio/internal/domain/model"
	"inkfolio/internal/domain/repository"

	"github.com/google/uuid"
)

// errInvalidCredentials is returned for both an unknown email and a wrong
// password. One value, one message: the response must not reveal which
// field was wrong.
var errInvalidCredentials = fmt.Errorf("invalid email or password: %w", common.ErrUnauthorized)

type AuthService struct {
	userRepo   repository.UserRepository
	sessions   SessionStore
	tokens     *security.TokenIssuer
	adminEmail string
}

func NewAuthService(userRepo repository.UserRepository, sessions SessionStore, tokens *security.TokenIssuer, adminEmail string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		sessions:   sessions,
		tokens:     tokens,
		adminEmail: adminEmail,
	}
}

type RegisterRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=24"`
	Email           string `json:"email" validate:"required,email,min=6,max=35"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register validates the form, hashes the password and persists the user.
// Email uniqueness is enforced by the store; a duplicate surfaces as
// ErrConflict and leaves the existing row untouched.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	if err := checkStruct(req); err != nil {
		return nil, err
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user := &model.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hashedPassword,
		IsAdmin:      s.adminEmail != "" && email == strings.ToLower(s.adminEmail),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and establishes a session, returning the signed
// session token for the cookie. Unknown email still burns a bcrypt compare
// so the two failure causes stay indistinguishable, timing included.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*model.User, string, error) {
	if err := checkStruct(req); err != nil {
		return nil, "", err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			security.BurnPasswordCheck(req.Password)
			return nil, "", errInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, "", errInvalidCredentials
	}

	sid, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	token, err := s.tokens.Issue(sid)
	if err != nil {
		s.sessions.Destroy(ctx, sid)
		return nil, "", fmt.Errorf("failed to issue session token: %w", err)
	}
	return user, token, nil
}

// Logout destroys the server-held session; the cookie becomes worthless.
func (s *AuthService) Logout(ctx context.Context, sid string) error {
	if err := s.sessions.Destroy(ctx, sid); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}
