package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"taskboard/internal/auth"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// RegisterInput is the data required to create an account.
type RegisterInput struct {
	Email    string
	FullName string
	Password string
}

// AccountService handles registration, login and bearer-token resolution.
type AccountService struct {
	users  *repository.UserRepository
	tokens *auth.TokenManager
}

func NewAccountService(users *repository.UserRepository, tokens *auth.TokenManager) *AccountService {
	return &AccountService{users: users, tokens: tokens}
}

// Register creates an account with a lowercased email and hashed password.
// A duplicate email yields ErrEmailTaken.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	hashed, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := model.User{
		Email:    strings.ToLower(input.Email),
		FullName: input.FullName,
		Password: hashed,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	log.Printf("[info] account created user=%s", user.ID)
	created := user.Sanitized()
	return &created, nil
}

// Login verifies credentials and issues a signed token. Unknown email and
// wrong password both return ErrInvalidCredentials so callers cannot probe
// which emails exist.
func (s *AccountService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if !auth.VerifyPassword(password, user.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	log.Printf("[info] user logged in user=%s", user.ID)
	logged := user.Sanitized()
	return &logged, token, nil
}

// Authenticate resolves an Authorization header to a user record. Every
// failure path collapses to ErrUnauthorized: missing header, wrong scheme,
// bad or expired token, and a subject that no longer exists.
func (s *AccountService) Authenticate(ctx context.Context, header string) (*model.User, error) {
	token := extractBearerToken(header)
	if token == "" {
		return nil, ErrUnauthorized
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.users.FindByID(ctx, claims.ID)
	if err != nil {
		return nil, ErrUnauthorized
	}

	resolved := user.Sanitized()
	return &resolved, nil
}

// extractBearerToken parses "Bearer <token>", scheme case-insensitive per
// RFC 7235. Returns empty string when the header is missing or malformed.
func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
