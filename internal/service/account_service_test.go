package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/auth"
	"taskboard/internal/repository"
)

func newTestAccountService(t *testing.T) (*AccountService, *auth.TokenManager) {
	t.Helper()
	db := newTestDB(t)
	tokens := auth.NewTokenManager("test-secret", 12*time.Hour)
	return NewAccountService(repository.NewUserRepository(db), tokens), tokens
}

func validRegister() RegisterInput {
	return RegisterInput{
		Email:    "john@example.com",
		FullName: "John Doe",
		Password: "Sup3r$ecret",
	}
}

func TestRegister_StripsPasswordAndLowercasesEmail(t *testing.T) {
	svc, _ := newTestAccountService(t)

	input := validRegister()
	input.Email = "John@Example.COM"
	user, err := svc.Register(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, "john@example.com", user.Email)
	assert.Empty(t, user.Password)
	assert.NotEmpty(t, user.ID)
}

func TestRegister_DuplicateEmailCaseInsensitive(t *testing.T) {
	svc, _ := newTestAccountService(t)

	_, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	dup := validRegister()
	dup.Email = "JOHN@example.com"
	_, err = svc.Register(context.Background(), dup)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_Success(t *testing.T) {
	svc, _ := newTestAccountService(t)
	_, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	user, token, err := svc.Login(context.Background(), "john@example.com", "Sup3r$ecret")
	require.NoError(t, err)
	assert.Empty(t, user.Password)
	assert.NotEmpty(t, token)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newTestAccountService(t)
	_, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	_, _, wrongPassword := svc.Login(context.Background(), "john@example.com", "Wr0ng$ecret")
	_, _, unknownEmail := svc.Login(context.Background(), "nobody@example.com", "Sup3r$ecret")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthenticate_ResolvesTokenToUser(t *testing.T) {
	svc, _ := newTestAccountService(t)
	registered, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	_, token, err := svc.Login(context.Background(), "john@example.com", "Sup3r$ecret")
	require.NoError(t, err)

	user, err := svc.Authenticate(context.Background(), "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Empty(t, user.Password)
}

func TestAuthenticate_FailuresCollapseToUnauthorized(t *testing.T) {
	svc, tokens := newTestAccountService(t)
	_, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	// Token for a subject that does not exist in the store.
	ghost, err := tokens.Issue("missing-id", "ghost@example.com")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc123"},
		{"no token", "Bearer "},
		{"garbage token", "Bearer not.a.jwt"},
		{"deleted principal", "Bearer " + ghost},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Authenticate(context.Background(), tt.header)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}
