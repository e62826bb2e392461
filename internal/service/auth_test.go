package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recoverypro/portal/internal/domain"
	"github.com/recoverypro/portal/internal/models"
)

const authTestSecret = "test-secret-0123456789-test-secret"

func newAuthService(store QueryStore, email *EmailService) *AuthService {
	return NewAuthService(store, email, []byte(authTestSecret), "portal-test", "portal-api-test", time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, _, email := newTestServices(db)
	authSvc := newAuthService(store, email)

	user, err := authSvc.Register(ctx, RegisterInput{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "hunter2hunter2",
		FullName: "Alice A",
		Country:  "GB",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)

	// Registration provisions the wallet and profile.
	wallet, err := store.Queries().GetWallet(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, wallet.Balance.IsZero())
	assert.Equal(t, "USD", wallet.Currency)

	profile, err := store.Queries().GetUserProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice A", profile.FullName)

	token, loggedIn, err := authSvc.Login(ctx, "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		return []byte(authTestSecret), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, user.ID.String(), claims["user_id"])
	assert.Equal(t, domain.RoleUser, claims["role"])
	assert.Equal(t, "portal-test", claims["iss"])
}

func TestLogin_BadCredentials(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, _, email := newTestServices(db)
	authSvc := newAuthService(store, email)

	_, err := authSvc.Register(ctx, RegisterInput{
		Username: "bob", Email: "bob@example.com", Password: "correcthorse",
	})
	require.NoError(t, err)

	_, _, err = authSvc.Login(ctx, "bob@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = authSvc.Login(ctx, "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_Validation(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	store, _, email := newTestServices(db)
	authSvc := newAuthService(store, email)

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"missing username", RegisterInput{Email: "a@b.com", Password: "longenough"}},
		{"bad email", RegisterInput{Username: "x", Email: "not-an-email", Password: "longenough"}},
		{"short password", RegisterInput{Username: "x", Email: "a@b.com", Password: "short"}},
		{"bad currency", RegisterInput{Username: "x", Email: "a@b.com", Password: "longenough", Currency: "USDT"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := authSvc.Register(ctx, tc.input)
			assert.True(t, models.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}
