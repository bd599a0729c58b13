package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stocktrail/backend/internal/config"
	"github.com/stocktrail/backend/internal/models"
	"github.com/stocktrail/backend/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func testDemoConfig(enabled bool) config.DemoConfig {
	return config.DemoConfig{
		Enabled:  enabled,
		Email:    "demo@example.com",
		Password: "demo123",
		Name:     "Demo User",
	}
}

func newTestAuthService(users *fakeUserRepo, tokens *fakeUserTokenRepo, demoEnabled bool) *authService {
	generator := token.NewGenerator("test-secret", 15*time.Minute, 720*time.Hour)
	return NewAuthService(users, tokens, generator, zap.NewNop(), testDemoConfig(demoEnabled))
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		req           *models.RegisterRequest
		seed          func(*fakeUserRepo)
		expectedError string
		expectedName  string
		expectedRole  models.Role
	}{
		{
			name:         "success with explicit name",
			req:          &models.RegisterRequest{Email: "Alice@Example.com", Password: "password1", Name: "Alice"},
			expectedName: "Alice",
			expectedRole: models.RoleUser,
		},
		{
			name:         "name defaults to email local part",
			req:          &models.RegisterRequest{Email: "bob@example.com", Password: "password1"},
			expectedName: "bob",
			expectedRole: models.RoleUser,
		},
		{
			name:         "admin role honored",
			req:          &models.RegisterRequest{Email: "root@example.com", Password: "password1", Name: "Root", Role: "ADMIN"},
			expectedName: "Root",
			expectedRole: models.RoleAdmin,
		},
		{
			name:         "unknown role falls back to user",
			req:          &models.RegisterRequest{Email: "eve@example.com", Password: "password1", Name: "Eve", Role: "SUPERUSER"},
			expectedName: "Eve",
			expectedRole: models.RoleUser,
		},
		{
			name:          "invalid email",
			req:           &models.RegisterRequest{Email: "not-an-email", Password: "password1"},
			expectedError: "invalid email format",
		},
		{
			name:          "short password",
			req:           &models.RegisterRequest{Email: "carol@example.com", Password: "short"},
			expectedError: "at least 8 characters",
		},
		{
			name: "duplicate email",
			req:  &models.RegisterRequest{Email: "alice@example.com", Password: "password1"},
			seed: func(f *fakeUserRepo) {
				f.add(&models.User{Email: "alice@example.com", Name: "Alice"})
			},
			expectedError: models.ErrUserExists.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newFakeUserRepo()
			tokens := newFakeUserTokenRepo()
			if tt.seed != nil {
				tt.seed(users)
			}
			svc := newTestAuthService(users, tokens, false)

			user, access, refresh, err := svc.Register(context.Background(), tt.req)

			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedName, user.Name)
			assert.Equal(t, tt.expectedRole, user.Role)
			assert.NotEmpty(t, access)
			assert.NotEmpty(t, refresh)
			// Email is stored lowercase
			assert.Equal(t, strings.ToLower(strings.TrimSpace(tt.req.Email)), user.Email)
			// Refresh token is persisted
			_, err = tokens.GetByToken(context.Background(), refresh)
			assert.NoError(t, err)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	require.NoError(t, err)

	seed := func(users *fakeUserRepo) {
		users.add(&models.User{Email: "alice@example.com", Name: "Alice", PasswordHash: string(hash)})
		users.add(&models.User{Email: "demo@example.com", Name: "Demo User"})
	}

	tests := []struct {
		name          string
		req           *models.LoginRequest
		expectedError error
	}{
		{
			name: "success",
			req:  &models.LoginRequest{Email: "alice@example.com", Password: "password1"},
		},
		{
			name: "email matched case-insensitively",
			req:  &models.LoginRequest{Email: " ALICE@example.com ", Password: "password1"},
		},
		{
			name:          "wrong password",
			req:           &models.LoginRequest{Email: "alice@example.com", Password: "password2"},
			expectedError: models.ErrInvalidCredentials,
		},
		{
			name:          "unknown email",
			req:           &models.LoginRequest{Email: "nobody@example.com", Password: "password1"},
			expectedError: models.ErrInvalidCredentials,
		},
		{
			name:          "account without password hash",
			req:           &models.LoginRequest{Email: "demo@example.com", Password: "demo123"},
			expectedError: models.ErrInvalidCredentials,
		},
		{
			name:          "empty password",
			req:           &models.LoginRequest{Email: "alice@example.com", Password: ""},
			expectedError: models.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newFakeUserRepo()
			seed(users)
			svc := newTestAuthService(users, newFakeUserTokenRepo(), false)

			user, access, refresh, err := svc.Login(context.Background(), tt.req)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "alice@example.com", user.Email)
			assert.NotEmpty(t, access)
			assert.NotEmpty(t, refresh)
		})
	}
}

func TestAuthService_DemoLogin(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		svc := newTestAuthService(newFakeUserRepo(), newFakeUserTokenRepo(), false)

		_, _, _, err := svc.DemoLogin(context.Background(), "demo123")

		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc := newTestAuthService(newFakeUserRepo(), newFakeUserTokenRepo(), true)

		_, _, _, err := svc.DemoLogin(context.Background(), "wrong")

		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})

	t.Run("creates account on first use", func(t *testing.T) {
		users := newFakeUserRepo()
		svc := newTestAuthService(users, newFakeUserTokenRepo(), true)

		user, access, refresh, err := svc.DemoLogin(context.Background(), "demo123")

		require.NoError(t, err)
		assert.Equal(t, "demo@example.com", user.Email)
		assert.Equal(t, "Demo User", user.Name)
		assert.Equal(t, models.RoleUser, user.Role)
		assert.Empty(t, user.PasswordHash)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
	})

	t.Run("reuses existing account", func(t *testing.T) {
		users := newFakeUserRepo()
		svc := newTestAuthService(users, newFakeUserTokenRepo(), true)

		first, _, _, err := svc.DemoLogin(context.Background(), "demo123")
		require.NoError(t, err)
		second, _, _, err := svc.DemoLogin(context.Background(), "demo123")
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Len(t, users.users, 1)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	t.Run("rotates the stored token", func(t *testing.T) {
		users := newFakeUserRepo()
		tokens := newFakeUserTokenRepo()
		users.add(&models.User{Email: "alice@example.com", Name: "Alice"})
		svc := newTestAuthService(users, tokens, false)

		_, refresh, err := svc.tokenGenerator.GeneratePair(1, models.RoleUser)
		require.NoError(t, err)
		require.NoError(t, tokens.Create(context.Background(), &models.UserToken{UserID: 1, Token: refresh}))

		newAccess, newRefresh, err := svc.Refresh(context.Background(), refresh)

		require.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.NotEqual(t, refresh, newRefresh)
		_, err = tokens.GetByToken(context.Background(), refresh)
		assert.Error(t, err)
		_, err = tokens.GetByToken(context.Background(), newRefresh)
		assert.NoError(t, err)
	})

	t.Run("concurrent logins keep sessions per user", func(t *testing.T) {
		users := newFakeUserRepo()
		tokens := newFakeUserTokenRepo()
		hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
		require.NoError(t, err)
		users.add(&models.User{Email: "alice@example.com", Name: "Alice", PasswordHash: string(hash)})
		users.add(&models.User{Email: "bob@example.com", Name: "Bob", PasswordHash: string(hash)})
		svc := newTestAuthService(users, tokens, false)

		// Both sign-ins land within the same second
		_, _, aliceRefresh, err := svc.Login(context.Background(), &models.LoginRequest{Email: "alice@example.com", Password: "password1"})
		require.NoError(t, err)
		_, _, bobRefresh, err := svc.Login(context.Background(), &models.LoginRequest{Email: "bob@example.com", Password: "password1"})
		require.NoError(t, err)

		require.NotEqual(t, aliceRefresh, bobRefresh)

		bobAccess, _, err := svc.Refresh(context.Background(), bobRefresh)
		require.NoError(t, err)
		userID, _, err := svc.tokenGenerator.ValidateAccessToken(bobAccess)
		require.NoError(t, err)
		assert.Equal(t, 2, userID)
	})

	t.Run("unknown token", func(t *testing.T) {
		users := newFakeUserRepo()
		users.add(&models.User{Email: "alice@example.com", Name: "Alice"})
		svc := newTestAuthService(users, newFakeUserTokenRepo(), false)

		_, refresh, err := svc.tokenGenerator.GeneratePair(1, models.RoleUser)
		require.NoError(t, err)

		_, _, err = svc.Refresh(context.Background(), refresh)

		assert.Error(t, err)
	})

	t.Run("malformed token", func(t *testing.T) {
		svc := newTestAuthService(newFakeUserRepo(), newFakeUserTokenRepo(), false)

		_, _, err := svc.Refresh(context.Background(), "not-a-jwt")

		assert.Error(t, err)
	})

	t.Run("malformed token with failing store still rejected", func(t *testing.T) {
		tokens := newFakeUserTokenRepo()
		tokens.err = fmt.Errorf("database error")
		svc := newTestAuthService(newFakeUserRepo(), tokens, false)

		_, _, err := svc.Refresh(context.Background(), "not-a-jwt")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid or expired refresh token")
	})
}

func TestAuthService_Logout(t *testing.T) {
	tokens := newFakeUserTokenRepo()
	tokens.tokens["stored"] = &models.UserToken{UserID: 1, Token: "stored"}
	svc := newTestAuthService(newFakeUserRepo(), tokens, false)

	err := svc.Logout(context.Background(), "stored")

	require.NoError(t, err)
	assert.Empty(t, tokens.tokens)
}

func TestAuthService_Me(t *testing.T) {
	users := newFakeUserRepo()
	users.add(&models.User{Email: "alice@example.com", Name: "Alice"})
	svc := newTestAuthService(users, newFakeUserTokenRepo(), false)

	user, err := svc.Me(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)

	_, err = svc.Me(context.Background(), 42)
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}
