package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/stocktrail/backend/internal/config"
	"github.com/stocktrail/backend/internal/models"
	"github.com/stocktrail/backend/internal/token"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the adaptive hashing work factor for stored passwords
const bcryptCost = 12

// UserRepository is the interface that wraps methods for User table data access
type UserRepository interface {
	// Method Create inserts a new user into the database.
	//
	// "user" parameter is used to create a new user; its ID is set on success.
	//
	// If a user with the same email already exists, models.ErrUserExists is returned.
	Create(ctx context.Context, user *models.User) error
	// Method GetByEmail retrieves a user by normalized email.
	//
	// If no user with such email exists, models.ErrUserNotFound is returned together with "nil" value.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Method GetByID retrieves a user by ID.
	//
	// If no user with such ID exists, models.ErrUserNotFound is returned together with "nil" value.
	GetByID(ctx context.Context, userID int) (*models.User, error)
	// Method ExistsByEmail checks if a user with such email exists.
	//
	// If some error occurs during the check, the error will be returned together with "false" value.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// UserTokenRepository is the interface that wraps methods for stored refresh tokens
type UserTokenRepository interface {
	// Method Create inserts a new refresh token into the database.
	Create(ctx context.Context, userToken *models.UserToken) error
	// Method GetByToken retrieves a stored refresh token.
	//
	// If no such token exists, an error is returned together with "nil" value.
	GetByToken(ctx context.Context, tokenString string) (*models.UserToken, error)
	// Method Rotate replaces a stored refresh token with a new one for the same user.
	Rotate(ctx context.Context, oldToken, newToken string, userID int) error
	// Method DeleteByToken deletes a stored refresh token.
	DeleteByToken(ctx context.Context, tokenString string) error
}

// authService implements credential verification and session issuance
type authService struct {
	userRepo       UserRepository
	userTokenRepo  UserTokenRepository
	tokenGenerator *token.Generator
	logger         *zap.Logger
	demo           config.DemoConfig
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo UserRepository,
	userTokenRepo UserTokenRepository,
	tokenGenerator *token.Generator,
	logger *zap.Logger,
	demo config.DemoConfig,
) *authService {
	return &authService{
		userRepo:       userRepo,
		userTokenRepo:  userTokenRepo,
		tokenGenerator: tokenGenerator,
		logger:         logger,
		demo:           demo,
	}
}

// emailRegex validates email format
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Register creates a new account and returns the identity with a token pair.
// The requested role defaults to USER unless "ADMIN" is supplied.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, string, string, error) {
	email := normalizeEmail(req.Email)
	if !emailRegex.MatchString(email) {
		return nil, "", "", fmt.Errorf("invalid email format")
	}

	if len(req.Password) < 8 {
		return nil, "", "", fmt.Errorf("invalid password: must be at least 8 characters")
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, "", "", models.ErrUserExists
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to hash password: %w", err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		// Fall back to the email local part
		name = strings.SplitN(email, "@", 2)[0]
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(passwordHash),
		Role:         models.ParseRole(req.Role),
	}

	// The unique index on email is the backstop for a concurrent sign-up
	// between the existence check and the insert
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", "", err
	}

	accessToken, refreshToken, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

// Login authenticates an existing account. Accounts without a stored password
// hash (demo or external identity provider accounts) cannot sign in with
// credentials. The stored user is never mutated on this path.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, string, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, "", "", models.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, "", "", models.ErrInvalidCredentials
		}
		return nil, "", "", err
	}

	if user.PasswordHash == "" {
		return nil, "", "", models.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", "", models.ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

// DemoLogin signs in the configured demo account, creating it on first use.
// The get-or-create is idempotent and the account carries no password hash,
// so it can never be reached through the regular credential path.
func (s *authService) DemoLogin(ctx context.Context, password string) (*models.User, string, string, error) {
	if !s.demo.Enabled {
		return nil, "", "", models.ErrInvalidCredentials
	}

	if subtle.ConstantTimeCompare([]byte(password), []byte(s.demo.Password)) != 1 {
		return nil, "", "", models.ErrInvalidCredentials
	}

	email := normalizeEmail(s.demo.Email)
	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, models.ErrUserNotFound) {
		user = &models.User{
			Email: email,
			Name:  s.demo.Name,
			Role:  models.RoleUser,
		}
		err = s.userRepo.Create(ctx, user)
		if errors.Is(err, models.ErrUserExists) {
			// Lost a creation race; the account exists now
			user, err = s.userRepo.GetByEmail(ctx, email)
		}
	}
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to resolve demo account: %w", err)
	}

	accessToken, refreshToken, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

// Refresh rotates a refresh token and returns a new token pair
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	refreshToken = strings.TrimSpace(refreshToken)

	if err := s.tokenGenerator.ValidateRefreshToken(refreshToken); err != nil {
		// Drop the stored copy of an expired or malformed token
		if delErr := s.userTokenRepo.DeleteByToken(ctx, refreshToken); delErr != nil {
			s.logger.Warn("failed to delete invalid refresh token", zap.Error(delErr))
		}
		return "", "", fmt.Errorf("invalid or expired refresh token")
	}

	userToken, err := s.userTokenRepo.GetByToken(ctx, refreshToken)
	if err != nil {
		return "", "", fmt.Errorf("failed to get user token: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userToken.UserID)
	if err != nil {
		return "", "", fmt.Errorf("failed to get user for refresh token: %w", err)
	}

	newAccess, newRefresh, err := s.tokenGenerator.GeneratePair(user.ID, user.Role)
	if err != nil {
		return "", "", err
	}

	if err := s.userTokenRepo.Rotate(ctx, refreshToken, newRefresh, user.ID); err != nil {
		return "", "", fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return newAccess, newRefresh, nil
}

// Logout invalidates a refresh token
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	return s.userTokenRepo.DeleteByToken(ctx, strings.TrimSpace(refreshToken))
}

// Me returns the stored identity for an authenticated user ID
func (s *authService) Me(ctx context.Context, userID int) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// issueTokens generates a token pair and persists the refresh token
func (s *authService) issueTokens(ctx context.Context, user *models.User) (string, string, error) {
	accessToken, refreshToken, err := s.tokenGenerator.GeneratePair(user.ID, user.Role)
	if err != nil {
		return "", "", err
	}

	if err := s.userTokenRepo.Create(ctx, &models.UserToken{UserID: user.ID, Token: refreshToken}); err != nil {
		return "", "", fmt.Errorf("failed to save refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

// normalizeEmail lowers and trims an email so uniqueness is case-insensitive
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
