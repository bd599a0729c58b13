// Package token issues and verifies the JWT session tokens consumed by the
// auth middleware. Access tokens carry the user ID and role; refresh tokens
// carry the user ID and a unique jti and are matched against the user_tokens
// table instead.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stocktrail/backend/internal/models"
)

// Generator signs and validates access/refresh token pairs
type Generator struct {
	secret        string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewGenerator creates a token generator
func NewGenerator(secret string, accessExpiry, refreshExpiry time.Duration) *Generator {
	return &Generator{
		secret:        secret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// GeneratePair returns an access token and a refresh token for the user
func (g *Generator) GeneratePair(userID int, role models.Role) (string, string, error) {
	accessToken, err := g.generateAccessToken(userID, role)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := g.generateRefreshToken(userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

func (g *Generator) generateAccessToken(userID int, role models.Role) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    int(role),
		"exp":     time.Now().Add(g.accessExpiry).Unix(),
		"iat":     time.Now().Unix(),
		"type":    "access",
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(g.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

func (g *Generator) generateRefreshToken(userID int) (string, error) {
	// The jti makes every refresh token unique; iat alone has one-second
	// granularity, which would make tokens minted in the same second collide
	claims := jwt.MapClaims{
		"user_id": userID,
		"jti":     uuid.NewString(),
		"exp":     time.Now().Add(g.refreshExpiry).Unix(),
		"iat":     time.Now().Unix(),
		"type":    "refresh",
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(g.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return tokenString, nil
}

// ValidateAccessToken verifies an access token and returns the user ID and
// role embedded in it. The role claim is only a routing pre-filter; the
// services re-resolve the authoritative role from the store.
func (g *Generator) ValidateAccessToken(tokenString string) (int, models.Role, error) {
	claims, err := g.parse(tokenString)
	if err != nil {
		return 0, 0, err
	}

	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != "access" {
		return 0, 0, fmt.Errorf("token is not an access token")
	}

	// JWT claims decode numbers as float64
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, 0, fmt.Errorf("user_id not found in token")
	}

	role, ok := claims["role"].(float64)
	if !ok {
		return 0, 0, fmt.Errorf("role not found in token")
	}

	return int(userID), models.Role(role), nil
}

// ValidateRefreshToken verifies a refresh token
func (g *Generator) ValidateRefreshToken(tokenString string) error {
	claims, err := g.parse(tokenString)
	if err != nil {
		return err
	}

	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != "refresh" {
		return fmt.Errorf("token is not a refresh token")
	}

	return nil
}

func (g *Generator) parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(g.secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}
