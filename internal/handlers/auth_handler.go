package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stocktrail/backend/internal/middleware"
	"github.com/stocktrail/backend/internal/models"
	"go.uber.org/zap"
)

// AuthService is the interface that wraps methods for authentication business logic.
type AuthService interface {
	// Method Register creates a new account and issues a token pair.
	//
	// If a user with the same email already exists, models.ErrUserExists is returned.
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, string, string, error)
	// Method Login verifies stored credentials and issues a token pair.
	//
	// Any credential failure is reported as models.ErrInvalidCredentials.
	Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, string, error)
	// Method DemoLogin signs in the shared demo account, creating it on first use.
	//
	// When demo access is disabled, models.ErrInvalidCredentials is returned.
	DemoLogin(ctx context.Context, password string) (*models.User, string, string, error)
	// Method Refresh rotates a refresh token and issues a new token pair.
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
	// Method Logout invalidates a stored refresh token.
	Logout(ctx context.Context, refreshToken string) error
	// Method Me returns the stored identity for an authenticated user ID.
	Me(ctx context.Context, userID int) (*models.User, error)
}

// AuthHandler handles HTTP requests for authentication
type AuthHandler struct {
	BaseHandler
	service       AuthService
	demoEnabled   bool
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(svc AuthService, logger *zap.Logger, demoEnabled bool, accessExpiry, refreshExpiry time.Duration) *AuthHandler {
	return &AuthHandler{
		service:       svc,
		BaseHandler:   BaseHandler{logger: logger},
		demoEnabled:   demoEnabled,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// RegisterRoutes registers all auth handler routes. The "authMW" middleware
// protects the endpoints that require a signed-in user.
func (h *AuthHandler) RegisterRoutes(r chi.Router, authMW func(http.Handler) http.Handler) {
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		if h.demoEnabled {
			r.Post("/demo", h.DemoLogin)
		}
		r.Post("/refresh", h.Refresh)
		r.Post("/logout", h.Logout)
		r.With(authMW).Get("/me", h.Me)
	})
}

type tokenResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Register handles POST /api/v1/auth/register
// @Summary Register a new user
// @Description Create an account with email, password, optional name and role
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration data"
// @Success 201 {object} tokenResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, access, refresh, err := h.service.Register(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.setTokenCookies(w, access, refresh)
	h.respondJSON(w, http.StatusCreated, tokenResponse{User: user, AccessToken: access, RefreshToken: refresh})
}

// Login handles POST /api/v1/auth/login
// @Summary Sign in
// @Description Authenticate with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} tokenResponse
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, access, refresh, err := h.service.Login(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.setTokenCookies(w, access, refresh)
	h.respondJSON(w, http.StatusOK, tokenResponse{User: user, AccessToken: access, RefreshToken: refresh})
}

// DemoLogin handles POST /api/v1/auth/demo
// @Summary Sign in as the demo user
// @Description Authenticate the shared demo account; only registered when demo access is enabled
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Demo password (email ignored)"
// @Success 200 {object} tokenResponse
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/auth/demo [post]
func (h *AuthHandler) DemoLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, access, refresh, err := h.service.DemoLogin(r.Context(), req.Password)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.setTokenCookies(w, access, refresh)
	h.respondJSON(w, http.StatusOK, tokenResponse{User: user, AccessToken: access, RefreshToken: refresh})
}

// Refresh handles POST /api/v1/auth/refresh
// @Summary Refresh tokens
// @Description Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body refreshRequest false "Refresh token; falls back to the refresh_token cookie"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshToken := h.refreshTokenFrom(r)
	if refreshToken == "" {
		h.respondError(w, http.StatusUnauthorized, "refresh token required")
		return
	}

	access, refresh, err := h.service.Refresh(r.Context(), refreshToken)
	if err != nil {
		h.respondError(w, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}

	h.setTokenCookies(w, access, refresh)
	h.respondJSON(w, http.StatusOK, map[string]string{
		"access_token":  access,
		"refresh_token": refresh,
	})
}

// Logout handles POST /api/v1/auth/logout
// @Summary Sign out
// @Description Invalidate the refresh token and clear auth cookies
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if refreshToken := h.refreshTokenFrom(r); refreshToken != "" {
		if err := h.service.Logout(r.Context(), refreshToken); err != nil {
			h.logger.Warn("failed to delete refresh token", zap.Error(err))
		}
	}

	h.clearTokenCookies(w)
	h.respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me handles GET /api/v1/auth/me
// @Summary Current user
// @Description Return the authenticated user's stored identity
// @Tags auth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.service.Me(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, user)
}

// refreshTokenFrom reads the refresh token from the JSON body, falling back to
// the refresh_token cookie
func (h *AuthHandler) refreshTokenFrom(r *http.Request) string {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.RefreshToken != "" {
		return req.RefreshToken
	}
	if cookie, err := r.Cookie("refresh_token"); err == nil {
		return cookie.Value
	}
	return ""
}

// setTokenCookies stores both tokens as HttpOnly cookies for browser clients
func (h *AuthHandler) setTokenCookies(w http.ResponseWriter, access, refresh string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    access,
		Path:     "/",
		MaxAge:   int(h.accessExpiry.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    refresh,
		Path:     "/api/v1/auth",
		MaxAge:   int(h.refreshExpiry.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearTokenCookies expires both auth cookies
func (h *AuthHandler) clearTokenCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	http.SetCookie(w, &http.Cookie{Name: "refresh_token", Value: "", Path: "/api/v1/auth", MaxAge: -1, HttpOnly: true})
}
