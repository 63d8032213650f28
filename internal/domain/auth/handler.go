package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/focalfinder/focalfinder-api/internal/middleware"
	"github.com/focalfinder/focalfinder-api/internal/pkg/errorhandler"
	"github.com/focalfinder/focalfinder-api/internal/pkg/response"
	"github.com/focalfinder/focalfinder-api/internal/pkg/validator"
)

// CookieConfig controls the session cookie set on signup and login.
type CookieConfig struct {
	Name   string
	Secure bool
}

// Handler handles auth HTTP requests
type Handler struct {
	service *Service
	cookie  CookieConfig
}

// NewHandler creates auth handler
func NewHandler(service *Service, cookie CookieConfig) *Handler {
	if cookie.Name == "" {
		cookie.Name = middleware.DefaultAuthCookie
	}
	return &Handler{service: service, cookie: cookie}
}

// Signup handles POST /auth/signup
// @Summary Register a client or photographer
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Signup data"
// @Success 201 {object} response.Response{data=AuthResponse}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/signup [post]
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		errorhandler.LogValidationError(r.Context(), errs)
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailAlreadyExists):
			response.Conflict(w, "Email already registered")
		case errors.Is(err, ErrInvalidRole):
			response.ValidationError(w, map[string]string{"role": "Must be client or photographer"})
		default:
			errorhandler.Internal(r.Context(), w, "auth.signup", err)
		}
		return
	}

	h.setSessionCookie(w, result.Tokens.AccessToken)
	response.Created(w, result)
}

// Login handles POST /auth/login
// @Summary Log in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} response.Response{data=AuthResponse}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Unauthorized(w, "Invalid email or password")
			return
		}
		errorhandler.Internal(r.Context(), w, "auth.login", err)
		return
	}

	h.setSessionCookie(w, result.Tokens.AccessToken)
	response.OK(w, result)
}

// Refresh handles POST /auth/refresh
// @Summary Rotate the refresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} response.Response{data=AuthResponse}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRefreshToken), errors.Is(err, ErrUserNotFound), errors.Is(err, ErrRefreshTokenRequired):
			response.Unauthorized(w, "Invalid or expired refresh token")
		default:
			errorhandler.Internal(r.Context(), w, "auth.refresh", err)
		}
		return
	}

	h.setSessionCookie(w, result.Tokens.AccessToken)
	response.OK(w, result)
}

// Logout handles POST /auth/logout
// @Summary Revoke the refresh token and clear the session cookie
// @Tags Auth
// @Accept json
// @Param request body RefreshRequest false "Refresh token"
// @Success 204 {string} string "No Content"
// @Failure 400 {object} response.Response
// @Router /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := response.DecodeJSON(r, &req); err != nil && !errors.Is(err, response.ErrEmptyBody) {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if err := h.service.Logout(r.Context(), req.RefreshToken); err != nil {
		errorhandler.Internal(r.Context(), w, "auth.logout", err)
		return
	}

	h.clearSessionCookie(w)
	response.NoContent(w)
}

// Me handles GET /auth/me
// @Summary Current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=UserResponse}
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.service.GetCurrentUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Token outlived its account.
			response.Unauthorized(w, "User no longer exists")
			return
		}
		errorhandler.Internal(r.Context(), w, "auth.me", err)
		return
	}

	response.OK(w, user)
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	ttl := h.service.AccessTTL()
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
