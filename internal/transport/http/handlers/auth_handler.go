package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	authsvc "github.com/ArnavSingha/ApniSec/internal/services/auth"
	"github.com/ArnavSingha/ApniSec/internal/transport/http/dto"
	"github.com/ArnavSingha/ApniSec/internal/transport/http/response"
)

type AuthHandler struct {
	service *authsvc.Service
	cookies CookieConfig
	logger  *zap.Logger
}

func NewAuthHandler(service *authsvc.Service, cookies CookieConfig, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{service: service, cookies: cookies, logger: logger}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	user, err := h.service.Register(r.Context(), authsvc.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusCreated, "User registered successfully", dto.NewUserResponse(user))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	session, err := h.service.Login(r.Context(), authsvc.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	h.cookies.set(w, session.Token)
	response.Success(w, http.StatusOK, "Login successful", dto.UserEnvelope{User: dto.NewUserResponse(session.User)})
}

// Logout only clears the cookie. The token itself stays valid until it expires.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.cookies.clear(w)
	response.Success(w, http.StatusOK, "Logout successful", nil)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	user, err := h.service.CurrentUser(r.Context(), identity.UserID)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "User data retrieved successfully", dto.NewUserResponse(user))
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email, requestOrigin(r)); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "Password reset email sent successfully.", nil)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	session, err := h.service.ResetPassword(r.Context(), authsvc.ResetPasswordInput{
		Token:       req.Token,
		NewPassword: req.Password,
	})
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	h.cookies.set(w, session.Token)
	response.Success(w, http.StatusOK, "Password has been reset successfully.", dto.UserEnvelope{User: dto.NewUserResponse(session.User)})
}

func requestOrigin(r *http.Request) string {
	if origin := r.Header.Get("Origin"); origin != "" {
		return origin
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	if r.Host == "" {
		return ""
	}
	return scheme + "://" + r.Host
}
