package handlers

import (
	"net/http"

	"go.uber.org/zap"

	usersvc "github.com/ArnavSingha/ApniSec/internal/services/users"
	"github.com/ArnavSingha/ApniSec/internal/transport/http/dto"
	"github.com/ArnavSingha/ApniSec/internal/transport/http/response"
)

type UserHandler struct {
	service *usersvc.Service
	logger  *zap.Logger
}

func NewUserHandler(service *usersvc.Service, logger *zap.Logger) *UserHandler {
	return &UserHandler{service: service, logger: logger}
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	user, err := h.service.Profile(r.Context(), identity.UserID)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "Profile retrieved successfully", dto.NewUserResponse(user))
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	var req dto.UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	patch, err := req.ToPatch()
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), identity.UserID, patch)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "Profile updated successfully", dto.NewUserResponse(user))
}
