package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ArnavSingha/ApniSec/internal/transport/http/dto"
	"github.com/ArnavSingha/ApniSec/internal/transport/http/response"
)

const pingTimeout = 3 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store  Pinger
	logger *zap.Logger
}

func NewHealthHandler(store Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{store: store, logger: logger}
}

func (h *HealthHandler) Live(w http.ResponseWriter, _ *http.Request) {
	response.Write(w, http.StatusOK, dto.HealthResponse{Status: "ok"})
}

func (h *HealthHandler) DBCheck(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		response.Write(w, http.StatusServiceUnavailable, response.Envelope{Message: "Database is not configured"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		if h.logger != nil {
			h.logger.Error("database health check failed", zap.Error(err))
		}
		response.Write(w, http.StatusInternalServerError, response.Envelope{Message: "Database connection failed"})
		return
	}

	response.Success(w, http.StatusOK, "Database connection successful!", dto.HealthResponse{Status: "ok"})
}
