package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	issuesvc "github.com/ArnavSingha/ApniSec/internal/services/issues"
	"github.com/ArnavSingha/ApniSec/internal/transport/http/dto"
	"github.com/ArnavSingha/ApniSec/internal/transport/http/response"
)

type IssueHandler struct {
	service *issuesvc.Service
	logger  *zap.Logger
}

func NewIssueHandler(service *issuesvc.Service, logger *zap.Logger) *IssueHandler {
	return &IssueHandler{service: service, logger: logger}
}

func (h *IssueHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	var req dto.CreateIssueRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	issue, err := h.service.Create(r.Context(), identity.UserID, req.Input())
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusCreated, "Issue created successfully", dto.NewIssueResponse(issue))
}

// List accepts ?type=<slug> and ?search=<text>.
func (h *IssueHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	query := r.URL.Query()
	issues, err := h.service.List(r.Context(), identity.UserID, issuesvc.ListInput{
		TypeSlug: query.Get("type"),
		Search:   query.Get("search"),
	})
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "Issues retrieved successfully", dto.NewIssueList(issues))
}

func (h *IssueHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	issue, err := h.service.Get(r.Context(), identity.UserID, chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "Issue retrieved successfully", dto.NewIssueResponse(issue))
}

func (h *IssueHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	var req dto.UpdateIssueRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	issue, err := h.service.Update(r.Context(), identity.UserID, chi.URLParam(r, "id"), req.Patch())
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "Issue updated successfully", dto.NewIssueResponse(issue))
}

func (h *IssueHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	if err := h.service.Delete(r.Context(), identity.UserID, chi.URLParam(r, "id")); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "Issue deleted successfully", nil)
}
