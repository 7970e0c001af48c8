package handlers

import (
	"net/http"

	"go.uber.org/zap"

	notesvc "github.com/ArnavSingha/ApniSec/internal/services/notes"
	"github.com/ArnavSingha/ApniSec/internal/transport/http/dto"
	"github.com/ArnavSingha/ApniSec/internal/transport/http/response"
)

type NoteHandler struct {
	service *notesvc.Service
	logger  *zap.Logger
}

func NewNoteHandler(service *notesvc.Service, logger *zap.Logger) *NoteHandler {
	return &NoteHandler{service: service, logger: logger}
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	var req dto.CreateNoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	note, err := h.service.Create(r.Context(), identity.UserID, notesvc.CreateInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusCreated, "Note created successfully", dto.NewNoteResponse(note))
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	notes, err := h.service.List(r.Context(), identity.UserID)
	if err != nil {
		response.Error(w, r, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "Notes retrieved successfully", dto.NewNoteList(notes))
}
