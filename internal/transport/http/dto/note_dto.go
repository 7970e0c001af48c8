package dto

import (
	"time"

	"github.com/ArnavSingha/ApniSec/internal/domain/model"
	"github.com/ArnavSingha/ApniSec/internal/pkg/apperr"
	"github.com/ArnavSingha/ApniSec/internal/pkg/validate"
	"github.com/ArnavSingha/ApniSec/internal/services/notes"
)

type NoteResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewNoteResponse(n model.Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func NewNoteList(in []model.Note) []NoteResponse {
	out := make([]NoteResponse, 0, len(in))
	for _, n := range in {
		out = append(out, NewNoteResponse(n))
	}
	return out
}

type CreateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (r CreateNoteRequest) Validate() error {
	if !validate.Required(r.Title) || !validate.Required(r.Content) {
		return apperr.Validation(notes.MsgRequired)
	}
	return nil
}
