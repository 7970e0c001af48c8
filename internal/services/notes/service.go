package notes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ArnavSingha/ApniSec/internal/domain/model"
	"github.com/ArnavSingha/ApniSec/internal/pkg/apperr"
)

const MsgRequired = "Title and content are required"

type Store interface {
	CreateNote(ctx context.Context, note model.Note) (model.Note, error)
	ListNotes(ctx context.Context, userID string) ([]model.Note, error)
}

type CreateInput struct {
	Title   string
	Content string
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (model.Note, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return model.Note{}, apperr.Validation(MsgRequired)
	}

	now := s.now().UTC()
	note, err := s.store.CreateNote(ctx, model.Note{
		UserID:    userID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.Note{}, fmt.Errorf("create note: %w", err)
	}
	return note, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]model.Note, error) {
	notes, err := s.store.ListNotes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}
