package issues

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ArnavSingha/ApniSec/internal/domain/enums"
	"github.com/ArnavSingha/ApniSec/internal/domain/model"
	"github.com/ArnavSingha/ApniSec/internal/pkg/apperr"
	"github.com/ArnavSingha/ApniSec/internal/pkg/validate"
)

const (
	MsgNotFound     = "Issue not found or access denied."
	MsgRequired     = "Title, type, and description are required"
	MsgInvalidType  = "Issue type must be one of: Cloud Security, RedTeam Assessment, VAPT"
	MsgEmptyPatch   = "At least one field is required to update an issue"
	MsgBlankField   = "Title and description cannot be empty"
	MsgTitleTooLong = "Title must be at most 200 characters"
)

const maxTitleLength = 200

// Store is owner-scoped: every lookup and mutation is filtered by userID, so
// another user's issue is indistinguishable from a missing one.
type Store interface {
	CreateIssue(ctx context.Context, issue model.Issue) (model.Issue, error)
	ListIssues(ctx context.Context, userID string, filter model.IssueFilter) ([]model.Issue, error)
	GetIssue(ctx context.Context, userID, id string) (model.Issue, error)
	UpdateIssue(ctx context.Context, userID, id string, patch model.IssuePatch, now time.Time) (model.Issue, error)
	DeleteIssue(ctx context.Context, userID, id string) error
}

type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (model.User, error)
}

type Notifier interface {
	SendIssueCreated(ctx context.Context, to string, issue model.Issue)
}

type CreateInput struct {
	Title       string
	Type        string
	Description string
	Priority    string
	Status      string
}

type ListInput struct {
	TypeSlug string
	Search   string
}

type Service struct {
	store    Store
	users    UserLookup
	notifier Notifier
	now      func() time.Time
}

func NewService(store Store, users UserLookup, notifier Notifier) *Service {
	return &Service{
		store:    store,
		users:    users,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (model.Issue, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	typ := enums.IssueType(strings.TrimSpace(in.Type))

	if title == "" || description == "" || typ == "" {
		return model.Issue{}, apperr.Validation(MsgRequired)
	}
	if !typ.Valid() {
		return model.Issue{}, apperr.Validation(MsgInvalidType)
	}
	if !validate.MaxLength(title, maxTitleLength) {
		return model.Issue{}, apperr.Validation(MsgTitleTooLong)
	}

	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = enums.DefaultIssueStatus
	}

	now := s.now().UTC()
	issue, err := s.store.CreateIssue(ctx, model.Issue{
		UserID:      userID,
		Title:       title,
		Type:        typ,
		Description: description,
		Priority:    strings.TrimSpace(in.Priority),
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.Issue{}, fmt.Errorf("create issue: %w", err)
	}

	s.notifyCreated(ctx, userID, issue)
	return issue, nil
}

// List returns the owner's issues newest first. An unknown type slug is
// ignored rather than rejected.
func (s *Service) List(ctx context.Context, userID string, in ListInput) ([]model.Issue, error) {
	filter := model.IssueFilter{Search: strings.TrimSpace(in.Search)}
	if typ, ok := enums.IssueTypeFromSlug(in.TypeSlug); ok {
		filter.Type = typ
	}

	issues, err := s.store.ListIssues(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	return issues, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (model.Issue, error) {
	issue, err := s.store.GetIssue(ctx, userID, id)
	if err != nil {
		return model.Issue{}, mapStoreError("get issue", err)
	}
	return issue, nil
}

func (s *Service) Update(ctx context.Context, userID, id string, patch model.IssuePatch) (model.Issue, error) {
	if patch.Empty() {
		return model.Issue{}, apperr.Validation(MsgEmptyPatch)
	}
	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		if trimmed == "" {
			return model.Issue{}, apperr.Validation(MsgBlankField)
		}
		if !validate.MaxLength(trimmed, maxTitleLength) {
			return model.Issue{}, apperr.Validation(MsgTitleTooLong)
		}
		patch.Title = &trimmed
	}
	if patch.Description != nil {
		trimmed := strings.TrimSpace(*patch.Description)
		if trimmed == "" {
			return model.Issue{}, apperr.Validation(MsgBlankField)
		}
		patch.Description = &trimmed
	}
	if patch.Type != nil && !patch.Type.Valid() {
		return model.Issue{}, apperr.Validation(MsgInvalidType)
	}

	issue, err := s.store.UpdateIssue(ctx, userID, id, patch, s.now().UTC())
	if err != nil {
		return model.Issue{}, mapStoreError("update issue", err)
	}
	return issue, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteIssue(ctx, userID, id); err != nil {
		return mapStoreError("delete issue", err)
	}
	return nil
}

func (s *Service) notifyCreated(ctx context.Context, userID string, issue model.Issue) {
	if s.notifier == nil || s.users == nil {
		return
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil || user.Email == "" {
		return
	}
	s.notifier.SendIssueCreated(ctx, user.Email, issue)
}

func mapStoreError(op string, err error) error {
	if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrInvalidID) {
		return apperr.NotFound(MsgNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
