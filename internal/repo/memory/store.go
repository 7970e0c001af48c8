// Package memory is a process-local store driver. It backs local runs with
// STORAGE_DRIVER=memory and the service and router tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ArnavSingha/ApniSec/internal/domain/model"
)

type Store struct {
	mu     sync.RWMutex
	users  map[string]model.User
	emails map[string]string
	issues map[string]model.Issue
	notes  map[string]model.Note
}

func NewStore() *Store {
	return &Store{
		users:  make(map[string]model.User),
		emails: make(map[string]string),
		issues: make(map[string]model.Issue),
		notes:  make(map[string]model.Note),
	}
}

func (s *Store) Ping(context.Context) error {
	return nil
}

func (s *Store) CreateUser(_ context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(user.Email))
	if _, exists := s.emails[email]; exists {
		return model.User{}, model.ErrDuplicate
	}

	user.ID = uuid.NewString()
	user.Email = email
	s.users[user.ID] = user
	s.emails[email] = user.ID
	return user, nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return user, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return s.users[id], nil
}

func (s *Store) SetResetToken(_ context.Context, userID, digest string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return model.ErrNotFound
	}
	user.ResetTokenHash = digest
	user.ResetTokenExpiry = &expiresAt
	s.users[userID] = user
	return nil
}

func (s *Store) GetUserByResetToken(_ context.Context, digest string, now time.Time) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if digest == "" {
		return model.User{}, model.ErrNotFound
	}
	for _, user := range s.users {
		if user.ResetTokenHash == digest && user.ResetTokenExpiry != nil && user.ResetTokenExpiry.After(now) {
			return user, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (s *Store) UpdatePassword(_ context.Context, userID, passwordHash string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return model.ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.ResetTokenHash = ""
	user.ResetTokenExpiry = nil
	user.UpdatedAt = now
	s.users[userID] = user
	return nil
}

func (s *Store) ClearExpiredResetTokens(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cleared int64
	for id, user := range s.users {
		if user.ResetTokenExpiry != nil && !user.ResetTokenExpiry.After(now) {
			user.ResetTokenHash = ""
			user.ResetTokenExpiry = nil
			s.users[id] = user
			cleared++
		}
	}
	return cleared, nil
}

func (s *Store) UpdateProfile(_ context.Context, userID string, patch model.ProfilePatch, now time.Time) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	patch.Apply(&user)
	user.UpdatedAt = now
	s.users[userID] = user
	return user, nil
}

func (s *Store) CreateIssue(_ context.Context, issue model.Issue) (model.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue.ID = uuid.NewString()
	s.issues[issue.ID] = issue
	return issue, nil
}

func (s *Store) ListIssues(_ context.Context, userID string, filter model.IssueFilter) ([]model.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]model.Issue, 0)
	for _, issue := range s.issues {
		if issue.UserID != userID {
			continue
		}
		if filter.Type != "" && issue.Type != filter.Type {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(issue.Title), search) &&
			!strings.Contains(strings.ToLower(issue.Description), search) {
			continue
		}
		out = append(out, issue)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) GetIssue(_ context.Context, userID, id string) (model.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	issue, ok := s.issues[id]
	if !ok || issue.UserID != userID {
		return model.Issue{}, model.ErrNotFound
	}
	return issue, nil
}

func (s *Store) UpdateIssue(_ context.Context, userID, id string, patch model.IssuePatch, now time.Time) (model.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue, ok := s.issues[id]
	if !ok || issue.UserID != userID {
		return model.Issue{}, model.ErrNotFound
	}
	patch.Apply(&issue)
	issue.UpdatedAt = now
	s.issues[id] = issue
	return issue, nil
}

func (s *Store) DeleteIssue(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue, ok := s.issues[id]
	if !ok || issue.UserID != userID {
		return model.ErrNotFound
	}
	delete(s.issues, id)
	return nil
}

func (s *Store) CreateNote(_ context.Context, note model.Note) (model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note.ID = uuid.NewString()
	s.notes[note.ID] = note
	return note, nil
}

func (s *Store) ListNotes(_ context.Context, userID string) ([]model.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Note, 0)
	for _, note := range s.notes {
		if note.UserID == userID {
			out = append(out, note)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
