package users

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ArnavSingha/ApniSec/internal/domain/model"
	"github.com/ArnavSingha/ApniSec/internal/pkg/apperr"
	"github.com/ArnavSingha/ApniSec/internal/pkg/validate"
)

const (
	MsgUserNotFound  = "User not found."
	MsgInvalidName   = "A valid name is required."
	MsgInvalidGender = "Gender must be one of: Male, Female, Other, Prefer not to say"
	MsgInvalidURL    = "Company URL must be a valid http(s) URL"
	MsgFutureDOB     = "Date of birth cannot be in the future"
	MsgEmptyPatch    = "At least one profile field is required"
	MsgBioTooLong    = "Bio must be at most 1000 characters"
)

const maxBioLength = 1000

type Store interface {
	GetUserByID(ctx context.Context, id string) (model.User, error)
	UpdateProfile(ctx context.Context, userID string, patch model.ProfilePatch, now time.Time) (model.User, error)
}

type Notifier interface {
	SendProfileUpdated(ctx context.Context, to string)
}

type Service struct {
	store    Store
	notifier Notifier
	now      func() time.Time
}

func NewService(store Store, notifier Notifier) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *Service) Profile(ctx context.Context, userID string) (model.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return model.User{}, mapStoreError("get profile", err)
	}
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, patch model.ProfilePatch) (model.User, error) {
	normalized, err := s.normalize(patch)
	if err != nil {
		return model.User{}, err
	}

	user, err := s.store.UpdateProfile(ctx, userID, normalized, s.now().UTC())
	if err != nil {
		return model.User{}, mapStoreError("update profile", err)
	}

	if s.notifier != nil {
		s.notifier.SendProfileUpdated(ctx, user.Email)
	}
	return user, nil
}

func (s *Service) normalize(p model.ProfilePatch) (model.ProfilePatch, error) {
	if p.Name == nil && !p.DOBSet && p.Gender == nil && p.PhoneNumber == nil &&
		p.CompanyURL == nil && p.JobTitle == nil && p.Bio == nil && p.Country == nil {
		return p, apperr.Validation(MsgEmptyPatch)
	}

	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if !validate.MinLength(name, 2) {
			return p, apperr.Validation(MsgInvalidName)
		}
		p.Name = &name
	}
	if p.DOBSet && p.DOB != nil && p.DOB.After(s.now()) {
		return p, apperr.Validation(MsgFutureDOB)
	}
	if p.Gender != nil && *p.Gender != "" && !p.Gender.Valid() {
		return p, apperr.Validation(MsgInvalidGender)
	}
	if p.CompanyURL != nil {
		raw := strings.TrimSpace(*p.CompanyURL)
		if raw != "" && !validURL(raw) {
			return p, apperr.Validation(MsgInvalidURL)
		}
		p.CompanyURL = &raw
	}
	if p.Bio != nil && !validate.MaxLength(*p.Bio, maxBioLength) {
		return p, apperr.Validation(MsgBioTooLong)
	}
	p.PhoneNumber = trimmed(p.PhoneNumber)
	p.JobTitle = trimmed(p.JobTitle)
	p.Country = trimmed(p.Country)

	return p, nil
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	out := strings.TrimSpace(*v)
	return &out
}

func validURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func mapStoreError(op string, err error) error {
	if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrInvalidID) {
		return apperr.NotFound(MsgUserNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
