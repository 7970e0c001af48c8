package model

import (
	"errors"
	"time"

	"github.com/ArnavSingha/ApniSec/internal/domain/enums"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
	ErrInvalidID = errors.New("invalid id")
)

type User struct {
	ID               string
	Name             string
	Email            string
	PasswordHash     string
	ResetTokenHash   string
	ResetTokenExpiry *time.Time
	DOB              *time.Time
	Gender           enums.Gender
	PhoneNumber      string
	CompanyURL       string
	JobTitle         string
	Bio              string
	Country          string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Issue struct {
	ID          string
	UserID      string
	Title       string
	Type        enums.IssueType
	Description string
	Priority    string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Note struct {
	ID        string
	UserID    string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type IssueFilter struct {
	Type   enums.IssueType
	Search string
}

// IssuePatch carries the fields an owner may change. Nil means unchanged.
type IssuePatch struct {
	Title       *string
	Type        *enums.IssueType
	Description *string
	Priority    *string
	Status      *string
}

func (p IssuePatch) Empty() bool {
	return p.Title == nil && p.Type == nil && p.Description == nil && p.Priority == nil && p.Status == nil
}

// ProfilePatch is a partial profile update. DOB is applied when DOBSet is
// true, so a nil DOB with DOBSet clears the stored date.
type ProfilePatch struct {
	Name        *string
	DOBSet      bool
	DOB         *time.Time
	Gender      *enums.Gender
	PhoneNumber *string
	CompanyURL  *string
	JobTitle    *string
	Bio         *string
	Country     *string
}

// Apply copies the set fields onto u.
func (p ProfilePatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.DOBSet {
		u.DOB = p.DOB
	}
	if p.Gender != nil {
		u.Gender = *p.Gender
	}
	if p.PhoneNumber != nil {
		u.PhoneNumber = *p.PhoneNumber
	}
	if p.CompanyURL != nil {
		u.CompanyURL = *p.CompanyURL
	}
	if p.JobTitle != nil {
		u.JobTitle = *p.JobTitle
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.Country != nil {
		u.Country = *p.Country
	}
}

func (p IssuePatch) Apply(i *Issue) {
	if p.Title != nil {
		i.Title = *p.Title
	}
	if p.Type != nil {
		i.Type = *p.Type
	}
	if p.Description != nil {
		i.Description = *p.Description
	}
	if p.Priority != nil {
		i.Priority = *p.Priority
	}
	if p.Status != nil {
		i.Status = *p.Status
	}
}
