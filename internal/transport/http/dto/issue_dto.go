package dto

import (
	"time"

	"github.com/ArnavSingha/ApniSec/internal/domain/enums"
	"github.com/ArnavSingha/ApniSec/internal/domain/model"
	"github.com/ArnavSingha/ApniSec/internal/pkg/apperr"
	"github.com/ArnavSingha/ApniSec/internal/pkg/validate"
	"github.com/ArnavSingha/ApniSec/internal/services/issues"
)

type IssueResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Priority    string    `json:"priority,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewIssueResponse(i model.Issue) IssueResponse {
	return IssueResponse{
		ID:          i.ID,
		UserID:      i.UserID,
		Title:       i.Title,
		Type:        string(i.Type),
		Description: i.Description,
		Priority:    i.Priority,
		Status:      i.Status,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func NewIssueList(in []model.Issue) []IssueResponse {
	out := make([]IssueResponse, 0, len(in))
	for _, i := range in {
		out = append(out, NewIssueResponse(i))
	}
	return out
}

type CreateIssueRequest struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
}

func (r CreateIssueRequest) Validate() error {
	if !validate.Required(r.Title) || !validate.Required(r.Type) || !validate.Required(r.Description) {
		return apperr.Validation(issues.MsgRequired)
	}
	return nil
}

func (r CreateIssueRequest) Input() issues.CreateInput {
	return issues.CreateInput{
		Title:       r.Title,
		Type:        r.Type,
		Description: r.Description,
		Priority:    r.Priority,
		Status:      r.Status,
	}
}

type UpdateIssueRequest struct {
	Title       *string `json:"title"`
	Type        *string `json:"type"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
}

func (r UpdateIssueRequest) Patch() model.IssuePatch {
	patch := model.IssuePatch{
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		Status:      r.Status,
	}
	if r.Type != nil {
		t := enums.IssueType(*r.Type)
		patch.Type = &t
	}
	return patch
}
