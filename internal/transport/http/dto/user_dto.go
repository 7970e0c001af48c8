package dto

import (
	"time"

	"github.com/ArnavSingha/ApniSec/internal/domain/enums"
	"github.com/ArnavSingha/ApniSec/internal/domain/model"
	"github.com/ArnavSingha/ApniSec/internal/pkg/apperr"
)

const msgInvalidDOB = "Date of birth must be a valid date (YYYY-MM-DD)"

// UserResponse never carries the password hash or reset token.
type UserResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	DOB         *time.Time `json:"dob,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	CompanyURL  string     `json:"companyUrl,omitempty"`
	JobTitle    string     `json:"jobTitle,omitempty"`
	Bio         string     `json:"bio,omitempty"`
	Country     string     `json:"country,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func NewUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		DOB:         u.DOB,
		Gender:      string(u.Gender),
		PhoneNumber: u.PhoneNumber,
		CompanyURL:  u.CompanyURL,
		JobTitle:    u.JobTitle,
		Bio:         u.Bio,
		Country:     u.Country,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type UpdateProfileRequest struct {
	Name        Optional[string] `json:"name"`
	DOB         Optional[string] `json:"dob"`
	Gender      Optional[string] `json:"gender"`
	PhoneNumber Optional[string] `json:"phoneNumber"`
	CompanyURL  Optional[string] `json:"companyUrl"`
	JobTitle    Optional[string] `json:"jobTitle"`
	Bio         Optional[string] `json:"bio"`
	Country     Optional[string] `json:"country"`
}

// ToPatch converts the request into a profile patch. A null or empty dob
// clears the stored date.
func (r UpdateProfileRequest) ToPatch() (model.ProfilePatch, error) {
	patch := model.ProfilePatch{
		Name:        r.Name.Ptr(),
		PhoneNumber: r.PhoneNumber.Ptr(),
		CompanyURL:  r.CompanyURL.Ptr(),
		JobTitle:    r.JobTitle.Ptr(),
		Bio:         r.Bio.Ptr(),
		Country:     r.Country.Ptr(),
	}

	if r.Gender.Set && !r.Gender.Null {
		g := enums.Gender(r.Gender.Value)
		patch.Gender = &g
	} else if r.Gender.Null {
		empty := enums.Gender("")
		patch.Gender = &empty
	}

	if r.DOB.Set {
		patch.DOBSet = true
		if !r.DOB.Null && r.DOB.Value != "" {
			dob, err := parseDate(r.DOB.Value)
			if err != nil {
				return model.ProfilePatch{}, apperr.Validation(msgInvalidDOB)
			}
			patch.DOB = &dob
		}
	}

	return patch, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
