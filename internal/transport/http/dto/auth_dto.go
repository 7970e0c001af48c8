package dto

import (
	"github.com/ArnavSingha/ApniSec/internal/pkg/apperr"
	"github.com/ArnavSingha/ApniSec/internal/pkg/validate"
)

const (
	minPasswordLength = 6
	maxPasswordBytes  = 72

	msgRegisterRequired = "Name, email, and password are required"
	msgLoginRequired    = "Email and password are required"
	msgEmailRequired    = "Email is required"
	msgResetRequired    = "Token and new password are required"
	msgInvalidEmail     = "Please provide a valid email address"
	msgPasswordTooShort = "Password must be at least 6 characters long"
	msgPasswordTooLong  = "Password must be at most 72 bytes"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	if !validate.Required(r.Name) || !validate.Required(r.Email) || r.Password == "" {
		return apperr.Validation(msgRegisterRequired)
	}
	if !validate.Email(r.Email) {
		return apperr.Validation(msgInvalidEmail)
	}
	return validatePassword(r.Password)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	if !validate.Required(r.Email) || r.Password == "" {
		return apperr.Validation(msgLoginRequired)
	}
	return nil
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r ForgotPasswordRequest) Validate() error {
	if !validate.Required(r.Email) {
		return apperr.Validation(msgEmailRequired)
	}
	return nil
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (r ResetPasswordRequest) Validate() error {
	if !validate.Required(r.Token) || r.Password == "" {
		return apperr.Validation(msgResetRequired)
	}
	return validatePassword(r.Password)
}

// bcrypt hashes at most 72 bytes of input.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperr.Validation(msgPasswordTooShort)
	}
	if len(password) > maxPasswordBytes {
		return apperr.Validation(msgPasswordTooLong)
	}
	return nil
}

type UserEnvelope struct {
	User UserResponse `json:"user"`
}
