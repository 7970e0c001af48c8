package auth

import (
	"time"

	"github.com/ArnavSingha/ApniSec/internal/domain/model"
)

const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgTokenMissing       = "Authentication token not provided."
	MsgTokenInvalid       = "Invalid or expired authentication token."
	MsgEmailTaken         = "User with this email already exists"
	MsgUserNotFound       = "User not found."
	MsgInvalidResetToken  = "Invalid or expired password reset token."
	MsgPasswordTooLong    = "Password must be at most 72 bytes"
)

type Claims struct {
	Subject   string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type ResetPasswordInput struct {
	Token       string
	NewPassword string
}

// Session is what a successful login hands back to the transport layer.
type Session struct {
	User      model.User
	Token     string
	ExpiresAt time.Time
}
