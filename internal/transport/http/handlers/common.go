package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ArnavSingha/ApniSec/internal/pkg/apperr"
	authsvc "github.com/ArnavSingha/ApniSec/internal/services/auth"
)

const (
	maxBodyBytes = 1 << 20

	msgInvalidBody = "Invalid request body"
)

func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation(msgInvalidBody, "request body is empty")
		}
		return apperr.Validation(msgInvalidBody, err.Error())
	}
	return nil
}

func identityFrom(r *http.Request) (authsvc.Identity, error) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok || identity.UserID == "" {
		return authsvc.Identity{}, apperr.Unauthenticated(authsvc.MsgTokenMissing)
	}
	return identity, nil
}
