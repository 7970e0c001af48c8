package response

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ArnavSingha/ApniSec/internal/pkg/apperr"
)

type Envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// Empty is sent as data when a successful call has nothing to return.
var Empty = struct{}{}

func Write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func Success(w http.ResponseWriter, status int, message string, data any) {
	if data == nil {
		data = Empty
	}
	Write(w, status, Envelope{Success: true, Message: message, Data: data})
}

// Error writes err as an error envelope. Internal errors are logged with
// their cause and reach the client only as a generic message.
func Error(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	appErr := apperr.From(err)
	if appErr.IsInternal() && log != nil {
		fields := []zap.Field{zap.Error(err)}
		if r != nil {
			fields = append(fields, zap.String("method", r.Method), zap.String("path", r.URL.Path))
		}
		log.Error("unhandled api error", fields...)
	}

	Write(w, appErr.Status(), Envelope{
		Success: false,
		Message: appErr.PublicMessage(),
		Errors:  appErr.Details,
	})
}
