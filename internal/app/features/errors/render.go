// internal/app/features/errors/render.go
package errors

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// response is the wire shape of every error body.
// status is "fail" for 4xx and "error" for 5xx, matching the success
// envelope used by the handlers.
type response struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// WriteJSON writes value as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// ErrorLogger renders classified errors as JSON and logs server-side
// causes. Stack traces accompany 5xx logs only outside production.
type ErrorLogger struct {
	log        *zap.Logger
	production bool
}

// NewErrorLogger constructs an ErrorLogger. When production is true,
// 5xx log entries omit stack traces.
func NewErrorLogger(logger *zap.Logger, production bool) *ErrorLogger {
	return &ErrorLogger{log: logger, production: production}
}

// Write funnels any handler failure to the client: classified errors
// keep their status and message, everything else becomes a generic 500.
func (l *ErrorLogger) Write(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := AsError(err)
	status := apiErr.Status()

	if status >= 500 {
		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(apiErr),
		}
		if !l.production {
			fields = append(fields, zap.Stack("stack"))
		}
		l.log.Error("request failed", fields...)
	} else {
		l.log.Debug("request rejected",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.String("message", apiErr.Message))
	}

	envelope := "fail"
	if status >= 500 {
		envelope = "error"
	}
	WriteJSON(w, status, response{
		Status:  envelope,
		Message: apiErr.Message,
		Errors:  apiErr.Fields,
	})
}

// NotFoundHandler answers any unrouted path with a 404 in the standard
// error shape.
func (l *ErrorLogger) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l.Write(w, r, New(KindNotFound, "can't find "+r.URL.Path+" on this server"))
	}
}
