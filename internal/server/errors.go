package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	apperr "github.com/apecglobal/logofield/pkg/errors"
	"github.com/apecglobal/logofield/pkg/integrations"
	"github.com/apecglobal/logofield/pkg/storage"
)

var (
	errRouteNotFound = apperr.New(apperr.ErrCodeNotFound, "no such route")
	errNoStore       = apperr.New(apperr.ErrCodeUnsupported, "no layout store configured")
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      apperr.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

// classify maps err onto an error code and a message safe to return to
// clients. Errors without a known code are reported as internal.
func classify(err error) (apperr.Code, string) {
	if code := apperr.GetCode(err); code != "" {
		return code, apperr.UserMessage(err)
	}
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperr.ErrCodePinNotFound, "no pinned layout"
	case errors.Is(err, integrations.ErrNotFound):
		return apperr.ErrCodeNotFound, "entity source not found"
	case errors.Is(err, integrations.ErrNetwork):
		return apperr.ErrCodeNetwork, "entity source unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return apperr.ErrCodeTimeout, "request timed out"
	}
	return apperr.ErrCodeInternal, "internal server error"
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := classify(err)
	status := apperr.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "code", code, "err", err)
	}
	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:      code,
		Message:   msg,
		RequestID: middleware.GetReqID(r.Context()),
	}})
}

// invalid wraps a request decoding or validation failure.
func invalid(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		f := ve[0]
		return apperr.New(apperr.ErrCodeInvalidInput, "validation error: %s - %s", f.Field(), f.Tag())
	}
	if apperr.GetCode(err) != "" {
		return err
	}
	return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "%s", err.Error())
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: errorDetail{
		Code:      apperr.ErrCodeUnsupported,
		Message:   fmt.Sprintf("method %s not allowed", r.Method),
		RequestID: middleware.GetReqID(r.Context()),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, fmt.Sprintf("encode response: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(data, '\n'))
}
