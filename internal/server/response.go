package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/studyplan/internal/app"
	"github.com/abhisek/studyplan/internal/planfile"
	"github.com/abhisek/studyplan/internal/schedule"
	"github.com/abhisek/studyplan/internal/store"
)

// envelope is the body of every JSON response.
type envelope struct {
	Data  any            `json:"data,omitempty"`
	Error *apiError      `json:"error,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
}

// apiError is the error half of an envelope.
type apiError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	status  int
	err     error
}

func (e *apiError) Error() string {
	if e.err != nil {
		return e.Message + ": " + e.err.Error()
	}
	return e.Message
}

func (e *apiError) Unwrap() error { return e.err }

func newAPIError(status int, code, message string, err error) *apiError {
	return &apiError{Code: code, Message: message, status: status, err: err}
}

func respond(c *gin.Context, status int, data any, meta map[string]any) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, envelope{Data: data, Meta: meta})
}

// fail maps err to a status and code and writes an error envelope.
func fail(c *gin.Context, err error) {
	e := toAPIError(err)
	_ = c.Error(err)
	c.Header("Cache-Control", "no-store")
	c.AbortWithStatusJSON(e.status, envelope{Error: e})
}

func toAPIError(err error) *apiError {
	var (
		ae       *apiError
		ve       *planfile.ValidationError
		capErr   *schedule.CapacityError
		tooLarge *http.MaxBytesError
	)
	switch {
	case errors.As(err, &ae):
		return ae
	case errors.As(err, &tooLarge):
		return newAPIError(http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body too large", err)
	case errors.As(err, &ve):
		e := newAPIError(http.StatusBadRequest, "VALIDATION_ERROR", "validation failed", err)
		e.Details = ve.Problems
		return e
	case errors.As(err, &capErr):
		return newAPIError(http.StatusUnprocessableEntity, "CAPACITY_EXCEEDED", capErr.Error(), err)
	case errors.Is(err, store.ErrNotFound):
		return newAPIError(http.StatusNotFound, "NOT_FOUND", "resource not found", err)
	case errors.Is(err, store.ErrStaleProfile):
		return newAPIError(http.StatusConflict, "CONFLICT", "profile was updated concurrently, retry", err)
	case errors.Is(err, app.ErrNoNarrator):
		return newAPIError(http.StatusBadRequest, "NARRATION_DISABLED", "narration is not enabled on this server", err)
	case errors.Is(err, app.ErrNoStore):
		return newAPIError(http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "persistence is not configured", err)
	}
	return newAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", err)
}

// decodeError marks body decoding failures as client errors unless a more
// specific mapping applies.
func decodeError(err error) error {
	var (
		ve       *planfile.ValidationError
		tooLarge *http.MaxBytesError
	)
	if errors.As(err, &ve) || errors.As(err, &tooLarge) {
		return err
	}
	return newAPIError(http.StatusBadRequest, "INVALID_PAYLOAD", "invalid payload", err)
}
