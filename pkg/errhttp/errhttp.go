// Package errhttp maps item domain errors to HTTP responses.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/catalog/pkg/httpx"
	"github.com/ghuser/catalog/pkg/logger"
	itemdomain "github.com/ghuser/catalog/services/item/domain"
)

// ErrMalformedBody marks a request body that could not be decoded at all.
var ErrMalformedBody = errors.New("malformed request body")

// ValidationResponse is the 422 body. Input echoes what the client sent so a
// form can be re-rendered with its values intact.
type ValidationResponse struct {
	Error  string            `json:"error" example:"validation failed"`
	Fields map[string]string `json:"fields"`
	Input  any               `json:"input,omitempty"`
} // @name ValidationResponse

// ErrorResponse is every other error body, as written by httpx.JSONError.
type ErrorResponse struct {
	Error string `json:"error" example:"item not found"`
} // @name ErrorResponse

// Writer renders errors, hiding 5xx details in production and logging them.
type Writer struct {
	log          logger.Logger
	isProduction bool
}

// NewWriter returns a Writer.
func NewWriter(log logger.Logger, isProduction bool) *Writer {
	return &Writer{log: log, isProduction: isProduction}
}

// Status maps err to a status code. Matching uses errors.Is/As so wrapped
// errors resolve to their sentinel.
func Status(err error) int {
	var mbe *http.MaxBytesError
	switch {
	case errors.Is(err, itemdomain.ErrValidation), errors.Is(err, itemdomain.ErrCategoryNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, itemdomain.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, itemdomain.ErrConcurrencyConflict):
		return http.StatusConflict
	case errors.As(err, &mbe):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrMalformedBody):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Write renders err. input is echoed back on validation failures only.
func (wr *Writer) Write(w http.ResponseWriter, r *http.Request, err error, input any) {
	status := Status(err)

	var verr *itemdomain.ValidationError
	if errors.As(err, &verr) {
		httpx.JSON(w, status, ValidationResponse{
			Error:  itemdomain.ErrValidation.Error(),
			Fields: verr.Fields,
			Input:  input,
		})
		return
	}

	if status >= http.StatusInternalServerError {
		wr.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	httpx.JSONError(w, status, httpx.SafeError(err, status, wr.isProduction))
}
