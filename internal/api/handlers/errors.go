package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"shade-seat-service/internal/domain"
	"shade-seat-service/internal/services"
)

// ErrResponse is the JSON body of every failed request.
type ErrResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	StatusText    string   `json:"status"`
	Message       string   `json:"message,omitempty"` // safe to show to end users
	Field         string   `json:"field,omitempty"`
	ErrorText     string   `json:"error,omitempty"`
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInvalidRequest(err error) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrValidation(err error, errV []string) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
		ErrValidation:  errV,
	}
}

func ErrInternal(err error) *ErrResponse {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     "Internal server error.",
	}
}

// ErrLookup maps trip errors to a status code and the user-facing message.
func ErrLookup(err error) *ErrResponse {
	resp := &ErrResponse{
		Err:       err,
		Message:   services.UserMessage(err),
		ErrorText: err.Error(),
	}

	var le *services.LookupError
	if errors.As(err, &le) {
		resp.Field = le.Field
	}

	switch {
	case errors.Is(err, domain.ErrEmptyLocation),
		errors.Is(err, domain.ErrSameLocation),
		errors.Is(err, domain.ErrInvalidCoordinates):
		resp.HTTPStatusCode = http.StatusBadRequest
		resp.StatusText = "Invalid request."
	case errors.Is(err, domain.ErrPlaceNotFound), errors.Is(err, domain.ErrNoRoute):
		resp.HTTPStatusCode = http.StatusUnprocessableEntity
		resp.StatusText = "Lookup failed."
	case le != nil:
		resp.HTTPStatusCode = http.StatusBadGateway
		resp.StatusText = "Upstream service unavailable."
	default:
		zap.L().Error("unexpected trip error", zap.Error(err))
		resp.HTTPStatusCode = http.StatusInternalServerError
		resp.StatusText = "Internal server error."
		resp.ErrorText = ""
	}
	return resp
}
