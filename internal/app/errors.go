package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/cinema-booking/api"
	"github.com/metinatakli/cinema-booking/internal/domain"
	appvalidator "github.com/metinatakli/cinema-booking/internal/validator"
)

const (
	ErrInternalServer     = "The server encountered a problem and could not process your request"
	ErrNotFound           = "The requested resource not found"
	ErrMethodNotAllowed   = "The method is not supported for this resource"
	ErrUnauthorizedAccess = "You must be authenticated to access this resource"
	ErrForbiddenAccess    = "You do not have permission to access this resource"
	ErrValidationFailed   = "One or more fields are invalid"
	ErrSeatsUnavailable   = "Some of the requested seats are no longer available"
	ErrBookingClosed      = "Bookings are closed for this showtime"
	ErrCommitUnavailable  = "The order could not be completed, please try again"
)

func (app *application) logError(r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.contextGetLogger(r).Error(err.Error(), "method", method, "uri", uri)
}

// errorResponse sends a JSON error envelope carrying the request id.
func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	resp := api.ErrorResponse{
		Message:   message,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)
	app.errorResponse(w, r, http.StatusInternalServerError, ErrInternalServer)
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, ErrNotFound)
}

func (app *application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusMethodNotAllowed, ErrMethodNotAllowed)
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *application) unauthorizedAccessResponse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	app.errorResponse(w, r, http.StatusUnauthorized, ErrUnauthorizedAccess)
}

func (app *application) forbiddenResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusForbidden, ErrForbiddenAccess)
}

// paramErrorHandler handles path parameters the generated router could not bind.
func (app *application) paramErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	app.badRequestResponse(w, r, err)
}

func (app *application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		app.badRequestResponse(w, r, err)
		return
	}

	issues := make([]api.ValidationError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		issues = append(issues, api.ValidationError{
			Field: fe.Field(),
			Issue: appvalidator.ValidationMessage(fe),
		})
	}

	app.validationIssuesResponse(w, r, issues)
}

func (app *application) validationIssuesResponse(w http.ResponseWriter, r *http.Request, issues []api.ValidationError) {
	resp := api.ValidationErrorResponse{
		Message:          ErrValidationFailed,
		RequestId:        middleware.GetReqID(r.Context()),
		Timestamp:        time.Now(),
		ValidationErrors: issues,
	}

	err := app.writeJSON(w, http.StatusUnprocessableEntity, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) seatConflictResponse(w http.ResponseWriter, r *http.Request, conflict *domain.SeatConflictError) {
	resp := api.SeatConflictResponse{
		Message:          ErrSeatsUnavailable,
		ConflictingSeats: conflict.Labels,
		RequestId:        middleware.GetReqID(r.Context()),
		Timestamp:        time.Now(),
	}

	err := app.writeJSON(w, http.StatusConflict, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// bookingErrorResponse translates errors returned by the booking engine into
// their HTTP representation. Anything unrecognised is a server error.
func (app *application) bookingErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var (
		conflict *domain.SeatConflictError
		unknown  *domain.UnknownSeatsError
	)

	switch {
	case errors.As(err, &conflict):
		app.seatConflictResponse(w, r, conflict)

	case errors.As(err, &unknown):
		app.errorResponse(w, r, http.StatusNotFound, fmt.Sprintf("Seats not found in this room: %v", unknown.Labels))

	case errors.Is(err, domain.ErrRecordNotFound):
		app.notFoundResponse(w, r)

	case errors.Is(err, domain.ErrForbidden):
		app.forbiddenResponse(w, r)

	case errors.Is(err, domain.ErrWindowClosed):
		app.errorResponse(w, r, http.StatusUnprocessableEntity, ErrBookingClosed)

	case errors.Is(err, domain.ErrNoSeatsRequested), errors.Is(err, domain.ErrTooManySeats):
		app.validationIssuesResponse(w, r, []api.ValidationError{{Field: "seatLabels", Issue: err.Error()}})

	case errors.Is(err, domain.ErrCommitFailure):
		app.logError(r, err)
		app.errorResponse(w, r, http.StatusServiceUnavailable, ErrCommitUnavailable)

	default:
		// misconfigured showtimes land here as well
		app.serverErrorResponse(w, r, err)
	}
}
