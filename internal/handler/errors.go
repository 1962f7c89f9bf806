package handler

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/student-records/internal/apperror"
	"github.com/stemsi/student-records/internal/response"
)

const msgInternal = "Something went wrong, please try again."

// statusFor returns the HTTP status matching a service error.
func statusFor(err error) int {
	switch {
	case apperror.IsValidation(err), apperror.IsPayload(err):
		return http.StatusBadRequest
	case apperror.IsConflict(err):
		return http.StatusConflict
	case apperror.IsNotFound(err):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// failAPI writes the JSON error envelope for a service error.
// Unclassified errors are logged and reported as INTERNAL_ERROR.
func failAPI(c *gin.Context, log zerolog.Logger, err error) {
	var ve *apperror.ValidationError
	switch {
	case errors.As(err, &ve):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, ve.Fields)
	case apperror.IsPayload(err):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
	case apperror.IsConflict(err):
		response.FailWithMessage(c, http.StatusConflict, response.ErrConflict, err.Error())
	case apperror.IsNotFound(err):
		response.FailWithMessage(c, http.StatusNotFound, response.ErrNotFound, err.Error())
	default:
		log.Error().Err(err).
			Str("request_id", c.GetString(response.ContextKeyRequestID)).
			Str("path", c.FullPath()).
			Msg("Request failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// dangerMessage returns the user-facing notice for a failed page action.
func dangerMessage(err error) string {
	var (
		ve *apperror.ValidationError
		ce *apperror.ConflictError
		ne *apperror.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		return validationMessage(ve)
	case errors.As(err, &ce):
		if ce.Resource == "course" {
			return "Course ID already exists!"
		}
		return "Email already exists!"
	case errors.As(err, &ne):
		return capitalize(ne.Resource) + " not found!"
	case apperror.IsPayload(err):
		return "Invalid request body!"
	}
	return msgInternal
}

func validationMessage(ve *apperror.ValidationError) string {
	messages := make([]string, 0, len(ve.Fields))
	for _, msg := range ve.Fields {
		if strings.HasSuffix(msg, "is a required field") {
			return "All fields are required!"
		}
		messages = append(messages, msg)
	}
	if len(messages) == 0 {
		return "All fields are required!"
	}
	sort.Strings(messages)
	return capitalize(strings.Join(messages, "; ")) + "."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
