package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"social-hub/domain/model"
)

// statusFor maps pipeline errors onto HTTP status codes. Anything
// unrecognized is a plain 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrAuthorizationDenied),
		errors.Is(err, model.ErrMissingCode),
		errors.Is(err, model.ErrStateMismatch):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrTokenExchange),
		errors.Is(err, model.ErrRefreshRejected):
		return http.StatusBadGateway
	case errors.Is(err, model.ErrNoRefreshToken):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrAccountNotFound),
		errors.Is(err, model.ErrPostNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrUnsupportedMediaType):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrMediaTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, model.ErrDownload):
		return http.StatusBadGateway
	case errors.Is(err, model.ErrProcessing),
		errors.Is(err, model.ErrProcessingTimeout),
		errors.Is(err, model.ErrMediaUpload),
		errors.Is(err, model.ErrPublish),
		errors.Is(err, model.ErrDelete):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// success wraps a response body in the API envelope.
func success(data gin.H) gin.H {
	body := gin.H{"status": "success"}
	for k, v := range data {
		body[k] = v
	}
	return body
}

func failure(message string) gin.H {
	return gin.H{"status": "error", "message": message}
}

func abortError(err error) (int, interface{}) {
	return statusFor(err), failure(err.Error())
}
