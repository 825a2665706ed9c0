package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"social-hub/domain/model"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{model.ErrAuthorizationDenied, http.StatusBadRequest},
		{model.ErrMissingCode, http.StatusBadRequest},
		{model.ErrStateMismatch, http.StatusBadRequest},
		{model.ErrTokenExchange, http.StatusBadGateway},
		{model.ErrRefreshRejected, http.StatusBadGateway},
		{model.ErrNoRefreshToken, http.StatusUnauthorized},
		{model.ErrAccountNotFound, http.StatusNotFound},
		{model.ErrPostNotFound, http.StatusNotFound},
		{model.ErrUnsupportedMediaType, http.StatusUnprocessableEntity},
		{model.ErrMediaTooLarge, http.StatusRequestEntityTooLarge},
		{model.ErrDownload, http.StatusBadGateway},
		{model.ErrProcessingTimeout, http.StatusInternalServerError},
		{model.ErrPublish, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}

func TestStatusFor_Wrapped(t *testing.T) {
	err := fmt.Errorf("download https://cdn/a.png: %w", model.ErrMediaTooLarge)
	require.Equal(t, http.StatusRequestEntityTooLarge, statusFor(err))
}
