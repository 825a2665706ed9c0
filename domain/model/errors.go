package model

import "errors"

// Sentinel errors for the publishing pipeline. Handlers match these with
// errors.Is and translate them into structured JSON responses.
var (
	// OAuth flow
	ErrAuthorizationDenied = errors.New("authorization denied by user")
	ErrMissingCode         = errors.New("no authorization code provided")
	ErrStateMismatch       = errors.New("oauth state mismatch")
	ErrTokenExchange       = errors.New("token exchange failed")

	// Token lifecycle
	ErrNoRefreshToken  = errors.New("no refresh token stored")
	ErrRefreshRejected = errors.New("token refresh rejected by platform")
	ErrAccountNotFound = errors.New("account not found")

	// Media pipeline
	ErrDownload             = errors.New("media download failed")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMediaTooLarge        = errors.New("media exceeds maximum size")
	ErrMediaUpload          = errors.New("media upload failed")
	ErrProcessing           = errors.New("media processing failed")
	ErrProcessingTimeout    = errors.New("media processing timed out")

	// Publishing
	ErrPublish      = errors.New("post publish failed")
	ErrDelete       = errors.New("post delete failed")
	ErrPostNotFound = errors.New("post not found")
)
