package model

import "github.com/m-mizutani/goerr/v2"

// Tags classify errors by how callers should react to them. The HTTP layer maps
// them to status codes.
var (
	ErrTagValidation   = goerr.NewTag("validation")
	ErrTagUnauthorized = goerr.NewTag("unauthorized")
	ErrTagForbidden    = goerr.NewTag("forbidden")
	ErrTagNotFound     = goerr.NewTag("not_found")
	ErrTagConflict     = goerr.NewTag("conflict")
	ErrTagUnavailable  = goerr.NewTag("unavailable")
)

// Sentinel errors for domain operations
var (
	ErrUserNotFound       = goerr.New("user not found", goerr.T(ErrTagNotFound))
	ErrUserAlreadyExists  = goerr.New("user already exists", goerr.T(ErrTagConflict))
	ErrInvalidCredentials = goerr.New("invalid email or password", goerr.T(ErrTagUnauthorized))

	ErrSessionNotFound = goerr.New("session not found", goerr.T(ErrTagUnauthorized))
	ErrSessionExpired  = goerr.New("session expired", goerr.T(ErrTagUnauthorized))
	ErrInvalidSession  = goerr.New("invalid session", goerr.T(ErrTagUnauthorized))

	ErrChallengeNotFound = goerr.New("verification challenge not found", goerr.T(ErrTagUnauthorized))
	ErrChallengeExpired  = goerr.New("verification code expired", goerr.T(ErrTagUnauthorized))
	ErrInvalidCode       = goerr.New("invalid verification code", goerr.T(ErrTagUnauthorized))
	ErrTooManyAttempts   = goerr.New("too many verification attempts", goerr.T(ErrTagUnauthorized))
	ErrTooManyResends    = goerr.New("too many verification code resends", goerr.T(ErrTagUnauthorized))
	ErrInvalidChallenge  = goerr.New("invalid or expired challenge token", goerr.T(ErrTagUnauthorized))

	ErrDeviceNotFound = goerr.New("device not found", goerr.T(ErrTagNotFound))
	ErrInvalidWeight  = goerr.New("weight must be a non-negative number", goerr.T(ErrTagValidation))

	ErrOCRUnavailable = goerr.New("serial number recognition is not configured", goerr.T(ErrTagUnavailable))
)
