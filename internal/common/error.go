// Package common contains shared constants and sentinel errors used across
// VotoFácil components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository and query errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Eligibility-gate rejection. A voter must always be able to tell this
	// apart from a generic failure.
	ErrAlreadyVoted = errors.New("already voted")

	// Admin validation errors.
	ErrAlreadyRegistered = errors.New("voter already registered")
	ErrDuplicateNumber   = errors.New("ballot number already taken")
	ErrInvalidBallot     = errors.New("ballot must name a candidate or be blank")

	// Infrastructure errors. Local-store failures degrade to a cache miss
	// wherever a fallback path exists; remote failures trigger the offline
	// path where one exists.
	ErrStorageUnavailable = errors.New("local store unavailable")
	ErrRemoteUnavailable  = errors.New("backend unavailable")

	// ErrPartialWrite reports that the vote document was recorded but the
	// voter flag update failed after retries. The caller may retry the flag
	// update; the vote itself must not be resubmitted.
	ErrPartialWrite = errors.New("vote recorded, voter flag update failed")

	// Auth errors.
	ErrUnauthorized = errors.New("unauthorized")
)
