package auth

import "errors"

var (
	ErrNotFound     = errors.New("auth: not found")
	ErrConflict     = errors.New("auth: already exists")
	ErrInvalidInput = errors.New("auth: invalid input")

	// ErrUnauthorized covers every identity/credential failure. Callers must
	// surface it as one generic message so identities cannot be enumerated.
	ErrUnauthorized = errors.New("auth: unauthorized")

	// ErrInvalidToken indicates the token failed validation.
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrPermissionDenied is the base of every authorization rejection.
	ErrPermissionDenied = errors.New("auth: permission denied")
)

// PermissionError reports the first required permission the caller lacks.
// Naming the codename is acceptable: the caller is already authenticated.
type PermissionError struct {
	Missing string
}

func (e *PermissionError) Error() string {
	return "user does not have permission --> " + e.Missing
}

func (e *PermissionError) Unwrap() error { return ErrPermissionDenied }
