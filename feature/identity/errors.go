package identity

import "errors"

var (
	// ErrInvalidCredentials is returned for an unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailInUse is returned when signing up with a registered email.
	ErrEmailInUse = errors.New("email is already in use")
	// ErrWeakPassword is returned when a new password is too short or long.
	ErrWeakPassword = errors.New("password is too weak")
	// ErrInvalidEmail is returned when a sign-up email is malformed.
	ErrInvalidEmail = errors.New("email address is invalid")
	// ErrNetwork wraps account store failures.
	ErrNetwork = errors.New("network error, please try again")
)
