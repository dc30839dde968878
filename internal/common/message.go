package common

import (
	"errors"
	"strings"
)

// UserMessage returns the notification text shown to the user for err.
// Known categories get their own wording; anything else becomes a generic
// failure notice so that internal details never reach the screen.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return "Wrong email or password."
	case errors.Is(err, ErrEmailInUse):
		return "This email is already registered."
	case errors.Is(err, ErrNotAuthenticated):
		return "Login first!"
	case errors.Is(err, ErrInvalidInput):
		return "Please check the form: " + validationDetail(err)
	case errors.Is(err, ErrStoreUnavailable):
		return "The service is unavailable right now. Please try again."
	case errors.Is(err, ErrorNotFound):
		return "The record no longer exists."
	default:
		return "Something went wrong."
	}
}

// validationDetail strips the sentinel prefix from a wrapped validation error,
// e.g. "invalid input: name is required" -> "name is required".
func validationDetail(err error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, ErrInvalidInput.Error()+": "); ok {
		return rest
	}
	return msg
}
