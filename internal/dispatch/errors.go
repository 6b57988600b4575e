package dispatch

import "errors"

// Error taxonomy for a single user turn. Every one of these is recovered
// locally with a user-facing reply; none escalates past the dispatcher.
var (
	// ErrParse marks malformed structured-action arguments.
	ErrParse = errors.New("dispatch: could not interpret action arguments")
	// ErrValidation marks a past date, out-of-horizon date, or out-of-hours
	// time. No side effect has been performed.
	ErrValidation = errors.New("dispatch: action failed validation")
	// ErrCollaborator marks a webhook failure (unreachable, timeout,
	// non-2xx). Never retried automatically.
	ErrCollaborator = errors.New("dispatch: downstream collaborator failed")
)
