package domain

import "errors"

// ErrNotFound is returned by service functions when a referenced experience,
// addon, selection or stored value does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails validation at a boundary
// (malformed query string, malformed catalog file, bad session id).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrNoExperienceSelected is returned by the cart service when a selection is
// requested while the draft has no experience. The session itself treats this
// case as a no-op.
var ErrNoExperienceSelected = errors.New("no experience selected")
