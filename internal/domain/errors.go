package domain

import "errors"

// Domain errors
var (
	// ErrEngineUnavailable marks operations attempted before the rendering
	// engine or document is initialized. Callers treat it as a silent
	// no-op; it is never surfaced to the user.
	ErrEngineUnavailable = errors.New("rendering engine unavailable")
	ErrSessionNotFound   = errors.New("reader session not found")
	ErrBookmarkExists    = errors.New("bookmark already exists at location")
	ErrBookmarkNotFound  = errors.New("bookmark not found")
	ErrNoteNotFound      = errors.New("note not found")
	ErrProgressNotFound  = errors.New("reading progress not found")
)
