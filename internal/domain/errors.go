package domain

import "errors"

var (
	// ErrValidation marks recoverable input errors (bad date, bad location).
	// The flow re-prompts and keeps the session as-is.
	ErrValidation = errors.New("invalid input")

	// ErrAssetMissing is returned when the overlay file for a mode is absent.
	ErrAssetMissing = errors.New("overlay asset missing")

	// ErrDecode is returned for image bytes that cannot be decoded.
	ErrDecode = errors.New("image decode failed")

	// ErrGenerationFailed unifies every failure of the background generation
	// pipeline (prompt rewrite, generation, fetch, decode).
	ErrGenerationFailed = errors.New("background generation failed")

	// ErrUnknownChoice is returned for selection ids outside the mode menu.
	ErrUnknownChoice = errors.New("unknown choice")

	ErrSessionNotFound = errors.New("session not found")
)
