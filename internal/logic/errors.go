package logic

import "errors"

// The core never panics and has no fatal errors: every failure state is one
// of these three kinds, so callers can tell "unknown name" apart from "the
// dataset never loaded" at the API boundary.
var (
	// ErrDatasetUnavailable means the match dataset failed to load; every
	// query is unknown until a later load succeeds.
	ErrDatasetUnavailable = errors.New("match dataset unavailable")

	// ErrNotFound means the name matched no known player or hero.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientData means the entity exists but has fewer games than
	// the minimum sample for the requested ranking.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrRosterSize means draft generation was called with anything other
	// than ten distinct players.
	ErrRosterSize = errors.New("draft requires exactly 10 distinct players")
)
