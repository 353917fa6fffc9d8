package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Matchmaking errors
	ErrRoomNotFound      = errors.New("game does not exist")
	ErrGameNotActive     = errors.New("game hasn't started yet")
	ErrAlreadyInMatch    = errors.New("connection is already in a match")
	ErrUnknownConnection = errors.New("connection is not registered")
	ErrShuttingDown      = errors.New("matchmaking is shutting down")

	// Solo errors
	ErrNoSoloRound = errors.New("no solo round in progress")

	// Record errors
	ErrMatchNotFound      = errors.New("match record not found")
	ErrPersistenceFailure = errors.New("failed to persist match result")

	// Dictionary errors
	ErrDictionaryNotLoaded = errors.New("dictionary not loaded")
)
