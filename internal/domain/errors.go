package domain

import "errors"

var (
	// ErrRoomNotFound is returned when a room code does not resolve to a live room.
	ErrRoomNotFound = errors.New("room not found")
	// ErrNotAuthorized is returned when a connection acts outside its role.
	ErrNotAuthorized = errors.New("not authorized or room not found")
	// ErrQuestionMismatch indicates there is no active question or the ids differ.
	ErrQuestionMismatch = errors.New("question mismatch")
	// ErrExpired indicates the answer arrived after the question deadline.
	ErrExpired = errors.New("time is up")
	// ErrDuplicateAnswer is returned when a participant answers the same question twice.
	ErrDuplicateAnswer = errors.New("already answered this question")
	// ErrQuestionNotFound indicates a question ID is invalid.
	ErrQuestionNotFound = errors.New("invalid question id")
	// ErrNoCorrectAnswer indicates a question has no option flagged correct.
	ErrNoCorrectAnswer = errors.New("no correct answer found")
	// ErrPersistence indicates one or more submissions could not be stored.
	ErrPersistence = errors.New("failed to persist submissions")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrInvalidMessage is returned for malformed or incomplete client messages.
	ErrInvalidMessage = errors.New("invalid message")
	// ErrAlreadyInRoom is returned when a bound connection tries to create or join a room it cannot.
	ErrAlreadyInRoom = errors.New("connection already bound to a room")
	// ErrCodeSpaceExhausted is returned when no free room code could be drawn.
	ErrCodeSpaceExhausted = errors.New("no free room code available")
)
