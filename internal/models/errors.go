package models

import "errors"

// Domain errors returned by the pairing and room operations. Callers
// match them with errors.Is to pick a response code.
var (
	// ErrNotFound indicates the requested user or room does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotAuthorized indicates the caller is not a participant of the room.
	ErrNotAuthorized = errors.New("user is not a participant of this room")

	// ErrNotPaired indicates the caller has no partner.
	ErrNotPaired = errors.New("user is not paired")

	// ErrAlreadyPaired indicates one of the users already has a partner.
	ErrAlreadyPaired = errors.New("user is already paired")

	// ErrSelfPair indicates an attempt to pair a user with themself.
	ErrSelfPair = errors.New("cannot pair with yourself")

	// ErrInvalidTransition indicates the room status or timer state does not
	// allow the requested operation.
	ErrInvalidTransition = errors.New("invalid room transition")

	// ErrInvalidParticipant indicates the target user is not one of the
	// room's two participants.
	ErrInvalidParticipant = errors.New("target user is not a participant of this room")

	// ErrInvalidEmotion indicates the emotion is not part of the recognized set.
	ErrInvalidEmotion = errors.New("emotion is not recognized")

	// ErrValidationFailed indicates invalid input such as a blank title.
	ErrValidationFailed = errors.New("validation failed")
)
