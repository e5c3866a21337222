package game

import (
	"errors"
	"fmt"
)

// Kind classifies command failures. Every error returned by a room command
// wraps exactly one sentinel below, so brokers can match with errors.Is and
// decide what to send back to the actor. All kinds are recoverable: the
// room keeps running and only the triggering command fails.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuthorization
	KindPhase
	KindResourceExhausted
	KindNotFound
)

type Error struct {
	kind Kind
	msg  string
}

func (e *Error) Error() string { return e.msg }

var (
	ErrNotLeader         = &Error{KindAuthorization, "only the room leader can do that"}
	ErrNotJudge          = &Error{KindAuthorization, "only the judge can do that"}
	ErrWrongPhase        = &Error{KindPhase, "command not valid in the current phase"}
	ErrRoomFull          = &Error{KindValidation, "room is full"}
	ErrAlreadyJoined     = &Error{KindValidation, "player id already in the room"}
	ErrInvalidUsername   = &Error{KindValidation, "username must be 1 to 20 characters"}
	ErrNoDecksSelected   = &Error{KindValidation, "no decks selected"}
	ErrNoOnlinePlayers   = &Error{KindValidation, "no online players in the room"}
	ErrAlreadySubmitted  = &Error{KindValidation, "cards already submitted this round"}
	ErrSelectionSize     = &Error{KindValidation, "selection does not match the question blanks"}
	ErrCardNotInHand     = &Error{KindValidation, "selected card is not in your hand"}
	ErrJudgeCannotSubmit = &Error{KindValidation, "the judge does not submit answers"}
	ErrPlayerOffline     = &Error{KindValidation, "player is offline"}
	ErrNotASubmitter     = &Error{KindValidation, "winner must have submitted this round"}
	ErrConfigOutOfRange  = &Error{KindValidation, "configuration value out of range"}
	ErrPlayerNotFound    = &Error{KindNotFound, "player not found"}
	ErrNoRound           = &Error{KindNotFound, "no round in progress"}
	ErrNoCardsAvailable  = &Error{KindResourceExhausted, "no question cards available"}
	ErrInsufficientCards = &Error{KindResourceExhausted, "not enough answer cards available"}
)

// KindOf extracts the classification from a (possibly wrapped) room error.
// Unknown errors report as zero.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return 0
}

func wrapf(sentinel *Error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
