package game

import "net/http"

// Kind classifies an Error for the transport layer.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindIdentity
	KindForbidden
	KindNotFound
	KindConflict
	KindInternal
)

// Status maps the kind onto an HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindIdentity:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a stable client-facing code. Two errors match under errors.Is when
// their codes are equal, so the sentinels below work for wrapped persistence failures too.
type Error struct {
	Kind Kind
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func newError(kind Kind, code string) *Error {
	return &Error{Kind: kind, Code: code}
}

func internalError(code string, err error) error {
	return &Error{Kind: KindInternal, Code: code, Err: err}
}

var (
	ErrNameRequired           = newError(KindValidation, "NAME_REQUIRED")
	ErrNameTooLong            = newError(KindValidation, "NAME_TOO_LONG")
	ErrCodeInvalid            = newError(KindValidation, "CODE_INVALID")
	ErrTargetRequired         = newError(KindValidation, "TARGET_REQUIRED")
	ErrGuessRequired          = newError(KindValidation, "GUESS_REQUIRED")
	ErrUndercoverCountInvalid = newError(KindValidation, "UNDERCOVER_COUNT_INVALID")
	ErrMrWhiteCountInvalid    = newError(KindValidation, "MRWHITE_COUNT_INVALID")
	ErrRoleCountsTooHigh      = newError(KindValidation, "ROLE_COUNTS_TOO_HIGH")
	ErrNoPlayers              = newError(KindValidation, "NO_PLAYERS")
	ErrMinPlayers             = newError(KindValidation, "MIN_PLAYERS_3")
	ErrCannotVoteSelf         = newError(KindValidation, "CANNOT_VOTE_SELF")

	ErrGuestRequired = newError(KindIdentity, "GUEST_REQUIRED")

	ErrHostOnly              = newError(KindForbidden, "HOST_ONLY")
	ErrNotInRoom             = newError(KindForbidden, "NOT_IN_ROOM")
	ErrEliminated            = newError(KindForbidden, "ELIMINATED")
	ErrEliminatedMrWhiteOnly = newError(KindForbidden, "ELIMINATED_MRWHITE_ONLY")
	ErrNotMrWhite            = newError(KindForbidden, "NOT_MRWHITE")

	ErrRoomNotFound   = newError(KindNotFound, "ROOM_NOT_FOUND")
	ErrRoundNotFound  = newError(KindNotFound, "ROUND_NOT_FOUND")
	ErrTargetNotFound = newError(KindNotFound, "TARGET_NOT_FOUND")

	ErrRoomNotJoinable      = newError(KindConflict, "ROOM_NOT_JOINABLE")
	ErrRoomNotStartable     = newError(KindConflict, "ROOM_NOT_STARTABLE")
	ErrRoomNotConfigurable  = newError(KindConflict, "ROOM_NOT_CONFIGURABLE")
	ErrRoomNotInGame        = newError(KindConflict, "ROOM_NOT_IN_GAME")
	ErrAlreadyAssigned      = newError(KindConflict, "ALREADY_ASSIGNED")
	ErrNotAssigned          = newError(KindConflict, "NOT_ASSIGNED")
	ErrNotInDescribe        = newError(KindConflict, "NOT_IN_DESCRIBE")
	ErrNotInResult          = newError(KindConflict, "NOT_IN_RESULT")
	ErrNotInReveal          = newError(KindConflict, "NOT_IN_REVEAL")
	ErrNotInMrWhiteGuess    = newError(KindConflict, "NOT_IN_MRWHITE_GUESS")
	ErrNoEliminated         = newError(KindConflict, "NO_ELIMINATED")
	ErrTargetEliminated     = newError(KindConflict, "TARGET_ELIMINATED")
	ErrCivilianWordNotFound = newError(KindConflict, "CIVILIAN_WORD_NOT_FOUND")

	ErrRoomCodeExhausted = newError(KindInternal, "ROOM_CODE_EXHAUSTED")
)
