package domain

import "errors"

// Domain errors. Validation failures are returned to the originating caller
// and never mutate shared state.
var (
	ErrNameTaken        = errors.New("display name already taken")
	ErrNotYourTurn      = errors.New("the judge cannot submit cards")
	ErrAlreadySubmitted = errors.New("already submitted this round")
	ErrWrongCardCount   = errors.New("submission does not match the prompt's pick count")
	ErrCardNotInHand    = errors.New("card is not in your hand")
	ErrNotJudge         = errors.New("only the judge can choose a winner")
	ErrNoSuchSubmission = errors.New("no submission matches those cards")
	ErrDeckExhausted    = errors.New("deck exhausted")

	ErrUnknownPlayer     = errors.New("player not found")
	ErrGameFull          = errors.New("game is full")
	ErrNotEnoughPlayers  = errors.New("not enough players")
	ErrNoActiveRound     = errors.New("no round is accepting that action")
	ErrRoundInProgress   = errors.New("a round is already in progress")
	ErrInvalidTransition = errors.New("invalid round state transition")

	ErrRoomNotFound = errors.New("room not found")

	ErrEmptyCardSet = errors.New("card set has no prompts or no responses")
	ErrInvalidCard  = errors.New("card set contains an invalid card")
)

// Error codes surfaced to clients.
const (
	CodeNameTaken        = "NAME_TAKEN"
	CodeNotYourTurn      = "NOT_YOUR_TURN"
	CodeAlreadySubmitted = "ALREADY_SUBMITTED"
	CodeWrongCardCount   = "WRONG_CARD_COUNT"
	CodeCardNotInHand    = "CARD_NOT_IN_HAND"
	CodeNotJudge         = "NOT_JUDGE"
	CodeNoSuchSubmission = "NO_SUCH_SUBMISSION"
	CodeDeckExhausted    = "DECK_EXHAUSTED"
	CodeUnknownPlayer    = "UNKNOWN_PLAYER"
	CodeGameFull         = "GAME_FULL"
	CodeNoActiveRound    = "NO_ACTIVE_ROUND"
	CodeRoomNotFound     = "ROOM_NOT_FOUND"
	CodeInvalidMessage   = "INVALID_MESSAGE"
	CodeInternalError    = "INTERNAL_ERROR"
)

// ErrorCode maps a domain error to the code sent to the originating caller.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNameTaken):
		return CodeNameTaken
	case errors.Is(err, ErrNotYourTurn):
		return CodeNotYourTurn
	case errors.Is(err, ErrAlreadySubmitted):
		return CodeAlreadySubmitted
	case errors.Is(err, ErrWrongCardCount):
		return CodeWrongCardCount
	case errors.Is(err, ErrCardNotInHand):
		return CodeCardNotInHand
	case errors.Is(err, ErrNotJudge):
		return CodeNotJudge
	case errors.Is(err, ErrNoSuchSubmission):
		return CodeNoSuchSubmission
	case errors.Is(err, ErrDeckExhausted):
		return CodeDeckExhausted
	case errors.Is(err, ErrUnknownPlayer):
		return CodeUnknownPlayer
	case errors.Is(err, ErrGameFull):
		return CodeGameFull
	case errors.Is(err, ErrNoActiveRound), errors.Is(err, ErrRoundInProgress), errors.Is(err, ErrNotEnoughPlayers):
		return CodeNoActiveRound
	case errors.Is(err, ErrRoomNotFound):
		return CodeRoomNotFound
	default:
		return CodeInternalError
	}
}
