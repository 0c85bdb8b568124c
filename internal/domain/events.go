package domain

import "time"

// EventType represents the type of game event.
type EventType string

const (
	EventJoined             EventType = "joined"
	EventRoster             EventType = "roster"
	EventRoundStarted       EventType = "round_started"
	EventHandUpdated        EventType = "hand_updated"
	EventSubmissionAccepted EventType = "submission_accepted"
	EventSubmissionCount    EventType = "submission_count"
	EventAllSubmitted       EventType = "all_submitted"
	EventRoundWon           EventType = "round_won"
	EventRoundVoided        EventType = "round_voided"
	EventNextRoundIn        EventType = "next_round_in"
	EventError              EventType = "error"
	EventPong               EventType = "pong"
)

// GameEvent is the envelope fanned out to clients. An empty Player means
// broadcast; otherwise the event goes to that player only.
type GameEvent struct {
	Type      EventType   `json:"type"`
	Room      string      `json:"room"`
	Player    string      `json:"player,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a broadcast event.
func NewEvent(eventType EventType, room string, payload interface{}) *GameEvent {
	return &GameEvent{
		Type:      eventType,
		Room:      room,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// NewPlayerEvent creates an event addressed to a single player.
func NewPlayerEvent(eventType EventType, room, player string, payload interface{}) *GameEvent {
	return &GameEvent{
		Type:      eventType,
		Room:      room,
		Player:    player,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// Payload types for the events above.

// JoinedPayload is sent to the joining player only.
type JoinedPayload struct {
	Name        string    `json:"name"`
	Reconnected bool      `json:"reconnected,omitempty"`
	Snapshot    *Snapshot `json:"snapshot"`
}

// RosterPayload is broadcast whenever the player list, scores or roles
// change.
type RosterPayload struct {
	Players []PlayerInfo `json:"players"`
}

// RoundStartedPayload is broadcast when a round enters AwaitingSubmissions.
type RoundStartedPayload struct {
	Round   int          `json:"round"`
	Prompt  PromptCard   `json:"prompt"`
	Judge   string       `json:"judge"`
	Players []PlayerInfo `json:"players"`
}

// HandUpdatedPayload is sent to the affected player only.
type HandUpdatedPayload struct {
	Hand []ResponseCard `json:"hand"`
}

// SubmissionCountPayload is broadcast as submissions come in, owners
// withheld.
type SubmissionCountPayload struct {
	Count    int `json:"count"`
	Required int `json:"required"`
}

// RevealedSubmission is a submission as shown to everyone: cards only.
type RevealedSubmission struct {
	Cards []string `json:"cards"`
}

// AllSubmittedPayload is broadcast when the round reaches judgment. Order is
// shuffled and owners are withheld.
type AllSubmittedPayload struct {
	Prompt      PromptCard           `json:"prompt"`
	Submissions []RevealedSubmission `json:"submissions"`
}

// RevealSubmissions strips owners for the all-submitted broadcast.
func RevealSubmissions(subs []*Submission) []RevealedSubmission {
	revealed := make([]RevealedSubmission, len(subs))
	for i, s := range subs {
		revealed[i] = RevealedSubmission{Cards: s.Cards}
	}
	return revealed
}

// RoundWonPayload is broadcast once the judge picks; the owner is revealed
// here and nowhere earlier.
type RoundWonPayload struct {
	Cards  []string `json:"cards"`
	Player string   `json:"player"`
	Score  int      `json:"score"`
}

// RoundVoidedPayload is broadcast when a round is abandoned without a score
// change.
type RoundVoidedPayload struct {
	Reason string `json:"reason"`
}

// NextRoundInPayload carries the inter-round delay so clients can render a
// countdown. The delay itself is owned by the session scheduler.
type NextRoundInPayload struct {
	Seconds int `json:"seconds"`
}

// ErrorPayload is sent to the originating caller only.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
