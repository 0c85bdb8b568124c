package domain

// RoundState represents where a round is in its lifecycle.
type RoundState string

const (
	StateForming             RoundState = "FORMING"              // Judge selected, prompt drawn
	StateAwaitingSubmissions RoundState = "AWAITING_SUBMISSIONS" // Non-judge players submitting
	StateRevealPending       RoundState = "REVEAL_PENDING"       // All in; reveal handed to clients
	StateAwaitingJudgment    RoundState = "AWAITING_JUDGMENT"    // Judge picking a winner
	StateScored              RoundState = "SCORED"               // Winner applied, round over
	StateVoided              RoundState = "VOIDED"               // Round abandoned, no score change
)

// String returns the string representation of the state.
func (s RoundState) String() string {
	return string(s)
}

// Active reports whether the round still accepts player actions.
func (s RoundState) Active() bool {
	switch s {
	case StateForming, StateAwaitingSubmissions, StateRevealPending, StateAwaitingJudgment:
		return true
	}
	return false
}

// CanTransitionTo checks if a transition from the current state to the target
// state is valid.
func (s RoundState) CanTransitionTo(target RoundState) bool {
	validTransitions := map[RoundState][]RoundState{
		StateForming:             {StateAwaitingSubmissions, StateVoided},
		StateAwaitingSubmissions: {StateRevealPending, StateVoided},
		StateRevealPending:       {StateAwaitingJudgment, StateVoided},
		StateAwaitingJudgment:    {StateScored, StateVoided},
	}

	for _, next := range validTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}
