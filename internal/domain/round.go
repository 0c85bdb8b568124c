package domain

import (
	"math/rand"
	"time"
)

// Submission is one player's response cards for the current round. It is
// immutable once accepted; the owner stays server-side until the winner is
// announced.
type Submission struct {
	Owner       string    `json:"owner"`
	Cards       []string  `json:"cards"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Round is a single prompt/submit/judge cycle.
type Round struct {
	Number       int                    `json:"number"`
	State        RoundState             `json:"state"`
	Prompt       PromptCard             `json:"prompt"`
	Judge        string                 `json:"judge"`
	Submissions  map[string]*Submission `json:"submissions"`
	Winner       string                 `json:"winner,omitempty"`
	WinningCards []string               `json:"winningCards,omitempty"`
	StartedAt    time.Time              `json:"startedAt"`
	EndedAt      time.Time              `json:"endedAt,omitempty"`
}

// NewRound creates a round in the Forming state.
func NewRound(number int, prompt PromptCard, judge string, now time.Time) *Round {
	return &Round{
		Number:      number,
		State:       StateForming,
		Prompt:      prompt,
		Judge:       judge,
		Submissions: make(map[string]*Submission),
		StartedAt:   now,
	}
}

// Transition moves the round to the target state if the transition is valid.
func (r *Round) Transition(target RoundState) error {
	if !r.State.CanTransitionTo(target) {
		return ErrInvalidTransition
	}
	r.State = target
	return nil
}

// Active reports whether the round still accepts player actions.
func (r *Round) Active() bool {
	return r.State.Active()
}

// HasSubmission reports whether the player already submitted this round.
func (r *Round) HasSubmission(name string) bool {
	_, ok := r.Submissions[name]
	return ok
}

// AddSubmission stores an already-validated submission.
func (r *Round) AddSubmission(owner string, cards []string, now time.Time) {
	r.Submissions[owner] = &Submission{
		Owner:       owner,
		Cards:       append([]string(nil), cards...),
		SubmittedAt: now,
	}
}

// DropSubmission discards a player's submission, if any. Used when a player
// is removed entirely before the round resolves.
func (r *Round) DropSubmission(owner string) {
	delete(r.Submissions, owner)
}

// ShuffledSubmissions returns the submissions in a shuffled order so the
// reveal does not leak who submitted first.
func (r *Round) ShuffledSubmissions(rng *rand.Rand) []*Submission {
	subs := make([]*Submission, 0, len(r.Submissions))
	for _, s := range r.Submissions {
		subs = append(subs, s)
	}
	// Map iteration order is already unspecified, but not uniformly random.
	rng.Shuffle(len(subs), func(i, j int) {
		subs[i], subs[j] = subs[j], subs[i]
	})
	return subs
}

// FindSubmission returns the stored submission whose cards exactly match the
// given sequence.
func (r *Round) FindSubmission(cards []string) (*Submission, bool) {
	for _, s := range r.Submissions {
		if equalCards(s.Cards, cards) {
			return s, true
		}
	}
	return nil, false
}

func equalCards(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
