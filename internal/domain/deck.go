package domain

import (
	"math/rand"
	"time"
)

// Deck holds the remaining prompt and response pools. Both pools are shuffled
// once at construction and drawn from the front, without replacement. When a
// pool runs out the deck either rebuilds it from the source set (reshuffle
// policy) or reports ErrDeckExhausted.
type Deck struct {
	source    CardSet
	prompts   []PromptCard
	responses []ResponseCard
	reshuffle bool
	rng       *rand.Rand
}

// NewDeck builds a deck from the given set. A nil rng seeds one from the
// current time so draw order differs across sessions.
func NewDeck(set CardSet, reshuffle bool, rng *rand.Rand) *Deck {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	set.Normalize()

	d := &Deck{
		source:    set,
		reshuffle: reshuffle,
		rng:       rng,
	}
	d.reloadPrompts()
	d.reloadResponses()

	return d
}

// DrawPrompt removes and returns the next prompt card.
func (d *Deck) DrawPrompt() (PromptCard, error) {
	if len(d.prompts) == 0 {
		if !d.reshuffle || len(d.source.Prompts) == 0 {
			return PromptCard{}, ErrDeckExhausted
		}
		d.reloadPrompts()
	}

	card := d.prompts[0]
	d.prompts = d.prompts[1:]

	return card, nil
}

// DrawResponses removes and returns n response cards. On failure nothing is
// drawn, so a short pool never leaves a caller with a partial draw.
func (d *Deck) DrawResponses(n int) ([]ResponseCard, error) {
	if n <= 0 {
		return nil, nil
	}

	if len(d.responses) < n {
		if !d.reshuffle || len(d.source.Responses) == 0 {
			return nil, ErrDeckExhausted
		}
		d.reloadResponses()
		if len(d.responses) < n {
			return nil, ErrDeckExhausted
		}
	}

	cards := make([]ResponseCard, n)
	copy(cards, d.responses[:n])
	d.responses = d.responses[n:]

	return cards, nil
}

// PromptsRemaining returns the number of prompt cards left in the pool.
func (d *Deck) PromptsRemaining() int {
	return len(d.prompts)
}

// ResponsesRemaining returns the number of response cards left in the pool.
func (d *Deck) ResponsesRemaining() int {
	return len(d.responses)
}

func (d *Deck) reloadPrompts() {
	d.prompts = append([]PromptCard(nil), d.source.Prompts...)
	d.rng.Shuffle(len(d.prompts), func(i, j int) {
		d.prompts[i], d.prompts[j] = d.prompts[j], d.prompts[i]
	})
}

func (d *Deck) reloadResponses() {
	d.responses = append([]ResponseCard(nil), d.source.Responses...)
	d.rng.Shuffle(len(d.responses), func(i, j int) {
		d.responses[i], d.responses[j] = d.responses[j], d.responses[i]
	})
}
