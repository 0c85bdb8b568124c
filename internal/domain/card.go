package domain

import "strings"

// PromptCard is the shared fill-in-the-blank template for a round. Pick is
// how many response cards a submission must contain to fill it.
type PromptCard struct {
	Text string `json:"text"`
	Pick int    `json:"pick"`
}

// ResponseCard is a card held in a player's hand. A blank card carries no
// preset text; the player authors its text when submitting it.
type ResponseCard struct {
	Text  string `json:"text"`
	Blank bool   `json:"blank,omitempty"`
}

// CardSet is the source pool a Deck is built from.
type CardSet struct {
	Prompts   []PromptCard   `json:"prompts"`
	Responses []ResponseCard `json:"responses"`
}

// Normalize trims card text and defaults a missing pick to 1.
func (s *CardSet) Normalize() {
	for i := range s.Prompts {
		s.Prompts[i].Text = strings.TrimSpace(s.Prompts[i].Text)
		if s.Prompts[i].Pick < 1 {
			s.Prompts[i].Pick = 1
		}
	}
	for i := range s.Responses {
		s.Responses[i].Text = strings.TrimSpace(s.Responses[i].Text)
	}
}

// Validate checks that the set can actually run a game.
func (s *CardSet) Validate() error {
	if len(s.Prompts) == 0 {
		return ErrEmptyCardSet
	}
	if len(s.Responses) == 0 {
		return ErrEmptyCardSet
	}
	for _, p := range s.Prompts {
		if p.Text == "" {
			return ErrInvalidCard
		}
		if p.Pick < 1 || p.Pick > 2 {
			return ErrInvalidCard
		}
	}
	for _, r := range s.Responses {
		if r.Text == "" && !r.Blank {
			return ErrInvalidCard
		}
	}
	return nil
}
