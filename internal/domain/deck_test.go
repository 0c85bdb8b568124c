package domain

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
)

func testCardSet(prompts, responses int) CardSet {
	set := CardSet{}
	for i := 0; i < prompts; i++ {
		set.Prompts = append(set.Prompts, PromptCard{Text: fmt.Sprintf("prompt %d: ____", i), Pick: 1})
	}
	for i := 0; i < responses; i++ {
		set.Responses = append(set.Responses, ResponseCard{Text: fmt.Sprintf("card %02d", i)})
	}
	return set
}

func TestDeckDrawsWithoutReplacement(t *testing.T) {
	deck := NewDeck(testCardSet(5, 10), false, rand.New(rand.NewSource(1)))

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		card, err := deck.DrawPrompt()
		if err != nil {
			t.Fatalf("draw prompt %d: %v", i, err)
		}
		if seen[card.Text] {
			t.Fatalf("prompt %q drawn twice", card.Text)
		}
		seen[card.Text] = true
	}
	if deck.PromptsRemaining() != 0 {
		t.Fatalf("expected empty prompt pool, got %d", deck.PromptsRemaining())
	}

	cards, err := deck.DrawResponses(10)
	if err != nil {
		t.Fatalf("draw responses: %v", err)
	}
	unique := make(map[string]bool)
	for _, c := range cards {
		if unique[c.Text] {
			t.Fatalf("response %q drawn twice", c.Text)
		}
		unique[c.Text] = true
	}
}

func TestDeckExhaustedWithoutReshuffle(t *testing.T) {
	deck := NewDeck(testCardSet(1, 3), false, rand.New(rand.NewSource(1)))

	if _, err := deck.DrawPrompt(); err != nil {
		t.Fatalf("first prompt: %v", err)
	}
	if _, err := deck.DrawPrompt(); !errors.Is(err, ErrDeckExhausted) {
		t.Fatalf("expected ErrDeckExhausted, got %v", err)
	}

	// A short response draw fails without drawing a partial hand.
	if _, err := deck.DrawResponses(5); !errors.Is(err, ErrDeckExhausted) {
		t.Fatalf("expected ErrDeckExhausted, got %v", err)
	}
	if deck.ResponsesRemaining() != 3 {
		t.Fatalf("failed draw consumed cards: %d remaining", deck.ResponsesRemaining())
	}
}

func TestDeckReshuffleRebuildsPool(t *testing.T) {
	deck := NewDeck(testCardSet(1, 2), true, rand.New(rand.NewSource(1)))

	for i := 0; i < 3; i++ {
		if _, err := deck.DrawPrompt(); err != nil {
			t.Fatalf("prompt draw %d with reshuffle: %v", i, err)
		}
	}

	cards, err := deck.DrawResponses(5)
	if err != nil {
		t.Fatalf("response draw with reshuffle: %v", err)
	}
	if len(cards) != 5 {
		t.Fatalf("expected 5 cards, got %d", len(cards))
	}
}

func TestDeckReshuffleStillFailsBeyondSourceSize(t *testing.T) {
	deck := NewDeck(testCardSet(1, 2), true, rand.New(rand.NewSource(1)))

	if _, err := deck.DrawResponses(3); !errors.Is(err, ErrDeckExhausted) {
		t.Fatalf("expected ErrDeckExhausted for draw larger than source, got %v", err)
	}
}

func TestDeckNormalizesPick(t *testing.T) {
	set := CardSet{
		Prompts:   []PromptCard{{Text: "no pick given: ____"}},
		Responses: []ResponseCard{{Text: "a card"}},
	}
	deck := NewDeck(set, false, rand.New(rand.NewSource(1)))

	card, err := deck.DrawPrompt()
	if err != nil {
		t.Fatalf("draw prompt: %v", err)
	}
	if card.Pick != 1 {
		t.Fatalf("expected pick defaulted to 1, got %d", card.Pick)
	}
}

func TestDeckSameSeedSameOrder(t *testing.T) {
	a := NewDeck(testCardSet(8, 8), false, rand.New(rand.NewSource(42)))
	b := NewDeck(testCardSet(8, 8), false, rand.New(rand.NewSource(42)))

	for i := 0; i < 8; i++ {
		ca, _ := a.DrawPrompt()
		cb, _ := b.DrawPrompt()
		if ca.Text != cb.Text {
			t.Fatalf("same seed diverged at draw %d: %q vs %q", i, ca.Text, cb.Text)
		}
	}
}
