package domain

import (
	"errors"
	"testing"
	"time"
)

func TestTakeCardsExactMatch(t *testing.T) {
	p := NewPlayer("alice", time.Now())
	p.Hand = []ResponseCard{{Text: "one"}, {Text: "two"}, {Text: "three"}}

	taken, err := p.TakeCards([]string{"two"})
	if err != nil {
		t.Fatalf("take cards: %v", err)
	}
	if len(taken) != 1 || taken[0].Text != "two" {
		t.Fatalf("unexpected taken cards: %+v", taken)
	}
	if len(p.Hand) != 2 {
		t.Fatalf("expected 2 cards left, got %d", len(p.Hand))
	}
	for _, c := range p.Hand {
		if c.Text == "two" {
			t.Fatal("taken card still in hand")
		}
	}
}

func TestTakeCardsDuplicateTexts(t *testing.T) {
	p := NewPlayer("alice", time.Now())
	p.Hand = []ResponseCard{{Text: "dup"}, {Text: "dup"}, {Text: "other"}}

	// A pick-2 prompt answered with two copies of the same card text must
	// consume both copies.
	taken, err := p.TakeCards([]string{"dup", "dup"})
	if err != nil {
		t.Fatalf("take duplicate texts: %v", err)
	}
	if len(taken) != 2 {
		t.Fatalf("expected 2 taken, got %d", len(taken))
	}
	if len(p.Hand) != 1 || p.Hand[0].Text != "other" {
		t.Fatalf("unexpected remaining hand: %+v", p.Hand)
	}
}

func TestTakeCardsConsumesBlankForCustomText(t *testing.T) {
	p := NewPlayer("alice", time.Now())
	p.Hand = []ResponseCard{{Text: "plain"}, {Blank: true}}

	taken, err := p.TakeCards([]string{"something I made up"})
	if err != nil {
		t.Fatalf("take custom text: %v", err)
	}
	if taken[0].Text != "something I made up" {
		t.Fatalf("custom text lost: %+v", taken[0])
	}
	if len(p.Hand) != 1 || p.Hand[0].Text != "plain" {
		t.Fatalf("blank not consumed: %+v", p.Hand)
	}
}

func TestTakeCardsMissingLeavesHandUntouched(t *testing.T) {
	p := NewPlayer("alice", time.Now())
	p.Hand = []ResponseCard{{Text: "one"}, {Text: "two"}}

	_, err := p.TakeCards([]string{"one", "nope"})
	if !errors.Is(err, ErrCardNotInHand) {
		t.Fatalf("expected ErrCardNotInHand, got %v", err)
	}
	if len(p.Hand) != 2 {
		t.Fatalf("failed take mutated hand: %+v", p.Hand)
	}
}
