package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"blanks/internal/domain"
)

// fakeClient records every event fanned out to it.
type fakeClient struct {
	mu     sync.Mutex
	events []*domain.GameEvent
}

func (c *fakeClient) Send(message interface{}) error {
	event, ok := message.(*domain.GameEvent)
	if !ok {
		return fmt.Errorf("unexpected message type %T", message)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *fakeClient) Close() error { return nil }

func (c *fakeClient) countOf(eventType domain.EventType) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

func (c *fakeClient) lastOf(eventType domain.EventType) *domain.GameEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.events) - 1; i >= 0; i-- {
		if c.events[i].Type == eventType {
			return c.events[i]
		}
	}
	return nil
}

// waitFor polls cond in real time; fan-out runs on the event loop goroutine,
// so even with a fake clock delivery is asynchronous.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func sessionCardSet(prompts, responses int) domain.CardSet {
	set := domain.CardSet{}
	for i := 0; i < prompts; i++ {
		set.Prompts = append(set.Prompts, domain.PromptCard{Text: fmt.Sprintf("prompt %d: ____", i), Pick: 1})
	}
	for i := 0; i < responses; i++ {
		set.Responses = append(set.Responses, domain.ResponseCard{Text: fmt.Sprintf("card %02d", i)})
	}
	return set
}

func testSessionConfig() SessionConfig {
	cfg := DefaultSessionConfig()
	cfg.Game.HandSize = 4
	cfg.HeartbeatTimeout = 15 * time.Second
	cfg.DisconnectGrace = 30 * time.Second
	cfg.SweepInterval = 5 * time.Second
	cfg.RoundRestDelay = 10 * time.Second
	return cfg
}

func newTestSession(t *testing.T, cfg SessionConfig) (*GameSession, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewGameSession("TEST01", sessionCardSet(20, 120), cfg, logger, clock)
	t.Cleanup(s.Close)
	return s, clock
}

func handTexts(s *GameSession, name string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.game.Player(name)
	if p == nil {
		return nil
	}
	return p.HandTexts()
}

func TestRoundAutoStartsAtMinimumPlayers(t *testing.T) {
	s, _ := newTestSession(t, testSessionConfig())

	a, b := &fakeClient{}, &fakeClient{}
	if err := s.Join("alice", a); err != nil {
		t.Fatalf("join alice: %v", err)
	}
	if s.State() != "IDLE" {
		t.Fatalf("round started with one player, state %s", s.State())
	}
	if err := s.Join("bob", b); err != nil {
		t.Fatalf("join bob: %v", err)
	}

	if s.State() != "AWAITING_SUBMISSIONS" {
		t.Fatalf("expected round in progress, state %s", s.State())
	}
	waitFor(t, "round_started broadcast", func() bool {
		return a.countOf(domain.EventRoundStarted) == 1 && b.countOf(domain.EventRoundStarted) == 1
	})
	waitFor(t, "hand fan-out", func() bool {
		return a.countOf(domain.EventHandUpdated) >= 1 && b.countOf(domain.EventHandUpdated) >= 1
	})

	started := a.lastOf(domain.EventRoundStarted).Payload.(*domain.RoundStartedPayload)
	if started.Judge != "alice" {
		t.Fatalf("first judge %s, want alice", started.Judge)
	}
}

func TestFullRoundAndRestartAfterDelay(t *testing.T) {
	cfg := testSessionConfig()
	cfg.Game.MinPlayers = 3
	s, clock := newTestSession(t, cfg)

	clients := map[string]*fakeClient{}
	for _, name := range []string{"alice", "bob", "carol"} {
		clients[name] = &fakeClient{}
		if err := s.Join(name, clients[name]); err != nil {
			t.Fatalf("join %s: %v", name, err)
		}
	}
	if s.State() != "AWAITING_SUBMISSIONS" {
		t.Fatalf("round did not start, state %s", s.State())
	}

	for _, name := range []string{"bob", "carol"} {
		if err := s.SubmitCards(name, handTexts(s, name)[:1]); err != nil {
			t.Fatalf("submit %s: %v", name, err)
		}
	}

	waitFor(t, "all_submitted broadcast", func() bool {
		return clients["alice"].countOf(domain.EventAllSubmitted) == 1
	})
	revealed := clients["alice"].lastOf(domain.EventAllSubmitted).Payload.(*domain.AllSubmittedPayload)
	if len(revealed.Submissions) != 2 {
		t.Fatalf("expected 2 revealed submissions, got %d", len(revealed.Submissions))
	}

	if err := s.ChooseWinner("alice", revealed.Submissions[0].Cards); err != nil {
		t.Fatalf("choose winner: %v", err)
	}
	waitFor(t, "round_won broadcast", func() bool {
		return clients["bob"].countOf(domain.EventRoundWon) == 1
	})
	won := clients["bob"].lastOf(domain.EventRoundWon).Payload.(*domain.RoundWonPayload)
	if won.Score != 1 {
		t.Fatalf("winner score %d, want 1", won.Score)
	}
	waitFor(t, "next_round_in broadcast", func() bool {
		return clients["bob"].countOf(domain.EventNextRoundIn) == 1
	})

	// Two sleepers on the fake clock: the sweep ticker and the rest timer.
	clock.BlockUntil(2)
	clock.Advance(cfg.RoundRestDelay)

	waitFor(t, "second round_started", func() bool {
		return clients["carol"].countOf(domain.EventRoundStarted) == 2
	})
	started := clients["carol"].lastOf(domain.EventRoundStarted).Payload.(*domain.RoundStartedPayload)
	if started.Round != 2 {
		t.Fatalf("expected round 2, got %d", started.Round)
	}
	if started.Judge != "bob" {
		t.Fatalf("second judge %s, want bob", started.Judge)
	}
}

func TestSweepVoidsRoundWhenHeartbeatsLapse(t *testing.T) {
	s, clock := newTestSession(t, testSessionConfig())

	a, b := &fakeClient{}, &fakeClient{}
	s.Join("alice", a)
	s.Join("bob", b)

	// bob goes silent; alice keeps heartbeating.
	clock.BlockUntil(1)
	clock.Advance(10 * time.Second)
	if err := s.Heartbeat("alice"); err != nil {
		t.Fatalf("heartbeat: %v", err)
	}
	clock.Advance(10 * time.Second)

	waitFor(t, "round_voided broadcast", func() bool {
		return a.countOf(domain.EventRoundVoided) == 1
	})
	voided := a.lastOf(domain.EventRoundVoided).Payload.(*domain.RoundVoidedPayload)
	if voided.Reason != "not enough players" {
		t.Fatalf("void reason %q", voided.Reason)
	}
	if s.State() != "IDLE" {
		t.Fatalf("voided round still active, state %s", s.State())
	}
}

func TestSweepRemovesPlayerAfterGracePeriod(t *testing.T) {
	s, clock := newTestSession(t, testSessionConfig())

	a, b, c := &fakeClient{}, &fakeClient{}, &fakeClient{}
	s.Join("alice", a)
	s.Join("bob", b)
	s.Join("carol", c)

	s.DisconnectPlayer("carol")
	if s.PlayerCount() != 3 {
		t.Fatal("disconnect removed the player before the grace period")
	}

	// Step past the 30s grace while keeping alice and bob alive.
	for i := 0; i < 4; i++ {
		clock.BlockUntil(1)
		clock.Advance(10 * time.Second)
		s.Heartbeat("alice")
		s.Heartbeat("bob")
	}

	waitFor(t, "grace-period removal", func() bool {
		return s.PlayerCount() == 2
	})
}

func TestJudgeDisconnectVoidsAndRotationMovesOn(t *testing.T) {
	s, clock := newTestSession(t, testSessionConfig())

	a, b, c := &fakeClient{}, &fakeClient{}, &fakeClient{}
	s.Join("alice", a) // judge once the round starts
	s.Join("bob", b)
	s.Join("carol", c)

	s.DisconnectPlayer("alice")

	waitFor(t, "round_voided broadcast", func() bool {
		return b.countOf(domain.EventRoundVoided) == 1
	})
	voided := b.lastOf(domain.EventRoundVoided).Payload.(*domain.RoundVoidedPayload)
	if voided.Reason != "judge left" {
		t.Fatalf("void reason %q", voided.Reason)
	}

	clock.BlockUntil(2)
	clock.Advance(s.cfg.RoundRestDelay)

	waitFor(t, "restarted round", func() bool {
		return b.countOf(domain.EventRoundStarted) == 2
	})
	started := b.lastOf(domain.EventRoundStarted).Payload.(*domain.RoundStartedPayload)
	if started.Judge != "bob" {
		t.Fatalf("judge after void %s, want bob", started.Judge)
	}
}

func TestCloseCancelsPendingRound(t *testing.T) {
	s, clock := newTestSession(t, testSessionConfig())

	a, b := &fakeClient{}, &fakeClient{}
	s.Join("alice", a)
	s.Join("bob", b)

	if err := s.SubmitCards("bob", handTexts(s, "bob")[:1]); err != nil {
		t.Fatalf("submit: %v", err)
	}
	waitFor(t, "all_submitted broadcast", func() bool {
		return a.countOf(domain.EventAllSubmitted) == 1
	})
	revealed := a.lastOf(domain.EventAllSubmitted).Payload.(*domain.AllSubmittedPayload)
	if err := s.ChooseWinner("alice", revealed.Submissions[0].Cards); err != nil {
		t.Fatalf("choose winner: %v", err)
	}

	clock.BlockUntil(2)
	s.Close()
	clock.Advance(s.cfg.RoundRestDelay)

	time.Sleep(50 * time.Millisecond)
	if got := a.countOf(domain.EventRoundStarted); got != 1 {
		t.Fatalf("round started after Close, count %d", got)
	}
}

func TestReconnectUnderSameName(t *testing.T) {
	s, _ := newTestSession(t, testSessionConfig())

	a, b := &fakeClient{}, &fakeClient{}
	s.Join("alice", a)
	s.Join("bob", b)

	if err := s.Join("bob", &fakeClient{}); !errors.Is(err, domain.ErrNameTaken) {
		t.Fatalf("expected ErrNameTaken for a connected name, got %v", err)
	}

	handBefore := handTexts(s, "bob")
	s.DisconnectPlayer("bob")

	b2 := &fakeClient{}
	if err := s.Join("bob", b2); err != nil {
		t.Fatalf("rejoin: %v", err)
	}

	waitFor(t, "joined event on new connection", func() bool {
		return b2.countOf(domain.EventJoined) == 1
	})
	joined := b2.lastOf(domain.EventJoined).Payload.(*domain.JoinedPayload)
	if !joined.Reconnected {
		t.Fatal("rejoin not flagged as a reconnect")
	}

	handAfter := handTexts(s, "bob")
	if len(handBefore) != len(handAfter) {
		t.Fatal("reconnect rebuilt the hand")
	}
	for i := range handBefore {
		if handBefore[i] != handAfter[i] {
			t.Fatal("reconnect rebuilt the hand")
		}
	}
}
