package app

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"blanks/internal/domain"
)

// ClientConnection represents a connected client.
type ClientConnection interface {
	Send(message interface{}) error
	Close() error
}

// SessionConfig holds the per-room game settings plus the timing knobs the
// session scheduler owns. The state machine itself never sleeps.
type SessionConfig struct {
	Game             domain.Settings
	HeartbeatTimeout time.Duration
	DisconnectGrace  time.Duration
	SweepInterval    time.Duration
	RoundRestDelay   time.Duration
}

// DefaultSessionConfig returns the default session configuration.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Game:             domain.DefaultSettings(),
		HeartbeatTimeout: 15 * time.Second,
		DisconnectGrace:  2 * time.Minute,
		SweepInterval:    5 * time.Second,
		RoundRestDelay:   10 * time.Second,
	}
}

// GameSession wraps a game with mutual exclusion, client fan-out and the
// scheduling the round controller deliberately does not own: the liveness
// sweep and the inter-round delay. Every inbound action is serialized
// through mu, so concurrent arrivals are processed one at a time in arrival
// order.
type GameSession struct {
	code string
	game *domain.Game
	cfg  SessionConfig
	mu   sync.Mutex

	clients   map[string]ClientConnection
	clientsMu sync.RWMutex

	clock  clockwork.Clock
	logger *slog.Logger

	roundPending bool // a StartRound is already scheduled
	createdAt    time.Time

	events chan *domain.GameEvent
	done   chan struct{}
}

// NewGameSession creates a session for one room over a freshly shuffled
// deck.
func NewGameSession(code string, set domain.CardSet, cfg SessionConfig, logger *slog.Logger, clock clockwork.Clock) *GameSession {
	s := &GameSession{
		code:      code,
		game:      domain.NewGame(set, cfg.Game, nil),
		cfg:       cfg,
		clients:   make(map[string]ClientConnection),
		clock:     clock,
		logger:    logger,
		createdAt: clock.Now(),
		events:    make(chan *domain.GameEvent, 100),
		done:      make(chan struct{}),
	}

	go s.eventLoop()
	go s.sweepLoop()

	return s
}

// Code returns the room code.
func (s *GameSession) Code() string {
	return s.code
}

// CreatedAt returns when the session was created.
func (s *GameSession) CreatedAt() time.Time {
	return s.createdAt
}

// PlayerCount returns the number of registered players.
func (s *GameSession) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.PlayerCount()
}

// State returns the current round state, or "IDLE" between rounds.
func (s *GameSession) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r := s.game.Round(); r != nil && r.Active() {
		return r.State.String()
	}
	return "IDLE"
}

// CanJoin reports whether the room has space for another player.
func (s *GameSession) CanJoin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.PlayerCount() < s.game.Settings().MaxPlayers
}

// RegisterClient attaches a client connection to a player name. Join does
// this itself; this is exposed for reconnecting transports.
func (s *GameSession) RegisterClient(name string, client ClientConnection) {
	if client == nil {
		return
	}
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[name] = client
}

// UnregisterClient detaches a client connection, but only if it is still the
// one registered for that name. A reconnect replaces the old connection, and
// the old connection's teardown must not evict the new one.
func (s *GameSession) UnregisterClient(name string, client ClientConnection) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	if current, ok := s.clients[name]; ok && current == client {
		delete(s.clients, name)
	}
}

// Join adds a player (or reconnects a disconnected one under the same name)
// and attaches their client connection. If the join brings the room to the
// minimum player count, the first round starts immediately.
func (s *GameSession) Join(name string, client ClientConnection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, reconnected, err := s.game.Join(name, s.clock.Now())
	if err != nil {
		return err
	}

	s.RegisterClient(name, client)

	s.queueEvent(domain.NewPlayerEvent(domain.EventJoined, s.code, name, &domain.JoinedPayload{
		Name:        player.Name,
		Reconnected: reconnected,
		Snapshot:    s.game.SnapshotFor(name),
	}))
	s.queueEvent(domain.NewEvent(domain.EventRoster, s.code, &domain.RosterPayload{Players: s.game.Roster()}))

	if s.game.CanStartRound() && !s.roundPending {
		s.startRoundLocked()
	}

	return nil
}

// Heartbeat refreshes a player's liveness.
func (s *GameSession) Heartbeat(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reconnected, err := s.game.Heartbeat(name, s.clock.Now())
	if err != nil {
		return err
	}
	if reconnected {
		s.queueEvent(domain.NewEvent(domain.EventRoster, s.code, &domain.RosterPayload{Players: s.game.Roster()}))
		if s.game.CanStartRound() && !s.roundPending {
			s.scheduleNextRoundLocked()
		}
	}

	return nil
}

// SubmitCards submits a player's cards for the current round.
func (s *GameSession) SubmitCards(name string, cards []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.game.Submit(name, cards, s.clock.Now())
	if err != nil {
		return err
	}

	s.queueEvent(domain.NewPlayerEvent(domain.EventSubmissionAccepted, s.code, name, nil))
	s.queueEvent(domain.NewPlayerEvent(domain.EventHandUpdated, s.code, name, &domain.HandUpdatedPayload{Hand: out.Player.Hand}))

	have, required := s.game.SubmissionCount()
	s.queueEvent(domain.NewEvent(domain.EventSubmissionCount, s.code, &domain.SubmissionCountPayload{Count: have, Required: required}))

	if out.AllSubmitted {
		s.queueEvent(domain.NewEvent(domain.EventAllSubmitted, s.code, &domain.AllSubmittedPayload{
			Prompt:      s.game.Round().Prompt,
			Submissions: domain.RevealSubmissions(out.Submissions),
		}))
	}

	return nil
}

// ChooseWinner applies the judge's pick and schedules the next round.
func (s *GameSession) ChooseWinner(name string, cards []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.game.ChooseWinner(name, cards, s.clock.Now())
	if err != nil {
		return err
	}

	score := 0
	if out.Winner != nil {
		score = out.Winner.Score
	}
	s.queueEvent(domain.NewEvent(domain.EventRoundWon, s.code, &domain.RoundWonPayload{
		Cards:  out.Cards,
		Player: out.Owner,
		Score:  score,
	}))
	s.queueEvent(domain.NewEvent(domain.EventRoster, s.code, &domain.RosterPayload{Players: s.game.Roster()}))
	s.sendHandUpdates(out.Replenished)

	s.scheduleNextRoundLocked()

	return nil
}

// Leave removes a player for good.
func (s *GameSession) Leave(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	disruption, err := s.game.Leave(name, s.clock.Now())
	if err != nil {
		return err
	}

	s.clientsMu.Lock()
	delete(s.clients, name)
	s.clientsMu.Unlock()

	s.queueEvent(domain.NewEvent(domain.EventRoster, s.code, &domain.RosterPayload{Players: s.game.Roster()}))
	s.handleDisruptionLocked(disruption)

	return nil
}

// DisconnectPlayer marks a player disconnected when their transport drops.
// Score and hand survive the grace period; the round routes around them.
func (s *GameSession) DisconnectPlayer(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	disruption, err := s.game.Disconnect(name, s.clock.Now())
	if err != nil {
		return
	}

	s.queueEvent(domain.NewEvent(domain.EventRoster, s.code, &domain.RosterPayload{Players: s.game.Roster()}))
	s.handleDisruptionLocked(disruption)
}

// handleDisruptionLocked fans out the round-level consequences of a liveness
// change. Caller must hold mu.
func (s *GameSession) handleDisruptionLocked(d *domain.Disruption) {
	if d == nil {
		return
	}

	s.sendHandUpdates(d.Replenished)

	if d.AllSubmitted {
		s.queueEvent(domain.NewEvent(domain.EventAllSubmitted, s.code, &domain.AllSubmittedPayload{
			Prompt:      s.game.Round().Prompt,
			Submissions: domain.RevealSubmissions(d.Submissions),
		}))
	}

	if d.Voided {
		s.logger.Info("round voided", "room", s.code, "reason", d.VoidReason)
		s.queueEvent(domain.NewEvent(domain.EventRoundVoided, s.code, &domain.RoundVoidedPayload{Reason: d.VoidReason}))
		s.scheduleNextRoundLocked()
	}
}

// scheduleNextRoundLocked arranges the next round after the rest delay. The
// timer is cancellable through done and at most one round is ever pending.
// Caller must hold mu.
func (s *GameSession) scheduleNextRoundLocked() {
	if s.roundPending {
		return
	}
	s.roundPending = true

	s.queueEvent(domain.NewEvent(domain.EventNextRoundIn, s.code, &domain.NextRoundInPayload{
		Seconds: int(s.cfg.RoundRestDelay / time.Second),
	}))

	go func() {
		timer := s.clock.NewTimer(s.cfg.RoundRestDelay)
		defer timer.Stop()
		select {
		case <-s.done:
			return
		case <-timer.Chan():
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		s.roundPending = false
		s.startRoundLocked()
	}()
}

// startRoundLocked starts a round if one can start. Caller must hold mu.
func (s *GameSession) startRoundLocked() {
	if !s.game.CanStartRound() {
		return
	}

	round, err := s.game.StartRound(s.clock.Now())
	if err != nil {
		if errors.Is(err, domain.ErrDeckExhausted) {
			// Blocks game progress entirely, so everyone hears about it.
			s.logger.Error("round cannot start", "room", s.code, "error", err)
			s.queueEvent(domain.NewEvent(domain.EventError, s.code, &domain.ErrorPayload{
				Code:    domain.CodeDeckExhausted,
				Message: "prompt deck exhausted, round cannot start",
			}))
		} else {
			s.logger.Warn("round not started", "room", s.code, "error", err)
		}
		return
	}

	s.logger.Info("round started", "room", s.code, "round", round.Number, "judge", round.Judge, "pick", round.Prompt.Pick)

	s.queueEvent(domain.NewEvent(domain.EventRoundStarted, s.code, &domain.RoundStartedPayload{
		Round:   round.Number,
		Prompt:  round.Prompt,
		Judge:   round.Judge,
		Players: s.game.Roster(),
	}))
	for _, info := range s.game.Roster() {
		if p := s.game.Player(info.Name); p != nil && p.Connected {
			s.queueEvent(domain.NewPlayerEvent(domain.EventHandUpdated, s.code, p.Name, &domain.HandUpdatedPayload{Hand: p.Hand}))
		}
	}
}

func (s *GameSession) sendHandUpdates(players []*domain.Player) {
	for _, p := range players {
		s.queueEvent(domain.NewPlayerEvent(domain.EventHandUpdated, s.code, p.Name, &domain.HandUpdatedPayload{Hand: p.Hand}))
	}
}

// sweepLoop periodically checks heartbeat liveness. It runs independently of
// inbound actions; "disconnected" is advisory input re-evaluated at each
// completion check, never a reason to lock out the controller.
func (s *GameSession) sweepLoop() {
	ticker := s.clock.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.Chan():
			s.sweep()
		}
	}
}

func (s *GameSession) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.game.Sweep(s.clock.Now(), s.cfg.HeartbeatTimeout, s.cfg.DisconnectGrace)
	if out == nil {
		return
	}

	for _, name := range out.Disconnected {
		s.logger.Info("player timed out", "room", s.code, "player", name)
	}
	for _, name := range out.Removed {
		s.logger.Info("player removed after grace period", "room", s.code, "player", name)
		s.clientsMu.Lock()
		delete(s.clients, name)
		s.clientsMu.Unlock()
	}

	s.queueEvent(domain.NewEvent(domain.EventRoster, s.code, &domain.RosterPayload{Players: s.game.Roster()}))
	s.handleDisruptionLocked(out.Disruption)
}

// queueEvent adds an event to the broadcast queue.
func (s *GameSession) queueEvent(event *domain.GameEvent) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn("event queue full, dropping event", "room", s.code, "type", event.Type)
	}
}

// eventLoop processes events and fans them out to clients.
func (s *GameSession) eventLoop() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.events:
			s.broadcastEvent(event)
		}
	}
}

// broadcastEvent sends an event to its target player, or to everyone.
func (s *GameSession) broadcastEvent(event *domain.GameEvent) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	if event.Player != "" {
		if client, ok := s.clients[event.Player]; ok {
			if err := client.Send(event); err != nil {
				s.logger.Debug("failed to send to client", "player", event.Player, "error", err)
			}
		}
		return
	}

	for name, client := range s.clients {
		if err := client.Send(event); err != nil {
			s.logger.Debug("failed to send to client", "player", name, "error", err)
		}
	}
}

// Close shuts down the session, cancelling any pending round.
func (s *GameSession) Close() {
	select {
	case <-s.done:
		return // Already closed
	default:
		close(s.done)
	}

	s.clientsMu.Lock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clients = make(map[string]ClientConnection)
	s.clientsMu.Unlock()
}
