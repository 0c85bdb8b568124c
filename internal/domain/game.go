package domain

import (
	"math/rand"
	"time"
)

// Settings holds configurable game parameters. Timing (heartbeat sweeps,
// inter-round delays) is owned by the caller, not the state machine.
type Settings struct {
	MinPlayers int  `json:"minPlayers"`
	MaxPlayers int  `json:"maxPlayers"`
	HandSize   int  `json:"handSize"`
	Reshuffle  bool `json:"reshuffle"` // rebuild exhausted pools from the source set
}

// DefaultSettings returns the default game settings.
func DefaultSettings() Settings {
	return Settings{
		MinPlayers: 2,
		MaxPlayers: 10,
		HandSize:   7,
		Reshuffle:  true,
	}
}

// Game is the round controller: it owns the deck, the registry and the
// current round, and serializes every rule decision. It is not safe for
// concurrent use; the session layer provides mutual exclusion.
type Game struct {
	settings  Settings
	deck      *Deck
	registry  *Registry
	round     *Round
	rounds    int
	lastJudge string
	rng       *rand.Rand
}

// NewGame builds a game over a freshly shuffled deck. A nil rng seeds one
// from the current time.
func NewGame(set CardSet, settings Settings, rng *rand.Rand) *Game {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	deck := NewDeck(set, settings.Reshuffle, rng)
	return &Game{
		settings: settings,
		deck:     deck,
		registry: NewRegistry(deck, settings.HandSize),
		rng:      rng,
	}
}

// Round returns the current round, or nil before the first one.
func (g *Game) Round() *Round {
	return g.round
}

// Player returns a player by name, or nil.
func (g *Game) Player(name string) *Player {
	return g.registry.Get(name)
}

// Roster returns the broadcastable player list in join order.
func (g *Game) Roster() []PlayerInfo {
	return g.registry.Roster()
}

// ConnectedCount returns the number of connected players.
func (g *Game) ConnectedCount() int {
	return g.registry.ConnectedCount()
}

// PlayerCount returns the total number of registered players.
func (g *Game) PlayerCount() int {
	return g.registry.Len()
}

// Settings returns the game's settings.
func (g *Game) Settings() Settings {
	return g.settings
}

// Join registers a player, or reconnects a disconnected one under the same
// name. The second return value reports a reconnect.
func (g *Game) Join(name string, now time.Time) (*Player, bool, error) {
	if g.registry.Get(name) == nil && g.registry.Len() >= g.settings.MaxPlayers {
		return nil, false, ErrGameFull
	}
	return g.registry.Join(name, now)
}

// Heartbeat refreshes a player's liveness. The first return value reports
// that a disconnected player came back.
func (g *Game) Heartbeat(name string, now time.Time) (bool, error) {
	return g.registry.Heartbeat(name, now)
}

// CanStartRound reports whether a new round may begin right now.
func (g *Game) CanStartRound() bool {
	if g.round != nil && g.round.Active() {
		return false
	}
	return g.registry.ConnectedCount() >= g.settings.MinPlayers
}

// StartRound selects the next judge, draws a prompt, tops up every connected
// player's hand and opens the round for submissions. ErrDeckExhausted means
// the round cannot start at all.
func (g *Game) StartRound(now time.Time) (*Round, error) {
	if g.round != nil && g.round.Active() {
		return nil, ErrRoundInProgress
	}
	if g.registry.ConnectedCount() < g.settings.MinPlayers {
		return nil, ErrNotEnoughPlayers
	}

	judge := g.nextJudge()
	prompt, err := g.deck.DrawPrompt()
	if err != nil {
		return nil, err
	}

	// A short deck leaves hands short; it does not block the round.
	for _, p := range g.registry.ConnectedPlayers() {
		g.registry.Replenish(p.Name)
	}

	for _, p := range g.registry.Players() {
		p.IsJudge = p.Name == judge
	}
	g.lastJudge = judge

	g.rounds++
	g.round = NewRound(g.rounds, prompt, judge, now)
	g.round.Transition(StateAwaitingSubmissions)

	return g.round, nil
}

// SubmitOutcome reports the side effects of an accepted submission.
type SubmitOutcome struct {
	Player       *Player
	AllSubmitted bool
	Submissions  []*Submission // shuffled; set when AllSubmitted
}

// Submit validates and stores a player's submission. Validation precedes
// mutation: a rejected submission leaves the hand and the round untouched.
func (g *Game) Submit(name string, cards []string, now time.Time) (*SubmitOutcome, error) {
	player := g.registry.Get(name)
	if player == nil {
		return nil, ErrUnknownPlayer
	}
	r := g.round
	if r == nil || r.State != StateAwaitingSubmissions {
		return nil, ErrNoActiveRound
	}
	if name == r.Judge {
		return nil, ErrNotYourTurn
	}
	if r.HasSubmission(name) {
		return nil, ErrAlreadySubmitted
	}
	if len(cards) != r.Prompt.Pick {
		return nil, ErrWrongCardCount
	}
	if _, err := player.TakeCards(cards); err != nil {
		return nil, err
	}

	player.Touch(now)
	r.AddSubmission(name, cards, now)

	out := &SubmitOutcome{Player: player}
	if g.checkCompletion() {
		out.AllSubmitted = true
		out.Submissions = r.ShuffledSubmissions(g.rng)
	}

	return out, nil
}

// SubmissionCount returns how many submissions the current round holds and
// how many it still needs for completion.
func (g *Game) SubmissionCount() (have, required int) {
	r := g.round
	if r == nil {
		return 0, 0
	}
	required = len(r.Submissions)
	for _, p := range g.registry.ConnectedPlayers() {
		if p.Name != r.Judge && !r.HasSubmission(p.Name) {
			required++
		}
	}
	return len(r.Submissions), required
}

// WinOutcome reports the side effects of a scored round. Winner is nil when
// the owning player left before the judge picked; Owner still names them.
type WinOutcome struct {
	Owner       string
	Winner      *Player
	Cards       []string
	Replenished []*Player
}

// ChooseWinner applies the judge's pick: the owning player scores one point
// and the round reaches Scored. Submitters' hands are replenished.
func (g *Game) ChooseWinner(name string, cards []string, now time.Time) (*WinOutcome, error) {
	player := g.registry.Get(name)
	if player == nil {
		return nil, ErrUnknownPlayer
	}
	r := g.round
	if r == nil || r.State != StateAwaitingJudgment {
		return nil, ErrNoActiveRound
	}
	if name != r.Judge {
		return nil, ErrNotJudge
	}
	sub, ok := r.FindSubmission(cards)
	if !ok {
		return nil, ErrNoSuchSubmission
	}

	player.Touch(now)

	winner := g.registry.Get(sub.Owner)
	if winner != nil {
		winner.Score++
	}
	r.Winner = sub.Owner
	r.WinningCards = sub.Cards
	r.EndedAt = now
	r.Transition(StateScored)

	return &WinOutcome{
		Owner:       sub.Owner,
		Winner:      winner,
		Cards:       sub.Cards,
		Replenished: g.replenishSubmitters(),
	}, nil
}

// Disruption reports round-level consequences of a disconnect, leave or
// sweep: a voided round, or a completion that fired because the required
// set shrank.
type Disruption struct {
	Voided       bool
	VoidReason   string
	AllSubmitted bool
	Submissions  []*Submission
	Replenished  []*Player
}

// Disconnect marks a player disconnected and re-evaluates the round.
func (g *Game) Disconnect(name string, now time.Time) (*Disruption, error) {
	if _, err := g.registry.MarkDisconnected(name, now); err != nil {
		return nil, err
	}
	return g.reevaluate(now), nil
}

// Leave removes a player entirely. Their submission, if any, is discarded.
func (g *Game) Leave(name string, now time.Time) (*Disruption, error) {
	if _, err := g.registry.Remove(name); err != nil {
		return nil, err
	}
	if g.round != nil && g.round.Active() {
		g.round.DropSubmission(name)
	}
	return g.reevaluate(now), nil
}

// SweepOutcome aggregates the results of a liveness sweep.
type SweepOutcome struct {
	Disconnected []string
	Removed      []string
	Disruption   *Disruption
}

// Sweep disconnects players whose heartbeat lapsed and removes players whose
// disconnect outlived the grace period, then re-evaluates the round once.
func (g *Game) Sweep(now time.Time, timeout, grace time.Duration) *SweepOutcome {
	timedOut, expired := g.registry.Stale(now, timeout, grace)
	if len(timedOut) == 0 && len(expired) == 0 {
		return nil
	}

	out := &SweepOutcome{}
	for _, name := range timedOut {
		g.registry.MarkDisconnected(name, now)
		out.Disconnected = append(out.Disconnected, name)
	}
	for _, name := range expired {
		g.registry.Remove(name)
		if g.round != nil && g.round.Active() {
			g.round.DropSubmission(name)
		}
		out.Removed = append(out.Removed, name)
	}
	out.Disruption = g.reevaluate(now)

	return out
}

// reevaluate recomputes the completion rule and the void policies after any
// liveness change. Submissions from disconnected players still count; the
// round never stalls waiting on a vanished player.
func (g *Game) reevaluate(now time.Time) *Disruption {
	r := g.round
	if r == nil || !r.Active() {
		return nil
	}

	if g.registry.ConnectedCount() < g.settings.MinPlayers {
		return g.voidRound(now, "not enough players")
	}

	judge := g.registry.Get(r.Judge)
	if judge == nil || !judge.Connected {
		return g.voidRound(now, "judge left")
	}

	if g.checkCompletion() {
		return &Disruption{
			AllSubmitted: true,
			Submissions:  r.ShuffledSubmissions(g.rng),
		}
	}

	return nil
}

// checkCompletion advances AwaitingSubmissions through RevealPending to
// AwaitingJudgment once every connected non-judge player has submitted.
// Disconnected players never block completion.
func (g *Game) checkCompletion() bool {
	r := g.round
	if r == nil || r.State != StateAwaitingSubmissions {
		return false
	}
	if len(r.Submissions) == 0 {
		return false
	}
	for _, p := range g.registry.ConnectedPlayers() {
		if p.Name != r.Judge && !r.HasSubmission(p.Name) {
			return false
		}
	}

	r.Transition(StateRevealPending)
	r.Transition(StateAwaitingJudgment)

	return true
}

// voidRound abandons the round with no score change. Submitted cards were
// consumed, so submitters' hands are replenished. Rotation still advances
// past the judge of the voided round.
func (g *Game) voidRound(now time.Time, reason string) *Disruption {
	r := g.round
	r.EndedAt = now
	r.Transition(StateVoided)

	return &Disruption{
		Voided:      true,
		VoidReason:  reason,
		Replenished: g.replenishSubmitters(),
	}
}

// replenishSubmitters tops up the hand of every submitter still registered.
// A short deck leaves hands short.
func (g *Game) replenishSubmitters() []*Player {
	r := g.round
	replenished := make([]*Player, 0, len(r.Submissions))
	for owner := range r.Submissions {
		if p, err := g.registry.Replenish(owner); err == nil && p != nil {
			replenished = append(replenished, p)
		}
	}
	return replenished
}

// nextJudge picks the next judge: round-robin over connected players in join
// order, starting after the previous judge and skipping disconnected
// players. The same player repeats only when they are the sole connected
// player.
func (g *Game) nextJudge() string {
	names := g.registry.Order()
	if len(names) == 0 {
		return ""
	}

	start := -1
	for i, n := range names {
		if n == g.lastJudge {
			start = i
			break
		}
	}
	if start < 0 {
		for _, n := range names {
			if g.registry.Get(n).Connected {
				return n
			}
		}
		return ""
	}

	single := g.registry.ConnectedCount() == 1
	for i := 1; i <= len(names); i++ {
		cand := names[(start+i)%len(names)]
		if !g.registry.Get(cand).Connected {
			continue
		}
		if cand == g.lastJudge && !single {
			continue
		}
		return cand
	}

	return ""
}

// Snapshot is the state a joining or reconnecting player needs to render the
// game mid-round.
type Snapshot struct {
	State           RoundState     `json:"state,omitempty"`
	RoundNumber     int            `json:"roundNumber,omitempty"`
	Prompt          *PromptCard    `json:"prompt,omitempty"`
	Judge           string         `json:"judge,omitempty"`
	Players         []PlayerInfo   `json:"players"`
	Hand            []ResponseCard `json:"hand"`
	SubmissionCount int            `json:"submissionCount"`
	HasSubmitted    bool           `json:"hasSubmitted"`
}

// SnapshotFor builds the snapshot for one player. The hand is theirs alone;
// other players' hands and submission owners are never included.
func (g *Game) SnapshotFor(name string) *Snapshot {
	snap := &Snapshot{Players: g.registry.Roster()}

	if p := g.registry.Get(name); p != nil {
		snap.Hand = p.Hand
	}

	if r := g.round; r != nil && r.Active() {
		prompt := r.Prompt
		snap.State = r.State
		snap.RoundNumber = r.Number
		snap.Prompt = &prompt
		snap.Judge = r.Judge
		snap.SubmissionCount = len(r.Submissions)
		snap.HasSubmitted = r.HasSubmission(name)
	}

	return snap
}
