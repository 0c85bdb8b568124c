package domain

import (
	"time"
)

// Registry tracks players, their hands, scores and connection liveness.
// Players are kept in join order, which the judge rotation depends on.
type Registry struct {
	deck     *Deck
	handSize int
	players  map[string]*Player
	order    []string
}

// NewRegistry creates a registry drawing hands from the given deck.
func NewRegistry(deck *Deck, handSize int) *Registry {
	return &Registry{
		deck:     deck,
		handSize: handSize,
		players:  make(map[string]*Player),
		order:    make([]string, 0),
	}
}

// Join adds a player with a freshly drawn hand. If the name belongs to a
// disconnected player the existing player is reconnected instead, keeping
// their score and hand. The second return value reports a reconnect.
func (r *Registry) Join(name string, now time.Time) (*Player, bool, error) {
	if existing, ok := r.players[name]; ok {
		if existing.Connected {
			return nil, false, ErrNameTaken
		}
		existing.Reconnect(now)
		return existing, true, nil
	}

	hand, err := r.deck.DrawResponses(r.handSize)
	if err != nil {
		return nil, false, err
	}

	player := NewPlayer(name, now)
	player.Hand = hand
	r.players[name] = player
	r.order = append(r.order, name)

	return player, false, nil
}

// Heartbeat refreshes a player's liveness timestamp, reconnecting them if a
// sweep had marked them disconnected. The first return value reports a
// reconnect.
func (r *Registry) Heartbeat(name string, now time.Time) (bool, error) {
	player, ok := r.players[name]
	if !ok {
		return false, ErrUnknownPlayer
	}
	if !player.Connected {
		player.Reconnect(now)
		return true, nil
	}
	player.Touch(now)
	return false, nil
}

// MarkDisconnected flags a player as disconnected. Score and hand survive
// until the grace period expires.
func (r *Registry) MarkDisconnected(name string, now time.Time) (*Player, error) {
	player, ok := r.players[name]
	if !ok {
		return nil, ErrUnknownPlayer
	}
	player.Disconnect(now)
	return player, nil
}

// Remove deletes a player entirely.
func (r *Registry) Remove(name string) (*Player, error) {
	player, ok := r.players[name]
	if !ok {
		return nil, ErrUnknownPlayer
	}
	delete(r.players, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return player, nil
}

// Replenish draws cards until the player's hand is back at the hand limit.
// On ErrDeckExhausted the hand is left short rather than corrupted.
func (r *Registry) Replenish(name string) (*Player, error) {
	player, ok := r.players[name]
	if !ok {
		return nil, ErrUnknownPlayer
	}

	need := r.handSize - len(player.Hand)
	if need <= 0 {
		return player, nil
	}

	cards, err := r.deck.DrawResponses(need)
	if err != nil {
		return player, err
	}
	player.Hand = append(player.Hand, cards...)

	return player, nil
}

// Get returns a player by name, or nil.
func (r *Registry) Get(name string) *Player {
	return r.players[name]
}

// Players returns all players in join order, including disconnected ones.
func (r *Registry) Players() []*Player {
	players := make([]*Player, 0, len(r.players))
	for _, name := range r.order {
		players = append(players, r.players[name])
	}
	return players
}

// ConnectedPlayers returns connected players in join order.
func (r *Registry) ConnectedPlayers() []*Player {
	players := make([]*Player, 0, len(r.players))
	for _, name := range r.order {
		if p := r.players[name]; p.Connected {
			players = append(players, p)
		}
	}
	return players
}

// ConnectedCount returns the number of connected players.
func (r *Registry) ConnectedCount() int {
	count := 0
	for _, p := range r.players {
		if p.Connected {
			count++
		}
	}
	return count
}

// Len returns the total number of registered players.
func (r *Registry) Len() int {
	return len(r.players)
}

// Order returns player names in join order.
func (r *Registry) Order() []string {
	return append([]string(nil), r.order...)
}

// Roster returns the broadcastable view of all players in join order.
func (r *Registry) Roster() []PlayerInfo {
	roster := make([]PlayerInfo, 0, len(r.players))
	for _, name := range r.order {
		roster = append(roster, r.players[name].Info())
	}
	return roster
}

// Stale reports players whose heartbeat lapsed (to be disconnected) and
// disconnected players past the grace period (to be removed). It does not
// mutate anything; the caller applies the transitions.
func (r *Registry) Stale(now time.Time, timeout, grace time.Duration) (timedOut, expired []string) {
	for _, name := range r.order {
		p := r.players[name]
		if p.Connected {
			if now.Sub(p.LastSeen) > timeout {
				timedOut = append(timedOut, name)
			}
		} else if now.Sub(p.DisconnectedAt) > grace {
			expired = append(expired, name)
		}
	}
	return timedOut, expired
}
