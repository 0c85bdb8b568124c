package domain

import "time"

// Player represents a connected (or recently connected) player.
type Player struct {
	Name           string         `json:"name"`
	Hand           []ResponseCard `json:"hand"`
	Score          int            `json:"score"`
	IsJudge        bool           `json:"isJudge"`
	Connected      bool           `json:"connected"`
	JoinedAt       time.Time      `json:"joinedAt"`
	LastSeen       time.Time      `json:"lastSeen"`
	DisconnectedAt time.Time      `json:"disconnectedAt,omitempty"`
}

// NewPlayer creates a connected player with an empty hand.
func NewPlayer(name string, now time.Time) *Player {
	return &Player{
		Name:      name,
		Hand:      make([]ResponseCard, 0),
		Connected: true,
		JoinedAt:  now,
		LastSeen:  now,
	}
}

// Touch refreshes the player's liveness timestamp.
func (p *Player) Touch(now time.Time) {
	p.LastSeen = now
}

// Disconnect marks the player as disconnected.
func (p *Player) Disconnect(now time.Time) {
	p.Connected = false
	p.DisconnectedAt = now
}

// Reconnect marks the player as connected again.
func (p *Player) Reconnect(now time.Time) {
	p.Connected = true
	p.DisconnectedAt = time.Time{}
	p.LastSeen = now
}

// HandTexts returns the texts of the player's hand in order. Blank cards are
// reported as empty strings.
func (p *Player) HandTexts() []string {
	texts := make([]string, len(p.Hand))
	for i, c := range p.Hand {
		texts[i] = c.Text
	}
	return texts
}

// TakeCards removes one held card per requested text and returns the removed
// cards with their final texts. A text with no exact match in hand consumes a
// blank card and carries the player-authored text. The hand is only mutated
// if every requested text can be satisfied.
func (p *Player) TakeCards(texts []string) ([]ResponseCard, error) {
	used := make(map[int]bool, len(texts))
	taken := make([]ResponseCard, 0, len(texts))

	for _, text := range texts {
		idx := -1
		for i, c := range p.Hand {
			if !used[i] && !c.Blank && c.Text == text {
				idx = i
				break
			}
		}
		if idx < 0 {
			for i, c := range p.Hand {
				if !used[i] && c.Blank {
					idx = i
					break
				}
			}
		}
		if idx < 0 {
			return nil, ErrCardNotInHand
		}
		used[idx] = true
		taken = append(taken, ResponseCard{Text: text})
	}

	remaining := make([]ResponseCard, 0, len(p.Hand)-len(texts))
	for i, c := range p.Hand {
		if !used[i] {
			remaining = append(remaining, c)
		}
	}
	p.Hand = remaining

	return taken, nil
}

// PlayerInfo is the roster view of a player, safe to broadcast to everyone.
type PlayerInfo struct {
	Name      string `json:"name"`
	Score     int    `json:"score"`
	IsJudge   bool   `json:"isJudge"`
	Connected bool   `json:"connected"`
}

// Info converts a Player to its roster view.
func (p *Player) Info() PlayerInfo {
	return PlayerInfo{
		Name:      p.Name,
		Score:     p.Score,
		IsJudge:   p.IsJudge,
		Connected: p.Connected,
	}
}
