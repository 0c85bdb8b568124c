package ws

import (
	"encoding/json"
	"errors"
	"strings"
)

// MessageType represents the type of an inbound WebSocket message.
type MessageType string

// Client → Server message types. Server → client traffic reuses the
// domain.GameEvent envelope.
const (
	MsgJoin         MessageType = "join"
	MsgHeartbeat    MessageType = "heartbeat"
	MsgSubmitCards  MessageType = "submit_cards"
	MsgChooseWinner MessageType = "choose_winner"
	MsgLeave        MessageType = "leave"
	MsgPing         MessageType = "ping"
)

// ClientMessage is the tagged envelope for inbound messages. Payloads stay
// raw until the type is known, then decode into a closed set of structs.
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// JoinPayload is the payload for a join message.
type JoinPayload struct {
	Name string `json:"name"`
}

// CardsPayload is the payload for submit_cards and choose_winner messages.
type CardsPayload struct {
	Cards []string `json:"cards"`
}

var (
	errMissingName  = errors.New("name is required")
	errMissingCards = errors.New("cards are required")
)

func decodeJoin(raw json.RawMessage) (JoinPayload, error) {
	var p JoinPayload
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p); err != nil {
			return JoinPayload{}, err
		}
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return JoinPayload{}, errMissingName
	}
	return p, nil
}

func decodeCards(raw json.RawMessage) (CardsPayload, error) {
	var p CardsPayload
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p); err != nil {
			return CardsPayload{}, err
		}
	}
	if len(p.Cards) == 0 {
		return CardsPayload{}, errMissingCards
	}
	for i := range p.Cards {
		p.Cards[i] = strings.TrimSpace(p.Cards[i])
		if p.Cards[i] == "" {
			return CardsPayload{}, errMissingCards
		}
	}
	return p, nil
}
