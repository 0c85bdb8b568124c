package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"blanks/internal/app"
	"blanks/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client represents a WebSocket client connection. It carries no game rules:
// it only translates messages into session calls and session events into
// frames.
type Client struct {
	conn    *websocket.Conn
	session *app.GameSession
	connID  string
	name    string // set after a successful join
	send    chan []byte
	done    chan struct{}
	logger  *slog.Logger
	mu      sync.Mutex
	closed  bool
}

// NewClient creates a new WebSocket client.
func NewClient(conn *websocket.Conn, session *app.GameSession, connID string, logger *slog.Logger) *Client {
	return &Client{
		conn:    conn,
		session: session,
		connID:  connID,
		send:    make(chan []byte, sendBufferSize),
		done:    make(chan struct{}),
		logger:  logger,
	}
}

// Send implements app.ClientConnection.
func (c *Client) Send(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		c.logger.Warn("send buffer full, message dropped", "conn", c.connID, "player", c.name)
		return nil
	}
}

// Close implements app.ClientConnection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection. A dropped socket is
// a disconnect, not a leave: the player keeps their seat for the grace
// period.
func (c *Client) readPump() {
	defer func() {
		if c.name != "" {
			c.session.UnregisterClient(c.name, c)
			c.session.DisconnectPlayer(c.name)
		}
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		// Transport-level liveness counts as a heartbeat too.
		if c.name != "" {
			c.session.Heartbeat(c.name)
		}
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "conn", c.connID, "error", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an incoming message from the client.
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(domain.CodeInvalidMessage, "Invalid message format")
		return
	}

	switch msg.Type {
	case MsgJoin:
		c.handleJoin(msg.Payload)
	case MsgHeartbeat:
		c.handleHeartbeat()
	case MsgSubmitCards:
		c.handleSubmitCards(msg.Payload)
	case MsgChooseWinner:
		c.handleChooseWinner(msg.Payload)
	case MsgLeave:
		c.handleLeave()
	case MsgPing:
		c.sendPong()
	default:
		c.sendError(domain.CodeInvalidMessage, "Unknown message type")
	}
}

func (c *Client) handleJoin(payload json.RawMessage) {
	if c.name != "" {
		c.sendError(domain.CodeInvalidMessage, "Already joined")
		return
	}

	p, err := decodeJoin(payload)
	if err != nil {
		c.sendError(domain.CodeInvalidMessage, "A display name is required")
		return
	}

	if err := c.session.Join(p.Name, c); err != nil {
		c.sendDomainError(err)
		return
	}

	c.name = p.Name
	c.logger.Info("player joined", "room", c.session.Code(), "player", p.Name, "conn", c.connID)
}

func (c *Client) handleHeartbeat() {
	if c.name == "" {
		c.sendError(domain.CodeInvalidMessage, "Join before sending heartbeats")
		return
	}
	if err := c.session.Heartbeat(c.name); err != nil {
		c.sendDomainError(err)
	}
}

func (c *Client) handleSubmitCards(payload json.RawMessage) {
	if c.name == "" {
		c.sendError(domain.CodeInvalidMessage, "Join before submitting cards")
		return
	}

	p, err := decodeCards(payload)
	if err != nil {
		c.sendError(domain.CodeInvalidMessage, "At least one card is required")
		return
	}

	if err := c.session.SubmitCards(c.name, p.Cards); err != nil {
		c.sendDomainError(err)
	}
}

func (c *Client) handleChooseWinner(payload json.RawMessage) {
	if c.name == "" {
		c.sendError(domain.CodeInvalidMessage, "Join before choosing a winner")
		return
	}

	p, err := decodeCards(payload)
	if err != nil {
		c.sendError(domain.CodeInvalidMessage, "The winning cards are required")
		return
	}

	if err := c.session.ChooseWinner(c.name, p.Cards); err != nil {
		c.sendDomainError(err)
	}
}

func (c *Client) handleLeave() {
	if c.name == "" {
		c.Close()
		return
	}

	name := c.name
	c.name = "" // readPump teardown must not double-report the departure
	if err := c.session.Leave(name); err != nil {
		c.logger.Debug("leave failed", "player", name, "error", err)
	}
	c.Close()
}

// sendDomainError maps a domain error to its wire code and returns it to
// this caller only.
func (c *Client) sendDomainError(err error) {
	c.sendError(domain.ErrorCode(err), err.Error())
}

// sendError sends an error event to the client.
func (c *Client) sendError(code, message string) {
	event := domain.NewPlayerEvent(domain.EventError, c.session.Code(), c.name, &domain.ErrorPayload{
		Code:    code,
		Message: message,
	})
	c.Send(event)
}

// sendPong answers an application-level ping.
func (c *Client) sendPong() {
	c.Send(domain.NewPlayerEvent(domain.EventPong, c.session.Code(), c.name, nil))
}
