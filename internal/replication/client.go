package replication

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/SeamusWaldron/nxncube"
)

// Client is one peer's connection to a hub.
type Client struct {
	conn     *websocket.Conn
	log      *slog.Logger
	messages chan Message
	peerID   string
	done     chan struct{}

	writeMu   sync.Mutex
	closeOnce sync.Once
}

// Dial connects to the hub at url and waits for its snapshot, which is the
// first message on Messages.
func Dial(ctx context.Context, url string, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	var first Message
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
	}
	if err := conn.ReadJSON(&first); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	_ = conn.SetReadDeadline(time.Time{})
	if first.Type != TypeState {
		conn.Close()
		return nil, fmt.Errorf("expected state snapshot, got %q", first.Type)
	}

	c := &Client{
		conn:     conn,
		log:      log,
		messages: make(chan Message, sendBuffer),
		peerID:   first.Peer,
		done:     make(chan struct{}),
	}
	c.messages <- first
	go c.readLoop()
	return c, nil
}

// PeerID returns the id the hub assigned to this client.
func (c *Client) PeerID() string {
	return c.peerID
}

// Messages returns received messages. The channel closes when the
// connection ends.
func (c *Client) Messages() <-chan Message {
	return c.messages
}

// SendMove sends a locally accepted move.
func (c *Client) SendMove(m nxncube.Move, tsMs int64) error {
	return c.send(MoveMessage(m, tsMs))
}

// SendCamera sends a camera position.
func (c *Client) SendCamera(pos nxncube.Vec3, tsMs int64) error {
	return c.send(CameraMessage(pos, tsMs))
}

// SendState shares a new puzzle state, for example a fresh scramble.
func (c *Client) SendState(e *nxncube.Engine) error {
	return c.send(StateMessage(e))
}

func (c *Client) send(msg Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to send %s: %w", msg.Type, err)
	}
	return nil
}

// Close ends the connection.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}

func (c *Client) readLoop() {
	defer close(c.messages)

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("replication read failed", "error", err)
			}
			return
		}
		select {
		case c.messages <- msg:
		case <-c.done:
			return
		}
	}
}
