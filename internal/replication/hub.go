package replication

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/SeamusWaldron/nxncube"
	"github.com/SeamusWaldron/nxncube/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 64
)

type peer struct {
	id   string
	conn *websocket.Conn
	send chan Message
}

type inbound struct {
	from *peer
	msg  Message
}

// Hub relays moves between peers and keeps the authoritative puzzle.
//
// Run owns the engine: every move, snapshot and peer change passes through
// its loop, so the engine is only ever touched by one goroutine.
type Hub struct {
	engine   *nxncube.Engine
	log      *slog.Logger
	metrics  *metrics.Metrics
	upgrader websocket.Upgrader
	started  time.Time

	register   chan *peer
	unregister chan *peer
	inbound    chan inbound
	done       chan struct{}

	peers map[*peer]struct{}
}

// NewHub creates a hub around e. m may be nil.
func NewHub(e *nxncube.Engine, log *slog.Logger, m *metrics.Metrics) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		engine:  e,
		log:     log,
		metrics: m,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		started:    time.Now(),
		register:   make(chan *peer),
		unregister: make(chan *peer),
		inbound:    make(chan inbound, sendBuffer),
		done:       make(chan struct{}),
		peers:      make(map[*peer]struct{}),
	}
}

// Run processes peers and messages until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for p := range h.peers {
			h.drop(p)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case p := <-h.register:
			h.peers[p] = struct{}{}
			if h.metrics != nil {
				h.metrics.PeerConnected()
			}
			snapshot := StateMessage(h.engine)
			snapshot.Peer = p.id
			h.deliver(p, snapshot)
			h.log.Info("peer joined", "peer", p.id, "peers", len(h.peers))
		case p := <-h.unregister:
			if _, ok := h.peers[p]; ok {
				h.drop(p)
				h.log.Info("peer left", "peer", p.id, "peers", len(h.peers))
			}
		case in := <-h.inbound:
			h.handle(in.from, in.msg)
		}
	}
}

func (h *Hub) handle(from *peer, msg Message) {
	if _, ok := h.peers[from]; !ok {
		return
	}
	if h.metrics != nil {
		h.metrics.MessageIn(string(msg.Type))
	}

	msg.Peer = from.id
	if msg.TsMs == 0 {
		msg.TsMs = time.Since(h.started).Milliseconds()
	}

	switch msg.Type {
	case TypeMove, TypeState:
		if err := Apply(h.engine, msg); err != nil {
			// The sender is out of step with the hub; resync it.
			h.log.Warn("dropping message", "peer", from.id, "type", msg.Type, "token", msg.Token, "error", err)
			h.deliver(from, StateMessage(h.engine))
			return
		}
	case TypeCamera:
		if msg.Camera == nil {
			h.log.Warn("dropping camera without position", "peer", from.id)
			return
		}
	default:
		h.log.Warn("dropping unknown message", "peer", from.id, "type", msg.Type)
		return
	}

	h.broadcast(from, msg)
}

func (h *Hub) broadcast(from *peer, msg Message) {
	for p := range h.peers {
		if p != from {
			h.deliver(p, msg)
		}
	}
}

// deliver queues msg for p, dropping peers that cannot keep up.
func (h *Hub) deliver(p *peer, msg Message) {
	select {
	case p.send <- msg:
	default:
		h.log.Warn("peer too slow, disconnecting", "peer", p.id)
		h.drop(p)
	}
}

func (h *Hub) drop(p *peer) {
	delete(h.peers, p)
	close(p.send)
	if h.metrics != nil {
		h.metrics.PeerDisconnected()
	}
}

// ServeHTTP upgrades the request and attaches the connection as a peer.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	p := &peer{id: uuid.NewString(), conn: conn, send: make(chan Message, sendBuffer)}
	select {
	case h.register <- p:
	case <-h.done:
		conn.Close()
		return
	}

	go h.writePump(p)
	h.readPump(p)
}

func (h *Hub) readPump(p *peer) {
	defer func() {
		select {
		case h.unregister <- p:
		case <-h.done:
		}
		p.conn.Close()
	}()

	p.conn.SetReadLimit(maxMessageSize)
	_ = p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := p.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("peer read failed", "peer", p.id, "error", err)
			}
			return
		}
		select {
		case h.inbound <- inbound{from: p, msg: msg}:
		case <-h.done:
			return
		}
	}
}

func (h *Hub) writePump(p *peer) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		p.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-p.send:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = p.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := p.conn.WriteJSON(msg); err != nil {
				h.log.Warn("peer write failed", "peer", p.id, "error", err)
				return
			}
			if h.metrics != nil {
				h.metrics.MessageOut(string(msg.Type))
			}
		case <-ticker.C:
			_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
