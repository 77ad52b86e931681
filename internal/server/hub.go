package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/sepwatch/conflict-probe/internal/sim"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096

	// Position frames are throttled so a fast simulation tick does not
	// flood slow clients. Alerts and acknowledgements always go out.
	updateFramesPerSecond = 5
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The REST layer already applies CORS policy. The scope clients
	// connect from file:// during development, so the handshake accepts
	// any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// inbound is a client request over the socket.
type inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Client is one connected scope display.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans simulation events out to every connected client and feeds their
// commands into the simulator.
type Hub struct {
	sim *sim.Simulator
	log *slog.Logger

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	updateLimiter *rate.Limiter
	tick          time.Duration
}

// NewHub builds a hub over the given simulator. tick is the simulation
// update interval.
func NewHub(s *sim.Simulator, log *slog.Logger, tick time.Duration) *Hub {
	if tick <= 0 {
		tick = 100 * time.Millisecond
	}
	return &Hub{
		sim:           s,
		log:           log,
		clients:       make(map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		broadcast:     make(chan []byte, 64),
		updateLimiter: rate.NewLimiter(updateFramesPerSecond, 1),
		tick:          tick,
	}
}

// Run drives the simulation loop and client bookkeeping until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return

		case c := <-h.register:
			h.clients[c] = true
			h.log.Info("client connected", "client", c.id, "total", len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.log.Info("client disconnected", "client", c.id, "total", len(h.clients))
			}

		case msg := <-h.broadcast:
			h.send(msg)

		case <-ticker.C:
			events := h.sim.Update(h.tick.Seconds())
			h.publish(events)
		}
	}
}

// publish serializes and broadcasts simulator events, rate limiting the
// high-frequency position frames.
func (h *Hub) publish(events []sim.Event) {
	for _, ev := range events {
		if ev.Type == "aircraft_update" && !h.updateLimiter.Allow() {
			continue
		}
		msg, err := json.Marshal(ev)
		if err != nil {
			h.log.Error("marshal event", "type", ev.Type, "error", err)
			continue
		}
		h.send(msg)
	}
}

func (h *Hub) send(msg []byte) {
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			// Slow consumer, drop it.
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// Broadcast queues a message for every connected client.
func (h *Hub) Broadcast(ev sim.Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("marshal broadcast", "type", ev.Type, "error", err)
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn("broadcast queue full, dropping", "type", ev.Type)
	}
}

// ServeWS upgrades the request and starts the client pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", "error", err)
		return
	}

	c := &Client{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, 64),
	}
	h.register <- c

	go c.writePump()
	go c.readPump()
}

// readPump consumes client messages and dispatches them to the simulator.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Warn("websocket read", "client", c.id, "error", err)
			}
			return
		}

		var msg inbound
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.sendError("malformed message")
			continue
		}
		c.dispatch(msg)
	}
}

// dispatch routes one inbound message. Errors go back to the sender only,
// resulting events go to everyone.
func (c *Client) dispatch(msg inbound) {
	h := c.hub
	switch msg.Type {
	case "start_scenario":
		var req struct {
			Level int `json:"level"`
		}
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			c.sendError("start_scenario needs a level")
			return
		}
		if _, err := h.sim.StartScenario(req.Level); err != nil {
			c.sendError(err.Error())
			return
		}

	case "command":
		var req struct {
			Callsign string  `json:"callsign"`
			Command  string  `json:"command"`
			Value    float64 `json:"value"`
		}
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			c.sendError("malformed command")
			return
		}
		if err := h.sim.ExecuteCommand(req.Callsign, req.Command, req.Value); err != nil {
			c.sendError(err.Error())
			return
		}

	case "pause":
		paused := h.sim.TogglePause()
		h.Broadcast(sim.Event{Type: "system_message", Data: map[string]interface{}{
			"paused": paused,
		}})
		return

	case "reset":
		h.sim.Reset()

	default:
		c.sendError("unknown message type " + msg.Type)
		return
	}

	// Commands and scenario starts queue their events inside the
	// simulator. Flush them now instead of waiting for the next tick.
	for _, ev := range h.sim.Drain() {
		h.Broadcast(ev)
	}
}

func (c *Client) sendError(text string) {
	msg, err := json.Marshal(sim.Event{Type: "error", Data: map[string]interface{}{
		"message": text,
	}})
	if err != nil {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

// writePump pushes queued messages to the connection and keeps it alive
// with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
