package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"RescueHub/pkg/metrics"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Envelope is the wire format of every realtime event. UUIDs and
// timestamps inside Data are rendered as strings by the producers.
type Envelope struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

// Connection represents one live websocket client. Its channel set is fixed
// at connect time from the resolved identity.
type Connection struct {
	ID        string
	AccountID string
	Conn      *websocket.Conn
	Send      chan []byte
	Hub       *Hub
	LastPing  time.Time
	IsAlive   bool
	Channels  map[string]bool
	mu        sync.RWMutex
}

// Hub fans events out to subscribed connections. Delivery is at-most-once
// and never blocks the publisher: a full send buffer means the event is
// dropped for that connection.
type Hub struct {
	connections        map[string]*Connection
	channelConnections map[string]map[string]bool
	register           chan *Connection
	unregister         chan *Connection
	connectionCount    int64
	config             *Config
	mu                 sync.RWMutex
	ctx                context.Context
	cancel             context.CancelFunc
}

// NewHub creates a hub and starts its supervision loop.
func NewHub(config *Config) *Hub {
	if config == nil {
		config = DefaultConfig()
	}

	ctx, cancel := context.WithCancel(context.Background())

	hub := &Hub{
		connections:        make(map[string]*Connection),
		channelConnections: make(map[string]map[string]bool),
		register:           make(chan *Connection, 1000),
		unregister:         make(chan *Connection, 1000),
		config:             config,
		ctx:                ctx,
		cancel:             cancel,
	}

	go hub.run()
	return hub
}

func (h *Hub) run() {
	ticker := time.NewTicker(h.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return
		case conn := <-h.register:
			h.registerConnection(conn)
		case conn := <-h.unregister:
			h.unregisterConnection(conn)
		case <-ticker.C:
			h.checkHeartbeats()
		}
	}
}

// Register queues a connection for registration.
func (h *Hub) Register(conn *Connection) { h.register <- conn }

// Unregister queues a connection for removal.
func (h *Hub) Unregister(conn *Connection) { h.unregister <- conn }

// Publish delivers one event to every live subscriber of the given
// channels. Fire-and-forget: serialization or delivery problems are logged
// and swallowed, the caller never sees them.
func (h *Hub) Publish(channels []string, event string, payload map[string]interface{}) {
	data, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		logrus.Errorf("event %s serialization failed: %v", event, err)
		metrics.EventsDropped.Inc()
		return
	}
	metrics.EventsPublished.WithLabelValues(event).Inc()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, channel := range channels {
		h.sendToChannel(channel, data)
	}
}

// Forward pushes an already-serialized envelope into one local channel.
// Used by the redis bridge when another instance published the event.
func (h *Hub) Forward(channel string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	h.sendToChannel(channel, data)
}

// sendToChannel requires h.mu to be held. A channel with no subscribers is
// not an error; the event is simply dropped.
func (h *Hub) sendToChannel(channel string, data []byte) {
	members, exists := h.channelConnections[channel]
	if !exists {
		return
	}
	for connID := range members {
		if conn, ok := h.connections[connID]; ok && conn.IsAlive {
			h.trySend(conn, data)
		}
	}
}

// trySend applies the backpressure policy.
func (h *Hub) trySend(conn *Connection, data []byte) {
	if h.config.DropOnFull {
		select {
		case conn.Send <- data:
		default:
			metrics.EventsDropped.Inc()
			logrus.Debugf("connection %s send buffer full, event dropped", conn.ID)
		}
		return
	}
	timeout := h.config.SendTimeout
	if timeout <= 0 {
		timeout = 50 * time.Millisecond
	}
	select {
	case conn.Send <- data:
	case <-time.After(timeout):
		metrics.EventsDropped.Inc()
		logrus.Debugf("connection %s send timed out, event dropped", conn.ID)
	}
}

func (h *Hub) registerConnection(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if atomic.LoadInt64(&h.connectionCount) >= h.config.MaxConnections {
		if conn.Conn != nil {
			conn.Conn.Close()
		}
		logrus.Warnf("connection limit reached: %d", h.config.MaxConnections)
		return
	}

	h.connections[conn.ID] = conn
	atomic.AddInt64(&h.connectionCount, 1)
	metrics.WebsocketConnections.Inc()

	for channel := range conn.Channels {
		if h.channelConnections[channel] == nil {
			h.channelConnections[channel] = make(map[string]bool)
		}
		h.channelConnections[channel][conn.ID] = true
	}

	logrus.Infof("websocket registered: %s account=%s channels=%d connections=%d",
		conn.ID, conn.AccountID, len(conn.Channels), atomic.LoadInt64(&h.connectionCount))
}

func (h *Hub) unregisterConnection(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.connections[conn.ID]; exists {
		delete(h.connections, conn.ID)
		atomic.AddInt64(&h.connectionCount, -1)
		metrics.WebsocketConnections.Dec()

		for channel := range conn.Channels {
			if h.channelConnections[channel] != nil {
				delete(h.channelConnections[channel], conn.ID)
				if len(h.channelConnections[channel]) == 0 {
					delete(h.channelConnections, channel)
				}
			}
		}

		close(conn.Send)
		logrus.Infof("websocket unregistered: %s connections=%d",
			conn.ID, atomic.LoadInt64(&h.connectionCount))
	}
}

func (h *Hub) checkHeartbeats() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	now := time.Now()
	for _, conn := range h.connections {
		if now.Sub(conn.LastPing) > h.config.ConnectionTimeout {
			logrus.Warnf("connection %s heartbeat timed out", conn.ID)
			conn.IsAlive = false
			if conn.Conn != nil {
				conn.Conn.Close()
			}
		}
	}
}

// GetConnectionCount returns the number of registered connections.
func (h *Hub) GetConnectionCount() int64 {
	return atomic.LoadInt64(&h.connectionCount)
}

// GetChannelConnections returns the subscriber count of one channel.
func (h *Hub) GetChannelConnections(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if members, exists := h.channelConnections[channel]; exists {
		return len(members)
	}
	return 0
}

// Close shuts the hub down and closes every connection.
func (h *Hub) Close() {
	h.cancel()

	h.mu.Lock()
	for _, conn := range h.connections {
		if conn.Conn != nil {
			conn.Conn.Close()
		}
	}
	h.mu.Unlock()

	logrus.Info("websocket hub closed")
}
