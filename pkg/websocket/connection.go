package websocket

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

func newUpgrader(cfg *Config) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
		EnableCompression: cfg.EnableCompression,
	}
}

// HandleWebSocket upgrades the HTTP request and registers the connection
// with its fixed channel subscriptions.
func HandleWebSocket(hub *Hub, w http.ResponseWriter, r *http.Request, accountID string, channels []string) {
	upgrader := newUpgrader(hub.config)
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Errorf("websocket upgrade failed: %v", err)
		return
	}

	if hub.config.EnableCompression {
		conn.EnableWriteCompression(true)
	}

	channelSet := make(map[string]bool, len(channels))
	for _, channel := range channels {
		channelSet[channel] = true
	}

	connection := &Connection{
		ID:        generateConnectionID(),
		AccountID: accountID,
		Conn:      conn,
		Send:      make(chan []byte, hub.config.MessageBufferSize),
		Hub:       hub,
		LastPing:  time.Now(),
		IsAlive:   true,
		Channels:  channelSet,
	}

	hub.register <- connection

	go connection.writePump()
	go connection.readPump()
}

func generateConnectionID() string {
	return fmt.Sprintf("conn_%d", time.Now().UnixNano())
}

// readPump consumes client messages. Clients only ever send pings; the
// event stream is strictly server-to-client.
func (c *Connection) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(int64(c.Hub.config.MaxMessageSize))
	c.Conn.SetReadDeadline(time.Now().Add(c.Hub.config.ConnectionTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.mu.Lock()
		c.LastPing = time.Now()
		c.mu.Unlock()
		c.Conn.SetReadDeadline(time.Now().Add(c.Hub.config.ConnectionTimeout))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.Errorf("websocket read error: %v", err)
			}
			break
		}
		c.handleMessage(message)
	}
}

func (c *Connection) writePump() {
	interval := c.Hub.config.HeartbeatInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(time.Duration(float64(interval) * 0.9))
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			_, _ = w.Write(message)

			// drain whatever else is queued into the same frame batch
			n := len(c.Send)
			for i := 0; i < n; i++ {
				_, _ = w.Write([]byte{'\n'})
				_, _ = w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Connection) handleMessage(message []byte) {
	var msg struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(message, &msg); err != nil {
		logrus.Debugf("unparseable client message: %v", err)
		return
	}

	switch msg.Type {
	case MessageTypePing:
		c.handlePing()
	default:
		logrus.Debugf("ignoring client message type: %s", msg.Type)
	}
}

func (c *Connection) handlePing() {
	c.mu.Lock()
	c.LastPing = time.Now()
	c.mu.Unlock()

	data, _ := json.Marshal(map[string]interface{}{
		"type":      MessageTypePong,
		"timestamp": time.Now().Unix(),
	})
	select {
	case c.Send <- data:
	default:
		logrus.Debugf("connection %s send buffer full", c.ID)
	}
}

// SubscribedTo reports whether this connection receives the channel.
func (c *Connection) SubscribedTo(channel string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Channels[channel]
}
