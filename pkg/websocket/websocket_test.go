package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	constants "RescueHub/pkg/constant"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConnection(id, accountID string, channels ...string) *Connection {
	channelSet := make(map[string]bool)
	for _, channel := range channels {
		channelSet[channel] = true
	}
	return &Connection{
		ID:        id,
		AccountID: accountID,
		Send:      make(chan []byte, 16),
		LastPing:  time.Now(),
		IsAlive:   true,
		Channels:  channelSet,
	}
}

func TestNewHub(t *testing.T) {
	hub := NewHub(nil)
	assert.NotNil(t, hub)
	assert.Equal(t, int64(100000), hub.config.MaxConnections)
	assert.Equal(t, 30*time.Second, hub.config.HeartbeatInterval)

	hub.Close()
}

func TestHubConnectionManagement(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Close()

	conn := testConnection("test_conn_1", "acc_1", ChannelAdmin)

	hub.register <- conn
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, int64(1), hub.GetConnectionCount())
	assert.Equal(t, 1, hub.GetChannelConnections(ChannelAdmin))

	hub.unregister <- conn
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, int64(0), hub.GetConnectionCount())
	assert.Equal(t, 0, hub.GetChannelConnections(ChannelAdmin))
}

func TestPublishReachesOnlySubscribedChannels(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Close()

	admin := testConnection("conn_admin", "acc_admin", ChannelAdmin)
	team := testConnection("conn_team", "acc_team", TeamChannel("t1"))
	other := testConnection("conn_other", "acc_other", TeamChannel("t2"))

	hub.register <- admin
	hub.register <- team
	hub.register <- other
	time.Sleep(100 * time.Millisecond)

	hub.Publish([]string{ChannelAdmin, TeamChannel("t1")}, EventNewTask, map[string]interface{}{
		"assignment_id": "a1",
	})
	time.Sleep(100 * time.Millisecond)

	require.Len(t, admin.Send, 1)
	require.Len(t, team.Send, 1)
	assert.Len(t, other.Send, 0)

	var envelope Envelope
	require.NoError(t, json.Unmarshal(<-team.Send, &envelope))
	assert.Equal(t, EventNewTask, envelope.Event)
	assert.Equal(t, "a1", envelope.Data["assignment_id"])

	hub.unregister <- admin
	hub.unregister <- team
	hub.unregister <- other
	time.Sleep(100 * time.Millisecond)
}

func TestPublishToEmptyChannelIsSilent(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Close()

	// no subscribers: event is dropped, publisher never notices
	hub.Publish([]string{TeamChannel("ghost")}, EventTaskUpdate, map[string]interface{}{"x": 1})
}

func TestPublishDropsOnFullBuffer(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Close()

	conn := testConnection("conn_slow", "acc_slow", ChannelAdmin)
	conn.Send = make(chan []byte, 1)

	hub.register <- conn
	time.Sleep(100 * time.Millisecond)

	hub.Publish([]string{ChannelAdmin}, EventTaskUpdate, map[string]interface{}{"n": 1})
	hub.Publish([]string{ChannelAdmin}, EventTaskUpdate, map[string]interface{}{"n": 2})
	time.Sleep(100 * time.Millisecond)

	// second delivery dropped, no blocking
	assert.Len(t, conn.Send, 1)

	hub.unregister <- conn
	time.Sleep(100 * time.Millisecond)
}

func TestForwardRawEnvelope(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Close()

	conn := testConnection("conn_fwd", "acc_fwd", UserChannel("u1"))
	hub.register <- conn
	time.Sleep(100 * time.Millisecond)

	raw, _ := json.Marshal(Envelope{Event: EventTaskCompleted, Data: map[string]interface{}{"ok": true}})
	hub.Forward(UserChannel("u1"), raw)
	time.Sleep(50 * time.Millisecond)

	require.Len(t, conn.Send, 1)

	hub.unregister <- conn
	time.Sleep(100 * time.Millisecond)
}

func TestWebSocketHandlerRejectsAnonymous(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Close()

	handler := NewHandler(hub, func(accountID, role string) []string {
		return []string{ChannelAdmin}
	})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/ws/map", nil)

	handler.HandleWebSocket(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebSocketHandlerRejectsUnresolvableChannels(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Close()

	handler := NewHandler(hub, func(accountID, role string) []string {
		return nil
	})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/ws/map", nil)
	c.Set(constants.AccountIDField, "acc_1")
	c.Set(constants.RoleField, constants.RoleRescuer)

	handler.HandleWebSocket(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandlerStats(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Close()

	handler := NewHandler(hub, func(accountID, role string) []string { return nil })

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/ws/stats", nil)

	handler.GetStats(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Contains(t, stats, "total_connections")
}
