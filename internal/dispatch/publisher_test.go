package dispatch

import (
	"testing"
	"time"

	"RescueHub/pkg/websocket"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventPublisherSingleDeliveryPath(t *testing.T) {
	hub := websocket.NewHub(nil)
	defer hub.Close()

	local := NewEventPublisher(hub, nil)
	_, isHub := local.(*HubPublisher)
	assert.True(t, isHub)

	// with redis mirroring the broker is the only publish target; the
	// bridge is the sole path back into the local hub, so publishing to
	// the hub directly here would double every local delivery
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379"})
	defer client.Close()
	mirrored := NewEventPublisher(hub, client)
	_, isRedis := mirrored.(*RedisPublisher)
	assert.True(t, isRedis)
	_, alsoHub := mirrored.(*HubPublisher)
	assert.False(t, alsoHub)
}

func TestHubPublisherDeliversOncePerSubscriber(t *testing.T) {
	hub := websocket.NewHub(nil)
	defer hub.Close()

	conn := &websocket.Connection{
		ID:        "conn_pub_once",
		AccountID: "acc_1",
		Send:      make(chan []byte, 16),
		LastPing:  time.Now(),
		IsAlive:   true,
		Channels:  map[string]bool{websocket.ChannelAdmin: true},
	}
	hub.Register(conn)
	time.Sleep(100 * time.Millisecond)

	pub := NewEventPublisher(hub, nil)
	pub.Publish([]string{websocket.ChannelAdmin}, websocket.EventTaskUpdate, map[string]interface{}{"n": 1})
	time.Sleep(100 * time.Millisecond)

	require.Len(t, conn.Send, 1)

	hub.Unregister(conn)
	time.Sleep(100 * time.Millisecond)
}
