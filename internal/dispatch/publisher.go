package dispatch

import (
	"context"
	"encoding/json"
	"strings"

	"RescueHub/pkg/logger"
	"RescueHub/pkg/websocket"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Publisher fans a dispatch event out to its target channels. Delivery is
// best effort everywhere; the engine never waits on a publisher.
type Publisher interface {
	Publish(channels []string, event string, payload map[string]interface{})
}

// HubPublisher delivers straight into the local websocket hub.
type HubPublisher struct {
	hub *websocket.Hub
}

func NewHubPublisher(hub *websocket.Hub) *HubPublisher {
	return &HubPublisher{hub: hub}
}

func (p *HubPublisher) Publish(channels []string, event string, payload map[string]interface{}) {
	p.hub.Publish(channels, event, payload)
}

// redisChannelPrefix namespaces dispatch traffic on the shared broker.
const redisChannelPrefix = "rescue:"

// RedisPublisher mirrors events onto redis pub/sub so every instance
// behind the load balancer can fan out to its own sockets.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(channels []string, event string, payload map[string]interface{}) {
	raw, err := json.Marshal(websocket.Envelope{Event: event, Data: payload})
	if err != nil {
		logger.Error("marshal event for redis", zap.Error(err))
		return
	}
	ctx := context.Background()
	for _, channel := range channels {
		if err := p.client.Publish(ctx, redisChannelPrefix+channel, raw).Err(); err != nil {
			logger.Warn("redis publish failed", zap.String("channel", channel), zap.Error(err))
		}
	}
}

// NewEventPublisher picks the delivery path. Without redis, events go
// straight into the local hub. With redis, they go to the broker ONLY:
// the bridge delivers them back into the local hub exactly like on every
// other instance, so each subscriber sees an event at most once.
func NewEventPublisher(hub *websocket.Hub, client *redis.Client) Publisher {
	if client != nil {
		return NewRedisPublisher(client)
	}
	return NewHubPublisher(hub)
}

// RedisBridge subscribes to the dispatch pattern and forwards raw
// envelopes into the local hub. Run it once per instance.
type RedisBridge struct {
	client *redis.Client
	hub    *websocket.Hub
}

func NewRedisBridge(client *redis.Client, hub *websocket.Hub) *RedisBridge {
	return &RedisBridge{client: client, hub: hub}
}

// Run blocks until ctx is cancelled.
func (b *RedisBridge) Run(ctx context.Context) {
	pubsub := b.client.PSubscribe(ctx, redisChannelPrefix+"*")
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			channel := strings.TrimPrefix(msg.Channel, redisChannelPrefix)
			b.hub.Forward(channel, []byte(msg.Payload))
		}
	}
}
