package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-redis/redis"
	"github.com/xpanvictor/ticnote/internal/domains/pipeline"
	"github.com/xpanvictor/ticnote/pkg/Logger"
)

// relayEvent is what travels over the Redis channel.
type relayEvent struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data"`
}

// RedisRelay fans broadcasts out to every instance subscribed to the same
// Redis channel. Each instance, including the publisher, delivers what it
// receives to its own listeners.
type RedisRelay struct {
	client  *redis.Client
	channel string
	manager *ConnectionManager
	logger  *Logger.Logger

	mu     sync.Mutex
	pubsub *redis.PubSub
	// subscribed is true while Run holds a confirmed subscription.
	subscribed atomic.Bool
}

func NewRedisRelay(client *redis.Client, channel string, manager *ConnectionManager, logger *Logger.Logger) *RedisRelay {
	return &RedisRelay{
		client:  client,
		channel: channel,
		manager: manager,
		logger:  logger,
	}
}

// BroadcastAudioProcessed publishes the result. Until this instance is
// subscribed, or when Redis is unreachable, it delivers to the local
// listeners only.
func (r *RedisRelay) BroadcastAudioProcessed(ctx context.Context, result *pipeline.Result) {
	if !r.subscribed.Load() {
		r.manager.BroadcastAudioProcessed(ctx, result)
		return
	}
	if err := r.publish(MessageTypeAudioProcessed, NewAudioProcessedMessage(result)); err != nil {
		r.logger.Warnf("redis publish failed, broadcasting locally: %v", err)
		r.manager.BroadcastAudioProcessed(ctx, result)
	}
}

func (r *RedisRelay) publish(msgType MessageType, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", msgType, err)
	}
	payload, err := json.Marshal(relayEvent{Type: msgType, Data: raw})
	if err != nil {
		return fmt.Errorf("failed to encode relay event: %w", err)
	}
	return r.client.Publish(r.channel, payload).Err()
}

// Run subscribes to the channel and relays events until ctx is done.
func (r *RedisRelay) Run(ctx context.Context) error {
	pubsub := r.client.Subscribe(r.channel)
	// wait for the subscription to be confirmed
	if _, err := pubsub.Receive(); err != nil {
		pubsub.Close()
		return fmt.Errorf("failed to subscribe to %s: %w", r.channel, err)
	}

	r.mu.Lock()
	r.pubsub = pubsub
	r.mu.Unlock()

	r.subscribed.Store(true)
	r.logger.Infof("relaying broadcasts over redis channel %s", r.channel)
	defer r.Close()
	defer r.subscribed.Store(false)

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			r.deliver(msg.Payload)
		}
	}
}

func (r *RedisRelay) deliver(payload string) {
	var event relayEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		r.logger.Warnf("dropping malformed relay event: %v", err)
		return
	}
	r.manager.BroadcastMessage(event.Type, event.Data)
}

func (r *RedisRelay) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pubsub == nil {
		return nil
	}
	err := r.pubsub.Close()
	r.pubsub = nil
	return err
}
