package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

const FunkosChannel = "notifications:funkos"

// Broker fans serialized notifications out to subscribers of a channel.
type Broker interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	// Subscribe returns a message stream and a cancel func that must be
	// called to release it. The stream is closed after cancel.
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error)
}

// Publish serializes n and sends it on channel.
func Publish[T any](ctx context.Context, b Broker, channel string, n Notification[T]) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	return b.Publish(ctx, channel, payload)
}

// LocalBroker delivers within the process. Slow subscribers drop messages
// instead of blocking publishers.
type LocalBroker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
	buf  int
}

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{subs: make(map[string]map[chan []byte]struct{}), buf: 16}
}

func (b *LocalBroker) Publish(_ context.Context, channel string, payload []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs[channel] {
		select {
		case ch <- payload:
		default:
		}
	}
	return nil
}

func (b *LocalBroker) Subscribe(_ context.Context, channel string) (<-chan []byte, func(), error) {
	ch := make(chan []byte, b.buf)

	b.mu.Lock()
	if b.subs[channel] == nil {
		b.subs[channel] = make(map[chan []byte]struct{})
	}
	b.subs[channel][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[channel], ch)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel, nil
}

// RedisBroker uses Redis pub/sub so every API instance sees every change.
type RedisBroker struct {
	rdb *redis.Client
}

func NewRedisBroker(rdb *redis.Client) *RedisBroker {
	return &RedisBroker{rdb: rdb}
}

func (b *RedisBroker) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := b.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", channel, err)
	}
	return nil
}

func (b *RedisBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error) {
	ps := b.rdb.Subscribe(ctx, channel)
	// Wait for the subscription confirmation so no message published after
	// Subscribe returns is missed.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, fmt.Errorf("redis subscribe %s: %w", channel, err)
	}

	out := make(chan []byte, 16)
	done := make(chan struct{})
	go func() {
		defer close(out)
		msgs := ps.Channel()
		for {
			select {
			case <-done:
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- []byte(m.Payload):
				default:
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = ps.Close()
		})
	}
	return out, cancel, nil
}
