package redis

import (
	"context"
	"sync"
)

// ══════════════════════════════════════════════════════════════════════════════
// PUB/SUB CLIENT
// Thin adapter over go-redis pub/sub, shaped as a plain byte-channel
// API so the messaging layer does not import go-redis directly.
// ══════════════════════════════════════════════════════════════════════════════

// PubSubClient publishes and consumes raw messages on Redis channels.
type PubSubClient struct {
	cache *Cache
	mu    sync.Mutex
	wg    sync.WaitGroup
}

// NewPubSubClient creates a new PubSubClient over an existing cache
// connection.
func NewPubSubClient(cache *Cache) *PubSubClient {
	return &PubSubClient{cache: cache}
}

// Publish sends a payload to a channel.
func (p *PubSubClient) Publish(ctx context.Context, channel string, payload []byte) error {
	if channel == "" {
		return ErrCacheKeyEmpty
	}
	return p.cache.client.Publish(ctx, channel, payload).Err()
}

// Subscribe consumes a channel until ctx is cancelled. The returned
// channel is closed when the subscription ends.
func (p *PubSubClient) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	if channel == "" {
		return nil, ErrCacheKeyEmpty
	}

	sub := p.cache.client.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	out := make(chan []byte)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer close(out)
		defer sub.Close()

		messages := sub.Channel()
		for {
			select {
			case msg, ok := <-messages:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// Close waits for consumer goroutines to finish. The underlying Redis
// connection is owned by the Cache and closed there.
func (p *PubSubClient) Close() error {
	p.wg.Wait()
	return nil
}
