// internal/store/dedup/dedup.go

// Package dedup provides a best-effort first-claim guard for webhook events,
// backed by redis. The payment provider retries deliveries, so the handler
// claims each event id before fulfilling it.
package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Guard claims event ids. Claim semantics are first-writer-wins with a TTL;
// redis being down degrades to allowing duplicates rather than blocking
// fulfillment.
type Guard struct {
	client *redis.Client
	ttl    time.Duration
	logger Logger
}

func NewGuard(client *redis.Client, ttl time.Duration, log Logger) *Guard {
	return &Guard{
		client: client,
		ttl:    ttl,
		logger: log.With(map[string]interface{}{
			"component": "event-dedup",
		}),
	}
}

func key(eventID string) string {
	return fmt.Sprintf("webhook:event:%s", eventID)
}

// Claim reports whether this call is the first to see eventID. When redis
// is unavailable it logs and claims anyway; duplicate deployments are less
// harmful than dropped ones.
func (g *Guard) Claim(ctx context.Context, eventID string) bool {
	if g.client == nil {
		return true
	}

	ok, err := g.client.SetNX(ctx, key(eventID), time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
	if err != nil {
		g.logger.Warn("dedup store unavailable, processing anyway", map[string]interface{}{
			"eventId": eventID,
			"error":   err.Error(),
		})
		return true
	}

	if !ok {
		g.logger.Info("duplicate event skipped", map[string]interface{}{
			"eventId": eventID,
		})
	}
	return ok
}

// Release drops a claim so a failed fulfillment can be retried by a
// redelivery.
func (g *Guard) Release(ctx context.Context, eventID string) {
	if g.client == nil {
		return
	}
	if err := g.client.Del(ctx, key(eventID)).Err(); err != nil {
		g.logger.Warn("dedup release failed", map[string]interface{}{
			"eventId": eventID,
			"error":   err.Error(),
		})
	}
}
