package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis holds the shared client behind the attendance queue and the health
// endpoint.
type Redis struct {
	Client *redis.Client
}

// NewRedis dials redis and verifies connectivity. Timeouts cover short queue
// pushes and pings; blocking queue reads negotiate their own deadline per
// command. Like NewDB, a failed ping still returns a usable handle so the
// server can come up degraded.
func NewRedis(ctx context.Context, addr string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 2 * time.Second,
		MinIdleConns: 1,
	})
	r := &Redis{Client: client}
	if err := client.Ping(ctx).Err(); err != nil {
		return r, err
	}
	return r, nil
}

// Healthy reports whether redis answers a ping within the caller's deadline.
func (r *Redis) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}

// Close releases the client's pooled connections.
func (r *Redis) Close() error {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Close()
}
