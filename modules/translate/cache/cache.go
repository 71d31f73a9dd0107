package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Store persists translations. Implementations evict on their own.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, entry Entry) error
	Close() error
}

type Entry struct {
	Key       string
	Value     string
	Provider  string
	CreatedAt time.Time
}

// Key identifies one memoized translation.
type Key struct {
	Text     string
	Lang     string
	Provider string
}

func (k Key) String() string {
	h := sha256.New()
	// NUL separators keep ("ab", "c") and ("a", "bc") apart
	fmt.Fprintf(h, "%s\x00%s\x00%s", k.Provider, k.Lang, k.Text)
	return hex.EncodeToString(h.Sum(nil))
}

type Cache struct {
	l     *zap.Logger
	store Store
	group singleflight.Group
}

func New(store Store, l *zap.Logger) *Cache {
	return &Cache{
		l:     l,
		store: store,
	}
}

// GetOrCompute returns the stored value for key, or runs compute and stores
// its result. Concurrent callers with the same key share one compute call.
// Store failures are logged and never hide a computed value; compute errors
// are returned and not cached.
func (c *Cache) GetOrCompute(ctx context.Context, key Key, compute func(context.Context) (string, error)) (string, error) {
	id := key.String()

	cached, found, err := c.store.Get(ctx, id)
	if err != nil {
		c.l.Warn("failed to read translation cache", zap.String("key", id), zap.Error(err))
	} else if found {
		c.l.Debug("translation cache hit", zap.String("key", id), zap.String("provider", key.Provider))
		return cached, nil
	}

	c.l.Debug("translation cache miss", zap.String("key", id), zap.String("provider", key.Provider))

	ch := c.group.DoChan(id, func() (interface{}, error) {
		// Shared by all callers of id; detached from any single caller's
		// cancellation, providers bound it with their client timeout
		ctx := context.WithoutCancel(ctx)

		value, err := compute(ctx)
		if err != nil {
			return "", err
		}

		err = c.store.Set(ctx, Entry{
			Key:       id,
			Value:     value,
			Provider:  key.Provider,
			CreatedAt: time.Now(),
		})
		if err != nil {
			c.l.Warn("failed to save translation cache", zap.String("key", id), zap.Error(err))
		}

		return value, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res = <-ch:
	}

	if res.Err != nil {
		return "", res.Err
	}

	if res.Shared {
		c.l.Debug("translation shared with concurrent request", zap.String("key", id))
	}

	return res.Val.(string), nil
}

func (c *Cache) Close() error {
	return c.store.Close()
}
