package qr

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto/v2"
)

// CachedEncoder memoizes PNGs; the same text and options always produce the
// same image.
type CachedEncoder struct {
	next  Encoder
	cache *ristretto.Cache[string, []byte]
}

func NewCachedEncoder(next Encoder, maxBytes int64) (*CachedEncoder, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: 10_000,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("qr cache: %w", err)
	}
	return &CachedEncoder{next: next, cache: c}, nil
}

func (c *CachedEncoder) Encode(ctx context.Context, text string, opts Options) ([]byte, error) {
	key := opts.key() + "|" + text
	if b, ok := c.cache.Get(key); ok {
		return b, nil
	}

	b, err := c.next.Encode(ctx, text, opts)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, b, int64(len(b)))
	c.cache.Wait()
	return b, nil
}

func (c *CachedEncoder) Close() { c.cache.Close() }
