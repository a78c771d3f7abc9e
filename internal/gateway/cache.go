package gateway

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// responseCache serves identical requests from memory within a short TTL to
// reduce redundant spend. Capacity-bounded with LRU eviction. A nil cache
// is valid and caches nothing.
type responseCache struct {
	lru *expirable.LRU[string, Response]
}

func newResponseCache(size int, ttl time.Duration) *responseCache {
	return &responseCache{lru: expirable.NewLRU[string, Response](size, nil, ttl)}
}

func (c *responseCache) get(req Request) (*Response, bool) {
	if c == nil {
		return nil, false
	}
	cached, ok := c.lru.Get(fingerprint(req))
	if !ok {
		return nil, false
	}
	cached.Cached = true
	cached.Retries = 0
	return &cached, true
}

func (c *responseCache) put(req Request, resp *Response) {
	if c == nil {
		return
	}
	c.lru.Add(fingerprint(req), *resp)
}

// fingerprint keys the cache by the normalized request: same model, prompt
// and parameters hash to the same entry.
func fingerprint(req Request) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%.3f\x00%s\x00%s", req.Model, req.Temperature, req.System, req.User)
	return hex.EncodeToString(h.Sum(nil))
}
