// Package lookupcache caches background property lookups in Redis, keyed by
// the canonical form of the address. Stale hits are served as-is and
// refreshed in the background when a Refresher is attached.
package lookupcache

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/sanathboddhula/real-estate-AI-marketer/flyerapi"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/canon"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/redisx"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/refresh"
)

// ErrCachedMiss is returned while a recent "not found" answer is cached.
var ErrCachedMiss = errors.New("property not found (cached)")

type Cache struct {
	Redis *redisx.Client
	// TTL for hits and for not-found markers.
	TTL     time.Duration
	MissTTL time.Duration
	// StaleAfter is how old a hit may be before it is refreshed. Refresh is
	// nil when stale hits are simply served until they expire.
	StaleAfter time.Duration
	Refresh    *refresh.Refresher
}

func New(rdb *redisx.Client, ttl, missTTL time.Duration) *Cache {
	return &Cache{Redis: rdb, TTL: maxDur(ttl, time.Hour), MissTTL: maxDur(missTTL, 5*time.Minute)}
}

// WithRefresh enables stale-while-revalidate.
func (c *Cache) WithRefresh(r *refresh.Refresher, staleAfter time.Duration) *Cache {
	c.Refresh = r
	c.StaleAfter = maxDur(staleAfter, 10*time.Minute)
	return c
}

type entry struct {
	Data       *flyerapi.PropertyData `json:"data"`
	FetchedAt  time.Time              `json:"fetched_at"`
	StaleAfter time.Time              `json:"stale_after"`
}

func (e entry) stale(now time.Time) bool {
	return !e.StaleAfter.IsZero() && now.After(e.StaleAfter)
}

// Lookup serves the address from cache or calls fetch and stores the result.
// Redis errors degrade to a direct fetch.
func (c *Cache) Lookup(ctx context.Context, address string, fetch func(context.Context) (*flyerapi.PropertyData, error)) (*flyerapi.PropertyData, error) {
	key := canon.Key(address)
	if key == "" {
		return fetch(ctx)
	}
	missKey := "lookup:miss:" + key
	cacheKey := "lookup:pk:" + key

	if ok, err := c.Redis.Exists(ctx, missKey); err == nil && ok {
		return nil, ErrCachedMiss
	}
	var e entry
	found, err := c.Redis.GetJSON(ctx, cacheKey, &e)
	if err != nil {
		log.Printf("[WARN] lookup cache read %s: %v", key, err)
	}
	if found && e.Data != nil {
		if c.Refresh != nil && e.stale(time.Now()) {
			c.Refresh.Enqueue(refresh.Job{Key: key, Run: func(ctx context.Context) error {
				_, err := c.fill(ctx, key, fetch)
				return err
			}})
		}
		return e.Data, nil
	}
	return c.fill(ctx, key, fetch)
}

// fill calls fetch and stores the answer, or a miss marker on "not found".
func (c *Cache) fill(ctx context.Context, key string, fetch func(context.Context) (*flyerapi.PropertyData, error)) (*flyerapi.PropertyData, error) {
	data, err := fetch(ctx)
	if err != nil {
		if be, ok := flyerapi.AsError(err); ok && be.NotFound() {
			if serr := c.Redis.Set(ctx, "lookup:miss:"+key, "1", c.MissTTL); serr != nil {
				log.Printf("[WARN] lookup cache miss marker %s: %v", key, serr)
			}
		}
		return nil, err
	}
	now := time.Now().UTC()
	e := entry{Data: data, FetchedAt: now}
	if c.Refresh != nil {
		e.StaleAfter = now.Add(c.StaleAfter)
	}
	if serr := c.Redis.SetJSON(ctx, "lookup:pk:"+key, e, c.TTL); serr != nil {
		log.Printf("[WARN] lookup cache write %s: %v", key, serr)
	}
	return data, nil
}

func maxDur(a, b time.Duration) time.Duration {
	if a > 0 {
		return a
	}
	return b
}
