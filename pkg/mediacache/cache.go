/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package mediacache keeps loaded media handles within a device memory budget.
package mediacache

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/carverauto/adscreen/pkg/logger"
	"github.com/carverauto/adscreen/pkg/models"
)

//go:generate mockgen -destination=mock_mediacache.go -package=mediacache github.com/carverauto/adscreen/pkg/mediacache Fetcher

var (
	// ErrEmptySource is returned when Load is called without a source.
	ErrEmptySource = errors.New("empty media source")
	// ErrLoadFailed wraps the fetch error after the optimized variant and the original both failed.
	ErrLoadFailed = errors.New("media load failed")
	// ErrAssetTooLarge is returned when a single asset's footprint exceeds the whole budget.
	ErrAssetTooLarge = errors.New("media asset exceeds cache budget")
)

const (
	bytesPerPixel        = 4
	defaultEvictFraction = 0.3
	defaultFetchTimeout  = 30 * time.Second
)

// Fetcher retrieves and inspects a media asset.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Asset, error)
}

// Asset is what a Fetcher learned about a media object.
type Asset struct {
	MIME          string
	Kind          MediaKind
	Width         int
	Height        int
	TransferBytes int64
}

// LoadOptions tune a single Load.
type LoadOptions struct {
	Kind MediaKind
	// Size is the rendered size, used to bound the variant and when the asset
	// does not report its own dimensions.
	Size models.Resolution
}

// Handle is a loaded media object held by the cache.
type Handle struct {
	Key       string
	URL       string
	MIME      string
	Kind      MediaKind
	Width     int
	Height    int
	SizeBytes int64
	Optimized bool
}

// Stats is a point-in-time view of the cache.
type Stats struct {
	Entries   int   `json:"entries"`
	Usage     int64 `json:"usage_bytes"`
	Budget    int64 `json:"budget_bytes"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Coalesced int64 `json:"coalesced"`
	Evictions int64 `json:"evictions"`
	Failures  int64 `json:"failures"`
}

type entry struct {
	handle   *Handle
	size     int64
	lastUsed time.Time
	seq      uint64
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces the recency clock.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithEvictFraction sets the share of entries removed by one eviction pass.
func WithEvictFraction(f float64) Option {
	return func(c *Cache) {
		if f > 0 && f <= 1 {
			c.evictFraction = f
		}
	}
}

// WithFetchTimeout bounds a single underlying fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.fetchTimeout = d
		}
	}
}

// Cache is a memory-budgeted store of media handles with request coalescing
// and least-recently-used eviction.
type Cache struct {
	profile       Profile
	fetcher       Fetcher
	logger        logger.Logger
	now           func() time.Time
	evictFraction float64
	fetchTimeout  time.Duration

	group singleflight.Group

	mu      sync.Mutex
	entries map[string]*entry
	usage   int64
	seq     uint64
	gen     uint64
	stats   Stats
}

// New creates a cache governed by profile.
func New(profile Profile, fetcher Fetcher, log logger.Logger, opts ...Option) *Cache {
	c := &Cache{
		profile:       profile,
		fetcher:       fetcher,
		logger:        log,
		now:           time.Now,
		evictFraction: defaultEvictFraction,
		fetchTimeout:  defaultFetchTimeout,
		entries:       make(map[string]*entry),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Profile returns the policy the cache was built with.
func (c *Cache) Profile() Profile {
	return c.profile
}

// Load returns the handle for src, loading it on a miss. Concurrent loads of
// the same src share one underlying fetch.
func (c *Cache) Load(ctx context.Context, src string, opts LoadOptions) (*Handle, error) {
	if src == "" {
		return nil, ErrEmptySource
	}

	if h, ok := c.touch(src); ok {
		return h, nil
	}

	// the shared fetch must not die with whichever caller happened to start it
	fetchCtx := context.WithoutCancel(ctx)
	gen := c.generation()

	var leader bool

	ch := c.group.DoChan(strconv.FormatUint(gen, 10)+"|"+src, func() (interface{}, error) {
		leader = true

		if h, ok := c.touch(src); ok {
			return h, nil
		}

		return c.load(fetchCtx, src, opts, gen)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared && !leader {
			c.mu.Lock()
			c.stats.Coalesced++
			c.mu.Unlock()
		}

		if res.Err != nil {
			return nil, res.Err
		}

		return res.Val.(*Handle), nil
	}
}

func (c *Cache) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.gen
}

// Get returns a cached handle without loading.
func (c *Cache) Get(src string) (*Handle, bool) {
	return c.touch(src)
}

func (c *Cache) touch(key string) (*Handle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	c.seq++
	e.lastUsed = c.now()
	e.seq = c.seq
	c.stats.Hits++

	return e.handle, true
}

func (c *Cache) load(ctx context.Context, src string, opts LoadOptions, gen uint64) (*Handle, error) {
	c.mu.Lock()
	c.stats.Misses++
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	variant := c.profile.VariantURL(src, opts)
	loadedURL := variant

	asset, err := c.fetcher.Fetch(ctx, variant)
	if err != nil && variant != src {
		c.logger.Debug().Err(err).Str("src", src).Str("variant", variant).Msg("Optimized variant failed, loading original")

		loadedURL = src
		asset, err = c.fetcher.Fetch(ctx, src)
	}

	if err != nil {
		c.mu.Lock()
		c.stats.Failures++
		c.mu.Unlock()

		return nil, fmt.Errorf("%w: %s: %w", ErrLoadFailed, src, err)
	}

	h := c.newHandle(src, loadedURL, asset, opts)

	cached, err := c.insert(h, gen)
	if err != nil {
		c.logger.Warn().Err(err).Str("src", src).Int64("size_bytes", h.SizeBytes).Msg("Media not cached")
		return nil, err
	}

	if !cached {
		c.logger.Debug().Str("src", src).Msg("Cache cleared during load, handle not retained")
		return h, nil
	}

	c.logger.Debug().
		Str("src", src).
		Bool("optimized", h.Optimized).
		Int64("size_bytes", h.SizeBytes).
		Msg("Media loaded")

	return h, nil
}

func (c *Cache) newHandle(src, loadedURL string, asset *Asset, opts LoadOptions) *Handle {
	dims := models.Resolution{Width: asset.Width, Height: asset.Height}
	if dims.IsZero() {
		dims = opts.Size
	}

	if dims.IsZero() {
		dims = c.profile.MaxDimensions
	}

	kind := asset.Kind
	if kind == "" {
		kind = opts.Kind
	}

	if kind == "" {
		kind = KindOf(src)
	}

	return &Handle{
		Key:       src,
		URL:       loadedURL,
		MIME:      asset.MIME,
		Kind:      kind,
		Width:     dims.Width,
		Height:    dims.Height,
		SizeBytes: EstimateFootprint(dims),
		Optimized: loadedURL != src,
	}
}

// EstimateFootprint approximates decoded memory as pixel area times a fixed per-pixel cost.
func EstimateFootprint(dims models.Resolution) int64 {
	if dims.IsZero() {
		return 0
	}

	return dims.Pixels() * bytesPerPixel
}

// insert stores h unless the cache was cleared after the load of generation
// gen began, in which case it reports false and keeps nothing.
func (c *Cache) insert(h *Handle, gen uint64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if h.SizeBytes > c.profile.Budget {
		return false, fmt.Errorf("%w: %d > %d", ErrAssetTooLarge, h.SizeBytes, c.profile.Budget)
	}

	if gen != c.gen {
		return false, nil
	}

	if old, ok := c.entries[h.Key]; ok {
		c.usage -= old.size
		delete(c.entries, h.Key)
	}

	if projected := c.usage + h.SizeBytes; projected > c.profile.Budget {
		need := projected - c.profile.Budget
		freed, removed := c.evictLocked(c.evictQuota(), need)

		if freed < need {
			// quota exhausted while still over budget: keep going, oldest first
			more, extra := c.evictLocked(len(c.entries), need-freed)
			freed += more
			removed += extra
		}

		c.logger.Debug().
			Int("evicted", removed).
			Int64("freed_bytes", freed).
			Int64("usage_bytes", c.usage).
			Msg("Media cache eviction")
	}

	c.seq++
	c.entries[h.Key] = &entry{handle: h, size: h.SizeBytes, lastUsed: c.now(), seq: c.seq}
	c.usage += h.SizeBytes

	return true, nil
}

func (c *Cache) evictQuota() int {
	n := int(math.Ceil(float64(len(c.entries)) * c.evictFraction))
	return max(n, 1)
}

// evictLocked removes up to limit entries, least recently used first, stopping
// once need bytes have been freed.
func (c *Cache) evictLocked(limit int, need int64) (freed int64, removed int) {
	if limit <= 0 || len(c.entries) == 0 {
		return 0, 0
	}

	candidates := make([]string, 0, len(c.entries))
	for key := range c.entries {
		candidates = append(candidates, key)
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := c.entries[candidates[i]], c.entries[candidates[j]]
		if !a.lastUsed.Equal(b.lastUsed) {
			return a.lastUsed.Before(b.lastUsed)
		}

		return a.seq < b.seq
	})

	for _, key := range candidates {
		if removed >= limit || freed >= need {
			break
		}

		e := c.entries[key]
		delete(c.entries, key)
		c.usage -= e.size
		freed += e.size
		removed++
	}

	c.stats.Evictions += int64(removed)

	return freed, removed
}

// Evict removes up to n least recently used entries and returns how many were removed.
func (c *Cache) Evict(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, removed := c.evictLocked(n, math.MaxInt64)

	return removed
}

// Clear drops every entry and resets usage. Loads already in flight complete
// for their callers but are not retained.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*entry)
	c.usage = 0
	c.gen++
}

// Usage returns the tracked memory usage in bytes.
func (c *Cache) Usage() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.usage
}

// Stats returns cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Entries = len(c.entries)
	s.Usage = c.usage
	s.Budget = c.profile.Budget

	return s
}
