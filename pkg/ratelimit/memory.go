package ratelimit

import (
	"context"
	"hash/fnv"
	"math/rand/v2"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

const shardCount = 16

type window struct {
	count   int
	resetAt time.Time
}

type shard struct {
	mu      sync.Mutex
	windows map[string]*window
}

// Memory is the in-process limiter. Keys are spread over shards so unrelated
// clients never share a lock. The MaxKeys bound is global: a slot is reserved
// before a key is inserted, and live windows are only evicted once every slot
// is taken.
type Memory struct {
	cfg    Config
	shards [shardCount]*shard
	total  atomic.Int64
	now    func() time.Time
	sample func() float64
}

// MemoryOption configures a Memory limiter.
type MemoryOption func(*Memory)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		m.now = now
	}
}

// WithSampler replaces the random source deciding opportunistic sweeps.
func WithSampler(sample func() float64) MemoryOption {
	return func(m *Memory) {
		m.sample = sample
	}
}

// NewMemory creates an in-process limiter.
func NewMemory(cfg Config, opts ...MemoryOption) *Memory {
	cfg = cfg.WithDefaults()

	m := &Memory{
		cfg:    cfg,
		now:    time.Now,
		sample: rand.Float64,
	}

	for i := range m.shards {
		m.shards[i] = &shard{windows: make(map[string]*window)}
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *Memory) Backend() string {
	return "memory"
}

func (m *Memory) Admit(_ context.Context, key string) (Decision, error) {
	now := m.now()
	s := m.shardFor(key)

	s.mu.Lock()
	if w, ok := s.windows[key]; ok {
		decision := m.hit(s, w, now)
		s.mu.Unlock()

		return decision, nil
	}
	s.mu.Unlock()

	// Shard locks are never nested, so the slot is reserved with the
	// shard unlocked.
	m.reserve(now)

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if ok {
		m.total.Add(-1)
	} else {
		w = &window{resetAt: now.Add(m.cfg.Window)}
		s.windows[key] = w
	}

	return m.hit(s, w, now), nil
}

func (m *Memory) Info(_ context.Context, key string) (Decision, error) {
	now := m.now()
	s := m.shardFor(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || !now.Before(w.resetAt) {
		return decide(m.cfg.Limit, 0, now.Add(m.cfg.Window)), nil
	}

	return decide(m.cfg.Limit, w.count, w.resetAt), nil
}

// Len returns the number of tracked keys.
func (m *Memory) Len() int {
	total := 0

	for _, s := range m.shards {
		s.mu.Lock()
		total += len(s.windows)
		s.mu.Unlock()
	}

	return total
}

// hit counts one request against w. The caller holds s.mu.
func (m *Memory) hit(s *shard, w *window, now time.Time) Decision {
	if !now.Before(w.resetAt) {
		w.count = 0
		w.resetAt = now.Add(m.cfg.Window)
	}

	w.count++
	decision := decide(m.cfg.Limit, w.count, w.resetAt)

	if m.sample() < m.cfg.SweepProbability {
		m.total.Add(-int64(s.evictExpired(now)))
	}

	return decision
}

// reserve takes one key slot, evicting when all MaxKeys slots are in use.
func (m *Memory) reserve(now time.Time) {
	limit := int64(m.cfg.MaxKeys)

	for {
		n := m.total.Load()
		if n < limit {
			if m.total.CompareAndSwap(n, n+1) {
				return
			}

			continue
		}

		m.makeRoom(now)
	}
}

// makeRoom drops every expired window. When none has expired it drops the
// live window closest to its reset.
func (m *Memory) makeRoom(now time.Time) {
	freed := 0

	for _, s := range m.shards {
		s.mu.Lock()
		freed += s.evictExpired(now)
		s.mu.Unlock()
	}

	if freed > 0 {
		m.total.Add(-int64(freed))

		return
	}

	var (
		victim    *shard
		victimKey string
		oldest    *window
	)

	for _, s := range m.shards {
		s.mu.Lock()
		if key, w, ok := s.oldest(); ok && (oldest == nil || w.resetAt.Before(oldest.resetAt)) {
			victim, victimKey, oldest = s, key, w
		}
		s.mu.Unlock()
	}

	if victim == nil {
		// Every slot is reserved by an insert still in flight.
		runtime.Gosched()

		return
	}

	victim.mu.Lock()
	if victim.windows[victimKey] == oldest {
		delete(victim.windows, victimKey)
		m.total.Add(-1)
	}
	victim.mu.Unlock()
}

func (m *Memory) shardFor(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))

	return m.shards[h.Sum32()%shardCount]
}

// evictExpired drops expired windows and returns how many it removed.
func (s *shard) evictExpired(now time.Time) int {
	removed := 0

	for key, w := range s.windows {
		if !now.Before(w.resetAt) {
			delete(s.windows, key)
			removed++
		}
	}

	return removed
}

func (s *shard) oldest() (string, *window, bool) {
	var (
		oldestKey string
		oldest    *window
	)

	for key, w := range s.windows {
		if oldest == nil || w.resetAt.Before(oldest.resetAt) {
			oldestKey, oldest = key, w
		}
	}

	return oldestKey, oldest, oldest != nil
}
