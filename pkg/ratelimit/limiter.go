// Package ratelimit provides fixed-window admission control keyed by client
// identity, backed by redis or by a bounded in-process map.
package ratelimit

import (
	"context"
	"math"
	"time"
)

// Defaults for Config.
const (
	DefaultLimit            = 10
	DefaultWindow           = 60 * time.Second
	DefaultMaxKeys          = 500
	DefaultSweepProbability = 0.05
	DefaultKeyPrefix        = "seo:ratelimit:"
)

// Config configures a limiter. Zero fields take the defaults.
type Config struct {
	Limit            int
	Window           time.Duration
	MaxKeys          int
	SweepProbability float64
	KeyPrefix        string
}

// WithDefaults returns c with zero fields replaced by the defaults.
func (c Config) WithDefaults() Config {
	if c.Limit <= 0 {
		c.Limit = DefaultLimit
	}

	if c.Window <= 0 {
		c.Window = DefaultWindow
	}

	if c.MaxKeys <= 0 {
		c.MaxKeys = DefaultMaxKeys
	}

	if c.SweepProbability <= 0 || c.SweepProbability > 1 {
		c.SweepProbability = DefaultSweepProbability
	}

	if c.KeyPrefix == "" {
		c.KeyPrefix = DefaultKeyPrefix
	}

	return c
}

// Decision is the outcome of an admission check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter returns the whole seconds until the window resets, at least 1.
func (d Decision) RetryAfter(now time.Time) time.Duration {
	seconds := math.Ceil(d.ResetAt.Sub(now).Seconds())
	if seconds < 1 {
		seconds = 1
	}

	return time.Duration(seconds) * time.Second
}

// Limiter admits or denies calls per key. Implementations are safe for
// concurrent use.
type Limiter interface {
	// Admit counts one attempt for key and reports whether it is allowed.
	Admit(ctx context.Context, key string) (Decision, error)
	// Info reports the current window for key without counting an attempt.
	Info(ctx context.Context, key string) (Decision, error)
	// Backend names the storage in use.
	Backend() string
}

func decide(limit, count int, resetAt time.Time) Decision {
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}
