package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestIPLimitersEvictIdle(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l := newIPLimiters(rate.Limit(1), 1)
	l.now = func() time.Time { return now }

	quiet := l.get("10.0.0.1")
	assert.True(t, quiet.Allow())
	l.get("10.0.0.2")

	now = now.Add(limiterIdleTTL / 2)
	l.get("10.0.0.2")

	now = now.Add(limiterIdleTTL/2 + time.Second)
	l.get("10.0.0.3")
	assert.Len(t, l.limiters, 2)
	assert.NotContains(t, l.limiters, "10.0.0.1")
	assert.Contains(t, l.limiters, "10.0.0.2")

	// an evicted client starts over with a fresh bucket
	assert.NotSame(t, quiet, l.get("10.0.0.1"))
}
