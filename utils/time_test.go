package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestElapsedDays(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	// 24h59m is still one whole day
	assert.Equal(t, 1, ElapsedDays(now.Add(-(24*time.Hour+59*time.Minute)), now))

	assert.Equal(t, 0, ElapsedDays(now.Add(-23*time.Hour), now))
	assert.Equal(t, 30, ElapsedDays(now.AddDate(0, 0, -30), now))

	// Future and zero references never go negative
	assert.Equal(t, 0, ElapsedDays(now.Add(time.Hour), now))
	assert.Equal(t, 0, ElapsedDays(time.Time{}, now))
}

func TestUTCNowIsUTC(t *testing.T) {
	assert.Equal(t, time.UTC, UTCNow().Location())
}
