package catalog

import (
	"testing"
	"time"

	"media-tracker/internal/infrastructure/config"
	"media-tracker/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCache(maxSize int, ttl time.Duration) *ResultCache {
	return NewResultCache(&config.CacheConfig{
		Enabled:         true,
		MaxSize:         maxSize,
		TTL:             ttl,
		CleanupInterval: time.Hour,
	})
}

func TestResultCache_DisabledReturnsNil(t *testing.T) {
	c := NewResultCache(&config.CacheConfig{Enabled: false})
	assert.Nil(t, c)
}

func TestResultCache_RoundTrip(t *testing.T) {
	c := testCache(10, time.Hour)
	links := []common.Link{{Provider: "TMDB", URL: "https://www.themoviedb.org/movie/78"}}

	require.NoError(t, c.Set(common.ContentTypeMovie, "Blade Runner", links))

	got, ok := c.Get(common.ContentTypeMovie, "Blade Runner")
	require.True(t, ok)
	assert.Equal(t, links, got)

	// Different type, same title: separate entry.
	_, ok = c.Get(common.ContentTypeBook, "Blade Runner")
	assert.False(t, ok)
}

func TestResultCache_EmptyResultIsCached(t *testing.T) {
	c := testCache(10, time.Hour)

	require.NoError(t, c.Set(common.ContentTypeBook, "Fabricated Title", nil))

	got, ok := c.Get(common.ContentTypeBook, "Fabricated Title")
	assert.True(t, ok, "a failed verification is a cacheable outcome")
	assert.Empty(t, got)
}

func TestResultCache_ExpiredEntryMisses(t *testing.T) {
	c := testCache(10, -time.Nanosecond)

	require.NoError(t, c.Set(common.ContentTypeMovie, "Blade Runner", []common.Link{{Provider: "TMDB"}}))

	_, ok := c.Get(common.ContentTypeMovie, "Blade Runner")
	assert.False(t, ok)
}

func TestResultCache_EvictsWhenFull(t *testing.T) {
	c := testCache(1, time.Hour)

	require.NoError(t, c.Set(common.ContentTypeMovie, "First", []common.Link{{Provider: "TMDB"}}))
	require.NoError(t, c.Set(common.ContentTypeMovie, "Second", []common.Link{{Provider: "TMDB"}}))

	_, ok := c.Get(common.ContentTypeMovie, "First")
	assert.False(t, ok, "oldest entry is evicted at capacity")

	_, ok = c.Get(common.ContentTypeMovie, "Second")
	assert.True(t, ok)
}

func TestResultCache_Stats(t *testing.T) {
	c := testCache(10, time.Hour)
	require.NoError(t, c.Set(common.ContentTypeMovie, "Blade Runner", []common.Link{{Provider: "TMDB"}}))

	c.Get(common.ContentTypeMovie, "Blade Runner")
	c.Get(common.ContentTypeMovie, "Missing")

	stats := c.Stats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
	assert.Equal(t, 1, stats["size"])
}
