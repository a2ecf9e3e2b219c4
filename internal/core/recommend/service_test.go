package recommend

import (
	"context"
	"errors"
	"sync"
	"testing"

	"media-tracker/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	items  []common.HistoryItem
	err    error
	called bool
}

func (f *fakeStore) Recent(ctx context.Context, userID string, contentType common.ContentType, limit int) ([]common.HistoryItem, error) {
	f.called = true
	return f.items, f.err
}

type fakeGenerator struct {
	candidates []common.Candidate
	err        error
	called     bool
	gotType    common.ContentType
	gotHistory []string
}

func (f *fakeGenerator) Generate(ctx context.Context, contentType common.ContentType, history []string) ([]common.Candidate, error) {
	f.called = true
	f.gotType = contentType
	f.gotHistory = history
	return f.candidates, f.err
}

type fakeVerifier struct {
	mu      sync.Mutex
	links   map[string][]common.Link
	called  int
	gotType common.ContentType
}

func (f *fakeVerifier) Verify(ctx context.Context, title string, contentType common.ContentType) []common.Link {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.called++
	f.gotType = contentType
	return f.links[title]
}

func movieHistory() []common.HistoryItem {
	return []common.HistoryItem{
		{Title: "Movie A", Type: common.ContentTypeMovie, Date: "2026-08-20"},
		{Title: "Movie B", Type: common.ContentTypeMovie, Date: "2026-08-10"},
	}
}

func link(provider string) []common.Link {
	return []common.Link{{Provider: provider, URL: "https://example.com"}}
}

func TestCurate_PremiumGate(t *testing.T) {
	store := &fakeStore{items: movieHistory()}
	gen := &fakeGenerator{}
	ver := &fakeVerifier{}
	svc := NewService(store, gen, ver, 3)

	result, err := svc.Curate(context.Background(), "user-1", common.ContentTypeMovie, false)

	require.NoError(t, err)
	assert.True(t, result.PremiumGate)
	assert.Empty(t, result.Recommendations)
	assert.NotEmpty(t, result.Message)

	// The gate short-circuits before any collaborator runs.
	assert.False(t, store.called)
	assert.False(t, gen.called)
	assert.Zero(t, ver.called)
}

func TestCurate_EmptyHistory(t *testing.T) {
	store := &fakeStore{}
	gen := &fakeGenerator{}
	svc := NewService(store, gen, &fakeVerifier{}, 3)

	result, err := svc.Curate(context.Background(), "user-1", common.ContentTypeMovie, true)

	require.NoError(t, err)
	assert.False(t, result.PremiumGate)
	assert.Empty(t, result.Recommendations)
	assert.NotEmpty(t, result.Message)
	assert.False(t, gen.called)
}

func TestCurate_StoreErrorTreatedAsEmptyHistory(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	gen := &fakeGenerator{}
	svc := NewService(store, gen, &fakeVerifier{}, 3)

	result, err := svc.Curate(context.Background(), "user-1", common.ContentTypeMovie, true)

	require.NoError(t, err)
	assert.Empty(t, result.Recommendations)
	assert.NotEmpty(t, result.Message)
	assert.False(t, gen.called)
}

func TestCurate_VerifiedSubsetPreservesOrder(t *testing.T) {
	gen := &fakeGenerator{candidates: []common.Candidate{
		{Title: "First", Description: "a"},
		{Title: "Second", Description: "b"},
		{Title: "Third", Description: "c"},
	}}
	// The middle candidate fails verification.
	ver := &fakeVerifier{links: map[string][]common.Link{
		"First": link("TMDB"),
		"Third": link("TMDB"),
	}}
	svc := NewService(&fakeStore{items: movieHistory()}, gen, ver, 3)

	result, err := svc.Curate(context.Background(), "user-1", common.ContentTypeMovie, true)

	require.NoError(t, err)
	require.Len(t, result.Recommendations, 2)
	assert.Equal(t, "First", result.Recommendations[0].Title)
	assert.Equal(t, "Third", result.Recommendations[1].Title)
	assert.False(t, result.PremiumGate)
	assert.Equal(t, 3, ver.called)

	for _, rec := range result.Recommendations {
		assert.NotEmpty(t, rec.Links, "every surfaced recommendation carries at least one link")
	}
}

func TestCurate_NoCandidateVerifies(t *testing.T) {
	gen := &fakeGenerator{candidates: []common.Candidate{
		{Title: "Made Up Book", Description: "does not exist"},
	}}
	ver := &fakeVerifier{}
	svc := NewService(&fakeStore{items: movieHistory()}, gen, ver, 3)

	result, err := svc.Curate(context.Background(), "user-1", common.ContentTypeBook, true)

	require.NoError(t, err)
	assert.Empty(t, result.Recommendations)
	assert.False(t, result.PremiumGate)
}

func TestCurate_GenerationErrorIsFatal(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model unreachable")}
	svc := NewService(&fakeStore{items: movieHistory()}, gen, &fakeVerifier{}, 3)

	result, err := svc.Curate(context.Background(), "user-1", common.ContentTypeMovie, true)

	require.Error(t, err)
	assert.Nil(t, result)
}

func TestCurate_ResolvesTypeFromNewestHistoryItem(t *testing.T) {
	store := &fakeStore{items: []common.HistoryItem{
		{Title: "A Book", Type: common.ContentTypeBook, Date: "2026-08-21"},
		{Title: "Movie B", Type: common.ContentTypeMovie, Date: "2026-08-01"},
	}}
	gen := &fakeGenerator{candidates: []common.Candidate{{Title: "Next Book", Description: "x"}}}
	ver := &fakeVerifier{links: map[string][]common.Link{"Next Book": link("Google Books")}}
	svc := NewService(store, gen, ver, 3)

	_, err := svc.Curate(context.Background(), "user-1", "", true)

	require.NoError(t, err)
	assert.Equal(t, common.ContentTypeBook, gen.gotType)
	assert.Equal(t, common.ContentTypeBook, ver.gotType)
}

func TestCurate_DefaultsToMovieWhenTypeUnresolvable(t *testing.T) {
	store := &fakeStore{items: []common.HistoryItem{
		{Title: "Untyped Thing", Date: "2026-08-21"},
	}}
	gen := &fakeGenerator{}
	svc := NewService(store, gen, &fakeVerifier{}, 3)

	_, err := svc.Curate(context.Background(), "user-1", "", true)

	require.NoError(t, err)
	assert.Equal(t, common.ContentTypeMovie, gen.gotType)
}

func TestCurate_HistoryTitlesReachGenerator(t *testing.T) {
	gen := &fakeGenerator{}
	svc := NewService(&fakeStore{items: movieHistory()}, gen, &fakeVerifier{}, 3)

	_, err := svc.Curate(context.Background(), "user-1", common.ContentTypeMovie, true)

	require.NoError(t, err)
	require.Len(t, gen.gotHistory, 2)
	assert.Equal(t, "Movie A (movie)", gen.gotHistory[0])
	assert.Equal(t, "Movie B (movie)", gen.gotHistory[1])
}
