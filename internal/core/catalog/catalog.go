// Package catalog verifies candidate titles against external catalogs and
// resolves displayable links.
package catalog

import (
	"context"

	"media-tracker/internal/pkg/common"

	"go.uber.org/zap"
)

// Verifier confirms a candidate title corresponds to a real catalog entry
// and resolves links for it. It never returns an error: every external
// failure degrades to an empty result.
type Verifier interface {
	Verify(ctx context.Context, title string, contentType common.ContentType) []common.Link
}

// Service dispatches verification by content type. Results are cached so
// repeated candidates do not hit the catalog APIs again.
type Service struct {
	movie *MovieCatalog
	book  *BookCatalog
	cache *ResultCache
}

// NewService creates the verification dispatcher. cache may be nil.
func NewService(movie *MovieCatalog, book *BookCatalog, cache *ResultCache) *Service {
	return &Service{
		movie: movie,
		book:  book,
		cache: cache,
	}
}

// Verify implements Verifier.
func (s *Service) Verify(ctx context.Context, title string, contentType common.ContentType) []common.Link {
	if s.cache != nil {
		if links, ok := s.cache.Get(contentType, title); ok {
			common.LogCacheHit("verification", title)
			return links
		}
		common.LogCacheMiss("verification", title)
	}

	var links []common.Link
	switch contentType {
	case common.ContentTypeMovie:
		links = s.movie.Lookup(ctx, title)
	case common.ContentTypeBook:
		links = s.book.Lookup(ctx, title)
	default:
		// Blogs and anything unknown have no catalog to check against.
		common.LogDebug("no catalog for content type, dropping candidate",
			zap.String("content_type", string(contentType)),
			zap.String("title", title),
		)
		return nil
	}

	if s.cache != nil {
		_ = s.cache.Set(contentType, title, links)
	}
	return links
}
