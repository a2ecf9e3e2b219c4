package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"media-tracker/internal/infrastructure/config"
	"media-tracker/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const booksBaseURL = "https://www.googleapis.com/books/v1"

// BookCatalog looks book titles up in the Google Books volumes API. Books
// get an existence check before any link is synthesized, because the model
// fabricates book titles more readily than movie titles.
type BookCatalog struct {
	config *config.BookCatConfig
	client *resty.Client
}

// NewBookCatalog builds a Google Books client from configuration.
func NewBookCatalog(cfg *config.BookCatConfig) *BookCatalog {
	client := resty.New().
		SetBaseURL(booksBaseURL).
		SetTimeout(cfg.Timeout)

	return &BookCatalog{
		config: cfg,
		client: client,
	}
}

type booksSearchResponse struct {
	Items []struct {
		ID         string `json:"id"`
		VolumeInfo struct {
			Title string `json:"title"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// Lookup verifies title exists in the catalog and synthesizes links for
// it. Failure at any stage degrades to an empty slice.
func (b *BookCatalog) Lookup(ctx context.Context, title string) []common.Link {
	if b.config.APIKey == "" {
		common.LogWarn("book catalog API key not configured, skipping verification")
		return nil
	}

	resp, err := b.client.R().
		SetContext(ctx).
		SetQueryParam("q", fmt.Sprintf("intitle:%s", title)).
		SetQueryParam("maxResults", "1").
		SetQueryParam("key", b.config.APIKey).
		Get("/volumes")
	if err != nil {
		common.LogWarn("book catalog lookup failed",
			zap.Error(err),
			zap.String("title", title),
		)
		return nil
	}
	if resp.StatusCode() != http.StatusOK {
		common.LogWarn("book catalog returned error status",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("title", title),
		)
		return nil
	}

	var result booksSearchResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		common.LogWarn("failed to parse book catalog response",
			zap.Error(err),
			zap.String("title", title),
		)
		return nil
	}
	if len(result.Items) == 0 {
		common.LogDebug("no book catalog match", zap.String("title", title))
		return nil
	}

	top := result.Items[0]
	if !titlesMatch(title, top.VolumeInfo.Title) {
		common.LogDebug("book existence check failed",
			zap.String("title", title),
			zap.String("catalog_title", top.VolumeInfo.Title),
		)
		return nil
	}

	links := make([]common.Link, 0, 3)
	if top.ID != "" {
		links = append(links, common.Link{
			Provider: "Google Books",
			URL:      fmt.Sprintf("https://books.google.com/books?id=%s", top.ID),
		})
	}
	links = append(links,
		common.Link{
			Provider: "Amazon",
			URL:      fmt.Sprintf("https://www.amazon.co.jp/s?k=%s&i=stripbooks", url.QueryEscape(title)),
		},
		common.Link{
			Provider: "Rakuten Books",
			URL:      fmt.Sprintf("https://books.rakuten.co.jp/search?sitem=%s", url.QueryEscape(title)),
		},
	)
	return links
}

// titlesMatch is the existence containment test: either title contains the
// other, case-insensitively. Catalog titles often carry subtitles or
// edition suffixes, so exact equality would be too strict.
func titlesMatch(query, found string) bool {
	if found == "" {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(query))
	f := strings.ToLower(strings.TrimSpace(found))
	return strings.Contains(f, q) || strings.Contains(q, f)
}
