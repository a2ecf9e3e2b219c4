package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"media-tracker/internal/infrastructure/config"
	"media-tracker/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const tmdbBaseURL = "https://api.themoviedb.org/3"

// MovieCatalog looks movie titles up in TMDB. Movies skip the existence
// pre-check that books get: a search hit is taken at face value.
type MovieCatalog struct {
	config *config.MovieCatConfig
	client *resty.Client
}

// NewMovieCatalog builds a TMDB client from configuration.
func NewMovieCatalog(cfg *config.MovieCatConfig) *MovieCatalog {
	client := resty.New().
		SetBaseURL(tmdbBaseURL).
		SetTimeout(cfg.Timeout)

	return &MovieCatalog{
		config: cfg,
		client: client,
	}
}

type tmdbSearchResponse struct {
	Results []struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	} `json:"results"`
}

// Lookup searches TMDB for title and synthesizes links from the top match.
// Missing API key, no results, and HTTP errors all yield an empty slice.
func (m *MovieCatalog) Lookup(ctx context.Context, title string) []common.Link {
	if m.config.APIKey == "" {
		common.LogWarn("movie catalog API key not configured, skipping verification")
		return nil
	}

	resp, err := m.client.R().
		SetContext(ctx).
		SetQueryParam("api_key", m.config.APIKey).
		SetQueryParam("query", title).
		Get("/search/movie")
	if err != nil {
		common.LogWarn("movie catalog lookup failed",
			zap.Error(err),
			zap.String("title", title),
		)
		return nil
	}
	if resp.StatusCode() != http.StatusOK {
		common.LogWarn("movie catalog returned error status",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("title", title),
		)
		return nil
	}

	var result tmdbSearchResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		common.LogWarn("failed to parse movie catalog response",
			zap.Error(err),
			zap.String("title", title),
		)
		return nil
	}
	if len(result.Results) == 0 {
		common.LogDebug("no movie catalog match", zap.String("title", title))
		return nil
	}

	top := result.Results[0]
	return []common.Link{
		{
			Provider: "TMDB",
			URL:      fmt.Sprintf("https://www.themoviedb.org/movie/%d", top.ID),
		},
		{
			Provider: "Prime Video",
			URL:      fmt.Sprintf("https://www.amazon.co.jp/s?k=%s&i=instant-video", url.QueryEscape(title)),
		},
	}
}
