package common

import (
	"fmt"
	"strings"
)

// ContentType classifies a tracked piece of media.
type ContentType string

const (
	ContentTypeMovie ContentType = "movie"
	ContentTypeBook  ContentType = "book"
	ContentTypeBlog  ContentType = "blog"
)

// ParseContentType validates a raw content type value. The empty string is
// allowed and means "not pinned by the caller".
func ParseContentType(raw string) (ContentType, error) {
	switch ContentType(strings.ToLower(strings.TrimSpace(raw))) {
	case "":
		return "", nil
	case ContentTypeMovie:
		return ContentTypeMovie, nil
	case ContentTypeBook:
		return ContentTypeBook, nil
	case ContentTypeBlog:
		return ContentTypeBlog, nil
	default:
		return "", NewValidationError(fmt.Sprintf("unknown content type %q", raw))
	}
}

// HistoryItem is a consumed piece of content read back from the store.
type HistoryItem struct {
	Title string      `json:"title"`
	Type  ContentType `json:"type"`
	Link  string      `json:"link,omitempty"`
	Date  string      `json:"date,omitempty"`
}

// Candidate is a model-proposed next item. Untrusted until verified
// against a catalog; never surfaced to the user directly.
type Candidate struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Link is a verified external reference for a recommendation.
type Link struct {
	Provider string `json:"provider"`
	URL      string `json:"url"`
}

// Recommendation is the user-visible result. Every recommendation carries
// at least one verified link.
type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Links       []Link `json:"links"`
}

// FormatHistory renders history items the way the recommendation prompt
// expects them: "Title (type)", newest first.
func FormatHistory(items []HistoryItem) []string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s (%s)", item.Title, item.Type))
	}
	return lines
}
