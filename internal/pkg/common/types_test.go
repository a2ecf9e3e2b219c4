package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContentType(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    ContentType
		wantErr bool
	}{
		{name: "movie", raw: "movie", want: ContentTypeMovie},
		{name: "book", raw: "book", want: ContentTypeBook},
		{name: "blog", raw: "blog", want: ContentTypeBlog},
		{name: "empty means unpinned", raw: "", want: ""},
		{name: "case insensitive", raw: "Movie", want: ContentTypeMovie},
		{name: "surrounding whitespace", raw: "  book  ", want: ContentTypeBook},
		{name: "unknown value", raw: "podcast", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseContentType(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				var verr *ValidationError
				assert.ErrorAs(t, err, &verr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatHistory(t *testing.T) {
	items := []HistoryItem{
		{Title: "Dune", Type: ContentTypeMovie},
		{Title: "Project Hail Mary", Type: ContentTypeBook},
	}

	lines := FormatHistory(items)

	assert.Equal(t, []string{"Dune (movie)", "Project Hail Mary (book)"}, lines)
}

func TestFormatHistory_Empty(t *testing.T) {
	assert.Empty(t, FormatHistory(nil))
}
