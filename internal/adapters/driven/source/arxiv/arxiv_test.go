package arxiv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scholia-cli/internal/core/domain"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <title>Attention Is All
  You Need</title>
    <summary>  The dominant sequence transduction models
  are based on recurrent networks.  </summary>
    <published>2017-06-12T17:57:34Z</published>
    <author><name>Ashish Vaswani</name></author>
    <author><name>  Noam Shazeer </name></author>
    <author><name> </name></author>
    <link href="http://arxiv.org/pdf/1706.03762" rel="related" type="application/pdf"/>
    <link href="http://arxiv.org/abs/1706.03762" rel="alternate" type="text/html"/>
  </entry>
  <entry>
    <title>Second Paper</title>
    <summary>Another abstract.</summary>
    <published>2020-01-01T00:00:00Z</published>
    <link href="http://arxiv.org/pdf/2001.00001" rel="related" type="application/pdf"/>
  </entry>
</feed>`

func newTestSource(t *testing.T, handler http.HandlerFunc) *Source {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewSource(Config{BaseURL: server.URL})
}

func TestSource_Name(t *testing.T) {
	assert.Equal(t, "arxiv", NewSource(Config{}).Name())
}

func TestSource_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects empty query", func(t *testing.T) {
		source := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("request should not be sent")
		})

		_, err := source.Fetch(ctx, nil, 10)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = source.Fetch(ctx, []string{"  "}, 10)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("builds the search query from keywords", func(t *testing.T) {
		var gotQuery, gotMax, gotSortBy, gotSortOrder string
		source := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query().Get("search_query")
			gotMax = r.URL.Query().Get("max_results")
			gotSortBy = r.URL.Query().Get("sortBy")
			gotSortOrder = r.URL.Query().Get("sortOrder")
			w.Write([]byte(sampleFeed))
		})

		_, err := source.Fetch(ctx, []string{"transformer", "attention"}, 7)
		require.NoError(t, err)
		assert.Equal(t, "abs:transformer AND abs:attention", gotQuery)
		assert.Equal(t, "7", gotMax)
		assert.Equal(t, "lastUpdatedDate", gotSortBy)
		assert.Equal(t, "descending", gotSortOrder)
	})

	t.Run("defaults max results when non-positive", func(t *testing.T) {
		var gotMax string
		source := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
			gotMax = r.URL.Query().Get("max_results")
			w.Write([]byte(sampleFeed))
		})

		_, err := source.Fetch(ctx, []string{"transformer"}, 0)
		require.NoError(t, err)
		assert.Equal(t, "10", gotMax)
	})

	t.Run("maps feed entries to raw papers", func(t *testing.T) {
		source := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(sampleFeed))
		})

		raws, err := source.Fetch(ctx, []string{"transformer"}, 10)
		require.NoError(t, err)
		require.Len(t, raws, 2)

		first := raws[0]
		assert.Equal(t, "Attention Is All You Need", first.Title)
		assert.Equal(t, "The dominant sequence transduction models are based on recurrent networks.", first.Summary)
		assert.Equal(t, "2017-06-12T17:57:34Z", first.Published)
		assert.Equal(t, []string{"Ashish Vaswani", "Noam Shazeer"}, first.Authors)
		assert.Equal(t, "http://arxiv.org/abs/1706.03762", first.Link)

		// No alternate link: fall back to the first one present.
		assert.Equal(t, "http://arxiv.org/pdf/2001.00001", raws[1].Link)
	})

	t.Run("surfaces API errors", func(t *testing.T) {
		source := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "too many requests", http.StatusServiceUnavailable)
		})

		_, err := source.Fetch(ctx, []string{"transformer"}, 10)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "503")
	})

	t.Run("surfaces malformed feeds", func(t *testing.T) {
		source := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("this is not xml"))
		})

		_, err := source.Fetch(ctx, []string{"transformer"}, 10)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode feed")
	})
}

func TestBuildQuery(t *testing.T) {
	assert.Equal(t, "abs:transformer", buildQuery([]string{"transformer"}))
	assert.Equal(t, "abs:transformer AND abs:attention", buildQuery([]string{"transformer", "attention"}))
	assert.Equal(t, "abs:machine learning", buildQuery([]string{" machine learning "}))
	assert.Equal(t, "abs:a AND abs:b", buildQuery([]string{"a", "  ", "b"}))
	assert.Equal(t, "", buildQuery([]string{" ", ""}))
	assert.Equal(t, "", buildQuery(nil))
}

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", collapseWhitespace("  a\n  b\tc  "))
	assert.Equal(t, "", collapseWhitespace("   "))
}
