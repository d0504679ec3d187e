// Package arxiv provides a paper source backed by the arXiv Atom API.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/scholia-cli/internal/core/domain"
	"github.com/custodia-labs/scholia-cli/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.PaperSource = (*Source)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://export.arxiv.org/api"
	DefaultTimeout    = 30 * time.Second
	DefaultMaxResults = 10

	// arXiv asks automated clients to keep at most one request every
	// three seconds.
	requestInterval = 3 * time.Second
)

// Config holds configuration for the arXiv source.
type Config struct {
	// BaseURL is the API base URL (default: http://export.arxiv.org/api).
	BaseURL string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Source fetches papers from the arXiv search API.
type Source struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
}

// feed is the arXiv Atom response envelope.
type feed struct {
	Entries []entry `xml:"entry"`
}

// entry is a single paper record in the Atom feed.
type entry struct {
	Title     string   `xml:"title"`
	Summary   string   `xml:"summary"`
	Published string   `xml:"published"`
	Authors   []author `xml:"author"`
	Links     []link   `xml:"link"`
	Journal   string   `xml:"journal_ref"`
}

type author struct {
	Name string `xml:"name"`
}

type link struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

// NewSource creates a new arXiv paper source.
func NewSource(cfg Config) *Source {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Source{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		limiter: rate.NewLimiter(rate.Every(requestInterval), 1),
	}
}

// Name identifies the source for logging and summaries.
func (s *Source) Name() string {
	return "arxiv"
}

// Fetch retrieves up to max raw records matching the keywords.
func (s *Source) Fetch(ctx context.Context, keywords []string, max int) ([]domain.RawPaper, error) {
	if max <= 0 {
		max = DefaultMaxResults
	}

	query := buildQuery(keywords)
	if query == "" {
		return nil, fmt.Errorf("arxiv: %w: empty search query", domain.ErrInvalidInput)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("arxiv: rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("search_query", query)
	params.Set("start", "0")
	params.Set("max_results", fmt.Sprintf("%d", max))
	params.Set("sortBy", "lastUpdatedDate")
	params.Set("sortOrder", "descending")

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		s.baseURL+"/query?"+params.Encode(),
		http.NoBody,
	)
	if err != nil {
		return nil, fmt.Errorf("arxiv: create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("arxiv: API returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("arxiv: API returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed feed
	if err := xml.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("arxiv: decode feed: %w", err)
	}

	raws := make([]domain.RawPaper, 0, len(parsed.Entries))
	for _, e := range parsed.Entries {
		raws = append(raws, toRawPaper(e))
	}
	return raws, nil
}

// buildQuery composes the search expression: one abstract-field term
// per keyword, AND-joined, so every keyword must match. Blank keywords
// are skipped.
func buildQuery(keywords []string) string {
	terms := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			terms = append(terms, "abs:"+kw)
		}
	}
	return strings.Join(terms, " AND ")
}

// toRawPaper maps an Atom entry onto the normaliser's input shape.
// Whitespace in titles and abstracts is collapsed because the feed
// hard-wraps long lines.
func toRawPaper(e entry) domain.RawPaper {
	authors := make([]string, 0, len(e.Authors))
	for _, a := range e.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			authors = append(authors, name)
		}
	}

	return domain.RawPaper{
		Title:     collapseWhitespace(e.Title),
		Authors:   authors,
		Published: strings.TrimSpace(e.Published),
		Summary:   collapseWhitespace(e.Summary),
		Link:      pickLink(e.Links),
		Venue:     strings.TrimSpace(e.Journal),
	}
}

// pickLink prefers the alternate (abstract page) link, falling back to
// the first link present.
func pickLink(links []link) string {
	for _, l := range links {
		if l.Rel == "alternate" {
			return l.Href
		}
	}
	if len(links) > 0 {
		return links[0].Href
	}
	return ""
}

// collapseWhitespace joins hard-wrapped feed text into single-space
// separated prose.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
