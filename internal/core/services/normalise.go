package services

import (
	"strings"

	"github.com/custodia-labs/scholia-cli/internal/core/domain"
	"github.com/custodia-labs/scholia-cli/internal/logger"
)

// Normalise converts raw source records into retrievable papers.
// Input order is preserved: the i-th surviving record receives the
// batch-relative CitationID "[i+1]", which the index shifts on ingest
// so markers stay unique across batches. Records missing both title
// and content are dropped and counted, never an error. Applying
// Normalise to the same batch twice yields identical output.
func Normalise(raws []domain.RawPaper) (papers []domain.Paper, dropped int) {
	papers = make([]domain.Paper, 0, len(raws))

	for _, raw := range raws {
		title := strings.TrimSpace(raw.Title)
		content := strings.TrimSpace(raw.Summary)

		if title == "" && content == "" {
			dropped++
			continue
		}
		if title == "" {
			title = domain.UnknownTitle
		}

		venue := strings.TrimSpace(raw.Venue)
		if venue == "" {
			venue = domain.UnknownVenue
		}

		papers = append(papers, domain.Paper{
			Title:       title,
			Authors:     normaliseAuthors(raw.Authors),
			Year:        publicationYear(raw.Published),
			Venue:       venue,
			SourceURL:   strings.TrimSpace(raw.Link),
			Content:     content,
			CitationID:  domain.CitationID(len(papers) + 1),
			IdentityKey: domain.TitleIdentityKey(title),
		})
	}

	if dropped > 0 {
		logger.Warn("Normalise: dropped %d record(s) missing both title and content", dropped)
	}

	return papers, dropped
}

// normaliseAuthors trims author names and discards empty entries.
func normaliseAuthors(authors []string) []string {
	out := make([]string, 0, len(authors))
	for _, a := range authors {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// publicationYear extracts the leading year token from a date-like
// string such as "2024-03-18T17:00:00Z".
func publicationYear(published string) string {
	year, _, _ := strings.Cut(strings.TrimSpace(published), "-")
	if year = strings.TrimSpace(year); year == "" {
		return domain.UnknownYear
	}
	return year
}
