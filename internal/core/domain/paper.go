package domain

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// Default values substituted during normalisation when a raw record
// omits the corresponding field.
const (
	UnknownTitle = "Unknown Title"
	UnknownYear  = "Unknown"
	UnknownVenue = "Unknown"
)

// MaxReferenceAuthors is the number of authors listed in a reference
// line before the list is truncated with "et al.".
const MaxReferenceAuthors = 3

// Paper represents a citable retrieval unit: a chunk of source text
// (typically a title plus abstract) with the metadata needed to cite it.
// It is the canonical representation after normalisation.
type Paper struct {
	// Title is the paper title.
	Title string

	// Authors is the ordered author list.
	Authors []string

	// Year is the publication year, or UnknownYear.
	Year string

	// Venue is the publication venue, or UnknownVenue.
	Venue string

	// SourceURL is the original location (arXiv abstract page, file path, etc).
	SourceURL string

	// Content is the retrievable text, typically the abstract.
	Content string

	// CitationID is the inline citation marker, e.g. "[3]".
	// Assigned sequentially in ingest order; that order is the sole
	// citation-numbering authority.
	CitationID string

	// IdentityKey deduplicates papers within the index.
	// Derived from the title; see TitleIdentityKey.
	IdentityKey string
}

// TitleIdentityKey derives a deduplication key from a paper title.
// The hash is case-insensitive and process-independent, so the same
// title always maps to the same key across runs.
func TitleIdentityKey(title string) string {
	h := fnv.New64a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(title))))
	return fmt.Sprintf("%016x", h.Sum64())
}

// CitationID formats a 1-based ordinal as an inline citation marker.
func CitationID(ordinal int) string {
	return fmt.Sprintf("[%d]", ordinal)
}

// ComposedText returns the labelled text that is embedded for retrieval.
func (p Paper) ComposedText() string {
	return fmt.Sprintf("Title: %s\nAuthors: %s\nAbstract: %s",
		p.Title, strings.Join(p.Authors, ", "), p.Content)
}

// CitationLine renders the trailing citation line appended to this
// paper's content inside a retrieval context block.
func (p Paper) CitationLine() string {
	return fmt.Sprintf("Citation: %s %s by %s (%s)",
		p.CitationID, p.Title, strings.Join(p.Authors, ", "), p.Year)
}

// ReferenceLine renders a numbered entry for the References section.
// Author lists longer than MaxReferenceAuthors are truncated with "et al.".
func (p Paper) ReferenceLine(number int) string {
	authors := p.Authors
	suffix := ""
	if len(authors) > MaxReferenceAuthors {
		authors = authors[:MaxReferenceAuthors]
		suffix = " et al."
	}
	return fmt.Sprintf("%d. %s %s by %s%s (%s)",
		number, p.CitationID, p.Title, strings.Join(authors, ", "), suffix, p.Year)
}

// RawPaper is a record as produced by a paper source, before
// normalisation. Every field is optional; the normaliser substitutes
// defaults for whatever is missing.
type RawPaper struct {
	// Title is the paper title, if known.
	Title string

	// Authors is the author list, if known.
	Authors []string

	// Published is a date-like string, e.g. "2024-03-18T17:00:00Z".
	// Only the leading year token is used.
	Published string

	// Summary is the abstract or content text.
	Summary string

	// Link is the source URL.
	Link string

	// Venue is the publication venue.
	Venue string
}
