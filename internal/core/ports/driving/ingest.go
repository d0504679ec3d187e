package driving

import "context"

// IngestSummary reports the outcome of one ingest batch.
type IngestSummary struct {
	// Fetched is the number of raw records retrieved from the source.
	Fetched int

	// Dropped is the number of raw records discarded during
	// normalisation (missing both title and content).
	Dropped int

	// Added is the number of papers actually added to the index.
	Added int

	// Skipped is the number of papers already present in the index.
	Skipped int
}

// IngestService fetches raw records from a paper source, normalises
// them and feeds them to the vector index.
type IngestService interface {
	// FetchAndIndex retrieves up to max records matching the keywords
	// from the configured source and indexes them.
	FetchAndIndex(ctx context.Context, keywords []string, max int) (IngestSummary, error)
}
