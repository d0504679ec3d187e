package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/scholia-cli/internal/core/domain"
	"github.com/custodia-labs/scholia-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scholia-cli/internal/core/ports/driving"
	"github.com/custodia-labs/scholia-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService wires a paper source to the vector index: fetch raw
// records, normalise them, ingest the survivors. Fetch and parse
// problems are absorbed into the summary as counts; they never abort
// the batch.
type IngestService struct {
	source driven.PaperSource
	index  driving.IndexService
}

// NewIngestService creates an ingest service for the given source.
func NewIngestService(source driven.PaperSource, index driving.IndexService) (*IngestService, error) {
	if source == nil {
		return nil, fmt.Errorf("paper source: %w", domain.ErrNotConfigured)
	}
	if index == nil {
		return nil, fmt.Errorf("index service: %w", domain.ErrNotConfigured)
	}
	return &IngestService{source: source, index: index}, nil
}

// FetchAndIndex retrieves up to max raw records matching the keywords
// and indexes them.
func (s *IngestService) FetchAndIndex(
	ctx context.Context, keywords []string, max int,
) (driving.IngestSummary, error) {
	logger.Section("Ingest")
	logger.Debug("Source: %s, keywords: %v, max: %d", s.source.Name(), keywords, max)

	raws, err := s.source.Fetch(ctx, keywords, max)
	if err != nil {
		return driving.IngestSummary{}, fmt.Errorf("fetch from %s: %w", s.source.Name(), err)
	}

	papers, dropped := Normalise(raws)

	added, err := s.index.Ingest(ctx, papers)
	if err != nil {
		return driving.IngestSummary{}, fmt.Errorf("ingest: %w", err)
	}

	return driving.IngestSummary{
		Fetched: len(raws),
		Dropped: dropped,
		Added:   added,
		Skipped: len(papers) - added,
	}, nil
}
