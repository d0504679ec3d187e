// Package services implements the core retrieval-and-answer pipeline:
// normalisation of raw paper records, vector-index ingest and search,
// history-aware query reformulation, citation-grounded answer
// synthesis, session management and batch evaluation.
package services
