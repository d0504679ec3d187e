// Package sqlite provides a SQLite-backed paper store so the vector
// index survives process restarts. The database is opened or created
// idempotently at startup; schema changes run through embedded
// migrations.
package sqlite
