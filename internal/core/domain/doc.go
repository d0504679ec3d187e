// Package domain contains the core business entities for Scholia.
// Entities here have no dependencies on adapters or external services.
package domain
