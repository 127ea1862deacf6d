package storage

import (
	"context"
	"errors"

	"rental-market/models"
)

var (
	// ErrNotFound is returned when a row addressed by ID does not exist.
	ErrNotFound = errors.New("not found")
	// ErrVersionConflict is returned when a versioned write lost a race.
	ErrVersionConflict = errors.New("version conflict")
	// ErrSessionNotFound is returned for unknown or expired session tokens.
	ErrSessionNotFound = errors.New("session not found")
)

// ListingSource is the only read path the search core depends on.
type ListingSource interface {
	FetchAvailableListings(ctx context.Context, c models.Constraints) ([]models.RawListingRecord, error)
}

// SessionStore persists explicit session values keyed by token.
type SessionStore interface {
	Save(ctx context.Context, sess *models.Session) (*models.Session, error)
	Load(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
}

// ListingExporter is the interface for writing a ranked result set somewhere.
type ListingExporter interface {
	Export(listings []models.NormalizedListing) error
	Close() error
}

var (
	_ ListingSource   = (*PostgresSource)(nil)
	_ ListingSource   = (*MemorySource)(nil)
	_ SessionStore    = (*RedisSessionStore)(nil)
	_ ListingExporter = (*CSVWriter)(nil)
)
