package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"rental-market/models"
	"rental-market/storage"
	"rental-market/utils"
)

var (
	// ErrDataAccess wraps any failure of the listing source.
	ErrDataAccess = errors.New("listing data access failed")

	// ErrForbidden is returned when the session's role does not allow an operation.
	ErrForbidden = errors.New("forbidden")
)

// SearchService answers listing searches: build constraints, fetch, transform, rank.
// It keeps no state between calls.
type SearchService struct {
	source  storage.ListingSource
	builder *QueryBuilder
	logger  *utils.Logger
	workers int
}

// NewSearchService wires a search over source. workers bounds the number of
// records transformed concurrently; values below 1 mean sequential.
func NewSearchService(source storage.ListingSource, builder *QueryBuilder, logger *utils.Logger, workers int) *SearchService {
	if builder == nil {
		builder = NewQueryBuilder(DefaultPriceCeiling)
	}
	if workers < 1 {
		workers = 1
	}
	return &SearchService{source: source, builder: builder, logger: logger, workers: workers}
}

// Search returns the available listings matching f, ranked for display.
// A source failure yields ErrDataAccess; a malformed record fails the whole
// search with ErrMalformedRecord.
func (s *SearchService) Search(ctx context.Context, f models.ListingFilter) ([]models.NormalizedListing, error) {
	return s.run(ctx, "search", s.builder.Build(f))
}

// OwnerListings returns every listing of the session's user, including
// unavailable ones. Only owners may ask, the same rule as the dashboard route.
func (s *SearchService) OwnerListings(ctx context.Context, sess *models.Session) ([]models.NormalizedListing, error) {
	if !sess.Is(models.RoleOwner) {
		return nil, fmt.Errorf("owner listings as %s: %w", sess.EffectiveRole(), ErrForbidden)
	}
	return s.run(ctx, "owner listings", OwnerConstraints(sess.UserID))
}

// SearchInto runs a search for f and publishes the result to l under ticket,
// which the caller takes from l.Begin when the filter changes. It reports
// whether the result was published, i.e. no newer ticket was issued meanwhile.
func (s *SearchService) SearchInto(ctx context.Context, l *Latest, ticket uint64, f models.ListingFilter) bool {
	results, err := s.Search(ctx, f)
	ok := l.Publish(ticket, results, err)
	if !ok {
		s.logger.Debug("[search] dropped stale result for ticket %d", ticket)
	}
	return ok
}

func (s *SearchService) run(ctx context.Context, name string, c models.Constraints) ([]models.NormalizedListing, error) {
	start := time.Now()

	raw, err := s.source.FetchAvailableListings(ctx, c)
	if err != nil {
		s.logger.Error("[search] %s: fetch failed: %v", name, err)
		return nil, fmt.Errorf("%w: %w", ErrDataAccess, err)
	}

	listings, err := s.transformAll(raw)
	if err != nil {
		s.logger.Warn("[search] %s: %v", name, err)
		return nil, err
	}

	Rank(listings)
	s.logger.Debug("[search] %s: %d listings in %v", name, len(listings), time.Since(start))
	return listings, nil
}

// transformAll keeps fetch order. When several records are malformed the
// error of the lowest-index one is returned.
func (s *SearchService) transformAll(raw []models.RawListingRecord) ([]models.NormalizedListing, error) {
	out := make([]models.NormalizedListing, len(raw))
	errs := make([]error, len(raw))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i := range raw {
		i := i
		g.Go(func() error {
			out[i], errs[i] = Transform(raw[i])
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
