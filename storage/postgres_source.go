package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"rental-market/models"
	"rental-market/utils"
)

// PostgresSource reads listings, with everything joined onto them, from the
// backend's Postgres database.
type PostgresSource struct {
	db     *sql.DB
	logger *utils.Logger
}

// NewPostgresSource opens a connection pool, waits for the database to answer
// and returns a ready-to-use PostgresSource.
func NewPostgresSource(dsn string, logger *utils.Logger) (*PostgresSource, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		logger.Debug("[postgres] ping attempt %d failed: %v", i+1, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	logger.Info("[postgres] Connected")
	return NewPostgresSourceFromDB(db, logger), nil
}

// NewPostgresSourceFromDB wraps an existing pool.
func NewPostgresSourceFromDB(db *sql.DB, logger *utils.Logger) *PostgresSource {
	return &PostgresSource{db: db, logger: logger}
}

func (ps *PostgresSource) Close() error {
	return ps.db.Close()
}

const listingColumns = `
	SELECT p.id, p.title, p.description, p.price_per_night, p.property_type,
	       p.address, p.city, p.country, p.latitude, p.longitude,
	       p.bedrooms, p.bathrooms, p.max_guests, p.is_available, p.created_at,
	       o.id, o.name, o.email, o.phone, o.avatar_url
	FROM properties p
	LEFT JOIN profiles o ON o.id = p.owner_id`

// buildListingQuery turns constraints into a parameterised SELECT. Ordering
// is left to the caller.
func buildListingQuery(c models.Constraints) (string, []any) {
	var (
		where []string
		args  []any
	)
	bind := func(clause string, arg any) {
		args = append(args, arg)
		where = append(where, strings.ReplaceAll(clause, "?", fmt.Sprintf("$%d", len(args))))
	}

	if c.AvailableOnly {
		where = append(where, "p.is_available = TRUE")
	}
	if c.OwnerID != uuid.Nil {
		bind("p.owner_id = ?", c.OwnerID)
	}
	if c.Location != "" {
		bind(`(p.city ILIKE ? ESCAPE '\' OR p.country ILIKE ? ESCAPE '\')`, "%"+escapeLike(c.Location)+"%")
	}
	if c.PropertyType != "" {
		bind("p.property_type = ?", string(c.PropertyType))
	}
	if c.MinPrice != nil {
		bind("p.price_per_night >= ?", *c.MinPrice)
	}
	if c.MaxPrice != nil {
		bind("p.price_per_night <= ?", *c.MaxPrice)
	}
	if c.MinBedrooms != nil {
		bind("p.bedrooms >= ?", *c.MinBedrooms)
	}
	if c.MinGuests != nil {
		bind("p.max_guests >= ?", *c.MinGuests)
	}

	query := listingColumns
	if len(where) > 0 {
		query += "\n\tWHERE " + strings.Join(where, "\n\t  AND ")
	}
	return query, args
}

// escapeLike makes user text match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// FetchAvailableListings runs the filtered property query, then loads images,
// amenities, owner subscriptions and review aggregates for the matched rows.
func (ps *PostgresSource) FetchAvailableListings(ctx context.Context, c models.Constraints) ([]models.RawListingRecord, error) {
	query, args := buildListingQuery(c)
	ps.logger.Debug("[postgres] listing query with %d args", len(args))

	rows, err := ps.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch listings: %w", err)
	}
	defer rows.Close()

	var records []models.RawListingRecord
	for rows.Next() {
		r, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan listing: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate listings: %w", err)
	}
	if len(records) == 0 {
		return records, nil
	}

	propertyIDs := make([]string, 0, len(records))
	ownerSeen := make(map[uuid.UUID]struct{})
	ownerIDs := make([]string, 0, len(records))
	for _, r := range records {
		propertyIDs = append(propertyIDs, r.ID.String())
		if r.Owner == nil {
			continue
		}
		if _, dup := ownerSeen[r.Owner.ID]; !dup {
			ownerSeen[r.Owner.ID] = struct{}{}
			ownerIDs = append(ownerIDs, r.Owner.ID.String())
		}
	}

	var (
		images  map[uuid.UUID][]models.ImageDescriptor
		amen    map[uuid.UUID][]string
		subs    map[uuid.UUID][]models.SubscriptionRecord
		reviews map[uuid.UUID]*models.ReviewAggregate
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		images, err = ps.fetchImages(gctx, propertyIDs)
		return err
	})
	g.Go(func() (err error) {
		amen, err = ps.fetchAmenities(gctx, propertyIDs)
		return err
	})
	g.Go(func() (err error) {
		subs, err = ps.fetchSubscriptions(gctx, ownerIDs)
		return err
	})
	g.Go(func() (err error) {
		reviews, err = ps.fetchReviews(gctx, propertyIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range records {
		r := &records[i]
		r.Images = images[r.ID]
		r.Amenities = amen[r.ID]
		r.Reviews = reviews[r.ID]
		if r.Owner != nil {
			r.Subscriptions = subs[r.Owner.ID]
		}
	}

	ps.logger.Debug("[postgres] fetched %d listings", len(records))
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (models.RawListingRecord, error) {
	var (
		r          models.RawListingRecord
		price      sql.NullFloat64
		ptype      string
		lat, lng   sql.NullFloat64
		ownerID    uuid.NullUUID
		ownerName  sql.NullString
		ownerEmail sql.NullString
		phone      sql.NullString
		avatar     sql.NullString
	)
	if err := row.Scan(
		&r.ID, &r.Title, &r.Description, &price, &ptype,
		&r.Address, &r.City, &r.Country, &lat, &lng,
		&r.Bedrooms, &r.Bathrooms, &r.MaxGuests, &r.IsAvailable, &r.CreatedAt,
		&ownerID, &ownerName, &ownerEmail, &phone, &avatar,
	); err != nil {
		return r, err
	}

	r.PropertyType = models.PropertyType(ptype)
	r.PricePerNight = nullFloat(price)
	r.Latitude = nullFloat(lat)
	r.Longitude = nullFloat(lng)

	if ownerID.Valid {
		r.Owner = &models.OwnerProfile{
			ID:        ownerID.UUID,
			Name:      ownerName.String,
			Email:     ownerEmail.String,
			Phone:     nullString(phone),
			AvatarURL: nullString(avatar),
		}
	}
	return r, nil
}

func (ps *PostgresSource) fetchImages(ctx context.Context, ids []string) (map[uuid.UUID][]models.ImageDescriptor, error) {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT property_id, image_url, is_primary, display_order
		FROM property_images
		WHERE property_id = ANY($1::uuid[])
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch images: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]models.ImageDescriptor)
	for rows.Next() {
		var (
			id  uuid.UUID
			img models.ImageDescriptor
		)
		if err := rows.Scan(&id, &img.URL, &img.IsPrimary, &img.DisplayOrder); err != nil {
			return nil, fmt.Errorf("postgres: scan image: %w", err)
		}
		out[id] = append(out[id], img)
	}
	return out, rows.Err()
}

func (ps *PostgresSource) fetchAmenities(ctx context.Context, ids []string) (map[uuid.UUID][]string, error) {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT pa.property_id, a.name
		FROM property_amenities pa
		JOIN amenities a ON a.id = pa.amenity_id
		WHERE pa.property_id = ANY($1::uuid[])
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch amenities: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]string)
	for rows.Next() {
		var (
			id   uuid.UUID
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("postgres: scan amenity: %w", err)
		}
		out[id] = append(out[id], name)
	}
	return out, rows.Err()
}

func (ps *PostgresSource) fetchSubscriptions(ctx context.Context, ownerIDs []string) (map[uuid.UUID][]models.SubscriptionRecord, error) {
	out := make(map[uuid.UUID][]models.SubscriptionRecord)
	if len(ownerIDs) == 0 {
		return out, nil
	}

	rows, err := ps.db.QueryContext(ctx, `
		SELECT user_id, status, created_at, current_period_end
		FROM subscriptions
		WHERE user_id = ANY($1::uuid[])
	`, pq.Array(ownerIDs))
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch subscriptions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id     uuid.UUID
			status string
			sub    models.SubscriptionRecord
			end    sql.NullTime
		)
		if err := rows.Scan(&id, &status, &sub.CreatedAt, &end); err != nil {
			return nil, fmt.Errorf("postgres: scan subscription: %w", err)
		}
		sub.Status = models.SubscriptionStatus(status)
		if end.Valid {
			t := end.Time
			sub.CurrentPeriodEnd = &t
		}
		out[id] = append(out[id], sub)
	}
	return out, rows.Err()
}

func (ps *PostgresSource) fetchReviews(ctx context.Context, ids []string) (map[uuid.UUID]*models.ReviewAggregate, error) {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT property_id, AVG(rating)::float8, COUNT(*)
		FROM reviews
		WHERE property_id = ANY($1::uuid[])
		GROUP BY property_id
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch reviews: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID]*models.ReviewAggregate)
	for rows.Next() {
		var (
			id  uuid.UUID
			agg models.ReviewAggregate
		)
		if err := rows.Scan(&id, &agg.Average, &agg.Count); err != nil {
			return nil, fmt.Errorf("postgres: scan review aggregate: %w", err)
		}
		out[id] = &agg
	}
	return out, rows.Err()
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullString(v sql.NullString) *string {
	if !v.Valid || v.String == "" {
		return nil
	}
	s := v.String
	return &s
}
