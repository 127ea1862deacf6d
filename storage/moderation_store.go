package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"rental-market/models"
	"rental-market/utils"
)

// Audit actions recorded in moderation_events.
const (
	ActionSetRole         = "set_role"
	ActionSetAvailability = "set_availability"
	ActionDeleteProperty  = "delete_property"
)

// Stats are the headline counts of the admin panel.
type Stats struct {
	Users               int64
	Owners              int64
	Properties          int64
	AvailableProperties int64
	ActiveSubscriptions int64
}

// ModerationStore serves the owner dashboard and admin panel: listing the
// backend's rows and applying versioned writes that leave an audit trail.
type ModerationStore struct {
	db     *gorm.DB
	logger *utils.Logger
}

// OpenModerationStore connects to Postgres through gorm.
func OpenModerationStore(dsn string, logger *utils.Logger) (*ModerationStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("moderation: open: %w", err)
	}
	return NewModerationStore(db, logger), nil
}

// NewModerationStore wraps an existing gorm handle.
func NewModerationStore(db *gorm.DB, logger *utils.Logger) *ModerationStore {
	return &ModerationStore{db: db, logger: logger}
}

// Close releases the underlying pool.
func (s *ModerationStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates or updates the local schema.
func (s *ModerationStore) Migrate() error {
	if err := s.db.AutoMigrate(allTables()...); err != nil {
		return fmt.Errorf("moderation: migrate: %w", err)
	}
	return nil
}

// Seed loads listing records (profiles, properties, images, amenities,
// subscriptions, reviews) into an empty database, plus one admin profile.
func (s *ModerationStore) Seed(ctx context.Context, records []models.RawListingRecord, admin Profile) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if admin.Role == "" {
			admin.Role = models.RoleAdmin
		}
		if err := tx.Omit(clause.Associations).Create(&admin).Error; err != nil {
			return fmt.Errorf("moderation: seed admin: %w", err)
		}

		amenityIDs := make(map[string]uuid.UUID)
		seenOwner := make(map[uuid.UUID]bool)

		for _, r := range records {
			if r.Owner == nil || r.PricePerNight == nil {
				return fmt.Errorf("moderation: seed %s: record has no owner or price", r.ID)
			}

			if !seenOwner[r.Owner.ID] {
				seenOwner[r.Owner.ID] = true
				owner := Profile{
					ID:        r.Owner.ID,
					Name:      r.Owner.Name,
					Email:     r.Owner.Email,
					Phone:     r.Owner.Phone,
					AvatarURL: r.Owner.AvatarURL,
					Role:      models.RoleOwner,
				}
				if err := tx.Omit(clause.Associations).Create(&owner).Error; err != nil {
					return fmt.Errorf("moderation: seed owner: %w", err)
				}
				for _, sub := range r.Subscriptions {
					uid := r.Owner.ID
					row := Subscription{
						UserID:           &uid,
						Status:           sub.Status,
						CurrentPeriodEnd: sub.CurrentPeriodEnd,
						CreatedAt:        sub.CreatedAt,
					}
					if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
						return fmt.Errorf("moderation: seed subscription: %w", err)
					}
				}
			}

			prop := Property{
				ID:            r.ID,
				OwnerID:       r.Owner.ID,
				Title:         r.Title,
				Description:   r.Description,
				PricePerNight: *r.PricePerNight,
				PropertyType:  r.PropertyType,
				Address:       r.Address,
				City:          r.City,
				Country:       r.Country,
				Latitude:      r.Latitude,
				Longitude:     r.Longitude,
				Bedrooms:      r.Bedrooms,
				Bathrooms:     r.Bathrooms,
				MaxGuests:     r.MaxGuests,
				IsAvailable:   r.IsAvailable,
				CreatedAt:     r.CreatedAt,
			}
			if err := tx.Omit(clause.Associations).Create(&prop).Error; err != nil {
				return fmt.Errorf("moderation: seed property: %w", err)
			}

			for _, img := range r.Images {
				row := PropertyImage{PropertyID: r.ID, ImageURL: img.URL, IsPrimary: img.IsPrimary, DisplayOrder: img.DisplayOrder}
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("moderation: seed image: %w", err)
				}
			}

			for _, name := range r.Amenities {
				id, ok := amenityIDs[name]
				if !ok {
					a := Amenity{Name: name}
					if err := tx.Create(&a).Error; err != nil {
						return fmt.Errorf("moderation: seed amenity: %w", err)
					}
					id = a.ID
					amenityIDs[name] = id
				}
				if err := tx.Create(&PropertyAmenity{PropertyID: r.ID, AmenityID: id}).Error; err != nil {
					return fmt.Errorf("moderation: seed property amenity: %w", err)
				}
			}

			if r.Reviews != nil {
				for _, rating := range spreadRatings(r.Reviews.Average, r.Reviews.Count) {
					if err := tx.Create(&Review{PropertyID: r.ID, Rating: rating}).Error; err != nil {
						return fmt.Errorf("moderation: seed review: %w", err)
					}
				}
			}
		}

		s.logger.Info("[moderation] Seeded %d listings from %d owners", len(records), len(seenOwner))
		return nil
	})
}

// spreadRatings returns n integer ratings whose mean is as close to avg as
// integers allow.
func spreadRatings(avg float64, n int) []int {
	if n <= 0 {
		return nil
	}
	total := int(math.Round(avg * float64(n)))
	base, extra := total/n, total%n
	out := make([]int, n)
	for i := range out {
		out[i] = base
		if i < extra {
			out[i]++
		}
	}
	return out
}

// ListUsers returns every profile with its subscriptions, newest first.
func (s *ModerationStore) ListUsers(ctx context.Context) ([]Profile, error) {
	var users []Profile
	err := s.db.WithContext(ctx).
		Preload("Subscriptions").
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("moderation: list users: %w", err)
	}
	return users, nil
}

// ListProperties returns every property, available or not, with owner and images.
func (s *ModerationStore) ListProperties(ctx context.Context) ([]Property, error) {
	var props []Property
	err := s.db.WithContext(ctx).
		Preload("Owner").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("display_order ASC") }).
		Order("created_at DESC").
		Find(&props).Error
	if err != nil {
		return nil, fmt.Errorf("moderation: list properties: %w", err)
	}
	return props, nil
}

// ListSubscriptions returns every subscription with its user, newest first.
func (s *ModerationStore) ListSubscriptions(ctx context.Context) ([]Subscription, error) {
	var subs []Subscription
	err := s.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("moderation: list subscriptions: %w", err)
	}
	return subs, nil
}

// GetProfile loads one profile with its subscriptions.
func (s *ModerationStore) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	var p Profile
	err := s.db.WithContext(ctx).Preload("Subscriptions").First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("moderation: profile %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("moderation: get profile: %w", err)
	}
	return &p, nil
}

// GetProperty loads one property.
func (s *ModerationStore) GetProperty(ctx context.Context, id uuid.UUID) (*Property, error) {
	var p Property
	err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("moderation: property %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("moderation: get property: %w", err)
	}
	return &p, nil
}

// Stats counts users, owners, properties and active subscriptions.
func (s *ModerationStore) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	db := s.db.WithContext(ctx)

	if err := db.Model(&Profile{}).Count(&st.Users).Error; err != nil {
		return st, fmt.Errorf("moderation: count users: %w", err)
	}
	if err := db.Model(&Profile{}).Where("role = ?", models.RoleOwner).Count(&st.Owners).Error; err != nil {
		return st, fmt.Errorf("moderation: count owners: %w", err)
	}
	if err := db.Model(&Property{}).Count(&st.Properties).Error; err != nil {
		return st, fmt.Errorf("moderation: count properties: %w", err)
	}
	if err := db.Model(&Property{}).Where("is_available = ?", true).Count(&st.AvailableProperties).Error; err != nil {
		return st, fmt.Errorf("moderation: count available: %w", err)
	}
	if err := db.Model(&Subscription{}).Where("status = ?", models.SubscriptionActive).Count(&st.ActiveSubscriptions).Error; err != nil {
		return st, fmt.Errorf("moderation: count subscriptions: %w", err)
	}
	return st, nil
}

// SetRole changes a user's role if the profile is still at expectedVersion.
func (s *ModerationStore) SetRole(ctx context.Context, actorID, userID uuid.UUID, role models.Role, expectedVersion int) (*Profile, error) {
	var updated Profile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Profile{}).
			Where("id = ? AND version = ?", userID, expectedVersion).
			Updates(map[string]any{"role": role, "version": gorm.Expr("version + 1")})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return missOrConflict(tx, &Profile{}, userID)
		}
		if err := audit(tx, actorID, ActionSetRole, "profile", userID, string(role)); err != nil {
			return err
		}
		return tx.First(&updated, "id = ?", userID).Error
	})
	if err != nil {
		return nil, fmt.Errorf("moderation: set role: %w", err)
	}
	s.logger.Info("[moderation] %s set role of %s to %s (v%d)", actorID, userID, role, updated.Version)
	return &updated, nil
}

// SetAvailability shows or hides a property if it is still at expectedVersion.
func (s *ModerationStore) SetAvailability(ctx context.Context, actorID, propertyID uuid.UUID, available bool, expectedVersion int) (*Property, error) {
	var updated Property
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Property{}).
			Where("id = ? AND version = ?", propertyID, expectedVersion).
			Updates(map[string]any{"is_available": available, "version": gorm.Expr("version + 1")})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return missOrConflict(tx, &Property{}, propertyID)
		}
		if err := audit(tx, actorID, ActionSetAvailability, "property", propertyID, fmt.Sprintf("available=%t", available)); err != nil {
			return err
		}
		return tx.First(&updated, "id = ?", propertyID).Error
	})
	if err != nil {
		return nil, fmt.Errorf("moderation: set availability: %w", err)
	}
	s.logger.Info("[moderation] %s set availability of %s to %t (v%d)", actorID, propertyID, available, updated.Version)
	return &updated, nil
}

// DeleteProperty removes a property and its images, amenity links and reviews
// if it is still at expectedVersion.
func (s *ModerationStore) DeleteProperty(ctx context.Context, actorID, propertyID uuid.UUID, expectedVersion int) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Property{}).
			Where("id = ? AND version = ?", propertyID, expectedVersion).
			Update("version", gorm.Expr("version + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return missOrConflict(tx, &Property{}, propertyID)
		}

		for _, child := range []any{&PropertyImage{}, &PropertyAmenity{}, &Review{}} {
			if err := tx.Where("property_id = ?", propertyID).Delete(child).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&Property{}, "id = ?", propertyID).Error; err != nil {
			return err
		}
		return audit(tx, actorID, ActionDeleteProperty, "property", propertyID, "")
	})
	if err != nil {
		return fmt.Errorf("moderation: delete property: %w", err)
	}
	s.logger.Info("[moderation] %s deleted property %s", actorID, propertyID)
	return nil
}

// Events returns the audit trail for one target, oldest first.
func (s *ModerationStore) Events(ctx context.Context, targetID uuid.UUID) ([]ModerationEvent, error) {
	var events []ModerationEvent
	err := s.db.WithContext(ctx).
		Where("target_id = ?", targetID).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("moderation: events: %w", err)
	}
	return events, nil
}

func missOrConflict(tx *gorm.DB, model any, id uuid.UUID) error {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrVersionConflict
}

func audit(tx *gorm.DB, actorID uuid.UUID, action, targetType string, targetID uuid.UUID, detail string) error {
	return tx.Create(&ModerationEvent{
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Detail:     detail,
		CreatedAt:  time.Now(),
	}).Error
}
