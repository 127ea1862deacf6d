package storage

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rental-market/models"
)

// The types below mirror the backend's tables. In production the managed
// backend owns the schema; AutoMigrate over them is for local databases and
// tests only.

type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	Email     string    `gorm:"not null;uniqueIndex"`
	Phone     *string
	AvatarURL *string
	Role      models.Role `gorm:"type:varchar(16);not null"`
	Version   int         `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Subscriptions []Subscription `gorm:"foreignKey:UserID"`
}

func (p *Profile) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	if p.Role == "" {
		p.Role = models.RoleGuest
	}
	if p.Version == 0 {
		p.Version = 1
	}
	return nil
}

// ActiveSubscription reports whether the profile's latest subscription is active.
func (p *Profile) ActiveSubscription() bool {
	var latest *Subscription
	for i := range p.Subscriptions {
		s := &p.Subscriptions[i]
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			latest = s
		}
	}
	return latest != nil && latest.Status == models.SubscriptionActive
}

type Property struct {
	ID            uuid.UUID           `gorm:"type:uuid;primaryKey"`
	OwnerID       uuid.UUID           `gorm:"type:uuid;not null;index"`
	Title         string              `gorm:"not null"`
	Description   string              `gorm:"not null"`
	PricePerNight float64             `gorm:"not null"`
	PropertyType  models.PropertyType `gorm:"type:varchar(16);not null"`
	Address       string              `gorm:"not null"`
	City          string              `gorm:"not null;index"`
	Country       string              `gorm:"not null;index"`
	Latitude      *float64
	Longitude     *float64
	Bedrooms      int  `gorm:"not null"`
	Bathrooms     int  `gorm:"not null"`
	MaxGuests     int  `gorm:"not null"`
	IsAvailable   bool `gorm:"not null;index"`
	Version       int  `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Owner  Profile         `gorm:"foreignKey:OwnerID"`
	Images []PropertyImage `gorm:"foreignKey:PropertyID"`
}

func (p *Property) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	if p.Version == 0 {
		p.Version = 1
	}
	return nil
}

type PropertyImage struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	PropertyID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ImageURL     string    `gorm:"not null"`
	IsPrimary    bool      `gorm:"not null"`
	DisplayOrder int       `gorm:"not null"`
	CreatedAt    time.Time
}

func (i *PropertyImage) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

type Amenity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null;uniqueIndex"`
	Icon      *string
	CreatedAt time.Time
}

func (a *Amenity) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}

type PropertyAmenity struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	PropertyID uuid.UUID `gorm:"type:uuid;not null;index"`
	AmenityID  uuid.UUID `gorm:"type:uuid;not null"`
}

func (pa *PropertyAmenity) BeforeCreate(*gorm.DB) error {
	ensureID(&pa.ID)
	return nil
}

type Subscription struct {
	ID                   uuid.UUID                 `gorm:"type:uuid;primaryKey"`
	UserID               *uuid.UUID                `gorm:"type:uuid;index"`
	Status               models.SubscriptionStatus `gorm:"type:varchar(16);not null"`
	CurrentPeriodStart   *time.Time
	CurrentPeriodEnd     *time.Time
	StripeSubscriptionID *string
	CreatedAt            time.Time
	UpdatedAt            time.Time

	User *Profile `gorm:"foreignKey:UserID"`
}

func (s *Subscription) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	if s.Status == "" {
		s.Status = models.SubscriptionInactive
	}
	return nil
}

type Review struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	PropertyID uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID     *uuid.UUID `gorm:"type:uuid"`
	Rating     int        `gorm:"not null"`
	Comment    string
	CreatedAt  time.Time
}

func (r *Review) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

// ModerationEvent is one row of the audit trail every moderation write leaves.
type ModerationEvent struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ActorID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Action     string    `gorm:"type:varchar(32);not null"`
	TargetType string    `gorm:"type:varchar(32);not null"`
	TargetID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Detail     string
	CreatedAt  time.Time
}

func (e *ModerationEvent) BeforeCreate(*gorm.DB) error {
	ensureID(&e.ID)
	return nil
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func allTables() []any {
	return []any{
		&Profile{}, &Property{}, &PropertyImage{}, &Amenity{},
		&PropertyAmenity{}, &Subscription{}, &Review{}, &ModerationEvent{},
	}
}
