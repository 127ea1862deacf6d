package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"rental-market/models"
	"rental-market/storage"
	"rental-market/utils"
)

// ModerationService backs the owner dashboard and the admin panel. Every
// call takes the acting session explicitly and checks its role before
// touching the store.
type ModerationService struct {
	store  *storage.ModerationStore
	logger *utils.Logger
}

func NewModerationService(store *storage.ModerationStore, logger *utils.Logger) *ModerationService {
	return &ModerationService{store: store, logger: logger}
}

func requireAdmin(sess *models.Session, action string) error {
	if !sess.Is(models.RoleAdmin) {
		return fmt.Errorf("%s as %s: %w", action, sess.EffectiveRole(), ErrForbidden)
	}
	return nil
}

func (m *ModerationService) ListUsers(ctx context.Context, sess *models.Session) ([]storage.Profile, error) {
	if err := requireAdmin(sess, "list users"); err != nil {
		return nil, err
	}
	return m.store.ListUsers(ctx)
}

func (m *ModerationService) ListProperties(ctx context.Context, sess *models.Session) ([]storage.Property, error) {
	if err := requireAdmin(sess, "list properties"); err != nil {
		return nil, err
	}
	return m.store.ListProperties(ctx)
}

func (m *ModerationService) ListSubscriptions(ctx context.Context, sess *models.Session) ([]storage.Subscription, error) {
	if err := requireAdmin(sess, "list subscriptions"); err != nil {
		return nil, err
	}
	return m.store.ListSubscriptions(ctx)
}

func (m *ModerationService) Stats(ctx context.Context, sess *models.Session) (storage.Stats, error) {
	if err := requireAdmin(sess, "stats"); err != nil {
		return storage.Stats{}, err
	}
	return m.store.Stats(ctx)
}

// SetRole changes another user's role. The caller passes the version it last
// saw; a stale version yields storage.ErrVersionConflict.
func (m *ModerationService) SetRole(ctx context.Context, sess *models.Session, userID uuid.UUID, role models.Role, version int) (*storage.Profile, error) {
	if err := requireAdmin(sess, "set role"); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, fmt.Errorf("set role: unknown role %q", role)
	}
	return m.store.SetRole(ctx, sess.UserID, userID, role, version)
}

// SetAvailability shows or hides a property. Admins may change any property,
// owners only their own.
func (m *ModerationService) SetAvailability(ctx context.Context, sess *models.Session, propertyID uuid.UUID, available bool, version int) (*storage.Property, error) {
	if err := m.requireOwnerOf(ctx, sess, propertyID, "set availability"); err != nil {
		return nil, err
	}
	return m.store.SetAvailability(ctx, sess.UserID, propertyID, available, version)
}

// DeleteProperty removes a property. Admins may delete any property, owners
// only their own.
func (m *ModerationService) DeleteProperty(ctx context.Context, sess *models.Session, propertyID uuid.UUID, version int) error {
	if err := m.requireOwnerOf(ctx, sess, propertyID, "delete property"); err != nil {
		return err
	}
	return m.store.DeleteProperty(ctx, sess.UserID, propertyID, version)
}

// Events returns the audit trail of one target. Admins see everything; owners
// only the trail of their own properties, including ones they have deleted.
func (m *ModerationService) Events(ctx context.Context, sess *models.Session, targetID uuid.UUID) ([]storage.ModerationEvent, error) {
	err := m.requireOwnerOf(ctx, sess, targetID, "events")
	if errors.Is(err, storage.ErrNotFound) {
		return m.deletedEvents(ctx, sess, targetID)
	}
	if err != nil {
		return nil, err
	}
	return m.store.Events(ctx, targetID)
}

// deletedEvents serves the trail of a property that no longer exists. Only
// the owner who deleted it is let through.
func (m *ModerationService) deletedEvents(ctx context.Context, sess *models.Session, targetID uuid.UUID) ([]storage.ModerationEvent, error) {
	events, err := m.store.Events(ctx, targetID)
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		if e.Action == storage.ActionDeleteProperty && e.ActorID == sess.UserID {
			return events, nil
		}
	}
	return nil, fmt.Errorf("events: %w", storage.ErrNotFound)
}

func (m *ModerationService) requireOwnerOf(ctx context.Context, sess *models.Session, propertyID uuid.UUID, action string) error {
	switch sess.EffectiveRole() {
	case models.RoleAdmin:
		return nil
	case models.RoleOwner:
		prop, err := m.store.GetProperty(ctx, propertyID)
		if err != nil {
			return fmt.Errorf("%s: %w", action, err)
		}
		if prop.OwnerID != sess.UserID {
			m.logger.Warn("[moderation] %s tried to %s on %s owned by %s", sess.UserID, action, propertyID, prop.OwnerID)
			return fmt.Errorf("%s on another owner's property: %w", action, ErrForbidden)
		}
		return nil
	default:
		return fmt.Errorf("%s as %s: %w", action, sess.EffectiveRole(), ErrForbidden)
	}
}
