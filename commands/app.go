package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rental-market/config"
	"rental-market/models"
	"rental-market/services"
	"rental-market/storage"
	"rental-market/utils"
)

// TokenEnv names the environment variable holding the session token when
// --token is not given.
const TokenEnv = "RENTAL_SESSION_TOKEN"

// app carries what every command needs: configuration, the logger and
// constructors for the backends.
type app struct {
	cfg    *config.Config
	logger *utils.Logger
}

func newApp() *app {
	cfg := config.Load()
	return &app{cfg: cfg, logger: utils.NewLogger(cfg.LogLevel)}
}

// listingSource returns the sample fixtures in demo mode, Postgres otherwise.
// The returned func releases the source.
func (a *app) listingSource(demo bool) (storage.ListingSource, func(), error) {
	if demo {
		a.logger.Info("Demo mode: serving %d sample listings", len(storage.SampleListings()))
		return storage.NewMemorySource(storage.SampleListings()), func() {}, nil
	}
	pg, err := storage.NewPostgresSource(a.cfg.DSN(), a.logger)
	if err != nil {
		a.logger.Error("Make sure Docker is running: docker compose up -d")
		return nil, nil, err
	}
	return pg, func() { _ = pg.Close() }, nil
}

func (a *app) searchService(src storage.ListingSource) *services.SearchService {
	return services.NewSearchService(src, services.NewQueryBuilder(a.cfg.PriceCeiling), a.logger, a.cfg.TransformWorkers)
}

// retry wraps calls to the listing source. Only data access failures are
// worth repeating; malformed data or a refused role will not change.
func (a *app) retry() *utils.RetryConfig {
	return &utils.RetryConfig{
		MaxAttempts: a.cfg.MaxRetries,
		BaseDelay:   a.cfg.RetryBaseDelay(),
		Logger:      a.logger,
		Retryable: func(err error) bool {
			return errors.Is(err, services.ErrDataAccess)
		},
	}
}

func (a *app) sessionStore(ctx context.Context) (*storage.RedisSessionStore, error) {
	return storage.NewRedisSessionStore(ctx, a.cfg.RedisAddr(), a.cfg.RedisPassword, a.cfg.RedisDB, a.cfg.SessionTTL)
}

func (a *app) moderation() (*services.ModerationService, func(), error) {
	store, err := storage.OpenModerationStore(a.cfg.DSN(), a.logger)
	if err != nil {
		return nil, nil, err
	}
	return services.NewModerationService(store, a.logger), func() { _ = store.Close() }, nil
}

// session resolves the caller. No token means an anonymous guest (nil).
func (a *app) session(cmd *cobra.Command) (*models.Session, error) {
	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = os.Getenv(TokenEnv)
	}
	if token == "" {
		return nil, nil
	}

	store, err := a.sessionStore(cmd.Context())
	if err != nil {
		return nil, err
	}
	defer store.Close()

	sess, err := store.Load(cmd.Context(), token)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	a.logger.Debug("Acting as %s (%s)", sess.Email, sess.Role)
	return sess, nil
}
