package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/propworks/compliance-service/internal/config"
	"github.com/propworks/compliance-service/internal/repositories"
	"github.com/propworks/compliance-service/internal/utils"
)

const (
	maxRetries     = 5
	connectTimeout = 5 * time.Second
	initialBackoff = 500 * time.Millisecond
)

// App holds the process-wide dependencies: configuration, the in-memory
// store, and (when DB_URL is set) the Postgres-backed snapshot persistence.
type App struct {
	Config  *config.Config
	Store   *repositories.Store
	DB      *pgxpool.Pool
	Durable repositories.DurableStore
}

func NewApp(cfg *config.Config) (*App, error) {
	a := &App{
		Config: cfg,
		Store:  repositories.NewStore(),
	}

	if cfg.DatabaseURL == "" {
		utils.Logger.Info("DB_URL not set; running with in-memory state only.")
		return a, nil
	}

	var (
		dbPool  *pgxpool.Pool
		err     error
		backoff = initialBackoff
	)

	for i := 1; i <= maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		dbPool, err = newDBPool(ctx, cfg.DatabaseURL)
		cancel()
		if err == nil {
			utils.Logger.Infof("Successfully connected to database on attempt %d", i)
			break
		}

		utils.Logger.WithError(err).Warnf(
			"Failed to connect to database on attempt %d/%d. Retrying in %v...",
			i, maxRetries, backoff,
		)

		if i == maxRetries {
			return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", maxRetries, err)
		}

		time.Sleep(backoff)
		backoff *= 2
	}

	a.DB = dbPool

	pgStore := repositories.NewPgSnapshotStore(dbPool)
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := pgStore.EnsureSchema(ctx); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("ensure snapshot schema: %w", err)
	}
	a.Durable = pgStore

	return a, nil
}

// RestoreState loads the last saved snapshot into the store. Must run before
// any writer starts. Returns true when state was restored.
func (a *App) RestoreState(ctx context.Context) (bool, error) {
	if a.Durable == nil {
		return false, nil
	}
	snap, err := a.Durable.Load(ctx)
	if err != nil {
		return false, err
	}
	if snap == nil {
		return false, nil
	}
	a.Store.Restore(snap)
	utils.Logger.Infof("Restored %d properties and %d schedules from snapshot taken %s",
		len(snap.Properties), len(snap.Schedules), snap.TakenAt.Format(time.RFC3339))
	return true, nil
}

// SaveState persists the current snapshot. Failures are the caller's to log;
// persistence never blocks the domain.
func (a *App) SaveState(ctx context.Context) error {
	if a.Durable == nil {
		return nil
	}
	return a.Durable.Save(ctx, a.Store.Snapshot())
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
		utils.Logger.Info("Database connection closed.")
	}
}

// newDBPool constructs the pgx pool with production-safe settings.
func newDBPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	cfg.MaxConnIdleTime = 2 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	return pgxpool.ConnectConfig(ctx, cfg)
}
