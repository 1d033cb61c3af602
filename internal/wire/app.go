package wire

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mithrel/kennel/internal/catalog"
	"github.com/mithrel/kennel/internal/config"
	"github.com/mithrel/kennel/internal/db"
	"github.com/mithrel/kennel/internal/logging"
	"github.com/mithrel/kennel/internal/remote"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg     config.Config
	V       *viper.Viper
	Log     *zap.Logger
	Store   db.Store
	Remote  *remote.Client
	Catalog *catalog.Session
}

// BuildApp validates the loaded configuration and wires dependencies.
// Nothing is fetched until Load is called.
func BuildApp(ctx context.Context, v *viper.Viper) (*App, error) {
	if err := config.CheckConfigValidity(v); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg := config.FromViper(v)

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: logging.Format(cfg.LogFormat)})
	if err != nil {
		return nil, err
	}
	return build(ctx, v, cfg, logger, nil)
}

// BuildWith wires an App around an existing remote, for tests and embedding.
func BuildWith(ctx context.Context, v *viper.Viper, logger *zap.Logger, rem catalog.Remote) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	return build(ctx, v, config.FromViper(v), logger, rem)
}

func build(ctx context.Context, v *viper.Viper, cfg config.Config, logger *zap.Logger, rem catalog.Remote) (*App, error) {
	store, err := db.Open(ctx, cfg.StorageURL)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	app := &App{Cfg: cfg, V: v, Log: logger, Store: store}
	if rem == nil {
		client, err := remote.New(remote.Options{
			BaseURL:  cfg.APIURL,
			PageSize: cfg.APIPageSize,
			Timeout:  cfg.APITimeout,
			Log:      logger.Named("remote"),
		})
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		app.Remote = client
		rem = client
	}

	app.Catalog = catalog.New(catalog.Options{
		Store:               store,
		Remote:              rem,
		Log:                 logger,
		Strict:              cfg.Strict,
		BackfillConcurrency: cfg.BackfillConcurrency,
	})
	return app, nil
}

// Load runs the catalog pipeline once. Store write failures are logged and
// tolerated so the catalog stays usable.
func (a *App) Load(ctx context.Context) error {
	if a.Catalog.Loaded() {
		return nil
	}
	return a.Reload(ctx)
}

// Reload re-fetches the listing even when already loaded.
func (a *App) Reload(ctx context.Context) error {
	err := a.Catalog.Load(ctx)
	if errors.Is(err, catalog.ErrPersist) {
		a.Log.Warn("catalog loaded but not saved", zap.Error(err))
		return nil
	}
	return err
}

func (a *App) Close() error {
	_ = a.Log.Sync()
	return a.Store.Close()
}
