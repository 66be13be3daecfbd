// Package cli implements the interactive consoles of the three tools: the
// voting station (urna), the administration console and the results viewer.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/votofacil/votofacil/internal/backend"
	"github.com/votofacil/votofacil/internal/config"
	"github.com/votofacil/votofacil/internal/logging"
	"github.com/votofacil/votofacil/internal/repositories"
	"github.com/votofacil/votofacil/internal/services"

	_ "modernc.org/sqlite"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	client  backend.Client
	photos  backend.PhotoStore
	monitor *services.Monitor

	mirror  services.MirrorService
	catalog services.CatalogService
	ballots services.BallotService
	admin   services.AdminService
	results services.ResultsService
	auth    services.AuthService

	reader *bufio.Reader
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	db, repos, err := repositories.InitDatabase(ctx, cfg.LocalDBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing local cache: %w", err)
	}

	client, err := backend.NewFirestoreClient(ctx, cfg.ProjectID, cfg.CredentialsFile)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	photos, err := backend.NewGCSPhotoStore(ctx, cfg.StorageBucket, cfg.CredentialsFile)
	if err != nil {
		_ = db.Close()
		_ = client.Close()
		return nil, err
	}

	a := &App{
		config: cfg,
		logger: logger,
		db:     db,
		client: client,
		photos: photos,
		reader: bufio.NewReader(os.Stdin),
	}

	a.mirror = services.NewMirrorService(client, repos, logger)

	// A recovered connection drains the queue and refreshes the mirror.
	onOnline := func(ctx context.Context) {
		if n, err := a.ballots.Drain(ctx); err != nil {
			logger.Warn(ctx, "error draining queue", "delivered", n, "error", err)
		}
		if err := a.mirror.RefreshAll(ctx); err != nil {
			logger.Warn(ctx, "error refreshing mirror", "error", err)
		}
	}
	a.monitor = services.NewMonitor(client, cfg.OnlineCheckTimeout, onOnline, logger)

	a.catalog = services.NewCatalogService(client, a.mirror, a.monitor, logger)
	a.ballots = services.NewBallotService(client, repos, a.monitor, logger)
	a.admin = services.NewAdminService(client, photos, logger)
	a.results = services.NewResultsService(client)
	a.auth = services.NewAuthService(backend.NewAdminAuth(cfg.WebAPIKey))

	return a, nil
}

func (a *App) Close() {
	if a.client != nil {
		_ = a.client.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

// mode renders the connectivity state for the prompt.
func (a *App) mode() string {
	if a.monitor.Online() {
		return "online"
	}
	return "offline"
}

// startWatcher runs the connectivity probe loop in the background.
func (a *App) startWatcher(ctx context.Context) {
	go a.monitor.Start(ctx, a.config.OnlineCheckInterval)
}
