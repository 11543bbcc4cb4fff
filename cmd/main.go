package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"pushcast/internal/api"
	"pushcast/internal/platforms"
	"pushcast/internal/repositories"
	"pushcast/internal/session"
	"pushcast/internal/shared"
	"pushcast/internal/upload"
)

func main() {
	godotenv.Load()

	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}
	if baseURL := os.Getenv("PUSHCAST_API_URL"); baseURL != "" {
		config.API.BaseURL = baseURL
	}

	client := api.NewClient(config.API.BaseURL, api.Options{
		HTTPClient:     &http.Client{Timeout: config.API.Timeout()},
		RequestsPerSec: config.API.RequestsPerSec,
		Logger:         logger,
	})

	var sessionStore *session.Store
	if stateDir, err := shared.StateDir(); err == nil {
		sessionStore = session.NewStore(client, session.NewStorage(stateDir), logger)
		client.SetTokenSource(sessionStore)
		client.SetUnauthorizedHook(sessionStore.HandleUnauthorized)
		if err := sessionStore.InitFromStorage(); err != nil {
			logger.Warn("failed to restore session", "error", err)
		}
	} else {
		logger.Warn("state directory unavailable, session persistence disabled", "error", err)
		sessionStore = session.NewStore(client, session.NewStorage(os.TempDir()), logger)
		client.SetTokenSource(sessionStore)
		client.SetUnauthorizedHook(sessionStore.HandleUnauthorized)
	}

	var videoRepo *repositories.VideoRepository
	var platformRepo *repositories.PlatformRepository
	if db, err := shared.NewDatabase(config.Database.Path); err == nil {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		if err := shared.RunMigrations(db); err == nil {
			videoRepo = repositories.NewVideoRepository(db)
			platformRepo = repositories.NewPlatformRepository(db)
		} else {
			logger.Warn("migrations failed, local history disabled", "error", err)
		}
	} else {
		logger.Warn("database unavailable, local history disabled", "error", err)
	}

	platformStore := platforms.NewStore(client, platforms.Options{
		Repository:   platformRepo,
		Logger:       logger,
		CallbackAddr: config.Connect.CallbackAddr(),
	})
	if sessionStore.IsAuthenticated() {
		if err := platformStore.Restore(sessionStore.UserID()); err != nil {
			logger.Debug("no persisted platform status", "error", err)
		}
	}

	uploader := upload.NewUploader(client, upload.Options{
		Repository:    videoRepo,
		Logger:        logger,
		MaxFileSizeMB: config.Upload.MaxFileSizeMB,
		MaxRetries:    config.Upload.MaxRetries,
	})

	runner := NewRunner(RunnerOpts{
		Config:    config,
		Client:    client,
		Session:   sessionStore,
		Platforms: platformStore,
		Uploader:  uploader,
		Logger:    logger,
	})

	app := &cli.Command{
		Name:     "pushcast",
		Usage:    "Publish videos to YouTube, TikTok & Instagram from one place",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and the local database",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Create a config file from the embedded template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}
