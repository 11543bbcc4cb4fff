package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"pushcast/internal/api"
	"pushcast/internal/formatter"
	"pushcast/internal/models"
	"pushcast/internal/platforms"
	"pushcast/internal/shared"
)

// PlatformsStatus prints the connection dashboard.
func (r *Runner) PlatformsStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	statuses, err := r.platforms.FetchStatus(ctx, r.session.UserID(), cmd.Bool("force"))
	if err != nil {
		if statuses == nil {
			return err
		}
		r.writePlain("⚠ Status konnte nicht aktualisiert werden, zeige letzten bekannten Stand\n\n")
	}

	if cmd.Bool("json") {
		return r.writeJSON(statuses, cmd.Bool("pretty"))
	}

	r.writePlain("%s", formatter.PlatformsToText(statuses))
	return nil
}

// PlatformConnect links a platform account via the browser.
func (r *Runner) PlatformConnect(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	platform, err := platformArg(cmd)
	if err != nil {
		return err
	}

	opts := platforms.ConnectOptions{ClientSecretsPath: cmd.String("client-secrets")}

	r.writePlain("→ Browser wird für die %s-Autorisierung geöffnet...\n", platform)
	r.writePlain("→ Warte auf Autorisierung (2 Minuten Timeout)...\n")

	if err := r.platforms.Connect(ctx, r.session.UserID(), platform, opts); err != nil {
		return fmt.Errorf("%s", api.Detail(err, err.Error()))
	}

	r.logger.Info("platform connected", "platform", platform)
	r.writePlain("✓ %s verbunden\n", platform)
	return nil
}

// PlatformDisconnect revokes a platform connection.
func (r *Runner) PlatformDisconnect(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	platform, err := platformArg(cmd)
	if err != nil {
		return err
	}

	if err := r.platforms.Disconnect(ctx, r.session.UserID(), platform); err != nil {
		return err
	}

	r.logger.Info("platform disconnected", "platform", platform)
	r.writePlain("✓ %s getrennt\n", platform)
	return nil
}

// PlatformRefresh renews the stored platform credentials.
func (r *Runner) PlatformRefresh(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	platform, err := platformArg(cmd)
	if err != nil {
		return err
	}

	if err := r.platforms.RefreshToken(ctx, platform); err != nil {
		return err
	}

	r.writePlain("✓ %s-Token erneuert\n", platform)
	return nil
}

func platformArg(cmd *cli.Command) (models.Platform, error) {
	name := cmd.StringArg("platform")
	platform, ok := models.ParsePlatform(name)
	if !ok {
		return "", fmt.Errorf("%w: %s (youtube, tiktok, instagram)", shared.ErrUnknownPlatform, name)
	}
	return platform, nil
}
