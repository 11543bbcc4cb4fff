package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"pushcast/internal/formatter"
	"pushcast/internal/models"
	"pushcast/internal/shared"
	"pushcast/internal/ui"
	"pushcast/internal/upload"
)

// Upload publishes a video file to the selected platforms.
func (r *Runner) Upload(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	request, err := buildUploadRequest(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("starting upload", "file", request.Path, "platforms", cmd.StringSlice("platform"))

	var response *models.UploadResponse
	if cmd.Bool("tui") {
		response, err = r.runUploadTUI(ctx, request)
	} else {
		response, err = r.runUploadPlain(ctx, request)
	}

	if err != nil {
		var validationErr *upload.ValidationError
		if errors.As(err, &validationErr) {
			for _, message := range validationErr.Messages {
				r.writePlain("✗ %s\n", message)
			}
			return fmt.Errorf("%w: Upload abgebrochen", shared.ErrInvalidInput)
		}
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Upload abgeschlossen")
	r.writePlain("%s", formatter.ResultsToText(response))

	if cmd.Bool("json") {
		return r.writeJSON(response, cmd.Bool("pretty"))
	}
	return nil
}

func buildUploadRequest(cmd *cli.Command) (upload.Request, error) {
	var targets []models.Platform
	for _, name := range cmd.StringSlice("platform") {
		platform, ok := models.ParsePlatform(strings.ToLower(name))
		if !ok {
			return upload.Request{}, fmt.Errorf("%w: %s", shared.ErrUnknownPlatform, name)
		}
		targets = append(targets, platform)
	}

	privacy := models.Privacy(cmd.String("privacy"))
	switch privacy {
	case models.PrivacyPublic, models.PrivacyPrivate, models.PrivacyUnlisted:
	default:
		return upload.Request{}, fmt.Errorf("%w: privacy must be public, private, or unlisted", shared.ErrInvalidFlag)
	}

	return upload.Request{
		Path: cmd.StringArg("file"),
		Metadata: models.VideoMetadata{
			Title:       cmd.String("title"),
			Description: cmd.String("description"),
			Tags:        cmd.StringSlice("tag"),
			Privacy:     privacy,
			Category:    cmd.String("category"),
		},
		Platforms: targets,
	}, nil
}

// runUploadPlain prints progress as plain lines for non-interactive use.
func (r *Runner) runUploadPlain(ctx context.Context, request upload.Request) (*models.UploadResponse, error) {
	progressCh := make(chan upload.ProgressUpdate, 50)
	done := make(chan struct{})

	go func() {
		defer close(done)
		var lastPct int
		for update := range progressCh {
			switch update.Phase {
			case upload.Validate, upload.Prepare:
				r.writePlain("→ %s\n", update.Message)
			case upload.Transfer:
				pct := int(update.Percent * 100)
				if pct >= lastPct+10 {
					lastPct = pct
					r.writePlain("   %d%%\n", pct)
				}
			case upload.Finalize:
				r.writePlain("→ %s\n", update.Message)
			}
		}
	}()

	response, err := r.uploader.UploadVideo(ctx, request, progressCh)
	close(progressCh)
	<-done

	return response, err
}

func (r *Runner) runUploadTUI(ctx context.Context, request upload.Request) (*models.UploadResponse, error) {
	fileLogger, err := shared.NewFileLogger("./tmp/pushcast-tui.log")
	if err != nil {
		return nil, fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewUploadModel(ctx, r.uploader, request)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return nil, fmt.Errorf("error running TUI: %w", err)
	}

	return model.Response()
}
