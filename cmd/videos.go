package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"pushcast/internal/api"
	"pushcast/internal/formatter"
	"pushcast/internal/shared"
)

// VideosList prints all uploads of the signed-in user.
func (r *Runner) VideosList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	videos, err := r.uploader.ListByUser(ctx, r.session.UserID())
	if err != nil {
		return err
	}

	if output := cmd.String("output"); output != "" {
		result, err := formatter.WriteCSVExport(videos, r.session.UserID(), output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Export geschrieben: %s\n", result.VideosFile)
		return nil
	}

	if cmd.Bool("json") {
		return r.writeJSON(videos, cmd.Bool("pretty"))
	}

	r.writePlain("%s", formatter.VideosToText(videos))
	return nil
}

// VideoStatus prints the state of a single upload.
func (r *Runner) VideoStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	videoID := cmd.StringArg("id")
	if videoID == "" {
		return fmt.Errorf("%w: video ID is required", shared.ErrMissingArgument)
	}

	video, err := r.uploader.Status(ctx, videoID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(video, cmd.Bool("pretty"))
	}

	r.writePlain("Video: %s\n", video.Title)
	r.writePlain("Status: %s\n", video.Status)
	if len(video.Platforms) > 0 {
		r.writePlain("Plattformen: %v\n", video.Platforms)
	}
	return nil
}

// VideoUpdate patches title, description, or privacy of an upload.
func (r *Runner) VideoUpdate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	videoID := cmd.StringArg("id")
	if videoID == "" {
		return fmt.Errorf("%w: video ID is required", shared.ErrMissingArgument)
	}

	changes := map[string]any{}
	for _, field := range []string{"title", "description", "privacy"} {
		if value := cmd.String(field); value != "" {
			changes[field] = value
		}
	}
	if len(changes) == 0 {
		return fmt.Errorf("%w: nothing to update, pass --title, --description, or --privacy", shared.ErrMissingArgument)
	}

	video, err := r.uploader.Update(ctx, videoID, changes)
	if err != nil {
		return fmt.Errorf("update failed: %s", api.Detail(err, err.Error()))
	}

	r.logger.Info("video updated", "id", videoID)
	r.writePlain("✓ Video aktualisiert: %s\n", video.Title)
	return nil
}

// VideoDelete removes an upload.
func (r *Runner) VideoDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	videoID := cmd.StringArg("id")
	if videoID == "" {
		return fmt.Errorf("%w: video ID is required", shared.ErrMissingArgument)
	}

	if !cmd.Bool("yes") {
		return fmt.Errorf("%w: deletion is permanent, re-run with --yes to confirm", shared.ErrInvalidFlag)
	}

	if err := r.uploader.Delete(ctx, videoID, r.session.UserID()); err != nil {
		return err
	}

	r.logger.Info("video deleted", "id", videoID)
	r.writePlain("✓ Video gelöscht\n")
	return nil
}
