package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tagtune/internal/formatter"
	"github.com/desertthunder/tagtune/internal/models"
	"github.com/desertthunder/tagtune/internal/shared"
	"github.com/desertthunder/tagtune/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PlaylistsList prints every playlist with tracks annotated by stored tags.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	user := r.user(cmd)

	playlists, err := r.fetchTaggedPlaylists(ctx, user)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(playlists, pretty)
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, pl := range playlists {
		r.writePlain("%d. %s\n", i+1, pl.Name)
		if pl.Playlist.Description != "" {
			r.writePlain("   Description: %s\n", pl.Playlist.Description)
		}
		r.writePlain("   ID: %s\n", pl.ID)
		r.writePlain("   Tracks: %d\n", len(pl.Tracks))
		r.writePlain("   Visibility: %s\n", shared.VisibilityString(pl.Public))
		r.writePlain("\n")
	}

	return nil
}

// PlaylistsExport exports one tagged playlist to the requested format.
func (r *Runner) PlaylistsExport(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("id")
	format := cmd.String("format")
	output := cmd.String("output")
	user := r.user(cmd)

	playlists, err := r.fetchTaggedPlaylists(ctx, user)
	if err != nil {
		return err
	}

	var target *models.TaggedPlaylist
	for i := range playlists {
		if playlists[i].ID == playlistID {
			target = &playlists[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}

	switch format {
	case "csv":
		result, err := formatter.WriteCSVExport(target, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Playlist exported to %s\n", result.TracksFile)
		r.writePlain("✓ Metadata written to %s\n", result.MetadataFile)
	case "markdown", "md":
		mdFile, err := formatter.WriteMarkdownExport(target, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Playlist exported to %s\n", mdFile)
	case "text", "txt":
		textFile, err := formatter.WriteTextExport(target, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Playlist exported to %s\n", textFile)
	default:
		return fmt.Errorf("%w: unknown format %q (use csv, markdown, or text)", shared.ErrInvalidArgument, format)
	}

	return nil
}

// PlaylistsCreate creates a playlist populated with tracks matching the tags.
func (r *Runner) PlaylistsCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.String("name")
	tags := cmd.StringSlice("tags")
	user := r.user(cmd)

	playlistID, err := r.controller.CreatePlaylistByTags(ctx, user, name, tags)
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}

	r.writePlain("✓ Created playlist '%s' (%s) from tags %v\n", name, playlistID, tags)
	return nil
}

// PlaylistsUpdate adds tracks matching the tags to an existing playlist.
func (r *Runner) PlaylistsUpdate(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("id")
	tags := cmd.StringSlice("tags")
	user := r.user(cmd)

	if err := r.controller.UpdatePlaylistByTags(ctx, user, playlistID, tags); err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}

	r.writePlain("✓ Updated playlist %s from tags %v\n", playlistID, tags)
	return nil
}

func (r *Runner) fetchTaggedPlaylists(ctx context.Context, user models.User) ([]models.TaggedPlaylist, error) {
	progressChan := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progressChan {
			r.logger.Debug("progress", "phase", update.Phase.String(), "message", update.Message)
		}
	}()

	playlists, err := r.controller.GetPlaylists(ctx, user, progressChan)
	close(progressChan)
	<-done

	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlists: %w", err)
	}
	return playlists, nil
}
