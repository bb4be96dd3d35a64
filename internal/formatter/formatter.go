// package formatter provides functions to export tagged library data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/tagtune/internal/models"
	"github.com/desertthunder/tagtune/internal/shared"
)

// trackRecord renders one tagged track as a CSV record.
//
// Tags are joined with '|' so the column survives round-tripping through
// spreadsheet tools that treat commas as separators.
func trackRecord(track models.TrackWithTags) []string {
	return []string{
		track.ID,
		track.Title,
		track.Artist,
		track.Album,
		strconv.Itoa(track.Duration),
		track.ISRC,
		strings.Join(track.Tags, "|"),
	}
}

var csvHeaders = []string{"ID", "Title", "Artist", "Album", "Duration", "ISRC", "Tags"}

// TracksToCSV converts tagged tracks to CSV with columns: ID, Title, Artist, Album, Duration, ISRC, Tags
func TracksToCSV(tracks []models.TrackWithTags) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		if err := writer.Write(trackRecord(track)); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// PlaylistToMarkdown converts a tagged playlist to Markdown
func PlaylistToMarkdown(playlist *models.TaggedPlaylist) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", playlist.Name))

	if playlist.Description != "" {
		buf.WriteString(fmt.Sprintf("**Description**: %s\n\n", playlist.Description))
	}

	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n", len(playlist.Tracks)))
	buf.WriteString(fmt.Sprintf("**Visibility**: %s\n\n", shared.VisibilityString(playlist.Public)))

	buf.WriteString("## Tracks\n\n")
	for i, track := range playlist.Tracks {
		duration := shared.FormatDuration(track.Duration)
		albumPart := ""
		if track.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Album)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s] — tags: %s\n", i+1, track.Artist, track.Title, albumPart, duration, shared.JoinTags(track.Tags)))
	}

	return buf.Bytes(), nil
}

// PlaylistToText converts a tagged playlist to plain text
func PlaylistToText(playlist *models.TaggedPlaylist) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", playlist.Name))
	if playlist.Description != "" {
		buf.WriteString(fmt.Sprintf("Description: %s\n", playlist.Description))
	}
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(playlist.Tracks)))

	for i, track := range playlist.Tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s [%s]\n", i+1, track.Artist, track.Title, shared.JoinTags(track.Tags)))
	}

	return buf.Bytes(), nil
}

// LibraryToText converts a user's stored library to plain text, one track per line
func LibraryToText(tracks []models.TrackWithTags) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Library: %d tracks\n\n", len(tracks)))
	for i, track := range tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s [%s]\n", i+1, track.Artist, track.Title, shared.JoinTags(track.Tags)))
	}

	return buf.Bytes(), nil
}

// ToMetadataJSON generates a JSON representation of playlist metadata (without tracks)
func ToMetadataJSON(playlist models.Playlist) ([]byte, error) {
	return shared.MarshalJSON(playlist, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	TracksFile   string
	MetadataFile string
}

// WriteCSVExport exports a tagged playlist to CSV with an accompanying metadata JSON file.
//
// Defaults to playlist ID as the base filename & creates {base}_tracks.csv and {base}_metadata.json
func WriteCSVExport(playlist *models.TaggedPlaylist, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = playlist.ID
	}

	csvData, err := TracksToCSV(playlist.Tracks)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	tracksFile := baseFilepath + "_tracks.csv"
	if err := os.WriteFile(tracksFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(playlist.Playlist)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		TracksFile:   tracksFile,
		MetadataFile: metadataFile,
	}, nil
}

// WriteMarkdownExport exports a tagged playlist to {dir}/README.md.
//
// Directory name defaults to the playlist ID.
func WriteMarkdownExport(playlist *models.TaggedPlaylist, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = playlist.ID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := PlaylistToMarkdown(playlist)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return mdFile, nil
}

// WriteTextExport exports a tagged playlist to plain text.
//
// Defaults to {playlist.ID}_tracks.txt as the filename.
func WriteTextExport(playlist *models.TaggedPlaylist, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_tracks.txt", playlist.ID)
	}

	textData, err := PlaylistToText(playlist)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
