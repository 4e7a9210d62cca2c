package ops

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/hpungsan/pintree/internal/bookmark"
	"github.com/hpungsan/pintree/internal/config"
	"github.com/hpungsan/pintree/internal/db"
	"github.com/hpungsan/pintree/internal/errors"
	"github.com/hpungsan/pintree/internal/session"
)

// Export formats.
const (
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
	FormatSQLite   = "sqlite"
)

// formatExts lists the accepted extensions per format; the first is the default.
var formatExts = map[string][]string{
	FormatJSON:     {".json"},
	FormatYAML:     {".yaml", ".yml"},
	FormatMarkdown: {".md", ".markdown"},
	FormatSQLite:   {".db", ".sqlite"},
}

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path   string // optional, default: ~/.pintree/exports/<source>-<timestamp>.<ext>
	Format string // optional, inferred from the path extension, else json
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Format     string `json:"format"`
	SnapshotID string `json:"snapshot_id"`
	Folders    int    `json:"folders"`
	Links      int    `json:"links"`
	ExportedAt int64  `json:"exported_at"`
}

// exportDocument is the YAML export layout.
type exportDocument struct {
	SnapshotID string           `yaml:"snapshot_id"`
	Source     string           `yaml:"source"`
	ExportedAt time.Time        `yaml:"exported_at"`
	Stats      bookmark.Stats   `yaml:"stats"`
	Folders    []*bookmark.Node `yaml:"folders"`
}

// Export writes the current transformed hierarchy to a file.
// The JSON format is itself a loadable bookmark document.
func Export(ctx context.Context, sess *session.Session, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	snap, err := sess.Snapshot()
	if err != nil {
		return nil, err
	}

	format, err := resolveFormat(input)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	exportPath := input.Path
	if exportPath == "" {
		exportPath, err = defaultExportPath(snap.Source, format, now)
		if err != nil {
			return nil, err
		}
	}

	// Validate ALL paths (both user-provided and default) for security
	if err := ValidatePath(exportPath, formatExts[format], cfg); err != nil {
		return nil, err
	}

	dir := filepath.Dir(exportPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	tempPath, err := tempPathFor(exportPath)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tempPath) // no-op once renamed

	switch format {
	case FormatSQLite:
		err = writeSQLite(ctx, tempPath, snap)
	default:
		err = writeTextFile(tempPath, func(w io.Writer) error {
			return encode(w, format, snap, now)
		})
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewCancelled("export")
		}
		return nil, errors.As(err)
	}

	if err := finalize(tempPath, exportPath); err != nil {
		return nil, err
	}

	return &ExportOutput{
		Path:       exportPath,
		Format:     format,
		SnapshotID: snap.ID,
		Folders:    snap.Stats.Folders,
		Links:      snap.Stats.Links,
		ExportedAt: now.Unix(),
	}, nil
}

func resolveFormat(input ExportInput) (string, error) {
	format := strings.ToLower(strings.TrimSpace(input.Format))
	if format != "" {
		if _, ok := formatExts[format]; !ok {
			return "", errors.NewInvalidRequest(fmt.Sprintf("unknown export format: %q", input.Format))
		}
		return format, nil
	}
	ext := strings.ToLower(filepath.Ext(input.Path))
	for f, exts := range formatExts {
		for _, e := range exts {
			if e == ext {
				return f, nil
			}
		}
	}
	return FormatJSON, nil
}

func encode(w io.Writer, format string, snap *session.Snapshot, now time.Time) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(exportDocument{
			SnapshotID: snap.ID,
			Source:     snap.Source,
			ExportedAt: now.UTC(),
			Stats:      snap.Stats,
			Folders:    snap.Hierarchy,
		}); err != nil {
			return err
		}
		return enc.Close()
	case FormatMarkdown:
		_, err := fmt.Fprintf(w, "# Bookmarks\n\n_%d links from %s, exported %s._\n%s",
			snap.Stats.Links, snap.Source, now.UTC().Format(time.RFC3339), bookmark.Outline(snap.Hierarchy))
		return err
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap.Hierarchy)
	}
}

// writeTextFile writes through a buffered, no-follow file handle and syncs.
func writeTextFile(path string, write func(io.Writer) error) error {
	file, err := openFileNoFollow(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	bw := bufio.NewWriter(file)
	if err := write(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if err := file.Sync(); err != nil {
		return err
	}
	// Close before atomic replace (required on Windows; fine elsewhere).
	return file.Close()
}

func writeSQLite(ctx context.Context, path string, snap *session.Snapshot) error {
	conn, err := db.Create(path)
	if err != nil {
		return err
	}
	if err := db.WriteSnapshot(ctx, conn, snap); err != nil {
		conn.Close()
		return err
	}
	return conn.Close()
}

func tempPathFor(exportPath string) (string, error) {
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return "", errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	return exportPath + "." + hex.EncodeToString(randBytes) + ".tmp", nil
}

// finalize renames the temp file into place.
func finalize(tempPath, exportPath string) error {
	// os.Rename would follow a symlink at the destination
	if info, err := os.Lstat(exportPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInvalidRequest("export path is a symlink")
	}

	// On Windows, os.Rename fails if the destination exists; the existing file is kept.
	if err := os.Rename(tempPath, exportPath); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(exportPath); statErr == nil {
				return errors.NewInvalidRequest("export destination already exists; overwriting is not supported on Windows yet (choose a new path or delete the existing file)")
			}
		}
		return errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}
	return nil
}

// defaultExportPath generates the default export path.
// Format: ~/.pintree/exports/<source-name>-<timestamp>.<ext>
func defaultExportPath(source, format string, now time.Time) (string, error) {
	dir, err := DefaultExportsDir()
	if err != nil {
		return "", err
	}

	base := filepath.Base(strings.TrimSuffix(source, "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	name := SanitizeForFilename(base)

	filename := fmt.Sprintf("%s-%s%s", name, now.Format("2006-01-02T150405"), formatExts[format][0])
	return filepath.Join(dir, filename), nil
}
