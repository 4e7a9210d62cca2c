package ops

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/hpungsan/pintree/internal/bookmark"
	"github.com/hpungsan/pintree/internal/config"
	"github.com/hpungsan/pintree/internal/db"
	"github.com/hpungsan/pintree/internal/errors"
)

func unsafeConfig() *config.Config {
	return &config.Config{AllowUnsafePaths: true}
}

func TestExport_JSONRoundTrips(t *testing.T) {
	sess := newTestSession(t, testDoc)
	exportPath := filepath.Join(t.TempDir(), "out.json")

	out, err := Export(context.Background(), sess, unsafeConfig(), ExportInput{Path: exportPath})
	require.NoError(t, err)
	assert.Equal(t, exportPath, out.Path)
	assert.Equal(t, FormatJSON, out.Format)
	assert.Equal(t, 4, out.Links)
	assert.NotZero(t, out.ExportedAt)

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)

	// The export is itself a loadable document.
	roots, issues, err := bookmark.Decode(data)
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Equal(t, 4, bookmark.CountLinks(roots))

	snap, _ := sess.Snapshot()
	again := bookmark.Transform(roots, bookmark.TransformOptions{Mode: bookmark.ModeIdentity})
	assert.Equal(t, bookmark.Flatten(snap.Hierarchy), bookmark.Flatten(again))
}

func TestExport_YAML(t *testing.T) {
	sess := newTestSession(t, testDoc)
	exportPath := filepath.Join(t.TempDir(), "out.yml")

	out, err := Export(context.Background(), sess, unsafeConfig(), ExportInput{Path: exportPath})
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, out.Format)

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)

	var doc struct {
		SnapshotID string           `yaml:"snapshot_id"`
		Stats      bookmark.Stats   `yaml:"stats"`
		Folders    []*bookmark.Node `yaml:"folders"`
	}
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, out.SnapshotID, doc.SnapshotID)
	assert.Equal(t, 4, doc.Stats.Links)
	assert.Equal(t, 4, bookmark.CountLinks(doc.Folders))
}

func TestExport_Markdown(t *testing.T) {
	sess := newTestSession(t, testDoc)
	exportPath := filepath.Join(t.TempDir(), "out.md")

	_, err := Export(context.Background(), sess, unsafeConfig(), ExportInput{Path: exportPath})
	require.NoError(t, err)

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "# Bookmarks\n"))
	assert.Contains(t, text, "## Unsorted")
	assert.Contains(t, text, "[Stray](https://stray.test)")
}

func TestExport_SQLite(t *testing.T) {
	sess := newTestSession(t, testDoc)
	exportPath := filepath.Join(t.TempDir(), "out.db")

	out, err := Export(context.Background(), sess, unsafeConfig(), ExportInput{Path: exportPath})
	require.NoError(t, err)
	assert.Equal(t, FormatSQLite, out.Format)

	conn, err := sql.Open("sqlite", exportPath)
	require.NoError(t, err)
	defer conn.Close()

	meta, err := db.ReadMeta(context.Background(), conn)
	require.NoError(t, err)
	assert.Equal(t, out.SnapshotID, meta[db.MetaSnapshotID])
	assert.Equal(t, "4", meta[db.MetaLinks])

	resources, err := db.ListResources(context.Background(), conn)
	require.NoError(t, err)
	snap, _ := sess.Snapshot()
	assert.Equal(t, len(snap.Index), len(resources))
}

func TestExport_FormatExtensionMismatch(t *testing.T) {
	sess := newTestSession(t, testDoc)
	exportPath := filepath.Join(t.TempDir(), "out.json")

	_, err := Export(context.Background(), sess, unsafeConfig(), ExportInput{Path: exportPath, Format: "yaml"})
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest), "err = %v", err)
}

func TestExport_UnknownFormat(t *testing.T) {
	sess := newTestSession(t, testDoc)

	_, err := Export(context.Background(), sess, unsafeConfig(), ExportInput{Path: "/tmp/x.csv", Format: "csv"})
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest), "err = %v", err)
}

func TestExport_OutsideAllowedDir(t *testing.T) {
	sess := newTestSession(t, testDoc)
	exportPath := filepath.Join(t.TempDir(), "out.json")

	_, err := Export(context.Background(), sess, &config.Config{}, ExportInput{Path: exportPath})
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest), "err = %v", err)
	assert.NoFileExists(t, exportPath)
}

func TestExport_Overwrites(t *testing.T) {
	sess := newTestSession(t, testDoc)
	exportPath := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, os.WriteFile(exportPath, []byte("old"), 0600))

	_, err := Export(context.Background(), sess, unsafeConfig(), ExportInput{Path: exportPath})
	require.NoError(t, err)

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.NotEqual(t, "old", string(data))

	entries, err := os.ReadDir(filepath.Dir(exportPath))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestExport_DefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	sess := newTestSession(t, testDoc)

	out, err := Export(context.Background(), sess, &config.Config{}, ExportInput{Format: FormatMarkdown})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".pintree", "exports"), filepath.Dir(out.Path))
	assert.True(t, strings.HasPrefix(filepath.Base(out.Path), "bookmarks-"), "path = %s", out.Path)
	assert.Equal(t, ".md", filepath.Ext(out.Path))
	assert.FileExists(t, out.Path)
}
