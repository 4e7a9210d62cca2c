package db

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/hpungsan/pintree/internal/bookmark"
	"github.com/hpungsan/pintree/internal/errors"
	"github.com/hpungsan/pintree/internal/session"
)

// Meta keys written by WriteSnapshot.
const (
	MetaSnapshotID = "snapshot_id"
	MetaSource     = "source"
	MetaLoadedAt   = "loaded_at"
	MetaFolders    = "folders"
	MetaLinks      = "links"
)

// WriteSnapshot stores the snapshot's hierarchy in one transaction.
func WriteSnapshot(ctx context.Context, db *sql.DB, snap *session.Snapshot) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewInternal(err)
	}
	defer tx.Rollback()

	meta := map[string]string{
		MetaSnapshotID: snap.ID,
		MetaSource:     snap.Source,
		MetaLoadedAt:   snap.LoadedAt.UTC().Format(time.RFC3339Nano),
		MetaFolders:    strconv.Itoa(snap.Stats.Folders),
		MetaLinks:      strconv.Itoa(snap.Stats.Links),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return errors.NewInternal(err)
		}
	}

	w := &treeWriter{ctx: ctx, tx: tx}
	if err := w.write(snap.Hierarchy, sql.NullInt64{}, 0, nil); err != nil {
		if ctx.Err() != nil {
			return errors.NewCancelled("export")
		}
		return errors.NewInternal(err)
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

type treeWriter struct {
	ctx context.Context
	tx  *sql.Tx
}

func (w *treeWriter) write(nodes []*bookmark.Node, parent sql.NullInt64, depth int, path []string) error {
	for pos, n := range nodes {
		switch n.Kind {
		case bookmark.KindFolder:
			res, err := w.tx.ExecContext(w.ctx,
				`INSERT INTO folders (parent_id, position, depth, title, add_date) VALUES (?, ?, ?, ?, ?)`,
				parent, pos, depth+1, n.Title, toNullInt64(n.AddedAt))
			if err != nil {
				return err
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			childPath := append(path[:len(path):len(path)], n.Title)
			if err := w.write(n.Children, sql.NullInt64{Int64: id, Valid: true}, depth+1, childPath); err != nil {
				return err
			}
		case bookmark.KindLink:
			_, err := w.tx.ExecContext(w.ctx,
				`INSERT INTO resources (folder_id, position, title, url, icon, add_date, category_path) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				parent, pos, n.Title, n.URL, toNullString(n.Icon), toNullInt64(n.AddedAt),
				strings.Join(path, bookmark.PathSeparator))
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadMeta returns every meta row.
func ReadMeta(ctx context.Context, db *sql.DB) (map[string]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT key, value FROM meta`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, errors.NewInternal(err)
		}
		meta[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return meta, nil
}

// ListResources returns stored links in tree order, i.e. the order Flatten
// produced them.
func ListResources(ctx context.Context, db *sql.DB) ([]bookmark.IndexedResource, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT title, url, icon, add_date, category_path
		FROM resources
		ORDER BY id
	`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	out := []bookmark.IndexedResource{}
	for rows.Next() {
		var (
			r        bookmark.IndexedResource
			icon     sql.NullString
			addDate  sql.NullInt64
			category string
		)
		if err := rows.Scan(&r.Title, &r.URL, &icon, &addDate, &category); err != nil {
			return nil, errors.NewInternal(err)
		}
		r.Icon = icon.String
		if addDate.Valid {
			v := addDate.Int64
			r.AddedAt = &v
		}
		r.AncestorPath = []string{}
		if category != "" {
			r.AncestorPath = strings.Split(category, bookmark.PathSeparator)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return out, nil
}

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func toNullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
