// Package sqlite implements the user-data store on a local SQLite file.
// It mirrors the viewer and media tables of the hosted store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/bigspawn/tsundoku-sync/internal/domain"
	"github.com/bigspawn/tsundoku-sync/internal/store"
)

const schema = `
	CREATE TABLE IF NOT EXISTS viewer (
		id INTEGER PRIMARY KEY,
		currency TEXT NOT NULL DEFAULT 'USD'
	);

	CREATE TABLE IF NOT EXISTS media (
		viewerId INTEGER NOT NULL,
		mediaId TEXT NOT NULL,
		curVolumes INTEGER NOT NULL DEFAULT 0,
		maxVolumes INTEGER NOT NULL DEFAULT 1,
		cost TEXT NOT NULL DEFAULT '0',
		notes TEXT,
		PRIMARY KEY (viewerId, mediaId)
	);
`

// Store keeps records in a SQLite database.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open opens (and creates when missing) the database at path.
// Use ":memory:" for a throwaway database.
func Open(path string) (*Store, error) {
	dsn := path + "?_busy_timeout=5000&_journal_mode=WAL"
	if path == ":memory:" {
		dsn = path
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, store.Unavailable("open", err)
	}

	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, store.Unavailable("open", err)
	}
	if _, err = db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, store.Unavailable("create tables", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) GetRecords(ctx context.Context, ownerID int) ([]domain.UserMediaRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT viewerId, CAST(mediaId AS INTEGER), curVolumes, maxVolumes, cost, notes
		FROM media
		WHERE viewerId = ?
		ORDER BY CAST(mediaId AS INTEGER)
	`, ownerID)
	if err != nil {
		return nil, store.Unavailable("get records", err)
	}
	defer rows.Close()

	var records []domain.UserMediaRecord
	for rows.Next() {
		var (
			rec   domain.UserMediaRecord
			cost  string
			notes sql.NullString
		)
		if err := rows.Scan(&rec.OwnerID, &rec.SeriesID, &rec.CurrentVolumes, &rec.MaxVolumes, &cost, &notes); err != nil {
			return nil, store.Unavailable("get records", err)
		}
		if rec.Cost, err = decimal.NewFromString(cost); err != nil {
			return nil, store.Unavailable("get records", fmt.Errorf("cost %q: %w", cost, err))
		}
		if notes.Valid {
			rec.Notes = &notes.String
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Unavailable("get records", err)
	}
	return records, nil
}

func (s *Store) InsertRecords(ctx context.Context, records []domain.UserMediaRecord) error {
	if len(records) == 0 {
		return nil
	}
	return s.inTx(ctx, "insert records", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO media (viewerId, mediaId, curVolumes, maxVolumes, cost, notes)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, rec := range records {
			if _, err := stmt.ExecContext(ctx, rec.OwnerID, fmt.Sprint(rec.SeriesID),
				rec.CurrentVolumes, rec.MaxVolumes, rec.Cost.String(), nullString(rec.Notes)); err != nil {
				return fmt.Errorf("series %d: %w", rec.SeriesID, err)
			}
		}
		return nil
	})
}

func (s *Store) UpsertRecords(ctx context.Context, updates []domain.VolumeUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	return s.inTx(ctx, "upsert records", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO media (viewerId, mediaId, curVolumes)
			VALUES (?, ?, ?)
			ON CONFLICT(viewerId, mediaId) DO UPDATE SET
				curVolumes = excluded.curVolumes
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, u := range updates {
			if _, err := stmt.ExecContext(ctx, u.OwnerID, fmt.Sprint(u.SeriesID), u.CurrentVolumes); err != nil {
				return fmt.Errorf("series %d: %w", u.SeriesID, err)
			}
		}
		return nil
	})
}

func (s *Store) DeleteRecords(ctx context.Context, ownerID int, seriesIDs []int) error {
	if len(seriesIDs) == 0 {
		return nil
	}
	args := make([]any, 0, len(seriesIDs)+1)
	args = append(args, ownerID)
	for _, id := range seriesIDs {
		args = append(args, fmt.Sprint(id))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(seriesIDs)), ",")

	//nolint:gosec // placeholders only
	query := "DELETE FROM media WHERE viewerId = ? AND mediaId IN (" + placeholders + ")"
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return store.Unavailable("delete records", err)
	}
	return nil
}

func (s *Store) UpdateRecord(ctx context.Context, ownerID, seriesID int, changes domain.RecordChanges) error {
	if changes.Empty() {
		return nil
	}
	var (
		sets []string
		args []any
	)
	if changes.CurrentVolumes != nil {
		sets = append(sets, "curVolumes = ?")
		args = append(args, *changes.CurrentVolumes)
	}
	if changes.MaxVolumes != nil {
		sets = append(sets, "maxVolumes = ?")
		args = append(args, *changes.MaxVolumes)
	}
	if changes.Cost != nil {
		sets = append(sets, "cost = ?")
		args = append(args, changes.Cost.String())
	}
	if changes.SetNotes {
		sets = append(sets, "notes = ?")
		args = append(args, nullString(changes.NormalizedNotes()))
	}
	args = append(args, ownerID, fmt.Sprint(seriesID))

	//nolint:gosec // column names are fixed above
	query := "UPDATE media SET " + strings.Join(sets, ", ") + " WHERE viewerId = ? AND mediaId = ?"
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return store.Unavailable("update record", err)
	}
	return nil
}

func (s *Store) GetPreferences(ctx context.Context, ownerID int) (*domain.OwnerPreferences, error) {
	prefs := domain.OwnerPreferences{OwnerID: ownerID}
	err := s.db.QueryRowContext(ctx, "SELECT currency FROM viewer WHERE id = ?", ownerID).Scan(&prefs.CurrencyCode)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, store.Unavailable("get preferences", err)
	}
	return &prefs, nil
}

func (s *Store) CreateOwner(ctx context.Context, ownerID int) error {
	_, err := s.db.ExecContext(ctx, "INSERT INTO viewer (id, currency) VALUES (?, ?)", ownerID, domain.DefaultCurrencyCode)
	if err != nil {
		return store.Unavailable("create owner", err)
	}
	return nil
}

func (s *Store) SetCurrencyCode(ctx context.Context, ownerID int, code string) error {
	if _, err := s.db.ExecContext(ctx, "UPDATE viewer SET currency = ? WHERE id = ?", code, ownerID); err != nil {
		return store.Unavailable("set currency", err)
	}
	return nil
}

func (s *Store) inTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Unavailable(op, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return store.Unavailable(op, err)
	}
	if err := tx.Commit(); err != nil {
		return store.Unavailable(op, err)
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
