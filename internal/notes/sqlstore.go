package notes

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/blockloop/scan/v2"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

const (
	sqlSelectNotesByUser = `SELECT id, user_id, text, created_at, updated_at FROM notes WHERE user_id = $1 ORDER BY created_at`
	sqlSelectNoteByID    = `SELECT id, user_id, text, created_at, updated_at FROM notes WHERE id = $1`
	sqlInsertNote        = `INSERT INTO notes (id, user_id, text, created_at, updated_at) ` +
		`VALUES ($1, $2, $3, current_timestamp, current_timestamp) ` +
		`RETURNING id, user_id, text, created_at, updated_at`
	sqlUpdateNote = `UPDATE notes SET text = $2, updated_at = current_timestamp WHERE id = $1 ` +
		`RETURNING id, user_id, text, created_at, updated_at`
	sqlDeleteNote       = `DELETE FROM notes WHERE id = $1`
	sqlCountNotesByUser = `SELECT count(*) FROM notes WHERE user_id = $1`
)

type sqlStore struct {
	dbconn   *sql.DB
	settings *StoreSettings
}

func NewSqlStore(dbs map[string]*sql.DB, settings *StoreSettings) (Store, error) {
	if dbs[settings.URI] == nil {
		dbconn, err := sql.Open("postgres", settings.URI)
		if err != nil {
			return nil, err
		}
		dbs[settings.URI] = dbconn
	}
	return &sqlStore{
		dbconn:   dbs[settings.URI],
		settings: settings,
	}, nil
}

func (s *sqlStore) ListByUser(ctx context.Context, userID string) ([]Note, error) {
	var notes []Note

	log.Printf("SQL: %s; -- %s", sqlSelectNotesByUser, userID)
	if rows, err := s.dbconn.QueryContext(ctx, sqlSelectNotesByUser, userID); err == nil {
		if err := scan.RowsStrict(&notes, rows); err != nil {
			return nil, err
		}
	} else {
		return nil, err
	}
	return notes, nil
}

func (s *sqlStore) Lookup(ctx context.Context, id string) (*Note, error) {
	return s.queryNote(ctx, sqlSelectNoteByID, id)
}

func (s *sqlStore) Create(ctx context.Context, note *Note) (*Note, error) {
	if note.ID == uuid.Nil {
		note.ID = uuid.New()
	}
	return s.queryNote(ctx, sqlInsertNote, note.ID, note.UserID, note.Text)
}

func (s *sqlStore) Update(ctx context.Context, note *Note) (*Note, error) {
	return s.queryNote(ctx, sqlUpdateNote, note.ID, note.Text)
}

func (s *sqlStore) Delete(ctx context.Context, id string) error {
	log.Printf("SQL: %s; -- %s", sqlDeleteNote, id)
	var result, err = s.dbconn.ExecContext(ctx, sqlDeleteNote, id)
	if err != nil {
		return err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func (s *sqlStore) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int

	log.Printf("SQL: %s; -- %s", sqlCountNotesByUser, userID)
	if err := s.dbconn.QueryRowContext(ctx, sqlCountNotesByUser, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *sqlStore) Ping(ctx context.Context) error {
	return s.dbconn.PingContext(ctx)
}

func (s *sqlStore) queryNote(ctx context.Context, query string, args ...any) (*Note, error) {
	var note Note

	log.Printf("SQL: %s; -- %v", query, args)
	if rows, err := s.dbconn.QueryContext(ctx, query, args...); err == nil {
		if err := scan.RowStrict(&note, rows); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrNoteNotFound
			}
			return nil, err
		}
	} else {
		log.Printf("!!! note query failed: %v", err)
		return nil, err
	}
	return &note, nil
}
