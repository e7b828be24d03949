package users

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"log"

	"github.com/blockloop/scan/v2"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

const (
	sqlSelectUserByUsername = `SELECT id, username, email, password_hash, password_salt, active, roles, created_at, updated_at ` +
		`FROM users WHERE lower(username) = lower($1)`
	sqlSelectUserByID = `SELECT id, username, email, password_hash, password_salt, active, roles, created_at, updated_at ` +
		`FROM users WHERE id = $1`
	sqlSelectUsers = `SELECT id, username, email, password_hash, password_salt, active, roles, created_at, updated_at ` +
		`FROM users ORDER BY username`
	sqlInsertUser = `INSERT INTO users (id, username, email, password_hash, password_salt, active, roles, created_at, updated_at) ` +
		`VALUES ($1, $2, $3, $4, $5, $6, $7, current_timestamp, current_timestamp) ` +
		`RETURNING id, username, email, password_hash, password_salt, active, roles, created_at, updated_at`
	sqlUpdateUser = `UPDATE users SET username = $2, email = $3, active = $4, roles = $5, updated_at = current_timestamp ` +
		`WHERE id = $1 ` +
		`RETURNING id, username, email, password_hash, password_salt, active, roles, created_at, updated_at`
	sqlDeleteUser = `DELETE FROM users WHERE id = $1`
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

func (s *sqlStore) Authenticate(ctx context.Context, username, passwordHash string) (*User, error) {
	var user, err = s.queryUser(ctx, sqlSelectUserByUsername, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(user.PasswordHash), []byte(passwordHash)) != 1 {
		return nil, ErrAuthenticationFailed
	}
	if !user.Active {
		return nil, ErrUserInactive
	}
	return user, nil
}

func (s *sqlStore) Lookup(ctx context.Context, id string) (*User, error) {
	return s.queryUser(ctx, sqlSelectUserByID, id)
}

func (s *sqlStore) List(ctx context.Context) ([]User, error) {
	var users []User

	log.Printf("SQL: %s", sqlSelectUsers)
	if rows, err := s.dbconn.QueryContext(ctx, sqlSelectUsers); err == nil {
		if err := scan.RowsStrict(&users, rows); err != nil {
			return nil, err
		}
	} else {
		return nil, err
	}
	return users, nil
}

func (s *sqlStore) Create(ctx context.Context, user *User) (*User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	var created, err = s.queryUser(ctx, sqlInsertUser,
		user.ID, user.Username, user.Email, user.PasswordHash, user.PasswordSalt, user.Active, user.Roles)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return created, nil
}

func (s *sqlStore) Update(ctx context.Context, user *User) (*User, error) {
	return s.queryUser(ctx, sqlUpdateUser, user.ID, user.Username, user.Email, user.Active, user.Roles)
}

func (s *sqlStore) Delete(ctx context.Context, id string) error {
	log.Printf("SQL: %s; -- %s", sqlDeleteUser, id)
	var result, err = s.dbconn.ExecContext(ctx, sqlDeleteUser, id)
	if err != nil {
		return err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *sqlStore) Ping(ctx context.Context) error {
	return s.dbconn.PingContext(ctx)
}

func (s *sqlStore) queryUser(ctx context.Context, query string, args ...any) (*User, error) {
	var user User

	log.Printf("SQL: %s; -- %v", query, args)
	if rows, err := s.dbconn.QueryContext(ctx, query, args...); err == nil {
		if err := scan.RowStrict(&user, rows); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
	} else {
		log.Printf("!!! user query failed: %v", err)
		return nil, err
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	type sqlStateError interface {
		SQLState() string
	}
	var stateErr sqlStateError
	return errors.As(err, &stateErr) && stateErr.SQLState() == "23505"
}
