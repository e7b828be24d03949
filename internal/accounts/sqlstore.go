package accounts

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
	sqlSelectAccountsByUser = `SELECT id, user_id, balance_cents, created_at, updated_at FROM accounts WHERE user_id = $1 ORDER BY created_at`
	sqlSelectAccountByID    = `SELECT id, user_id, balance_cents, created_at, updated_at FROM accounts WHERE id = $1`
	sqlInsertAccount        = `INSERT INTO accounts (id, user_id, balance_cents, created_at, updated_at) ` +
		`VALUES ($1, $2, $3, current_timestamp, current_timestamp) ` +
		`RETURNING id, user_id, balance_cents, created_at, updated_at`
	sqlSelectAccountForUpdate = `SELECT id, user_id, balance_cents, created_at, updated_at FROM accounts WHERE id = $1 FOR UPDATE`
	sqlUpdateBalance          = `UPDATE accounts SET balance_cents = balance_cents + $2, updated_at = current_timestamp WHERE id = $1`
	sqlInsertTransaction      = `INSERT INTO transactions (id, source_account_id, destination_account_id, amount_cents, created_at) ` +
		`VALUES ($1, $2, $3, $4, current_timestamp) ` +
		`RETURNING id, source_account_id, destination_account_id, amount_cents, created_at`
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

func (s *sqlStore) ListByUser(ctx context.Context, userID string) ([]Account, error) {
	var accounts []Account

	log.Printf("SQL: %s; -- %s", sqlSelectAccountsByUser, userID)
	if rows, err := s.dbconn.QueryContext(ctx, sqlSelectAccountsByUser, userID); err == nil {
		if err := scan.RowsStrict(&accounts, rows); err != nil {
			return nil, err
		}
	} else {
		return nil, err
	}
	return accounts, nil
}

func (s *sqlStore) Lookup(ctx context.Context, id string) (*Account, error) {
	var account Account

	log.Printf("SQL: %s; -- %s", sqlSelectAccountByID, id)
	if rows, err := s.dbconn.QueryContext(ctx, sqlSelectAccountByID, id); err == nil {
		if err := scan.RowStrict(&account, rows); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrAccountNotFound
			}
			return nil, err
		}
	} else {
		return nil, err
	}
	return &account, nil
}

func (s *sqlStore) Create(ctx context.Context, account *Account) (*Account, error) {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	var created Account

	log.Printf("SQL: %s; -- %s", sqlInsertAccount, account.ID)
	if rows, err := s.dbconn.QueryContext(ctx, sqlInsertAccount, account.ID, account.UserID, account.BalanceCents); err == nil {
		if err := scan.RowStrict(&created, rows); err != nil {
			return nil, err
		}
	} else {
		return nil, err
	}
	return &created, nil
}

// Transfer locks both accounts in id order to avoid deadlocks between
// concurrent opposite transfers, validates, then writes both balance
// updates and the transaction row in one SQL transaction.
func (s *sqlStore) Transfer(ctx context.Context, sourceID, destinationID uuid.UUID, amountCents int64) (*Transaction, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	if sourceID == destinationID {
		return nil, ErrSameAccount
	}

	var tx, err = s.dbconn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var first, second = sourceID, destinationID
	if second.String() < first.String() {
		first, second = second, first
	}
	for _, id := range []uuid.UUID{first, second} {
		if err := lockAccount(ctx, tx, id); err != nil {
			return nil, err
		}
	}

	var balance int64
	if err := tx.QueryRowContext(ctx, `SELECT balance_cents FROM accounts WHERE id = $1`, sourceID).Scan(&balance); err != nil {
		return nil, err
	}
	if balance < amountCents {
		return nil, ErrInsufficientFunds
	}

	if _, err := tx.ExecContext(ctx, sqlUpdateBalance, sourceID, -amountCents); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, sqlUpdateBalance, destinationID, amountCents); err != nil {
		return nil, err
	}

	var transaction Transaction
	log.Printf("SQL: %s; -- %s -> %s, %d", sqlInsertTransaction, sourceID, destinationID, amountCents)
	if rows, err := tx.QueryContext(ctx, sqlInsertTransaction, uuid.New(), sourceID, destinationID, amountCents); err == nil {
		if err := scan.RowStrict(&transaction, rows); err != nil {
			return nil, err
		}
	} else {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (s *sqlStore) Ping(ctx context.Context) error {
	return s.dbconn.PingContext(ctx)
}

func lockAccount(ctx context.Context, tx *sql.Tx, id uuid.UUID) error {
	var account Account
	if rows, err := tx.QueryContext(ctx, sqlSelectAccountForUpdate, id); err == nil {
		if err := scan.RowStrict(&account, rows); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrAccountNotFound
			}
			return err
		}
	} else {
		return err
	}
	return nil
}
