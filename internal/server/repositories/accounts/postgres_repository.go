// Package accounts persists confirmed accounts and pending signups in
// PostgreSQL.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tasknest/internal/common"
	"github.com/dmitrijs2005/tasknest/internal/dbx"
	"github.com/dmitrijs2005/tasknest/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	accountsTable        = "accounts"
	pendingAccountsTable = "pending_accounts"

	uniqueViolation = "23505"
)

type PostgresRepository struct {
	db    dbx.DBTX
	table string
}

// NewPostgresRepository returns the repository for confirmed accounts.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, table: accountsTable}
}

// NewPendingPostgresRepository returns the repository for signups awaiting
// email confirmation.
func NewPendingPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, table: pendingAccountsTable}
}

// Create inserts account, generating an id when it has none. A duplicate
// email yields common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (id, first_name, last_name, email, password_hash, name, confirmed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`, r.table)

	_, err := r.db.ExecContext(ctx, query,
		account.ID, account.FirstName, account.LastName, account.Email,
		account.PasswordHash, account.Name, account.Confirmed)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := fmt.Sprintf(
		`SELECT id, first_name, last_name, email, password_hash, name, confirmed FROM %s
		 WHERE email = $1
		 LIMIT 1`, r.table)

	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

// GetByID returns common.ErrorNotFound for ids that are not UUIDs without
// touching the database.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	query := fmt.Sprintf(
		`SELECT id, first_name, last_name, email, password_hash, name, confirmed FROM %s
		 WHERE id = $1`, r.table)

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}

	query := fmt.Sprintf(`UPDATE %s SET password_hash = $1 WHERE id = $2`, r.table)

	res, err := r.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

// MarkConfirmed sets confirmed and returns the updated record.
func (r *PostgresRepository) MarkConfirmed(ctx context.Context, id string) (*models.Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	query := fmt.Sprintf(
		`UPDATE %s SET confirmed = TRUE
		 WHERE id = $1
		 RETURNING id, first_name, last_name, email, password_hash, name, confirmed`, r.table)

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Account, error) {
	a := &models.Account{}
	err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.PasswordHash, &a.Name, &a.Confirmed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}
