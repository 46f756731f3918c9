package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pitchside/cricket-league/models"
)

var (
	ErrLedgerNotFound         = errors.New("ledger not found")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrTransactionKeyConflict = errors.New("transaction id already exists")
)

type LedgerRepository interface {
	GetByOrganizer(ctx context.Context, organizerID int) (*models.Ledger, error)
	// AddToBalance creates the organizer's ledger row on first credit and
	// adds amount to the balance with server-side arithmetic.
	AddToBalance(ctx context.Context, exec SQLExecutor, organizerID int, amount int64) error
	GetTransactionByKey(ctx context.Context, exec SQLExecutor, transactionID string) (*models.Transaction, error)
	InsertTransaction(ctx context.Context, exec SQLExecutor, tx *models.Transaction) error
	ListTransactionsByOrganizer(ctx context.Context, organizerID int) ([]*models.Transaction, error)
}

type postgresLedgerRepository struct {
	db *sql.DB
}

func NewPostgresLedgerRepository(db *sql.DB) LedgerRepository {
	return &postgresLedgerRepository{db: db}
}

func (r *postgresLedgerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresLedgerRepository) GetByOrganizer(ctx context.Context, organizerID int) (*models.Ledger, error) {
	query := `SELECT id, organizer_id, balance, updated_at FROM ledgers WHERE organizer_id = $1`

	ledger := &models.Ledger{}
	err := r.db.QueryRowContext(ctx, query, organizerID).Scan(
		&ledger.ID, &ledger.OrganizerID, &ledger.Balance, &ledger.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLedgerNotFound
		}
		return nil, fmt.Errorf("failed to scan ledger for organizer %d: %w", organizerID, err)
	}
	return ledger, nil
}

func (r *postgresLedgerRepository) AddToBalance(ctx context.Context, exec SQLExecutor, organizerID int, amount int64) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO ledgers (organizer_id, balance, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (organizer_id)
		DO UPDATE SET balance = ledgers.balance + EXCLUDED.balance, updated_at = NOW()`

	_, err := executor.ExecContext(ctx, query, organizerID, amount)
	if err != nil {
		return fmt.Errorf("failed to credit ledger for organizer %d: %w", organizerID, err)
	}
	return nil
}

const transactionColumns = `id, transaction_id, organizer_id, enrollment_id, tournament_id,
	amount, direction, status, reason, created_at`

func (r *postgresLedgerRepository) scanTransaction(row interface{ Scan(...interface{}) error }) (*models.Transaction, error) {
	t := &models.Transaction{}
	err := row.Scan(
		&t.ID, &t.TransactionID, &t.OrganizerID, &t.EnrollmentID, &t.TournamentID,
		&t.Amount, &t.Direction, &t.Status, &t.Reason, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresLedgerRepository) GetTransactionByKey(ctx context.Context, exec SQLExecutor, transactionID string) (*models.Transaction, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1`
	return r.scanTransaction(executor.QueryRowContext(ctx, query, transactionID))
}

func (r *postgresLedgerRepository) InsertTransaction(ctx context.Context, exec SQLExecutor, tx *models.Transaction) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO transactions
			(transaction_id, organizer_id, enrollment_id, tournament_id, amount, direction, status, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		tx.TransactionID, tx.OrganizerID, tx.EnrollmentID, tx.TournamentID,
		tx.Amount, tx.Direction, tx.Status, tx.Reason,
	).Scan(&tx.ID, &tx.CreatedAt)

	if err != nil && isUniqueViolation(err, "transactions_transaction_id_key") {
		return ErrTransactionKeyConflict
	}
	return err
}

func (r *postgresLedgerRepository) ListTransactionsByOrganizer(ctx context.Context, organizerID int) ([]*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE organizer_id = $1 ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, query, organizerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for organizer %d: %w", organizerID, err)
	}
	defer rows.Close()

	transactions := make([]*models.Transaction, 0)
	for rows.Next() {
		t, scanErr := r.scanTransaction(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
