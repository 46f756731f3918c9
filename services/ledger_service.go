package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/pitchside/cricket-league/models"
	"github.com/pitchside/cricket-league/repositories"
)

// CreditParams describes one settlement credit. TransactionID is the
// idempotency key: repeating it returns the original transaction untouched.
type CreditParams struct {
	TransactionID string
	OrganizerID   int
	EnrollmentID  *int
	TournamentID  *int
	Amount        int64
	Reason        string
}

type LedgerService interface {
	// Credit runs inside the caller's transaction (exec) so the enrollment
	// state change and the ledger write commit or roll back together.
	Credit(ctx context.Context, exec repositories.SQLExecutor, params CreditParams) (*models.Transaction, error)
	GetBalance(ctx context.Context, organizerID int) (*models.Ledger, error)
	ListTransactions(ctx context.Context, organizerID int) ([]*models.Transaction, error)
}

type ledgerService struct {
	ledgerRepo repositories.LedgerRepository
}

func NewLedgerService(ledgerRepo repositories.LedgerRepository) LedgerService {
	return &ledgerService{ledgerRepo: ledgerRepo}
}

func (s *ledgerService) Credit(ctx context.Context, exec repositories.SQLExecutor, params CreditParams) (*models.Transaction, error) {
	if params.Amount <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCreditAmount, params.Amount)
	}

	existing, err := s.ledgerRepo.GetTransactionByKey(ctx, exec, params.TransactionID)
	if err == nil {
		// Idempotent no-op: the settlement already credited.
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrTransactionNotFound) {
		return nil, fmt.Errorf("failed to check for existing transaction: %w", err)
	}

	transaction := &models.Transaction{
		TransactionID: params.TransactionID,
		OrganizerID:   params.OrganizerID,
		EnrollmentID:  params.EnrollmentID,
		TournamentID:  params.TournamentID,
		Amount:        params.Amount,
		Direction:     models.DirectionCredit,
		Status:        models.TransactionStatusSuccess,
		Reason:        params.Reason,
	}

	if err := s.ledgerRepo.InsertTransaction(ctx, exec, transaction); err != nil {
		if errors.Is(err, repositories.ErrTransactionKeyConflict) {
			// Lost a race against a concurrent identical credit.
			return s.ledgerRepo.GetTransactionByKey(ctx, exec, params.TransactionID)
		}
		return nil, fmt.Errorf("failed to insert transaction %s: %w", params.TransactionID, err)
	}

	if err := s.ledgerRepo.AddToBalance(ctx, exec, params.OrganizerID, params.Amount); err != nil {
		return nil, err
	}
	return transaction, nil
}

func (s *ledgerService) GetBalance(ctx context.Context, organizerID int) (*models.Ledger, error) {
	ledger, err := s.ledgerRepo.GetByOrganizer(ctx, organizerID)
	if err != nil {
		if errors.Is(err, repositories.ErrLedgerNotFound) {
			// No credits yet: a zero ledger, not an error.
			return &models.Ledger{OrganizerID: organizerID, Balance: 0}, nil
		}
		return nil, err
	}
	return ledger, nil
}

func (s *ledgerService) ListTransactions(ctx context.Context, organizerID int) ([]*models.Transaction, error) {
	return s.ledgerRepo.ListTransactionsByOrganizer(ctx, organizerID)
}
