package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pitchside/cricket-league/models"
	"github.com/pitchside/cricket-league/notify"
	"github.com/pitchside/cricket-league/payments"
	"github.com/pitchside/cricket-league/repositories"
)

// PaymentVerifier is the signature-checking seam; satisfied by
// *payments.SignatureVerifier.
type PaymentVerifier interface {
	Verify(orderID, paymentID, signature string) (bool, error)
}

type EnrollmentService interface {
	Enroll(ctx context.Context, tournamentID, clubID, requesterID int) (*models.Enrollment, error)
	CreateOrder(ctx context.Context, enrollmentID, requesterID int) (*payments.Order, error)
	ConfirmPayment(ctx context.Context, enrollmentID int, orderID, paymentID, signature string) (*models.Enrollment, error)
	ListPaidByTournament(ctx context.Context, tournamentID int) ([]*models.Enrollment, error)
}

type enrollmentService struct {
	txManager      repositories.TxManager
	enrollmentRepo repositories.EnrollmentRepository
	tournamentRepo repositories.TournamentRepository
	clubRepo       repositories.ClubRepository
	ledger         LedgerService
	gateway        payments.Gateway
	verifier       PaymentVerifier
	queue          notify.Queue
	logger         *slog.Logger
}

func NewEnrollmentService(
	txManager repositories.TxManager,
	enrollmentRepo repositories.EnrollmentRepository,
	tournamentRepo repositories.TournamentRepository,
	clubRepo repositories.ClubRepository,
	ledger LedgerService,
	gateway payments.Gateway,
	verifier PaymentVerifier,
	queue notify.Queue,
	logger *slog.Logger,
) EnrollmentService {
	return &enrollmentService{
		txManager:      txManager,
		enrollmentRepo: enrollmentRepo,
		tournamentRepo: tournamentRepo,
		clubRepo:       clubRepo,
		ledger:         ledger,
		gateway:        gateway,
		verifier:       verifier,
		queue:          queue,
		logger:         logger,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, tournamentID, clubID, requesterID int) (*models.Enrollment, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}
	if tournament.Blocked {
		return nil, ErrTournamentBlocked
	}
	if tournament.Status != models.TournamentStatusRegistrationOpen {
		return nil, ErrRegistrationNotOpen
	}

	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to load club %d: %w", clubID, err)
	}
	if club.ManagerID != requesterID {
		return nil, ErrNotClubManager
	}

	enrollment := &models.Enrollment{
		TournamentID:  tournamentID,
		ClubID:        clubID,
		ManagerID:     requesterID,
		Fee:           tournament.EntryFee,
		Currency:      tournament.Currency,
		PaymentStatus: models.PaymentStatusPending,
	}
	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		if errors.Is(err, repositories.ErrEnrollmentConflict) {
			return nil, ErrEnrollmentConflict
		}
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}
	return enrollment, nil
}

// CreateOrder opens a payment order at the gateway for a pending enrollment.
// The gateway call happens outside any database transaction.
func (s *enrollmentService) CreateOrder(ctx context.Context, enrollmentID, requesterID int) (*payments.Order, error) {
	enrollment, err := s.enrollmentRepo.GetByID(ctx, nil, enrollmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrEnrollmentNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, err
	}
	if enrollment.ManagerID != requesterID {
		return nil, ErrNotClubManager
	}
	if enrollment.PaymentStatus == models.PaymentStatusPaid {
		return nil, ErrAlreadySettled
	}

	if s.gateway == nil {
		return nil, payments.ErrGatewayNotConfigured
	}

	receipt := fmt.Sprintf("enroll-%d-%s", enrollment.ID, uuid.NewString()[:8])
	order, err := s.gateway.CreateOrder(ctx, enrollment.Fee, enrollment.Currency, receipt)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment order for enrollment %d: %w", enrollment.ID, err)
	}

	if err := s.enrollmentRepo.SetOrderID(ctx, enrollment.ID, order.ID); err != nil {
		return nil, fmt.Errorf("failed to record order id on enrollment %d: %w", enrollment.ID, err)
	}
	return order, nil
}

// settlementTransactionID derives the ledger idempotency key from the
// enrollment alone, so any retry of the same confirmation maps to the same
// transaction row.
func settlementTransactionID(enrollmentID int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("enrollment-settlement:%d", enrollmentID))).String()
}

// ConfirmPayment verifies the gateway signature and settles the enrollment:
// the paid flip and the ledger credit commit in one transaction, or neither
// does. Re-confirming a paid enrollment returns it unchanged.
func (s *enrollmentService) ConfirmPayment(ctx context.Context, enrollmentID int, orderID, paymentID, signature string) (*models.Enrollment, error) {
	enrollment, err := s.enrollmentRepo.GetByID(ctx, nil, enrollmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrEnrollmentNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, err
	}
	if enrollment.PaymentStatus == models.PaymentStatusPaid {
		return enrollment, nil
	}
	// A valid gateway signature only proves (orderID, paymentID) belong
	// together; the order must also be the one opened for this enrollment,
	// or a replayed confirmation would settle someone else's enrollment.
	if enrollment.OrderID == nil || *enrollment.OrderID != orderID {
		s.logger.Warn("payment confirmation for unexpected order",
			slog.Int("enrollment_id", enrollmentID),
			slog.String("order_id", orderID))
		return nil, ErrOrderMismatch
	}

	ok, err := s.verifier.Verify(orderID, paymentID, signature)
	if err != nil {
		return nil, fmt.Errorf("signature verification unavailable: %w", err)
	}
	if !ok {
		s.logger.Warn("payment signature rejected",
			slog.Int("enrollment_id", enrollmentID),
			slog.String("order_id", orderID),
			slog.String("payment_id", paymentID))
		return nil, ErrSignatureInvalid
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, enrollment.TournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tournament %d: %w", enrollment.TournamentID, err)
	}

	paidAt := time.Now()
	err = s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.enrollmentRepo.MarkPaid(ctx, exec, enrollment.ID, orderID, paymentID, paidAt); err != nil {
			if errors.Is(err, repositories.ErrEnrollmentNotPending) {
				// A concurrent confirmation won; the credit below is keyed
				// deterministically, so this path still settles exactly once.
				return nil
			}
			return err
		}

		_, err := s.ledger.Credit(ctx, exec, CreditParams{
			TransactionID: settlementTransactionID(enrollment.ID),
			OrganizerID:   tournament.OrganizerID,
			EnrollmentID:  &enrollment.ID,
			TournamentID:  &enrollment.TournamentID,
			Amount:        enrollment.Fee,
			Reason:        fmt.Sprintf("enrollment fee for tournament %q", tournament.Name),
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to settle enrollment %d: %w", enrollment.ID, err)
	}

	settled, err := s.enrollmentRepo.GetByID(ctx, nil, enrollment.ID)
	if err != nil {
		return nil, err
	}

	notify.Dispatch(s.logger, s.queue, notify.KindEnrollmentPaid, map[string]interface{}{
		"enrollment_id": settled.ID,
		"tournament_id": settled.TournamentID,
		"club_id":       settled.ClubID,
		"amount":        settled.Fee,
	})
	return settled, nil
}

func (s *enrollmentService) ListPaidByTournament(ctx context.Context, tournamentID int) ([]*models.Enrollment, error) {
	return s.enrollmentRepo.ListPaidByTournament(ctx, tournamentID)
}
