package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/pitchside/cricket-league/models"
)

var (
	ErrEnrollmentNotFound    = errors.New("enrollment not found")
	ErrEnrollmentConflict    = errors.New("club is already enrolled in this tournament")
	ErrEnrollmentClubInvalid = errors.New("enrollment club conflict or invalid")
	ErrEnrollmentNotPending  = errors.New("enrollment is not pending")
)

type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Enrollment, error)
	GetByTournamentAndClub(ctx context.Context, tournamentID, clubID int) (*models.Enrollment, error)
	MarkPaid(ctx context.Context, exec SQLExecutor, id int, orderID, paymentID string, paidAt time.Time) error
	SetOrderID(ctx context.Context, id int, orderID string) error
	ListPaidByTournament(ctx context.Context, tournamentID int) ([]*models.Enrollment, error)
}

type postgresEnrollmentRepository struct {
	db *sql.DB
}

func NewPostgresEnrollmentRepository(db *sql.DB) EnrollmentRepository {
	return &postgresEnrollmentRepository{db: db}
}

func (r *postgresEnrollmentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const enrollmentColumns = `id, tournament_id, club_id, manager_id, fee, currency,
	payment_status, order_id, payment_id, paid_at, created_at`

func (r *postgresEnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	query := `
		INSERT INTO enrollments (tournament_id, club_id, manager_id, fee, currency, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		enrollment.TournamentID, enrollment.ClubID, enrollment.ManagerID,
		enrollment.Fee, enrollment.Currency, enrollment.PaymentStatus,
	).Scan(&enrollment.ID, &enrollment.CreatedAt)

	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "enrollments_tournament_club_key":
			return ErrEnrollmentConflict
		case "enrollments_club_id_fkey":
			return ErrEnrollmentClubInvalid
		case "enrollments_tournament_id_fkey":
			return ErrTournamentNotFound
		}
	}
	return err
}

func (r *postgresEnrollmentRepository) scanEnrollment(row interface{ Scan(...interface{}) error }) (*models.Enrollment, error) {
	e := &models.Enrollment{}
	err := row.Scan(
		&e.ID, &e.TournamentID, &e.ClubID, &e.ManagerID, &e.Fee, &e.Currency,
		&e.PaymentStatus, &e.OrderID, &e.PaymentID, &e.PaidAt, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *postgresEnrollmentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Enrollment, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE id = $1`
	return r.scanEnrollment(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresEnrollmentRepository) GetByTournamentAndClub(ctx context.Context, tournamentID, clubID int) (*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE tournament_id = $1 AND club_id = $2`
	return r.scanEnrollment(r.db.QueryRowContext(ctx, query, tournamentID, clubID))
}

// MarkPaid flips a pending enrollment to paid. The payment_status guard in the
// WHERE clause makes concurrent duplicate confirmations collapse to one write.
func (r *postgresEnrollmentRepository) MarkPaid(ctx context.Context, exec SQLExecutor, id int, orderID, paymentID string, paidAt time.Time) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE enrollments
		SET payment_status = 'paid', order_id = $1, payment_id = $2, paid_at = $3
		WHERE id = $4 AND payment_status = 'pending'`

	result, err := executor.ExecContext(ctx, query, orderID, paymentID, paidAt, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrEnrollmentNotPending)
}

func (r *postgresEnrollmentRepository) SetOrderID(ctx context.Context, id int, orderID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE enrollments SET order_id = $1 WHERE id = $2 AND payment_status = 'pending'`, orderID, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrEnrollmentNotPending)
}

func (r *postgresEnrollmentRepository) ListPaidByTournament(ctx context.Context, tournamentID int) ([]*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + `
		FROM enrollments
		WHERE tournament_id = $1 AND payment_status = 'paid'
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query paid enrollments for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	enrollments := make([]*models.Enrollment, 0)
	for rows.Next() {
		e, scanErr := r.scanEnrollment(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}
