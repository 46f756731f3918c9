package models

import "time"

// PaymentStatus mirrors the payment_status ENUM in the database.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Enrollment registers a club into a tournament, unique per (tournament, club).
// It is created pending and becomes paid only after signature verification and
// ledger crediting; a paid enrollment is immutable.
type Enrollment struct {
	ID            int           `json:"id" db:"id"`
	TournamentID  int           `json:"tournament_id" db:"tournament_id"`
	ClubID        int           `json:"club_id" db:"club_id"`
	ManagerID     int           `json:"manager_id" db:"manager_id"`
	Fee           int64         `json:"fee" db:"fee"` // minor units, snapshot of the tournament fee plan
	Currency      string        `json:"currency" db:"currency"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`
	OrderID       *string       `json:"order_id,omitempty" db:"order_id"`
	PaymentID     *string       `json:"payment_id,omitempty" db:"payment_id"`
	PaidAt        *time.Time    `json:"paid_at,omitempty" db:"paid_at"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`

	Club *Club `json:"club,omitempty" db:"-"`
}
