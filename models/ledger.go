package models

import "time"

type TransactionDirection string

const (
	DirectionCredit TransactionDirection = "credit"
	DirectionDebit  TransactionDirection = "debit"
)

type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "pending"
	TransactionStatusSuccess  TransactionStatus = "success"
	TransactionStatusFailed   TransactionStatus = "failed"
	TransactionStatusRefunded TransactionStatus = "refunded"
)

// Ledger holds one balance row per organizer, mutated only through the
// settlement credit path.
type Ledger struct {
	ID          int       `json:"id" db:"id"`
	OrganizerID int       `json:"organizer_id" db:"organizer_id"`
	Balance     int64     `json:"balance" db:"balance"` // minor units
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Transaction is an append-only ledger entry. TransactionID is the
// caller-supplied idempotency key: a repeated key returns the existing row
// instead of crediting twice.
type Transaction struct {
	ID            int                  `json:"id" db:"id"`
	TransactionID string               `json:"transaction_id" db:"transaction_id"`
	OrganizerID   int                  `json:"organizer_id" db:"organizer_id"`
	EnrollmentID  *int                 `json:"enrollment_id,omitempty" db:"enrollment_id"`
	TournamentID  *int                 `json:"tournament_id,omitempty" db:"tournament_id"`
	Amount        int64                `json:"amount" db:"amount"` // minor units, always > 0
	Direction     TransactionDirection `json:"direction" db:"direction"`
	Status        TransactionStatus    `json:"status" db:"status"`
	Reason        string               `json:"reason" db:"reason"`
	CreatedAt     time.Time            `json:"created_at" db:"created_at"`
}
