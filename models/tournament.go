package models

import "time"

// TournamentStatus mirrors the tournament_status ENUM in the database.
type TournamentStatus string

const (
	TournamentStatusDraft              TournamentStatus = "draft"
	TournamentStatusRegistrationOpen   TournamentStatus = "registration_open"
	TournamentStatusRegistrationClosed TournamentStatus = "registration_closed"
	TournamentStatusInProgress         TournamentStatus = "in_progress"
	TournamentStatusCompleted          TournamentStatus = "completed"
)

// Tournament is owned by an organizer. Status moves strictly forward;
// Blocked is an administrative flag orthogonal to the lifecycle.
type Tournament struct {
	ID           int              `json:"id" db:"id"`
	Name         string           `json:"name" db:"name"`
	Description  *string          `json:"description,omitempty" db:"description"`
	OrganizerID  int              `json:"organizer_id" db:"organizer_id"`
	Status       TournamentStatus `json:"status" db:"status"`
	Blocked      bool             `json:"blocked" db:"blocked"`
	EntryFee     int64            `json:"entry_fee" db:"entry_fee"` // minor units
	Currency     string           `json:"currency" db:"currency"`
	RegStartDate time.Time        `json:"reg_start_date" db:"reg_start_date"`
	RegEndDate   time.Time        `json:"reg_end_date" db:"reg_end_date"`
	StartDate    time.Time        `json:"start_date" db:"start_date"`
	EndDate      time.Time        `json:"end_date" db:"end_date"`
	WinnerClubID *int             `json:"winner_club_id,omitempty" db:"winner_club_id"`
	BannerKey    *string          `json:"-" db:"banner_key"`
	BannerURL    *string          `json:"banner_url,omitempty" db:"-"`
	CreatedAt    time.Time        `json:"created_at" db:"created_at"`

	// Optional linked entities, populated by the service layer.
	Organizer *User          `json:"organizer,omitempty" db:"-"`
	Rounds    []FixtureRound `json:"rounds,omitempty" db:"-"`
}
