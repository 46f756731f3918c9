package models

import "time"

// PointTableEntry is one derived row per (tournament, club). It is rebuilt
// wholesale from the club's finalized matches on every recompute and must
// never be hand-edited.
type PointTableEntry struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	ClubID       int       `json:"club_id" db:"club_id"`
	Played       int       `json:"played" db:"played"`
	Won          int       `json:"won" db:"won"`
	Lost         int       `json:"lost" db:"lost"`
	Tied         int       `json:"tied" db:"tied"`
	NoResult     int       `json:"no_result" db:"no_result"`
	Points       int       `json:"points" db:"points"`
	RunsScored   int       `json:"runs_scored" db:"runs_scored"`
	OversFaced   float64   `json:"overs_faced" db:"overs_faced"`
	RunsConceded int       `json:"runs_conceded" db:"runs_conceded"`
	OversBowled  float64   `json:"overs_bowled" db:"overs_bowled"`
	NetRunRate   float64   `json:"net_run_rate" db:"net_run_rate"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	Club *Club `json:"club,omitempty" db:"-"`
}
