package models

import "time"

// RoundProgressionRecord records that a club was advanced from one named
// round to the next. Unique per (tournament, from_round, to_round, club);
// written exactly once and never overwritten.
type RoundProgressionRecord struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	FromRound    string    `json:"from_round" db:"from_round"`
	ToRound      string    `json:"to_round" db:"to_round"`
	ClubID       int       `json:"club_id" db:"club_id"`
	AdvancedBy   int       `json:"advanced_by" db:"advanced_by"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
