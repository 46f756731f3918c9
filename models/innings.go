package models

import "time"

// InningsScore records one side's batting innings of a match.
// A match holds at most one innings per club and one per slot;
// InningsNo is 1 or 2.
type InningsScore struct {
	ID        int       `json:"id" db:"id"`
	MatchID   int       `json:"match_id" db:"match_id"`
	ClubID    int       `json:"club_id" db:"club_id"`
	InningsNo int       `json:"innings_no" db:"innings_no"`
	Runs      int       `json:"runs" db:"runs"`
	Overs     float64   `json:"overs" db:"overs"` // overs faced by the batting side
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
