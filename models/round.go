package models

import "time"

// FixtureRound is a named stage of a tournament grouping a batch of matches
// ("League", "Round 2", "Final"). Rounds are never deleted once matches exist.
type FixtureRound struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Name         string    `json:"name" db:"name"`
	MatchCount   int       `json:"match_count" db:"match_count"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	Matches []Match `json:"matches,omitempty" db:"-"`
}
