package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled  MatchStatus = "scheduled"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
	MatchStatusTied       MatchStatus = "tied"
	MatchStatusNoResult   MatchStatus = "no_result"
)

// Terminal reports whether the status is one a match can never leave.
func (s MatchStatus) Terminal() bool {
	switch s {
	case MatchStatusCompleted, MatchStatusTied, MatchStatusNoResult:
		return true
	}
	return false
}

// Match references two distinct clubs. Within one tournament+round the
// unordered pair {ClubAID, ClubBID} and the match number are both unique;
// the constraints are enforced at generation time and again by the schema.
type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	RoundID      int         `json:"round_id" db:"round_id"`
	MatchNumber  int         `json:"match_number" db:"match_number"`
	ClubAID      int         `json:"club_a_id" db:"club_a_id"`
	ClubBID      int         `json:"club_b_id" db:"club_b_id"`
	MatchTime    time.Time   `json:"match_time" db:"match_time"`
	Venue        string      `json:"venue" db:"venue"`
	IsPublished  bool        `json:"is_published" db:"is_published"`
	Status       MatchStatus `json:"status" db:"status"`
	WinnerClubID *int        `json:"winner_club_id,omitempty" db:"winner_club_id"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`

	Innings []InningsScore `json:"innings,omitempty" db:"-"`
}

// HasClub reports whether clubID is one of the two participants.
func (m *Match) HasClub(clubID int) bool {
	return m.ClubAID == clubID || m.ClubBID == clubID
}

// Opponent returns the other participant of the match.
func (m *Match) Opponent(clubID int) int {
	if m.ClubAID == clubID {
		return m.ClubBID
	}
	return m.ClubAID
}
