package fixtures

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotEnoughClubs    = errors.New("at least two clubs are required to generate fixtures")
	ErrDuplicateClub     = errors.New("club list contains a duplicate")
	ErrNotEnoughSlots    = errors.New("not enough schedule slots for the requested match count")
	ErrDuplicatePairing  = errors.New("pairing already exists in this round")
	ErrNotEnoughPairings = errors.New("club set cannot produce the requested number of unique pairings")
)

// Slot is a date/time/venue assignment for one generated match.
type Slot struct {
	MatchTime time.Time
	Venue     string
}

// PairKey identifies an unordered club pairing; {A,B} and {B,A} collide.
type PairKey struct {
	Low  int
	High int
}

func NewPairKey(a, b int) PairKey {
	if a > b {
		a, b = b, a
	}
	return PairKey{Low: a, High: b}
}

// PlannedMatch is one fixture produced by the planner, not yet persisted.
type PlannedMatch struct {
	MatchNumber int
	ClubAID     int
	ClubBID     int
	MatchTime   time.Time
	Venue       string
}

// PlanRound pairs clubs into matchCount fixtures. Pairing uniqueness is
// guaranteed by construction: pairs are drawn in round-robin order and match
// numbers continue from nextNumber, so no plan can repeat itself. A candidate
// pair already persisted for the round (taken) rejects the whole plan with
// ErrDuplicatePairing before anything is written.
func PlanRound(clubIDs []int, matchCount int, slots []Slot, taken map[PairKey]bool, nextNumber int) ([]PlannedMatch, error) {
	if len(clubIDs) < 2 {
		return nil, fmt.Errorf("%w (found %d)", ErrNotEnoughClubs, len(clubIDs))
	}
	if matchCount < 1 {
		return nil, fmt.Errorf("match count must be positive, got %d", matchCount)
	}
	if len(slots) < matchCount {
		return nil, fmt.Errorf("%w: %d slots for %d matches", ErrNotEnoughSlots, len(slots), matchCount)
	}

	seen := make(map[int]bool, len(clubIDs))
	for _, id := range clubIDs {
		if seen[id] {
			return nil, fmt.Errorf("%w: club %d", ErrDuplicateClub, id)
		}
		seen[id] = true
	}

	planned := make([]PlannedMatch, 0, matchCount)
	for i := 0; i < len(clubIDs) && len(planned) < matchCount; i++ {
		for j := i + 1; j < len(clubIDs) && len(planned) < matchCount; j++ {
			key := NewPairKey(clubIDs[i], clubIDs[j])
			if taken[key] {
				return nil, fmt.Errorf("%w: clubs %d and %d", ErrDuplicatePairing, key.Low, key.High)
			}

			slot := slots[len(planned)]
			planned = append(planned, PlannedMatch{
				MatchNumber: nextNumber + len(planned),
				ClubAID:     clubIDs[i],
				ClubBID:     clubIDs[j],
				MatchTime:   slot.MatchTime,
				Venue:       slot.Venue,
			})
		}
	}

	if len(planned) < matchCount {
		return nil, fmt.Errorf("%w: %d clubs yield %d new pairings, %d requested",
			ErrNotEnoughPairings, len(clubIDs), len(planned), matchCount)
	}
	return planned, nil
}
