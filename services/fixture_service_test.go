package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/cricket-league/fixtures"
	"github.com/pitchside/cricket-league/models"
	"github.com/pitchside/cricket-league/notify"
)

type fixtureSvcFixture struct {
	service     FixtureService
	rounds      *fakeRoundRepo
	matches     *fakeMatchRepo
	tournaments *fakeTournamentRepo
	enrollments *fakeEnrollmentRepo

	tournament *models.Tournament
}

func newFixtureSvcFixture(t *testing.T, paidClubs ...int) *fixtureSvcFixture {
	t.Helper()
	ctx := context.Background()

	f := &fixtureSvcFixture{
		rounds:      newFakeRoundRepo(),
		matches:     newFakeMatchRepo(),
		tournaments: newFakeTournamentRepo(),
		enrollments: newFakeEnrollmentRepo(),
	}
	f.service = NewFixtureService(
		fakeTxManager{}, f.rounds, f.matches, f.tournaments, f.enrollments,
		notify.NewNoopQueue(), testLogger(),
	)

	f.tournament = &models.Tournament{
		Name:        "Monsoon Cup",
		OrganizerID: 10,
		Status:      models.TournamentStatusInProgress,
	}
	require.NoError(t, f.tournaments.Create(ctx, f.tournament))

	for _, clubID := range paidClubs {
		enrollment := &models.Enrollment{
			TournamentID:  f.tournament.ID,
			ClubID:        clubID,
			ManagerID:     clubID + 100,
			PaymentStatus: models.PaymentStatusPending,
		}
		require.NoError(t, f.enrollments.Create(ctx, enrollment))
		require.NoError(t, f.enrollments.MarkPaid(ctx, nil, enrollment.ID, "o", "p", time.Now()))
	}
	return f
}

func slotsAt(base time.Time, n int) []fixtures.Slot {
	out := make([]fixtures.Slot, n)
	for i := range out {
		out[i] = fixtures.Slot{MatchTime: base.Add(time.Duration(i) * 4 * time.Hour), Venue: "Oval"}
	}
	return out
}

func TestGenerateRound(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 9, 12, 9, 0, 0, 0, time.UTC)

	t.Run("generates distinct pairings with sequential numbers", func(t *testing.T) {
		f := newFixtureSvcFixture(t, 1, 2, 3, 4)

		round, err := f.service.GenerateRound(ctx, GenerateRoundInput{
			TournamentID: f.tournament.ID,
			RoundName:    "League",
			MatchCount:   2,
			ClubIDs:      []int{1, 2, 3, 4},
			Slots:        slotsAt(base, 2),
		}, f.tournament.OrganizerID)
		require.NoError(t, err)

		require.Len(t, round.Matches, 2)
		assert.Equal(t, 2, round.MatchCount)
		assert.Equal(t, 1, round.Matches[0].MatchNumber)
		assert.Equal(t, 2, round.Matches[1].MatchNumber)
		for _, m := range round.Matches {
			assert.False(t, m.IsPublished)
			assert.Equal(t, models.MatchStatusScheduled, m.Status)
		}
	})

	t.Run("second batch continues numbering in the same round", func(t *testing.T) {
		f := newFixtureSvcFixture(t, 1, 2, 3, 4)
		input := GenerateRoundInput{
			TournamentID: f.tournament.ID,
			RoundName:    "League",
			MatchCount:   1,
			ClubIDs:      []int{1, 2},
			Slots:        slotsAt(base, 1),
		}
		_, err := f.service.GenerateRound(ctx, input, f.tournament.OrganizerID)
		require.NoError(t, err)

		input.ClubIDs = []int{3, 4}
		round, err := f.service.GenerateRound(ctx, input, f.tournament.OrganizerID)
		require.NoError(t, err)

		require.Len(t, round.Matches, 1)
		assert.Equal(t, 2, round.Matches[0].MatchNumber)
		assert.Equal(t, 2, round.MatchCount)
	})

	t.Run("rejects pairing already present in the round", func(t *testing.T) {
		f := newFixtureSvcFixture(t, 1, 2, 3, 4)
		input := GenerateRoundInput{
			TournamentID: f.tournament.ID,
			RoundName:    "League",
			MatchCount:   1,
			ClubIDs:      []int{1, 2},
			Slots:        slotsAt(base, 1),
		}
		_, err := f.service.GenerateRound(ctx, input, f.tournament.OrganizerID)
		require.NoError(t, err)

		input.ClubIDs = []int{2, 1}
		_, err = f.service.GenerateRound(ctx, input, f.tournament.OrganizerID)
		assert.ErrorIs(t, err, ErrDuplicatePairing)
	})

	t.Run("rejects club without a paid enrollment", func(t *testing.T) {
		f := newFixtureSvcFixture(t, 1, 2)

		_, err := f.service.GenerateRound(ctx, GenerateRoundInput{
			TournamentID: f.tournament.ID,
			RoundName:    "League",
			MatchCount:   1,
			ClubIDs:      []int{1, 9},
			Slots:        slotsAt(base, 1),
		}, f.tournament.OrganizerID)
		assert.ErrorIs(t, err, ErrClubNotQualified)
	})

	t.Run("rejects requester who is not the organizer", func(t *testing.T) {
		f := newFixtureSvcFixture(t, 1, 2)

		_, err := f.service.GenerateRound(ctx, GenerateRoundInput{
			TournamentID: f.tournament.ID,
			RoundName:    "League",
			MatchCount:   1,
			ClubIDs:      []int{1, 2},
			Slots:        slotsAt(base, 1),
		}, 999)
		assert.ErrorIs(t, err, ErrNotOrganizer)
	})

	t.Run("surfaces planner validation errors", func(t *testing.T) {
		f := newFixtureSvcFixture(t, 1, 2)

		_, err := f.service.GenerateRound(ctx, GenerateRoundInput{
			TournamentID: f.tournament.ID,
			RoundName:    "League",
			MatchCount:   2,
			ClubIDs:      []int{1, 2},
			Slots:        slotsAt(base, 1),
		}, f.tournament.OrganizerID)
		assert.Error(t, err)
	})
}

func TestPublishRound(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 9, 12, 9, 0, 0, 0, time.UTC)

	f := newFixtureSvcFixture(t, 1, 2)
	round, err := f.service.GenerateRound(ctx, GenerateRoundInput{
		TournamentID: f.tournament.ID,
		RoundName:    "League",
		MatchCount:   1,
		ClubIDs:      []int{1, 2},
		Slots:        slotsAt(base, 1),
	}, f.tournament.OrganizerID)
	require.NoError(t, err)

	hidden, err := f.service.ListRoundMatches(ctx, round.ID, true)
	require.NoError(t, err)
	assert.Empty(t, hidden)

	require.NoError(t, f.service.PublishRound(ctx, round.ID, f.tournament.OrganizerID))

	visible, err := f.service.ListRoundMatches(ctx, round.ID, true)
	require.NoError(t, err)
	assert.Len(t, visible, 1)
}
