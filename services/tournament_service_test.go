package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/cricket-league/models"
)

func validTournamentInput(now time.Time) CreateTournamentInput {
	return CreateTournamentInput{
		Name:         "Monsoon Cup",
		EntryFee:     500000,
		Currency:     "INR",
		RegStartDate: now,
		RegEndDate:   now.Add(7 * 24 * time.Hour),
		StartDate:    now.Add(10 * 24 * time.Hour),
		EndDate:      now.Add(30 * 24 * time.Hour),
	}
}

func newTournamentService(repo *fakeTournamentRepo) TournamentService {
	return NewTournamentService(fakeTxManager{}, repo, nil, testLogger())
}

func TestCreateTournament(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("creates draft tournament", func(t *testing.T) {
		service := newTournamentService(newFakeTournamentRepo())

		tournament, err := service.Create(ctx, validTournamentInput(now), 10)
		require.NoError(t, err)
		assert.Equal(t, models.TournamentStatusDraft, tournament.Status)
		assert.Equal(t, 10, tournament.OrganizerID)
	})

	t.Run("rejects missing name", func(t *testing.T) {
		service := newTournamentService(newFakeTournamentRepo())
		input := validTournamentInput(now)
		input.Name = ""

		_, err := service.Create(ctx, input, 10)
		assert.ErrorIs(t, err, ErrTournamentNameRequired)
	})

	t.Run("rejects non-positive entry fee", func(t *testing.T) {
		service := newTournamentService(newFakeTournamentRepo())
		input := validTournamentInput(now)
		input.EntryFee = 0

		_, err := service.Create(ctx, input, 10)
		assert.ErrorIs(t, err, ErrInvalidEntryFee)
	})

	t.Run("rejects end before start", func(t *testing.T) {
		service := newTournamentService(newFakeTournamentRepo())
		input := validTournamentInput(now)
		input.EndDate = input.StartDate.Add(-time.Hour)

		_, err := service.Create(ctx, input, 10)
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("rejects registration closing after start", func(t *testing.T) {
		service := newTournamentService(newFakeTournamentRepo())
		input := validTournamentInput(now)
		input.RegEndDate = input.StartDate.Add(time.Hour)

		_, err := service.Create(ctx, input, 10)
		assert.ErrorIs(t, err, ErrInvalidRegWindow)
	})
}

func TestChangeStatus(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	setup := func(t *testing.T) (TournamentService, *fakeTournamentRepo, *models.Tournament) {
		t.Helper()
		repo := newFakeTournamentRepo()
		service := newTournamentService(repo)
		tournament, err := service.Create(ctx, validTournamentInput(now), 10)
		require.NoError(t, err)
		return service, repo, tournament
	}

	t.Run("walks the lifecycle forward", func(t *testing.T) {
		service, _, tournament := setup(t)

		sequence := []models.TournamentStatus{
			models.TournamentStatusRegistrationOpen,
			models.TournamentStatusRegistrationClosed,
			models.TournamentStatusInProgress,
			models.TournamentStatusCompleted,
		}
		for _, next := range sequence {
			updated, err := service.ChangeStatus(ctx, tournament.ID, next, 10)
			require.NoError(t, err)
			assert.Equal(t, next, updated.Status)
		}
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		service, _, tournament := setup(t)

		updated, err := service.ChangeStatus(ctx, tournament.ID, models.TournamentStatusDraft, 10)
		require.NoError(t, err)
		assert.Equal(t, models.TournamentStatusDraft, updated.Status)
	})

	t.Run("rejects skipped and backward transitions", func(t *testing.T) {
		service, _, tournament := setup(t)

		_, err := service.ChangeStatus(ctx, tournament.ID, models.TournamentStatusInProgress, 10)
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)

		_, err = service.ChangeStatus(ctx, tournament.ID, models.TournamentStatusRegistrationOpen, 10)
		require.NoError(t, err)

		_, err = service.ChangeStatus(ctx, tournament.ID, models.TournamentStatusDraft, 10)
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	})

	t.Run("rejects non-organizer", func(t *testing.T) {
		service, _, tournament := setup(t)

		_, err := service.ChangeStatus(ctx, tournament.ID, models.TournamentStatusRegistrationOpen, 999)
		assert.ErrorIs(t, err, ErrNotOrganizer)
	})

	t.Run("rejects blocked tournament", func(t *testing.T) {
		service, repo, tournament := setup(t)
		require.NoError(t, repo.UpdateBlocked(ctx, tournament.ID, true))

		_, err := service.ChangeStatus(ctx, tournament.ID, models.TournamentStatusRegistrationOpen, 10)
		assert.ErrorIs(t, err, ErrTournamentBlocked)
	})
}

func TestCompleteTournament(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	repo := newFakeTournamentRepo()
	service := newTournamentService(repo)
	tournament, err := service.Create(ctx, validTournamentInput(now), 10)
	require.NoError(t, err)

	for _, next := range []models.TournamentStatus{
		models.TournamentStatusRegistrationOpen,
		models.TournamentStatusRegistrationClosed,
		models.TournamentStatusInProgress,
	} {
		_, err := service.ChangeStatus(ctx, tournament.ID, next, 10)
		require.NoError(t, err)
	}

	completed, err := service.Complete(ctx, tournament.ID, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, models.TournamentStatusCompleted, completed.Status)
	require.NotNil(t, completed.WinnerClubID)
	assert.Equal(t, 3, *completed.WinnerClubID)
}

func TestAutoUpdateStatusesByDates(t *testing.T) {
	ctx := context.Background()

	repo := newFakeTournamentRepo()
	service := newTournamentService(repo)

	past := time.Now().Add(-48 * time.Hour)
	input := CreateTournamentInput{
		Name:         "Monsoon Cup",
		EntryFee:     500000,
		RegStartDate: past,
		RegEndDate:   past.Add(time.Hour),
		StartDate:    past.Add(2 * time.Hour),
		EndDate:      past.Add(300 * time.Hour),
	}
	tournament, err := service.Create(ctx, input, 10)
	require.NoError(t, err)

	// One step per sweep: draft to open, then open to closed, then closed to
	// in progress.
	expect := []models.TournamentStatus{
		models.TournamentStatusRegistrationOpen,
		models.TournamentStatusRegistrationClosed,
		models.TournamentStatusInProgress,
	}
	for _, want := range expect {
		require.NoError(t, service.AutoUpdateStatusesByDates(ctx))
		current, err := repo.GetByID(ctx, tournament.ID)
		require.NoError(t, err)
		assert.Equal(t, want, current.Status)
	}

	// A further sweep leaves an in-progress tournament alone.
	require.NoError(t, service.AutoUpdateStatusesByDates(ctx))
	current, err := repo.GetByID(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TournamentStatusInProgress, current.Status)
}

func TestStatusAfterDate(t *testing.T) {
	now := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	tournament := &models.Tournament{
		Status:       models.TournamentStatusDraft,
		RegStartDate: now.Add(time.Hour),
	}

	assert.Equal(t, models.TournamentStatusDraft, statusAfterDate(tournament, now))

	tournament.RegStartDate = now.Add(-time.Hour)
	assert.Equal(t, models.TournamentStatusRegistrationOpen, statusAfterDate(tournament, now))
}
