package services

import (
	"context"
	"fmt"

	"github.com/pitchside/cricket-league/models"
	"github.com/pitchside/cricket-league/repositories"
	"golang.org/x/sync/errgroup"
)

// Points awarded per outcome.
const (
	pointsWin      = 2
	pointsTie      = 1
	pointsNoResult = 1
)

type StandingsService interface {
	// Recompute rebuilds the club's point-table row from scratch out of its
	// finalized matches. The row is locked for the whole rebuild, so two
	// recomputes for the same (tournament, club) never interleave.
	Recompute(ctx context.Context, tournamentID, clubID int) error
	// RecomputeForMatch recomputes both participants of a finalized match.
	// Different clubs lock different rows, so the two rebuilds run
	// concurrently.
	RecomputeForMatch(ctx context.Context, match *models.Match) error
	ListRanked(ctx context.Context, tournamentID int) ([]*models.PointTableEntry, error)
}

type standingsService struct {
	txManager   repositories.TxManager
	pointsRepo  repositories.PointTableRepository
	matchRepo   repositories.MatchRepository
	inningsRepo repositories.InningsRepository
}

func NewStandingsService(
	txManager repositories.TxManager,
	pointsRepo repositories.PointTableRepository,
	matchRepo repositories.MatchRepository,
	inningsRepo repositories.InningsRepository,
) StandingsService {
	return &standingsService{
		txManager:   txManager,
		pointsRepo:  pointsRepo,
		matchRepo:   matchRepo,
		inningsRepo: inningsRepo,
	}
}

func (s *standingsService) Recompute(ctx context.Context, tournamentID, clubID int) error {
	return s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		entry, err := s.pointsRepo.GetOrCreateForUpdate(ctx, exec, tournamentID, clubID)
		if err != nil {
			return fmt.Errorf("failed to lock point table row for t:%d c:%d: %w", tournamentID, clubID, err)
		}

		matches, err := s.matchRepo.ListFinalizedByClub(ctx, exec, tournamentID, clubID)
		if err != nil {
			return fmt.Errorf("failed to list finalized matches for t:%d c:%d: %w", tournamentID, clubID, err)
		}

		rebuilt, err := s.buildEntry(ctx, exec, tournamentID, clubID, matches)
		if err != nil {
			return err
		}
		rebuilt.ID = entry.ID

		if err := s.pointsRepo.Update(ctx, exec, rebuilt); err != nil {
			return fmt.Errorf("failed to store point table row for t:%d c:%d: %w", tournamentID, clubID, err)
		}
		return nil
	})
}

// buildEntry folds the finalized matches into a fresh PointTableEntry. The
// full rebuild is deliberate: incremental patching drifts when a trigger is
// missed, a rebuild cannot.
func (s *standingsService) buildEntry(ctx context.Context, exec repositories.SQLExecutor, tournamentID, clubID int, matches []*models.Match) (*models.PointTableEntry, error) {
	entry := &models.PointTableEntry{
		TournamentID: tournamentID,
		ClubID:       clubID,
	}

	for _, match := range matches {
		entry.Played++

		switch match.Status {
		case models.MatchStatusCompleted:
			if match.WinnerClubID != nil && *match.WinnerClubID == clubID {
				entry.Won++
				entry.Points += pointsWin
			} else {
				entry.Lost++
			}
		case models.MatchStatusTied:
			entry.Tied++
			entry.Points += pointsTie
		case models.MatchStatusNoResult:
			entry.NoResult++
			entry.Points += pointsNoResult
		}

		innings, err := s.inningsRepo.ListByMatch(ctx, exec, match.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list innings for match %d: %w", match.ID, err)
		}
		for _, inn := range innings {
			if inn.ClubID == clubID {
				entry.RunsScored += inn.Runs
				entry.OversFaced += inn.Overs
			} else {
				entry.RunsConceded += inn.Runs
				entry.OversBowled += inn.Overs
			}
		}
	}

	entry.NetRunRate = netRunRate(entry.RunsScored, entry.OversFaced, entry.RunsConceded, entry.OversBowled)
	return entry, nil
}

// netRunRate is (runs scored / overs faced) - (runs conceded / overs bowled).
// A side that never faced or never bowled contributes zero for that term
// instead of dividing by zero.
func netRunRate(runsScored int, oversFaced float64, runsConceded int, oversBowled float64) float64 {
	var scoringRate, concedingRate float64
	if oversFaced > 0 {
		scoringRate = float64(runsScored) / oversFaced
	}
	if oversBowled > 0 {
		concedingRate = float64(runsConceded) / oversBowled
	}
	return scoringRate - concedingRate
}

func (s *standingsService) RecomputeForMatch(ctx context.Context, match *models.Match) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, clubID := range []int{match.ClubAID, match.ClubBID} {
		clubID := clubID
		g.Go(func() error {
			return s.Recompute(gctx, match.TournamentID, clubID)
		})
	}
	return g.Wait()
}

func (s *standingsService) ListRanked(ctx context.Context, tournamentID int) ([]*models.PointTableEntry, error) {
	return s.pointsRepo.ListRanked(ctx, tournamentID)
}
