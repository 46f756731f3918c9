package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pitchside/cricket-league/models"
	"github.com/pitchside/cricket-league/notify"
	"github.com/pitchside/cricket-league/repositories"
)

type RecordInningsInput struct {
	MatchID   int
	ClubID    int
	InningsNo int
	Runs      int
	Overs     float64
}

type ResultService interface {
	RecordInnings(ctx context.Context, input RecordInningsInput) (*models.InningsScore, error)
	// Finalize moves the match into a terminal state, validates the outcome
	// against the recorded innings, and synchronously rebuilds both clubs'
	// standings. Re-finalizing returns the existing state without error.
	Finalize(ctx context.Context, matchID int, outcome models.MatchStatus, winnerClubID *int) (*models.Match, error)
	// Cancel abandons a scheduled or in-progress match as no_result.
	Cancel(ctx context.Context, matchID int) (*models.Match, error)
	GetMatch(ctx context.Context, matchID int) (*models.Match, error)
}

type resultService struct {
	txManager   repositories.TxManager
	matchRepo   repositories.MatchRepository
	inningsRepo repositories.InningsRepository
	standings   StandingsService
	queue       notify.Queue
	logger      *slog.Logger
}

func NewResultService(
	txManager repositories.TxManager,
	matchRepo repositories.MatchRepository,
	inningsRepo repositories.InningsRepository,
	standings StandingsService,
	queue notify.Queue,
	logger *slog.Logger,
) ResultService {
	return &resultService{
		txManager:   txManager,
		matchRepo:   matchRepo,
		inningsRepo: inningsRepo,
		standings:   standings,
		queue:       queue,
		logger:      logger,
	}
}

func (s *resultService) RecordInnings(ctx context.Context, input RecordInningsInput) (*models.InningsScore, error) {
	if input.InningsNo != 1 && input.InningsNo != 2 {
		return nil, ErrInvalidInningsNumber
	}
	if input.Runs < 0 {
		return nil, ErrInvalidRuns
	}
	if input.Overs < 0 {
		return nil, ErrInvalidOvers
	}

	match, err := s.loadMatch(ctx, input.MatchID)
	if err != nil {
		return nil, err
	}
	if match.Status.Terminal() {
		return nil, ErrMatchNotRecordable
	}
	if !match.HasClub(input.ClubID) {
		return nil, ErrClubNotInMatch
	}

	score := &models.InningsScore{
		MatchID:   match.ID,
		ClubID:    input.ClubID,
		InningsNo: input.InningsNo,
		Runs:      input.Runs,
		Overs:     input.Overs,
	}

	err = s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		// One innings per side and one side per slot; without this a club
		// could bat twice and the standings sums would count both.
		existing, err := s.inningsRepo.ListByMatch(ctx, exec, match.ID)
		if err != nil {
			return fmt.Errorf("failed to load innings for match %d: %w", match.ID, err)
		}
		for _, inn := range existing {
			if inn.ClubID == input.ClubID || inn.InningsNo == input.InningsNo {
				return ErrInningsAlreadyExists
			}
		}
		if err := s.inningsRepo.Create(ctx, exec, score); err != nil {
			if errors.Is(err, repositories.ErrInningsConflict) {
				return ErrInningsAlreadyExists
			}
			return fmt.Errorf("failed to record innings: %w", err)
		}
		if match.Status == models.MatchStatusScheduled {
			if err := s.matchRepo.UpdateStatus(ctx, exec, match.ID, models.MatchStatusInProgress); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return score, nil
}

func (s *resultService) Finalize(ctx context.Context, matchID int, outcome models.MatchStatus, winnerClubID *int) (*models.Match, error) {
	match, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status.Terminal() {
		// Tolerate retries: finalization is terminal and idempotent.
		return match, nil
	}
	if !outcome.Terminal() {
		return nil, fmt.Errorf("%w: %q is not a terminal outcome", ErrValidationFailed, outcome)
	}

	innings, err := s.inningsRepo.ListByMatch(ctx, nil, match.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load innings for match %d: %w", match.ID, err)
	}
	if err := validateOutcome(match, outcome, winnerClubID, innings); err != nil {
		return nil, err
	}
	if outcome != models.MatchStatusCompleted {
		winnerClubID = nil
	}

	err = s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.matchRepo.FinalizeStatus(ctx, exec, match.ID, outcome, winnerClubID)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrMatchAlreadyFinalized) {
			// A concurrent finalize won; return its result.
			return s.loadMatch(ctx, matchID)
		}
		return nil, fmt.Errorf("failed to finalize match %d: %w", match.ID, err)
	}

	match.Status = outcome
	match.WinnerClubID = winnerClubID

	if err := s.standings.RecomputeForMatch(ctx, match); err != nil {
		return nil, fmt.Errorf("match %d finalized but standings recompute failed: %w", match.ID, err)
	}

	notify.Dispatch(s.logger, s.queue, notify.KindMatchFinalized, map[string]interface{}{
		"match_id":       match.ID,
		"tournament_id":  match.TournamentID,
		"status":         match.Status,
		"winner_club_id": match.WinnerClubID,
	})
	return match, nil
}

// validateOutcome rejects outcome/innings combinations that cannot have
// happened on the field.
func validateOutcome(match *models.Match, outcome models.MatchStatus, winnerClubID *int, innings []*models.InningsScore) error {
	runsByClub := make(map[int]int, 2)
	for _, inn := range innings {
		runsByClub[inn.ClubID] += inn.Runs
	}

	switch outcome {
	case models.MatchStatusCompleted:
		if err := requireBothInnings(match, innings); err != nil {
			return err
		}
		if winnerClubID == nil {
			return fmt.Errorf("%w: completed match requires a winner", ErrValidationFailed)
		}
		if !match.HasClub(*winnerClubID) {
			return ErrClubNotInMatch
		}
		winnerRuns := runsByClub[*winnerClubID]
		loserRuns := runsByClub[match.Opponent(*winnerClubID)]
		if winnerRuns <= loserRuns {
			return fmt.Errorf("%w: winner scored %d, opponent %d", ErrInconsistentResult, winnerRuns, loserRuns)
		}
	case models.MatchStatusTied:
		if err := requireBothInnings(match, innings); err != nil {
			return err
		}
		if runsByClub[match.ClubAID] != runsByClub[match.ClubBID] {
			return fmt.Errorf("%w: tie requires equal scores, got %d and %d",
				ErrInconsistentResult, runsByClub[match.ClubAID], runsByClub[match.ClubBID])
		}
	case models.MatchStatusNoResult:
		// Abandoned matches may hold zero, one, or two innings.
	}
	return nil
}

// requireBothInnings insists on exactly one innings from each side of the
// match before a completed or tied outcome may be declared.
func requireBothInnings(match *models.Match, innings []*models.InningsScore) error {
	if len(innings) < 2 {
		return ErrInningsIncomplete
	}
	if len(innings) != 2 || innings[0].ClubID == innings[1].ClubID ||
		!match.HasClub(innings[0].ClubID) || !match.HasClub(innings[1].ClubID) {
		return fmt.Errorf("%w: expected one innings from each side", ErrInconsistentResult)
	}
	return nil
}

func (s *resultService) Cancel(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status.Terminal() {
		return match, nil
	}

	match, err = s.Finalize(ctx, matchID, models.MatchStatusNoResult, nil)
	if err != nil {
		return nil, err
	}
	if match.Status != models.MatchStatusNoResult {
		// A concurrent finalize settled the match first.
		return match, nil
	}

	notify.Dispatch(s.logger, s.queue, notify.KindMatchCancelled, map[string]interface{}{
		"match_id":      match.ID,
		"tournament_id": match.TournamentID,
	})
	return match, nil
}

func (s *resultService) GetMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	innings, err := s.inningsRepo.ListByMatch(ctx, nil, match.ID)
	if err != nil {
		return nil, err
	}
	match.Innings = make([]models.InningsScore, 0, len(innings))
	for _, inn := range innings {
		match.Innings = append(match.Innings, *inn)
	}
	return match, nil
}

func (s *resultService) loadMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}
