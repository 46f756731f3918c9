package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pitchside/cricket-league/fixtures"
	"github.com/pitchside/cricket-league/models"
	"github.com/pitchside/cricket-league/notify"
	"github.com/pitchside/cricket-league/repositories"
)

type GenerateRoundInput struct {
	TournamentID int
	RoundName    string
	MatchCount   int
	ClubIDs      []int
	Slots        []fixtures.Slot
}

type FixtureService interface {
	// GenerateRound plans and persists a batch of matches in one
	// transaction: a partially generated round is never observable.
	GenerateRound(ctx context.Context, input GenerateRoundInput, requesterID int) (*models.FixtureRound, error)
	PublishRound(ctx context.Context, roundID, requesterID int) error
	ListRounds(ctx context.Context, tournamentID int) ([]*models.FixtureRound, error)
	ListRoundMatches(ctx context.Context, roundID int, publishedOnly bool) ([]*models.Match, error)
}

type fixtureService struct {
	txManager      repositories.TxManager
	roundRepo      repositories.FixtureRoundRepository
	matchRepo      repositories.MatchRepository
	tournamentRepo repositories.TournamentRepository
	enrollmentRepo repositories.EnrollmentRepository
	queue          notify.Queue
	logger         *slog.Logger
}

func NewFixtureService(
	txManager repositories.TxManager,
	roundRepo repositories.FixtureRoundRepository,
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
	enrollmentRepo repositories.EnrollmentRepository,
	queue notify.Queue,
	logger *slog.Logger,
) FixtureService {
	return &fixtureService{
		txManager:      txManager,
		roundRepo:      roundRepo,
		matchRepo:      matchRepo,
		tournamentRepo: tournamentRepo,
		enrollmentRepo: enrollmentRepo,
		queue:          queue,
		logger:         logger,
	}
}

func (s *fixtureService) GenerateRound(ctx context.Context, input GenerateRoundInput, requesterID int) (*models.FixtureRound, error) {
	tournament, err := s.loadOwnedTournament(ctx, input.TournamentID, requesterID)
	if err != nil {
		return nil, err
	}
	if input.RoundName == "" {
		return nil, fmt.Errorf("%w: round name is required", ErrValidationFailed)
	}

	// Only clubs with a settled enrollment qualify for fixtures.
	paid, err := s.enrollmentRepo.ListPaidByTournament(ctx, tournament.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load paid enrollments: %w", err)
	}
	qualified := make(map[int]bool, len(paid))
	for _, e := range paid {
		qualified[e.ClubID] = true
	}
	for _, clubID := range input.ClubIDs {
		if !qualified[clubID] {
			return nil, fmt.Errorf("%w: club %d", ErrClubNotQualified, clubID)
		}
	}

	var round *models.FixtureRound
	err = s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		existing, err := s.roundRepo.GetByTournamentAndName(ctx, exec, tournament.ID, input.RoundName)
		switch {
		case err == nil:
			round = existing
		case errors.Is(err, repositories.ErrFixtureRoundNotFound):
			round = &models.FixtureRound{
				TournamentID: tournament.ID,
				Name:         input.RoundName,
			}
			if err := s.roundRepo.Create(ctx, exec, round); err != nil {
				return fmt.Errorf("failed to create round %q: %w", input.RoundName, err)
			}
		default:
			return fmt.Errorf("failed to look up round %q: %w", input.RoundName, err)
		}

		taken, err := s.matchRepo.ExistingPairs(ctx, exec, tournament.ID, round.ID)
		if err != nil {
			return err
		}
		maxNumber, err := s.matchRepo.MaxMatchNumber(ctx, exec, tournament.ID, round.ID)
		if err != nil {
			return err
		}

		plannedPairs := make(map[fixtures.PairKey]bool, len(taken))
		for k := range taken {
			plannedPairs[fixtures.PairKey{Low: k.Low, High: k.High}] = true
		}

		planned, err := fixtures.PlanRound(input.ClubIDs, input.MatchCount, input.Slots, plannedPairs, maxNumber+1)
		if err != nil {
			return err
		}

		round.Matches = make([]models.Match, 0, len(planned))
		for _, p := range planned {
			match := &models.Match{
				TournamentID: tournament.ID,
				RoundID:      round.ID,
				MatchNumber:  p.MatchNumber,
				ClubAID:      p.ClubAID,
				ClubBID:      p.ClubBID,
				MatchTime:    p.MatchTime,
				Venue:        p.Venue,
				IsPublished:  false,
				Status:       models.MatchStatusScheduled,
			}
			if err := s.matchRepo.Create(ctx, exec, match); err != nil {
				// The schema backstops the planner; a constraint hit here
				// means a concurrent generation raced this one.
				if errors.Is(err, repositories.ErrMatchPairConflict) || errors.Is(err, repositories.ErrMatchNumberConflict) {
					return ErrDuplicatePairing
				}
				return fmt.Errorf("failed to insert match %d: %w", p.MatchNumber, err)
			}
			round.Matches = append(round.Matches, *match)
		}

		if err := s.roundRepo.AddMatchCount(ctx, exec, round.ID, len(planned)); err != nil {
			return err
		}
		round.MatchCount += len(planned)
		return nil
	})
	if err != nil {
		if errors.Is(err, fixtures.ErrDuplicatePairing) {
			return nil, ErrDuplicatePairing
		}
		return nil, err
	}
	return round, nil
}

func (s *fixtureService) PublishRound(ctx context.Context, roundID, requesterID int) error {
	round, err := s.roundRepo.GetByID(ctx, roundID)
	if err != nil {
		if errors.Is(err, repositories.ErrFixtureRoundNotFound) {
			return ErrRoundNotFound
		}
		return err
	}
	if _, err := s.loadOwnedTournament(ctx, round.TournamentID, requesterID); err != nil {
		return err
	}

	err = s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.matchRepo.PublishByRound(ctx, exec, round.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to publish round %d: %w", round.ID, err)
	}

	notify.Dispatch(s.logger, s.queue, notify.KindRoundPublished, map[string]interface{}{
		"tournament_id": round.TournamentID,
		"round_id":      round.ID,
		"round_name":    round.Name,
	})
	return nil
}

func (s *fixtureService) ListRounds(ctx context.Context, tournamentID int) ([]*models.FixtureRound, error) {
	return s.roundRepo.ListByTournament(ctx, tournamentID)
}

func (s *fixtureService) ListRoundMatches(ctx context.Context, roundID int, publishedOnly bool) ([]*models.Match, error) {
	return s.matchRepo.ListByRound(ctx, roundID, publishedOnly)
}

func (s *fixtureService) loadOwnedTournament(ctx context.Context, tournamentID, requesterID int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if tournament.OrganizerID != requesterID {
		return nil, ErrNotOrganizer
	}
	if tournament.Blocked {
		return nil, ErrTournamentBlocked
	}
	return tournament, nil
}
