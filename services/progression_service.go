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

type AdvanceClubsInput struct {
	TournamentID int
	FromRound    string
	ToRound      string
	ClubIDs      []int
}

// AdvanceResult separates clubs advanced by this call from clubs whose
// transition record already existed. A repeat is reported, never an error.
type AdvanceResult struct {
	Advanced        []*models.RoundProgressionRecord `json:"advanced"`
	AlreadyAdvanced []int                            `json:"already_advanced"`
}

type ProgressionService interface {
	AdvanceClubs(ctx context.Context, input AdvanceClubsInput, requesterID int) (*AdvanceResult, error)
	ListByTransition(ctx context.Context, tournamentID int, fromRound, toRound string) ([]*models.RoundProgressionRecord, error)
}

type progressionService struct {
	txManager       repositories.TxManager
	progressionRepo repositories.ProgressionRepository
	tournamentRepo  repositories.TournamentRepository
	enrollmentRepo  repositories.EnrollmentRepository
	queue           notify.Queue
	logger          *slog.Logger
}

func NewProgressionService(
	txManager repositories.TxManager,
	progressionRepo repositories.ProgressionRepository,
	tournamentRepo repositories.TournamentRepository,
	enrollmentRepo repositories.EnrollmentRepository,
	queue notify.Queue,
	logger *slog.Logger,
) ProgressionService {
	return &progressionService{
		txManager:       txManager,
		progressionRepo: progressionRepo,
		tournamentRepo:  tournamentRepo,
		enrollmentRepo:  enrollmentRepo,
		queue:           queue,
		logger:          logger,
	}
}

func (s *progressionService) AdvanceClubs(ctx context.Context, input AdvanceClubsInput, requesterID int) (*AdvanceResult, error) {
	if input.FromRound == "" || input.ToRound == "" {
		return nil, fmt.Errorf("%w: both round names are required", ErrValidationFailed)
	}
	if input.FromRound == input.ToRound {
		return nil, ErrSameRoundTransition
	}
	if len(input.ClubIDs) == 0 {
		return nil, fmt.Errorf("%w: no clubs to advance", ErrValidationFailed)
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, input.TournamentID)
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

	result := &AdvanceResult{
		Advanced:        make([]*models.RoundProgressionRecord, 0, len(input.ClubIDs)),
		AlreadyAdvanced: make([]int, 0),
	}

	err = s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		for _, clubID := range input.ClubIDs {
			record := &models.RoundProgressionRecord{
				TournamentID: tournament.ID,
				FromRound:    input.FromRound,
				ToRound:      input.ToRound,
				ClubID:       clubID,
				AdvancedBy:   requesterID,
			}
			inserted, err := s.progressionRepo.Insert(ctx, exec, record)
			if err != nil {
				return err
			}
			if inserted {
				result.Advanced = append(result.Advanced, record)
			} else {
				result.AlreadyAdvanced = append(result.AlreadyAdvanced, clubID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(result.Advanced) > 0 {
		advancedIDs := make([]int, 0, len(result.Advanced))
		for _, rec := range result.Advanced {
			advancedIDs = append(advancedIDs, rec.ClubID)
		}
		notify.Dispatch(s.logger, s.queue, notify.KindClubsAdvanced, map[string]interface{}{
			"tournament_id": tournament.ID,
			"from_round":    input.FromRound,
			"to_round":      input.ToRound,
			"club_ids":      advancedIDs,
		})
	}
	return result, nil
}

func (s *progressionService) ListByTransition(ctx context.Context, tournamentID int, fromRound, toRound string) ([]*models.RoundProgressionRecord, error) {
	return s.progressionRepo.ListByTransition(ctx, tournamentID, fromRound, toRound)
}
