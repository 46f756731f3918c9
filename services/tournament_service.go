package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pitchside/cricket-league/models"
	"github.com/pitchside/cricket-league/repositories"
	"github.com/pitchside/cricket-league/storage"
)

type CreateTournamentInput struct {
	Name         string
	Description  *string
	EntryFee     int64
	Currency     string
	RegStartDate time.Time
	RegEndDate   time.Time
	StartDate    time.Time
	EndDate      time.Time
}

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput, organizerID int) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, status *models.TournamentStatus) ([]*models.Tournament, error)
	// ChangeStatus moves the tournament along its lifecycle. Only forward
	// transitions are allowed; a same-status call is a no-op.
	ChangeStatus(ctx context.Context, id int, next models.TournamentStatus, requesterID int) (*models.Tournament, error)
	SetBlocked(ctx context.Context, id int, blocked bool) error
	// Complete records the winner and closes the tournament in one
	// transaction.
	Complete(ctx context.Context, id, winnerClubID, requesterID int) (*models.Tournament, error)
	UploadBanner(ctx context.Context, id, requesterID int, contentType string, file io.Reader) (*models.Tournament, error)
	// AutoUpdateStatusesByDates advances every tournament whose date window
	// has moved past its stored status. Run periodically by the scheduler.
	AutoUpdateStatusesByDates(ctx context.Context) error
}

type tournamentService struct {
	txManager      repositories.TxManager
	tournamentRepo repositories.TournamentRepository
	uploader       storage.FileUploader
	logger         *slog.Logger
}

func NewTournamentService(
	txManager repositories.TxManager,
	tournamentRepo repositories.TournamentRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		txManager:      txManager,
		tournamentRepo: tournamentRepo,
		uploader:       uploader,
		logger:         logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput, organizerID int) (*models.Tournament, error) {
	if input.Name == "" {
		return nil, ErrTournamentNameRequired
	}
	if input.EntryFee <= 0 {
		return nil, ErrInvalidEntryFee
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, ErrInvalidDateRange
	}
	if !input.RegEndDate.After(input.RegStartDate) || input.RegEndDate.After(input.StartDate) {
		return nil, ErrInvalidRegWindow
	}
	currency := input.Currency
	if currency == "" {
		currency = "INR"
	}

	tournament := &models.Tournament{
		Name:         input.Name,
		Description:  input.Description,
		OrganizerID:  organizerID,
		Status:       models.TournamentStatusDraft,
		EntryFee:     input.EntryFee,
		Currency:     currency,
		RegStartDate: input.RegStartDate,
		RegEndDate:   input.RegEndDate,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
	}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.loadTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	populateTournamentBannerURL(tournament, s.uploader)
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context, status *models.TournamentStatus) ([]*models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, status)
	if err != nil {
		return nil, err
	}
	for _, t := range tournaments {
		populateTournamentBannerURL(t, s.uploader)
	}
	return tournaments, nil
}

func (s *tournamentService) ChangeStatus(ctx context.Context, id int, next models.TournamentStatus, requesterID int) (*models.Tournament, error) {
	tournament, err := s.loadOwned(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}
	if tournament.Status == next {
		return tournament, nil
	}
	if !isValidStatusTransition(tournament.Status, next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, tournament.Status, next)
	}

	if err := s.tournamentRepo.UpdateStatus(ctx, nil, tournament.ID, next); err != nil {
		return nil, fmt.Errorf("failed to update tournament %d status: %w", tournament.ID, err)
	}
	tournament.Status = next
	return tournament, nil
}

func (s *tournamentService) SetBlocked(ctx context.Context, id int, blocked bool) error {
	err := s.tournamentRepo.UpdateBlocked(ctx, id, blocked)
	if errors.Is(err, repositories.ErrTournamentNotFound) {
		return ErrTournamentNotFound
	}
	return err
}

func (s *tournamentService) Complete(ctx context.Context, id, winnerClubID, requesterID int) (*models.Tournament, error) {
	tournament, err := s.loadOwned(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}
	if tournament.Status == models.TournamentStatusCompleted {
		return tournament, nil
	}
	if !isValidStatusTransition(tournament.Status, models.TournamentStatusCompleted) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, tournament.Status, models.TournamentStatusCompleted)
	}

	err = s.txManager.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.tournamentRepo.SetWinner(ctx, exec, tournament.ID, winnerClubID); err != nil {
			if errors.Is(err, repositories.ErrTournamentWinnerInvalid) {
				return ErrClubNotFound
			}
			return err
		}
		return s.tournamentRepo.UpdateStatus(ctx, exec, tournament.ID, models.TournamentStatusCompleted)
	})
	if err != nil {
		return nil, err
	}

	tournament.Status = models.TournamentStatusCompleted
	tournament.WinnerClubID = &winnerClubID
	return tournament, nil
}

func (s *tournamentService) UploadBanner(ctx context.Context, id, requesterID int, contentType string, file io.Reader) (*models.Tournament, error) {
	tournament, err := s.loadOwned(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, ErrAssetStoreDisabled
	}

	key := fmt.Sprintf("tournaments/%d/banner-%s", tournament.ID, uuid.NewString())
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload tournament banner: %w", err)
	}

	oldKey := tournament.BannerKey
	if err := s.tournamentRepo.UpdateBannerKey(ctx, tournament.ID, &result.Key); err != nil {
		return nil, fmt.Errorf("failed to store banner key: %w", err)
	}
	if oldKey != nil && *oldKey != "" {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.Warn("failed to delete previous banner", "key", *oldKey, "error", err)
		}
	}

	tournament.BannerKey = &result.Key
	populateTournamentBannerURL(tournament, s.uploader)
	return tournament, nil
}

// statusAfterDate picks the status a tournament should hold given the current
// time, stepping one transition at a time so each change stays valid.
func statusAfterDate(t *models.Tournament, now time.Time) models.TournamentStatus {
	switch t.Status {
	case models.TournamentStatusDraft:
		if !t.RegStartDate.After(now) {
			return models.TournamentStatusRegistrationOpen
		}
	case models.TournamentStatusRegistrationOpen:
		if !t.RegEndDate.After(now) {
			return models.TournamentStatusRegistrationClosed
		}
	case models.TournamentStatusRegistrationClosed:
		if !t.StartDate.After(now) {
			return models.TournamentStatusInProgress
		}
	}
	return t.Status
}

func (s *tournamentService) AutoUpdateStatusesByDates(ctx context.Context) error {
	now := time.Now()
	due, err := s.tournamentRepo.ListDueForStatusChange(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to list due tournaments: %w", err)
	}

	for _, t := range due {
		next := statusAfterDate(t, now)
		if next == t.Status {
			continue
		}
		if err := s.tournamentRepo.UpdateStatus(ctx, nil, t.ID, next); err != nil {
			s.logger.Error("failed to auto-update tournament status",
				"tournament_id", t.ID, "from", t.Status, "to", next, "error", err)
			continue
		}
		s.logger.Info("tournament status advanced by schedule",
			"tournament_id", t.ID, "from", t.Status, "to", next)
	}
	return nil
}

func (s *tournamentService) loadTournament(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) loadOwned(ctx context.Context, id, requesterID int) (*models.Tournament, error) {
	tournament, err := s.loadTournament(ctx, id)
	if err != nil {
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
