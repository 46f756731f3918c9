package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pitchside/cricket-league/models"
	"github.com/pitchside/cricket-league/repositories"
	"github.com/pitchside/cricket-league/storage"
)

type CreateClubInput struct {
	Name string
	City *string
}

type ClubService interface {
	Create(ctx context.Context, input CreateClubInput, managerID int) (*models.Club, error)
	GetByID(ctx context.Context, id int) (*models.Club, error)
	UploadCrest(ctx context.Context, id, requesterID int, contentType string, file io.Reader) (*models.Club, error)
}

type clubService struct {
	clubRepo repositories.ClubRepository
	userRepo repositories.UserRepository
	uploader storage.FileUploader
	logger   *slog.Logger
}

func NewClubService(
	clubRepo repositories.ClubRepository,
	userRepo repositories.UserRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) ClubService {
	return &clubService{
		clubRepo: clubRepo,
		userRepo: userRepo,
		uploader: uploader,
		logger:   logger,
	}
}

func (s *clubService) Create(ctx context.Context, input CreateClubInput, managerID int) (*models.Club, error) {
	if input.Name == "" {
		return nil, ErrClubNameRequired
	}

	manager, err := s.userRepo.GetByID(ctx, managerID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if manager.Role != models.RoleClubManager {
		return nil, ErrNotClubManager
	}

	club := &models.Club{
		Name:      input.Name,
		City:      input.City,
		ManagerID: managerID,
	}
	if err := s.clubRepo.Create(ctx, club); err != nil {
		if errors.Is(err, repositories.ErrClubNameConflict) {
			return nil, repositories.ErrClubNameConflict
		}
		return nil, fmt.Errorf("failed to create club: %w", err)
	}
	return club, nil
}

func (s *clubService) GetByID(ctx context.Context, id int) (*models.Club, error) {
	club, err := s.clubRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	populateClubCrestURL(club, s.uploader)
	return club, nil
}

func (s *clubService) UploadCrest(ctx context.Context, id, requesterID int, contentType string, file io.Reader) (*models.Club, error) {
	club, err := s.clubRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	if club.ManagerID != requesterID {
		return nil, ErrNotClubManager
	}
	if s.uploader == nil {
		return nil, ErrAssetStoreDisabled
	}

	key := fmt.Sprintf("clubs/%d/crest-%s", club.ID, uuid.NewString())
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload club crest: %w", err)
	}

	oldKey := club.CrestKey
	if err := s.clubRepo.UpdateCrestKey(ctx, club.ID, &result.Key); err != nil {
		return nil, fmt.Errorf("failed to store crest key: %w", err)
	}
	if oldKey != nil && *oldKey != "" {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.Warn("failed to delete previous crest", "key", *oldKey, "error", err)
		}
	}

	club.CrestKey = &result.Key
	populateClubCrestURL(club, s.uploader)
	return club, nil
}
