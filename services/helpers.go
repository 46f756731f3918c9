package services

import (
	"github.com/pitchside/cricket-league/models"
	"github.com/pitchside/cricket-league/storage"
)

// isValidStatusTransition encodes the monotonic tournament lifecycle.
// Administrative block/unblock is a separate flag, not a status.
func isValidStatusTransition(current, next models.TournamentStatus) bool {
	if current == next {
		return true
	}
	allowed := map[models.TournamentStatus][]models.TournamentStatus{
		models.TournamentStatusDraft:              {models.TournamentStatusRegistrationOpen},
		models.TournamentStatusRegistrationOpen:   {models.TournamentStatusRegistrationClosed},
		models.TournamentStatusRegistrationClosed: {models.TournamentStatusInProgress},
		models.TournamentStatusInProgress:         {models.TournamentStatusCompleted},
		models.TournamentStatusCompleted:          {},
	}
	for _, s := range allowed[current] {
		if next == s {
			return true
		}
	}
	return false
}

func populateClubCrestURL(club *models.Club, uploader storage.FileUploader) {
	if club != nil && club.CrestKey != nil && *club.CrestKey != "" && uploader != nil {
		if u := uploader.GetPublicURL(*club.CrestKey); u != "" {
			club.CrestURL = &u
		}
	}
}

func populateTournamentBannerURL(t *models.Tournament, uploader storage.FileUploader) {
	if t != nil && t.BannerKey != nil && *t.BannerKey != "" && uploader != nil {
		if u := uploader.GetPublicURL(*t.BannerKey); u != "" {
			t.BannerURL = &u
		}
	}
}
