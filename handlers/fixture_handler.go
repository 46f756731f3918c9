package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/pitchside/cricket-league/fixtures"
	"github.com/pitchside/cricket-league/middleware"
	"github.com/pitchside/cricket-league/models"
	"github.com/pitchside/cricket-league/services"
)

type FixtureHandler struct {
	fixtureService services.FixtureService
}

func NewFixtureHandler(fixtureService services.FixtureService) *FixtureHandler {
	return &FixtureHandler{fixtureService: fixtureService}
}

type generateRoundRequest struct {
	RoundName  string `json:"round_name"`
	MatchCount int    `json:"match_count"`
	ClubIDs    []int  `json:"club_ids"`
	Slots      []struct {
		MatchTime time.Time `json:"match_time"`
		Venue     string    `json:"venue"`
	} `json:"slots"`
}

func (h *FixtureHandler) GenerateRound(w http.ResponseWriter, r *http.Request) {
	requesterID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	tournamentID, err := urlParamInt(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req generateRoundRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	slots := make([]fixtures.Slot, 0, len(req.Slots))
	for _, s := range req.Slots {
		slots = append(slots, fixtures.Slot{MatchTime: s.MatchTime, Venue: s.Venue})
	}

	round, err := h.fixtureService.GenerateRound(r.Context(), services.GenerateRoundInput{
		TournamentID: tournamentID,
		RoundName:    req.RoundName,
		MatchCount:   req.MatchCount,
		ClubIDs:      req.ClubIDs,
		Slots:        slots,
	}, requesterID)
	if err != nil {
		mapFixtureError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"round": round}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// mapFixtureError adds planner validation errors on top of the shared
// service mapping.
func mapFixtureError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, fixtures.ErrNotEnoughClubs),
		errors.Is(err, fixtures.ErrDuplicateClub),
		errors.Is(err, fixtures.ErrNotEnoughSlots),
		errors.Is(err, fixtures.ErrNotEnoughPairings):
		badRequestResponse(w, r, err)
	default:
		mapServiceErrorToHTTP(w, r, err)
	}
}

func (h *FixtureHandler) PublishRound(w http.ResponseWriter, r *http.Request) {
	requesterID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	roundID, err := urlParamInt(r, "roundID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.fixtureService.PublishRound(r.Context(), roundID, requesterID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"published": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *FixtureHandler) ListRounds(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParamInt(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rounds, err := h.fixtureService.ListRounds(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"rounds": rounds}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListRoundMatches returns a round's matches. Unauthenticated callers only
// see published fixtures; the organizer sees drafts too.
func (h *FixtureHandler) ListRoundMatches(w http.ResponseWriter, r *http.Request) {
	roundID, err := urlParamInt(r, "roundID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	publishedOnly := true
	if role, err := middleware.UserRoleFromContext(r.Context()); err == nil && role == models.RoleOrganizer {
		publishedOnly = false
	}

	matches, err := h.fixtureService.ListRoundMatches(r.Context(), roundID, publishedOnly)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
