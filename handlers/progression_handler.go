package handlers

import (
	"errors"
	"net/http"

	"github.com/pitchside/cricket-league/middleware"
	"github.com/pitchside/cricket-league/services"
)

type ProgressionHandler struct {
	progressionService services.ProgressionService
}

func NewProgressionHandler(progressionService services.ProgressionService) *ProgressionHandler {
	return &ProgressionHandler{progressionService: progressionService}
}

func (h *ProgressionHandler) AdvanceClubs(w http.ResponseWriter, r *http.Request) {
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

	var req struct {
		FromRound string `json:"from_round"`
		ToRound   string `json:"to_round"`
		ClubIDs   []int  `json:"club_ids"`
	}
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.progressionService.AdvanceClubs(r.Context(), services.AdvanceClubsInput{
		TournamentID: tournamentID,
		FromRound:    req.FromRound,
		ToRound:      req.ToRound,
		ClubIDs:      req.ClubIDs,
	}, requesterID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ProgressionHandler) ListByTransition(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParamInt(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	fromRound := r.URL.Query().Get("from")
	toRound := r.URL.Query().Get("to")
	if fromRound == "" || toRound == "" {
		badRequestResponse(w, r, errors.New("from and to query parameters are required"))
		return
	}

	records, err := h.progressionService.ListByTransition(r.Context(), tournamentID, fromRound, toRound)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"progressions": records}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
