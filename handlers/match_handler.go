package handlers

import (
	"errors"
	"net/http"

	"github.com/pitchside/cricket-league/models"
	"github.com/pitchside/cricket-league/services"
)

type MatchHandler struct {
	resultService services.ResultService
}

func NewMatchHandler(resultService services.ResultService) *MatchHandler {
	return &MatchHandler{resultService: resultService}
}

func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	matchID, err := urlParamInt(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.resultService.GetMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) RecordInnings(w http.ResponseWriter, r *http.Request) {
	matchID, err := urlParamInt(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req struct {
		ClubID    int     `json:"club_id"`
		InningsNo int     `json:"innings_no"`
		Runs      int     `json:"runs"`
		Overs     float64 `json:"overs"`
	}
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	score, err := h.resultService.RecordInnings(r.Context(), services.RecordInningsInput{
		MatchID:   matchID,
		ClubID:    req.ClubID,
		InningsNo: req.InningsNo,
		Runs:      req.Runs,
		Overs:     req.Overs,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"innings": score}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	matchID, err := urlParamInt(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req struct {
		Outcome      models.MatchStatus `json:"outcome"`
		WinnerClubID *int               `json:"winner_club_id"`
	}
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if req.Outcome == "" {
		badRequestResponse(w, r, errors.New("outcome is required"))
		return
	}

	match, err := h.resultService.Finalize(r.Context(), matchID, req.Outcome, req.WinnerClubID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	matchID, err := urlParamInt(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.resultService.Cancel(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
