package handlers

import (
	"net/http"

	"github.com/pitchside/cricket-league/middleware"
	"github.com/pitchside/cricket-league/services"
)

type LedgerHandler struct {
	ledgerService services.LedgerService
}

func NewLedgerHandler(ledgerService services.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// GetBalance returns the authenticated organizer's own ledger.
func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	organizerID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	ledger, err := h.ledgerService.GetBalance(r.Context(), organizerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"ledger": ledger}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LedgerHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	organizerID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	transactions, err := h.ledgerService.ListTransactions(r.Context(), organizerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"transactions": transactions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
