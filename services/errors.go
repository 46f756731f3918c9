package services

import "errors"

// Shared errors used across services and the HTTP error mapping.
var (
	// Not found
	ErrNotFound           = errors.New("requested resource not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrClubNotFound       = errors.New("club not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrRoundNotFound      = errors.New("fixture round not found")
	ErrMatchNotFound      = errors.New("match not found")

	// Validation and business rules
	ErrValidationFailed        = errors.New("validation failed")
	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrPasswordTooShort        = errors.New("password is too short")
	ErrTournamentNameRequired  = errors.New("tournament name is required")
	ErrClubNameRequired        = errors.New("club name is required")
	ErrInvalidEntryFee         = errors.New("tournament entry fee must be positive")
	ErrInvalidDateRange        = errors.New("tournament end date must be after start date")
	ErrInvalidRegWindow        = errors.New("registration window must close before the tournament starts")
	ErrInvalidStatusTransition = errors.New("invalid tournament status transition")
	ErrInvalidInningsNumber    = errors.New("innings number must be 1 or 2")
	ErrInvalidRuns             = errors.New("runs must not be negative")
	ErrInvalidOvers            = errors.New("overs must not be negative")
	ErrSameRoundTransition     = errors.New("from and to rounds must differ")

	// Eligibility and conflicts
	ErrRegistrationNotOpen = errors.New("tournament registration is not open")
	ErrNotClubManager      = errors.New("requester does not manage this club")
	ErrNotOrganizer        = errors.New("requester does not organize this tournament")
	ErrEnrollmentConflict  = errors.New("club is already enrolled in this tournament")
	ErrClubNotQualified    = errors.New("club has no paid enrollment in this tournament")
	ErrTournamentBlocked   = errors.New("tournament is administratively blocked")

	// Settlement
	ErrAlreadySettled      = errors.New("enrollment is already settled")
	ErrSignatureInvalid    = errors.New("payment signature verification failed")
	ErrOrderMismatch       = errors.New("confirmation does not match the enrollment's payment order")
	ErrInvalidCreditAmount = errors.New("ledger credit amount must be positive")

	// Fixtures
	ErrDuplicatePairing = errors.New("duplicate pairing or match number in round")

	// Assets
	ErrAssetStoreDisabled = errors.New("asset store is not configured")

	// Match results
	ErrMatchNotRecordable   = errors.New("match is not accepting innings in its current state")
	ErrClubNotInMatch       = errors.New("club is not a participant of this match")
	ErrInconsistentResult   = errors.New("result is inconsistent with the recorded innings")
	ErrInningsIncomplete    = errors.New("both innings must be recorded before finalizing")
	ErrInningsAlreadyExists = errors.New("innings already recorded for this club or slot")
)
