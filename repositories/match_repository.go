package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/pitchside/cricket-league/models"
)

var (
	ErrMatchNotFound         = errors.New("match not found")
	ErrMatchPairConflict     = errors.New("club pairing already exists in this round")
	ErrMatchNumberConflict   = errors.New("match number already exists in this round")
	ErrMatchClubInvalid      = errors.New("match club conflict or invalid")
	ErrMatchAlreadyFinalized = errors.New("match is already finalized")
)

// PairKey identifies an unordered club pairing.
type PairKey struct {
	Low  int
	High int
}

func NewPairKey(a, b int) PairKey {
	if a > b {
		a, b = b, a
	}
	return PairKey{Low: a, High: b}
}

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByRound(ctx context.Context, roundID int, publishedOnly bool) ([]*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error)
	ListFinalizedByClub(ctx context.Context, exec SQLExecutor, tournamentID, clubID int) ([]*models.Match, error)
	ExistingPairs(ctx context.Context, exec SQLExecutor, tournamentID, roundID int) (map[PairKey]bool, error)
	MaxMatchNumber(ctx context.Context, exec SQLExecutor, tournamentID, roundID int) (int, error)
	FinalizeStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus, winnerClubID *int) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error
	PublishByRound(ctx context.Context, exec SQLExecutor, roundID int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, tournament_id, round_id, match_number, club_a_id, club_b_id,
	match_time, venue, is_published, status, winner_club_id, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches
			(tournament_id, round_id, match_number, club_a_id, club_b_id, match_time, venue, is_published, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		match.TournamentID, match.RoundID, match.MatchNumber,
		match.ClubAID, match.ClubBID, match.MatchTime, match.Venue,
		match.IsPublished, match.Status,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) scanMatch(row interface{ Scan(...interface{}) error }) (*models.Match, error) {
	m := &models.Match{}
	err := row.Scan(
		&m.ID, &m.TournamentID, &m.RoundID, &m.MatchNumber, &m.ClubAID, &m.ClubBID,
		&m.MatchTime, &m.Venue, &m.IsPublished, &m.Status, &m.WinnerClubID, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return r.scanMatch(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) ListByRound(ctx context.Context, roundID int, publishedOnly bool) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE round_id = $1`)
	if publishedOnly {
		queryBuilder.WriteString(" AND is_published = TRUE")
	}
	queryBuilder.WriteString(" ORDER BY match_number")

	return r.queryMatches(ctx, r.db, queryBuilder.String(), roundID)
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	if status != nil {
		queryBuilder.WriteString(" AND status = $" + strconv.Itoa(len(args)+1))
		args = append(args, *status)
	}
	queryBuilder.WriteString(" ORDER BY round_id, match_number")

	return r.queryMatches(ctx, r.db, queryBuilder.String(), args...)
}

// ListFinalizedByClub returns the club's matches in terminal states, the
// input set for a standings rebuild.
func (r *postgresMatchRepository) ListFinalizedByClub(ctx context.Context, exec SQLExecutor, tournamentID, clubID int) ([]*models.Match, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + matchColumns + `
		FROM matches
		WHERE tournament_id = $1
		  AND (club_a_id = $2 OR club_b_id = $2)
		  AND status IN ('completed', 'tied', 'no_result')
		ORDER BY id`
	return r.queryMatches(ctx, executor, query, tournamentID, clubID)
}

func (r *postgresMatchRepository) queryMatches(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := r.scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) ExistingPairs(ctx context.Context, exec SQLExecutor, tournamentID, roundID int) (map[PairKey]bool, error) {
	executor := r.getExecutor(exec)
	query := `SELECT club_a_id, club_b_id FROM matches WHERE tournament_id = $1 AND round_id = $2`

	rows, err := executor.QueryContext(ctx, query, tournamentID, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to query existing pairs: %w", err)
	}
	defer rows.Close()

	pairs := make(map[PairKey]bool)
	for rows.Next() {
		var a, b int
		if err := rows.Scan(&a, &b); err != nil {
			return nil, fmt.Errorf("failed to scan pair row: %w", err)
		}
		pairs[NewPairKey(a, b)] = true
	}
	return pairs, rows.Err()
}

func (r *postgresMatchRepository) MaxMatchNumber(ctx context.Context, exec SQLExecutor, tournamentID, roundID int) (int, error) {
	executor := r.getExecutor(exec)
	var max int
	err := executor.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(match_number), 0) FROM matches WHERE tournament_id = $1 AND round_id = $2`,
		tournamentID, roundID,
	).Scan(&max)
	return max, err
}

// FinalizeStatus moves a match into a terminal state. The status guard keeps
// a concurrent duplicate finalize from rewriting the outcome.
func (r *postgresMatchRepository) FinalizeStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus, winnerClubID *int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE matches SET status = $1, winner_club_id = $2
		WHERE id = $3 AND status IN ('scheduled', 'in_progress')`

	result, err := executor.ExecContext(ctx, query, status, winnerClubID, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchAlreadyFinalized)
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE matches SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) PublishByRound(ctx context.Context, exec SQLExecutor, roundID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `UPDATE matches SET is_published = TRUE WHERE round_id = $1`, roundID)
	return err
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "matches_round_pair_key":
			return ErrMatchPairConflict
		case "matches_round_number_key":
			return ErrMatchNumberConflict
		case "matches_club_a_id_fkey", "matches_club_b_id_fkey", "matches_distinct_clubs_check":
			return ErrMatchClubInvalid
		}
	}
	return err
}
