package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pitchside/cricket-league/models"
)

var ErrPointTableEntryNotFound = errors.New("point table entry not found")

type PointTableRepository interface {
	// GetOrCreateForUpdate locks the (tournament, club) row for the duration
	// of the surrounding transaction, creating it first when absent. The row
	// lock is what serializes standings recomputation per club.
	GetOrCreateForUpdate(ctx context.Context, exec SQLExecutor, tournamentID, clubID int) (*models.PointTableEntry, error)
	Update(ctx context.Context, exec SQLExecutor, entry *models.PointTableEntry) error
	ListRanked(ctx context.Context, tournamentID int) ([]*models.PointTableEntry, error)
}

type postgresPointTableRepository struct {
	db *sql.DB
}

func NewPostgresPointTableRepository(db *sql.DB) PointTableRepository {
	return &postgresPointTableRepository{db: db}
}

const pointTableColumns = `id, tournament_id, club_id, played, won, lost, tied, no_result,
	points, runs_scored, overs_faced, runs_conceded, overs_bowled, net_run_rate, updated_at`

func (r *postgresPointTableRepository) scanEntry(row interface{ Scan(...interface{}) error }) (*models.PointTableEntry, error) {
	e := &models.PointTableEntry{}
	err := row.Scan(
		&e.ID, &e.TournamentID, &e.ClubID, &e.Played, &e.Won, &e.Lost, &e.Tied,
		&e.NoResult, &e.Points, &e.RunsScored, &e.OversFaced, &e.RunsConceded,
		&e.OversBowled, &e.NetRunRate, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPointTableEntryNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *postgresPointTableRepository) GetOrCreateForUpdate(ctx context.Context, exec SQLExecutor, tournamentID, clubID int) (*models.PointTableEntry, error) {
	// Insert-if-absent first so the subsequent FOR UPDATE always has a row to
	// lock. ON CONFLICT DO NOTHING keeps concurrent first-recomputes safe.
	_, err := exec.ExecContext(ctx, `
		INSERT INTO point_table_entries (tournament_id, club_id)
		VALUES ($1, $2)
		ON CONFLICT (tournament_id, club_id) DO NOTHING`,
		tournamentID, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure point table row for t:%d c:%d: %w", tournamentID, clubID, err)
	}

	query := `SELECT ` + pointTableColumns + `
		FROM point_table_entries
		WHERE tournament_id = $1 AND club_id = $2
		FOR UPDATE`
	return r.scanEntry(exec.QueryRowContext(ctx, query, tournamentID, clubID))
}

func (r *postgresPointTableRepository) Update(ctx context.Context, exec SQLExecutor, entry *models.PointTableEntry) error {
	entry.UpdatedAt = time.Now()
	query := `
		UPDATE point_table_entries SET
			played = $1, won = $2, lost = $3, tied = $4, no_result = $5, points = $6,
			runs_scored = $7, overs_faced = $8, runs_conceded = $9, overs_bowled = $10,
			net_run_rate = $11, updated_at = $12
		WHERE id = $13`

	result, err := exec.ExecContext(ctx, query,
		entry.Played, entry.Won, entry.Lost, entry.Tied, entry.NoResult, entry.Points,
		entry.RunsScored, entry.OversFaced, entry.RunsConceded, entry.OversBowled,
		entry.NetRunRate, entry.UpdatedAt, entry.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPointTableEntryNotFound)
}

// ListRanked orders by points, then net run rate, then earliest enrollment id
// so the display ranking is deterministic.
func (r *postgresPointTableRepository) ListRanked(ctx context.Context, tournamentID int) ([]*models.PointTableEntry, error) {
	query := `
		SELECT ` + prefixColumns("pte", pointTableColumns) + `
		FROM point_table_entries pte
		JOIN enrollments e ON e.tournament_id = pte.tournament_id AND e.club_id = pte.club_id
		WHERE pte.tournament_id = $1
		ORDER BY pte.points DESC, pte.net_run_rate DESC, e.id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query point table for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	entries := make([]*models.PointTableEntry, 0)
	for rows.Next() {
		e, scanErr := r.scanEntry(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
