package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pitchside/cricket-league/models"
)

var ErrProgressionClubInvalid = errors.New("progression club conflict or invalid")

type ProgressionRepository interface {
	// Insert writes the advancement record unless the exact (tournament,
	// from, to, club) tuple already exists. Returns false without error when
	// the record was already present.
	Insert(ctx context.Context, exec SQLExecutor, record *models.RoundProgressionRecord) (bool, error)
	ListByTransition(ctx context.Context, tournamentID int, fromRound, toRound string) ([]*models.RoundProgressionRecord, error)
}

type postgresProgressionRepository struct {
	db *sql.DB
}

func NewPostgresProgressionRepository(db *sql.DB) ProgressionRepository {
	return &postgresProgressionRepository{db: db}
}

func (r *postgresProgressionRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresProgressionRepository) Insert(ctx context.Context, exec SQLExecutor, record *models.RoundProgressionRecord) (bool, error) {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO round_progressions (tournament_id, from_round, to_round, club_id, advanced_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT ON CONSTRAINT round_progressions_transition_key DO NOTHING
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		record.TournamentID, record.FromRound, record.ToRound, record.ClubID, record.AdvancedBy,
	).Scan(&record.ID, &record.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		// Conflict path: the tuple was advanced before.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert progression record: %w", err)
	}
	return true, nil
}

func (r *postgresProgressionRepository) ListByTransition(ctx context.Context, tournamentID int, fromRound, toRound string) ([]*models.RoundProgressionRecord, error) {
	query := `
		SELECT id, tournament_id, from_round, to_round, club_id, advanced_by, created_at
		FROM round_progressions
		WHERE tournament_id = $1 AND from_round = $2 AND to_round = $3
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, tournamentID, fromRound, toRound)
	if err != nil {
		return nil, fmt.Errorf("failed to query progression records: %w", err)
	}
	defer rows.Close()

	records := make([]*models.RoundProgressionRecord, 0)
	for rows.Next() {
		var rec models.RoundProgressionRecord
		if err := rows.Scan(&rec.ID, &rec.TournamentID, &rec.FromRound, &rec.ToRound, &rec.ClubID, &rec.AdvancedBy, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan progression row: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
