package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/pitchside/cricket-league/models"
)

var (
	ErrInningsNotFound = errors.New("innings score not found")
	ErrInningsConflict = errors.New("innings already recorded for this club and sequence")
)

type InningsRepository interface {
	Create(ctx context.Context, exec SQLExecutor, score *models.InningsScore) error
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.InningsScore, error)
}

type postgresInningsRepository struct {
	db *sql.DB
}

func NewPostgresInningsRepository(db *sql.DB) InningsRepository {
	return &postgresInningsRepository{db: db}
}

func (r *postgresInningsRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresInningsRepository) Create(ctx context.Context, exec SQLExecutor, score *models.InningsScore) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO innings_scores (match_id, club_id, innings_no, runs, overs)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		score.MatchID, score.ClubID, score.InningsNo, score.Runs, score.Overs,
	).Scan(&score.ID, &score.CreatedAt)

	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "innings_scores_match_club_key", "innings_scores_match_no_key":
			return ErrInningsConflict
		}
	}
	return err
}

func (r *postgresInningsRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.InningsScore, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, match_id, club_id, innings_no, runs, overs, created_at
		FROM innings_scores WHERE match_id = $1 ORDER BY innings_no`

	rows, err := executor.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query innings for match %d: %w", matchID, err)
	}
	defer rows.Close()

	scores := make([]*models.InningsScore, 0, 2)
	for rows.Next() {
		var s models.InningsScore
		if err := rows.Scan(&s.ID, &s.MatchID, &s.ClubID, &s.InningsNo, &s.Runs, &s.Overs, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan innings row: %w", err)
		}
		scores = append(scores, &s)
	}
	return scores, rows.Err()
}
