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
	ErrFixtureRoundNotFound     = errors.New("fixture round not found")
	ErrFixtureRoundNameConflict = errors.New("round name already exists in this tournament")
)

type FixtureRoundRepository interface {
	Create(ctx context.Context, exec SQLExecutor, round *models.FixtureRound) error
	GetByID(ctx context.Context, id int) (*models.FixtureRound, error)
	GetByTournamentAndName(ctx context.Context, exec SQLExecutor, tournamentID int, name string) (*models.FixtureRound, error)
	AddMatchCount(ctx context.Context, exec SQLExecutor, id int, delta int) error
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.FixtureRound, error)
}

type postgresFixtureRoundRepository struct {
	db *sql.DB
}

func NewPostgresFixtureRoundRepository(db *sql.DB) FixtureRoundRepository {
	return &postgresFixtureRoundRepository{db: db}
}

func (r *postgresFixtureRoundRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresFixtureRoundRepository) Create(ctx context.Context, exec SQLExecutor, round *models.FixtureRound) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO fixture_rounds (tournament_id, name, match_count)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		round.TournamentID, round.Name, round.MatchCount,
	).Scan(&round.ID, &round.CreatedAt)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "fixture_rounds_tournament_name_key" {
		return ErrFixtureRoundNameConflict
	}
	return err
}

func (r *postgresFixtureRoundRepository) scanRound(row interface{ Scan(...interface{}) error }) (*models.FixtureRound, error) {
	round := &models.FixtureRound{}
	err := row.Scan(&round.ID, &round.TournamentID, &round.Name, &round.MatchCount, &round.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFixtureRoundNotFound
		}
		return nil, err
	}
	return round, nil
}

func (r *postgresFixtureRoundRepository) GetByID(ctx context.Context, id int) (*models.FixtureRound, error) {
	query := `SELECT id, tournament_id, name, match_count, created_at FROM fixture_rounds WHERE id = $1`
	return r.scanRound(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresFixtureRoundRepository) GetByTournamentAndName(ctx context.Context, exec SQLExecutor, tournamentID int, name string) (*models.FixtureRound, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, tournament_id, name, match_count, created_at
		FROM fixture_rounds WHERE tournament_id = $1 AND name = $2`
	return r.scanRound(executor.QueryRowContext(ctx, query, tournamentID, name))
}

func (r *postgresFixtureRoundRepository) AddMatchCount(ctx context.Context, exec SQLExecutor, id int, delta int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE fixture_rounds SET match_count = match_count + $1 WHERE id = $2`, delta, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrFixtureRoundNotFound)
}

func (r *postgresFixtureRoundRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.FixtureRound, error) {
	query := `SELECT id, tournament_id, name, match_count, created_at
		FROM fixture_rounds WHERE tournament_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	rounds := make([]*models.FixtureRound, 0)
	for rows.Next() {
		round, scanErr := r.scanRound(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		rounds = append(rounds, round)
	}
	return rounds, rows.Err()
}
