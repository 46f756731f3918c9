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
	ErrClubNotFound       = errors.New("club not found")
	ErrClubNameConflict   = errors.New("club name is already in use")
	ErrClubManagerInvalid = errors.New("club manager conflict or invalid")
)

type ClubRepository interface {
	Create(ctx context.Context, club *models.Club) error
	GetByID(ctx context.Context, id int) (*models.Club, error)
	ListByIDs(ctx context.Context, ids []int) ([]*models.Club, error)
	UpdateCrestKey(ctx context.Context, id int, crestKey *string) error
}

type postgresClubRepository struct {
	db *sql.DB
}

func NewPostgresClubRepository(db *sql.DB) ClubRepository {
	return &postgresClubRepository{db: db}
}

const clubColumns = `id, name, city, manager_id, crest_key, created_at`

func (r *postgresClubRepository) Create(ctx context.Context, club *models.Club) error {
	query := `
		INSERT INTO clubs (name, city, manager_id, crest_key)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		club.Name, club.City, club.ManagerID, club.CrestKey,
	).Scan(&club.ID, &club.CreatedAt)

	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "clubs_name_key":
			return ErrClubNameConflict
		case "clubs_manager_id_fkey":
			return ErrClubManagerInvalid
		}
	}
	return err
}

func (r *postgresClubRepository) GetByID(ctx context.Context, id int) (*models.Club, error) {
	query := `SELECT ` + clubColumns + ` FROM clubs WHERE id = $1`

	club := &models.Club{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&club.ID, &club.Name, &club.City, &club.ManagerID, &club.CrestKey, &club.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to scan club %d: %w", id, err)
	}
	return club, nil
}

func (r *postgresClubRepository) ListByIDs(ctx context.Context, ids []int) ([]*models.Club, error) {
	if len(ids) == 0 {
		return []*models.Club{}, nil
	}
	query := `SELECT ` + clubColumns + ` FROM clubs WHERE id = ANY($1) ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query clubs: %w", err)
	}
	defer rows.Close()

	clubs := make([]*models.Club, 0, len(ids))
	for rows.Next() {
		var club models.Club
		if err := rows.Scan(&club.ID, &club.Name, &club.City, &club.ManagerID, &club.CrestKey, &club.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan club row: %w", err)
		}
		clubs = append(clubs, &club)
	}
	return clubs, rows.Err()
}

func (r *postgresClubRepository) UpdateCrestKey(ctx context.Context, id int, crestKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE clubs SET crest_key = $1 WHERE id = $2`, crestKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrClubNotFound)
}
