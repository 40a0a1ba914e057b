package verifytokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmkoval/metools/internal/common"
	"github.com/dmkoval/metools/internal/dbx"
	"github.com/dmkoval/metools/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID string, token string, validUntil time.Time) (*models.VerifyToken, error) {

	query :=
		`INSERT INTO verify_tokens (token, valid_until, user_id)
         VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	vt := &models.VerifyToken{UserID: userID, Token: token, ValidUntil: validUntil}
	err := r.db.QueryRowContext(ctx, query, token, validUntil, userID).
		Scan(&vt.ID, &vt.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return vt, nil
}

func (r *PostgresRepository) GetLive(ctx context.Context, token string, now time.Time) (*models.VerifyToken, error) {
	query :=
		`SELECT id, created_at, valid_until, token, user_id FROM verify_tokens
		 WHERE token = $1 AND valid_until > $2
		 `

	vt := &models.VerifyToken{}
	err := r.db.QueryRowContext(ctx, query, token, now).
		Scan(&vt.ID, &vt.CreatedAt, &vt.ValidUntil, &vt.Token, &vt.UserID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return vt, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query :=
		`DELETE FROM verify_tokens
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query :=
		`DELETE FROM verify_tokens
		 WHERE valid_until <= $1
		 `

	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return affected, nil
}
