package repository

import (
	"context"
	"time"

	"github.com/KaranGhugal/STM/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PasswordResetRepository struct {
	db *pgxpool.Pool
}

func NewPasswordResetRepository(db *pgxpool.Pool) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

func (r *PasswordResetRepository) Create(ctx context.Context, userID int64, token string, exp time.Time) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO password_resets (userid, token, expires_at)
		VALUES ($1, $2, $3)
	`, userID, token, exp)
	return err
}

func (r *PasswordResetRepository) Get(ctx context.Context, token string) (*model.PasswordReset, error) {
	var p model.PasswordReset
	err := r.db.QueryRow(ctx, `
		SELECT id, userid, token, expires_at FROM password_resets
		WHERE token = $1
	`, token).Scan(&p.ID, &p.UserID, &p.Token, &p.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PasswordResetRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM password_resets WHERE id = $1`, id)
	return err
}

func (r *PasswordResetRepository) DeleteForUser(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM password_resets WHERE userid = $1`, userID)
	return err
}

func (r *PasswordResetRepository) DeleteForUserTx(ctx context.Context, tx pgx.Tx, userID int64) error {
	_, err := tx.Exec(ctx, `DELETE FROM password_resets WHERE userid = $1`, userID)
	return err
}

func (r *PasswordResetRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM password_resets WHERE expires_at < now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
