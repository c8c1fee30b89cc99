package repository

import (
	"context"
	"time"

	"github.com/KaranGhugal/STM/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EmailVerificationRepository struct {
	db *pgxpool.Pool
}

func NewEmailVerificationRepository(db *pgxpool.Pool) *EmailVerificationRepository {
	return &EmailVerificationRepository{db: db}
}

func (r *EmailVerificationRepository) Create(ctx context.Context, userID int64, token string, exp time.Time) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO email_verifications (userid, token, expires_at)
		VALUES ($1, $2, $3)
	`, userID, token, exp)
	return err
}

func (r *EmailVerificationRepository) CreateTx(ctx context.Context, tx pgx.Tx, userID int64, token string, exp time.Time) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO email_verifications (userid, token, expires_at)
		VALUES ($1, $2, $3)
	`, userID, token, exp)
	return err
}

// Get returns the record for a token regardless of expiry; the service
// decides whether it has lapsed and deletes stale rows.
func (r *EmailVerificationRepository) Get(ctx context.Context, token string) (*model.EmailVerification, error) {
	var v model.EmailVerification
	err := r.db.QueryRow(ctx, `
		SELECT id, userid, token, expires_at FROM email_verifications
		WHERE token = $1
	`, token).Scan(&v.ID, &v.UserID, &v.Token, &v.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *EmailVerificationRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM email_verifications WHERE id = $1`, id)
	return err
}

// DeleteForUser invalidates every outstanding verification link for the
// user; resend relies on this so only the newest link redeems.
func (r *EmailVerificationRepository) DeleteForUser(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM email_verifications WHERE userid = $1`, userID)
	return err
}

func (r *EmailVerificationRepository) DeleteForUserTx(ctx context.Context, tx pgx.Tx, userID int64) error {
	_, err := tx.Exec(ctx, `DELETE FROM email_verifications WHERE userid = $1`, userID)
	return err
}

// DeleteExpired sweeps lapsed rows; the TTL enforcement the document
// store did natively.
func (r *EmailVerificationRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM email_verifications WHERE expires_at < now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
