package repository

import (
	"context"
	"time"

	"github.com/KaranGhugal/STM/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LoginHistoryRepository struct {
	db *pgxpool.Pool
}

func NewLoginHistoryRepository(db *pgxpool.Pool) *LoginHistoryRepository {
	return &LoginHistoryRepository{db: db}
}

// Record appends an audit row. Rows are write-only until account
// deletion cascades them away.
func (r *LoginHistoryRepository) Record(ctx context.Context, userID int64, ip, userAgent string) error {
	if ip == "" {
		ip = "N/A"
	}
	if userAgent == "" {
		userAgent = "N/A"
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO login_history (userid, login_time, ip_address, user_agent)
		VALUES ($1, $2, $3, $4)
	`, userID, time.Now(), ip, userAgent)
	return err
}

func (r *LoginHistoryRepository) ListForUser(ctx context.Context, userID int64) ([]model.LoginHistoryEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, userid, login_time, ip_address, user_agent
		FROM login_history WHERE userid=$1 ORDER BY login_time DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.LoginHistoryEntry{}
	for rows.Next() {
		var e model.LoginHistoryEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.LoginTime, &e.IPAddress, &e.UserAgent); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *LoginHistoryRepository) DeleteForUserTx(ctx context.Context, tx pgx.Tx, userID int64) error {
	_, err := tx.Exec(ctx, `DELETE FROM login_history WHERE userid = $1`, userID)
	return err
}
