package repository

import (
	"context"
	"errors"
	"time"

	"github.com/KaranGhugal/STM/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoleRepository struct {
	DB *pgxpool.Pool
}

func NewRoleRepository(db *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{DB: db}
}

const roleColumns = `roleid, userid, name, email, role, created_at`

func scanRole(row pgx.Row) (*model.Role, error) {
	var ro model.Role
	if err := row.Scan(&ro.RoleID, &ro.UserID, &ro.Name, &ro.Email, &ro.Role, &ro.CreatedAt); err != nil {
		return nil, err
	}
	return &ro, nil
}

// CreateTx inserts the role projection paired with a user. Exactly one
// role row exists per user (unique userid).
func (r *RoleRepository) CreateTx(ctx context.Context, tx pgx.Tx, userID int64, name, email, role string) (int64, error) {
	var id int64
	query := `INSERT INTO roles (userid, name, email, role, created_at)
			VALUES ($1, $2, lower($3), $4, $5)
			RETURNING roleid`
	if err := tx.QueryRow(ctx, query, userID, name, email, role, time.Now()).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Create is the non-transactional variant used by the admin endpoint.
func (r *RoleRepository) Create(ctx context.Context, userID int64, name, email, role string) (*model.Role, error) {
	query := `INSERT INTO roles (userid, name, email, role, created_at)
			VALUES ($1, $2, lower($3), $4, $5)
			RETURNING ` + roleColumns
	return scanRole(r.DB.QueryRow(ctx, query, userID, name, email, role, time.Now()))
}

func (r *RoleRepository) GetByID(ctx context.Context, roleID int64) (*model.Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE roleid=$1`
	return scanRole(r.DB.QueryRow(ctx, query, roleID))
}

func (r *RoleRepository) GetByUserID(ctx context.Context, userID int64) (*model.Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE userid=$1`
	return scanRole(r.DB.QueryRow(ctx, query, userID))
}

func (r *RoleRepository) ExistsForUser(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM roles WHERE userid=$1)`
	if err := r.DB.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *RoleRepository) List(ctx context.Context) ([]model.Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles ORDER BY roleid`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Role{}
	for rows.Next() {
		var ro model.Role
		if err := rows.Scan(&ro.RoleID, &ro.UserID, &ro.Name, &ro.Email, &ro.Role, &ro.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, ro)
	}
	return list, rows.Err()
}

// SyncDetailsTx keeps the projection's name/email in step with the user
// row; runs inside the transaction that rewrites the users row.
func (r *RoleRepository) SyncDetailsTx(ctx context.Context, tx pgx.Tx, userID int64, name, email string) error {
	_, err := tx.Exec(ctx, `UPDATE roles SET name=$1, email=lower($2) WHERE userid=$3`, name, email, userID)
	return err
}

func (r *RoleRepository) SetRole(ctx context.Context, roleID int64, role string) error {
	tag, err := r.DB.Exec(ctx, `UPDATE roles SET role=$1 WHERE roleid=$2`, role, roleID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("role not found")
	}
	return nil
}

func (r *RoleRepository) Delete(ctx context.Context, roleID int64) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM roles WHERE roleid=$1`, roleID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("role not found")
	}
	return nil
}

func (r *RoleRepository) DeleteByUserTx(ctx context.Context, tx pgx.Tx, userID int64) error {
	_, err := tx.Exec(ctx, `DELETE FROM roles WHERE userid=$1`, userID)
	return err
}
