package repository

import (
	"context"
	"errors"
	"time"

	"github.com/KaranGhugal/STM/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNoRows = pgx.ErrNoRows

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation. Callers map it to a conflict when an existence pre-check
// loses a race against a concurrent insert.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

// CreateTx inserts a new unverified user inside the registration
// transaction and returns the created id.
func (r *UserRepository) CreateTx(ctx context.Context, tx pgx.Tx, name, email, phone, passwordHash, photo string) (int64, error) {
	var id int64
	query := `INSERT INTO users (name, email, phone, password_hash, photo, email_verified, created_at)
			VALUES ($1, lower($2), $3, $4, $5, false, $6)
			RETURNING userid`
	if err := tx.QueryRow(ctx, query, name, email, phone, passwordHash, photo, time.Now()).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	query := `SELECT userid, name, email, phone, password_hash, photo, email_verified, created_at
			FROM users WHERE userid=$1`
	if err := r.DB.QueryRow(ctx, query, id).Scan(&u.UserID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Photo, &u.EmailVerified, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	query := `SELECT userid, name, email, phone, password_hash, photo, email_verified, created_at
			FROM users WHERE email=lower($1)`
	if err := r.DB.QueryRow(ctx, query, email).Scan(&u.UserID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Photo, &u.EmailVerified, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// EmailExists checks the unique constraint ahead of insert so the caller
// can report a conflict instead of a raw constraint violation.
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email=lower($1))`
	if err := r.DB.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// EmailExistsOther reports whether another user already holds the email.
func (r *UserRepository) EmailExistsOther(ctx context.Context, email string, excludeID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email=lower($1) AND userid<>$2)`
	if err := r.DB.QueryRow(ctx, query, email, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	query := `SELECT userid, name, email, phone, photo, email_verified, created_at
			FROM users ORDER BY userid`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.UserID, &u.Name, &u.Email, &u.Phone, &u.Photo, &u.EmailVerified, &u.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func (r *UserRepository) SetEmailVerified(ctx context.Context, userID int64) error {
	tag, err := r.DB.Exec(ctx, `UPDATE users SET email_verified=true WHERE userid=$1`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("user not found")
	}
	return nil
}

func (r *UserRepository) SetPasswordHash(ctx context.Context, userID int64, hash string) error {
	tag, err := r.DB.Exec(ctx, `UPDATE users SET password_hash=$1 WHERE userid=$2`, hash, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("user not found")
	}
	return nil
}

// UpdateProfileTx rewrites the mutable profile fields inside the
// profile-update transaction.
func (r *UserRepository) UpdateProfileTx(ctx context.Context, tx pgx.Tx, userID int64, name, email, phone, passwordHash, photo string) error {
	query := `UPDATE users SET name=$1, email=lower($2), phone=$3, password_hash=$4, photo=$5 WHERE userid=$6`
	tag, err := tx.Exec(ctx, query, name, email, phone, passwordHash, photo, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("user not found")
	}
	return nil
}

func (r *UserRepository) DeleteTx(ctx context.Context, tx pgx.Tx, userID int64) error {
	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE userid=$1`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("user not found")
	}
	return nil
}
