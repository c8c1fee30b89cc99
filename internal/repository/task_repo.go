package repository

import (
	"context"
	"errors"
	"time"

	"github.com/KaranGhugal/STM/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskRepository struct {
	DB *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{DB: db}
}

// selectTasks aggregates the share set into a bigint[] per task so a
// single query yields the full task including sharedWith.
const selectTasks = `
	SELECT t.taskid, t.userid, t.title, t.description, t.category, t.priority,
	       t.status, t.due_date, t.created_at, t.updated_at,
	       COALESCE(ARRAY_AGG(s.userid) FILTER (WHERE s.userid IS NOT NULL), '{}') AS shared_with
	FROM tasks t
	LEFT JOIN task_shares s ON s.taskid = t.taskid
`

func scanTask(row pgx.Row) (*model.Task, error) {
	var t model.Task
	if err := row.Scan(&t.TaskID, &t.UserID, &t.Title, &t.Description, &t.Category, &t.Priority,
		&t.Status, &t.DueDate, &t.CreatedAt, &t.UpdatedAt, &t.SharedWith); err != nil {
		return nil, err
	}
	return &t, nil
}

func collectTasks(rows pgx.Rows) ([]model.Task, error) {
	defer rows.Close()
	list := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.TaskID, &t.UserID, &t.Title, &t.Description, &t.Category, &t.Priority,
			&t.Status, &t.DueDate, &t.CreatedAt, &t.UpdatedAt, &t.SharedWith); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// CreateTx inserts the task row inside the caller's transaction so the
// row and its share set commit together.
func (r *TaskRepository) CreateTx(ctx context.Context, tx pgx.Tx, t *model.Task) (int64, error) {
	var id int64
	query := `INSERT INTO tasks (userid, title, description, category, priority, status, due_date, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
			RETURNING taskid`
	if err := tx.QueryRow(ctx, query, t.UserID, t.Title, t.Description, t.Category,
		t.Priority, t.Status, t.DueDate, time.Now()).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, taskID int64) (*model.Task, error) {
	query := selectTasks + ` WHERE t.taskid=$1 GROUP BY t.taskid`
	return scanTask(r.DB.QueryRow(ctx, query, taskID))
}

// ListForUser returns tasks the user owns or is shared on, newest first.
func (r *TaskRepository) ListForUser(ctx context.Context, userID int64) ([]model.Task, error) {
	query := selectTasks + `
		WHERE t.userid=$1
		   OR t.taskid IN (SELECT taskid FROM task_shares WHERE userid=$1)
		GROUP BY t.taskid
		ORDER BY t.created_at DESC`
	rows, err := r.DB.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

// ListForUserByCategory filters the accessible tasks by category, soonest
// due first.
func (r *TaskRepository) ListForUserByCategory(ctx context.Context, userID int64, category string) ([]model.Task, error) {
	query := selectTasks + `
		WHERE t.category=$2
		  AND (t.userid=$1
		       OR t.taskid IN (SELECT taskid FROM task_shares WHERE userid=$1))
		GROUP BY t.taskid
		ORDER BY t.due_date ASC`
	rows, err := r.DB.Query(ctx, query, userID, category)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

// ListDueSoon returns pending tasks with a due date inside the window,
// optionally restricted to one owner (ownerID 0 means all owners).
func (r *TaskRepository) ListDueSoon(ctx context.Context, ownerID int64, window time.Duration) ([]model.Task, error) {
	cutoff := time.Now().Add(window)
	query := selectTasks + `
		WHERE t.status=$1 AND t.due_date <= $2 AND ($3 = 0 OR t.userid = $3)
		GROUP BY t.taskid
		ORDER BY t.due_date ASC`
	rows, err := r.DB.Query(ctx, query, model.StatusPending, cutoff, ownerID)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

// UpdateTx rewrites the task's scalar columns inside the caller's
// transaction.
func (r *TaskRepository) UpdateTx(ctx context.Context, tx pgx.Tx, t *model.Task) error {
	query := `UPDATE tasks SET title=$1, description=$2, category=$3, priority=$4,
			status=$5, due_date=$6, updated_at=$7 WHERE taskid=$8`
	tag, err := tx.Exec(ctx, query, t.Title, t.Description, t.Category, t.Priority,
		t.Status, t.DueDate, time.Now(), t.TaskID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("task not found")
	}
	return nil
}

func (r *TaskRepository) SetStatus(ctx context.Context, taskID int64, status string) error {
	tag, err := r.DB.Exec(ctx, `UPDATE tasks SET status=$1, updated_at=$2 WHERE taskid=$3`,
		status, time.Now(), taskID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("task not found")
	}
	return nil
}

// Delete removes the task row together with its share set, in one
// transaction so neither can outlive the other.
func (r *TaskRepository) Delete(ctx context.Context, taskID int64) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM task_shares WHERE taskid=$1`, taskID); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM tasks WHERE taskid=$1`, taskID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("task not found")
	}
	return tx.Commit(ctx)
}

// AddShare appends a user to the task's share set.
func (r *TaskRepository) AddShare(ctx context.Context, taskID, userID int64) error {
	_, err := r.DB.Exec(ctx, `INSERT INTO task_shares (taskid, userid) VALUES ($1, $2)`, taskID, userID)
	return err
}

// ReplaceSharesTx rewrites the full share set for a task inside the
// caller's transaction (owner create and update paths).
func (r *TaskRepository) ReplaceSharesTx(ctx context.Context, tx pgx.Tx, taskID int64, userIDs []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM task_shares WHERE taskid=$1`, taskID); err != nil {
		return err
	}
	for _, uid := range userIDs {
		if _, err := tx.Exec(ctx, `INSERT INTO task_shares (taskid, userid) VALUES ($1, $2)`, taskID, uid); err != nil {
			return err
		}
	}
	return nil
}

// DeleteForOwnerTx removes the user's tasks and every share row that
// references the user, in either direction, during account deletion.
func (r *TaskRepository) DeleteForOwnerTx(ctx context.Context, tx pgx.Tx, ownerID int64) error {
	query := `DELETE FROM task_shares
			WHERE userid=$1 OR taskid IN (SELECT taskid FROM tasks WHERE userid=$1)`
	if _, err := tx.Exec(ctx, query, ownerID); err != nil {
		return err
	}
	_, err := tx.Exec(ctx, `DELETE FROM tasks WHERE userid=$1`, ownerID)
	return err
}
