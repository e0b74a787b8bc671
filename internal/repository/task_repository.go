package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TaskRepository encapsulates checklist task persistence. Lookups are
// keyed by id and category together; a task is invisible outside its
// own category board.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id int64, category domain.TaskCategory) error
	GetByID(ctx context.Context, id int64, category domain.TaskCategory) (*domain.Task, error)
	ListByCategory(ctx context.Context, category domain.TaskCategory) ([]domain.Task, error)
}

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository instantiates repository.
func NewTaskRepository(pool *pgxpool.Pool) TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `
        id, title, description, category, completed, created_at,
        completed_at, last_completed_at, created_by`

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	const query = `
        INSERT INTO tasks (title, description, category, created_by)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		task.Title,
		task.Description,
		task.Category,
		task.CreatorID,
	).Scan(&task.ID, &task.CreatedAt)
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	const query = `
        UPDATE tasks SET completed=$1, completed_at=$2, last_completed_at=$3
        WHERE id=$4 AND category=$5`
	cmd, err := r.pool.Exec(ctx, query,
		task.Completed,
		task.CompletedAt,
		task.LastCompletedAt,
		task.ID,
		task.Category,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id int64, category domain.TaskCategory) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id=$1 AND category=$2`, id, category)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id int64, category domain.TaskCategory) (*domain.Task, error) {
	query := `SELECT` + taskColumns + ` FROM tasks WHERE id=$1 AND category=$2`
	var task domain.Task
	if err := r.pool.QueryRow(ctx, query, id, category).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Category,
		&task.Completed,
		&task.CreatedAt,
		&task.CompletedAt,
		&task.LastCompletedAt,
		&task.CreatorID,
	); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) ListByCategory(ctx context.Context, category domain.TaskCategory) ([]domain.Task, error) {
	query := `SELECT` + taskColumns + ` FROM tasks WHERE category=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Task
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.Category,
			&task.Completed,
			&task.CreatedAt,
			&task.CompletedAt,
			&task.LastCompletedAt,
			&task.CreatorID,
		); err != nil {
			return nil, err
		}
		result = append(result, task)
	}
	return result, rows.Err()
}
