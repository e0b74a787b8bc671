package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// LogRepository encapsulates the append-only audit trail. Entries are
// never updated, only inserted or bulk-deleted per category.
type LogRepository interface {
	Create(ctx context.Context, entry *domain.LogEntry) error
	ListByCategory(ctx context.Context, category domain.TaskCategory) ([]domain.LogEntry, error)
	DeleteByCategory(ctx context.Context, category domain.TaskCategory) error
}

type logRepository struct {
	pool *pgxpool.Pool
}

// NewLogRepository instantiates repository.
func NewLogRepository(pool *pgxpool.Pool) LogRepository {
	return &logRepository{pool: pool}
}

func (r *logRepository) Create(ctx context.Context, entry *domain.LogEntry) error {
	const query = `
        INSERT INTO logs (message, category, user_id)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.Message,
		entry.Category,
		entry.ActorID,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *logRepository) ListByCategory(ctx context.Context, category domain.TaskCategory) ([]domain.LogEntry, error) {
	const query = `
        SELECT l.id, l.message, l.category, l.user_id, u.email, l.created_at
        FROM logs l LEFT JOIN users u ON u.id = l.user_id
        WHERE l.category=$1 ORDER BY l.created_at DESC`
	rows, err := r.pool.Query(ctx, query, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.LogEntry
	for rows.Next() {
		var entry domain.LogEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.Message,
			&entry.Category,
			&entry.ActorID,
			&entry.ActorEmail,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (r *logRepository) DeleteByCategory(ctx context.Context, category domain.TaskCategory) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM logs WHERE category=$1`, category)
	return err
}
