package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// StatsRepository aggregates dashboard counts.
type StatsRepository interface {
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
}

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository instantiates repository.
func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{TicketsByDepartment: map[string]int64{}}

	const countsQuery = `
        SELECT
            (SELECT COUNT(*) FROM tickets),
            (SELECT COUNT(*) FROM tickets WHERE closed_at IS NULL),
            (SELECT COUNT(*) FROM comments),
            (SELECT COUNT(*) FROM tickets WHERE shimmer),
            (SELECT COUNT(*) FROM equipment_requests),
            (SELECT COUNT(*) FROM user_requests),
            (SELECT COUNT(*) FROM student_requests),
            (SELECT COUNT(*) FROM users)`
	if err := r.pool.QueryRow(ctx, countsQuery).Scan(
		&stats.TotalTickets,
		&stats.OpenTickets,
		&stats.Comments,
		&stats.ShimmerTickets,
		&stats.EquipmentRequests,
		&stats.UserRequests,
		&stats.StudentRequests,
		&stats.TotalUsers,
	); err != nil {
		return nil, err
	}
	stats.ClosedTickets = stats.TotalTickets - stats.OpenTickets
	stats.TotalRequests = stats.EquipmentRequests + stats.UserRequests + stats.StudentRequests

	rows, err := r.pool.Query(ctx, `SELECT department, COUNT(*) FROM tickets GROUP BY department`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var department string
		var count int64
		if err := rows.Scan(&department, &count); err != nil {
			return nil, err
		}
		if department != "" {
			stats.TicketsByDepartment[department] = count
		}
	}
	return stats, rows.Err()
}
