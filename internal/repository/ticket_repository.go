package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TicketFilter captures list parameters. Visibility: non-admin viewers
// see their own tickets plus all non-shimmer tickets; admins see
// everything unless IncludeShimmer is false.
type TicketFilter struct {
	ViewerID       int64
	ViewerIsAdmin  bool
	IncludeShimmer bool
	Search         string
	Department     *domain.Department
	Status         string
	SortAscending  bool
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	SetClosedAt(ctx context.Context, id string, closedAt time.Time) error
	SetAssignee(ctx context.Context, id string, assigneeID int64) error
	Delete(ctx context.Context, id string) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `
        t.id, t.title, t.description, t.location, t.department,
        t.user_id, c.email, t.assignee_id, a.email, t.shimmer,
        t.created_at, t.closed_at`

const ticketJoins = `
        FROM tickets t
        JOIN users c ON c.id = t.user_id
        LEFT JOIN users a ON a.id = t.assignee_id`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, title, description, location, department, user_id, shimmer)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		ticket.ID,
		ticket.Title,
		ticket.Description,
		ticket.Location,
		ticket.Department,
		ticket.CreatorID,
		ticket.Shimmer,
	).Scan(&ticket.CreatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT` + ticketColumns + ticketJoins + ` WHERE t.id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Location,
		&ticket.Department,
		&ticket.CreatorID,
		&ticket.CreatorEmail,
		&ticket.AssigneeID,
		&ticket.AssigneeEmail,
		&ticket.Shimmer,
		&ticket.CreatedAt,
		&ticket.ClosedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if !filter.ViewerIsAdmin {
		args = append(args, filter.ViewerID)
		clauses = append(clauses, fmt.Sprintf("(t.user_id=$%d OR t.shimmer=FALSE)", len(args)))
	} else if !filter.IncludeShimmer {
		clauses = append(clauses, "t.shimmer=FALSE")
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		p := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(t.title) LIKE %s OR LOWER(t.description) LIKE %s OR LOWER(t.location) LIKE %s OR LOWER(t.department) LIKE %s OR LOWER(c.email) LIKE %s)",
			p, p, p, p, p))
	}

	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, fmt.Sprintf("t.department=$%d", len(args)))
	}

	// The status filter matches on the "closed" substring so callers
	// can pass either "closed" or the full display status.
	if status := strings.ToLower(strings.TrimSpace(filter.Status)); status != "" {
		if strings.Contains(status, "closed") {
			clauses = append(clauses, "t.closed_at IS NOT NULL")
		} else if strings.Contains(status, "open") {
			clauses = append(clauses, "t.closed_at IS NULL")
		}
	}

	order := "t.created_at DESC"
	if filter.SortAscending {
		order = "t.created_at ASC"
	}

	query := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY %s",
		ticketColumns, ticketJoins, strings.Join(clauses, " AND "), order)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) SetClosedAt(ctx context.Context, id string, closedAt time.Time) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE tickets SET closed_at=$1 WHERE id=$2`, closedAt, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) SetAssignee(ctx context.Context, id string, assigneeID int64) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE tickets SET assignee_id=$1 WHERE id=$2`, assigneeID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Title,
			&ticket.Description,
			&ticket.Location,
			&ticket.Department,
			&ticket.CreatorID,
			&ticket.CreatorEmail,
			&ticket.AssigneeID,
			&ticket.AssigneeEmail,
			&ticket.Shimmer,
			&ticket.CreatedAt,
			&ticket.ClosedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
