package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// UserRequestRepository encapsulates new-hire request persistence.
type UserRequestRepository interface {
	Create(ctx context.Context, req *domain.UserRequest) error
	GetByID(ctx context.Context, id string) (*domain.UserRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]domain.UserRequest, error)
	SetStatus(ctx context.Context, id string, status domain.RequestStatus) error
}

type userRequestRepository struct {
	pool *pgxpool.Pool
}

// NewUserRequestRepository instantiates repository.
func NewUserRequestRepository(pool *pgxpool.Pool) UserRequestRepository {
	return &userRequestRepository{pool: pool}
}

const userRequestColumns = `
        r.id, r.first_name, r.last_name, r.job_title, r.department,
        r.start_date, r.description, r.user_id, u.email, r.status, r.created_at`

func (r *userRequestRepository) Create(ctx context.Context, req *domain.UserRequest) error {
	const query = `
        INSERT INTO user_requests
            (id, first_name, last_name, job_title, department, start_date, description, user_id, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		req.ID,
		req.FirstName,
		req.LastName,
		req.JobTitle,
		req.Department,
		req.StartDate,
		req.Description,
		req.RequesterID,
		req.Status,
	).Scan(&req.CreatedAt)
}

func (r *userRequestRepository) GetByID(ctx context.Context, id string) (*domain.UserRequest, error) {
	query := `SELECT` + userRequestColumns + ` FROM user_requests r JOIN users u ON u.id = r.user_id WHERE r.id=$1`
	var req domain.UserRequest
	if err := scanUserRequest(r.pool.QueryRow(ctx, query, id), &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *userRequestRepository) List(ctx context.Context, filter RequestFilter) ([]domain.UserRequest, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.RequesterID != nil {
		args = append(args, *filter.RequesterID)
		clauses = append(clauses, fmt.Sprintf("r.user_id=$%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		p := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(r.first_name) LIKE %s OR LOWER(r.last_name) LIKE %s OR LOWER(r.job_title) LIKE %s OR LOWER(r.department) LIKE %s OR LOWER(r.description) LIKE %s OR LOWER(u.email) LIKE %s)",
			p, p, p, p, p, p))
	}

	query := `SELECT` + userRequestColumns +
		` FROM user_requests r JOIN users u ON u.id = r.user_id WHERE ` +
		strings.Join(clauses, " AND ") + requestOrder

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.UserRequest
	for rows.Next() {
		var req domain.UserRequest
		if err := scanUserRequest(rows, &req); err != nil {
			return nil, err
		}
		result = append(result, req)
	}
	return result, rows.Err()
}

func (r *userRequestRepository) SetStatus(ctx context.Context, id string, status domain.RequestStatus) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE user_requests SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanUserRequest(row pgx.Row, req *domain.UserRequest) error {
	return row.Scan(
		&req.ID,
		&req.FirstName,
		&req.LastName,
		&req.JobTitle,
		&req.Department,
		&req.StartDate,
		&req.Description,
		&req.RequesterID,
		&req.RequesterEmail,
		&req.Status,
		&req.CreatedAt,
	)
}
