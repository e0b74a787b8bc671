package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// StudentRequestRepository encapsulates student onboarding persistence.
type StudentRequestRepository interface {
	Create(ctx context.Context, req *domain.StudentRequest) error
	GetByID(ctx context.Context, id string) (*domain.StudentRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]domain.StudentRequest, error)
	SetStatus(ctx context.Context, id string, status domain.RequestStatus) error
	UpdateFlags(ctx context.Context, req *domain.StudentRequest) error
}

type studentRequestRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRequestRepository instantiates repository.
func NewStudentRequestRepository(pool *pgxpool.Pool) StudentRequestRepository {
	return &studentRequestRepository{pool: pool}
}

const studentRequestColumns = `
        r.id, r.first_name, r.last_name, r.grade, r.teacher, r.description,
        r.user_id, u.email, r.status, r.email_created, r.computer_created,
        r.bag_created, r.id_card_created, r.azure_created, r.created_at`

func (r *studentRequestRepository) Create(ctx context.Context, req *domain.StudentRequest) error {
	const query = `
        INSERT INTO student_requests
            (id, first_name, last_name, grade, teacher, description, user_id, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		req.ID,
		req.FirstName,
		req.LastName,
		req.Grade,
		req.Teacher,
		req.Description,
		req.RequesterID,
		req.Status,
	).Scan(&req.CreatedAt)
}

func (r *studentRequestRepository) GetByID(ctx context.Context, id string) (*domain.StudentRequest, error) {
	query := `SELECT` + studentRequestColumns + ` FROM student_requests r JOIN users u ON u.id = r.user_id WHERE r.id=$1`
	var req domain.StudentRequest
	if err := scanStudentRequest(r.pool.QueryRow(ctx, query, id), &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *studentRequestRepository) List(ctx context.Context, filter RequestFilter) ([]domain.StudentRequest, error) {
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
			"(LOWER(r.first_name) LIKE %s OR LOWER(r.last_name) LIKE %s OR LOWER(r.grade) LIKE %s OR LOWER(r.teacher) LIKE %s OR LOWER(r.description) LIKE %s OR LOWER(u.email) LIKE %s)",
			p, p, p, p, p, p))
	}

	query := `SELECT` + studentRequestColumns +
		` FROM student_requests r JOIN users u ON u.id = r.user_id WHERE ` +
		strings.Join(clauses, " AND ") + requestOrder

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StudentRequest
	for rows.Next() {
		var req domain.StudentRequest
		if err := scanStudentRequest(rows, &req); err != nil {
			return nil, err
		}
		result = append(result, req)
	}
	return result, rows.Err()
}

func (r *studentRequestRepository) SetStatus(ctx context.Context, id string, status domain.RequestStatus) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE student_requests SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *studentRequestRepository) UpdateFlags(ctx context.Context, req *domain.StudentRequest) error {
	const query = `
        UPDATE student_requests
        SET email_created=$1, computer_created=$2, bag_created=$3, id_card_created=$4, azure_created=$5
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		req.EmailCreated,
		req.ComputerCreated,
		req.BagCreated,
		req.IDCardCreated,
		req.AzureCreated,
		req.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanStudentRequest(row pgx.Row, req *domain.StudentRequest) error {
	return row.Scan(
		&req.ID,
		&req.FirstName,
		&req.LastName,
		&req.Grade,
		&req.Teacher,
		&req.Description,
		&req.RequesterID,
		&req.RequesterEmail,
		&req.Status,
		&req.EmailCreated,
		&req.ComputerCreated,
		&req.BagCreated,
		&req.IDCardCreated,
		&req.AzureCreated,
		&req.CreatedAt,
	)
}
