package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RequestFilter captures list parameters shared by the request
// repositories. A non-nil RequesterID scopes results to that user.
type RequestFilter struct {
	Search      string
	RequesterID *int64
}

// requestOrder sorts open records first, newest first within each group.
const requestOrder = ` ORDER BY CASE WHEN r.status='open' THEN 0 ELSE 1 END, r.created_at DESC`

// EquipmentRequestRepository encapsulates equipment request persistence.
type EquipmentRequestRepository interface {
	Create(ctx context.Context, req *domain.EquipmentRequest) error
	GetByID(ctx context.Context, id string) (*domain.EquipmentRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]domain.EquipmentRequest, error)
	SetApprovalStatus(ctx context.Context, id string, status domain.ApprovalStatus) error
	SetStatus(ctx context.Context, id string, status domain.RequestStatus) error
}

type equipmentRequestRepository struct {
	pool *pgxpool.Pool
}

// NewEquipmentRequestRepository instantiates repository.
func NewEquipmentRequestRepository(pool *pgxpool.Pool) EquipmentRequestRepository {
	return &equipmentRequestRepository{pool: pool}
}

const equipmentColumns = `
        r.id, r.name, r.event, r.request_date, r.request_time, r.location,
        r.equipment, r.description, r.return_date, r.return_time,
        r.user_id, u.email, r.status, r.approval_status, r.created_at`

func (r *equipmentRequestRepository) Create(ctx context.Context, req *domain.EquipmentRequest) error {
	const query = `
        INSERT INTO equipment_requests
            (id, name, event, request_date, request_time, location, equipment,
             description, return_date, return_time, user_id, status, approval_status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		req.ID,
		req.Name,
		req.Event,
		req.Date,
		req.Time,
		req.Location,
		req.Equipment,
		req.Description,
		req.ReturnDate,
		req.ReturnTime,
		req.RequesterID,
		req.Status,
		req.ApprovalStatus,
	).Scan(&req.CreatedAt)
}

func (r *equipmentRequestRepository) GetByID(ctx context.Context, id string) (*domain.EquipmentRequest, error) {
	query := `SELECT` + equipmentColumns + ` FROM equipment_requests r JOIN users u ON u.id = r.user_id WHERE r.id=$1`
	var req domain.EquipmentRequest
	if err := scanEquipmentRequest(r.pool.QueryRow(ctx, query, id), &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *equipmentRequestRepository) List(ctx context.Context, filter RequestFilter) ([]domain.EquipmentRequest, error) {
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
			"(LOWER(r.name) LIKE %s OR LOWER(r.event) LIKE %s OR LOWER(r.location) LIKE %s OR LOWER(r.equipment) LIKE %s OR LOWER(r.description) LIKE %s OR LOWER(u.email) LIKE %s)",
			p, p, p, p, p, p))
	}

	query := `SELECT` + equipmentColumns +
		` FROM equipment_requests r JOIN users u ON u.id = r.user_id WHERE ` +
		strings.Join(clauses, " AND ") + requestOrder

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.EquipmentRequest
	for rows.Next() {
		var req domain.EquipmentRequest
		if err := scanEquipmentRequest(rows, &req); err != nil {
			return nil, err
		}
		result = append(result, req)
	}
	return result, rows.Err()
}

func (r *equipmentRequestRepository) SetApprovalStatus(ctx context.Context, id string, status domain.ApprovalStatus) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE equipment_requests SET approval_status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *equipmentRequestRepository) SetStatus(ctx context.Context, id string, status domain.RequestStatus) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE equipment_requests SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanEquipmentRequest(row pgx.Row, req *domain.EquipmentRequest) error {
	return row.Scan(
		&req.ID,
		&req.Name,
		&req.Event,
		&req.Date,
		&req.Time,
		&req.Location,
		&req.Equipment,
		&req.Description,
		&req.ReturnDate,
		&req.ReturnTime,
		&req.RequesterID,
		&req.RequesterEmail,
		&req.Status,
		&req.ApprovalStatus,
		&req.CreatedAt,
	)
}
