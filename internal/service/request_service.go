package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// CreateEquipmentRequestInput carries the equipment request fields.
// Date strings are parsed strictly as YYYY-MM-DD.
type CreateEquipmentRequestInput struct {
	Name        string
	Event       string
	Date        string
	Time        string
	Location    string
	Equipment   string
	Description string
	ReturnDate  string
	ReturnTime  string
}

// CreateUserRequestInput carries the new-hire request fields.
type CreateUserRequestInput struct {
	FirstName   string
	LastName    string
	JobTitle    string
	Department  string
	StartDate   string
	Description string
}

// CreateStudentRequestInput carries the student onboarding fields.
type CreateStudentRequestInput struct {
	FirstName   string
	LastName    string
	Grade       string
	Teacher     string
	Description string
}

// RequestService implements the three request lifecycles. They share
// the same shape: create notifies the IT admin pool, lists are
// open-first then newest, closing is one-way.
type RequestService struct {
	equipment  repository.EquipmentRequestRepository
	userReqs   repository.UserRequestRepository
	students   repository.StudentRequestRepository
	dispatcher events.Dispatcher
}

func NewRequestService(
	equipment repository.EquipmentRequestRepository,
	userReqs repository.UserRequestRepository,
	students repository.StudentRequestRepository,
	dispatcher events.Dispatcher,
) *RequestService {
	return &RequestService{
		equipment:  equipment,
		userReqs:   userReqs,
		students:   students,
		dispatcher: dispatcher,
	}
}

// requestFilterFor scopes list queries to the requester unless the
// viewer is an admin.
func requestFilterFor(viewer *domain.User, search string) repository.RequestFilter {
	filter := repository.RequestFilter{Search: search}
	if !viewer.IsAdmin() {
		filter.RequesterID = &viewer.ID
	}
	return filter
}

// CreateEquipment validates dates, persists the request, and notifies
// the IT admin pool. The two dates are parsed independently; no
// ordering between them is enforced.
func (s *RequestService) CreateEquipment(ctx context.Context, requester *domain.User, input CreateEquipmentRequestInput) (*domain.EquipmentRequest, error) {
	date, err := time.Parse(domain.DateOnly, input.Date)
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid date format. Use YYYY-MM-DD.", nil)
	}
	returnDate, err := time.Parse(domain.DateOnly, input.ReturnDate)
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid date format. Use YYYY-MM-DD.", nil)
	}

	req := &domain.EquipmentRequest{
		ID:             domain.NewRecordID(),
		Name:           input.Name,
		Event:          input.Event,
		Date:           date,
		Time:           input.Time,
		Location:       input.Location,
		Equipment:      input.Equipment,
		Description:    input.Description,
		ReturnDate:     returnDate,
		ReturnTime:     input.ReturnTime,
		RequesterID:    requester.ID,
		RequesterEmail: requester.Email,
		Status:         domain.RequestStatusOpen,
		ApprovalStatus: domain.ApprovalPending,
	}
	if err := s.equipment.Create(ctx, req); err != nil {
		return nil, apperrors.MapError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:      events.EventEquipmentRequestCreated,
		Timestamp: time.Now(),
		Payload:   events.EquipmentRequestPayload{Request: *req},
	})
	return req, nil
}

func (s *RequestService) ListEquipment(ctx context.Context, viewer *domain.User, search string) ([]domain.EquipmentRequest, error) {
	requests, err := s.equipment.List(ctx, requestFilterFor(viewer, search))
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return requests, nil
}

func (s *RequestService) GetEquipment(ctx context.Context, viewer *domain.User, id string) (*domain.EquipmentRequest, error) {
	req, err := s.equipment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Equipment request", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if req.RequesterID != viewer.ID && !viewer.IsAdmin() {
		return nil, apperrors.NewForbidden("Unauthorized to view this request.")
	}
	return req, nil
}

// ApproveEquipment moves the approval sub-state to approved and
// notifies the requester with the event details.
func (s *RequestService) ApproveEquipment(ctx context.Context, id string) (*domain.EquipmentRequest, error) {
	return s.reviewEquipment(ctx, id, domain.ApprovalApproved, events.EventEquipmentRequestApproved)
}

// DenyEquipment moves the approval sub-state to denied and notifies
// the requester.
func (s *RequestService) DenyEquipment(ctx context.Context, id string) (*domain.EquipmentRequest, error) {
	return s.reviewEquipment(ctx, id, domain.ApprovalDenied, events.EventEquipmentRequestDenied)
}

func (s *RequestService) reviewEquipment(ctx context.Context, id string, status domain.ApprovalStatus, eventType events.EventType) (*domain.EquipmentRequest, error) {
	req, err := s.equipment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Equipment request", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if req.ApprovalStatus != domain.ApprovalPending {
		return nil, apperrors.NewConflict(
			fmt.Sprintf("Request has already been %s.", req.ApprovalStatus), nil)
	}

	if err := s.equipment.SetApprovalStatus(ctx, id, status); err != nil {
		return nil, apperrors.MapError(err)
	}
	req.ApprovalStatus = status

	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   events.EquipmentRequestPayload{Request: *req},
	})
	return req, nil
}

// CloseEquipment marks the request closed. There is no reopen.
func (s *RequestService) CloseEquipment(ctx context.Context, id string) (*domain.EquipmentRequest, error) {
	req, err := s.equipment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Equipment request", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if err := s.equipment.SetStatus(ctx, id, domain.RequestStatusClosed); err != nil {
		return nil, apperrors.MapError(err)
	}
	req.Status = domain.RequestStatusClosed
	return req, nil
}

// CreateUser validates the start date, persists the new-hire request,
// and notifies the IT admin pool.
func (s *RequestService) CreateUser(ctx context.Context, requester *domain.User, input CreateUserRequestInput) (*domain.UserRequest, error) {
	startDate, err := time.Parse(domain.DateOnly, input.StartDate)
	if err != nil {
		return nil, apperrors.NewValidationError("Invalid start date format. Use YYYY-MM-DD.", nil)
	}

	req := &domain.UserRequest{
		ID:             domain.NewRecordID(),
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		JobTitle:       input.JobTitle,
		Department:     input.Department,
		StartDate:      startDate,
		Description:    input.Description,
		RequesterID:    requester.ID,
		RequesterEmail: requester.Email,
		Status:         domain.RequestStatusOpen,
	}
	if err := s.userReqs.Create(ctx, req); err != nil {
		return nil, apperrors.MapError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:      events.EventUserRequestCreated,
		Timestamp: time.Now(),
		Payload:   events.UserRequestPayload{Request: *req},
	})
	return req, nil
}

func (s *RequestService) ListUser(ctx context.Context, viewer *domain.User, search string) ([]domain.UserRequest, error) {
	requests, err := s.userReqs.List(ctx, requestFilterFor(viewer, search))
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return requests, nil
}

func (s *RequestService) GetUser(ctx context.Context, viewer *domain.User, id string) (*domain.UserRequest, error) {
	req, err := s.userReqs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("User request", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if req.RequesterID != viewer.ID && !viewer.IsAdmin() {
		return nil, apperrors.NewForbidden("Unauthorized to view this request.")
	}
	return req, nil
}

func (s *RequestService) CloseUser(ctx context.Context, id string) (*domain.UserRequest, error) {
	req, err := s.userReqs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("User request", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if err := s.userReqs.SetStatus(ctx, id, domain.RequestStatusClosed); err != nil {
		return nil, apperrors.MapError(err)
	}
	req.Status = domain.RequestStatusClosed
	return req, nil
}

// CreateStudent persists the student onboarding request with all
// provisioning flags off and notifies the IT admin pool.
func (s *RequestService) CreateStudent(ctx context.Context, requester *domain.User, input CreateStudentRequestInput) (*domain.StudentRequest, error) {
	req := &domain.StudentRequest{
		ID:             domain.NewRecordID(),
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Grade:          input.Grade,
		Teacher:        input.Teacher,
		Description:    input.Description,
		RequesterID:    requester.ID,
		RequesterEmail: requester.Email,
		Status:         domain.RequestStatusOpen,
	}
	if err := s.students.Create(ctx, req); err != nil {
		return nil, apperrors.MapError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:      events.EventStudentRequestCreated,
		Timestamp: time.Now(),
		Payload:   events.StudentRequestPayload{Request: *req},
	})
	return req, nil
}

func (s *RequestService) ListStudent(ctx context.Context, viewer *domain.User, search string) ([]domain.StudentRequest, error) {
	requests, err := s.students.List(ctx, requestFilterFor(viewer, search))
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return requests, nil
}

func (s *RequestService) GetStudent(ctx context.Context, viewer *domain.User, id string) (*domain.StudentRequest, error) {
	req, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Student request", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if req.RequesterID != viewer.ID && !viewer.IsAdmin() {
		return nil, apperrors.NewForbidden("Unauthorized to view this request.")
	}
	return req, nil
}

func (s *RequestService) CloseStudent(ctx context.Context, id string) (*domain.StudentRequest, error) {
	req, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Student request", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if err := s.students.SetStatus(ctx, id, domain.RequestStatusClosed); err != nil {
		return nil, apperrors.MapError(err)
	}
	req.Status = domain.RequestStatusClosed
	return req, nil
}

// ToggleStudentFlag flips one provisioning flag. Unknown field names
// are rejected before any mutation.
func (s *RequestService) ToggleStudentFlag(ctx context.Context, id, field string) (*domain.StudentRequest, error) {
	req, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Student request", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !req.ToggleFlag(field) {
		return nil, apperrors.NewValidationError("Invalid status field.", nil)
	}
	if err := s.students.UpdateFlags(ctx, req); err != nil {
		return nil, apperrors.MapError(err)
	}
	return req, nil
}
