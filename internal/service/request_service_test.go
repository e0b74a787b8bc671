package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

type requestFixture struct {
	svc        *service.RequestService
	users      *fakeUserRepo
	dispatcher events.Dispatcher
}

func newRequestFixture(t *testing.T) *requestFixture {
	t.Helper()
	dispatcher := events.NewInMemoryDispatcher()
	svc := service.NewRequestService(newFakeEquipmentRepo(), newFakeUserRequestRepo(), newFakeStudentRequestRepo(), dispatcher)
	return &requestFixture{svc: svc, users: newFakeUserRepo(), dispatcher: dispatcher}
}

func equipmentInput() service.CreateEquipmentRequestInput {
	return service.CreateEquipmentRequestInput{
		Name:       "Jane Smith",
		Event:      "Open house",
		Date:       "2026-09-10",
		Time:       "18:00",
		Location:   "Gym",
		Equipment:  "Projector, speakers",
		ReturnDate: "2026-09-11",
		ReturnTime: "09:00",
	}
}

func TestCreateEquipmentRejectsBadDates(t *testing.T) {
	f := newRequestFixture(t)
	requester := seedUser(t, f.users, "user@example.com", domain.UserRoleUser)
	ctx := context.Background()

	input := equipmentInput()
	input.Date = "10/09/2026"
	_, err := f.svc.CreateEquipment(ctx, requester, input)
	require.Error(t, err)
	assert.Equal(t, "Invalid date format. Use YYYY-MM-DD.", apperrors.ToDomainError(err).Message)
}

func TestCreateEquipmentAcceptsReturnBeforeRequest(t *testing.T) {
	f := newRequestFixture(t)
	requester := seedUser(t, f.users, "user@example.com", domain.UserRoleUser)

	input := equipmentInput()
	input.ReturnDate = "2026-09-01"
	req, err := f.svc.CreateEquipment(context.Background(), requester, input)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusOpen, req.Status)
	assert.Equal(t, domain.ApprovalPending, req.ApprovalStatus)
}

func TestEquipmentApprovalFlow(t *testing.T) {
	f := newRequestFixture(t)
	requester := seedUser(t, f.users, "user@example.com", domain.UserRoleUser)
	ctx := context.Background()

	var approvals []events.Event
	f.dispatcher.Subscribe(events.EventEquipmentRequestApproved, func(_ context.Context, e events.Event) error {
		approvals = append(approvals, e)
		return nil
	})

	created, err := f.svc.CreateEquipment(ctx, requester, equipmentInput())
	require.NoError(t, err)

	approved, err := f.svc.ApproveEquipment(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalApproved, approved.ApprovalStatus)
	assert.Equal(t, domain.RequestStatusOpen, approved.Status)
	assert.Len(t, approvals, 1)

	closed, err := f.svc.CloseEquipment(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusClosed, closed.Status)

	_, err = f.svc.ApproveEquipment(ctx, "missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperrors.ToDomainError(err).HTTPStatus)
}

func TestEquipmentReviewIsOneWay(t *testing.T) {
	f := newRequestFixture(t)
	requester := seedUser(t, f.users, "user@example.com", domain.UserRoleUser)
	ctx := context.Background()

	var denials []events.Event
	f.dispatcher.Subscribe(events.EventEquipmentRequestDenied, func(_ context.Context, e events.Event) error {
		denials = append(denials, e)
		return nil
	})

	created, err := f.svc.CreateEquipment(ctx, requester, equipmentInput())
	require.NoError(t, err)

	_, err = f.svc.ApproveEquipment(ctx, created.ID)
	require.NoError(t, err)

	_, err = f.svc.DenyEquipment(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperrors.ToDomainError(err).HTTPStatus)
	assert.Equal(t, "Request has already been approved.", apperrors.ToDomainError(err).Message)
	assert.Empty(t, denials)

	stored, err := f.svc.GetEquipment(ctx, requester, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalApproved, stored.ApprovalStatus)

	_, err = f.svc.ApproveEquipment(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperrors.ToDomainError(err).HTTPStatus)
}

func TestGetEquipmentOwnerOrAdmin(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	requester := seedUser(t, f.users, "owner@example.com", domain.UserRoleUser)
	other := seedUser(t, f.users, "other@example.com", domain.UserRoleUser)
	admin := seedUser(t, f.users, "admin@example.com", domain.UserRoleAdmin)

	created, err := f.svc.CreateEquipment(ctx, requester, equipmentInput())
	require.NoError(t, err)

	_, err = f.svc.GetEquipment(ctx, requester, created.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetEquipment(ctx, admin, created.ID)
	assert.NoError(t, err)

	_, err = f.svc.GetEquipment(ctx, other, created.ID)
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusForbidden, domainErr.HTTPStatus)
	assert.Equal(t, "Unauthorized to view this request.", domainErr.Message)
}

func TestCreateUserRequestValidatesStartDate(t *testing.T) {
	f := newRequestFixture(t)
	requester := seedUser(t, f.users, "user@example.com", domain.UserRoleUser)
	ctx := context.Background()

	input := service.CreateUserRequestInput{
		FirstName:  "New",
		LastName:   "Hire",
		JobTitle:   "Teacher",
		Department: "Math",
		StartDate:  "next monday",
	}
	_, err := f.svc.CreateUser(ctx, requester, input)
	require.Error(t, err)
	assert.Equal(t, "Invalid start date format. Use YYYY-MM-DD.", apperrors.ToDomainError(err).Message)

	input.StartDate = "2026-10-01"
	req, err := f.svc.CreateUser(ctx, requester, input)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusOpen, req.Status)
}

func TestStudentRequestFlagToggle(t *testing.T) {
	f := newRequestFixture(t)
	requester := seedUser(t, f.users, "user@example.com", domain.UserRoleUser)
	ctx := context.Background()

	created, err := f.svc.CreateStudent(ctx, requester, service.CreateStudentRequestInput{
		FirstName: "Sam",
		LastName:  "Student",
		Grade:     "7",
		Teacher:   "Ms. Lee",
	})
	require.NoError(t, err)
	assert.False(t, created.EmailCreated)

	toggled, err := f.svc.ToggleStudentFlag(ctx, created.ID, "email_created")
	require.NoError(t, err)
	assert.True(t, toggled.EmailCreated)

	toggledBack, err := f.svc.ToggleStudentFlag(ctx, created.ID, "email_created")
	require.NoError(t, err)
	assert.False(t, toggledBack.EmailCreated)

	_, err = f.svc.ToggleStudentFlag(ctx, created.ID, "locker_created")
	require.Error(t, err)
	assert.Equal(t, "Invalid status field.", apperrors.ToDomainError(err).Message)
}

func TestListRequestsScopedToOwner(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	owner := seedUser(t, f.users, "owner@example.com", domain.UserRoleUser)
	other := seedUser(t, f.users, "other@example.com", domain.UserRoleUser)
	admin := seedUser(t, f.users, "admin@example.com", domain.UserRoleAdmin)

	_, err := f.svc.CreateEquipment(ctx, owner, equipmentInput())
	require.NoError(t, err)
	time.Sleep(time.Millisecond) // record IDs are timestamp-derived
	_, err = f.svc.CreateEquipment(ctx, other, equipmentInput())
	require.NoError(t, err)

	mine, err := f.svc.ListEquipment(ctx, owner, "")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := f.svc.ListEquipment(ctx, admin, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
