package service_test

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// In-memory repository fakes backing the service tests. All of them
// mirror the repository contract of returning pgx.ErrNoRows for
// missing records.

type fakeUserRepo struct {
	nextID int64
	users  map[int64]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.nextID++
	user.ID = r.nextID
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for id := int64(1); id <= r.nextID; id++ {
		if user, ok := r.users[id]; ok {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) ListAdmins(ctx context.Context) ([]domain.User, error) {
	all, _ := r.List(ctx)
	admins := make([]domain.User, 0, len(all))
	for _, user := range all {
		if user.Role == domain.UserRoleAdmin {
			admins = append(admins, user)
		}
	}
	return admins, nil
}

type fakeTicketRepo struct {
	tickets map[string]*domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]*domain.Ticket{}}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	stored := *ticket
	r.tickets[ticket.ID] = &stored
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	out := []domain.Ticket{}
	for _, ticket := range r.tickets {
		if !filter.ViewerIsAdmin {
			if ticket.CreatorID != filter.ViewerID && ticket.Shimmer {
				continue
			}
		} else if ticket.Shimmer && !filter.IncludeShimmer {
			continue
		}
		out = append(out, *ticket)
	}
	return out, nil
}

func (r *fakeTicketRepo) SetClosedAt(ctx context.Context, id string, closedAt time.Time) error {
	ticket, ok := r.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stamped := closedAt
	ticket.ClosedAt = &stamped
	return nil
}

func (r *fakeTicketRepo) SetAssignee(_ context.Context, id string, assigneeID int64) error {
	ticket, ok := r.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.AssigneeID = &assigneeID
	return nil
}

func (r *fakeTicketRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tickets, id)
	return nil
}

type fakeCommentRepo struct {
	nextID   int64
	comments []domain.Comment
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.nextID++
	comment.ID = r.nextID
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id int64) (*domain.Comment, error) {
	for _, comment := range r.comments {
		if comment.ID == id {
			copied := comment
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCommentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Comment, error) {
	out := []domain.Comment{}
	for _, comment := range r.comments {
		if comment.TicketID == ticketID {
			out = append(out, comment)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) CountByTicket(ctx context.Context, ticketID string) (int64, error) {
	comments, _ := r.ListByTicket(ctx, ticketID)
	return int64(len(comments)), nil
}

type fakeAttachmentRepo struct {
	nextID      int64
	attachments []domain.Attachment
}

func (r *fakeAttachmentRepo) Create(_ context.Context, attachment *domain.Attachment) error {
	r.nextID++
	attachment.ID = r.nextID
	r.attachments = append(r.attachments, *attachment)
	return nil
}

func (r *fakeAttachmentRepo) GetByID(_ context.Context, id int64) (*domain.Attachment, error) {
	for _, attachment := range r.attachments {
		if attachment.ID == id {
			copied := attachment
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAttachmentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Attachment, error) {
	out := []domain.Attachment{}
	for _, attachment := range r.attachments {
		if attachment.TicketID != nil && *attachment.TicketID == ticketID {
			out = append(out, attachment)
		}
	}
	return out, nil
}

func (r *fakeAttachmentRepo) ListByComment(_ context.Context, commentID int64) ([]domain.Attachment, error) {
	out := []domain.Attachment{}
	for _, attachment := range r.attachments {
		if attachment.CommentID != nil && *attachment.CommentID == commentID {
			out = append(out, attachment)
		}
	}
	return out, nil
}

type fakeEquipmentRepo struct {
	requests map[string]*domain.EquipmentRequest
}

func newFakeEquipmentRepo() *fakeEquipmentRepo {
	return &fakeEquipmentRepo{requests: map[string]*domain.EquipmentRequest{}}
}

func (r *fakeEquipmentRepo) Create(_ context.Context, req *domain.EquipmentRequest) error {
	stored := *req
	r.requests[req.ID] = &stored
	return nil
}

func (r *fakeEquipmentRepo) GetByID(_ context.Context, id string) (*domain.EquipmentRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *req
	return &copied, nil
}

func (r *fakeEquipmentRepo) List(_ context.Context, filter repository.RequestFilter) ([]domain.EquipmentRequest, error) {
	out := []domain.EquipmentRequest{}
	for _, req := range r.requests {
		if filter.RequesterID != nil && req.RequesterID != *filter.RequesterID {
			continue
		}
		out = append(out, *req)
	}
	return out, nil
}

func (r *fakeEquipmentRepo) SetApprovalStatus(_ context.Context, id string, status domain.ApprovalStatus) error {
	req, ok := r.requests[id]
	if !ok {
		return pgx.ErrNoRows
	}
	req.ApprovalStatus = status
	return nil
}

func (r *fakeEquipmentRepo) SetStatus(_ context.Context, id string, status domain.RequestStatus) error {
	req, ok := r.requests[id]
	if !ok {
		return pgx.ErrNoRows
	}
	req.Status = status
	return nil
}

type fakeUserRequestRepo struct {
	requests map[string]*domain.UserRequest
}

func newFakeUserRequestRepo() *fakeUserRequestRepo {
	return &fakeUserRequestRepo{requests: map[string]*domain.UserRequest{}}
}

func (r *fakeUserRequestRepo) Create(_ context.Context, req *domain.UserRequest) error {
	stored := *req
	r.requests[req.ID] = &stored
	return nil
}

func (r *fakeUserRequestRepo) GetByID(_ context.Context, id string) (*domain.UserRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *req
	return &copied, nil
}

func (r *fakeUserRequestRepo) List(_ context.Context, filter repository.RequestFilter) ([]domain.UserRequest, error) {
	out := []domain.UserRequest{}
	for _, req := range r.requests {
		if filter.RequesterID != nil && req.RequesterID != *filter.RequesterID {
			continue
		}
		out = append(out, *req)
	}
	return out, nil
}

func (r *fakeUserRequestRepo) SetStatus(_ context.Context, id string, status domain.RequestStatus) error {
	req, ok := r.requests[id]
	if !ok {
		return pgx.ErrNoRows
	}
	req.Status = status
	return nil
}

type fakeStudentRequestRepo struct {
	requests map[string]*domain.StudentRequest
}

func newFakeStudentRequestRepo() *fakeStudentRequestRepo {
	return &fakeStudentRequestRepo{requests: map[string]*domain.StudentRequest{}}
}

func (r *fakeStudentRequestRepo) Create(_ context.Context, req *domain.StudentRequest) error {
	stored := *req
	r.requests[req.ID] = &stored
	return nil
}

func (r *fakeStudentRequestRepo) GetByID(_ context.Context, id string) (*domain.StudentRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *req
	return &copied, nil
}

func (r *fakeStudentRequestRepo) List(_ context.Context, filter repository.RequestFilter) ([]domain.StudentRequest, error) {
	out := []domain.StudentRequest{}
	for _, req := range r.requests {
		if filter.RequesterID != nil && req.RequesterID != *filter.RequesterID {
			continue
		}
		out = append(out, *req)
	}
	return out, nil
}

func (r *fakeStudentRequestRepo) SetStatus(_ context.Context, id string, status domain.RequestStatus) error {
	req, ok := r.requests[id]
	if !ok {
		return pgx.ErrNoRows
	}
	req.Status = status
	return nil
}

func (r *fakeStudentRequestRepo) UpdateFlags(_ context.Context, req *domain.StudentRequest) error {
	stored, ok := r.requests[req.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.EmailCreated = req.EmailCreated
	stored.ComputerCreated = req.ComputerCreated
	stored.BagCreated = req.BagCreated
	stored.IDCardCreated = req.IDCardCreated
	stored.AzureCreated = req.AzureCreated
	return nil
}

type fakeTaskRepo struct {
	nextID int64
	tasks  map[int64]*domain.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[int64]*domain.Task{}}
}

func (r *fakeTaskRepo) Create(_ context.Context, task *domain.Task) error {
	r.nextID++
	task.ID = r.nextID
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	stored := *task
	r.tasks[task.ID] = &stored
	return nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *domain.Task) error {
	if _, ok := r.tasks[task.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *task
	r.tasks[task.ID] = &stored
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id int64, category domain.TaskCategory) error {
	task, ok := r.tasks[id]
	if !ok || task.Category != category {
		return pgx.ErrNoRows
	}
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id int64, category domain.TaskCategory) (*domain.Task, error) {
	task, ok := r.tasks[id]
	if !ok || task.Category != category {
		return nil, pgx.ErrNoRows
	}
	copied := *task
	return &copied, nil
}

func (r *fakeTaskRepo) ListByCategory(_ context.Context, category domain.TaskCategory) ([]domain.Task, error) {
	out := []domain.Task{}
	for id := int64(1); id <= r.nextID; id++ {
		if task, ok := r.tasks[id]; ok && task.Category == category {
			out = append(out, *task)
		}
	}
	return out, nil
}

type fakeLogRepo struct {
	nextID  int64
	entries []domain.LogEntry
}

func (r *fakeLogRepo) Create(_ context.Context, entry *domain.LogEntry) error {
	r.nextID++
	entry.ID = r.nextID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeLogRepo) ListByCategory(_ context.Context, category domain.TaskCategory) ([]domain.LogEntry, error) {
	out := []domain.LogEntry{}
	for _, entry := range r.entries {
		if entry.Category == category {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *fakeLogRepo) DeleteByCategory(_ context.Context, category domain.TaskCategory) error {
	kept := r.entries[:0]
	for _, entry := range r.entries {
		if entry.Category != category {
			kept = append(kept, entry)
		}
	}
	r.entries = kept
	return nil
}

type fakeStatsRepo struct {
	stats domain.DashboardStats
}

func (r *fakeStatsRepo) DashboardStats(_ context.Context) (*domain.DashboardStats, error) {
	copied := r.stats
	return &copied, nil
}
