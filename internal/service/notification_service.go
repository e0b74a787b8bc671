package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/mail"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

const (
	emailTimeLayout = "2006-01-02 15:04:05"
	emailFooter     = "\n\nThis is an automated message. Do not reply to this email."
)

// NotificationService turns lifecycle events into outbound emails.
// Delivery is best-effort; failures are logged by the sender and never
// propagate.
type NotificationService struct {
	users  repository.UserRepository
	sender mail.Sender
	logger *zap.Logger
	loc    *time.Location
}

func NewNotificationService(users repository.UserRepository, sender mail.Sender, logger *zap.Logger, loc *time.Location) *NotificationService {
	return &NotificationService{users: users, sender: sender, logger: logger, loc: loc}
}

// Register subscribes the notification handlers to the dispatcher.
func (s *NotificationService) Register(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventTicketCreated, s.onTicketCreated)
	dispatcher.Subscribe(events.EventTicketCommentAdded, s.onTicketCommentAdded)
	dispatcher.Subscribe(events.EventEquipmentRequestCreated, s.onEquipmentRequestCreated)
	dispatcher.Subscribe(events.EventEquipmentRequestApproved, s.onEquipmentRequestApproved)
	dispatcher.Subscribe(events.EventEquipmentRequestDenied, s.onEquipmentRequestDenied)
	dispatcher.Subscribe(events.EventUserRequestCreated, s.onUserRequestCreated)
	dispatcher.Subscribe(events.EventStudentRequestCreated, s.onStudentRequestCreated)
}

// departmentAdmins resolves the admin pool for a department: every
// admin whose association tags intersect the department's allow-list.
func (s *NotificationService) departmentAdmins(ctx context.Context, department domain.Department) []domain.User {
	admins, err := s.users.ListAdmins(ctx)
	if err != nil {
		s.logger.Error("failed to load admin pool for notifications", zap.Error(err))
		return nil
	}
	var pool []domain.User
	for _, admin := range admins {
		if admin.Tags().MemberOf(department) {
			pool = append(pool, admin)
		}
	}
	return pool
}

func (s *NotificationService) onTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}
	ticket := payload.Ticket

	subject := "New Ticket Created"
	body := fmt.Sprintf(
		"A new ticket has been created.\nTicket ID: %s\nTitle: %s\nDescription: %s\nLocation: %s\nUser: %s\nTimestamp: %s\nDepartment: %s%s",
		ticket.ID, ticket.Title, ticket.Description, ticket.Location, ticket.CreatorEmail,
		ticket.CreatedAt.In(s.loc).Format(emailTimeLayout), ticket.Department, emailFooter)

	for _, admin := range s.departmentAdmins(ctx, ticket.Department) {
		s.sender.Send(admin.Email, fmt.Sprintf("%s (%s)", subject, ticket.Department), body)
	}
	return nil
}

func (s *NotificationService) onTicketCommentAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCommentAddedPayload)
	if !ok {
		return nil
	}
	ticket, comment := payload.Ticket, payload.Comment

	subject := "New Comment on Your Ticket"
	body := fmt.Sprintf(
		"A new comment has been added to your ticket.\nTicket ID: %s\nCommenter: %s\nComment: %s%s",
		ticket.ID, comment.AuthorEmail, comment.Text, emailFooter)

	s.sender.Send(ticket.CreatorEmail, subject, body)

	// The creator may also be in the admin pool; skip the duplicate.
	for _, admin := range s.departmentAdmins(ctx, ticket.Department) {
		if admin.Email == ticket.CreatorEmail {
			continue
		}
		s.sender.Send(admin.Email, fmt.Sprintf("%s (%s)", subject, ticket.Department), body)
	}
	return nil
}

func (s *NotificationService) onEquipmentRequestCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.EquipmentRequestPayload)
	if !ok {
		return nil
	}
	req := payload.Request

	subject := "New Equipment Request Created"
	body := fmt.Sprintf(
		"A new equipment request has been created.\nRequest ID: %s\nName: %s\nEvent: %s\nDate: %s\nTime: %s\nLocation: %s\nEquipment: %s\nDescription: %s\nReturn Date: %s\nReturn Time: %s\nUser: %s\nTimestamp: %s%s",
		req.ID, req.Name, req.Event, req.Date.Format(domain.DateOnly), req.Time, req.Location,
		req.Equipment, req.Description, req.ReturnDate.Format(domain.DateOnly), req.ReturnTime,
		req.RequesterEmail, req.CreatedAt.In(s.loc).Format(emailTimeLayout), emailFooter)

	for _, admin := range s.departmentAdmins(ctx, domain.DepartmentIT) {
		s.sender.Send(admin.Email, subject, body)
	}
	return nil
}

func (s *NotificationService) onEquipmentRequestApproved(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.EquipmentRequestPayload)
	if !ok {
		return nil
	}
	req := payload.Request

	body := fmt.Sprintf(
		"Your equipment request with ID %s has been approved. The equipment will be available for the event: %s on: %s at: %s in: %s. The equipment to be provided is: %s. The equipment should be returned to IT by: %s at: %s.%s",
		req.ID, req.Event, req.Date.Format(domain.DateOnly), req.Time, req.Location,
		req.Equipment, req.ReturnDate.Format(domain.DateOnly), req.ReturnTime, emailFooter)

	s.sender.Send(req.RequesterEmail, "Equipment Request Approved", body)
	return nil
}

func (s *NotificationService) onEquipmentRequestDenied(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.EquipmentRequestPayload)
	if !ok {
		return nil
	}
	req := payload.Request

	body := fmt.Sprintf(
		"Your equipment request with ID %s has been denied for the event: %s on: %s at: %s in: %s.%s",
		req.ID, req.Event, req.Date.Format(domain.DateOnly), req.Time, req.Location, emailFooter)

	s.sender.Send(req.RequesterEmail, "Equipment Request Denied", body)
	return nil
}

func (s *NotificationService) onUserRequestCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UserRequestPayload)
	if !ok {
		return nil
	}
	req := payload.Request

	subject := "New User Request Created"
	body := fmt.Sprintf(
		"A new user request has been created.\nRequest ID: %s\nFirst Name: %s\nLast Name: %s\nJob Title: %s\nDepartment: %s\nStart Date: %s\nDescription: %s\nUser: %s\nTimestamp: %s%s",
		req.ID, req.FirstName, req.LastName, req.JobTitle, req.Department,
		req.StartDate.Format(domain.DateOnly), req.Description, req.RequesterEmail,
		req.CreatedAt.In(s.loc).Format(emailTimeLayout), emailFooter)

	for _, admin := range s.departmentAdmins(ctx, domain.DepartmentIT) {
		s.sender.Send(admin.Email, subject, body)
	}
	return nil
}

func (s *NotificationService) onStudentRequestCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.StudentRequestPayload)
	if !ok {
		return nil
	}
	req := payload.Request

	subject := "New Student Request Created"
	body := fmt.Sprintf(
		"A new student request has been created.\nRequest ID: %s\nFirst Name: %s\nLast Name: %s\nGrade: %s\nTeacher: %s\nDescription: %s\nUser: %s\nTimestamp: %s%s",
		req.ID, req.FirstName, req.LastName, req.Grade, req.Teacher, req.Description,
		req.RequesterEmail, req.CreatedAt.In(s.loc).Format(emailTimeLayout), emailFooter)

	for _, admin := range s.departmentAdmins(ctx, domain.DepartmentIT) {
		s.sender.Send(admin.Email, subject, body)
	}
	return nil
}
