package service

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/storage"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// CreateTicketInput carries validated-at-the-edge ticket fields plus an
// optional uploaded file.
type CreateTicketInput struct {
	Title       string
	Description string
	Location    string
	Department  domain.Department
	Shimmer     bool
	File        *multipart.FileHeader
}

// ListTicketsInput mirrors the list query parameters.
type ListTicketsInput struct {
	Search         string
	Department     string
	IncludeShimmer bool
	Status         string
	SortAscending  bool
}

// CommentView pairs a comment with its stored attachments.
type CommentView struct {
	Comment     domain.Comment
	Attachments []domain.Attachment
}

// TicketView is the full detail read model for a single ticket.
type TicketView struct {
	Ticket      domain.Ticket
	Attachments []domain.Attachment
	Comments    []CommentView
}

// TicketService implements the ticket lifecycle. Notification side
// effects are published as events; failures there never fail the
// triggering operation.
type TicketService struct {
	tickets     repository.TicketRepository
	comments    repository.CommentRepository
	attachments repository.AttachmentRepository
	users       repository.UserRepository
	files       *storage.FileStore
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	loc         *time.Location
}

func NewTicketService(
	tickets repository.TicketRepository,
	comments repository.CommentRepository,
	attachments repository.AttachmentRepository,
	users repository.UserRepository,
	files *storage.FileStore,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
	loc *time.Location,
) *TicketService {
	return &TicketService{
		tickets:     tickets,
		comments:    comments,
		attachments: attachments,
		users:       users,
		files:       files,
		dispatcher:  dispatcher,
		logger:      logger,
		loc:         loc,
	}
}

// Create persists a new ticket, stores the optional attachment, and
// notifies the department's admin pool.
func (s *TicketService) Create(ctx context.Context, creator *domain.User, input CreateTicketInput) (*domain.Ticket, error) {
	if input.Title == "" || input.Description == "" || input.Location == "" || input.Department == "" {
		return nil, apperrors.NewValidationError("Missing required ticket fields.", nil)
	}
	if !domain.ValidTicketDepartment(input.Department) {
		return nil, apperrors.NewValidationError("Invalid department provided.", nil)
	}

	ticket := &domain.Ticket{
		ID:           domain.NewRecordID(),
		Title:        input.Title,
		Description:  input.Description,
		Location:     input.Location,
		Department:   input.Department,
		CreatorID:    creator.ID,
		CreatorEmail: creator.Email,
		Shimmer:      input.Shimmer,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if input.File != nil {
		s.storeTicketAttachment(ctx, ticket.ID, input.File)
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:      events.EventTicketCreated,
		Timestamp: time.Now(),
		Payload:   events.TicketCreatedPayload{Ticket: *ticket},
	})
	return ticket, nil
}

// storeTicketAttachment saves a ticket upload and records its
// metadata. Failures are logged and skipped, matching the best-effort
// handling of other side effects.
func (s *TicketService) storeTicketAttachment(ctx context.Context, ticketID string, file *multipart.FileHeader) {
	filename, path, err := s.files.SaveTicketAttachment(file, ticketID)
	if err != nil {
		s.logger.Warn("skipping ticket attachment",
			zap.String("ticket_id", ticketID), zap.String("filename", file.Filename), zap.Error(err))
		return
	}
	attachment := &domain.Attachment{Filename: filename, Filepath: path, TicketID: &ticketID}
	if err := s.attachments.Create(ctx, attachment); err != nil {
		s.logger.Error("failed to record ticket attachment",
			zap.String("ticket_id", ticketID), zap.Error(err))
	}
}

// List returns the tickets visible to the viewer, filtered and sorted.
func (s *TicketService) List(ctx context.Context, viewer *domain.User, input ListTicketsInput) ([]domain.Ticket, error) {
	filter := repository.TicketFilter{
		ViewerID:       viewer.ID,
		ViewerIsAdmin:  viewer.IsAdmin(),
		IncludeShimmer: input.IncludeShimmer,
		Search:         input.Search,
		Status:         input.Status,
		SortAscending:  input.SortAscending,
	}
	if input.Department != "" {
		dep := domain.Department(input.Department)
		filter.Department = &dep
	}

	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// canView applies the single-ticket visibility rule: creator or admin,
// and shimmer tickets admins only.
func canView(viewer *domain.User, ticket *domain.Ticket) bool {
	if viewer.IsAdmin() {
		return true
	}
	return ticket.CreatorID == viewer.ID && !ticket.Shimmer
}

// Get loads a ticket with its comments and attachments, enforcing the
// visibility rule. Access failures are 403, unknown IDs 404.
func (s *TicketService) Get(ctx context.Context, viewer *domain.User, ticketID string) (*TicketView, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !canView(viewer, ticket) {
		return nil, apperrors.NewForbidden("Unauthorized to view this ticket.")
	}

	view := &TicketView{Ticket: *ticket}
	if view.Attachments, err = s.attachments.ListByTicket(ctx, ticketID); err != nil {
		return nil, apperrors.MapError(err)
	}

	comments, err := s.comments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for _, comment := range comments {
		attachments, err := s.attachments.ListByComment(ctx, comment.ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		view.Comments = append(view.Comments, CommentView{Comment: comment, Attachments: attachments})
	}
	return view, nil
}

func (s *TicketService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Ticket", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// AddComment appends an immutable comment with an optional attachment
// and notifies the creator plus the department admin pool.
func (s *TicketService) AddComment(ctx context.Context, author *domain.User, ticketID, text string, file *multipart.FileHeader) (*CommentView, error) {
	if text == "" {
		return nil, apperrors.NewValidationError("Comment text is required.", nil)
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !canView(author, ticket) {
		return nil, apperrors.NewForbidden("Unauthorized to view this ticket.")
	}

	comment := &domain.Comment{
		TicketID:    ticketID,
		AuthorID:    author.ID,
		AuthorEmail: author.Email,
		Text:        text,
		CreatedAt:   time.Now().In(s.loc),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	view := &CommentView{Comment: *comment}
	if file != nil {
		if attachment := s.storeCommentAttachment(ctx, comment, file); attachment != nil {
			view.Attachments = append(view.Attachments, *attachment)
		}
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:      events.EventTicketCommentAdded,
		Timestamp: time.Now(),
		Payload:   events.TicketCommentAddedPayload{Ticket: *ticket, Comment: *comment},
	})
	return view, nil
}

func (s *TicketService) storeCommentAttachment(ctx context.Context, comment *domain.Comment, file *multipart.FileHeader) *domain.Attachment {
	filename, path, err := s.files.SaveCommentAttachment(file, comment.TicketID, comment.CreatedAt)
	if err != nil {
		s.logger.Warn("skipping comment attachment",
			zap.Int64("comment_id", comment.ID), zap.String("filename", file.Filename), zap.Error(err))
		return nil
	}
	attachment := &domain.Attachment{Filename: filename, Filepath: path, CommentID: &comment.ID}
	if err := s.attachments.Create(ctx, attachment); err != nil {
		s.logger.Error("failed to record comment attachment",
			zap.Int64("comment_id", comment.ID), zap.Error(err))
		return nil
	}
	return attachment
}

// CommentCount returns the number of comments on a ticket.
func (s *TicketService) CommentCount(ctx context.Context, ticketID string) (int64, error) {
	count, err := s.comments.CountByTicket(ctx, ticketID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return count, nil
}

// Close stamps the closure time. Closing an already-closed ticket
// simply re-stamps; there is no reopen transition.
func (s *TicketService) Close(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	closedAt := time.Now().In(s.loc)
	if err := s.tickets.SetClosedAt(ctx, ticketID, closedAt); err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket.ClosedAt = &closedAt
	return ticket, nil
}

// Delete removes a ticket, its comments and attachments, and their
// on-disk file trees. Row cascades handle the database side.
func (s *TicketService) Delete(ctx context.Context, ticketID string) error {
	if _, err := s.getTicket(ctx, ticketID); err != nil {
		return err
	}
	if err := s.files.RemoveTicketTree(ticketID); err != nil {
		s.logger.Warn("failed to remove ticket attachment tree",
			zap.String("ticket_id", ticketID), zap.Error(err))
	}
	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// Assign reassigns the ticket to the user with the given email.
func (s *TicketService) Assign(ctx context.Context, ticketID, assigneeEmail string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	assignee, err := s.users.GetByEmail(ctx, assigneeEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Assignee user", nil)
		}
		return nil, apperrors.MapError(err)
	}

	if err := s.tickets.SetAssignee(ctx, ticketID, assignee.ID); err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket.AssigneeID = &assignee.ID
	ticket.AssigneeEmail = &assignee.Email
	return ticket, nil
}

// ResolveAttachment loads attachment metadata and enforces the parent
// ticket's visibility rule before a download.
func (s *TicketService) ResolveAttachment(ctx context.Context, viewer *domain.User, attachmentID int64) (*domain.Attachment, error) {
	attachment, err := s.attachments.GetByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Attachment", nil)
		}
		return nil, apperrors.MapError(err)
	}

	var ticket *domain.Ticket
	switch {
	case attachment.TicketID != nil:
		ticket, err = s.tickets.GetByID(ctx, *attachment.TicketID)
	case attachment.CommentID != nil:
		var comment *domain.Comment
		if comment, err = s.comments.GetByID(ctx, *attachment.CommentID); err == nil {
			ticket, err = s.tickets.GetByID(ctx, comment.TicketID)
		}
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewDomainError("NOT_FOUND", "Associated ticket for attachment not found.", http.StatusNotFound, nil)
		}
		return nil, apperrors.MapError(err)
	}
	if ticket == nil {
		return nil, apperrors.NewDomainError("NOT_FOUND", "Associated ticket for attachment not found.", http.StatusNotFound, nil)
	}

	if !canView(viewer, ticket) {
		return nil, apperrors.NewForbidden("Unauthorized to download this attachment.")
	}
	return attachment, nil
}
