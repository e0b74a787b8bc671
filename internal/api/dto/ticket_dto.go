package dto

import (
	"fmt"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// CreateTicketRequest is the JSON ticket creation payload. The same
// fields are also accepted as multipart form values when an attachment
// accompanies the request.
type CreateTicketRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	Location    string `json:"location" form:"location"`
	Department  string `json:"department" form:"department"`
	Shimmer     bool   `json:"shimmer" form:"shimmer"`
}

// AssignTicketRequest carries the assignee's email.
type AssignTicketRequest struct {
	AssigneeEmail string `json:"assignee_email"`
}

// AttachmentResponse is attachment metadata plus its download URL. The
// stored path stays internal.
type AttachmentResponse struct {
	ID        int64   `json:"id"`
	Filename  string  `json:"filename"`
	TicketID  *string `json:"ticket_id"`
	CommentID *int64  `json:"comment_id"`
	URL       string  `json:"url"`
}

// NewAttachmentResponse maps an attachment.
func NewAttachmentResponse(attachment *domain.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:        attachment.ID,
		Filename:  attachment.Filename,
		TicketID:  attachment.TicketID,
		CommentID: attachment.CommentID,
		URL:       fmt.Sprintf("/api/tickets/attachments/%d", attachment.ID),
	}
}

func newAttachmentResponses(attachments []domain.Attachment) []AttachmentResponse {
	out := make([]AttachmentResponse, 0, len(attachments))
	for i := range attachments {
		out = append(out, NewAttachmentResponse(&attachments[i]))
	}
	return out
}

// CommentResponse is a comment with its attachments.
type CommentResponse struct {
	ID          int64                `json:"id"`
	TicketID    string               `json:"ticket_id"`
	UserEmail   string               `json:"user_email"`
	Text        string               `json:"text"`
	Timestamp   string               `json:"timestamp"`
	Attachments []AttachmentResponse `json:"attachments"`
}

// NewCommentResponse maps a comment and its attachments.
func NewCommentResponse(comment *domain.Comment, attachments []domain.Attachment) CommentResponse {
	return CommentResponse{
		ID:          comment.ID,
		TicketID:    comment.TicketID,
		UserEmail:   comment.AuthorEmail,
		Text:        comment.Text,
		Timestamp:   comment.CreatedAt.Format(time.RFC3339),
		Attachments: newAttachmentResponses(attachments),
	}
}

// TicketResponse is the ticket representation. Status serializes as
// "open" or "Closed: <timestamp>".
type TicketResponse struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Location      string               `json:"location"`
	UserEmail     string               `json:"user_email"`
	Timestamp     string               `json:"timestamp"`
	Status        string               `json:"status"`
	AssigneeEmail *string              `json:"assignee_email"`
	Shimmer       bool                 `json:"shimmer"`
	Department    string               `json:"department"`
	Attachments   []AttachmentResponse `json:"attachments"`
	Comments      []CommentResponse    `json:"comments,omitempty"`
}

// NewTicketResponse maps a ticket without comments or attachments,
// for list views.
func NewTicketResponse(ticket *domain.Ticket, loc *time.Location) TicketResponse {
	return TicketResponse{
		ID:            ticket.ID,
		Title:         ticket.Title,
		Description:   ticket.Description,
		Location:      ticket.Location,
		UserEmail:     ticket.CreatorEmail,
		Timestamp:     ticket.CreatedAt.Format(time.RFC3339),
		Status:        ticket.StatusString(loc),
		AssigneeEmail: ticket.AssigneeEmail,
		Shimmer:       ticket.Shimmer,
		Department:    string(ticket.Department),
		Attachments:   []AttachmentResponse{},
	}
}

// NewTicketResponses maps tickets for list views.
func NewTicketResponses(tickets []domain.Ticket, loc *time.Location) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, NewTicketResponse(&tickets[i], loc))
	}
	return out
}

// NewTicketDetailResponse maps the full read model including comments
// and attachments.
func NewTicketDetailResponse(view *service.TicketView, loc *time.Location) TicketResponse {
	resp := NewTicketResponse(&view.Ticket, loc)
	resp.Attachments = newAttachmentResponses(view.Attachments)
	resp.Comments = make([]CommentResponse, 0, len(view.Comments))
	for i := range view.Comments {
		resp.Comments = append(resp.Comments,
			NewCommentResponse(&view.Comments[i].Comment, view.Comments[i].Attachments))
	}
	return resp
}
