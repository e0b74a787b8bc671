package events

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated            EventType = "ticket_created"
	EventTicketCommentAdded       EventType = "ticket_comment_added"
	EventEquipmentRequestCreated  EventType = "equipment_request_created"
	EventEquipmentRequestApproved EventType = "equipment_request_approved"
	EventEquipmentRequestDenied   EventType = "equipment_request_denied"
	EventUserRequestCreated       EventType = "user_request_created"
	EventStudentRequestCreated    EventType = "student_request_created"
)

// Event represents a domain event emitted by lifecycle services.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Payload   interface{}
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Ticket domain.Ticket
}

// TicketCommentAddedPayload payload.
type TicketCommentAddedPayload struct {
	Ticket  domain.Ticket
	Comment domain.Comment
}

// EquipmentRequestPayload payload for created/approved/denied events.
type EquipmentRequestPayload struct {
	Request domain.EquipmentRequest
}

// UserRequestPayload payload.
type UserRequestPayload struct {
	Request domain.UserRequest
}

// StudentRequestPayload payload.
type StudentRequestPayload struct {
	Request domain.StudentRequest
}
