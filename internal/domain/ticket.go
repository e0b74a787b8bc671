package domain

import (
	"strconv"
	"time"
)

// closedStatusLayout is the timestamp format embedded in the serialized
// status of a closed ticket ("Closed: 2006-01-02 15:04:05").
const closedStatusLayout = "2006-01-02 15:04:05"

// Ticket is the aggregate for helpdesk tickets. A nil ClosedAt means
// the ticket is open; closing again re-stamps ClosedAt.
type Ticket struct {
	ID            string
	Title         string
	Description   string
	Location      string
	Department    Department
	CreatorID     int64
	CreatorEmail  string
	AssigneeID    *int64
	AssigneeEmail *string
	Shimmer       bool
	CreatedAt     time.Time
	ClosedAt      *time.Time
}

// Open reports whether the ticket has not been closed.
func (t *Ticket) Open() bool {
	return t.ClosedAt == nil
}

// StatusString renders the lifecycle state in the wire format expected
// by existing clients: "open", or "Closed: <timestamp>" in the given
// time zone.
func (t *Ticket) StatusString(loc *time.Location) string {
	if t.ClosedAt == nil {
		return "open"
	}
	return "Closed: " + t.ClosedAt.In(loc).Format(closedStatusLayout)
}

// Comment is an immutable note on a ticket.
type Comment struct {
	ID          int64
	TicketID    string
	AuthorID    int64
	AuthorEmail string
	Text        string
	CreatedAt   time.Time
}

// Attachment is a stored file belonging to exactly one of a ticket or
// a comment.
type Attachment struct {
	ID        int64
	Filename  string
	Filepath  string
	TicketID  *string
	CommentID *int64
	CreatedAt time.Time
}

// NewRecordID generates the timestamp-derived unique ID used for
// tickets and requests. Microsecond resolution keeps IDs unique at
// expected request rates and lexicographic order tracks creation time
// within a given ID length.
func NewRecordID() string {
	return strconv.FormatInt(time.Now().UnixMicro(), 10)
}
