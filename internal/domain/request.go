package domain

import "time"

// RequestStatus enumerates open/closed for request records.
type RequestStatus string

const (
	RequestStatusOpen   RequestStatus = "open"
	RequestStatusClosed RequestStatus = "closed"
)

// ApprovalStatus is the one-way approval sub-state on equipment
// requests, independent of open/closed.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalDenied   ApprovalStatus = "denied"
)

// DateOnly is the strict format for request date fields.
const DateOnly = "2006-01-02"

// EquipmentRequest is an AV/equipment loan request for an event.
type EquipmentRequest struct {
	ID             string
	Name           string
	Event          string
	Date           time.Time
	Time           string
	Location       string
	Equipment      string
	Description    string
	ReturnDate     time.Time
	ReturnTime     string
	RequesterID    int64
	RequesterEmail string
	Status         RequestStatus
	ApprovalStatus ApprovalStatus
	CreatedAt      time.Time
}

// UserRequest is a new-hire onboarding request.
type UserRequest struct {
	ID             string
	FirstName      string
	LastName       string
	JobTitle       string
	Department     string
	StartDate      time.Time
	Description    string
	RequesterID    int64
	RequesterEmail string
	Status         RequestStatus
	CreatedAt      time.Time
}

// StudentRequest is a student onboarding request with independent
// provisioning flags.
type StudentRequest struct {
	ID              string
	FirstName       string
	LastName        string
	Grade           string
	Teacher         string
	Description     string
	RequesterID     int64
	RequesterEmail  string
	Status          RequestStatus
	EmailCreated    bool
	ComputerCreated bool
	BagCreated      bool
	IDCardCreated   bool
	AzureCreated    bool
	CreatedAt       time.Time
}

// StudentProvisioningFields lists the toggleable flag names accepted by
// the toggle endpoint, in API order.
var StudentProvisioningFields = []string{
	"email_created",
	"computer_created",
	"bag_created",
	"id_card_created",
	"azure_created",
}

// ToggleFlag flips the named provisioning flag. It returns false
// without mutating anything when the field name is unknown.
func (r *StudentRequest) ToggleFlag(field string) bool {
	switch field {
	case "email_created":
		r.EmailCreated = !r.EmailCreated
	case "computer_created":
		r.ComputerCreated = !r.ComputerCreated
	case "bag_created":
		r.BagCreated = !r.BagCreated
	case "id_card_created":
		r.IDCardCreated = !r.IDCardCreated
	case "azure_created":
		r.AzureCreated = !r.AzureCreated
	default:
		return false
	}
	return true
}
