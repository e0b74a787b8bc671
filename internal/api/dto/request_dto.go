package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateEquipmentRequestRequest is the equipment request payload.
// Dates are YYYY-MM-DD strings validated by the service.
type CreateEquipmentRequestRequest struct {
	Name        string `json:"name"`
	Event       string `json:"event"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Equipment   string `json:"equipment"`
	Description string `json:"description"`
	ReturnDate  string `json:"return_date"`
	ReturnTime  string `json:"return_time"`
}

// EquipmentRequestResponse is the equipment request representation.
type EquipmentRequestResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Event          string `json:"event"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	Location       string `json:"location"`
	Equipment      string `json:"equipment"`
	Description    string `json:"description"`
	ReturnDate     string `json:"return_date"`
	ReturnTime     string `json:"return_time"`
	UserEmail      string `json:"user_email"`
	Timestamp      string `json:"timestamp"`
	Status         string `json:"status"`
	ApprovalStatus string `json:"approval_status"`
}

// NewEquipmentRequestResponse maps an equipment request.
func NewEquipmentRequestResponse(req *domain.EquipmentRequest) EquipmentRequestResponse {
	return EquipmentRequestResponse{
		ID:             req.ID,
		Name:           req.Name,
		Event:          req.Event,
		Date:           req.Date.Format(domain.DateOnly),
		Time:           req.Time,
		Location:       req.Location,
		Equipment:      req.Equipment,
		Description:    req.Description,
		ReturnDate:     req.ReturnDate.Format(domain.DateOnly),
		ReturnTime:     req.ReturnTime,
		UserEmail:      req.RequesterEmail,
		Timestamp:      req.CreatedAt.Format(time.RFC3339),
		Status:         string(req.Status),
		ApprovalStatus: string(req.ApprovalStatus),
	}
}

// NewEquipmentRequestResponses maps a slice.
func NewEquipmentRequestResponses(reqs []domain.EquipmentRequest) []EquipmentRequestResponse {
	out := make([]EquipmentRequestResponse, 0, len(reqs))
	for i := range reqs {
		out = append(out, NewEquipmentRequestResponse(&reqs[i]))
	}
	return out
}

// CreateUserRequestRequest is the new-hire request payload.
type CreateUserRequestRequest struct {
	FirstName   string `json:"fname"`
	LastName    string `json:"lname"`
	JobTitle    string `json:"job_title"`
	Department  string `json:"department"`
	StartDate   string `json:"start_date"`
	Description string `json:"description"`
}

// UserRequestResponse is the new-hire request representation.
type UserRequestResponse struct {
	ID          string `json:"id"`
	FirstName   string `json:"fname"`
	LastName    string `json:"lname"`
	JobTitle    string `json:"job_title"`
	Department  string `json:"department"`
	StartDate   string `json:"start_date"`
	Description string `json:"description"`
	UserEmail   string `json:"user_email"`
	Timestamp   string `json:"timestamp"`
	Status      string `json:"status"`
}

// NewUserRequestResponse maps a new-hire request.
func NewUserRequestResponse(req *domain.UserRequest) UserRequestResponse {
	return UserRequestResponse{
		ID:          req.ID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		JobTitle:    req.JobTitle,
		Department:  req.Department,
		StartDate:   req.StartDate.Format(domain.DateOnly),
		Description: req.Description,
		UserEmail:   req.RequesterEmail,
		Timestamp:   req.CreatedAt.Format(time.RFC3339),
		Status:      string(req.Status),
	}
}

// NewUserRequestResponses maps a slice.
func NewUserRequestResponses(reqs []domain.UserRequest) []UserRequestResponse {
	out := make([]UserRequestResponse, 0, len(reqs))
	for i := range reqs {
		out = append(out, NewUserRequestResponse(&reqs[i]))
	}
	return out
}

// CreateStudentRequestRequest is the student onboarding payload.
type CreateStudentRequestRequest struct {
	FirstName   string `json:"fname"`
	LastName    string `json:"lname"`
	Grade       string `json:"grade"`
	Teacher     string `json:"teacher"`
	Description string `json:"description"`
}

// StudentRequestResponse is the student request representation with
// its provisioning flags.
type StudentRequestResponse struct {
	ID              string `json:"id"`
	FirstName       string `json:"fname"`
	LastName        string `json:"lname"`
	Grade           string `json:"grade"`
	Teacher         string `json:"teacher"`
	Description     string `json:"description"`
	UserEmail       string `json:"user_email"`
	Timestamp       string `json:"timestamp"`
	Status          string `json:"status"`
	EmailCreated    bool   `json:"email_created"`
	ComputerCreated bool   `json:"computer_created"`
	BagCreated      bool   `json:"bag_created"`
	IDCardCreated   bool   `json:"id_card_created"`
	AzureCreated    bool   `json:"azure_created"`
}

// NewStudentRequestResponse maps a student request.
func NewStudentRequestResponse(req *domain.StudentRequest) StudentRequestResponse {
	return StudentRequestResponse{
		ID:              req.ID,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Grade:           req.Grade,
		Teacher:         req.Teacher,
		Description:     req.Description,
		UserEmail:       req.RequesterEmail,
		Timestamp:       req.CreatedAt.Format(time.RFC3339),
		Status:          string(req.Status),
		EmailCreated:    req.EmailCreated,
		ComputerCreated: req.ComputerCreated,
		BagCreated:      req.BagCreated,
		IDCardCreated:   req.IDCardCreated,
		AzureCreated:    req.AzureCreated,
	}
}

// NewStudentRequestResponses maps a slice.
func NewStudentRequestResponses(reqs []domain.StudentRequest) []StudentRequestResponse {
	out := make([]StudentRequestResponse, 0, len(reqs))
	for i := range reqs {
		out = append(out, NewStudentRequestResponse(&reqs[i]))
	}
	return out
}
