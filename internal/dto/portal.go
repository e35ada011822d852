package dto

import (
	"io"

	"github.com/noah-isme/sma-portal-client/internal/models"
)

// LoginRequest is the POST /login body.
type LoginRequest struct {
	Username string      `json:"username" binding:"required"`
	Password string      `json:"password" binding:"required"`
	Role     models.Role `json:"role" binding:"required"`
}

// LoginResponse carries the role the service authenticated the user as.
type LoginResponse struct {
	Success bool        `json:"success"`
	Role    models.Role `json:"role"`
	Message string      `json:"message,omitempty"`
}

// CreateAccountRequest is the POST /create_account body. ConfirmPassword never leaves the client.
type CreateAccountRequest struct {
	Username        string      `json:"username" binding:"required"`
	Password        string      `json:"password" binding:"required"`
	ConfirmPassword string      `json:"-" validate:"eqfield=Password"`
	Role            models.Role `json:"role" binding:"required"`
	Email           string      `json:"email" binding:"required"`
}

// MessageResponse is the generic {success, message} acknowledgement.
type MessageResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	FilePath string `json:"file_path,omitempty"`
}

// AttendanceUpdateRequest replaces a student's attendance counters.
type AttendanceUpdateRequest struct {
	TotalDays    *int `json:"totalDays" binding:"required"`
	AttendedDays *int `json:"attendedDays" binding:"required"`
}

// AttendanceForm is the faculty attendance form as typed. Attended may exceed total.
type AttendanceForm struct {
	Student  string `validate:"required"`
	Total    string `validate:"required,integer"`
	Attended string `validate:"required,integer"`
}

// MarksRequest upserts a single subject mark.
type MarksRequest struct {
	StudentUsername string `json:"student_username" binding:"required"`
	Subject         string `json:"subject" binding:"required"`
	Marks           *int   `json:"marks" binding:"required"`
}

// MarksForm is the faculty marks form as typed.
type MarksForm struct {
	Student string `validate:"required"`
	Subject string `validate:"required"`
	Value   string `validate:"required,integer"`
}

// CertificateQuery filters GET /certificates.
type CertificateQuery struct {
	Role     models.Role
	Username string
	Status   models.CertificateStatus
}

// CertificateStatusRequest is the PUT /certificates/{id}/status body.
type CertificateStatusRequest struct {
	Status  models.CertificateStatus `json:"status" binding:"required"`
	Remarks string                   `json:"remarks"`
}

// AssignmentRequest publishes a new assignment.
type AssignmentRequest struct {
	Name    string `json:"name" binding:"required" validate:"required"`
	Details string `json:"details" binding:"required" validate:"required"`
}

// RemarksRequest sets remarks on a submission.
type RemarksRequest struct {
	Remarks string `json:"remarks" binding:"required"`
}

// Upload is one file of a multipart request.
type Upload struct {
	Filename string
	Content  io.Reader
}
