package models

// CertificateStatus tracks the faculty review of a certificate.
type CertificateStatus string

const (
	CertificatePending  CertificateStatus = "pending"
	CertificateApproved CertificateStatus = "approved"
	CertificateRejected CertificateStatus = "rejected"
)

// Valid returns true when the status is a supported value.
func (s CertificateStatus) Valid() bool {
	switch s {
	case CertificatePending, CertificateApproved, CertificateRejected:
		return true
	default:
		return false
	}
}

// Certificate is a non-academic upload awaiting or past review.
type Certificate struct {
	ID              int64             `json:"id"`
	StudentUsername string            `json:"student_username,omitempty"`
	FilePath        string            `json:"file_path"`
	Status          CertificateStatus `json:"status"`
	Remarks         *string           `json:"remarks"`
	UploadedAt      string            `json:"uploaded_at,omitempty"`
}
