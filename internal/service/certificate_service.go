package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-portal-client/internal/dto"
	"github.com/noah-isme/sma-portal-client/internal/models"
	"github.com/noah-isme/sma-portal-client/internal/view"
	appErrors "github.com/noah-isme/sma-portal-client/pkg/errors"
)

// Element ids owned by the certificates feature.
const (
	StudentCertificatesListID = "studentCertificatesList"
	FacultyCertificatesListID = "facultyCertificatesList"
	CertificateFileInputID    = "certificateFileInput"
)

type certificateGateway interface {
	Certificates(ctx context.Context, query dto.CertificateQuery) ([]models.Certificate, error)
	UploadCertificate(ctx context.Context, username string, upload dto.Upload) (*dto.MessageResponse, error)
	UpdateCertificateStatus(ctx context.Context, id int64, req dto.CertificateStatusRequest) (*dto.MessageResponse, error)
}

// CertificateService handles non-academic certificates: the student's uploads and the
// faculty review queue.
type CertificateService struct {
	renderer
	gateway certificateGateway
}

// NewCertificateService constructs a CertificateService.
func NewCertificateService(gateway certificateGateway, deps Deps) *CertificateService {
	return &CertificateService{renderer: newRenderer(deps), gateway: gateway}
}

// LoadStudentCertificates lists the signed-in student's certificates with their review
// status. Students get no review controls.
func (s *CertificateService) LoadStudentCertificates(ctx context.Context) error {
	if !s.target.Exists(StudentCertificatesListID) {
		return nil
	}
	current, gen, err := s.begin()
	if err != nil {
		return err
	}
	s.target.SetText(StudentCertificatesListID, "Loading...")

	certs, err := s.gateway.Certificates(ctx, dto.CertificateQuery{Role: models.RoleStudent, Username: current.Username})
	if s.stale(gen, StudentCertificatesListID) {
		return err
	}
	if err != nil {
		s.logFailure("student certificates", err)
		s.target.Replace(StudentCertificatesListID, emphasis("Error loading certificates."))
		return err
	}
	if len(certs) == 0 {
		s.target.Replace(StudentCertificatesListID, emphasis("No certificates uploaded."))
		return nil
	}
	nodes := make([]view.Node, 0, len(certs))
	for _, c := range certs {
		nodes = append(nodes, studentCertificateNode(c))
	}
	s.target.Replace(StudentCertificatesListID, nodes...)
	return nil
}

// LoadPendingCertificates lists certificates awaiting review, each with a remarks box and
// approve/reject controls bound to its id.
func (s *CertificateService) LoadPendingCertificates(ctx context.Context) error {
	if !s.target.Exists(FacultyCertificatesListID) {
		return nil
	}
	_, gen, err := s.begin()
	if err != nil {
		return err
	}
	s.target.SetText(FacultyCertificatesListID, "Loading...")

	certs, err := s.gateway.Certificates(ctx, dto.CertificateQuery{Role: models.RoleFaculty, Status: models.CertificatePending})
	if s.stale(gen, FacultyCertificatesListID) {
		return err
	}
	if err != nil {
		s.logFailure("pending certificates", err)
		s.actions.ReplaceScope(FacultyCertificatesListID, nil)
		s.target.Replace(FacultyCertificatesListID, emphasis("Error loading pending certificates."))
		return err
	}
	if len(certs) == 0 {
		s.actions.ReplaceScope(FacultyCertificatesListID, nil)
		s.target.Replace(FacultyCertificatesListID, emphasis("No pending certificates."))
		return nil
	}

	nodes := make([]view.Node, 0, len(certs))
	handlers := make(map[string]view.Action, 2*len(certs))
	for _, c := range certs {
		nodes = append(nodes, pendingCertificateNode(c))
		for _, status := range []models.CertificateStatus{models.CertificateApproved, models.CertificateRejected} {
			handlers[itemKey("certificate", c.ID, string(status))] = certificateStatusAction{svc: s, id: c.ID, status: status}
		}
	}
	s.actions.ReplaceScope(FacultyCertificatesListID, handlers)
	s.target.Replace(FacultyCertificatesListID, nodes...)
	return nil
}

// Upload sends the file chosen in the certificate picker for review.
func (s *CertificateService) Upload(ctx context.Context) error {
	file, ok := s.target.SelectedFile(CertificateFileInputID)
	if !ok {
		s.alert("Please select a file first.")
		return appErrors.Clone(appErrors.ErrValidation, "no certificate file selected")
	}
	current, _, err := s.begin()
	if err != nil {
		return err
	}

	content, err := file.Open()
	if err != nil {
		s.logger.Error("open certificate file", zap.String("file", file.Name()), zap.Error(err))
		s.alert("Upload error.")
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "open certificate file")
	}
	defer content.Close() //nolint:errcheck

	_, err = s.gateway.UploadCertificate(ctx, current.Username, dto.Upload{Filename: file.Name(), Content: content})
	if err != nil {
		s.logFailure("upload certificate", err)
		s.alert(failureMessage(err, "Upload failed.", "Upload error."))
		return err
	}
	s.alert("Certificate uploaded (status: pending).")
	s.target.ClearFile(CertificateFileInputID)
	return s.LoadStudentCertificates(ctx)
}

// ChangeStatus records a review decision with the remarks typed for that certificate,
// then refreshes the pending queue.
func (s *CertificateService) ChangeStatus(ctx context.Context, id int64, status models.CertificateStatus) error {
	remarks := s.target.Value(view.ItemID(certRemarkPrefix, id))

	_, err := s.gateway.UpdateCertificateStatus(ctx, id, dto.CertificateStatusRequest{Status: status, Remarks: remarks})
	if err != nil {
		s.logFailure("certificate status", err)
		s.alert(failureMessage(err, "Update failed.", "Error updating certificate."))
		return err
	}
	s.alert("Updated.")
	return s.LoadPendingCertificates(ctx)
}

type certificateStatusAction struct {
	svc    *CertificateService
	id     int64
	status models.CertificateStatus
}

func (a certificateStatusAction) Invoke(ctx context.Context) error {
	return a.svc.ChangeStatus(ctx, a.id, a.status)
}
