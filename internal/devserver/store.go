package devserver

import (
	"encoding/json"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/sma-portal-client/internal/models"
	appErrors "github.com/noah-isme/sma-portal-client/pkg/errors"
)

type user struct {
	Username     string
	PasswordHash []byte
	Role         models.Role
	Email        string
}

type submissionRow struct {
	ID              int64
	AssignmentID    int64
	StudentUsername string
	FilePath        string
	Remarks         *string
}

// Store is the fake service's in-memory state.
type Store struct {
	mu sync.RWMutex

	users        map[string]*user
	attendance   map[string]models.Attendance
	marks        map[string]models.Marks
	assignments  []models.Assignment
	submissions  []submissionRow
	certificates []models.Certificate

	nextAssignment  int64
	nextSubmission  int64
	nextCertificate int64
	hashCost        int
	now             func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:      make(map[string]*user),
		attendance: make(map[string]models.Attendance),
		marks:      make(map[string]models.Marks),
		hashCost:   bcrypt.DefaultCost,
		now:        time.Now,
	}
}

// Seed adds the two demo accounts.
func (s *Store) Seed() error {
	if err := s.CreateUser("faculty1", "pass1", models.RoleFaculty, "faculty1@example.com"); err != nil {
		return err
	}
	return s.CreateUser("student1", "pass1", models.RoleStudent, "student1@example.com")
}

// CreateUser registers an account. Students get zeroed attendance.
func (s *Store) CreateUser(username, password string, role models.Role, email string) error {
	role = models.Role(strings.ToLower(string(role)))
	if !role.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "Invalid role")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[username]; exists {
		return appErrors.Clone(appErrors.ErrConflict, "Username already exists")
	}
	s.users[username] = &user{Username: username, PasswordHash: hash, Role: role, Email: email}
	if role == models.RoleStudent {
		if _, ok := s.attendance[username]; !ok {
			s.attendance[username] = models.Attendance{}
		}
	}
	return nil
}

// Authenticate checks credentials and the requested role.
func (s *Store) Authenticate(username, password string, role models.Role) (models.Role, error) {
	s.mu.RLock()
	u, ok := s.users[username]
	s.mu.RUnlock()
	if !ok {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "Invalid username")
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "Invalid password")
	}
	if !strings.EqualFold(string(u.Role), string(role)) {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "User is not a "+string(role))
	}
	return u.Role, nil
}

// Attendance returns zeroes for unknown students.
func (s *Store) Attendance(username string) models.Attendance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.attendance[username]
}

// SetAttendance replaces the counters wholesale.
func (s *Store) SetAttendance(username string, att models.Attendance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attendance[username] = att
}

// Marks returns a copy of a student's marks.
func (s *Store) Marks(username string) models.Marks {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(models.Marks, len(s.marks[username]))
	copy(out, s.marks[username])
	return out
}

// UpsertMark inserts or updates one subject entry.
func (s *Store) UpsertMark(username, subject string, mark int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value := models.SubjectMark{Subject: subject, Mark: jsonInt(mark)}
	marks := s.marks[username]
	for i := range marks {
		if marks[i].Subject == subject {
			marks[i] = value
			return
		}
	}
	s.marks[username] = append(marks, value)
}

// CreateAssignment stores an assignment and returns its id.
func (s *Store) CreateAssignment(name, details string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextAssignment++
	s.assignments = append(s.assignments, models.Assignment{ID: s.nextAssignment, Name: name, Details: details})
	return s.nextAssignment
}

// Assignments lists assignments in creation order.
func (s *Store) Assignments() []models.Assignment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Assignment, len(s.assignments))
	copy(out, s.assignments)
	return out
}

// AddSubmission records an uploaded file. Submissions against unknown assignments are
// kept but never listed.
func (s *Store) AddSubmission(assignmentID int64, username, filePath string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubmission++
	s.submissions = append(s.submissions, submissionRow{
		ID:              s.nextSubmission,
		AssignmentID:    assignmentID,
		StudentUsername: username,
		FilePath:        filePath,
	})
	return s.nextSubmission
}

// Submissions joins submissions with their assignment names.
func (s *Store) Submissions() []models.Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Submission, 0, len(s.submissions))
	for _, row := range s.submissions {
		a := s.assignmentByID(row.AssignmentID)
		if a == nil {
			continue
		}
		out = append(out, models.Submission{
			ID:              row.ID,
			AssignmentName:  a.Name,
			StudentUsername: row.StudentUsername,
			FilePath:        row.FilePath,
			Remarks:         row.Remarks,
		})
	}
	return out
}

// SetSubmissionRemarks updates remarks. Unknown ids are ignored.
func (s *Store) SetSubmissionRemarks(id int64, remarks string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.submissions {
		if s.submissions[i].ID == id {
			r := remarks
			s.submissions[i].Remarks = &r
		}
	}
}

// AddCertificate records a pending certificate.
func (s *Store) AddCertificate(username, filePath string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextCertificate++
	s.certificates = append(s.certificates, models.Certificate{
		ID:              s.nextCertificate,
		StudentUsername: username,
		FilePath:        filePath,
		Status:          models.CertificatePending,
		UploadedAt:      s.now().UTC().Format(time.RFC3339),
	})
	return s.nextCertificate
}

// Certificates filters by student (empty = all) and status (empty = any).
func (s *Store) Certificates(username string, status models.CertificateStatus) []models.Certificate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Certificate, 0)
	for _, row := range s.certificates {
		if username != "" && row.StudentUsername != username {
			continue
		}
		if status != "" && row.Status != status {
			continue
		}
		out = append(out, row)
	}
	return out
}

// SetCertificateStatus changes status and remarks.
func (s *Store) SetCertificateStatus(id int64, status models.CertificateStatus, remarks string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.certificates {
		if s.certificates[i].ID == id {
			r := remarks
			s.certificates[i].Status = status
			s.certificates[i].Remarks = &r
		}
	}
}

func (s *Store) assignmentByID(id int64) *models.Assignment {
	for i := range s.assignments {
		if s.assignments[i].ID == id {
			return &s.assignments[i]
		}
	}
	return nil
}

func jsonInt(v int) json.Number {
	return json.Number(strconv.Itoa(v))
}
