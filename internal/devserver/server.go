package devserver

import (
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-portal-client/api/swagger"
	"github.com/noah-isme/sma-portal-client/internal/dto"
	"github.com/noah-isme/sma-portal-client/internal/models"
	appErrors "github.com/noah-isme/sma-portal-client/pkg/errors"
	"github.com/noah-isme/sma-portal-client/pkg/logger"
	"github.com/noah-isme/sma-portal-client/pkg/metrics"
	"github.com/noah-isme/sma-portal-client/pkg/middleware/cors"
	"github.com/noah-isme/sma-portal-client/pkg/middleware/requestid"
	"github.com/noah-isme/sma-portal-client/pkg/response"
	"github.com/noah-isme/sma-portal-client/pkg/storage"
)

// Options configures the fake portal service.
type Options struct {
	Store            *Store
	Uploads          *storage.LocalStorage
	AllowedFileTypes []string
	AllowedOrigins   []string
	Recorder         *metrics.Recorder
	Logger           *zap.Logger
	// Docs mounts the Swagger UI under /docs.
	Docs bool
}

// Server implements the portal service endpoints in memory.
type Server struct {
	store   *Store
	uploads *storage.LocalStorage
	allowed map[string]struct{}
	logger  *zap.Logger
	now     func() time.Time
}

// NewServer constructs the handler set.
func NewServer(store *Store, uploads *storage.LocalStorage, allowedFileTypes []string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	allowed := make(map[string]struct{}, len(allowedFileTypes))
	for _, ext := range allowedFileTypes {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	return &Server{store: store, uploads: uploads, allowed: allowed, logger: logger, now: time.Now}
}

// NewRouter builds the gin engine with middleware and routes.
func NewRouter(opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	srv := NewServer(opts.Store, opts.Uploads, opts.AllowedFileTypes, log)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(cors.New(opts.AllowedOrigins))
	r.Use(Metrics(opts.Recorder))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(opts.Recorder.Handler()))
	if opts.Docs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.POST("/create_account", srv.CreateAccount)
	r.POST("/login", srv.Login)

	r.POST("/assignments", srv.CreateAssignment)
	r.GET("/assignments", srv.ListAssignments)
	r.POST("/submit_assignment/:id", srv.SubmitAssignment)
	r.GET("/submissions", srv.ListSubmissions)
	r.PUT("/submission_remarks/:id", srv.UpdateSubmissionRemarks)

	r.GET("/student/:username/marks", srv.StudentMarks)
	r.POST("/marks", srv.UpsertMarks)
	r.GET("/student/:username/attendance", srv.StudentAttendance)
	r.PUT("/student/:username/attendance", srv.UpdateAttendance)

	r.POST("/upload_certificate", srv.UploadCertificate)
	r.GET("/certificates", srv.ListCertificates)
	r.PUT("/certificates/:id/status", srv.UpdateCertificateStatus)

	r.GET("/uploads/*filename", srv.Download)
	return r
}

// CreateAccount registers a user.
func (s *Server) CreateAccount(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Missing fields"))
		return
	}
	if err := s.store.CreateUser(req.Username, req.Password, req.Role, req.Email); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusCreated, "Account created successfully")
}

// Login checks credentials and echoes the stored role.
func (s *Server) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Missing fields"))
		return
	}
	role, err := s.store.Authenticate(req.Username, req.Password, req.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.LoginResponse{Success: true, Role: role})
}

// CreateAssignment publishes an assignment.
func (s *Server) CreateAssignment(c *gin.Context) {
	var req dto.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Missing assignment details"))
		return
	}
	s.store.CreateAssignment(req.Name, req.Details)
	response.Message(c, http.StatusCreated, "Assignment created")
}

// ListAssignments returns every assignment.
func (s *Server) ListAssignments(c *gin.Context) {
	response.JSON(c, http.StatusOK, s.store.Assignments())
}

// SubmitAssignment stores a student's file for an assignment.
func (s *Server) SubmitAssignment(c *gin.Context) {
	assignmentID, ok := pathID(c)
	if !ok {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "No file part"))
		return
	}
	username := c.PostForm("student_username")
	if username == "" || file.Filename == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "No selected file or student username"))
		return
	}

	stored, err := s.save(fmt.Sprintf("%s_%d_%s", username, assignmentID, file.Filename), c)
	if err != nil {
		response.Error(c, err)
		return
	}
	s.store.AddSubmission(assignmentID, username, stored)
	response.JSON(c, http.StatusOK, dto.MessageResponse{Success: true, Message: "File uploaded successfully", FilePath: stored})
}

// ListSubmissions returns submissions joined with assignment names.
func (s *Server) ListSubmissions(c *gin.Context) {
	response.JSON(c, http.StatusOK, s.store.Submissions())
}

// UpdateSubmissionRemarks sets faculty remarks on a submission.
func (s *Server) UpdateSubmissionRemarks(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.RemarksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Missing remarks"))
		return
	}
	s.store.SetSubmissionRemarks(id, req.Remarks)
	response.Message(c, http.StatusOK, "Remarks updated successfully")
}

// StudentMarks returns {"subject": mark} for a student.
func (s *Server) StudentMarks(c *gin.Context) {
	response.JSON(c, http.StatusOK, s.store.Marks(c.Param("username")))
}

// UpsertMarks inserts or updates one subject mark.
func (s *Server) UpsertMarks(c *gin.Context) {
	var req dto.MarksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Missing fields"))
		return
	}
	s.store.UpsertMark(req.StudentUsername, req.Subject, *req.Marks)
	response.Message(c, http.StatusOK, "Marks saved")
}

// StudentAttendance returns the counters, zero for unknown students.
func (s *Server) StudentAttendance(c *gin.Context) {
	response.JSON(c, http.StatusOK, s.store.Attendance(c.Param("username")))
}

// UpdateAttendance replaces a student's counters.
func (s *Server) UpdateAttendance(c *gin.Context) {
	var req dto.AttendanceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Missing fields"))
		return
	}
	s.store.SetAttendance(c.Param("username"), models.Attendance{TotalDays: *req.TotalDays, AttendedDays: *req.AttendedDays})
	response.Message(c, http.StatusOK, "Attendance updated")
}

// UploadCertificate stores a pending certificate.
func (s *Server) UploadCertificate(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "No file part"))
		return
	}
	username := c.PostForm("student_username")
	if username == "" || file.Filename == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "Missing student username or file"))
		return
	}
	if !s.allowedFile(file.Filename) {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "File type not allowed"))
		return
	}

	stored, err := s.save(fmt.Sprintf("%s_cert_%d_%s", username, s.now().UTC().Unix(), file.Filename), c)
	if err != nil {
		response.Error(c, err)
		return
	}
	s.store.AddCertificate(username, stored)
	response.JSON(c, http.StatusCreated, dto.MessageResponse{Success: true, Message: "Certificate uploaded", FilePath: stored})
}

// ListCertificates serves the student and faculty views.
func (s *Server) ListCertificates(c *gin.Context) {
	role := c.Query("role")
	username := c.Query("username")
	status := models.CertificateStatus(c.Query("status"))

	switch {
	case role == string(models.RoleStudent) && username != "":
		certs := s.store.Certificates(username, status)
		for i := range certs {
			certs[i].StudentUsername = ""
		}
		response.JSON(c, http.StatusOK, certs)
	case role == string(models.RoleFaculty):
		response.JSON(c, http.StatusOK, s.store.Certificates("", status))
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "Invalid query parameters"))
	}
}

// UpdateCertificateStatus approves, rejects or resets a certificate.
func (s *Server) UpdateCertificateStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.CertificateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Status.Valid() {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "Invalid status"))
		return
	}
	s.store.SetCertificateStatus(id, req.Status, req.Remarks)
	response.Message(c, http.StatusOK, "Certificate status updated")
}

// Download serves a stored upload as an attachment.
func (s *Server) Download(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("filename"), "/")
	file, err := s.uploads.Open(name)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	defer file.Close() //nolint:errcheck
	info, err := file.Stat()
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", storage.SecureFilename(name)))
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), file)
}

func (s *Server) allowedFile(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ext == "" {
		return false
	}
	_, ok := s.allowed[ext]
	return ok
}

func (s *Server) save(filename string, c *gin.Context) (string, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return "", appErrors.Clone(appErrors.ErrValidation, "No file part")
	}
	src, err := header.Open()
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload")
	}
	defer src.Close() //nolint:errcheck

	stored, err := s.uploads.SaveStream(filename, src)
	if err != nil {
		s.logger.Error("store upload", zap.String("filename", filename), zap.Error(err))
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store upload")
	}
	return stored, nil
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusNotFound)
		return 0, false
	}
	return id, true
}
