package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-portal-client/internal/dto"
	"github.com/noah-isme/sma-portal-client/internal/models"
	appErrors "github.com/noah-isme/sma-portal-client/pkg/errors"
	"github.com/noah-isme/sma-portal-client/pkg/metrics"
	"github.com/noah-isme/sma-portal-client/pkg/middleware/requestid"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 8 << 20

type requestObserver interface {
	ObserveHTTPRequest(method, path string, status int, duration time.Duration)
}

// Client talks to the portal service. Every method makes exactly one request: no retries,
// no timeout beyond the http.Client's own, no de-duplication of concurrent calls.
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	logger   *zap.Logger
	observer requestObserver
}

// New constructs a Client. A nil httpClient uses http.DefaultClient.
func New(baseURL string, httpClient *http.Client, logger *zap.Logger, recorder *metrics.Recorder) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse portal base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("portal base url %q must be absolute", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{baseURL: parsed, http: httpClient, logger: logger}
	if recorder != nil {
		c.observer = recorder
	}
	return c, nil
}

// Login posts credentials.
func (c *Client) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/login", "/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAccount registers a new user.
func (c *Client) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*dto.MessageResponse, error) {
	var out dto.MessageResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/create_account", "/create_account", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Attendance fetches a student's attendance counters.
func (c *Client) Attendance(ctx context.Context, username string) (*models.Attendance, error) {
	var out models.Attendance
	path := "/student/" + url.PathEscape(username) + "/attendance"
	if err := c.sendJSON(ctx, http.MethodGet, path, "/student/:username/attendance", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAttendance replaces a student's attendance counters.
func (c *Client) UpdateAttendance(ctx context.Context, username string, req dto.AttendanceUpdateRequest) (*dto.MessageResponse, error) {
	var out dto.MessageResponse
	path := "/student/" + url.PathEscape(username) + "/attendance"
	if err := c.sendJSON(ctx, http.MethodPut, path, "/student/:username/attendance", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Marks fetches a student's subject marks.
func (c *Client) Marks(ctx context.Context, username string) (models.Marks, error) {
	var out models.Marks
	path := "/student/" + url.PathEscape(username) + "/marks"
	if err := c.sendJSON(ctx, http.MethodGet, path, "/student/:username/marks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertMarks stores one subject mark.
func (c *Client) UpsertMarks(ctx context.Context, req dto.MarksRequest) (*dto.MessageResponse, error) {
	var out dto.MessageResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/marks", "/marks", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Certificates lists certificates matching the query.
func (c *Client) Certificates(ctx context.Context, query dto.CertificateQuery) ([]models.Certificate, error) {
	params := url.Values{}
	if query.Role != "" {
		params.Set("role", string(query.Role))
	}
	if query.Username != "" {
		params.Set("username", query.Username)
	}
	if query.Status != "" {
		params.Set("status", string(query.Status))
	}
	path := "/certificates"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var out []models.Certificate
	if err := c.sendJSON(ctx, http.MethodGet, path, "/certificates", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadCertificate sends a certificate file for review.
func (c *Client) UploadCertificate(ctx context.Context, username string, upload dto.Upload) (*dto.MessageResponse, error) {
	var out dto.MessageResponse
	if err := c.sendMultipart(ctx, "/upload_certificate", "/upload_certificate", username, upload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCertificateStatus approves or rejects a certificate.
func (c *Client) UpdateCertificateStatus(ctx context.Context, id int64, req dto.CertificateStatusRequest) (*dto.MessageResponse, error) {
	var out dto.MessageResponse
	path := "/certificates/" + strconv.FormatInt(id, 10) + "/status"
	if err := c.sendJSON(ctx, http.MethodPut, path, "/certificates/:id/status", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Assignments lists published assignments.
func (c *Client) Assignments(ctx context.Context) ([]models.Assignment, error) {
	var out []models.Assignment
	if err := c.sendJSON(ctx, http.MethodGet, "/assignments", "/assignments", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAssignment publishes an assignment.
func (c *Client) CreateAssignment(ctx context.Context, req dto.AssignmentRequest) (*dto.MessageResponse, error) {
	var out dto.MessageResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/assignments", "/assignments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Submissions lists every assignment submission.
func (c *Client) Submissions(ctx context.Context) ([]models.Submission, error) {
	var out []models.Submission
	if err := c.sendJSON(ctx, http.MethodGet, "/submissions", "/submissions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitAssignment uploads a student's file against an assignment.
func (c *Client) SubmitAssignment(ctx context.Context, assignmentID int64, username string, upload dto.Upload) (*dto.MessageResponse, error) {
	var out dto.MessageResponse
	path := "/submit_assignment/" + strconv.FormatInt(assignmentID, 10)
	if err := c.sendMultipart(ctx, path, "/submit_assignment/:id", username, upload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSubmissionRemarks sets faculty remarks on a submission.
func (c *Client) UpdateSubmissionRemarks(ctx context.Context, id int64, req dto.RemarksRequest) (*dto.MessageResponse, error) {
	var out dto.MessageResponse
	path := "/submission_remarks/" + strconv.FormatInt(id, 10)
	if err := c.sendJSON(ctx, http.MethodPut, path, "/submission_remarks/:id", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) sendJSON(ctx context.Context, method, path, route string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode request")
		}
		reader = bytes.NewReader(payload)
	}
	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, route, out)
}

func (c *Client) sendMultipart(ctx context.Context, path, route, username string, upload dto.Upload, out interface{}) error {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile("file", upload.Filename)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build upload")
	}
	if upload.Content != nil {
		if _, err := io.Copy(part, upload.Content); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "read upload")
		}
	}
	if err := writer.WriteField("student_username", username); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build upload")
	}
	if err := writer.Close(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build upload")
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.do(req, route, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestid.HeaderKey, requestid.NewID())
	return req, nil
}

// do sends the request and classifies the outcome: 2xx decodes into out, any other status
// becomes an application error carrying the body's message, and network or decode
// failures become transport errors.
func (c *Client) do(req *http.Request, route string, out interface{}) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(req.Method, route, 0, time.Since(start))
		c.logger.Error("portal request failed",
			zap.String("method", req.Method),
			zap.String("route", route),
			zap.String("request_id", req.Header.Get(requestid.HeaderKey)),
			zap.Error(err))
		return appErrors.Transport(err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.observe(req.Method, route, resp.StatusCode, time.Since(start))
	if err != nil {
		c.logger.Error("read portal response", zap.String("route", route), zap.Error(err))
		return appErrors.Transport(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := failureMessage(body)
		c.logger.Debug("portal request rejected",
			zap.String("method", req.Method),
			zap.String("route", route),
			zap.Int("status", resp.StatusCode),
			zap.String("message", message))
		return appErrors.Application(resp.StatusCode, message)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.logger.Error("decode portal response",
			zap.String("method", req.Method),
			zap.String("route", route),
			zap.Int("status", resp.StatusCode),
			zap.Error(err))
		return appErrors.Transport(fmt.Errorf("decode %s response: %w", route, err))
	}
	return nil
}

func (c *Client) observe(method, route string, status int, duration time.Duration) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveHTTPRequest(method, route, status, duration)
}

// failureMessage extracts {"message": "..."} and tolerates any other body.
func failureMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}
