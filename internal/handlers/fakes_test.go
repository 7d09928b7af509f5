package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/internship-tracker/internal/models"
	"github.com/SAP-F-2025/internship-tracker/internal/services"
	"github.com/SAP-F-2025/internship-tracker/internal/session"
	"github.com/SAP-F-2025/internship-tracker/internal/utils"
)

func testLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type fakeUser struct {
	user     models.User
	password string
}

// fakeAuth checks plain-text passwords and keeps real sessions.
type fakeAuth struct {
	users    map[string]fakeUser
	sessions *session.Manager
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (*session.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, services.ErrValidationFailed
	}
	u, ok := f.users[email]
	if !ok || u.password != password {
		return nil, services.ErrInvalidCredentials
	}
	sess, err := f.sessions.Create(ctx, &u.user)
	if errors.Is(err, session.ErrNoPortal) {
		return nil, services.ErrForbidden
	}
	return sess, err
}

func (f *fakeAuth) Logout(ctx context.Context, id string) error {
	return f.sessions.Destroy(ctx, id)
}

func (f *fakeAuth) Authenticate(ctx context.Context, id string) (*session.Session, error) {
	sess, err := f.sessions.Get(ctx, id)
	if err != nil {
		return nil, services.ErrUnauthorized
	}
	return sess, nil
}

type transitionCall struct {
	studentID uint
	jobID     uint
	status    models.ApplicationStatus
}

type fakeStudent struct {
	jobs        []models.AvailableJob
	upcoming    []models.UpcomingDeadline
	transitions []transitionCall
	notes       []string
	historyJob  *models.JobPosting
	err         error
}

func (f *fakeStudent) ListAvailableJobs(ctx context.Context, studentID uint) ([]models.AvailableJob, error) {
	return f.jobs, f.err
}

func (f *fakeStudent) ListUpcomingDeadlines(ctx context.Context, studentID uint) ([]models.UpcomingDeadline, error) {
	return f.upcoming, f.err
}

func (f *fakeStudent) GetStudentStats(ctx context.Context, studentID uint) (*models.StudentStats, error) {
	return &models.StudentStats{TotalJobs: int64(len(f.jobs))}, f.err
}

func (f *fakeStudent) GetDashboard(ctx context.Context, studentID uint) (*services.StudentDashboard, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &services.StudentDashboard{
		Today:    time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC),
		Stats:    &models.StudentStats{TotalJobs: int64(len(f.jobs))},
		Jobs:     f.jobs,
		Upcoming: f.upcoming,
	}, nil
}

func (f *fakeStudent) record(studentID, jobID uint, status models.ApplicationStatus) (*models.Application, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.transitions = append(f.transitions, transitionCall{studentID: studentID, jobID: jobID, status: status})
	return &models.Application{ID: 1, StudentID: studentID, JobID: jobID, Status: status}, nil
}

func (f *fakeStudent) Apply(ctx context.Context, studentID, jobID uint) (*models.Application, error) {
	return f.record(studentID, jobID, models.ApplicationApplied)
}

func (f *fakeStudent) Ignore(ctx context.Context, studentID, jobID uint) (*models.Application, error) {
	return f.record(studentID, jobID, models.ApplicationIgnored)
}

func (f *fakeStudent) MarkDone(ctx context.Context, studentID, jobID uint) (*models.Application, error) {
	return f.record(studentID, jobID, models.ApplicationDone)
}

func (f *fakeStudent) SaveForLater(ctx context.Context, studentID, jobID uint) (*models.Application, error) {
	return f.record(studentID, jobID, models.ApplicationToApply)
}

func (f *fakeStudent) AddNote(ctx context.Context, applicationID, studentID uint, text string) (*models.Note, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.notes = append(f.notes, text)
	return &models.Note{ID: uint(len(f.notes)), ApplicationID: applicationID, StudentID: studentID, NoteText: text}, nil
}

func (f *fakeStudent) ListNotes(ctx context.Context, applicationID, studentID uint) (*services.ApplicationNotes, error) {
	if f.err != nil {
		return nil, f.err
	}
	history := &services.ApplicationNotes{
		Application: &models.Application{ID: applicationID, StudentID: studentID, JobID: 5, Status: models.ApplicationApplied},
		Job:         f.historyJob,
	}
	for i := len(f.notes) - 1; i >= 0; i-- {
		history.Notes = append(history.Notes, models.Note{
			ID:            uint(i + 1),
			ApplicationID: applicationID,
			StudentID:     studentID,
			NoteText:      f.notes[i],
			CreatedAt:     time.Date(2026, 10, 18, 9, i, 0, 0, time.UTC),
		})
	}
	return history, nil
}

type fakeJobs struct {
	jobs      []models.JobPostingSummary
	job       *models.JobPosting
	created   []services.JobPostingRequest
	deleted   []uint
	createErr error
	getErr    error
}

func (f *fakeJobs) ListAllJobs(ctx context.Context) ([]models.JobPostingSummary, error) {
	return f.jobs, nil
}

func (f *fakeJobs) GetJob(ctx context.Context, jobID uint) (*models.JobPosting, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.job, nil
}

func (f *fakeJobs) CreateJob(ctx context.Context, req *services.JobPostingRequest, postedBy uint) (*models.JobPosting, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, *req)
	return &models.JobPosting{ID: 10, CompanyName: req.CompanyName, Role: req.Role, PostedBy: postedBy}, nil
}

func (f *fakeJobs) UpdateJob(ctx context.Context, jobID uint, req *services.JobPostingRequest, actorID uint) (*models.JobPosting, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &models.JobPosting{ID: jobID, CompanyName: req.CompanyName, Role: req.Role}, nil
}

func (f *fakeJobs) DeleteJob(ctx context.Context, jobID uint, actorID uint) error {
	f.deleted = append(f.deleted, jobID)
	return nil
}

type fakeAnalytics struct {
	report *models.AnalyticsReport
	err    error
}

func (f *fakeAnalytics) GetAnalytics(ctx context.Context) (*models.AnalyticsReport, error) {
	return f.report, f.err
}

func (f *fakeAnalytics) ExportXLSX(ctx context.Context, w io.Writer) error {
	if f.err != nil {
		return f.err
	}
	_, err := w.Write([]byte("PK-workbook"))
	return err
}

type fakeServiceManager struct {
	auth      *fakeAuth
	student   *fakeStudent
	jobs      *fakeJobs
	analytics *fakeAnalytics
	healthErr error
}

func (m *fakeServiceManager) Auth() services.AuthService           { return m.auth }
func (m *fakeServiceManager) Student() services.StudentService     { return m.student }
func (m *fakeServiceManager) Job() services.JobService             { return m.jobs }
func (m *fakeServiceManager) Analytics() services.AnalyticsService { return m.analytics }

func (m *fakeServiceManager) Initialize(ctx context.Context) error  { return nil }
func (m *fakeServiceManager) HealthCheck(ctx context.Context) error { return m.healthErr }
func (m *fakeServiceManager) Shutdown(ctx context.Context) error    { return nil }

type testServer struct {
	router *gin.Engine
	sm     *fakeServiceManager
	checks map[string]HealthCheck
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	manager := session.NewManager(session.NewMemoryStore(0), time.Hour, nil)
	sm := &fakeServiceManager{
		auth: &fakeAuth{
			sessions: manager,
			users: map[string]fakeUser{
				"asha@college.edu":    {user: models.User{ID: 1, Name: "Asha Sharma", Email: "asha@college.edu", Role: models.RoleStudent}, password: "STUDENT1"},
				"mehta@college.edu":   {user: models.User{ID: 2, Name: "Prof. Mehta", Email: "mehta@college.edu", Role: models.RoleFaculty}, password: "FACULTY123"},
				"admin@college.edu":   {user: models.User{ID: 3, Name: "Placement Admin", Email: "admin@college.edu", Role: models.RoleAdmin}, password: "ADMIN123"},
				"visitor@college.edu": {user: models.User{ID: 4, Name: "Visitor", Email: "visitor@college.edu", Role: models.UserRole("guest")}, password: "VISITOR1"},
			},
		},
		student:   &fakeStudent{},
		jobs:      &fakeJobs{},
		analytics: &fakeAnalytics{report: &models.AnalyticsReport{}},
	}

	ts := &testServer{sm: sm, checks: map[string]HealthCheck{}}
	logger := testLogger()
	router := gin.New()
	SetupMiddleware(router, logger)

	hm := NewHandlerManager(sm, manager, CookieConfig{}, logger, ts.checks)
	if err := hm.SetupRoutes(router); err != nil {
		t.Fatalf("SetupRoutes() error = %v", err)
	}
	ts.router = router
	return ts
}

func (ts *testServer) do(method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

// login posts the login form and returns the session cookie.
func (ts *testServer) login(t *testing.T, email, password string) *http.Cookie {
	t.Helper()

	rec := ts.do(http.MethodPost, "/login", url.Values{"email": {email}, "password": {password}}, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("POST /login status = %d, want 303; body = %s", rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "internship_session" && c.Value != "" {
			return c
		}
	}
	t.Fatal("POST /login did not set a session cookie")
	return nil
}
