package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/datatypes"

	"github.com/SAP-F-2025/internship-tracker/internal/models"
	"github.com/SAP-F-2025/internship-tracker/internal/repositories"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testNow is 2026-10-18 10:00 UTC; testToday is its calendar date.
var (
	testNow   = time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	testToday = time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{t: testNow} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func day(offset int) datatypes.Date {
	return datatypes.Date(testToday.AddDate(0, 0, offset))
}

type appKey struct {
	studentID uint
	jobID     uint
}

// fakeStore is an in-memory Repository. Transactions are serialized, which
// stands in for the row lock taken by GetForUpdate.
type fakeStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	users   map[string]*models.User
	jobs    map[uint]*models.JobPosting
	deleted map[uint]bool
	apps    map[appKey]*models.Application
	folders map[string]*models.NoteFolder
	notes   []models.Note

	nextJobID, nextAppID, nextFolderID, nextNoteID uint

	jobWrites    int
	lastFilter   repositories.AvailabilityFilter
	beforeInsert func()
	pingErr      error

	byCompany     []models.CompanyApplications
	byStatus      []models.StatusCount
	afterByStatus func()
	timeline      []models.MonthlyApplications
	analyticsErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   make(map[string]*models.User),
		jobs:    make(map[uint]*models.JobPosting),
		deleted: make(map[uint]bool),
		apps:    make(map[appKey]*models.Application),
		folders: make(map[string]*models.NoteFolder),
	}
}

func (s *fakeStore) addJob(company string, deadlineOffset int) *models.JobPosting {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextJobID++
	job := &models.JobPosting{
		ID:            s.nextJobID,
		CompanyName:   company,
		Role:          "Intern",
		Description:   "Internship",
		DeadlineDate:  day(deadlineOffset),
		OADate:        day(deadlineOffset + 2),
		InterviewDate: day(deadlineOffset + 5),
		PostedBy:      1,
	}
	s.jobs[job.ID] = job
	return job
}

func (s *fakeStore) putApp(studentID, jobID uint, status models.ApplicationStatus) *models.Application {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextAppID++
	app := &models.Application{ID: s.nextAppID, StudentID: studentID, JobID: jobID, Status: status}
	s.apps[appKey{studentID, jobID}] = app
	return app
}

func (s *fakeStore) appCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.apps)
}

func (s *fakeStore) app(studentID, jobID uint) *models.Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[appKey{studentID, jobID}]
	if !ok {
		return nil
	}
	cp := *app
	return &cp
}

// ===== Repository =====

func (s *fakeStore) User() repositories.UserRepository               { return fakeUsers{s} }
func (s *fakeStore) Job() repositories.JobRepository                 { return fakeJobs{s} }
func (s *fakeStore) Application() repositories.ApplicationRepository { return fakeApps{s} }
func (s *fakeStore) Note() repositories.NoteRepository               { return fakeNotes{s} }
func (s *fakeStore) Analytics() repositories.AnalyticsRepository     { return fakeAnalytics{s} }

func (s *fakeStore) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(s)
}

func (s *fakeStore) Ping(ctx context.Context) error { return s.pingErr }
func (s *fakeStore) Close() error                   { return nil }

// ===== Users =====

type fakeUsers struct{ *fakeStore }

func (r fakeUsers) GetByID(ctx context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r fakeUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[strings.ToLower(email)]
	if !ok {
		return nil, fmt.Errorf("failed to get user by email: %w", repositories.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (r fakeUsers) EnsureUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == 0 {
		user.ID = uint(len(r.users) + 1)
	}
	cp := *user
	r.users[strings.ToLower(user.Email)] = &cp
	return nil
}

// ===== Jobs =====

type fakeJobs struct{ *fakeStore }

func (r fakeJobs) Create(ctx context.Context, job *models.JobPosting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobWrites++
	r.nextJobID++
	job.ID = r.nextJobID
	cp := *job
	r.jobs[job.ID] = &cp
	return nil
}

func (r fakeJobs) Update(ctx context.Context, job *models.JobPosting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[job.ID]; !ok || r.deleted[job.ID] {
		return repositories.ErrNotFound
	}
	r.jobWrites++
	cp := *job
	r.jobs[job.ID] = &cp
	return nil
}

func (r fakeJobs) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[id]; !ok || r.deleted[id] {
		return repositories.ErrNotFound
	}
	r.deleted[id] = true
	return nil
}

func (r fakeJobs) GetByID(ctx context.Context, id uint) (*models.JobPosting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok || r.deleted[id] {
		return nil, repositories.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (r fakeJobs) ListWithApplicationCounts(ctx context.Context) ([]models.JobPostingSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.JobPostingSummary
	for id, job := range r.jobs {
		if r.deleted[id] {
			continue
		}
		var count int64
		for k := range r.apps {
			if k.jobID == id {
				count++
			}
		}
		out = append(out, models.JobPostingSummary{
			JobID:            id,
			CompanyName:      job.CompanyName,
			Role:             job.Role,
			DeadlineDate:     time.Time(job.DeadlineDate),
			ApplicationCount: count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeadlineDate.After(out[j].DeadlineDate) })
	return out, nil
}

func (r fakeJobs) ListAvailableForStudent(ctx context.Context, studentID uint, filter repositories.AvailabilityFilter) ([]models.AvailableJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = filter

	var out []models.AvailableJob
	for id, job := range r.jobs {
		deadline := time.Time(job.DeadlineDate)
		if r.deleted[id] || deadline.Before(filter.Today) {
			continue
		}
		item := models.AvailableJob{
			JobID:        id,
			CompanyName:  job.CompanyName,
			Role:         job.Role,
			DeadlineDate: deadline,
		}
		if app, ok := r.apps[appKey{studentID, id}]; ok {
			appID, status := app.ID, app.Status
			item.ApplicationID = &appID
			item.Status = &status
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeadlineDate.Before(out[j].DeadlineDate) })
	return out, nil
}

func (r fakeJobs) CountAvailable(ctx context.Context, filter repositories.AvailabilityFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, job := range r.jobs {
		if !r.deleted[id] && !time.Time(job.DeadlineDate).Before(filter.Today) {
			n++
		}
	}
	return n, nil
}

// ===== Applications =====

type fakeApps struct{ *fakeStore }

func (r fakeApps) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, app := range r.apps {
		if app.ID == id {
			cp := *app
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r fakeApps) GetForUpdate(ctx context.Context, studentID, jobID uint) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[appKey{studentID, jobID}]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *app
	return &cp, nil
}

func (r fakeApps) Insert(ctx context.Context, app *models.Application) (bool, error) {
	if r.beforeInsert != nil {
		r.beforeInsert()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	key := appKey{app.StudentID, app.JobID}
	if _, exists := r.apps[key]; exists {
		return false, nil
	}
	r.nextAppID++
	app.ID = r.nextAppID
	cp := *app
	r.apps[key] = &cp
	return true, nil
}

func (r fakeApps) UpdateStatus(ctx context.Context, app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := appKey{app.StudentID, app.JobID}
	if _, ok := r.apps[key]; !ok {
		return repositories.ErrNotFound
	}
	cp := *app
	r.apps[key] = &cp
	return nil
}

func (r fakeApps) ListUpcoming(ctx context.Context, studentID uint, filter repositories.AvailabilityFilter) ([]models.UpcomingDeadline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.UpcomingDeadline
	for k, app := range r.apps {
		job := r.jobs[k.jobID]
		if k.studentID != studentID || job == nil || r.deleted[k.jobID] {
			continue
		}
		if app.Status != models.ApplicationApplied && app.Status != models.ApplicationToApply {
			continue
		}
		deadline := time.Time(job.DeadlineDate)
		if deadline.Before(filter.Today) {
			continue
		}
		out = append(out, models.UpcomingDeadline{
			ApplicationID: app.ID,
			JobID:         job.ID,
			CompanyName:   job.CompanyName,
			Role:          job.Role,
			DeadlineDate:  deadline,
			Status:        app.Status,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeadlineDate.Before(out[j].DeadlineDate) })
	return out, nil
}

func (r fakeApps) CountByStatusForStudent(ctx context.Context, studentID uint) ([]models.StatusCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[models.ApplicationStatus]int64)
	for k, app := range r.apps {
		if k.studentID == studentID {
			counts[app.Status]++
		}
	}
	var out []models.StatusCount
	for _, status := range models.AllApplicationStatuses {
		if n := counts[status]; n > 0 {
			out = append(out, models.StatusCount{Status: status, Count: n})
		}
	}
	return out, nil
}

// ===== Notes =====

type fakeNotes struct{ *fakeStore }

func (r fakeNotes) EnsureFolder(ctx context.Context, studentID uint, name string) (*models.NoteFolder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := fmt.Sprintf("%d/%s", studentID, name)
	if f, ok := r.folders[key]; ok {
		return f, nil
	}
	r.nextFolderID++
	f := &models.NoteFolder{ID: r.nextFolderID, StudentID: studentID, FolderName: name}
	r.folders[key] = f
	return f, nil
}

func (r fakeNotes) Create(ctx context.Context, note *models.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextNoteID++
	note.ID = r.nextNoteID
	r.notes = append(r.notes, *note)
	return nil
}

func (r fakeNotes) ListByApplication(ctx context.Context, applicationID uint) ([]models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Note
	for i := len(r.notes) - 1; i >= 0; i-- {
		if r.notes[i].ApplicationID == applicationID {
			out = append(out, r.notes[i])
		}
	}
	return out, nil
}

// ===== Analytics =====

type fakeAnalytics struct{ *fakeStore }

func (r fakeAnalytics) ApplicationsByCompany(ctx context.Context, limit int) ([]models.CompanyApplications, error) {
	if r.analyticsErr != nil {
		return nil, r.analyticsErr
	}
	if len(r.byCompany) > limit {
		return r.byCompany[:limit], nil
	}
	return r.byCompany, nil
}

func (r fakeAnalytics) ApplicationsByStatus(ctx context.Context) ([]models.StatusCount, error) {
	rows, err := r.byStatus, r.analyticsErr
	if r.afterByStatus != nil {
		r.afterByStatus()
	}
	return rows, err
}

func (r fakeAnalytics) ApplicationsByMonth(ctx context.Context) ([]models.MonthlyApplications, error) {
	return r.timeline, r.analyticsErr
}
