package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/internship-tracker/internal/models"
	"github.com/SAP-F-2025/internship-tracker/internal/services"
	"github.com/SAP-F-2025/internship-tracker/internal/session"
	"github.com/SAP-F-2025/internship-tracker/internal/utils"
)

const serviceName = "internship-tracker"

// HealthCheck is one named dependency check reported by /health.
type HealthCheck func(ctx context.Context) error

type HandlerManager struct {
	authHandler      *AuthHandler
	studentHandler   *StudentHandler
	facultyHandler   *FacultyHandler
	analyticsHandler *AnalyticsHandler
	sessionAuth      *SessionAuth
	serviceManager   services.ServiceManager
	checks           map[string]HealthCheck
	logger           utils.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	sessions *session.Manager,
	cookie CookieConfig,
	logger utils.Logger,
	checks map[string]HealthCheck,
) *HandlerManager {
	sessionAuth := NewSessionAuth(serviceManager.Auth(), sessions, cookie, logger)

	return &HandlerManager{
		authHandler:      NewAuthHandler(serviceManager.Auth(), sessionAuth, logger),
		studentHandler:   NewStudentHandler(serviceManager.Student(), sessionAuth, logger),
		facultyHandler:   NewFacultyHandler(serviceManager.Job(), sessionAuth, logger),
		analyticsHandler: NewAnalyticsHandler(serviceManager.Analytics(), sessionAuth, logger),
		sessionAuth:      sessionAuth,
		serviceManager:   serviceManager,
		checks:           checks,
		logger:           logger,
	}
}

// SetupRoutes registers the page routes of both portals.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) error {
	tmpl, err := LoadTemplates()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)
	router.StaticFS("/static", staticFiles())

	router.GET("/health", hm.Health)

	pages := router.Group("")
	pages.Use(hm.sessionAuth.LoadSession())
	{
		pages.GET("/", hm.authHandler.Home)
		pages.GET("/login", hm.authHandler.ShowLogin)
		pages.POST("/login", hm.authHandler.Login)
		pages.POST("/logout", hm.authHandler.Logout)

		// Student portal - Students only
		student := pages.Group("/student")
		student.Use(
			hm.sessionAuth.RequireSession(),
			hm.sessionAuth.RequirePortal(models.PortalStudent),
			hm.sessionAuth.RequireRole(models.RoleStudent),
		)
		{
			student.GET("", hm.studentHandler.Dashboard)
			student.POST("/jobs/:id/apply", hm.studentHandler.Apply())
			student.POST("/jobs/:id/ignore", hm.studentHandler.Ignore())
			student.POST("/jobs/:id/done", hm.studentHandler.MarkDone())
			student.POST("/jobs/:id/save", hm.studentHandler.SaveForLater())
			student.GET("/applications/:id/notes", hm.studentHandler.Notes)
			student.POST("/applications/:id/notes", hm.studentHandler.AddNote)
		}

		// Faculty portal - Faculty and Admins only
		faculty := pages.Group("/faculty")
		faculty.Use(
			hm.sessionAuth.RequireSession(),
			hm.sessionAuth.RequirePortal(models.PortalFaculty),
			hm.sessionAuth.RequireRole(models.RoleFaculty, models.RoleAdmin),
		)
		{
			faculty.GET("/jobs", hm.facultyHandler.ListJobs)
			faculty.GET("/jobs/new", hm.facultyHandler.NewJob)
			faculty.POST("/jobs", hm.facultyHandler.CreateJob)
			faculty.GET("/jobs/:id/edit", hm.facultyHandler.EditJob)
			faculty.POST("/jobs/:id", hm.facultyHandler.UpdateJob)
			faculty.POST("/jobs/:id/delete", hm.facultyHandler.DeleteJob)

			faculty.GET("/analytics", hm.analyticsHandler.Show)
			faculty.GET("/analytics/export.xlsx", hm.analyticsHandler.Export)
			faculty.GET("/analytics/companies.svg", hm.analyticsHandler.Chart(drawCompanyChart))
			faculty.GET("/analytics/statuses.svg", hm.analyticsHandler.Chart(drawStatusChart))
			faculty.GET("/analytics/timeline.svg", hm.analyticsHandler.Chart(drawTimelineChart))
		}
	}

	router.NoRoute(hm.sessionAuth.LoadSession(), func(c *gin.Context) {
		renderError(c, http.StatusNotFound, "That page does not exist.")
	})

	return nil
}

// Health reports the database and every registered dependency check.
func (hm *HandlerManager) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	resp := models.HealthResponse{
		Status:    "healthy",
		Service:   serviceName,
		Timestamp: time.Now().UTC(),
		Checks:    map[string]string{"database": "ok"},
	}

	if err := hm.serviceManager.HealthCheck(ctx); err != nil {
		resp.Status = "unhealthy"
		resp.Checks["database"] = err.Error()
	}
	for name, check := range hm.checks {
		if err := check(ctx); err != nil {
			resp.Status = "unhealthy"
			resp.Checks[name] = err.Error()
			continue
		}
		resp.Checks[name] = "ok"
	}

	status := http.StatusOK
	if resp.Status != "healthy" {
		utils.GetLogger(c, hm.logger).Warn("Health check failed", "checks", resp.Checks)
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}
