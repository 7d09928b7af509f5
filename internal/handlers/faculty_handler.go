package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/internship-tracker/internal/models"
	"github.com/SAP-F-2025/internship-tracker/internal/services"
	"github.com/SAP-F-2025/internship-tracker/internal/utils"
	"github.com/SAP-F-2025/internship-tracker/internal/validator"
)

type FacultyHandler struct {
	BaseHandler
	service     services.JobService
	sessionAuth *SessionAuth
}

func NewFacultyHandler(service services.JobService, sessionAuth *SessionAuth, logger utils.Logger) *FacultyHandler {
	return &FacultyHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		sessionAuth: sessionAuth,
	}
}

// ListJobs renders every posting with its application count.
func (h *FacultyHandler) ListJobs(c *gin.Context) {
	jobs, err := h.service.ListAllJobs(c.Request.Context())
	if err != nil {
		status, message := h.handleServiceError(c, err, "Failed to list jobs")
		renderError(c, status, message)
		return
	}

	renderPage(c, http.StatusOK, "faculty_jobs.html", gin.H{
		"Title": "Job postings",
		"Flash": h.sessionAuth.PopFlash(c),
		"Jobs":  jobs,
	})
}

func (h *FacultyHandler) NewJob(c *gin.Context) {
	h.renderForm(c, http.StatusOK, "New posting", "/faculty/jobs", validator.JobPostingRequest{}, nil, "")
}

func (h *FacultyHandler) CreateJob(c *gin.Context) {
	sess := CurrentSession(c)

	var req validator.JobPostingRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderForm(c, http.StatusBadRequest, "New posting", "/faculty/jobs", req, nil, "Invalid posting form.")
		return
	}

	h.LogRequest(c, "Creating job posting", "company", req.CompanyName)

	job, err := h.service.CreateJob(c.Request.Context(), &req, sess.UserID)
	if err != nil {
		status, message := h.handleServiceError(c, err, "Failed to create job")
		h.renderForm(c, status, "New posting", "/faculty/jobs", req, services.FieldErrors(err), message)
		return
	}

	h.sessionAuth.SetFlash(c, models.FlashSuccess, fmt.Sprintf("Posted %s at %s.", job.Role, job.CompanyName))
	c.Redirect(http.StatusSeeOther, "/faculty/jobs")
}

func (h *FacultyHandler) EditJob(c *gin.Context) {
	jobID, ok := parseID(c, "id")
	if !ok {
		renderError(c, http.StatusNotFound, "That posting does not exist.")
		return
	}

	job, err := h.service.GetJob(c.Request.Context(), jobID)
	if err != nil {
		status, message := h.handleServiceError(c, err, "Failed to load job")
		renderError(c, status, message)
		return
	}

	h.renderForm(c, http.StatusOK, "Edit posting", editAction(jobID), validator.JobPostingFormFrom(job), nil, "")
}

func (h *FacultyHandler) UpdateJob(c *gin.Context) {
	sess := CurrentSession(c)

	jobID, ok := parseID(c, "id")
	if !ok {
		renderError(c, http.StatusNotFound, "That posting does not exist.")
		return
	}

	var req validator.JobPostingRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderForm(c, http.StatusBadRequest, "Edit posting", editAction(jobID), req, nil, "Invalid posting form.")
		return
	}

	h.LogRequest(c, "Updating job posting", "job_id", jobID)

	if _, err := h.service.UpdateJob(c.Request.Context(), jobID, &req, sess.UserID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			h.sessionAuth.SetFlash(c, models.FlashError, "That posting no longer exists.")
			c.Redirect(http.StatusSeeOther, "/faculty/jobs")
			return
		}
		status, message := h.handleServiceError(c, err, "Failed to update job")
		h.renderForm(c, status, "Edit posting", editAction(jobID), req, services.FieldErrors(err), message)
		return
	}

	h.sessionAuth.SetFlash(c, models.FlashSuccess, "Posting updated.")
	c.Redirect(http.StatusSeeOther, "/faculty/jobs")
}

func (h *FacultyHandler) DeleteJob(c *gin.Context) {
	sess := CurrentSession(c)

	jobID, ok := parseID(c, "id")
	if !ok {
		h.sessionAuth.SetFlash(c, models.FlashError, "Invalid posting.")
		c.Redirect(http.StatusSeeOther, "/faculty/jobs")
		return
	}

	h.LogRequest(c, "Deleting job posting", "job_id", jobID)

	if err := h.service.DeleteJob(c.Request.Context(), jobID, sess.UserID); err != nil {
		_, message := h.handleServiceError(c, err, "Failed to delete job")
		h.sessionAuth.SetFlash(c, models.FlashError, message)
		c.Redirect(http.StatusSeeOther, "/faculty/jobs")
		return
	}

	h.sessionAuth.SetFlash(c, models.FlashSuccess, "Posting deleted.")
	c.Redirect(http.StatusSeeOther, "/faculty/jobs")
}

func (h *FacultyHandler) renderForm(c *gin.Context, status int, title, action string, form validator.JobPostingRequest, fieldErrors map[string]string, message string) {
	renderPage(c, status, "job_form.html", gin.H{
		"Title":  title,
		"Action": action,
		"Form":   form,
		"Errors": fieldErrors,
		"Error":  message,
	})
}

func editAction(jobID uint) string {
	return fmt.Sprintf("/faculty/jobs/%d", jobID)
}
