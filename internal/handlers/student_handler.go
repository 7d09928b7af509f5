package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/internship-tracker/internal/models"
	"github.com/SAP-F-2025/internship-tracker/internal/services"
	"github.com/SAP-F-2025/internship-tracker/internal/utils"
	"github.com/SAP-F-2025/internship-tracker/internal/validator"
)

type StudentHandler struct {
	BaseHandler
	service     services.StudentService
	sessionAuth *SessionAuth
}

func NewStudentHandler(service services.StudentService, sessionAuth *SessionAuth, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		sessionAuth: sessionAuth,
	}
}

// Dashboard renders open postings, upcoming deadlines and counters.
func (h *StudentHandler) Dashboard(c *gin.Context) {
	sess := CurrentSession(c)

	dashboard, err := h.service.GetDashboard(c.Request.Context(), sess.UserID)
	if err != nil {
		status, message := h.handleServiceError(c, err, "Failed to load student dashboard")
		renderError(c, status, message)
		return
	}

	renderPage(c, http.StatusOK, "student.html", gin.H{
		"Title":     "My internships",
		"Flash":     h.sessionAuth.PopFlash(c),
		"Dashboard": dashboard,
	})
}

type statusAction func(ctx context.Context, studentID, jobID uint) (*models.Application, error)

// transition builds the POST handler for one status button.
func (h *StudentHandler) transition(action statusAction, status models.ApplicationStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)

		jobID, ok := parseID(c, "id")
		if !ok {
			h.sessionAuth.SetFlash(c, models.FlashError, "Invalid job.")
			c.Redirect(http.StatusSeeOther, "/student")
			return
		}

		h.LogRequest(c, "Updating application status", "job_id", jobID, "status", status)

		if _, err := action(c.Request.Context(), sess.UserID, jobID); err != nil {
			_, message := h.handleServiceError(c, err, "Failed to update application status")
			h.sessionAuth.SetFlash(c, models.FlashError, message)
			c.Redirect(http.StatusSeeOther, "/student")
			return
		}

		h.sessionAuth.SetFlash(c, models.FlashSuccess, fmt.Sprintf("Marked as %s.", status.Label()))
		c.Redirect(http.StatusSeeOther, fmt.Sprintf("/student#job-%d", jobID))
	}
}

func (h *StudentHandler) Apply() gin.HandlerFunc {
	return h.transition(h.service.Apply, models.ApplicationApplied)
}

func (h *StudentHandler) Ignore() gin.HandlerFunc {
	return h.transition(h.service.Ignore, models.ApplicationIgnored)
}

func (h *StudentHandler) MarkDone() gin.HandlerFunc {
	return h.transition(h.service.MarkDone, models.ApplicationDone)
}

func (h *StudentHandler) SaveForLater() gin.HandlerFunc {
	return h.transition(h.service.SaveForLater, models.ApplicationToApply)
}

// AddNote appends a note to one of the student's applications.
func (h *StudentHandler) AddNote(c *gin.Context) {
	sess := CurrentSession(c)

	applicationID, ok := parseID(c, "id")
	if !ok {
		h.sessionAuth.SetFlash(c, models.FlashError, "Invalid application.")
		c.Redirect(http.StatusSeeOther, "/student")
		return
	}

	// The history page posts back to itself
	back := "/student"
	if c.PostForm("return_to") == "notes" {
		back = fmt.Sprintf("/student/applications/%d/notes", applicationID)
	}

	var req validator.NoteRequest
	if err := c.ShouldBind(&req); err != nil {
		h.sessionAuth.SetFlash(c, models.FlashError, "Invalid note form.")
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	h.LogRequest(c, "Adding note", "application_id", applicationID)

	_, err := h.service.AddNote(c.Request.Context(), applicationID, sess.UserID, req.NoteText)
	if err != nil {
		_, message := h.handleServiceError(c, err, "Failed to add note")
		if msg, ok := services.FieldErrors(err)["note_text"]; ok {
			message = "Note " + msg + "."
		}
		h.sessionAuth.SetFlash(c, models.FlashError, message)
		c.Redirect(http.StatusSeeOther, back)
		return
	}

	h.sessionAuth.SetFlash(c, models.FlashSuccess, "Note saved.")
	c.Redirect(http.StatusSeeOther, back)
}

// Notes renders the full note history of one application.
func (h *StudentHandler) Notes(c *gin.Context) {
	sess := CurrentSession(c)

	applicationID, ok := parseID(c, "id")
	if !ok {
		renderError(c, http.StatusNotFound, "Application not found.")
		return
	}

	history, err := h.service.ListNotes(c.Request.Context(), applicationID, sess.UserID)
	if err != nil {
		status, message := h.handleServiceError(c, err, "Failed to load notes")
		renderError(c, status, message)
		return
	}

	renderPage(c, http.StatusOK, "notes.html", gin.H{
		"Title":   "Notes",
		"Flash":   h.sessionAuth.PopFlash(c),
		"History": history,
	})
}
