package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/internship-tracker/internal/services"
	"github.com/SAP-F-2025/internship-tracker/internal/utils"
	"github.com/SAP-F-2025/internship-tracker/internal/validator"
)

type AuthHandler struct {
	BaseHandler
	authService services.AuthService
	sessionAuth *SessionAuth
}

func NewAuthHandler(authService services.AuthService, sessionAuth *SessionAuth, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		authService: authService,
		sessionAuth: sessionAuth,
	}
}

// Home sends the caller to the dashboard chosen at login.
func (h *AuthHandler) Home(c *gin.Context) {
	if sess := CurrentSession(c); sess != nil {
		c.Redirect(http.StatusSeeOther, sess.Portal.HomePath())
		return
	}
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if sess := CurrentSession(c); sess != nil {
		c.Redirect(http.StatusSeeOther, sess.Portal.HomePath())
		return
	}
	renderPage(c, http.StatusOK, "login.html", gin.H{"Title": "Log in"})
}

// Login verifies the form credentials and opens a session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req validator.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		renderPage(c, http.StatusBadRequest, "login.html", gin.H{
			"Title": "Log in",
			"Error": "Invalid login form.",
		})
		return
	}

	sess, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		status, message := h.handleServiceError(c, err, "Login failed")
		if errors.Is(err, services.ErrValidationFailed) {
			message = "Email and password are required."
		}
		renderPage(c, status, "login.html", gin.H{
			"Title": "Log in",
			"Email": req.Email,
			"Error": message,
		})
		return
	}

	c.Set(sessionKey, sess)
	h.sessionAuth.setCookie(c, sess)
	h.LogRequest(c, "Login succeeded", "user_id", sess.UserID, "portal", sess.Portal)
	c.Redirect(http.StatusSeeOther, sess.Portal.HomePath())
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if sess := CurrentSession(c); sess != nil {
		if err := h.authService.Logout(c.Request.Context(), sess.ID); err != nil {
			h.LogError(c, err, "Failed to end session")
		}
	}
	h.sessionAuth.clearCookie(c)
	c.Redirect(http.StatusSeeOther, "/login")
}
