package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/internship-tracker/internal/models"
	"github.com/SAP-F-2025/internship-tracker/internal/services"
	"github.com/SAP-F-2025/internship-tracker/internal/session"
	"github.com/SAP-F-2025/internship-tracker/internal/utils"
)

const sessionKey = "session"

// CookieConfig names the session cookie. Its lifetime follows the session TTL.
type CookieConfig struct {
	Name   string
	Secure bool
}

// SessionAuth resolves the session cookie and guards the portal route groups.
type SessionAuth struct {
	auth     services.AuthService
	sessions *session.Manager
	cookie   CookieConfig
	logger   utils.Logger
}

func NewSessionAuth(auth services.AuthService, sessions *session.Manager, cookie CookieConfig, logger utils.Logger) *SessionAuth {
	if cookie.Name == "" {
		cookie.Name = "internship_session"
	}
	return &SessionAuth{
		auth:     auth,
		sessions: sessions,
		cookie:   cookie,
		logger:   logger,
	}
}

// LoadSession attaches the caller's session, if any, to the context.
func (a *SessionAuth) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(a.cookie.Name)
		if err != nil || id == "" {
			c.Next()
			return
		}

		sess, err := a.auth.Authenticate(c.Request.Context(), id)
		switch {
		case err == nil:
			c.Set(sessionKey, sess)
			c.Set("user_id", sess.UserID)
			c.Set("user_role", sess.Role)
		case errors.Is(err, services.ErrUnauthorized):
			a.clearCookie(c)
		default:
			utils.GetLogger(c, a.logger).Error("Failed to load session", "error", err)
		}
		c.Next()
	}
}

// RequireSession sends anonymous callers to the login page.
func (a *SessionAuth) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentSession(c) == nil {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequirePortal admits only sessions that logged in to portal.
func (a *SessionAuth) RequirePortal(portal models.Portal) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if sess == nil || sess.Portal != portal {
			renderError(c, http.StatusForbidden, "This page belongs to another dashboard.")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole checks the role set by LoadSession.
func (a *SessionAuth) RequireRole(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("user_role")
		if !exists {
			renderError(c, http.StatusForbidden, "You do not have access to that.")
			c.Abort()
			return
		}

		role, ok := userRole.(models.UserRole)
		if !ok {
			renderError(c, http.StatusForbidden, "You do not have access to that.")
			c.Abort()
			return
		}

		for _, required := range requiredRoles {
			if role == required {
				c.Next()
				return
			}
		}

		utils.GetLogger(c, a.logger).Warn("Role check failed", "role", role, "required", requiredRoles)
		renderError(c, http.StatusForbidden, "You do not have access to that.")
		c.Abort()
	}
}

func (a *SessionAuth) setCookie(c *gin.Context, sess *session.Session) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(a.cookie.Name, sess.ID, int(a.sessions.TTL().Seconds()), "/", "", a.cookie.Secure, true)
}

func (a *SessionAuth) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(a.cookie.Name, "", -1, "/", "", a.cookie.Secure, true)
}

// SetFlash stores a message for the next page the session renders.
func (a *SessionAuth) SetFlash(c *gin.Context, kind models.FlashKind, message string) {
	sess := CurrentSession(c)
	if sess == nil {
		return
	}
	sess.Flash = &models.Flash{Kind: kind, Message: message}
	if err := a.sessions.Save(c.Request.Context(), sess); err != nil {
		utils.GetLogger(c, a.logger).Warn("Failed to store flash message", "error", err)
	}
}

// PopFlash returns and clears the pending flash message.
func (a *SessionAuth) PopFlash(c *gin.Context) *models.Flash {
	sess := CurrentSession(c)
	if sess == nil || sess.Flash == nil {
		return nil
	}
	flash := sess.PopFlash()
	if err := a.sessions.Save(c.Request.Context(), sess); err != nil {
		utils.GetLogger(c, a.logger).Warn("Failed to clear flash message", "error", err)
	}
	return flash
}

// CurrentSession returns the session loaded for this request, or nil.
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}
