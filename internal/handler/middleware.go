package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fsrsite/internal/apperr"
	"github.com/fsrsite/internal/db"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	sessionUserKey   = "user_id"
	requestIDKey     = "request_id"
	cspNonceKey      = "csp_nonce"
	fsrContextKey    = "fsr"
	userIDContextKey = "user_id"
	requestIDHeader  = "X-Request-ID"
)

var (
	errNotLoggedIn   = apperr.Unauthorized("You must be logged in to access this resource", "NOT_LOGGED_IN")
	errNotAdmin      = apperr.Forbidden("You are not allowed to access this resource", "NOT_ADMIN")
	errNotSuperAdmin = apperr.Forbidden("You must be an admin of the umbrella FSR to do this", "NOT_SUPER_ADMIN")
)

// RequestLogger assigns a request id and writes one log line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var event *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			event = log.Error()
		case status >= http.StatusBadRequest:
			event = log.Warn()
		default:
			event = log.Info()
		}
		event.
			Str("request_id", id).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("request")
	}
}

// Recovery turns panics into a logged 500.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		respondError(c, fmt.Errorf("panic: %v", recovered))
	})
}

// SecurityHeaders sets a content security policy with a fresh nonce per
// request. Templates served alongside the API read it from the context.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		nonce := strings.ReplaceAll(uuid.NewString(), "-", "")
		c.Set(cspNonceKey, nonce)
		c.Header("Content-Security-Policy", fmt.Sprintf("script-src 'self' cdnjs.cloudflare.com 'nonce-%s'; img-src 'self' data:", nonce))
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "same-origin")
		c.Next()
	}
}

// LoadFSR resolves the :fsr parameter and stores the FSR in the context.
func (a *API) LoadFSR() gin.HandlerFunc {
	return func(c *gin.Context) {
		fsr, err := a.fsrs.GetBySlug(c.Request.Context(), c.Param("fsr"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.Set(fsrContextKey, fsr)
		c.Next()
	}
}

// RequireLogin rejects requests without a user in the session.
func (a *API) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := sessionUserID(c)
		if userID == "" {
			respondError(c, errNotLoggedIn)
			return
		}
		c.Set(userIDContextKey, userID)
		c.Next()
	}
}

// RequireAdmin lets through admins of the FSR in the route.
func (a *API) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		a.requireAdminOf(c, c.Param("fsr"), errNotAdmin)
	}
}

// RequireSuperAdmin lets through admins of the umbrella FSR.
func (a *API) RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		a.requireAdminOf(c, a.opts.SuperFSR, errNotSuperAdmin)
	}
}

func (a *API) requireAdminOf(c *gin.Context, fsrSlug string, denied error) {
	userID := sessionUserID(c)
	if userID == "" {
		respondError(c, errNotLoggedIn)
		return
	}
	ok, err := a.users.IsAdmin(c.Request.Context(), userID, fsrSlug)
	if err != nil {
		respondError(c, err)
		return
	}
	if !ok {
		respondError(c, denied)
		return
	}
	c.Set(userIDContextKey, userID)
	c.Next()
}

func sessionUserID(c *gin.Context) string {
	value, _ := sessions.Default(c).Get(sessionUserKey).(string)
	return value
}

func currentFSR(c *gin.Context) *db.FSR {
	value, _ := c.Get(fsrContextKey)
	fsr, _ := value.(*db.FSR)
	return fsr
}

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
