package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/fsrsite/internal/apperr"
	"github.com/fsrsite/internal/cas"
	"github.com/fsrsite/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const casCallbackPath = "/api/ugent-cas/callback"

var (
	errTicketMissing     = apperr.BadRequest("Invalid login callback, no ticket provided", "TICKET_MISSING")
	errTicketValidation  = apperr.BadRequest("Failed to validate ticket", "TICKET_VALIDATION_FAILED")
	errCASInvalidAnswer  = apperr.BadRequest("Invalid response from CAS", "CAS_INVALID_RESPONSE")
	errCASAuthentication = apperr.BadRequest("CAS rejected the ticket", "CAS_AUTHENTICATION_FAILED")
	errSessionSave       = apperr.Internal("Failed to save session")
)

// RedirectLogin forwards /api/login to the CAS flow, keeping the query.
func (a *API) RedirectLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, withQuery("/api/ugent-cas/login", c.Request.URL.RawQuery))
}

// RedirectLogout forwards /api/logout to the CAS logout, keeping the query.
func (a *API) RedirectLogout(c *gin.Context) {
	c.Redirect(http.StatusFound, withQuery("/api/ugent-cas/logout", c.Request.URL.RawQuery))
}

// CASLogin sends the browser to CAS, or straight back when already logged in.
func (a *API) CASLogin(c *gin.Context) {
	target := safeRedirect(c.Query("path"))
	if sessionUserID(c) != "" {
		c.Redirect(http.StatusFound, target)
		return
	}
	c.Redirect(http.StatusFound, a.cas.LoginURL(a.serviceURL(c, target, c.Query("fsr"))))
}

// CASCallback validates the ticket CAS handed back, finds or creates the
// user and stores their id in the session.
func (a *API) CASCallback(c *gin.Context) {
	target := safeRedirect(c.Query("path"))
	if sessionUserID(c) != "" {
		c.Redirect(http.StatusFound, target)
		return
	}

	ticket := c.Query("ticket")
	if ticket == "" {
		respondError(c, errTicketMissing)
		return
	}

	attrs, err := a.cas.Validate(c.Request.Context(), a.serviceURL(c, target, c.Query("fsr")), ticket)
	if err != nil {
		respondError(c, casError(err))
		return
	}

	user, created, err := a.users.Ensure(c.Request.Context(), service.UserInfo{
		UGentID:   attrs.UGentID(),
		FirstName: attrs.GivenName(),
		LastName:  attrs.Surname(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		log.Error().Err(err).Str("request_id", requestID(c)).Msg("failed to save session")
		respondError(c, errSessionSave)
		return
	}

	log.Info().Str("user_id", user.ID).Bool("created", created).Msg("user logged in")
	c.Redirect(http.StatusFound, target)
}

// CASLogout clears the session.
func (a *API) CASLogout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		log.Error().Err(err).Str("request_id", requestID(c)).Msg("failed to clear session")
		respondError(c, errSessionSave)
		return
	}
	c.Redirect(http.StatusFound, safeRedirect(c.Query("path")))
}

// serviceURL is the callback URL registered with CAS. Login and callback
// must build exactly the same string or CAS rejects the ticket.
func (a *API) serviceURL(c *gin.Context, target, fsr string) string {
	base := a.opts.PublicBaseURL
	if base == "" {
		base = "https://" + c.Request.Host
	}

	query := url.Values{"path": {target}}
	if fsr != "" {
		query.Set("fsr", fsr)
	}
	return base + casCallbackPath + "?" + query.Encode()
}

func casError(err error) error {
	var authErr *cas.AuthenticationError
	switch {
	case errors.As(err, &authErr):
		if authErr.Message != "" {
			return errCASAuthentication.Withf("%s", authErr.Message)
		}
		return errCASAuthentication
	case errors.Is(err, cas.ErrInvalidResponse):
		return errCASInvalidAnswer
	case errors.Is(err, cas.ErrValidationFailed):
		return errTicketValidation
	default:
		return err
	}
}

func withQuery(path, rawQuery string) string {
	if rawQuery == "" {
		return path
	}
	return path + "?" + rawQuery
}
