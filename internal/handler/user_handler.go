package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/fsrsite/internal/apperr"
	"github.com/gin-gonic/gin"
)

// CurrentUser returns the logged-in user with the FSRs they administer.
func (a *API) CurrentUser(c *gin.Context) {
	profile, err := a.users.Profile(c.Request.Context(), c.GetString(userIDContextKey))
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			// The session outlived the user row.
			respondError(c, apperr.Unauthorized("User not logged in", "NOT_LOGGED_IN"))
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

const defaultUserPageSize = 50

// SearchUsers finds users by first or last name. Without a name, admins of
// the umbrella FSR get a paged list of every user instead.
func (a *API) SearchUsers(c *gin.Context) {
	ctx := c.Request.Context()
	name, hasName := c.GetQuery("name")
	if !hasName {
		super, err := a.users.IsAdmin(ctx, c.GetString(userIDContextKey), a.opts.SuperFSR)
		if err != nil {
			respondError(c, err)
			return
		}
		if super {
			a.listUsers(c)
			return
		}
	}

	users, err := a.users.SearchByName(ctx, name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (a *API) listUsers(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", defaultUserPageSize)
	users, err := a.users.List(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

// ListAdmins returns the admins of the FSR in the route.
func (a *API) ListAdmins(c *gin.Context) {
	admins, err := a.users.Admins(c.Request.Context(), currentFSR(c).Slug)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, admins)
}

type setAdminRequest struct {
	UserID  string `json:"userId"`
	IsAdmin *bool  `json:"isAdmin"`
}

// SetAdmin grants or revokes admin rights on the FSR in the route.
func (a *API) SetAdmin(c *gin.Context) {
	var payload setAdminRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, apperr.BadRequest("Invalid request body", "INVALID_BODY"))
		return
	}

	var problems []string
	payload.UserID = strings.TrimSpace(payload.UserID)
	if payload.UserID == "" {
		problems = append(problems, "User ID is required")
	}
	if payload.IsAdmin == nil {
		problems = append(problems, "isAdmin must be a boolean")
	}
	if len(problems) > 0 {
		respondError(c, apperr.BadRequest(strings.Join(problems, ", "), "FIELDS_REQUIRED"))
		return
	}

	if err := a.users.SetAdmin(c.Request.Context(), payload.UserID, currentFSR(c).Slug, *payload.IsAdmin); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Admin status updated successfully"})
}
