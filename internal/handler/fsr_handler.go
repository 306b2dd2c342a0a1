package handler

import (
	"net/http"

	"github.com/fsrsite/internal/apperr"
	"github.com/fsrsite/internal/service"
	"github.com/gin-gonic/gin"
)

var (
	errLogoSingle  = apperr.BadRequest(`Logo files should be named "logo" and must be a single file.`, "LOGO_SINGLE_FILE")
	errLogoMissing = apperr.BadRequest(`Please upload a logo with name "logo".`, "LOGO_MISSING")
)

type fsrRequest struct {
	Name           string `json:"name" form:"name"`
	Slug           string `json:"slug" form:"slug" binding:"omitempty,fsrslug"`
	PrimaryColor   string `json:"primaryColor" form:"primaryColor" binding:"omitempty,csscolor"`
	SecondaryColor string `json:"secondaryColor" form:"secondaryColor" binding:"omitempty,csscolor"`
	UforaURL       string `json:"uforaUrl" form:"uforaUrl" binding:"omitempty,url"`
	FacebookURL    string `json:"facebookUrl" form:"facebookUrl" binding:"omitempty,url"`
	InstagramURL   string `json:"instagramUrl" form:"instagramUrl" binding:"omitempty,url"`
	DiscordURL     string `json:"discordUrl" form:"discordUrl" binding:"omitempty,url"`
	LinkedinURL    string `json:"linkedinUrl" form:"linkedinUrl" binding:"omitempty,url"`
	TiktokURL      string `json:"tiktokUrl" form:"tiktokUrl" binding:"omitempty,url"`
	GithubURL      string `json:"githubUrl" form:"githubUrl" binding:"omitempty,url"`
}

func (r fsrRequest) toInput() service.FSRInput {
	return service.FSRInput{
		Name:           r.Name,
		Slug:           r.Slug,
		PrimaryColor:   r.PrimaryColor,
		SecondaryColor: r.SecondaryColor,
		Links: service.FSRLinks{
			UforaURL:     r.UforaURL,
			FacebookURL:  r.FacebookURL,
			InstagramURL: r.InstagramURL,
			DiscordURL:   r.DiscordURL,
			LinkedinURL:  r.LinkedinURL,
			TiktokURL:    r.TiktokURL,
			GithubURL:    r.GithubURL,
		},
	}
}

type fsrPatchRequest struct {
	Name           *string `json:"name"`
	PrimaryColor   *string `json:"primaryColor" binding:"omitempty,csscolor"`
	SecondaryColor *string `json:"secondaryColor" binding:"omitempty,csscolor"`
	UforaURL       *string `json:"uforaUrl"`
	FacebookURL    *string `json:"facebookUrl"`
	InstagramURL   *string `json:"instagramUrl"`
	DiscordURL     *string `json:"discordUrl"`
	LinkedinURL    *string `json:"linkedinUrl"`
	TiktokURL      *string `json:"tiktokUrl"`
	GithubURL      *string `json:"githubUrl"`
}

func (r fsrPatchRequest) toPatch() service.FSRPatch {
	return service.FSRPatch{
		Name:           r.Name,
		PrimaryColor:   r.PrimaryColor,
		SecondaryColor: r.SecondaryColor,
		UforaURL:       r.UforaURL,
		FacebookURL:    r.FacebookURL,
		InstagramURL:   r.InstagramURL,
		DiscordURL:     r.DiscordURL,
		LinkedinURL:    r.LinkedinURL,
		TiktokURL:      r.TiktokURL,
		GithubURL:      r.GithubURL,
	}
}

// ListFSRs returns the slug and name of every FSR.
func (a *API) ListFSRs(c *gin.Context) {
	fsrs, err := a.fsrs.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fsrs)
}

// CreateFSR accepts JSON, or a multipart form with an optional "logo" file.
func (a *API) CreateFSR(c *gin.Context) {
	var payload fsrRequest
	if !bindBody(c, &payload) {
		return
	}

	var logo *service.Upload
	if isMultipart(c) {
		files, err := formFiles(c, "logo")
		if err != nil {
			respondError(c, err)
			return
		}
		if len(files) > 1 {
			respondError(c, errLogoSingle)
			return
		}
		if len(files) == 1 {
			upload, file, err := openUpload(files[0])
			if err != nil {
				respondError(c, err)
				return
			}
			defer file.Close()
			logo = upload
		}
	}

	fsr, err := a.fsrs.Create(c.Request.Context(), payload.toInput(), logo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fsr)
}

// GetFSR returns the full FSR resolved by LoadFSR.
func (a *API) GetFSR(c *gin.Context) {
	c.JSON(http.StatusOK, currentFSR(c))
}

// UpdateFSR applies a partial update to the FSR in the route.
func (a *API) UpdateFSR(c *gin.Context) {
	var payload fsrPatchRequest
	if !bindBody(c, &payload) {
		return
	}

	fsr, err := a.fsrs.Update(c.Request.Context(), currentFSR(c).Slug, payload.toPatch())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fsr)
}

// GetLogo streams the stored logo.
func (a *API) GetLogo(c *gin.Context) {
	rc, mimeType, err := a.fsrs.Logo(c.Request.Context(), currentFSR(c).Slug)
	if err != nil {
		respondError(c, err)
		return
	}
	defer rc.Close()
	c.DataFromReader(http.StatusOK, -1, mimeType, rc, nil)
}

// UpdateLogo replaces the logo with the single "logo" file of the form.
func (a *API) UpdateLogo(c *gin.Context) {
	files, err := formFiles(c, "logo")
	if err != nil {
		respondError(c, err)
		return
	}
	switch {
	case len(files) == 0:
		respondError(c, errLogoMissing)
		return
	case len(files) > 1:
		respondError(c, errLogoSingle)
		return
	}

	upload, file, err := openUpload(files[0])
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	fsr, err := a.fsrs.UpdateLogo(c.Request.Context(), currentFSR(c).Slug, upload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fsr)
}
