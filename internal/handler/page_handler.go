package handler

import (
	"net/http"
	"strings"

	"github.com/fsrsite/internal/apperr"
	"github.com/fsrsite/internal/db"
	"github.com/fsrsite/internal/service"
	"github.com/gin-gonic/gin"
)

var errLanguageUnsupported = apperr.NotFound("Language not supported", "LANGUAGE_UNSUPPORTED")

const (
	pageInfoMarker    = "info"
	pageContentMarker = "content"
)

// pageRoute is the remainder of /page/*rest split into its parts.
type pageRoute struct {
	lang    service.Language
	rawLang string
	marker  string
	path    string
}

func (r pageRoute) hasLang() bool {
	return r.lang != ""
}

func isLanguage(segment string) bool {
	_, err := service.ParseLanguage(segment)
	return err == nil
}

// parseReadRoute understands [lang/][info/]path.
func parseReadRoute(rest string) pageRoute {
	segments := splitRest(rest)
	var route pageRoute
	if len(segments) > 1 && isLanguage(segments[0]) {
		route.lang = service.Language(segments[0])
		segments = segments[1:]
	}
	if len(segments) > 1 && segments[0] == pageInfoMarker {
		route.marker = pageInfoMarker
		segments = segments[1:]
	}
	route.path = strings.Join(segments, "/")
	return route
}

// parseWriteRoute understands [content/]lang/path. The language is mandatory.
func parseWriteRoute(rest string) pageRoute {
	segments := splitRest(rest)
	var route pageRoute
	if len(segments) > 0 && segments[0] == pageContentMarker {
		route.marker = pageContentMarker
		segments = segments[1:]
	}
	if len(segments) > 0 {
		route.rawLang = segments[0]
		if isLanguage(segments[0]) {
			route.lang = service.Language(segments[0])
		}
		segments = segments[1:]
	}
	route.path = strings.Join(segments, "/")
	return route
}

func splitRest(rest string) []string {
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}

type pageRequest struct {
	PathEN  string `json:"path_en"`
	TitleEN string `json:"title_en"`
	PathNL  string `json:"path_nl"`
	TitleNL string `json:"title_nl"`
}

func (r pageRequest) toInfo() service.PageInfo {
	return service.PageInfo{
		EN: service.PageTranslation{Path: r.PathEN, Title: r.TitleEN},
		NL: service.PageTranslation{Path: r.PathNL, Title: r.TitleNL},
	}
}

type pageContentRequest struct {
	Content string `json:"content"`
	Format  string `json:"format"`
}

// ListPages returns every page of the FSR.
func (a *API) ListPages(c *gin.Context) {
	pages, err := a.pages.List(c.Request.Context(), currentFSR(c).Slug)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pages)
}

// GetPage serves page metadata or HTML content, with or without a language.
func (a *API) GetPage(c *gin.Context) {
	route := parseReadRoute(c.Param("rest"))
	fsr := currentFSR(c).Slug
	ctx := c.Request.Context()

	if route.marker == pageInfoMarker {
		var err error
		var page *db.Page
		if route.hasLang() {
			page, err = a.pages.GetByPath(ctx, fsr, route.path, route.lang)
		} else {
			page, _, err = a.pages.GetByPathAnyLanguage(ctx, fsr, route.path)
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
		return
	}

	var body []byte
	var err error
	if route.hasLang() {
		body, err = a.pages.Content(ctx, fsr, route.path, route.lang)
	} else {
		body, err = a.pages.ContentAnyLanguage(ctx, fsr, route.path)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}

// CreatePage adds a page in both languages.
func (a *API) CreatePage(c *gin.Context) {
	var payload pageRequest
	if !bindBody(c, &payload) {
		return
	}
	page, err := a.pages.Create(c.Request.Context(), currentFSR(c).Slug, payload.toInfo())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, page)
}

// PatchPage updates either the metadata or, under content/, the body.
func (a *API) PatchPage(c *gin.Context) {
	route := parseWriteRoute(c.Param("rest"))
	if !route.hasLang() {
		respondError(c, errLanguageUnsupported.Withf("Language %s not supported", route.rawLang))
		return
	}
	fsr := currentFSR(c).Slug
	ctx := c.Request.Context()

	if route.marker == pageContentMarker {
		var payload pageContentRequest
		if !bindBody(c, &payload) {
			return
		}
		format, err := service.ParseContentFormat(payload.Format)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := a.pages.UpdateContent(ctx, fsr, route.path, route.lang, payload.Content, format); err != nil {
			respondError(c, err)
			return
		}
		noContent(c)
		return
	}

	var payload pageRequest
	if !bindBody(c, &payload) {
		return
	}
	page, err := a.pages.Update(ctx, fsr, route.path, route.lang, payload.toInfo())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// DeletePage removes a page by its path in the given language.
func (a *API) DeletePage(c *gin.Context) {
	route := parseWriteRoute(c.Param("rest"))
	if route.marker != "" || !route.hasLang() {
		raw := route.rawLang
		if route.marker != "" {
			raw = route.marker
		}
		respondError(c, errLanguageUnsupported.Withf("Language %s not supported", raw))
		return
	}
	if err := a.pages.Delete(c.Request.Context(), currentFSR(c).Slug, route.path, route.lang); err != nil {
		respondError(c, err)
		return
	}
	noContent(c)
}
