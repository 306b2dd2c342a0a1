package handler

import (
	"net/http"
	"strings"
	"testing"
)

func seedPage(t *testing.T, env *testEnv, cookies []*http.Cookie) {
	t.Helper()
	w := env.doJSON(t, http.MethodPost, "/api/fsr/wina/page", map[string]string{
		"path_en": "about", "title_en": "About", "path_nl": "over", "title_nl": "Over",
	}, cookies)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreatePageValidation(t *testing.T) {
	env := setupHandlerTest(t)
	env.seedFSR(t, "wina")
	admin := env.seedAdmin(t, "admin", "wina")

	w := env.doJSON(t, http.MethodPost, "/api/fsr/wina/page", map[string]string{"path_en": "about"}, admin)
	expectError(t, w, http.StatusBadRequest, "Dutch path is required, English title is required, Dutch title is required")

	w = env.doJSON(t, http.MethodPost, "/api/fsr/wina/page", map[string]string{"path_en": "about"}, nil)
	expectError(t, w, http.StatusUnauthorized, "")
}

func TestGetPageVariants(t *testing.T) {
	env := setupHandlerTest(t)
	env.seedFSR(t, "wina")
	admin := env.seedAdmin(t, "admin", "wina")
	seedPage(t, env, admin)

	w := env.do(t, http.MethodGet, "/api/fsr/wina/page/over", nil, "", nil)
	if w.Code != http.StatusOK || w.Body.String() != "<div></div>" {
		t.Fatalf("expected empty body via dutch fallback, got %d %q", w.Code, w.Body.String())
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("expected html, got %s", w.Header().Get("Content-Type"))
	}

	w = env.do(t, http.MethodGet, "/api/fsr/wina/page/en/info/about", nil, "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"path_nl":"over"`) {
		t.Fatalf("expected page info, got %d %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/fsr/wina/page/info/over", nil, "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"title_en":"About"`) {
		t.Fatalf("expected page info via fallback, got %d %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/fsr/wina/page/nl/about", nil, "", nil)
	expectError(t, w, http.StatusNotFound, "Page with path nl/about not found for FSR wina")

	w = env.do(t, http.MethodGet, "/api/fsr/wina/pages", nil, "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"path_en":"about"`) {
		t.Fatalf("expected page list, got %d %s", w.Code, w.Body.String())
	}
}

func TestPatchPageContentAndMetadata(t *testing.T) {
	env := setupHandlerTest(t)
	env.seedFSR(t, "wina")
	admin := env.seedAdmin(t, "admin", "wina")
	seedPage(t, env, admin)

	w := env.doJSON(t, http.MethodPatch, "/api/fsr/wina/page/content/en/about", map[string]string{"content": ""}, admin)
	expectError(t, w, http.StatusBadRequest, "Content is required")

	w = env.doJSON(t, http.MethodPatch, "/api/fsr/wina/page/content/en/about", map[string]string{"content": "# Hello", "format": "markdown"}, admin)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}

	w = env.doJSON(t, http.MethodPatch, "/api/fsr/wina/page/en/about", map[string]string{"path_en": "team/about-us"}, admin)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"path_en":"team/about-us"`) {
		t.Fatalf("expected renamed page, got %d %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/fsr/wina/page/en/info/team/about-us", nil, "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"title_en":"About"`) {
		t.Fatalf("expected info of renamed page, got %d %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/fsr/wina/page/en/team/about-us", nil, "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "<h1") {
		t.Fatalf("expected rendered markdown under the new path, got %d %q", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/fsr/wina/page/en/about", nil, "", nil)
	expectError(t, w, http.StatusNotFound, "Page with path en/about not found for FSR wina")

	w = env.doJSON(t, http.MethodPatch, "/api/fsr/wina/page/fr/about", map[string]string{"path_en": "x"}, admin)
	expectError(t, w, http.StatusNotFound, "Language fr not supported")
}

func TestPageContentAfterRename(t *testing.T) {
	env := setupHandlerTest(t)
	env.seedFSR(t, "wina")
	admin := env.seedAdmin(t, "admin", "wina")
	seedPage(t, env, admin)

	w := env.doJSON(t, http.MethodPatch, "/api/fsr/wina/page/content/nl/over", map[string]string{"content": "<p>Welkom</p>"}, admin)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	w = env.doJSON(t, http.MethodPatch, "/api/fsr/wina/page/nl/over", map[string]string{"path_nl": "wie-zijn-we"}, admin)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/fsr/wina/page/nl/wie-zijn-we", nil, "", nil)
	if w.Code != http.StatusOK || w.Body.String() != "<p>Welkom</p>" {
		t.Fatalf("expected moved body, got %d %q", w.Code, w.Body.String())
	}
}

func TestDeletePage(t *testing.T) {
	env := setupHandlerTest(t)
	env.seedFSR(t, "wina")
	admin := env.seedAdmin(t, "admin", "wina")
	seedPage(t, env, admin)

	w := env.do(t, http.MethodDelete, "/api/fsr/wina/page/over", nil, "", admin)
	expectError(t, w, http.StatusNotFound, "Language over not supported")

	w = env.do(t, http.MethodDelete, "/api/fsr/wina/page/nl/over", nil, "", admin)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	w = env.do(t, http.MethodGet, "/api/fsr/wina/page/about", nil, "", nil)
	expectError(t, w, http.StatusNotFound, "")
}

func TestParsePageRoutes(t *testing.T) {
	read := []struct {
		rest string
		want pageRoute
	}{
		{"/about", pageRoute{path: "about"}},
		{"/en/about", pageRoute{lang: "en", path: "about"}},
		{"/en", pageRoute{path: "en"}},
		{"/info/a/b", pageRoute{marker: "info", path: "a/b"}},
		{"/nl/info/over", pageRoute{lang: "nl", marker: "info", path: "over"}},
		{"/nl/info", pageRoute{lang: "nl", path: "info"}},
		{"/fr/about", pageRoute{path: "fr/about"}},
	}
	for _, tt := range read {
		if got := parseReadRoute(tt.rest); got != tt.want {
			t.Fatalf("parseReadRoute(%q) = %+v, want %+v", tt.rest, got, tt.want)
		}
	}

	write := []struct {
		rest string
		want pageRoute
	}{
		{"/en/about", pageRoute{lang: "en", rawLang: "en", path: "about"}},
		{"/content/nl/a/b", pageRoute{lang: "nl", rawLang: "nl", marker: "content", path: "a/b"}},
		{"/fr/about", pageRoute{rawLang: "fr", path: "about"}},
	}
	for _, tt := range write {
		if got := parseWriteRoute(tt.rest); got != tt.want {
			t.Fatalf("parseWriteRoute(%q) = %+v, want %+v", tt.rest, got, tt.want)
		}
	}
}
