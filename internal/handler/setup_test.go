package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/fsrsite/internal/cas"
	"github.com/fsrsite/internal/content"
	"github.com/fsrsite/internal/db"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const casSuccessXML = `<cas:serviceResponse xmlns:cas="http://www.yale.edu/tp/cas">
<cas:authenticationSuccess>
<cas:user>jdoe</cas:user>
<cas:attributes>
<cas:givenname>Jane</cas:givenname>
<cas:surname>Doe</cas:surname>
<cas:ugentID>000200012345</cas:ugentID>
</cas:attributes>
</cas:authenticationSuccess>
</cas:serviceResponse>`

const casFailureXML = `<cas:serviceResponse xmlns:cas="http://www.yale.edu/tp/cas">
<cas:authenticationFailure code="INVALID_TICKET">Ticket not recognized</cas:authenticationFailure>
</cas:serviceResponse>`

type testEnv struct {
	api       *API
	router    *gin.Engine
	db        *gorm.DB
	store     *content.FSStore
	services  []string
	casServer *httptest.Server
}

func setupHandlerTest(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	store, err := content.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create content store: %v", err)
	}

	env := &testEnv{db: gdb, store: store}
	env.casServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path != "/serviceValidate":
			http.NotFound(w, r)
		case r.URL.Query().Get("ticket") == "ST-broken":
			w.WriteHeader(http.StatusBadGateway)
		case r.URL.Query().Get("ticket") == "ST-valid":
			env.services = append(env.services, r.URL.Query().Get("service"))
			w.Write([]byte(casSuccessXML))
		default:
			w.Write([]byte(casFailureXML))
		}
	}))

	env.api = NewAPI(gdb, store, cas.New(env.casServer.URL, time.Second), Options{
		SuperFSR:       "gsr",
		PublicBaseURL:  "https://fsr.test",
		UploadMaxBytes: 1 << 20,
	})

	RegisterValidators()
	r := gin.New()
	r.Use(Recovery(), RequestLogger(), SecurityHeaders())
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))
	r.GET("/test/login/:id", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(sessionUserKey, c.Param("id"))
		session.Save()
		c.Status(http.StatusNoContent)
	})
	env.api.RegisterRoutes(r)
	env.router = r

	t.Cleanup(func() {
		env.casServer.Close()
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return env
}

func (e *testEnv) seedFSR(t *testing.T, slug string) db.FSR {
	t.Helper()
	fsr := db.FSR{Slug: slug, Name: "FSR " + slug, PrimaryColor: "#112233", SecondaryColor: "#445566"}
	if err := e.db.Create(&fsr).Error; err != nil {
		t.Fatalf("failed to seed fsr: %v", err)
	}
	return fsr
}

// seedAdmin creates a user, grants them admin of every slug and returns
// their session cookies.
func (e *testEnv) seedAdmin(t *testing.T, id string, slugs ...string) []*http.Cookie {
	t.Helper()
	if err := e.db.Create(&db.User{ID: id, FirstName: "Admin", LastName: id}).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	for _, slug := range slugs {
		if err := e.db.Create(&db.UserAdmin{UserID: id, FSRSlug: slug}).Error; err != nil {
			t.Fatalf("failed to seed admin grant: %v", err)
		}
	}
	return e.login(t, id)
}

func (e *testEnv) login(t *testing.T, id string) []*http.Cookie {
	t.Helper()
	w := e.do(t, http.MethodGet, "/test/login/"+id, nil, "", nil)
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}
	return cookies
}

func (e *testEnv) do(t *testing.T, method, target string, body io.Reader, contentType string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doJSON(t *testing.T, method, target string, payload interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to encode payload: %v", err)
	}
	return e.do(t, method, target, bytes.NewReader(body), "application/json", cookies)
}

type formFile struct {
	field, name, contentType string
	body                     []byte
}

func multipartBody(t *testing.T, fields map[string]string, files ...formFile) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write field: %v", err)
		}
	}
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.name)}
		if f.contentType != "" {
			header["Content-Type"] = []string{f.contentType}
		}
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("failed to create part: %v", err)
		}
		part.Write(f.body)
	}
	writer.Close()
	return &buf, writer.FormDataContentType()
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(dst); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, w.Code, w.Body.String())
	}
	var body struct {
		Message string `json:"message"`
	}
	decodeJSON(t, w, &body)
	if message != "" && body.Message != message {
		t.Fatalf("expected message %q, got %q", message, body.Message)
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 1, color.RGBA{B: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}
