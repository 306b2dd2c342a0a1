package router

import (
	"fmt"
	"net/http"

	"github.com/fsrsite/internal/handler"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"gorm.io/gorm"
)

const (
	sessionName   = "fsr_session"
	sessionMaxAge = 21 * 24 * 60 * 60
)

// Options configures sessions and CORS.
type Options struct {
	SessionSecret string
	// SessionStore is "cookie" or "gorm".
	SessionStore  string
	SessionSecure bool
	CORSOrigins   []string
}

// SetupRouter configures the Gin engine and its routes.
func SetupRouter(api *handler.API, gdb *gorm.DB, opts Options) (*gin.Engine, error) {
	store, err := newSessionStore(gdb, opts)
	if err != nil {
		return nil, err
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   opts.SessionSecure,
		SameSite: http.SameSiteLaxMode,
	})

	handler.RegisterValidators()

	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	r.Use(handler.Recovery(), handler.RequestLogger(), handler.SecurityHeaders())
	r.Use(sessions.Sessions(sessionName, store))

	api.RegisterRoutes(r)

	return r, nil
}

// Handler is SetupRouter wrapped with CORS, ready for http.Server.
func Handler(api *handler.API, gdb *gorm.DB, opts Options) (http.Handler, error) {
	r, err := SetupRouter(api, gdb, opts)
	if err != nil {
		return nil, err
	}
	return WithCORS(r, opts.CORSOrigins), nil
}

// WithCORS wraps h with rs/cors when origins are configured.
func WithCORS(h http.Handler, origins []string) http.Handler {
	if len(origins) == 0 {
		return h
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	}).Handler(h)
}

func newSessionStore(gdb *gorm.DB, opts Options) (sessions.Store, error) {
	secret := []byte(opts.SessionSecret)
	switch opts.SessionStore {
	case "", "cookie":
		return cookie.NewStore(secret), nil
	case "gorm":
		if gdb == nil {
			return nil, fmt.Errorf("gorm session store needs a database")
		}
		return gormsessions.NewStore(gdb, true, secret), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", opts.SessionStore)
	}
}
