package handler

import (
	"github.com/fsrsite/internal/cas"
	"github.com/fsrsite/internal/content"
	"github.com/fsrsite/internal/service"
	"gorm.io/gorm"
)

// Options carries the configuration the handlers need at request time.
type Options struct {
	// SuperFSR is the umbrella FSR whose admins may create new FSRs.
	SuperFSR string
	// PublicBaseURL overrides the scheme and host used in CAS service URLs.
	PublicBaseURL  string
	UploadMaxBytes int64
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db    *gorm.DB
	fsrs  *service.FSRService
	users *service.UserService
	pages *service.PageService
	media *service.MediaService
	cas   *cas.Client
	opts  Options
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, store content.Store, casClient *cas.Client, opts Options) *API {
	if opts.SuperFSR == "" {
		opts.SuperFSR = "gsr"
	}
	return &API{
		db:    gdb,
		fsrs:  service.NewFSRService(gdb, store),
		users: service.NewUserService(gdb),
		pages: service.NewPageService(gdb, store),
		media: service.NewMediaService(gdb, store),
		cas:   casClient,
		opts:  opts,
	}
}

// Media exposes the media service so the purge job shares it.
func (a *API) Media() *service.MediaService {
	return a.media
}
