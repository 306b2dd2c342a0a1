package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"regexp"
	"strings"

	"github.com/fsrsite/internal/apperr"
	"github.com/fsrsite/internal/content"
	"github.com/fsrsite/internal/db"
	_ "golang.org/x/image/webp"
	"gorm.io/gorm"
)

var fsrSlugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ValidFSRSlug reports whether slug can be used as an FSR identifier.
func ValidFSRSlug(slug string) bool {
	return len(slug) <= 64 && fsrSlugPattern.MatchString(slug)
}

// FSRService manages associations and their logos.
type FSRService struct {
	db    *gorm.DB
	store content.Store
}

// FSRSummary is the public listing shape of an FSR.
type FSRSummary struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// FSRInput holds the fields accepted when creating an FSR.
type FSRInput struct {
	Name           string
	Slug           string
	PrimaryColor   string
	SecondaryColor string
	Links          FSRLinks
}

// FSRLinks are the optional social links of an FSR.
type FSRLinks struct {
	UforaURL     string
	FacebookURL  string
	InstagramURL string
	DiscordURL   string
	LinkedinURL  string
	TiktokURL    string
	GithubURL    string
}

// FSRPatch is a partial update; nil fields are left untouched.
type FSRPatch struct {
	Name           *string
	PrimaryColor   *string
	SecondaryColor *string
	UforaURL       *string
	FacebookURL    *string
	InstagramURL   *string
	DiscordURL     *string
	LinkedinURL    *string
	TiktokURL      *string
	GithubURL      *string
}

func NewFSRService(gdb *gorm.DB, store content.Store) *FSRService {
	return &FSRService{db: gdb, store: store}
}

// List returns every FSR ordered by name.
func (s *FSRService) List(ctx context.Context) ([]FSRSummary, error) {
	var summaries []FSRSummary
	if err := s.db.WithContext(ctx).
		Model(&db.FSR{}).
		Select("slug", "name").
		Order("name asc").
		Find(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

// GetBySlug loads a single FSR.
func (s *FSRService) GetBySlug(ctx context.Context, slug string) (*db.FSR, error) {
	var fsr db.FSR
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&fsr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFSRNotFound.Withf("FSR with slug %s not found", slug)
		}
		return nil, err
	}
	return &fsr, nil
}

// Create validates input, stores the optional logo and inserts the FSR.
func (s *FSRService) Create(ctx context.Context, input FSRInput, logo *Upload) (*db.FSR, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Slug = strings.TrimSpace(input.Slug)
	input.PrimaryColor = strings.TrimSpace(input.PrimaryColor)
	input.SecondaryColor = strings.TrimSpace(input.SecondaryColor)

	var missing []string
	for _, field := range []struct{ name, value string }{
		{"name", input.Name},
		{"slug", input.Slug},
		{"primaryColor", input.PrimaryColor},
		{"secondaryColor", input.SecondaryColor},
	} {
		if field.value == "" {
			missing = append(missing, field.name+" is required")
		}
	}
	if len(missing) > 0 {
		return nil, apperr.BadRequest(strings.Join(missing, ", "), "FIELDS_REQUIRED")
	}
	if !ValidFSRSlug(input.Slug) {
		return nil, ErrFSRSlugInvalid
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&db.FSR{}).Where("slug = ?", input.Slug).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrFSRSlugTaken.Withf("FSR with slug %s already exists", input.Slug)
	}

	fsr := db.FSR{
		Slug:           input.Slug,
		Name:           input.Name,
		PrimaryColor:   input.PrimaryColor,
		SecondaryColor: input.SecondaryColor,
		UforaURL:       strings.TrimSpace(input.Links.UforaURL),
		FacebookURL:    strings.TrimSpace(input.Links.FacebookURL),
		InstagramURL:   strings.TrimSpace(input.Links.InstagramURL),
		DiscordURL:     strings.TrimSpace(input.Links.DiscordURL),
		LinkedinURL:    strings.TrimSpace(input.Links.LinkedinURL),
		TiktokURL:      strings.TrimSpace(input.Links.TiktokURL),
		GithubURL:      strings.TrimSpace(input.Links.GithubURL),
	}

	// The row goes first so a failed insert never leaves a logo behind. A
	// failed logo write rolls the row back.
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&fsr).Error; err != nil {
			return err
		}
		if logo == nil {
			return nil
		}
		logoPath, err := s.storeLogo(ctx, fsr.Slug, logo)
		if err != nil {
			return err
		}
		fsr.LogoPath = logoPath
		return tx.Model(&fsr).Update("logo_path", logoPath).Error
	})
	if err != nil {
		return nil, err
	}
	return &fsr, nil
}

// Update applies patch to the FSR identified by slug. The slug itself never changes.
func (s *FSRService) Update(ctx context.Context, slug string, patch FSRPatch) (*db.FSR, error) {
	fsr, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	changed := false
	apply := func(dst *string, value *string, required bool) {
		if value == nil {
			return
		}
		trimmed := strings.TrimSpace(*value)
		if required && trimmed == "" {
			return
		}
		*dst = trimmed
		changed = true
	}

	apply(&fsr.Name, patch.Name, true)
	apply(&fsr.PrimaryColor, patch.PrimaryColor, true)
	apply(&fsr.SecondaryColor, patch.SecondaryColor, true)
	apply(&fsr.UforaURL, patch.UforaURL, false)
	apply(&fsr.FacebookURL, patch.FacebookURL, false)
	apply(&fsr.InstagramURL, patch.InstagramURL, false)
	apply(&fsr.DiscordURL, patch.DiscordURL, false)
	apply(&fsr.LinkedinURL, patch.LinkedinURL, false)
	apply(&fsr.TiktokURL, patch.TiktokURL, false)
	apply(&fsr.GithubURL, patch.GithubURL, false)

	if !changed {
		return nil, ErrFSRNoChanges
	}

	if err := s.db.WithContext(ctx).Save(fsr).Error; err != nil {
		return nil, err
	}
	return fsr, nil
}

// UpdateLogo replaces the logo of an existing FSR.
func (s *FSRService) UpdateLogo(ctx context.Context, slug string, logo *Upload) (*db.FSR, error) {
	if logo == nil {
		return nil, ErrLogoInvalid
	}
	fsr, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	previous := fsr.LogoPath
	logoPath, err := s.storeLogo(ctx, fsr.Slug, logo)
	if err != nil {
		return nil, err
	}

	fsr.LogoPath = logoPath
	if err := s.db.WithContext(ctx).Model(fsr).Update("logo_path", logoPath).Error; err != nil {
		return nil, err
	}

	if previous != "" && previous != logoPath {
		if err := s.store.Delete(ctx, previous); err != nil && !errors.Is(err, content.ErrNotExist) {
			return nil, err
		}
	}
	return fsr, nil
}

// Logo opens the stored logo of an FSR and returns its MIME type.
func (s *FSRService) Logo(ctx context.Context, slug string) (io.ReadCloser, string, error) {
	fsr, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return nil, "", err
	}
	if fsr.LogoPath == "" {
		return nil, "", ErrLogoNotFound
	}

	body, err := s.store.Read(ctx, fsr.LogoPath)
	if err != nil {
		if errors.Is(err, content.ErrNotExist) {
			return nil, "", ErrLogoNotFound
		}
		return nil, "", err
	}
	mime, _, err := sniff(bytes.NewReader(body))
	if err != nil {
		return nil, "", err
	}
	return io.NopCloser(bytes.NewReader(body)), mime.String(), nil
}

func (s *FSRService) storeLogo(ctx context.Context, slug string, logo *Upload) (string, error) {
	body, err := io.ReadAll(logo.Reader)
	if err != nil {
		return "", err
	}

	mime, _, err := sniff(bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(mime.String(), "image/") {
		return "", ErrLogoInvalid
	}
	// Raster logos must at least carry a readable header; SVG is text.
	if !mime.Is("image/svg+xml") {
		if _, _, err := image.DecodeConfig(bytes.NewReader(body)); err != nil {
			return "", ErrLogoInvalid
		}
	}

	key := fmt.Sprintf("%s/%s%s", content.LogosPrefix, slug, mime.Extension())
	if err := s.store.Write(ctx, key, bytes.NewReader(body)); err != nil {
		return "", err
	}
	return key, nil
}
