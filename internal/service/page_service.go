package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/fsrsite/internal/apperr"
	"github.com/fsrsite/internal/content"
	"github.com/fsrsite/internal/db"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Language is one of the two languages every page is published in.
type Language string

const (
	LangEN Language = "en"
	LangNL Language = "nl"
)

// Languages lists the supported languages in lookup order.
var Languages = []Language{LangEN, LangNL}

// ParseLanguage validates raw as a supported language.
func ParseLanguage(raw string) (Language, error) {
	switch Language(raw) {
	case LangEN, LangNL:
		return Language(raw), nil
	default:
		return "", ErrLanguageInvalid.Withf("Invalid language specified: %s", raw)
	}
}

const emptyPageBody = "<div></div>"

var pageSegmentPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidPagePath reports whether path is a slash separated list of safe segments.
func ValidPagePath(path string) bool {
	if path == "" || len(path) > 255 {
		return false
	}
	for _, segment := range strings.Split(path, "/") {
		if segment == "." || segment == ".." || !pageSegmentPattern.MatchString(segment) {
			return false
		}
	}
	return true
}

// PageTranslation is the path and title of a page in one language.
type PageTranslation struct {
	Title string
	Path  string
}

// PageInfo describes both language variants of a page.
type PageInfo struct {
	EN PageTranslation
	NL PageTranslation
}

// PageService manages pages and their bodies in the content store.
type PageService struct {
	db       *gorm.DB
	store    content.Store
	renderer *ContentRenderer
}

func NewPageService(gdb *gorm.DB, store content.Store) *PageService {
	return &PageService{db: gdb, store: store, renderer: NewContentRenderer()}
}

func pageContentKey(fsr, path string, lang Language) string {
	return fmt.Sprintf("%s/%s/%s.%s.html", content.PagesPrefix, fsr, path, lang)
}

func pathColumn(lang Language) string {
	if lang == LangNL {
		return "path_nl"
	}
	return "path_en"
}

func pagePath(page *db.Page, lang Language) string {
	if lang == LangNL {
		return page.PathNL
	}
	return page.PathEN
}

// List returns every page of fsr.
func (s *PageService) List(ctx context.Context, fsr string) ([]db.Page, error) {
	var pages []db.Page
	if err := s.db.WithContext(ctx).
		Where("fsr_slug = ?", fsr).
		Order("path_en asc").
		Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

// GetByPath looks a page up by its path in lang.
func (s *PageService) GetByPath(ctx context.Context, fsr, path string, lang Language) (*db.Page, error) {
	if _, err := ParseLanguage(string(lang)); err != nil {
		return nil, err
	}

	var page db.Page
	err := s.db.WithContext(ctx).
		Where("fsr_slug = ? AND "+pathColumn(lang)+" = ?", fsr, path).
		First(&page).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound.Withf("Page with path %s/%s not found for FSR %s", lang, path, fsr)
		}
		return nil, err
	}
	return &page, nil
}

// GetByPathAnyLanguage tries English first and falls back to Dutch when the
// English lookup finds nothing.
func (s *PageService) GetByPathAnyLanguage(ctx context.Context, fsr, path string) (*db.Page, Language, error) {
	var lastErr error
	for _, lang := range Languages {
		page, err := s.GetByPath(ctx, fsr, path, lang)
		if err == nil {
			return page, lang, nil
		}
		if !errors.Is(err, ErrPageNotFound) {
			return nil, "", err
		}
		lastErr = err
	}
	return nil, "", lastErr
}

// Content returns the stored HTML body of the page at path in lang.
func (s *PageService) Content(ctx context.Context, fsr, path string, lang Language) ([]byte, error) {
	page, err := s.GetByPath(ctx, fsr, path, lang)
	if err != nil {
		return nil, err
	}

	body, err := s.store.Read(ctx, pageContentKey(fsr, pagePath(page, lang), lang))
	if err != nil {
		if errors.Is(err, content.ErrNotExist) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	if len(body) == 0 {
		return nil, ErrContentNotFound
	}
	return body, nil
}

// ContentAnyLanguage is Content with the English-then-Dutch fallback.
func (s *PageService) ContentAnyLanguage(ctx context.Context, fsr, path string) ([]byte, error) {
	_, lang, err := s.GetByPathAnyLanguage(ctx, fsr, path)
	if err != nil {
		return nil, err
	}
	return s.Content(ctx, fsr, path, lang)
}

// UpdateContent renders and sanitizes body and stores it for the page.
func (s *PageService) UpdateContent(ctx context.Context, fsr, path string, lang Language, body string, format ContentFormat) error {
	if strings.TrimSpace(body) == "" {
		return ErrContentMissing
	}

	page, err := s.GetByPath(ctx, fsr, path, lang)
	if err != nil {
		return err
	}

	rendered, err := s.renderer.Render(body, format)
	if err != nil {
		return err
	}
	if strings.TrimSpace(rendered) == "" {
		return ErrContentMissing
	}
	return content.WriteString(ctx, s.store, pageContentKey(fsr, pagePath(page, lang), lang), rendered)
}

// Create inserts a page and seeds an empty body for both languages.
func (s *PageService) Create(ctx context.Context, fsr string, info PageInfo) (*db.Page, error) {
	info = trimPageInfo(info)

	var missing []string
	if info.EN.Path == "" {
		missing = append(missing, "English path is required")
	}
	if info.NL.Path == "" {
		missing = append(missing, "Dutch path is required")
	}
	if info.EN.Title == "" {
		missing = append(missing, "English title is required")
	}
	if info.NL.Title == "" {
		missing = append(missing, "Dutch title is required")
	}
	if len(missing) > 0 {
		return nil, apperr.BadRequest(strings.Join(missing, ", "), "FIELDS_REQUIRED")
	}

	for _, candidate := range []struct {
		lang Language
		path string
	}{{LangEN, info.EN.Path}, {LangNL, info.NL.Path}} {
		if err := s.checkPathAvailable(ctx, fsr, candidate.lang, candidate.path, 0); err != nil {
			return nil, err
		}
	}

	page := db.Page{
		FSRSlug: fsr,
		PathEN:  info.EN.Path,
		TitleEN: info.EN.Title,
		PathNL:  info.NL.Path,
		TitleNL: info.NL.Title,
	}
	if err := s.db.WithContext(ctx).Create(&page).Error; err != nil {
		return nil, err
	}

	for _, lang := range Languages {
		if err := content.WriteString(ctx, s.store, pageContentKey(fsr, pagePath(&page, lang), lang), emptyPageBody); err != nil {
			return nil, err
		}
	}
	return &page, nil
}

// Update changes titles and paths of the page found at path in lang. Empty
// fields keep their current value. Renamed paths move the stored bodies
// after the row is saved.
func (s *PageService) Update(ctx context.Context, fsr, path string, lang Language, patch PageInfo) (*db.Page, error) {
	page, err := s.GetByPath(ctx, fsr, path, lang)
	if err != nil {
		return nil, err
	}
	patch = trimPageInfo(patch)
	before := *page

	if patch.EN.Path != "" && patch.EN.Path != page.PathEN {
		if err := s.checkPathAvailable(ctx, fsr, LangEN, patch.EN.Path, page.ID); err != nil {
			return nil, err
		}
		page.PathEN = patch.EN.Path
	}
	if patch.NL.Path != "" && patch.NL.Path != page.PathNL {
		if err := s.checkPathAvailable(ctx, fsr, LangNL, patch.NL.Path, page.ID); err != nil {
			return nil, err
		}
		page.PathNL = patch.NL.Path
	}
	if patch.EN.Title != "" {
		page.TitleEN = patch.EN.Title
	}
	if patch.NL.Title != "" {
		page.TitleNL = patch.NL.Title
	}

	if err := s.db.WithContext(ctx).Save(page).Error; err != nil {
		return nil, err
	}

	for _, l := range Languages {
		oldPath, newPath := pagePath(&before, l), pagePath(page, l)
		if oldPath == newPath {
			continue
		}
		err := s.store.Rename(ctx, pageContentKey(fsr, oldPath, l), pageContentKey(fsr, newPath, l))
		if errors.Is(err, content.ErrNotExist) {
			log.Warn().Str("fsr", fsr).Str("lang", string(l)).Str("path", oldPath).Msg("page body missing, seeding an empty one")
			err = content.WriteString(ctx, s.store, pageContentKey(fsr, newPath, l), emptyPageBody)
		}
		if err != nil {
			return nil, err
		}
	}
	return page, nil
}

// Delete removes the page found at path in lang, then its stored bodies.
func (s *PageService) Delete(ctx context.Context, fsr, path string, lang Language) error {
	page, err := s.GetByPath(ctx, fsr, path, lang)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(page).Error; err != nil {
		return err
	}

	for _, l := range Languages {
		key := pageContentKey(fsr, pagePath(page, l), l)
		if err := s.store.Delete(ctx, key); err != nil && !errors.Is(err, content.ErrNotExist) {
			log.Warn().Err(err).Str("key", key).Msg("failed to remove page body")
		}
	}
	return nil
}

func (s *PageService) checkPathAvailable(ctx context.Context, fsr string, lang Language, path string, exceptID uint) error {
	if !ValidPagePath(path) {
		return ErrPagePathInvalid.Withf("Invalid %s path: %s", lang, path)
	}

	query := s.db.WithContext(ctx).Model(&db.Page{}).Where("fsr_slug = ? AND "+pathColumn(lang)+" = ?", fsr, path)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrPagePathTaken.Withf("Path %s/%s is already in use", lang, path)
	}
	return nil
}

func trimPageInfo(info PageInfo) PageInfo {
	return PageInfo{
		EN: PageTranslation{Title: strings.TrimSpace(info.EN.Title), Path: strings.Trim(strings.TrimSpace(info.EN.Path), "/")},
		NL: PageTranslation{Title: strings.TrimSpace(info.NL.Title), Path: strings.Trim(strings.TrimSpace(info.NL.Path), "/")},
	}
}
