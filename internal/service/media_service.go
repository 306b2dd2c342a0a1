package service

import (
	"context"
	"errors"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/fsrsite/internal/content"
	"github.com/fsrsite/internal/db"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// MediaService manages uploaded files.
type MediaService struct {
	db    *gorm.DB
	store content.Store
	now   func() time.Time
}

func NewMediaService(gdb *gorm.DB, store content.Store) *MediaService {
	return &MediaService{db: gdb, store: store, now: time.Now}
}

func mediaKey(p string) string {
	return path.Join(content.MediaPrefix, p)
}

func deletedMediaKey(p string) string {
	return path.Join(content.DeletedMediaPrefix, p)
}

// List returns the live media of fsr, newest first.
func (s *MediaService) List(ctx context.Context, fsr string) ([]db.Media, error) {
	var items []db.Media
	if err := s.db.WithContext(ctx).
		Where("fsr_slug = ?", fsr).
		Order("created_at desc").
		Order("id desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Get looks up live media by its storage path.
func (s *MediaService) Get(ctx context.Context, fsr, mediaPath string) (*db.Media, error) {
	var media db.Media
	err := s.db.WithContext(ctx).
		Where("fsr_slug = ? AND path = ?", fsr, mediaPath).
		First(&media).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMediaNotFound.Withf("Media with path %s not found for FSR %s", mediaPath, fsr)
		}
		return nil, err
	}
	return &media, nil
}

// Open returns the bytes of live media together with its row.
func (s *MediaService) Open(ctx context.Context, fsr, mediaPath string) (io.ReadCloser, *db.Media, error) {
	media, err := s.Get(ctx, fsr, mediaPath)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.store.Open(ctx, mediaKey(media.Path))
	if err != nil {
		if errors.Is(err, content.ErrNotExist) {
			return nil, nil, ErrContentNotFound
		}
		return nil, nil, err
	}
	return rc, media, nil
}

// Create stores an upload. The row is inserted first so its id can be
// appended to the file name, which keeps storage paths unique.
func (s *MediaService) Create(ctx context.Context, fsr string, upload Upload) (*db.Media, error) {
	name := strings.TrimSpace(upload.Name)
	if name == "" || upload.Reader == nil {
		return nil, ErrMediaNameMissing
	}

	detected, body, err := sniff(upload.Reader)
	if err != nil {
		return nil, err
	}

	media := db.Media{
		FSRSlug:  fsr,
		Name:     name,
		Path:     safeFileName(name),
		MimeType: resolveMimeType(upload.MimeType, detected),
		Size:     upload.Size,
	}
	tx := s.db.WithContext(ctx)
	if err := tx.Create(&media).Error; err != nil {
		return nil, err
	}

	media.Path = withSuffix(media.Path, strconv.FormatUint(uint64(media.ID), 10))
	if err := tx.Model(&media).Update("path", media.Path).Error; err != nil {
		return nil, err
	}

	counter := &countingReader{r: body}
	if err := s.store.Write(ctx, mediaKey(media.Path), counter); err != nil {
		log.Error().Err(err).Uint("media_id", media.ID).Str("path", media.Path).Msg("media row created but content write failed")
		return nil, err
	}
	if media.Size != counter.n {
		media.Size = counter.n
		if err := tx.Model(&media).Update("size", media.Size).Error; err != nil {
			return nil, err
		}
	}
	return &media, nil
}

// Delete moves the bytes to the deleted area and soft-deletes the row.
func (s *MediaService) Delete(ctx context.Context, fsr, mediaPath string) error {
	media, err := s.Get(ctx, fsr, mediaPath)
	if err != nil {
		return err
	}

	err = s.store.Rename(ctx, mediaKey(media.Path), deletedMediaKey(media.Path))
	if err != nil && !errors.Is(err, content.ErrNotExist) {
		return err
	}
	return s.db.WithContext(ctx).Delete(media).Error
}

// PurgeDeleted permanently removes media soft-deleted before cutoff and
// returns how many rows were purged.
func (s *MediaService) PurgeDeleted(ctx context.Context, cutoff time.Time) (int, error) {
	var expired []db.Media
	if err := s.db.WithContext(ctx).
		Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Find(&expired).Error; err != nil {
		return 0, err
	}

	purged := 0
	for i := range expired {
		media := &expired[i]
		key := deletedMediaKey(media.Path)
		if err := s.store.Delete(ctx, key); err != nil && !errors.Is(err, content.ErrNotExist) {
			log.Warn().Err(err).Str("key", key).Msg("failed to purge media content")
			continue
		}
		if err := s.db.WithContext(ctx).Unscoped().Delete(media).Error; err != nil {
			return purged, err
		}
		purged++
	}
	return purged, nil
}

// PurgeOlderThan purges media deleted more than retention ago.
func (s *MediaService) PurgeOlderThan(ctx context.Context, retention time.Duration) (int, error) {
	return s.PurgeDeleted(ctx, s.now().Add(-retention))
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
