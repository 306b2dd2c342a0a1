package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/fsrsite/internal/content"
	"github.com/fsrsite/internal/db"
	"gorm.io/gorm"
)

func newMediaServiceForTest(t *testing.T) (*MediaService, *gorm.DB, *content.FSStore) {
	t.Helper()
	gdb, store := setupServiceTestDB(t)
	seedFSR(t, gdb, "wina")
	return NewMediaService(gdb, store), gdb, store
}

func TestMediaCreateSuffixesPath(t *testing.T) {
	svc, _, store := newMediaServiceForTest(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, "wina", Upload{Name: "Team Photo.PNG", Reader: bytes.NewReader(pngBytes(t))})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	second, err := svc.Create(ctx, "wina", Upload{Name: "Team Photo.PNG", Reader: bytes.NewReader(pngBytes(t))})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if first.Path == second.Path {
		t.Fatalf("expected unique paths, both are %s", first.Path)
	}
	if !strings.HasPrefix(first.Path, "team-photo-") || !strings.HasSuffix(first.Path, ".png") {
		t.Fatalf("unexpected path %s", first.Path)
	}
	if first.Name != "Team Photo.PNG" {
		t.Fatalf("expected original name to be kept, got %s", first.Name)
	}
	if first.MimeType != "image/png" {
		t.Fatalf("expected sniffed image/png, got %s", first.MimeType)
	}
	if first.Size != int64(len(pngBytes(t))) {
		t.Fatalf("expected size from written bytes, got %d", first.Size)
	}

	if _, err := store.Read(ctx, "media/"+first.Path); err != nil {
		t.Fatalf("expected stored media: %v", err)
	}
}

func TestMediaCreateKeepsDeclaredType(t *testing.T) {
	svc, _, _ := newMediaServiceForTest(t)

	media, err := svc.Create(context.Background(), "wina", Upload{
		Name: "notes.txt", MimeType: "text/markdown", Reader: strings.NewReader("# notes"),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if media.MimeType != "text/markdown" {
		t.Fatalf("expected declared type, got %s", media.MimeType)
	}

	if _, err := svc.Create(context.Background(), "wina", Upload{Name: " ", Reader: strings.NewReader("x")}); !errors.Is(err, ErrMediaNameMissing) {
		t.Fatalf("expected missing name error, got %v", err)
	}
}

func TestMediaOpenAndList(t *testing.T) {
	svc, gdb, _ := newMediaServiceForTest(t)
	seedFSR(t, gdb, "gsr")
	ctx := context.Background()

	created, err := svc.Create(ctx, "wina", Upload{Name: "a.txt", Reader: strings.NewReader("hello")})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := svc.Create(ctx, "gsr", Upload{Name: "b.txt", Reader: strings.NewReader("other")}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	items, err := svc.List(ctx, "wina")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(items) != 1 || items[0].ID != created.ID {
		t.Fatalf("expected only wina media, got %+v", items)
	}

	rc, media, err := svc.Open(ctx, "wina", created.Path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "hello" || media.MimeType == "" {
		t.Fatalf("unexpected media %q %+v", body, media)
	}

	if _, _, err := svc.Open(ctx, "gsr", created.Path); !errors.Is(err, ErrMediaNotFound) {
		t.Fatalf("expected media to be scoped per fsr, got %v", err)
	}
}

func TestMediaDeleteIsSoft(t *testing.T) {
	svc, gdb, store := newMediaServiceForTest(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "wina", Upload{Name: "a.txt", Reader: strings.NewReader("hello")})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := svc.Delete(ctx, "wina", created.Path); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if _, err := svc.Get(ctx, "wina", created.Path); !errors.Is(err, ErrMediaNotFound) {
		t.Fatalf("expected deleted media to be hidden, got %v", err)
	}
	var row db.Media
	if err := gdb.Unscoped().First(&row, created.ID).Error; err != nil {
		t.Fatalf("expected row to survive: %v", err)
	}
	if !row.DeletedAt.Valid {
		t.Fatal("expected deleted_at to be set")
	}

	if _, err := store.Read(ctx, "media/"+created.Path); !errors.Is(err, content.ErrNotExist) {
		t.Fatalf("expected live copy to be gone, got %v", err)
	}
	if body, err := store.Read(ctx, "media/deleted/"+created.Path); err != nil || string(body) != "hello" {
		t.Fatalf("expected deleted copy, got %q %v", body, err)
	}

	if err := svc.Delete(ctx, "wina", created.Path); !errors.Is(err, ErrMediaNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestMediaPurgeOlderThan(t *testing.T) {
	svc, gdb, store := newMediaServiceForTest(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "wina", Upload{Name: "a.txt", Reader: strings.NewReader("hello")})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := svc.Delete(ctx, "wina", created.Path); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	purged, err := svc.PurgeOlderThan(ctx, time.Hour)
	if err != nil || purged != 0 {
		t.Fatalf("expected nothing to purge yet, got %d %v", purged, err)
	}

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	purged, err = svc.PurgeOlderThan(ctx, time.Hour)
	if err != nil || purged != 1 {
		t.Fatalf("expected one purged item, got %d %v", purged, err)
	}

	var count int64
	gdb.Unscoped().Model(&db.Media{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected row to be removed, %d left", count)
	}
	if _, err := store.Read(ctx, "media/deleted/"+created.Path); !errors.Is(err, content.ErrNotExist) {
		t.Fatalf("expected deleted copy to be purged, got %v", err)
	}
}

func TestSafeFileName(t *testing.T) {
	cases := map[string]string{
		"Team Photo.PNG":     "team-photo.png",
		"../../etc/passwd":   "passwd",
		`C:\Users\me\cv.pdf`: "cv.pdf",
		"...":                "file",
		"über café.jpg":      "ber-caf-.jpg",
	}
	for in, want := range cases {
		if got := safeFileName(in); got != want {
			t.Fatalf("safeFileName(%q) = %q, want %q", in, got, want)
		}
	}
	if got := withSuffix("photo.jpg", "7"); got != "photo-7.jpg" {
		t.Fatalf("unexpected suffix result %s", got)
	}
}
