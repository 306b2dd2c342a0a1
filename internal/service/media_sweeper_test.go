package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fsrsite/internal/db"
)

func TestNewMediaSweeperRejectsBadSchedule(t *testing.T) {
	svc, _, _ := newMediaServiceForTest(t)
	if _, err := NewMediaSweeper(svc, time.Hour, "every tuesday"); err == nil {
		t.Fatal("expected an invalid schedule to be rejected")
	}
}

func TestMediaSweeperRunPurgesExpired(t *testing.T) {
	svc, gdb, _ := newMediaServiceForTest(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "wina", Upload{Name: "old.txt", Reader: strings.NewReader("bye")})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := svc.Delete(ctx, "wina", created.Path); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	svc.now = func() time.Time { return time.Now().Add(48 * time.Hour) }

	sweeper, err := NewMediaSweeper(svc, 24*time.Hour, "@daily")
	if err != nil {
		t.Fatalf("NewMediaSweeper returned error: %v", err)
	}
	sweeper.Start()
	sweeper.run()
	sweeper.Stop()

	var count int64
	if err := gdb.Unscoped().Model(&db.Media{}).Where("id = ?", created.ID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count media: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected expired media to be purged, found %d rows", count)
	}
}
