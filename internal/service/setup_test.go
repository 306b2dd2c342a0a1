package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/fsrsite/internal/content"
	"github.com/fsrsite/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) (*gorm.DB, *content.FSStore) {
	t.Helper()

	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano())
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

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb, store
}

func seedFSR(t *testing.T, gdb *gorm.DB, slug string) db.FSR {
	t.Helper()
	fsr := db.FSR{Slug: slug, Name: "FSR " + slug, PrimaryColor: "#112233", SecondaryColor: "#445566"}
	if err := gdb.Create(&fsr).Error; err != nil {
		t.Fatalf("failed to seed fsr: %v", err)
	}
	return fsr
}

func seedUser(t *testing.T, gdb *gorm.DB, id, first, last string) db.User {
	t.Helper()
	user := db.User{ID: id, FirstName: first, LastName: last}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}
