package repository

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"notifyhub/internal/microservices/http-api/models"
)

// newTestDB opens a throwaway in-memory database with the real schema, so the
// SQL behind claiming, ordering and conflict handling is exercised for real
// instead of being mocked away.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test database: %v", err)
	}
	// A single connection keeps the shared in-memory database alive for the
	// whole test and serializes concurrent writers at the pool, the same
	// queue-for-the-row behavior a server-side database gives us.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(
		&models.User{},
		&models.NotificationTemplate{},
		&models.Notification{},
		&models.NotificationQueueEntry{},
		&models.NotificationLog{},
		&models.NotificationPreference{},
	); err != nil {
		t.Fatalf("migrate test schema: %v", err)
	}
	return db
}
