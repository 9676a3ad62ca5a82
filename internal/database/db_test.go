package database

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/guestpass/guestpass/internal/models"
)

func TestOpenSQLiteMemory(t *testing.T) {
	db := openTestDB(t)

	if err := db.Exec("SELECT 1").Error; err != nil {
		t.Fatalf("expected health query to succeed: %v", err)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(Config{Driver: "oracle"}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestAutoMigrateCreatesSchema(t *testing.T) {
	db := openTestDB(t)

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	for _, model := range []any{&models.GuestInvite{}, &models.AuditLog{}} {
		if !db.Migrator().HasTable(model) {
			t.Fatalf("expected table for %T to exist", model)
		}
	}

	var count int64
	if err := db.Model(&models.GuestInvite{}).Count(&count).Error; err != nil {
		t.Fatalf("count guests: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty guest table, got %d rows", count)
	}
}

func TestUniqueTokenConstraint(t *testing.T) {
	db := openTestDB(t)

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	first := models.GuestInvite{
		FullName:     "Maria Silva",
		Email:        "maria@x.com",
		Phone:        "21999999999",
		State:        "RJ",
		City:         "Rio de Janeiro",
		CheckInToken: "shared-token",
		Status:       models.StatusPending,
	}
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("create first guest: %v", err)
	}

	second := models.GuestInvite{
		FullName:     "Other Guest",
		Email:        "other@x.com",
		Phone:        "11888888888",
		State:        "SP",
		City:         "Sao Paulo",
		CheckInToken: "shared-token",
		Status:       models.StatusPending,
	}
	err := db.Create(&second).Error
	if err == nil {
		t.Fatal("expected duplicate token to be rejected")
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected translated duplicate key error, got %v", err)
	}
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(Config{Driver: "sqlite"})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}
