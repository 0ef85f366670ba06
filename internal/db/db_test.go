package db

import (
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"
	gormlogger "gorm.io/gorm/logger"
)

func TestInitCreatesParentDirAndTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "blog.db")

	gdb, err := Init(Options{Driver: "sqlite", DSN: path, Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		t.Fatalf("init database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	for _, model := range []any{&User{}, &Category{}, &Post{}, &Comment{}} {
		if !gdb.Migrator().HasTable(model) {
			t.Fatalf("expected table for %T", model)
		}
	}
	if DB != gdb {
		t.Fatalf("expected global DB to be set")
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(Options{Driver: "oracle", DSN: "x"}); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
	if _, err := Open(Options{Driver: "postgres"}); err == nil {
		t.Fatalf("expected error for empty postgres dsn")
	}
}

func TestEnsureUserCreatesOnceAndPromotes(t *testing.T) {
	gdb, err := Init(Options{DSN: "file:ensure-user?mode=memory&cache=shared", Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		t.Fatalf("init database: %v", err)
	}

	user, err := EnsureUser(gdb, " admin ", "admin123", false)
	if err != nil {
		t.Fatalf("ensure user: %v", err)
	}
	if user.Username != "admin" || user.IsStaff {
		t.Fatalf("unexpected user: %+v", user)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("admin123")) != nil {
		t.Fatalf("expected bcrypt hashed password")
	}

	again, err := EnsureUser(gdb, "admin", "other-password", true)
	if err != nil {
		t.Fatalf("ensure existing user: %v", err)
	}
	if again.ID != user.ID || !again.IsStaff {
		t.Fatalf("expected same user promoted to staff, got %+v", again)
	}
	if bcrypt.CompareHashAndPassword([]byte(again.Password), []byte("admin123")) != nil {
		t.Fatalf("existing password must be kept")
	}

	var count int64
	gdb.Model(&User{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 user, got %d", count)
	}

	if _, err := EnsureUser(gdb, "", "x", false); err == nil {
		t.Fatalf("expected error for empty username")
	}
}
