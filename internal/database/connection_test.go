package database_test

import (
	"strings"
	"testing"

	"github.com/creatorhq/creator-api/internal/config"
	"github.com/creatorhq/creator-api/internal/database"
)

func TestConnectUnsupportedType(t *testing.T) {
	_, err := database.Connect(&config.Config{DBType: "oracle"})
	if err == nil {
		t.Fatal("Connect() succeeded for unsupported type")
	}
	if !strings.Contains(err.Error(), "unsupported database type") {
		t.Errorf("error = %v", err)
	}
}

func TestConnectSQLiteInMemory(t *testing.T) {
	db, err := database.Connect(&config.Config{
		DBType:            "sqlite",
		DBDatabase:        ":memory:",
		DBConnectionLimit: 2,
	})
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate() error = %v", err)
	}
	if !db.Migrator().HasTable("artifacts") {
		t.Error("artifacts table missing after migration")
	}
	if !db.Migrator().HasTable("users") {
		t.Error("users table missing after migration")
	}
}
