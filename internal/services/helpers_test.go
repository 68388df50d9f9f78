package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/creatorhq/creator-api/internal/database"
	"github.com/creatorhq/creator-api/internal/llm"
	"github.com/creatorhq/creator-api/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

// createTestUser inserts a user row and returns its id.
func createTestUser(t *testing.T, db *gorm.DB, openID string) uint64 {
	t.Helper()
	user := models.User{OpenID: openID, Role: models.RoleUser}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user.ID
}

// stubInvoker returns a canned completion and records every call.
type stubInvoker struct {
	content string
	err     error
	calls   [][]llm.Message
}

func (s *stubInvoker) Invoke(_ context.Context, messages []llm.Message) (*llm.Completion, error) {
	s.calls = append(s.calls, messages)
	if s.err != nil {
		return nil, s.err
	}
	quoted, err := json.Marshal(s.content)
	if err != nil {
		return nil, err
	}
	return &llm.Completion{
		ID:    "cmpl-test",
		Model: "test-model",
		Choices: []llm.Choice{
			{Message: llm.ChoiceMessage{Role: "assistant", Content: json.RawMessage(quoted)}},
		},
	}, nil
}

// lastArtifact loads the single most recent artifact for a user.
func lastArtifact(t *testing.T, db *gorm.DB, userID uint64) models.Artifact {
	t.Helper()
	var artifact models.Artifact
	err := db.Where("user_id = ?", userID).Order("artifact_id DESC").First(&artifact).Error
	if err != nil {
		t.Fatalf("load artifact: %v", err)
	}
	return artifact
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}
