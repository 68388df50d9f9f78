package services

import (
	"encoding/json"
	"fmt"

	"github.com/creatorhq/creator-api/internal/models"
	"github.com/creatorhq/creator-api/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// All artifact queries are scoped by the owning user id; there is no
// cross-user visibility.

// CreateArtifact persists one validated operation result. The result is
// marshaled here, after validation, so only well-formed JSON reaches the
// store.
func CreateArtifact(db *gorm.DB, userID uint64, kind models.ArtifactKind, title, inputText string, result interface{}) (*models.Artifact, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal %s result: %w", kind, err)
	}

	artifact := models.Artifact{
		PublicID:   uuid.New().String(),
		UserID:     userID,
		Kind:       kind,
		Title:      title,
		InputText:  inputText,
		ResultJSON: models.NewJSON(payload),
	}
	if err := db.Create(&artifact).Error; err != nil {
		return nil, &types.StorageError{Op: "create artifact", Err: err}
	}
	return &artifact, nil
}

// ListArtifacts returns the user's artifacts ordered by creation time
// ascending, optionally filtered to one kind.
func ListArtifacts(db *gorm.DB, userID uint64, kind models.ArtifactKind) ([]models.Artifact, error) {
	query := db.Model(&models.Artifact{}).Where("user_id = ?", userID)
	if db.Dialector.Name() == "mysql" {
		query = query.Clauses(hints.UseIndex("idx_artifacts_user_kind"))
	}
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}

	var rows []models.Artifact
	if err := query.Order("created_at ASC, artifact_id ASC").Find(&rows).Error; err != nil {
		return nil, &types.StorageError{Op: "list artifacts", Err: err}
	}
	return rows, nil
}

// DeleteArtifact removes an artifact only if it is owned by userID. The
// owner scope is part of the delete predicate; deleting a non-owned or
// nonexistent id is a silent no-op.
func DeleteArtifact(db *gorm.DB, userID uint64, artifactID uint64) error {
	result := db.Where("artifact_id = ? AND user_id = ?", artifactID, userID).
		Delete(&models.Artifact{})
	if result.Error != nil {
		return &types.StorageError{Op: "delete artifact", Err: result.Error}
	}
	return nil
}

// CountArtifacts returns a kind → count mapping for the user's artifacts.
// Kinds with no rows are absent from the map, not zero; callers default
// to zero on read.
func CountArtifacts(db *gorm.DB, userID uint64) (map[models.ArtifactKind]int64, error) {
	var rows []struct {
		Kind  models.ArtifactKind
		Total int64
	}
	err := db.Model(&models.Artifact{}).
		Select("kind, count(artifact_id) as total").
		Where("user_id = ?", userID).
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return nil, &types.StorageError{Op: "count artifacts", Err: err}
	}

	totals := make(map[models.ArtifactKind]int64, len(rows))
	for _, row := range rows {
		totals[row.Kind] = row.Total
	}
	return totals, nil
}
