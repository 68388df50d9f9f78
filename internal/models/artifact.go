package models

import "time"

// ArtifactKind identifies which of the seven creator operations produced an
// artifact. The set is closed; every stored row carries one of these values.
type ArtifactKind string

const (
	KindHookAnalysis ArtifactKind = "hook_analysis"
	KindContentIdea  ArtifactKind = "content_idea"
	KindScript       ArtifactKind = "script"
	KindRepurpose    ArtifactKind = "repurpose"
	KindMonetization ArtifactKind = "monetization"
	KindSponsorship  ArtifactKind = "sponsorship"
	KindThumbnail    ArtifactKind = "thumbnail"
)

// Kinds lists every valid artifact kind.
var Kinds = []ArtifactKind{
	KindHookAnalysis,
	KindContentIdea,
	KindScript,
	KindRepurpose,
	KindMonetization,
	KindSponsorship,
	KindThumbnail,
}

// Valid reports whether k is a member of the closed kind set.
func (k ArtifactKind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Artifact is the persisted result of one AI operation. The result payload
// is valid JSON at write time; rows are never mutated and are deleted only
// through the owner-scoped delete.
type Artifact struct {
	ArtifactID uint64       `gorm:"primaryKey;autoIncrement"`
	PublicID   string       `gorm:"type:char(36);not null;uniqueIndex"`
	UserID     uint64       `gorm:"not null;index:idx_artifacts_user_kind"`
	User       *User        `gorm:"foreignKey:UserID"`
	Kind       ArtifactKind `gorm:"size:32;not null;index:idx_artifacts_user_kind"`
	Title      string       `gorm:"size:255;not null"`
	InputText  string       `gorm:"type:text"`
	ResultJSON JSON         `gorm:"type:json"`
	CreatedAt  time.Time
}

// TableName overrides the table name for Artifact
func (Artifact) TableName() string {
	return "artifacts"
}
