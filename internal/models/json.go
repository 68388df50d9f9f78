package models

import (
	"database/sql/driver"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// JSON is the column type used for artifact result payloads. It wraps
// gorm.io/datatypes.JSON so the column maps to a native JSON type on every
// supported database instead of a plain text blob.
type JSON struct {
	datatypes.JSON
}

// Value promotes the embedded JSON's Value method
func (j JSON) Value() (driver.Value, error) {
	return j.JSON.Value()
}

// Scan promotes the embedded JSON's Scan method
func (j *JSON) Scan(value interface{}) error {
	return j.JSON.Scan(value)
}

// GormDBDataType selects the column type per dialect. SQL Server has no
// json type, so the payload falls back to NVARCHAR(MAX) there.
func (JSON) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "JSON"
	case "postgres":
		return "JSONB"
	case "sqlserver", "mssql":
		return "NVARCHAR(MAX)"
	case "sqlite":
		return "JSON"
	}
	return "TEXT"
}

// String returns the raw payload text.
func (j JSON) String() string {
	return string(j.JSON)
}

// NewJSON wraps a raw, already-validated JSON payload for storage.
func NewJSON(payload []byte) JSON {
	return JSON{datatypes.JSON(payload)}
}
