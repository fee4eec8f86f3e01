package domain

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Repository interface {
	Find(ctx context.Context, db *gorm.DB, key string) (*CompanySetting, error)

	// InsertIfMissing seeds a key without clobbering an existing value.
	// Returns rows affected.
	InsertIfMissing(ctx context.Context, db *gorm.DB, setting *CompanySetting) (int64, error)

	// UpdateVersioned writes the value only when the stored version still
	// matches expectedVersion, bumping the version. Returns rows affected.
	UpdateVersioned(ctx context.Context, db *gorm.DB, key string, value datatypes.JSON, expectedVersion int64) (int64, error)
}
