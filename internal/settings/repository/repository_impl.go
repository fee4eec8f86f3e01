package repository

import (
	"context"
	"time"

	"github.com/sabaispa/sabai/internal/settings/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, key string) (*domain.CompanySetting, error) {
	var setting domain.CompanySetting
	err := db.WithContext(ctx).
		Model(&domain.CompanySetting{}).
		Where("key = ?", key).
		Limit(1).
		Find(&setting).Error
	if err != nil {
		return nil, err
	}
	if setting.Key == "" {
		return nil, nil
	}
	return &setting, nil
}

func (r *repo) InsertIfMissing(ctx context.Context, db *gorm.DB, setting *domain.CompanySetting) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`INSERT INTO company_settings (key, value, version, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (key) DO NOTHING`,
		setting.Key,
		setting.Value,
		setting.Version,
		setting.CreatedAt,
		setting.UpdatedAt,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) UpdateVersioned(ctx context.Context, db *gorm.DB, key string, value datatypes.JSON, expectedVersion int64) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE company_settings
		 SET value = ?, version = version + 1, updated_at = ?
		 WHERE key = ? AND version = ?`,
		value,
		time.Now().UTC(),
		key,
		expectedVersion,
	)
	return res.RowsAffected, res.Error
}
