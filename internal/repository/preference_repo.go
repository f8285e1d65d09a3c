package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"migration-console/internal/model"
	"migration-console/pkg/responses"
)

// PreferenceRepository 本地键值状态存取
type PreferenceRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	All(ctx context.Context) (map[string]string, error)
}

type preferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

func (r *preferenceRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var pref model.Preference
	err := r.db.WithContext(ctx).Where("`key` = ?", key).First(&pref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, responses.Wrap(responses.CodeDatabaseError, "读取本地状态失败", err)
	}
	return pref.Value, true, nil
}

// Set 覆盖写，后写者胜
func (r *preferenceRepository) Set(ctx context.Context, key, value string) error {
	pref := model.Preference{Key: key, Value: value}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&pref).Error
	if err != nil {
		return responses.Wrap(responses.CodeDatabaseError, "写入本地状态失败", err)
	}
	return nil
}

func (r *preferenceRepository) Delete(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).Where("`key` = ?", key).Delete(&model.Preference{}).Error; err != nil {
		return responses.Wrap(responses.CodeDatabaseError, "删除本地状态失败", err)
	}
	return nil
}

func (r *preferenceRepository) All(ctx context.Context) (map[string]string, error) {
	var prefs []model.Preference
	if err := r.db.WithContext(ctx).Find(&prefs).Error; err != nil {
		return nil, responses.Wrap(responses.CodeDatabaseError, "读取本地状态失败", err)
	}
	out := make(map[string]string, len(prefs))
	for _, p := range prefs {
		out[p.Key] = p.Value
	}
	return out, nil
}
