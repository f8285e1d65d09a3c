package service

import (
	"context"

	"migration-console/internal/model"
)

type ConfigEditorService interface {
	Get(ctx context.Context, dbID int64) (*model.ConfigEditor, error)
	Save(ctx context.Context, dbID int64, cfg *model.ConfigEditor) (*model.ConfigEditor, error)
}

type configEditorService struct {
	backend Backend
}

func NewConfigEditorService(backend Backend) ConfigEditorService {
	return &configEditorService{backend: backend}
}

func configPath(dbID int64) string {
	return idPath("/source-dbs", dbID) + "/config"
}

// Get 后端未保存过配置时也返回 200，子配置均为空
func (s *configEditorService) Get(ctx context.Context, dbID int64) (*model.ConfigEditor, error) {
	var out model.ConfigEditor
	if err := s.backend.Get(ctx, configPath(dbID), nil, &out); err != nil {
		return nil, err
	}
	if out.DbID == 0 {
		out.DbID = dbID
	}
	return &out, nil
}

// Save 后端可能只回 204 或空体，此时返回值只有 DbID
func (s *configEditorService) Save(ctx context.Context, dbID int64, cfg *model.ConfigEditor) (*model.ConfigEditor, error) {
	var out model.ConfigEditor
	if err := s.backend.Post(ctx, configPath(dbID), cfg, &out); err != nil {
		return nil, err
	}
	if out.DbID == 0 {
		out.DbID = dbID
	}
	return &out, nil
}
