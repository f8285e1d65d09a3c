package service

import (
	"context"

	"migration-console/internal/model"
)

// MappingService 后端拒绝重复映射时返回 validation 错误，原样透传
type MappingService interface {
	ListByProject(ctx context.Context, projectID int64) ([]model.Mapping, error)
	ListByDb(ctx context.Context, dbID int64) ([]model.Mapping, error)
	Create(ctx context.Context, m *model.Mapping) (*model.Mapping, error)
	Update(ctx context.Context, m *model.Mapping) (*model.Mapping, error)
}

type mappingService struct {
	backend Backend
}

func NewMappingService(backend Backend) MappingService {
	return &mappingService{backend: backend}
}

func (s *mappingService) ListByProject(ctx context.Context, projectID int64) ([]model.Mapping, error) {
	var out []model.Mapping
	if err := s.backend.Get(ctx, "/mappings", projectQuery(projectID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *mappingService) ListByDb(ctx context.Context, dbID int64) ([]model.Mapping, error) {
	var out []model.Mapping
	if err := s.backend.Get(ctx, "/mappings", idQuery("db_id", dbID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *mappingService) Create(ctx context.Context, m *model.Mapping) (*model.Mapping, error) {
	var out model.Mapping
	if err := s.backend.Post(ctx, "/mappings", m, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update 后端以 body 中的 id 定位映射
func (s *mappingService) Update(ctx context.Context, m *model.Mapping) (*model.Mapping, error) {
	var out model.Mapping
	if err := s.backend.Put(ctx, "/mappings", m, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
