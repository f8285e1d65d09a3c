package service

import (
	"context"

	"migration-console/internal/model"
)

// MetadataService 只读元数据，结构由后端决定
type MetadataService interface {
	Get(ctx context.Context) (model.Metadata, error)
	Settings(ctx context.Context) (model.Settings, error)
	WaveSteps(ctx context.Context) ([]model.WaveStep, error)
}

type metadataService struct {
	backend Backend
}

func NewMetadataService(backend Backend) MetadataService {
	return &metadataService{backend: backend}
}

func (s *metadataService) Get(ctx context.Context) (model.Metadata, error) {
	out := model.Metadata{}
	if err := s.backend.Get(ctx, "/metadata", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *metadataService) Settings(ctx context.Context) (model.Settings, error) {
	out := model.Settings{}
	if err := s.backend.Get(ctx, "/metadata/settings", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *metadataService) WaveSteps(ctx context.Context) ([]model.WaveStep, error) {
	var out []model.WaveStep
	if err := s.backend.Get(ctx, "/metadata/wave-steps", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
