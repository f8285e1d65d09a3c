package service

import (
	"context"

	"migration-console/internal/model"
)

type DeploymentHistoryService interface {
	ListByWave(ctx context.Context, waveID int64) ([]model.DeploymentOperation, error)
	ListByDb(ctx context.Context, dbID int64) ([]model.DeploymentOperation, error)
	Get(ctx context.Context, id int64) (*model.DeploymentOperation, error)
}

type deploymentHistoryService struct {
	backend Backend
}

func NewDeploymentHistoryService(backend Backend) DeploymentHistoryService {
	return &deploymentHistoryService{backend: backend}
}

func (s *deploymentHistoryService) ListByWave(ctx context.Context, waveID int64) ([]model.DeploymentOperation, error) {
	var out []model.DeploymentOperation
	if err := s.backend.Get(ctx, "/operations", idQuery("wave_id", waveID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *deploymentHistoryService) ListByDb(ctx context.Context, dbID int64) ([]model.DeploymentOperation, error) {
	var out []model.DeploymentOperation
	if err := s.backend.Get(ctx, "/operations", idQuery("db_id", dbID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *deploymentHistoryService) Get(ctx context.Context, id int64) (*model.DeploymentOperation, error) {
	var out model.DeploymentOperation
	if err := s.backend.Get(ctx, idPath("/operations", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
