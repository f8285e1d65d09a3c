package service

import (
	"context"

	"migration-console/internal/model"
)

// WaveBody 创建/更新波次的请求体
type WaveBody struct {
	ID        int64  `json:"id,omitempty"`
	Name      string `json:"name"`
	ProjectID int64  `json:"project_id"`
}

type operationBody struct {
	OperationType model.OperationType `json:"operation_type"`
	DbIDs         []int64             `json:"db_ids,omitempty"`
}

type WaveService interface {
	List(ctx context.Context, projectID int64) ([]model.Wave, error)
	Get(ctx context.Context, id int64) (*model.Wave, error)
	Create(ctx context.Context, body *WaveBody) (*model.Wave, error)
	Update(ctx context.Context, body *WaveBody) (*model.Wave, error)
	Delete(ctx context.Context, id int64) error
	// StartOperation dbIDs 为空表示波次内全部源库
	StartOperation(ctx context.Context, id int64, opType model.OperationType, dbIDs []int64) (*model.DeploymentOperation, error)
}

type waveService struct {
	backend Backend
}

func NewWaveService(backend Backend) WaveService {
	return &waveService{backend: backend}
}

func (s *waveService) List(ctx context.Context, projectID int64) ([]model.Wave, error) {
	var out []model.Wave
	if err := s.backend.Get(ctx, "/waves", projectQuery(projectID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *waveService) Get(ctx context.Context, id int64) (*model.Wave, error) {
	var out model.Wave
	if err := s.backend.Get(ctx, idPath("/waves", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *waveService) Create(ctx context.Context, body *WaveBody) (*model.Wave, error) {
	var out model.Wave
	if err := s.backend.Post(ctx, "/waves", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *waveService) Update(ctx context.Context, body *WaveBody) (*model.Wave, error) {
	var out model.Wave
	if err := s.backend.Put(ctx, idPath("/waves", body.ID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *waveService) Delete(ctx context.Context, id int64) error {
	return s.backend.Delete(ctx, idPath("/waves", id), nil)
}

func (s *waveService) StartOperation(ctx context.Context, id int64, opType model.OperationType, dbIDs []int64) (*model.DeploymentOperation, error) {
	var out model.DeploymentOperation
	body := &operationBody{OperationType: opType, DbIDs: dbIDs}
	if err := s.backend.Post(ctx, idPath("/waves", id)+"/operations", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
