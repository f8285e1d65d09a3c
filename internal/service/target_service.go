package service

import (
	"context"

	"migration-console/internal/model"
)

type TargetService interface {
	List(ctx context.Context, projectID int64) ([]model.Target, error)
	Get(ctx context.Context, id int64) (*model.Target, error)
	Create(ctx context.Context, t *model.Target) (*model.Target, error)
	Update(ctx context.Context, t *model.Target) (*model.Target, error)
	Delete(ctx context.Context, id int64) error
}

type targetService struct {
	backend Backend
}

func NewTargetService(backend Backend) TargetService {
	return &targetService{backend: backend}
}

func (s *targetService) List(ctx context.Context, projectID int64) ([]model.Target, error) {
	var out []model.Target
	if err := s.backend.Get(ctx, "/targets", projectQuery(projectID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *targetService) Get(ctx context.Context, id int64) (*model.Target, error) {
	var out model.Target
	if err := s.backend.Get(ctx, idPath("/targets", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *targetService) Create(ctx context.Context, t *model.Target) (*model.Target, error) {
	var out model.Target
	if err := s.backend.Post(ctx, "/targets", t, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *targetService) Update(ctx context.Context, t *model.Target) (*model.Target, error) {
	var out model.Target
	if err := s.backend.Put(ctx, idPath("/targets", t.ID), t, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *targetService) Delete(ctx context.Context, id int64) error {
	return s.backend.Delete(ctx, idPath("/targets", id), nil)
}
