package service

import (
	"context"

	"migration-console/internal/model"
)

type ProjectService interface {
	List(ctx context.Context) ([]model.Project, error)
	Get(ctx context.Context, id int64) (*model.Project, error)
	Create(ctx context.Context, p *model.Project) (*model.Project, error)
	Update(ctx context.Context, p *model.Project) (*model.Project, error)
	Delete(ctx context.Context, id int64) error
}

type projectService struct {
	backend Backend
}

func NewProjectService(backend Backend) ProjectService {
	return &projectService{backend: backend}
}

func (s *projectService) List(ctx context.Context) ([]model.Project, error) {
	var out []model.Project
	if err := s.backend.Get(ctx, "/projects", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *projectService) Get(ctx context.Context, id int64) (*model.Project, error) {
	var out model.Project
	if err := s.backend.Get(ctx, idPath("/projects", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *projectService) Create(ctx context.Context, p *model.Project) (*model.Project, error) {
	var out model.Project
	if err := s.backend.Post(ctx, "/projects", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *projectService) Update(ctx context.Context, p *model.Project) (*model.Project, error) {
	var out model.Project
	if err := s.backend.Put(ctx, idPath("/projects", p.ID), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *projectService) Delete(ctx context.Context, id int64) error {
	return s.backend.Delete(ctx, idPath("/projects", id), nil)
}
