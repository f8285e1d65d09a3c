package service

import (
	"context"

	"migration-console/internal/model"
)

type SoftwareLibraryService interface {
	List(ctx context.Context) ([]model.SoftwareItem, error)
	Get(ctx context.Context, id int64) (*model.SoftwareItem, error)
	Create(ctx context.Context, item *model.SoftwareItem) (*model.SoftwareItem, error)
	Update(ctx context.Context, item *model.SoftwareItem) (*model.SoftwareItem, error)
	Delete(ctx context.Context, id int64) error
}

type softwareLibraryService struct {
	backend Backend
}

func NewSoftwareLibraryService(backend Backend) SoftwareLibraryService {
	return &softwareLibraryService{backend: backend}
}

func (s *softwareLibraryService) List(ctx context.Context) ([]model.SoftwareItem, error) {
	var out []model.SoftwareItem
	if err := s.backend.Get(ctx, "/software-library", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *softwareLibraryService) Get(ctx context.Context, id int64) (*model.SoftwareItem, error) {
	var out model.SoftwareItem
	if err := s.backend.Get(ctx, idPath("/software-library", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *softwareLibraryService) Create(ctx context.Context, item *model.SoftwareItem) (*model.SoftwareItem, error) {
	var out model.SoftwareItem
	if err := s.backend.Post(ctx, "/software-library", item, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *softwareLibraryService) Update(ctx context.Context, item *model.SoftwareItem) (*model.SoftwareItem, error) {
	var out model.SoftwareItem
	if err := s.backend.Put(ctx, idPath("/software-library", item.ID), item, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *softwareLibraryService) Delete(ctx context.Context, id int64) error {
	return s.backend.Delete(ctx, idPath("/software-library", id), nil)
}
