package service

import (
	"context"
	"fmt"

	"migration-console/internal/model"
)

type LabelService interface {
	List(ctx context.Context, projectID int64) ([]model.Label, error)
	Create(ctx context.Context, l *model.Label) (*model.Label, error)
	Update(ctx context.Context, l *model.Label) (*model.Label, error)
	Delete(ctx context.Context, id int64) error
	ListForDb(ctx context.Context, dbID int64) ([]model.Label, error)
	AttachToDb(ctx context.Context, dbID int64, labelIDs []int64) error
	DetachFromDb(ctx context.Context, dbID, labelID int64) error
}

type labelService struct {
	backend Backend
}

func NewLabelService(backend Backend) LabelService {
	return &labelService{backend: backend}
}

func dbLabelsPath(dbID int64) string {
	return idPath("/source-dbs", dbID) + "/labels"
}

func (s *labelService) List(ctx context.Context, projectID int64) ([]model.Label, error) {
	var out []model.Label
	if err := s.backend.Get(ctx, "/labels", projectQuery(projectID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *labelService) Create(ctx context.Context, l *model.Label) (*model.Label, error) {
	var out model.Label
	if err := s.backend.Post(ctx, "/labels", l, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *labelService) Update(ctx context.Context, l *model.Label) (*model.Label, error) {
	var out model.Label
	if err := s.backend.Put(ctx, idPath("/labels", l.ID), l, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *labelService) Delete(ctx context.Context, id int64) error {
	return s.backend.Delete(ctx, idPath("/labels", id), nil)
}

func (s *labelService) ListForDb(ctx context.Context, dbID int64) ([]model.Label, error) {
	var out []model.Label
	if err := s.backend.Get(ctx, dbLabelsPath(dbID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *labelService) AttachToDb(ctx context.Context, dbID int64, labelIDs []int64) error {
	body := map[string][]int64{"label_ids": labelIDs}
	return s.backend.Post(ctx, dbLabelsPath(dbID), body, nil)
}

func (s *labelService) DetachFromDb(ctx context.Context, dbID, labelID int64) error {
	return s.backend.Delete(ctx, fmt.Sprintf("%s/%d", dbLabelsPath(dbID), labelID), nil)
}
