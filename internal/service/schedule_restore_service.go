package service

import (
	"context"

	"migration-console/internal/model"
)

type ScheduleRestoreService interface {
	List(ctx context.Context, projectID int64) ([]model.ScheduledTask, error)
	Get(ctx context.Context, id int64) (*model.ScheduledTask, error)
	Create(ctx context.Context, task *model.ScheduledTask) (*model.ScheduledTask, error)
	Update(ctx context.Context, task *model.ScheduledTask) (*model.ScheduledTask, error)
	Delete(ctx context.Context, id int64) error
}

type scheduleRestoreService struct {
	backend Backend
}

func NewScheduleRestoreService(backend Backend) ScheduleRestoreService {
	return &scheduleRestoreService{backend: backend}
}

func (s *scheduleRestoreService) List(ctx context.Context, projectID int64) ([]model.ScheduledTask, error) {
	var out []model.ScheduledTask
	if err := s.backend.Get(ctx, "/scheduled-tasks", projectQuery(projectID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *scheduleRestoreService) Get(ctx context.Context, id int64) (*model.ScheduledTask, error) {
	var out model.ScheduledTask
	if err := s.backend.Get(ctx, idPath("/scheduled-tasks", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *scheduleRestoreService) Create(ctx context.Context, task *model.ScheduledTask) (*model.ScheduledTask, error) {
	var out model.ScheduledTask
	if err := s.backend.Post(ctx, "/scheduled-tasks", task, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *scheduleRestoreService) Update(ctx context.Context, task *model.ScheduledTask) (*model.ScheduledTask, error) {
	var out model.ScheduledTask
	if err := s.backend.Put(ctx, idPath("/scheduled-tasks", task.ID), task, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *scheduleRestoreService) Delete(ctx context.Context, id int64) error {
	return s.backend.Delete(ctx, idPath("/scheduled-tasks", id), nil)
}
