package service

import (
	"context"
	"io"
	"strconv"

	"migration-console/internal/model"
)

// ImportResult migVisor 导入结果
type ImportResult map[string]interface{}

// SourceDbService 源库由 migVisor 导入，没有删除
type SourceDbService interface {
	List(ctx context.Context, projectID int64) ([]model.SourceDb, error)
	Get(ctx context.Context, id int64) (*model.SourceDb, error)
	Update(ctx context.Context, db *model.SourceDb) (*model.SourceDb, error)
	UploadMigvisor(ctx context.Context, projectID int64, fileName string, file io.Reader) (ImportResult, error)
}

type sourceDbService struct {
	backend Backend
}

func NewSourceDbService(backend Backend) SourceDbService {
	return &sourceDbService{backend: backend}
}

func (s *sourceDbService) List(ctx context.Context, projectID int64) ([]model.SourceDb, error) {
	var out []model.SourceDb
	if err := s.backend.Get(ctx, "/source-dbs", projectQuery(projectID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *sourceDbService) Get(ctx context.Context, id int64) (*model.SourceDb, error) {
	var out model.SourceDb
	if err := s.backend.Get(ctx, idPath("/source-dbs", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *sourceDbService) Update(ctx context.Context, db *model.SourceDb) (*model.SourceDb, error) {
	var out model.SourceDb
	if err := s.backend.Put(ctx, idPath("/source-dbs", db.ID), db, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *sourceDbService) UploadMigvisor(ctx context.Context, projectID int64, fileName string, file io.Reader) (ImportResult, error) {
	var out ImportResult
	form := map[string]string{"project_id": strconv.FormatInt(projectID, 10)}
	if err := s.backend.Upload(ctx, "/source-dbs/migvisor", "file", fileName, file, form, &out); err != nil {
		return nil, err
	}
	return out, nil
}
