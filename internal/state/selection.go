package state

import (
	"context"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"migration-console/internal/core/refresh"
	"migration-console/internal/model"
	"migration-console/internal/repository"
	"migration-console/pkg/responses"
)

// CurrentProject 当前选中的项目
type CurrentProject struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Selection 当前项目选择
// 每次读取都访问持久化存储，不在内存中缓存值；写入后写者胜
type Selection struct {
	repo   repository.PreferenceRepository
	bus    *refresh.Bus
	logger *zap.Logger

	mu   sync.Mutex
	last *CurrentProject // 最近一次观察到的值，只用于变更检测
}

// NewSelection 创建选择状态
func NewSelection(repo repository.PreferenceRepository, bus *refresh.Bus, logger *zap.Logger) *Selection {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selection{repo: repo, bus: bus, logger: logger}
}

// Current 读取当前项目，未选择时返回 nil
func (s *Selection) Current(ctx context.Context) (*CurrentProject, error) {
	raw, ok, err := s.repo.Get(ctx, model.PrefCurrentProjectID)
	if err != nil || !ok || raw == "" {
		return nil, err
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		s.logger.Warn("忽略非法的当前项目id", zap.String("value", raw))
		return nil, nil
	}
	name, _, err := s.repo.Get(ctx, model.PrefCurrentProjectName)
	if err != nil {
		return nil, err
	}
	return &CurrentProject{ID: id, Name: name}, nil
}

// ProjectID 当前项目id，未选择时返回 ErrNoProjectSelected
func (s *Selection) ProjectID(ctx context.Context) (int64, error) {
	cur, err := s.Current(ctx)
	if err != nil {
		return 0, err
	}
	if cur == nil {
		return 0, responses.ErrNoProjectSelected
	}
	return cur.ID, nil
}

// SetProject 切换当前项目并广播 selection
func (s *Selection) SetProject(ctx context.Context, id int64, name string) error {
	if id <= 0 {
		return responses.NewFieldError(map[string][]string{"project_id": {"must be greater than 0"}})
	}
	if err := s.repo.Set(ctx, model.PrefCurrentProjectID, strconv.FormatInt(id, 10)); err != nil {
		return err
	}
	if err := s.repo.Set(ctx, model.PrefCurrentProjectName, name); err != nil {
		return err
	}
	s.observe(&CurrentProject{ID: id, Name: name})
	return nil
}

// Clear 取消选择，例如当前项目被删除
func (s *Selection) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, model.PrefCurrentProjectID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, model.PrefCurrentProjectName); err != nil {
		return err
	}
	s.observe(nil)
	return nil
}

// Sync 重新读取存储，其他进程修改了选择时广播 selection
// 返回是否发生变化
func (s *Selection) Sync(ctx context.Context) (bool, error) {
	cur, err := s.Current(ctx)
	if err != nil {
		return false, err
	}
	changed := s.observe(cur)
	if changed {
		s.logger.Info("检测到外部修改当前项目", zap.Any("project", cur))
	}
	return changed, nil
}

// observe 记录最新值，变化时发布事件
func (s *Selection) observe(cur *CurrentProject) bool {
	s.mu.Lock()
	changed := !sameProject(s.last, cur)
	s.last = cur
	s.mu.Unlock()

	if changed && s.bus != nil {
		ev := refresh.Event{Topic: refresh.TopicSelection}
		if cur != nil {
			ev.ProjectID = cur.ID
			ev.Payload = *cur
		}
		s.bus.Publish(ev)
	}
	return changed
}

func sameProject(a, b *CurrentProject) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
