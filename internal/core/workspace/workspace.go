package workspace

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"migration-console/internal/core/refresh"
	"migration-console/internal/model"
	"migration-console/internal/service"
	"migration-console/internal/state"
)

// Snapshot 当前项目下的全部列表
// 读取失败的列表为空，错误信息记录在 Errors 中
type Snapshot struct {
	Project   *state.CurrentProject    `json:"project"`
	Waves     []model.Wave             `json:"waves"`
	SourceDbs []model.SourceDb         `json:"source_dbs"`
	Mappings  []model.Mapping          `json:"mappings"`
	Targets   []model.Target           `json:"targets"`
	Labels    []model.Label            `json:"labels"`
	Errors    map[refresh.Topic]string `json:"errors,omitempty"`
	LoadedAt  time.Time                `json:"loaded_at"`
}

func (s *Snapshot) clone() *Snapshot {
	out := *s
	out.Errors = make(map[refresh.Topic]string, len(s.Errors))
	for k, v := range s.Errors {
		out.Errors[k] = v
	}
	return &out
}

// Workspace 项目级视图模型
// 切换项目时丢弃全部列表并用新 id 重新拉取，不跨项目复用
type Workspace struct {
	svc       *service.Services
	selection *state.Selection
	bus       *refresh.Bus
	logger    *zap.Logger

	mu   sync.Mutex
	snap *Snapshot
}

func New(svc *service.Services, selection *state.Selection, bus *refresh.Bus, logger *zap.Logger) *Workspace {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workspace{svc: svc, selection: selection, bus: bus, logger: logger}
}

// Snapshot 返回当前项目的数据
// 缓存属于其他项目时同步重新加载
func (w *Workspace) Snapshot(ctx context.Context) (*Snapshot, error) {
	cur, err := w.selection.Current(ctx)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.snap == nil || !sameProject(w.snap.Project, cur) {
		w.snap = w.load(ctx, cur, refresh.ProjectScoped)
	}
	return w.snap.clone(), nil
}

// Reload 丢弃缓存，重新加载全部列表
func (w *Workspace) Reload(ctx context.Context) (*Snapshot, error) {
	cur, err := w.selection.Current(ctx)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.snap = w.load(ctx, cur, refresh.ProjectScoped)
	return w.snap.clone(), nil
}

// Refresh 重新拉取受影响的列表
// 项目已切换时退化为全量加载
func (w *Workspace) Refresh(ctx context.Context, topics ...refresh.Topic) error {
	cur, err := w.selection.Current(ctx)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.snap == nil || !sameProject(w.snap.Project, cur) {
		w.snap = w.load(ctx, cur, refresh.ProjectScoped)
		return nil
	}

	fresh := w.load(ctx, cur, expand(topics))
	merged := w.snap.clone()
	for _, t := range expand(topics) {
		delete(merged.Errors, t)
		if msg, ok := fresh.Errors[t]; ok {
			merged.Errors[t] = msg
		}
		switch t {
		case refresh.TopicWaves:
			merged.Waves = fresh.Waves
		case refresh.TopicSourceDbs:
			merged.SourceDbs = fresh.SourceDbs
		case refresh.TopicMappings:
			merged.Mappings = fresh.Mappings
		case refresh.TopicTargets:
			merged.Targets = fresh.Targets
		case refresh.TopicLabels:
			merged.Labels = fresh.Labels
		}
	}
	merged.Targets = model.MarkMapped(merged.Targets, merged.Mappings)
	merged.LoadedAt = fresh.LoadedAt
	w.snap = merged
	return nil
}

// Start 订阅刷新总线并在后台处理，ctx 结束后退出
func (w *Workspace) Start(ctx context.Context) {
	sub := w.bus.Subscribe(append([]refresh.Topic{refresh.TopicSelection}, refresh.ProjectScoped...)...)
	go func() {
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub.C():
				if !ok {
					return
				}
				w.handle(ctx, ev)
			}
		}
	}()
}

func (w *Workspace) handle(ctx context.Context, ev refresh.Event) {
	if ev.Topic == refresh.TopicSelection {
		if _, err := w.Reload(ctx); err != nil {
			w.logger.Warn("切换项目后重新加载失败", zap.Error(err))
		}
		return
	}

	w.mu.Lock()
	loaded := w.snap != nil && w.snap.Project != nil
	stale := loaded && ev.ProjectID != 0 && ev.ProjectID != w.snap.Project.ID
	w.mu.Unlock()
	// 未加载过的工作区在首次读取时加载
	if !loaded || stale {
		return
	}
	if err := w.Refresh(ctx, ev.Topic); err != nil {
		w.logger.Warn("刷新列表失败", zap.String("topic", string(ev.Topic)), zap.Error(err))
	}
}

// expand 目标的 IsMapped 依赖映射，两者一起刷新
func expand(topics []refresh.Topic) []refresh.Topic {
	seen := map[refresh.Topic]bool{}
	var out []refresh.Topic
	add := func(t refresh.Topic) {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	for _, t := range topics {
		add(t)
		if t == refresh.TopicTargets || t == refresh.TopicMappings {
			add(refresh.TopicTargets)
			add(refresh.TopicMappings)
		}
	}
	return out
}

// load 并发拉取指定列表，调用方持有 w.mu
func (w *Workspace) load(ctx context.Context, cur *state.CurrentProject, topics []refresh.Topic) *Snapshot {
	snap := &Snapshot{
		Project:  cur,
		Errors:   map[refresh.Topic]string{},
		LoadedAt: time.Now(),
	}
	if cur == nil {
		return snap
	}

	var (
		wg    sync.WaitGroup
		errMu sync.Mutex
	)
	fail := func(t refresh.Topic, err error) {
		w.logger.Warn("加载列表失败", zap.String("topic", string(t)), zap.Int64("project_id", cur.ID), zap.Error(err))
		errMu.Lock()
		snap.Errors[t] = err.Error()
		errMu.Unlock()
	}
	run := func(t refresh.Topic, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				fail(t, err)
			}
		}()
	}

	for _, t := range topics {
		switch t {
		case refresh.TopicWaves:
			run(t, func() (err error) {
				snap.Waves, err = w.svc.Waves.List(ctx, cur.ID)
				for i := range snap.Waves {
					if !snap.Waves[i].StatusRateConsistent() {
						w.logger.Warn("波次统计与映射数不一致",
							zap.Int64("wave_id", snap.Waves[i].ID),
							zap.Int("mappings_count", snap.Waves[i].MappingsCount),
							zap.Int("status_total", snap.Waves[i].StatusRate.Total()))
					}
				}
				return err
			})
		case refresh.TopicSourceDbs:
			run(t, func() (err error) {
				snap.SourceDbs, err = w.svc.SourceDbs.List(ctx, cur.ID)
				return err
			})
		case refresh.TopicMappings:
			run(t, func() (err error) {
				snap.Mappings, err = w.svc.Mappings.ListByProject(ctx, cur.ID)
				return err
			})
		case refresh.TopicTargets:
			run(t, func() (err error) {
				snap.Targets, err = w.svc.Targets.List(ctx, cur.ID)
				return err
			})
		case refresh.TopicLabels:
			run(t, func() (err error) {
				snap.Labels, err = w.svc.Labels.List(ctx, cur.ID)
				return err
			})
		}
	}
	wg.Wait()

	snap.Targets = model.MarkMapped(snap.Targets, snap.Mappings)
	return snap
}

func sameProject(a, b *state.CurrentProject) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}
