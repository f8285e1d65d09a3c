package scheduler

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"migration-console/internal/adapter/notification"
	"migration-console/internal/core/refresh"
	"migration-console/internal/model"
	"migration-console/internal/pkg/config"
	"migration-console/internal/service"
	"migration-console/internal/state"
)

const (
	JobWavePoll      = "wave_poll"
	JobSelectionSync = "selection_sync"
)

// Scheduler 调度器
type Scheduler struct {
	cron          *cron.Cron
	logger        *zap.Logger
	waves         service.WaveService
	selection     *state.Selection
	bus           *refresh.Bus
	notifier      notification.Notifier
	cronSchedules map[string]cron.EntryID // 存储任务ID，便于管理

	mu        sync.Mutex
	projectID int64
	seen      map[int64]waveState
}

// waveState 用于判断波次是否发生变化
type waveState struct {
	running    bool
	rate       model.StatusRate
	currOp     string
	mappings   int
	lastDeploy int64
}

func stateOf(w *model.Wave) waveState {
	s := waveState{running: w.IsRunning, rate: w.StatusRate, mappings: w.MappingsCount}
	if w.CurrOperation != nil {
		s.currOp = *w.CurrOperation
	}
	if !w.LastDeployment.IsZero() {
		s.lastDeploy = w.LastDeployment.Unix()
	}
	return s
}

// NewScheduler 创建调度器
func NewScheduler(waves service.WaveService, selection *state.Selection, bus *refresh.Bus, notifier notification.Notifier, logger *zap.Logger) *Scheduler {
	// 创建 cron 实例（带秒级支持）
	c := cron.New(cron.WithSeconds())

	return &Scheduler{
		cron:          c,
		logger:        logger,
		waves:         waves,
		selection:     selection,
		bus:           bus,
		notifier:      notifier,
		cronSchedules: make(map[string]cron.EntryID),
		seen:          make(map[int64]waveState),
	}
}

// Start 启动调度器
// syncSelection 为 true 时定期同步当前项目（mysql 存储无法监听文件变化）
func (s *Scheduler) Start(cfg *config.SchedulerConfig, syncSelection bool) error {
	log := s.logger.Sugar()
	log.Info("启动定时任务调度器...")

	pollExpr := cfg.WavePollCron
	if pollExpr == "" {
		pollExpr = "@every 10s"
		log.Warn("未配置scheduler.wave_poll_cron，使用默认值", zap.String("cron", pollExpr))
	}
	if err := s.add(JobWavePoll, pollExpr, func() { s.PollWaves(context.Background()) }); err != nil {
		return err
	}

	if syncSelection {
		syncExpr := cfg.SelectionSyncCron
		if syncExpr == "" {
			syncExpr = "@every 5s"
		}
		err := s.add(JobSelectionSync, syncExpr, func() {
			if _, err := s.selection.Sync(context.Background()); err != nil {
				log.Errorf("同步当前项目失败: %v", err)
			}
		})
		if err != nil {
			return err
		}
	}

	s.cron.Start()
	log.Info("定时任务调度器启动成功")
	return nil
}

func (s *Scheduler) add(name, expr string, fn func()) error {
	log := s.logger.Sugar()
	entryID, err := s.cron.AddFunc(expr, fn)
	if err != nil {
		log.Errorf("注册任务 %s: %v 失败: %v", name, expr, err)
		return err
	}
	s.cronSchedules[name] = entryID
	log.Infof("任务已注册: %s %s entry_id=%d", name, expr, entryID)
	return nil
}

// Stop 停止调度器
func (s *Scheduler) Stop() {
	s.logger.Info("正在停止定时任务调度器...")

	// 停止 cron（等待正在执行的任务完成）
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.logger.Info("定时任务调度器已停止")
}

// PollWaves 拉取当前项目的波次，有变化时广播 waves，运行结束的波次发送通知
// 返回是否发生变化
func (s *Scheduler) PollWaves(ctx context.Context) bool {
	projectID, err := s.selection.ProjectID(ctx)
	if err != nil {
		return false
	}
	waves, err := s.waves.List(ctx, projectID)
	if err != nil {
		s.logger.Warn("轮询波次失败", zap.Int64("project_id", projectID), zap.Error(err))
		return false
	}

	s.mu.Lock()
	// 切换项目后重新建立基线，不发通知
	baseline := s.projectID != projectID
	if baseline {
		s.projectID = projectID
		s.seen = make(map[int64]waveState)
	}
	changed, finished := diff(s.seen, waves)
	s.mu.Unlock()

	if baseline {
		return false
	}
	if changed {
		s.bus.Refresh(projectID, refresh.TopicWaves)
	}
	for i := range finished {
		w := &finished[i]
		notifyType := notification.NotifyWaveFinished
		if w.StatusRate.Failed > 0 {
			notifyType = notification.NotifyWaveFailed
		}
		if s.notifier != nil {
			if err := s.notifier.SendWaveNotification(ctx, w, notifyType, "波次操作已结束"); err != nil {
				s.logger.Warn("发送波次通知失败", zap.Int64("wave_id", w.ID), zap.Error(err))
			}
		}
	}
	return changed
}

// diff 更新 seen 并返回是否变化以及由运行转为停止的波次
func diff(seen map[int64]waveState, waves []model.Wave) (bool, []model.Wave) {
	changed := len(seen) != len(waves)
	var finished []model.Wave
	current := make(map[int64]struct{}, len(waves))

	for i := range waves {
		w := &waves[i]
		current[w.ID] = struct{}{}
		next := stateOf(w)
		prev, ok := seen[w.ID]
		if !ok || prev != next {
			changed = true
		}
		if ok && prev.running && !next.running {
			finished = append(finished, *w)
		}
		seen[w.ID] = next
	}
	for id := range seen {
		if _, ok := current[id]; !ok {
			delete(seen, id)
			changed = true
		}
	}
	return changed, finished
}
