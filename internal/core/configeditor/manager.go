package configeditor

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"migration-console/internal/core/refresh"
	"migration-console/internal/model"
	"migration-console/internal/service"
)

// Manager 每个源库一个编辑器
type Manager struct {
	configs service.ConfigEditorService
	dbs     service.SourceDbService
	bus     *refresh.Bus
	logger  *zap.Logger

	mu      sync.Mutex
	editors map[int64]*entry
}

// entry 串行化同一源库上的操作
type entry struct {
	mu     sync.Mutex
	editor *Editor
}

func NewManager(configs service.ConfigEditorService, dbs service.SourceDbService, bus *refresh.Bus, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		configs: configs,
		dbs:     dbs,
		bus:     bus,
		logger:  logger,
		editors: make(map[int64]*entry),
	}
}

func (m *Manager) entry(dbID int64) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.editors[dbID]
	if !ok {
		e = &entry{}
		m.editors[dbID] = e
	}
	return e
}

// Load 从后端重新加载，丢弃本地草稿
func (m *Manager) Load(ctx context.Context, dbID int64) (*Snapshot, error) {
	e := m.entry(dbID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := m.fetch(ctx, dbID, e); err != nil {
		return nil, err
	}
	return e.editor.snapshot(), nil
}

// Get 已加载时返回当前状态（含草稿），否则从后端加载
func (m *Manager) Get(ctx context.Context, dbID int64) (*Snapshot, error) {
	e := m.entry(dbID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.editor == nil {
		if err := m.fetch(ctx, dbID, e); err != nil {
			return nil, err
		}
	}
	return e.editor.snapshot(), nil
}

// Edit 合并修改进入 DRAFT
func (m *Manager) Edit(ctx context.Context, dbID int64, patch *model.ConfigEditor) (*Snapshot, error) {
	e := m.entry(dbID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.editor == nil {
		if err := m.fetch(ctx, dbID, e); err != nil {
			return nil, err
		}
	}
	e.editor.edit(patch)
	return e.editor.snapshot(), nil
}

// Discard 放弃草稿，回到最后保存的状态
func (m *Manager) Discard(dbID int64) *Snapshot {
	e := m.entry(dbID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.editor == nil {
		return nil
	}
	e.editor.discard()
	return e.editor.snapshot()
}

// Submit 提交草稿
// 失败时保持 DRAFT，已缓存的 is_configured 不变
func (m *Manager) Submit(ctx context.Context, dbID int64) (*Snapshot, error) {
	e := m.entry(dbID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.editor == nil {
		if err := m.fetch(ctx, dbID, e); err != nil {
			return nil, err
		}
	}

	payload, err := e.editor.prepareSubmit()
	if err != nil {
		return nil, err
	}

	saved, err := m.configs.Save(ctx, dbID, payload)
	if err != nil {
		m.logger.Info("配置提交失败", zap.Int64("db_id", dbID), zap.Error(err))
		return nil, err
	}
	e.editor.ack(payload, saved)

	m.logger.Info("配置已保存", zap.Int64("db_id", dbID))
	if m.bus != nil {
		m.bus.Refresh(e.editor.db.ProjectID, refresh.TopicConfig, refresh.TopicSourceDbs)
	}
	return e.editor.snapshot(), nil
}

// Forget 释放编辑器，例如切换项目后
func (m *Manager) Forget(dbID int64) {
	m.mu.Lock()
	delete(m.editors, dbID)
	m.mu.Unlock()
}

// Reset 释放全部编辑器
func (m *Manager) Reset() {
	m.mu.Lock()
	m.editors = make(map[int64]*entry)
	m.mu.Unlock()
}

func (m *Manager) fetch(ctx context.Context, dbID int64, e *entry) error {
	db, err := m.dbs.Get(ctx, dbID)
	if err != nil {
		return err
	}
	cfg, err := m.configs.Get(ctx, dbID)
	if err != nil {
		return err
	}
	if e.editor == nil {
		e.editor = newEditor(db, cfg)
		return nil
	}
	e.editor.db = db
	e.editor.load(cfg)
	return nil
}
