package state

import (
	"sync"

	"migration-console/internal/core/refresh"
)

// PanelConfig 侧滑面板配置
type PanelConfig struct {
	Open     bool   `json:"open"`
	Title    string `json:"title,omitempty"`
	Entity   string `json:"entity,omitempty"` // wave, source_db, target, mapping ...
	EntityID int64  `json:"entity_id,omitempty"`
}

// Panel 侧滑面板状态，仅在内存中
type Panel struct {
	mu  sync.RWMutex
	cfg PanelConfig
	bus *refresh.Bus
}

func NewPanel(bus *refresh.Bus) *Panel {
	return &Panel{bus: bus}
}

func (p *Panel) Get() PanelConfig {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg
}

// Open 打开面板，覆盖之前的配置
func (p *Panel) Open(cfg PanelConfig) {
	cfg.Open = true
	p.set(cfg)
}

func (p *Panel) Close() {
	p.set(PanelConfig{})
}

func (p *Panel) set(cfg PanelConfig) {
	p.mu.Lock()
	p.cfg = cfg
	p.mu.Unlock()
	if p.bus != nil {
		p.bus.Publish(refresh.Event{Topic: refresh.TopicPanel, Payload: cfg})
	}
}
