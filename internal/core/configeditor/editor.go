package configeditor

import (
	"migration-console/internal/model"
	"migration-console/pkg/responses"
)

// State 配置编辑状态
type State string

const (
	StateUnconfigured State = "UNCONFIGURED"
	StateDraft        State = "DRAFT"
	StateSaved        State = "SAVED"
)

// Snapshot 编辑器对外视图
type Snapshot struct {
	DbID         int64               `json:"db_id"`
	State        State               `json:"state"`
	IsConfigured bool                `json:"is_configured"`
	Config       *model.ConfigEditor `json:"config"`
	Missing      map[string][]string `json:"missing,omitempty"` // 提交前本地完整性检查结果
}

// Editor 单个源库的配置编辑状态机
//
//	UNCONFIGURED --edit--> DRAFT --submit(ack)--> SAVED
//	SAVED --edit--> DRAFT
//	DRAFT --submit(fail)--> DRAFT
//
// Editor 不做 IO，由 Manager 驱动
type Editor struct {
	db    *model.SourceDb
	state State
	// saved 为后端最后确认的配置，draft 为未提交的修改
	saved *model.ConfigEditor
	draft *model.ConfigEditor
}

func newEditor(db *model.SourceDb, server *model.ConfigEditor) *Editor {
	e := &Editor{db: db}
	e.load(server)
	return e
}

// load 以后端数据为准重置，is_configured 决定初始状态
func (e *Editor) load(server *model.ConfigEditor) {
	if server == nil {
		server = &model.ConfigEditor{DbID: e.db.ID}
	}
	e.saved = server.Clone()
	e.draft = nil
	if server.IsConfigured {
		e.state = StateSaved
	} else {
		e.state = StateUnconfigured
	}
}

// current 当前可见配置：有草稿时为草稿
func (e *Editor) current() *model.ConfigEditor {
	if e.draft != nil {
		return e.draft
	}
	return e.saved
}

// edit 合并非空子配置，任意状态进入 DRAFT
func (e *Editor) edit(patch *model.ConfigEditor) {
	next := e.current().Clone()
	if patch != nil {
		p := patch.Clone()
		if p.Asm != nil {
			next.Asm = p.Asm
		}
		if p.Install != nil {
			next.Install = p.Install
		}
		if p.Rac != nil {
			next.Rac = p.Rac
		}
		if p.Dms != nil {
			next.Dms = p.Dms
		}
	}
	// 草稿中的 is_configured 始终沿用后端确认值
	next.IsConfigured = e.saved.IsConfigured
	next.DbID = e.db.ID
	e.draft = next
	e.state = StateDraft
}

// discard 放弃草稿
func (e *Editor) discard() {
	if e.state != StateDraft {
		return
	}
	e.load(e.saved)
}

// prepareSubmit 只有 DRAFT 可以提交，且本地完整性检查通过
func (e *Editor) prepareSubmit() (*model.ConfigEditor, error) {
	if e.state != StateDraft {
		return nil, responses.ErrInvalidTransition
	}
	if missing := e.draft.Complete(e.db); missing != nil {
		return nil, responses.NewFieldError(missing)
	}
	out := e.draft.Clone()
	out.IsConfigured = true
	return out, nil
}

// ack 后端确认保存
// 以提交内容为底，后端回显的子配置覆盖之；空响应时保留提交内容
func (e *Editor) ack(submitted, server *model.ConfigEditor) {
	saved := submitted.Clone()
	if echo := server.Clone(); echo != nil {
		if echo.Asm != nil {
			saved.Asm = echo.Asm
		}
		if echo.Install != nil {
			saved.Install = echo.Install
		}
		if echo.Rac != nil {
			saved.Rac = echo.Rac
		}
		if echo.Dms != nil {
			saved.Dms = echo.Dms
		}
	}
	saved.IsConfigured = true
	saved.DbID = e.db.ID
	e.saved = saved
	e.draft = nil
	e.state = StateSaved
	e.db.IsConfigured = true
}

func (e *Editor) snapshot() *Snapshot {
	cfg := e.current().Clone()
	s := &Snapshot{
		DbID:         e.db.ID,
		State:        e.state,
		IsConfigured: e.saved.IsConfigured,
		Config:       cfg,
	}
	if e.state == StateDraft {
		s.Missing = cfg.Complete(e.db)
	}
	return s
}
