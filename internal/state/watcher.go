package state

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// 同一次写入常触发多个事件，合并后只同步一次
const watchDebounce = 100 * time.Millisecond

// Watcher 监听 sqlite 状态文件，其他进程写入后同步当前项目
type Watcher struct {
	path      string
	selection *Selection
	logger    *zap.Logger
	fw        *fsnotify.Watcher
}

// NewWatcher 监听 path 所在目录
// sqlite 写入可能落在 -wal/-journal 文件上，因此按文件名前缀过滤
func NewWatcher(path string, selection *Selection, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return &Watcher{path: abs, selection: selection, logger: logger, fw: fw}, nil
}

// Run 阻塞直到 ctx 结束
func (w *Watcher) Run(ctx context.Context) {
	defer w.fw.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("状态文件监听错误", zap.Error(err))
		case <-fire:
			fire = nil
			if _, err := w.selection.Sync(ctx); err != nil {
				w.logger.Warn("同步当前项目失败", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	name, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return name == w.path || name == w.path+"-wal" || name == w.path+"-journal"
}
