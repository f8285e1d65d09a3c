package refresh

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Topic 刷新主题
type Topic string

const (
	TopicProjects       Topic = "projects"
	TopicSourceDbs      Topic = "source_dbs"
	TopicTargets        Topic = "targets"
	TopicMappings       Topic = "mappings"
	TopicWaves          Topic = "waves"
	TopicLabels         Topic = "labels"
	TopicConfig         Topic = "config"
	TopicScheduledTasks Topic = "scheduled_tasks"
	TopicSoftware       Topic = "software"
	TopicSelection      Topic = "selection"
	TopicPanel          Topic = "panel"
	TopicNotification   Topic = "notification"
)

// ProjectScoped 切换项目后需要重新拉取的主题
var ProjectScoped = []Topic{TopicWaves, TopicSourceDbs, TopicMappings, TopicTargets, TopicLabels}

// Event 刷新信号
// 信号不携带数据快照，订阅方收到后自行重新拉取
type Event struct {
	Topic     Topic       `json:"topic"`
	ProjectID int64       `json:"project_id,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	At        time.Time   `json:"at"`
}

const defaultBuffer = 32

// Bus 进程内发布订阅
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]*Subscription
	nextID int
	logger *zap.Logger
}

// NewBus 创建总线
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		subs:   make(map[int]*Subscription),
		logger: logger,
	}
}

// Subscription 订阅句柄
type Subscription struct {
	id     int
	topics map[Topic]struct{}
	ch     chan Event
	bus    *Bus
	once   sync.Once
}

// C 事件通道，Close 后关闭
func (s *Subscription) C() <-chan Event {
	return s.ch
}

// Close 取消订阅，可重复调用
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.subs, s.id)
		s.bus.mu.Unlock()
		close(s.ch)
	})
}

func (s *Subscription) wants(t Topic) bool {
	if len(s.topics) == 0 {
		return true
	}
	_, ok := s.topics[t]
	return ok
}

// Subscribe 订阅指定主题，不传主题表示全部
func (b *Bus) Subscribe(topics ...Topic) *Subscription {
	sub := &Subscription{
		topics: make(map[Topic]struct{}, len(topics)),
		ch:     make(chan Event, defaultBuffer),
		bus:    b,
	}
	for _, t := range topics {
		sub.topics[t] = struct{}{}
	}

	b.mu.Lock()
	sub.id = b.nextID
	b.nextID++
	b.subs[sub.id] = sub
	b.mu.Unlock()
	return sub
}

// Publish 非阻塞发布；订阅方缓冲满时丢弃该事件
func (b *Bus) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs {
		if !sub.wants(ev.Topic) {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			b.logger.Debug("订阅方缓冲已满，丢弃刷新信号", zap.String("topic", string(ev.Topic)))
		}
	}
}

// Refresh 发布若干主题的刷新信号
func (b *Bus) Refresh(projectID int64, topics ...Topic) {
	for _, t := range topics {
		b.Publish(Event{Topic: t, ProjectID: projectID})
	}
}
