package state

import (
	"context"
	"strconv"

	"migration-console/internal/model"
	"migration-console/internal/repository"
	"migration-console/pkg/responses"
)

// SidebarState 侧边栏状态
type SidebarState string

const (
	SidebarExpanded  SidebarState = "expanded"
	SidebarCollapsed SidebarState = "collapsed"
)

// DefaultPageSize 未持久化时的分页大小
const DefaultPageSize = 10

// Valid 是否合法取值
func (s SidebarState) Valid() bool {
	return s == SidebarExpanded || s == SidebarCollapsed
}

// UIPreferences 界面偏好
type UIPreferences struct {
	Sidebar  SidebarState `json:"sidebar_state"`
	PageSize int          `json:"page_size"`
}

// Preferences 界面偏好读写
type Preferences struct {
	repo repository.PreferenceRepository
}

func NewPreferences(repo repository.PreferenceRepository) *Preferences {
	return &Preferences{repo: repo}
}

// Get 读取全部偏好，缺省值补齐
func (p *Preferences) Get(ctx context.Context) (*UIPreferences, error) {
	sidebar, err := p.Sidebar(ctx)
	if err != nil {
		return nil, err
	}
	size, err := p.PageSize(ctx)
	if err != nil {
		return nil, err
	}
	return &UIPreferences{Sidebar: sidebar, PageSize: size}, nil
}

// Sidebar 侧边栏状态，默认展开
func (p *Preferences) Sidebar(ctx context.Context) (SidebarState, error) {
	raw, ok, err := p.repo.Get(ctx, model.PrefSidebarState)
	if err != nil {
		return "", err
	}
	if s := SidebarState(raw); ok && s.Valid() {
		return s, nil
	}
	return SidebarExpanded, nil
}

func (p *Preferences) SetSidebar(ctx context.Context, s SidebarState) error {
	if !s.Valid() {
		return responses.NewFieldError(map[string][]string{"sidebar_state": {"must be one of [expanded collapsed]"}})
	}
	return p.repo.Set(ctx, model.PrefSidebarState, string(s))
}

// PageSize 持久化的分页大小，缺失或非法时为 DefaultPageSize
func (p *Preferences) PageSize(ctx context.Context) (int, error) {
	raw, ok, err := p.repo.Get(ctx, model.PrefPageSize)
	if err != nil {
		return 0, err
	}
	if !ok {
		return DefaultPageSize, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return DefaultPageSize, nil
	}
	return n, nil
}

func (p *Preferences) SetPageSize(ctx context.Context, size int) error {
	if size <= 0 {
		return responses.NewFieldError(map[string][]string{"page_size": {"must be greater than 0"}})
	}
	return p.repo.Set(ctx, model.PrefPageSize, strconv.Itoa(size))
}
