package pagination

import (
	"context"
	"fmt"

	"migration-console/internal/state"
)

// PageSizeStore 分页大小持久化
type PageSizeStore interface {
	PageSize(ctx context.Context) (int, error)
	SetPageSize(ctx context.Context, size int) error
}

// Paginator 表格分页行为，所有列表共用
type Paginator struct {
	store PageSizeStore
}

func NewPaginator(store PageSizeStore) *Paginator {
	return &Paginator{store: store}
}

// RangeLabel 返回 "Page X of Y"，pageIndex 从 0 开始
// length 或 pageSize 为 0 时为 "Page 1 of 1"；pageSize 大于 0 时持久化
func (p *Paginator) RangeLabel(ctx context.Context, pageIndex, pageSize, length int) (string, error) {
	if pageSize > 0 {
		if err := p.store.SetPageSize(ctx, pageSize); err != nil {
			return "", err
		}
	}
	return Label(pageIndex, pageSize, length), nil
}

// PageSize 持久化的分页大小，默认 state.DefaultPageSize
func (p *Paginator) PageSize(ctx context.Context) int {
	size, err := p.store.PageSize(ctx)
	if err != nil || size <= 0 {
		return state.DefaultPageSize
	}
	return size
}

// Label 纯计算，不持久化
func Label(pageIndex, pageSize, length int) string {
	if length <= 0 || pageSize <= 0 {
		return "Page 1 of 1"
	}
	total := (length + pageSize - 1) / pageSize
	page := pageIndex + 1
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}
	return fmt.Sprintf("Page %d of %d", page, total)
}

// Clamp 把越界页码收敛到 [0, 最后一页]，Label 与 Window 用同一页码
func Clamp(pageIndex, pageSize, length int) int {
	if pageIndex < 0 || length <= 0 || pageSize <= 0 {
		return 0
	}
	last := (length+pageSize-1)/pageSize - 1
	if pageIndex > last {
		return last
	}
	return pageIndex
}

// Window 计算第 pageIndex 页在长度为 length 的列表中的 [start, end)
func Window(pageIndex, pageSize, length int) (int, int) {
	if pageSize <= 0 || pageIndex < 0 {
		return 0, length
	}
	start := pageIndex * pageSize
	if start > length {
		start = length
	}
	end := start + pageSize
	if end > length {
		end = length
	}
	return start, end
}
