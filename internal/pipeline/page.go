package pipeline

import (
	"Orion_Tube/pkg/errno"
	"encoding/json"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Params 分页参数，page从1开始
type Params struct {
	Page  int
	Limit int
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParseParams 解析query里的page/limit：为空取默认值，非数字或者<=0报参数错误，limit超过maxLimit时截断
func ParseParams(page, limit string, maxLimit int) (Params, error) {
	p := Params{Page: DefaultPage, Limit: DefaultLimit}
	if s := strings.TrimSpace(page); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return p, errno.InvalidArgument.WithMessage("page必须是正整数")
		}
		p.Page = n
	}
	if s := strings.TrimSpace(limit); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return p, errno.InvalidArgument.WithMessage("limit必须是正整数")
		}
		p.Limit = n
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p, nil
}

// Page 分页信封。group非空时docs在JSON里改用group作为字段名
type Page[T any] struct {
	Docs        []T
	TotalDocs   int64
	Limit       int
	Page        int
	TotalPages  int
	HasPrevPage bool
	HasNextPage bool
	PrevPage    *int
	NextPage    *int
	group       string
	extra       map[string]any
}

// NewPage 根据总数和分页参数算出分页元信息；超出范围的页返回空docs，不算错误
func NewPage[T any](docs []T, total int64, params Params) *Page[T] {
	if docs == nil {
		docs = []T{}
	}
	p := &Page[T]{
		Docs:      docs,
		TotalDocs: total,
		Limit:     params.Limit,
		Page:      params.Page,
	}
	if params.Limit > 0 {
		p.TotalPages = int((total + int64(params.Limit) - 1) / int64(params.Limit))
	}
	if params.Page > 1 {
		prev := params.Page - 1
		p.HasPrevPage = true
		p.PrevPage = &prev
	}
	if params.Page < p.TotalPages {
		next := params.Page + 1
		p.HasNextPage = true
		p.NextPage = &next
	}
	return p
}

// Slice 对内存中的列表做同样的分页，供没有落到SQL上的列表使用
func Slice[T any](items []T, params Params) *Page[T] {
	start := params.Offset()
	if start > len(items) {
		start = len(items)
	}
	end := start + params.Limit
	if end > len(items) {
		end = len(items)
	}
	return NewPage(append([]T{}, items[start:end]...), int64(len(items)), params)
}

// Map 把一页数据转换成另一种类型，分页元信息和分组名原样保留
func Map[T, R any](p *Page[T], fn func(T) R) *Page[R] {
	out := make([]R, 0, len(p.Docs))
	for _, d := range p.Docs {
		out = append(out, fn(d))
	}
	return &Page[R]{
		Docs:        out,
		TotalDocs:   p.TotalDocs,
		Limit:       p.Limit,
		Page:        p.Page,
		TotalPages:  p.TotalPages,
		HasPrevPage: p.HasPrevPage,
		HasNextPage: p.HasNextPage,
		PrevPage:    p.PrevPage,
		NextPage:    p.NextPage,
		group:       p.group,
		extra:       p.extra,
	}
}

// GroupName 分组名，未分组为空
func (p *Page[T]) GroupName() string {
	return p.group
}

func (p *Page[T]) WithGroup(name string) *Page[T] {
	p.group = name
	return p
}

// With 在信封上附加额外字段，比如订阅列表的totalCount
func (p *Page[T]) With(key string, value any) *Page[T] {
	if p.extra == nil {
		p.extra = make(map[string]any)
	}
	p.extra[key] = value
	return p
}

func (p *Page[T]) MarshalJSON() ([]byte, error) {
	key := "docs"
	if p.group != "" {
		key = p.group
	}
	out := map[string]any{
		key:           p.Docs,
		"totalDocs":   p.TotalDocs,
		"limit":       p.Limit,
		"page":        p.Page,
		"totalPages":  p.TotalPages,
		"hasPrevPage": p.HasPrevPage,
		"hasNextPage": p.HasNextPage,
		"prevPage":    p.PrevPage,
		"nextPage":    p.NextPage,
	}
	for k, v := range p.extra {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return json.Marshal(out)
}
