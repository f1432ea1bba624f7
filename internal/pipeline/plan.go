package pipeline

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Plan 一条列表查询的执行计划：有序的阶段 + 分页。只描述查询，执行交给Execute
type Plan struct {
	model        any
	table        string
	stages       []Stage
	params       Params
	paginated    bool
	defaultOrder string
}

// New 以model为主表建计划，没有排序阶段时按主键升序，保证翻页稳定
func New(model any, table string) *Plan {
	return &Plan{
		model:        model,
		table:        table,
		defaultOrder: table + ".id",
	}
}

// Then 追加阶段，nil会被忽略（比如空的搜索词）
func (p *Plan) Then(stages ...Stage) *Plan {
	for _, s := range stages {
		if s != nil {
			p.stages = append(p.stages, s)
		}
	}
	return p
}

func (p *Plan) Paginate(params Params) *Plan {
	p.params = params
	p.paginated = true
	return p
}

func (p *Plan) Params() Params {
	return p.params
}

// Stages 按执行顺序排好的阶段：过滤 -> 排序 -> 连接/投影 -> 分组，同类阶段保持追加顺序
func (p *Plan) Stages() []Stage {
	out := append([]Stage{}, p.stages...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Kind() < out[j].Kind() })
	return out
}

// StageNames 用于日志和测试
func (p *Plan) StageNames() []string {
	names := make([]string, 0, len(p.stages)+1)
	for _, s := range p.Stages() {
		names = append(names, s.Name())
	}
	if p.paginated {
		names = append(names, "paginate")
	}
	return names
}

func (p *Plan) grouping() *groupStage {
	for _, s := range p.stages {
		if g, ok := s.(*groupStage); ok {
			return g
		}
	}
	return nil
}

func (p *Plan) group() string {
	if g := p.grouping(); g != nil {
		return g.name
	}
	return ""
}

func (p *Plan) hasSort() bool {
	for _, s := range p.stages {
		if s.Kind() == KindSort {
			return true
		}
	}
	return false
}

// BuildCount 只应用过滤阶段，得到计数用的查询
func (p *Plan) BuildCount(db *gorm.DB) *gorm.DB {
	tx := db.Model(p.model)
	for _, s := range p.Stages() {
		if s.Kind() == KindFilter {
			tx = s.Apply(tx)
		}
	}
	if g := p.grouping(); g != nil {
		// 分组后按分组键去重计数
		tx = tx.Distinct(g.key)
	}
	return tx
}

// BuildQuery 应用全部阶段和分页，得到取数用的查询
func (p *Plan) BuildQuery(db *gorm.DB) *gorm.DB {
	tx := db.Model(p.model)
	for _, s := range p.Stages() {
		tx = s.Apply(tx)
	}
	if !p.hasSort() {
		tx = tx.Order(p.defaultOrder)
	}
	if p.paginated {
		tx = tx.Offset(p.params.Offset()).Limit(p.params.Limit)
	}
	return tx
}

// Execute 执行计划：计数和取数并发进行，任何一个失败整体失败
func Execute[T any](ctx context.Context, db *gorm.DB, p *Plan) (*Page[T], error) {
	var (
		total int64
		docs  []T
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.BuildCount(db.WithContext(gctx)).Count(&total).Error
	})
	g.Go(func() error {
		return p.BuildQuery(db.WithContext(gctx)).Find(&docs).Error
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	params := p.params
	if !p.paginated {
		params = Params{Page: 1, Limit: len(docs)}
	}
	return NewPage(docs, total, params).WithGroup(p.group()), nil
}
