package pipeline

import (
	"Orion_Tube/pkg/errno"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Kind 决定阶段在计划里的先后，以及是否参与计数
type Kind int

const (
	KindFilter  Kind = iota // 范围过滤、文本过滤、用于过滤的连接，计数和取数都要用
	KindSort                // 排序
	KindProject             // 反范式连接 + 投影
	KindGroup               // 折叠到目标实体粒度
)

func (k Kind) String() string {
	switch k {
	case KindFilter:
		return "filter"
	case KindSort:
		return "sort"
	case KindProject:
		return "project"
	case KindGroup:
		return "group"
	}
	return "unknown"
}

// Stage 查询计划中的一个具名变换，只拼装*gorm.DB，不执行
type Stage interface {
	Name() string
	Kind() Kind
	Apply(tx *gorm.DB) *gorm.DB
}

type stage struct {
	name  string
	kind  Kind
	apply func(tx *gorm.DB) *gorm.DB
}

func (s *stage) Name() string               { return s.name }
func (s *stage) Kind() Kind                 { return s.kind }
func (s *stage) Apply(tx *gorm.DB) *gorm.DB { return s.apply(tx) }

func NewStage(name string, kind Kind, apply func(tx *gorm.DB) *gorm.DB) Stage {
	return &stage{name: name, kind: kind, apply: apply}
}

// Match 等值范围过滤，column需要带表名前缀
func Match(column string, value any) Stage {
	return NewStage("match:"+column, KindFilter, func(tx *gorm.DB) *gorm.DB {
		return tx.Where(fmt.Sprintf("%s = ?", column), value)
	})
}

// MatchIn 集合过滤，values为空时结果必然为空
func MatchIn(column string, values []uint64) Stage {
	return NewStage("match_in:"+column, KindFilter, func(tx *gorm.DB) *gorm.DB {
		if len(values) == 0 {
			return tx.Where("1 = 0")
		}
		return tx.Where(fmt.Sprintf("%s IN ?", column), values)
	})
}

// Where 任意过滤条件，用于“公开或者是自己的”这类组合条件
func Where(name string, query string, args ...any) Stage {
	return NewStage(name, KindFilter, func(tx *gorm.DB) *gorm.DB {
		return tx.Where(query, args...)
	})
}

// InnerJoin 用于过滤的连接，比如点赞行连接到视频行，悬空引用会被自然过滤
func InnerJoin(name string, query string, args ...any) Stage {
	return NewStage("join:"+name, KindFilter, func(tx *gorm.DB) *gorm.DB {
		return tx.Joins(query, args...)
	})
}

// TextSearch 大小写不敏感的子串匹配，多个字段之间是OR；query为空时返回nil，Plan.Then会忽略nil
func TextSearch(query string, columns ...string) Stage {
	query = strings.TrimSpace(query)
	if query == "" || len(columns) == 0 {
		return nil
	}
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	conds := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, col := range columns {
		conds = append(conds, fmt.Sprintf("LOWER(%s) LIKE ?", col))
		args = append(args, pattern)
	}
	where := "(" + strings.Join(conds, " OR ") + ")"
	return NewStage("text", KindFilter, func(tx *gorm.DB) *gorm.DB {
		return tx.Where(where, args...)
	})
}

// escapeLike 转义LIKE里的通配符，MySQL默认转义符是反斜杠
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// SortBy 按列排序
func SortBy(column string, desc bool) Stage {
	return NewStage("sort:"+column, KindSort, func(tx *gorm.DB) *gorm.DB {
		return tx.Order(clause.OrderByColumn{Column: clause.Column{Name: column, Raw: true}, Desc: desc})
	})
}

// ResolveSort 把调用方传来的sortBy/sortType翻译成排序阶段：sortBy只能是fields里的键，sortType只能是asc/desc，sortBy为空返回nil
func ResolveSort(fields map[string]string, sortBy, sortType string) (Stage, error) {
	if sortBy == "" {
		return nil, nil
	}
	column, ok := fields[sortBy]
	if !ok {
		return nil, errno.InvalidArgument.WithMessage("不支持的排序字段: " + sortBy)
	}
	switch strings.ToLower(sortType) {
	case "", "asc":
		return SortBy(column, false), nil
	case "desc":
		return SortBy(column, true), nil
	}
	return nil, errno.InvalidArgument.WithMessage("排序方式只能是asc或desc")
}

// 反范式连接时用户表的别名，以及只暴露的三个字段
const (
	OwnerAlias = "owner"
)

// OwnerColumns 用户的精简投影，别名与dto里的OwnerRow字段对应，绝不带出密码等其它字段
var OwnerColumns = []string{
	OwnerAlias + ".username AS owner_username",
	OwnerAlias + ".full_name AS owner_full_name",
	OwnerAlias + ".avatar AS owner_avatar",
}

// JoinOwner 反范式连接：把ownerColumn指向的用户替换成{username, fullName, avatar}，baseColumns是主表要保留的列
func JoinOwner(ownerColumn string, baseColumns ...string) Stage {
	join := fmt.Sprintf("LEFT JOIN users AS %s ON %s.id = %s AND %s.deleted_at IS NULL", OwnerAlias, OwnerAlias, ownerColumn, OwnerAlias)
	selects := append(append([]string{}, baseColumns...), OwnerColumns...)
	return NewStage("lookup:"+ownerColumn, KindProject, func(tx *gorm.DB) *gorm.DB {
		return tx.Joins(join).Select(strings.Join(selects, ", "))
	})
}

// Project 不需要连接时的投影
func Project(columns ...string) Stage {
	return NewStage("project", KindProject, func(tx *gorm.DB) *gorm.DB {
		return tx.Select(strings.Join(columns, ", "))
	})
}

// Group 按key折叠到目标实体粒度（DISTINCT），结果在响应里包成名为name的数组字段
func Group(name, key string) Stage {
	return &groupStage{name: name, key: key}
}

type groupStage struct {
	name string
	key  string
}

func (g *groupStage) Name() string { return "group:" + g.name }
func (g *groupStage) Kind() Kind   { return KindGroup }
func (g *groupStage) Apply(tx *gorm.DB) *gorm.DB {
	tx.Statement.Distinct = true
	return tx
}
