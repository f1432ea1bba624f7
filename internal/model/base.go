package model

import (
	"time"

	"gorm.io/gorm"
)

// 由于gorm的基本结构中ID是uint类型，我想都统一成uint64，所以自己搞了个base结构体
type BaseModel struct {
	ID        uint64 `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// 关系行（点赞、订阅）只有“存在/不存在”两种状态，不能软删除，否则唯一索引会挡住第二次点赞
type RelationBase struct {
	ID        uint64 `gorm:"primarykey"`
	CreatedAt time.Time
}

// Owned 有归属者的实体，鉴权守卫只关心这一个字段
type Owned interface {
	GetOwnerID() uint64
}
