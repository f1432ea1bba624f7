package model

type Comment struct {
	BaseModel
	VideoID uint64 `gorm:"not null;index"` // index索引，加速按视频分页查评论
	OwnerID uint64 `gorm:"not null;index"`
	Content string `gorm:"type:text;not null"`

	Owner User `gorm:"foreignKey:OwnerID"`
}

func (Comment) TableName() string {
	return "comments"
}

func (c *Comment) GetOwnerID() uint64 { return c.OwnerID }
