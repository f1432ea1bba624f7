package model

// Video 视频：归属者、标题、简介、封面、视频地址、时长、是否公开
type Video struct {
	BaseModel
	OwnerID     uint64  `gorm:"not null;index"`
	Title       string  `gorm:"type:varchar(255);not null"`
	Description string  `gorm:"type:text"`
	Thumbnail   string  `gorm:"not null"`
	VideoFile   string  `gorm:"not null"`
	Duration    float64 `gorm:"default:0"`
	Views       uint64  `gorm:"default:0"`
	IsPublished bool    `gorm:"not null;index"`

	Owner User `gorm:"foreignKey:OwnerID;references:ID"`
}

func (v *Video) GetOwnerID() uint64 { return v.OwnerID }
