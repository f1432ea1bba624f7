package model

type User struct {
	BaseModel        // 包括 ID, CreatedAt, UpdatedAt, DeleteAt
	Username  string `gorm:"type:varchar(64);uniqueIndex;not null"`
	FullName  string `gorm:"type:varchar(128);not null"`
	Avatar    string
	Password  string `gorm:"not null" json:"-"`
}
