package data

import (
	"Orion_Tube/internal/model"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Models 需要迁移的全部表
var Models = []any{
	&model.User{},
	&model.Video{},
	&model.Comment{},
	&model.Tweet{},
	&model.Playlist{},
	&model.Like{},
	&model.Subscription{},
}

// OpenMySQL 连接数据库并配置连接池
// dsn格式：用户名:密码@网络协议(地址:端口号)/数据库名?charset=字符集&parseTime=是否解析时间&loc=时区
func OpenMySQL(dsn string) (*gorm.DB, error) {
	// 这个mysql包是gorm的第三方承包商，mysql.Open()后还是只能执行原始SQL语句，gorm.Open()后可以执行gorm的简化语句
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// Migrate db.AutoMigrate(),没有这个表就创建,没有属性列则创建列,没有约束则增加约束;不会主动删除和修改
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models...)
}
