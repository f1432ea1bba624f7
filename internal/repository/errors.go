package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// MySQL的唯一索引冲突错误码
const mysqlErrDuplicateEntry = 1062

// IsDuplicateKey 判断是不是唯一索引冲突，也就是“这行已经存在了”
func IsDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry
}
