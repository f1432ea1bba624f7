package errno

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-redsync/redsync/v4"
	"gorm.io/gorm"
)

// ErrNo 业务错误：Status是返回给调用方的HTTP状态码，Code是错误分类，Msg是可以展示给用户的信息
type ErrNo struct {
	Status int
	Code   string
	Msg    string

	cause error // 内部错误，只进日志，不返回给调用方
}

func (e ErrNo) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e ErrNo) Unwrap() error {
	return e.cause
}

// Is 只比较错误分类，这样errors.Is(err, errno.NotFound)对改过Msg的错误也成立
func (e ErrNo) Is(target error) bool {
	t, ok := target.(ErrNo)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func (e ErrNo) WithMessage(msg string) ErrNo {
	e.Msg = msg
	return e
}

func (e ErrNo) WithCause(err error) ErrNo {
	e.cause = err
	return e
}

func NewErrNo(status int, code, msg string) ErrNo {
	return ErrNo{Status: status, Code: code, Msg: msg}
}

var (
	InvalidArgument = NewErrNo(http.StatusBadRequest, "InvalidArgument", "参数错误")
	Unauthorized    = NewErrNo(http.StatusUnauthorized, "Unauthorized", "用户未认证")
	Forbidden       = NewErrNo(http.StatusForbidden, "Forbidden", "无权操作该资源")
	NotFound        = NewErrNo(http.StatusNotFound, "NotFound", "资源不存在")
	Conflict        = NewErrNo(http.StatusConflict, "Conflict", "资源已存在")
	UploadFailed    = NewErrNo(http.StatusInternalServerError, "UploadFailed", "文件上传失败")
	ServiceErr      = NewErrNo(http.StatusInternalServerError, "ServiceErr", "服务器内部错误")
	Timeout         = NewErrNo(http.StatusGatewayTimeout, "Timeout", "请求超时，请稍后再试")
)

// ConvertErr 把任意错误归类到ErrNo：1、本身就是ErrNo直接返回 2、超时/抢锁失败归为Timeout 3、记录不存在归为NotFound 4、其余都是ServiceErr
func ConvertErr(err error) ErrNo {
	if err == nil {
		return ErrNo{}
	}
	var e ErrNo
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, redsync.ErrFailed) {
		return Timeout.WithCause(err)
	}
	// redsync不同版本返回的ErrTaken有值也有指针
	var taken redsync.ErrTaken
	var takenPtr *redsync.ErrTaken
	if errors.As(err, &taken) || errors.As(err, &takenPtr) {
		return Timeout.WithCause(err)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound.WithCause(err)
	}
	return ServiceErr.WithCause(err)
}
