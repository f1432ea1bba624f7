package handler

import (
	"Orion_Tube/pkg/errno"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// saveUpload 把multipart里的文件先落到本地临时目录，文件名换成uuid，后续交给上传组件
// required为false并且请求里没有这个文件时返回空串
func saveUpload(c *gin.Context, field, dir string, required bool) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			if !required {
				return "", nil
			}
			return "", errno.InvalidArgument.WithMessage("缺少文件: " + field)
		}
		return "", errno.InvalidArgument.WithMessage("文件解析失败").WithCause(err)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	dst := filepath.Join(dir, uuid.NewString()+ext)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", errno.UploadFailed.WithCause(err)
	}
	return dst, nil
}

// formOptional 表单里没有这个字段时返回nil，用来区分“不修改”和“改成空”
func formOptional(c *gin.Context, key string) *string {
	v, ok := c.GetPostForm(key)
	if !ok {
		return nil
	}
	return &v
}
