package handler

import (
	"Orion_Tube/internal/pipeline"
	"Orion_Tube/pkg/errno"
	"Orion_Tube/pkg/logger"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Response 统一的响应信封，成功和失败都是这个形状
type Response struct {
	Status  int    `json:"status"`
	Data    any    `json:"data"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// ErrorResponse 失败时没有data字段
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

func sendSuccess(c *gin.Context, status int, data any, message string) {
	c.JSON(status, Response{
		Status:  status,
		Data:    data,
		Message: message,
		Success: true,
	})
}

// sendError 把任意错误归类后返回：1、ConvertErr得到状态码和可展示的信息 2、内部原因只进日志 3、中止后续处理
func sendError(c *gin.Context, logCtx *logrus.Entry, err error, action string) {
	e := errno.ConvertErr(err)
	entry := logCtx.WithError(err).WithField("status", e.Status)
	// 5xx是我们自己的问题，4xx只是调用方传错了
	if e.Status >= http.StatusInternalServerError {
		entry.Error(action + "失败")
	} else {
		entry.Warn(action + "失败")
	}
	c.AbortWithStatusJSON(e.Status, ErrorResponse{
		Status:  e.Status,
		Message: e.Msg,
		Success: false,
	})
}

// logFor 每个请求的日志都带上request_id和ip，方便溯源
func logFor(c *gin.Context) *logrus.Entry {
	return logger.Log.WithFields(logrus.Fields{
		"request_id": c.GetString("requestID"),
		"ip":         c.ClientIP(),
	})
}

// currentUserID 因为context中的userID是从jwt中间件中解析的，jwt.MapClaims中的数字会被解析为float64，匿名请求返回0
func currentUserID(c *gin.Context) uint64 {
	userIDFloat, exists := c.Get("userID")
	if !exists {
		return 0
	}
	f, ok := userIDFloat.(float64)
	if !ok {
		return 0
	}
	return uint64(f)
}

// paramID URL中取回的是str，统一转化为uint64，0也不合法
func paramID(c *gin.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errno.InvalidArgument.WithMessage("无效的" + name)
	}
	return id, nil
}

// bindJSON c.ShouldBindJSON，绑定和校验，如果Body中不包含“required”字段，则会返回错误
func bindJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return errno.InvalidArgument.WithMessage("无效的参数").WithCause(err)
	}
	return nil
}

func pageParams(c *gin.Context, maxLimit int) (pipeline.Params, error) {
	return pipeline.ParseParams(c.Query("page"), c.Query("limit"), maxLimit)
}
