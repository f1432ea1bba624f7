package handler

import (
	"Orion_Tube/internal/dto"
	"Orion_Tube/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type UserHandler interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	GetProfile(c *gin.Context)
	GetChannelProfile(c *gin.Context)
}

// 对Service进行封装
type userHandler struct {
	UserService service.UserService
	uploadDir   string
}

// 封装函数
func NewUserHandler(userService service.UserService, uploadDir string) UserHandler {
	return &userHandler{UserService: userService, uploadDir: uploadDir}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// 注册：1、multipart表单里取用户名、昵称、密码，头像可选 2、service层注册 3、返回注册成功后的User
func (h *userHandler) Register(c *gin.Context) {
	logCtx := logFor(c).WithField("username", c.PostForm("username"))
	logCtx.Info("开始处理用户注册请求")

	avatarPath, err := saveUpload(c, "avatar", h.uploadDir, false)
	if err != nil {
		sendError(c, logCtx, err, "保存头像")
		return
	}

	user, err := h.UserService.Register(c.Request.Context(), service.RegisterInput{
		Username:   c.PostForm("username"),
		FullName:   c.PostForm("fullName"),
		Password:   c.PostForm("password"),
		AvatarPath: avatarPath,
	})
	if err != nil {
		sendError(c, logCtx, err, "用户注册")
		return
	}

	logCtx.WithField("user_id", user.ID).Info("用户注册成功")
	sendSuccess(c, http.StatusCreated, dto.ToUserResponse(user), "注册成功")
}

// 登录：1、Body解析为登录结构体 2、Username和Password传给service层 3、成功则返回token和用户信息
func (h *userHandler) Login(c *gin.Context) {
	var login LoginRequest
	if err := bindJSON(c, &login); err != nil {
		sendError(c, logFor(c), err, "登录请求参数解析")
		return
	}

	logCtx := logFor(c).WithField("username", login.Username)
	token, user, err := h.UserService.Login(c.Request.Context(), login.Username, login.Password)
	if err != nil {
		sendError(c, logCtx, err, "用户登录")
		return
	}

	logCtx.Info("用户登录成功")
	sendSuccess(c, http.StatusOK, dto.LoginResponse{Token: token, User: dto.ToUserResponse(user)}, "登录成功")
}

// 获取当前登录用户的信息
func (h *userHandler) GetProfile(c *gin.Context) {
	userID := currentUserID(c)
	logCtx := logFor(c).WithField("user_id", userID)

	user, err := h.UserService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		sendError(c, logCtx, err, "获取用户信息")
		return
	}
	sendSuccess(c, http.StatusOK, dto.ToUserResponse(user), "成功获取用户信息")
}

// 频道主页：匿名也能看，登录后多一个是否已订阅
func (h *userHandler) GetChannelProfile(c *gin.Context) {
	username := c.Param("username")
	logCtx := logFor(c).WithField("channel", username)

	profile, err := h.UserService.GetChannelProfile(c.Request.Context(), currentUserID(c), username)
	if err != nil {
		sendError(c, logCtx, err, "获取频道信息")
		return
	}
	sendSuccess(c, http.StatusOK, dto.ToChannelProfileResponse(profile), "成功获取频道信息")
}
