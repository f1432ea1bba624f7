package service

import (
	"Orion_Tube/internal/dto"
	"Orion_Tube/internal/model"
	"Orion_Tube/internal/repository"
	"Orion_Tube/pkg/errno"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const tokenTTL = time.Hour * 72

type RegisterInput struct {
	Username   string
	FullName   string
	Password   string
	AvatarPath string // 可选
}

// 用户服务接口：1、注册 2、登录 3、个人信息 4、频道主页
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, username, password string) (string, *model.User, error)
	GetProfile(ctx context.Context, userID uint64) (*model.User, error)
	GetChannelProfile(ctx context.Context, viewer uint64, username string) (*dto.ChannelProfile, error)
}

// 用户服务包装
type userService struct {
	userRepo  repository.UserRepository
	relations RelationService
	uploader  Uploader
	secretKey []byte
}

// 包装函数
func NewUserService(userRepo repository.UserRepository, relations RelationService, uploader Uploader, secretKey string) UserService {
	return &userService{
		userRepo:  userRepo,
		relations: relations,
		uploader:  uploader,
		secretKey: []byte(secretKey),
	}
}

// 注册逻辑：1、校验字段 2、检查是否重名 3、上传头像（可选） 4、密码加密存储 5、插入数据库，并发注册撞上唯一索引也算重名
func (s *userService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	fullName := strings.TrimSpace(in.FullName)
	if username == "" || fullName == "" || in.Password == "" {
		Discard(in.AvatarPath)
		return nil, errno.InvalidArgument.WithMessage("用户名、昵称和密码不能为空")
	}

	_, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil {
		Discard(in.AvatarPath)
		return nil, errno.Conflict.WithMessage("用户名已存在")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		Discard(in.AvatarPath)
		return nil, err
	}

	var avatar string
	if in.AvatarPath != "" {
		res, err := s.uploader.Upload(ctx, in.AvatarPath)
		if err != nil {
			return nil, errno.UploadFailed.WithCause(err)
		}
		avatar = res.URL
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	newUser := &model.User{
		Username: username,
		FullName: fullName,
		Avatar:   avatar,
		Password: string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, errno.Conflict.WithMessage("用户名已存在")
		}
		return nil, err
	}
	return newUser, nil
}

// 登录逻辑：1、检查库中是否有该用户名 2、加密后密码和输入密码比对 3、生成jwt签名
func (s *userService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return "", nil, errno.InvalidArgument.WithMessage("用户名和密码不能为空")
	}
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, errno.Unauthorized.WithMessage("用户名或密码错误")
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, errno.Unauthorized.WithMessage("用户名或密码错误")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// issueToken token对象的Payload，不能将密码放在其中，Payload不加密
func (s *userService) issueToken(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(tokenTTL).Unix(),
		"iat":      time.Now().Unix(),
	}
	// token加上Header，算法信息HS256，对称加密
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

func (s *userService) GetProfile(ctx context.Context, userID uint64) (*model.User, error) {
	if userID == 0 {
		return nil, errno.Unauthorized
	}
	return s.userRepo.FindByID(ctx, userID)
}

// GetChannelProfile 频道主页：粉丝数、关注数、viewer是否已订阅，三个查询并发
func (s *userService) GetChannelProfile(ctx context.Context, viewer uint64, username string) (*dto.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, errno.InvalidArgument.WithMessage("用户名不能为空")
	}
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	profile := &dto.ChannelProfile{User: user}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.relations.Count(gctx, model.TargetChannel, user.ID)
		profile.SubscribersCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.relations.CountByPrincipal(gctx, user.ID, model.TargetChannel)
		profile.ChannelsSubscribedToCount = n
		return err
	})
	g.Go(func() error {
		ok, err := s.relations.IsActive(gctx, viewer, model.TargetChannel, user.ID)
		profile.IsSubscribed = ok
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return profile, nil
}
