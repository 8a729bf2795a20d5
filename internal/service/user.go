package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/user/streamhub/internal/model"
	"github.com/user/streamhub/internal/repository"
	"github.com/user/streamhub/internal/utils"
)

// 登录失败统一提示，不区分邮箱不存在和密码错误
const invalidCredentials = "邮箱或密码错误"

// RegisterInput 注册请求
type RegisterInput struct {
	Name     string `json:"name" binding:"required,notblank,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// LoginInput 登录请求
type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserService 用户与认证服务
type UserService struct {
	repos    *repository.Repositories
	profiles *ProfileService
}

func NewUserService(repos *repository.Repositories, profiles *ProfileService) *UserService {
	return &UserService{repos: repos, profiles: profiles}
}

// Register 注册新用户，同时创建默认子账号
func (s *UserService) Register(ctx context.Context, in *RegisterInput) (*model.User, error) {
	existing, err := s.repos.User.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.NewConflict("该邮箱已被注册")
	}

	user := &model.User{
		Name:  strings.TrimSpace(in.Name),
		Email: in.Email,
		Role:  model.RoleUser,
	}
	user.Profiles = []model.Profile{NewDefaultProfile(user)}

	if err := s.repos.User.Create(ctx, user, in.Password); err != nil {
		return nil, err
	}
	log.Info().Uint("id", user.ID).Str("email", user.Email).Msg("[UserService] 新用户注册")
	return user, nil
}

// Login 校验邮箱密码，老账号登录时补建默认子账号
func (s *UserService) Login(ctx context.Context, in *LoginInput) (*model.User, error) {
	user, err := s.repos.User.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.repos.User.CheckPassword(user, in.Password) {
		return nil, utils.NewUnauthorized(invalidCredentials)
	}
	if !user.IsActive {
		return nil, utils.NewForbidden("账号已被禁用")
	}

	if err := s.profiles.EnsureDefault(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Get 获取用户
func (s *UserService) Get(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repos.User.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, utils.NewNotFound("用户不存在")
	}
	return user, nil
}

// List 用户列表（管理后台）
func (s *UserService) List(ctx context.Context, page utils.PageParams) ([]*model.User, int64, error) {
	return s.repos.User.ListAll(ctx, page.Limit, page.Offset())
}

// SetActive 启用或禁用账号
func (s *UserService) SetActive(ctx context.Context, id uint, active bool) (*model.User, error) {
	ok, err := s.repos.User.SetActive(ctx, id, active)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, utils.NewNotFound("用户不存在")
	}
	return s.Get(ctx, id)
}

// EnsureAdmin 创建管理员账号，邮箱已存在时提升为管理员并重置密码
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) (*model.User, error) {
	if len(password) < 6 {
		return nil, utils.NewValidationError("密码至少需要 6 个字符")
	}

	user, err := s.repos.User.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user = &model.User{Name: name, Email: email, Role: model.RoleAdmin}
		user.Profiles = []model.Profile{NewDefaultProfile(user)}
		if err := s.repos.User.Create(ctx, user, password); err != nil {
			return nil, err
		}
		return user, nil
	}

	if err := s.repos.User.UpdateRole(ctx, user.ID, model.RoleAdmin); err != nil {
		return nil, err
	}
	if err := s.repos.User.UpdatePassword(ctx, user.ID, password); err != nil {
		return nil, err
	}
	user.Role = model.RoleAdmin
	return user, nil
}
