package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/user/streamhub/internal/model"
	"github.com/user/streamhub/internal/repository"
	"github.com/user/streamhub/internal/utils"
)

// ProfileInput 创建子账号的请求数据
type ProfileInput struct {
	Name  string `json:"name" binding:"required"`
	Image string `json:"image"`
}

// ProfilePatch 更新子账号的请求数据
type ProfilePatch struct {
	Name  *string `json:"name"`
	Image *string `json:"image"`
}

// ProfileService 子账号服务
type ProfileService struct {
	repos *repository.Repositories
}

func NewProfileService(repos *repository.Repositories) *ProfileService {
	return &ProfileService{repos: repos}
}

// NewDefaultProfile 生成默认子账号
func NewDefaultProfile(user *model.User) model.Profile {
	return model.Profile{
		ID:    uuid.NewString(),
		Name:  user.DefaultProfileName(),
		Image: model.DefaultAvatar,
	}
}

// EnsureDefault 用户没有子账号时补建默认子账号并保存
func (s *ProfileService) EnsureDefault(ctx context.Context, user *model.User) error {
	if len(user.Profiles) > 0 {
		return nil
	}
	user.Profiles = []model.Profile{NewDefaultProfile(user)}
	return s.repos.User.SaveProfiles(ctx, user)
}

// LoadUser 加载用户并补建默认子账号
func (s *ProfileService) LoadUser(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.repos.User.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, utils.NewNotFound("用户不存在")
	}
	if err := s.EnsureDefault(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// List 子账号列表
func (s *ProfileService) List(ctx context.Context, userID uint) ([]model.Profile, error) {
	user, err := s.LoadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Profiles, nil
}

// Get 获取单个子账号
func (s *ProfileService) Get(ctx context.Context, userID uint, profileID string) (*model.Profile, error) {
	user, err := s.LoadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx, ok := user.FindProfile(profileID)
	if !ok {
		return nil, utils.NewNotFound("子账号不存在")
	}
	profile := user.Profiles[idx]
	return &profile, nil
}

// Create 创建子账号，每个用户最多 5 个
func (s *ProfileService) Create(ctx context.Context, userID uint, in *ProfileInput) (*model.Profile, error) {
	user, err := s.LoadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.Profiles) >= model.MaxProfiles {
		return nil, utils.NewValidationError("每个账号最多创建 5 个子账号")
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, utils.NewValidationError("子账号名称不能为空")
	}
	image := strings.TrimSpace(in.Image)
	if image == "" {
		image = model.DefaultAvatar
	}

	profile := model.Profile{
		ID:    uuid.NewString(),
		Name:  model.TruncateProfileName(name),
		Image: image,
	}
	user.Profiles = append(user.Profiles, profile)
	if err := s.repos.User.SaveProfiles(ctx, user); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update 部分更新子账号
func (s *ProfileService) Update(ctx context.Context, userID uint, profileID string, patch *ProfilePatch) (*model.Profile, error) {
	user, err := s.LoadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx, ok := user.FindProfile(profileID)
	if !ok {
		return nil, utils.NewNotFound("子账号不存在")
	}

	profile := &user.Profiles[idx]
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, utils.NewValidationError("子账号名称不能为空")
		}
		profile.Name = model.TruncateProfileName(name)
	}
	if patch.Image != nil {
		image := strings.TrimSpace(*patch.Image)
		if image == "" {
			image = model.DefaultAvatar
		}
		profile.Image = image
	}

	if err := s.repos.User.SaveProfiles(ctx, user); err != nil {
		return nil, err
	}
	updated := *profile
	return &updated, nil
}

// Delete 删除子账号
func (s *ProfileService) Delete(ctx context.Context, userID uint, profileID string) error {
	user, err := s.LoadUser(ctx, userID)
	if err != nil {
		return err
	}
	idx, ok := user.FindProfile(profileID)
	if !ok {
		return utils.NewNotFound("子账号不存在")
	}

	user.Profiles = append(user.Profiles[:idx], user.Profiles[idx+1:]...)
	return s.repos.User.SaveProfiles(ctx, user)
}
