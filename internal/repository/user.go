package repository

import (
	"context"
	"errors"

	"github.com/user/streamhub/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 创建用户（密码在此处哈希）
func (r *UserRepository) Create(ctx context.Context, user *model.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Email = model.NormalizeEmail(user.Email)
	user.PasswordHash = string(hash)
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	user.IsActive = true

	return r.db.WithContext(ctx).Create(user).Error
}

// FindByEmail 根据邮箱查找用户
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", model.NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// FindByID 根据 ID 查找用户
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// CheckPassword 验证密码
func (r *UserRepository) CheckPassword(user *model.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	return err == nil
}

// SaveProfiles 覆盖写入子账号列表
func (r *UserRepository) SaveProfiles(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Model(user).Select("profiles", "updated_at").Updates(user).Error
}

// UpdatePassword 更新密码
func (r *UserRepository) UpdatePassword(ctx context.Context, userID uint, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Update("password_hash", string(hash)).Error
}

// ListAll 分页获取用户列表
func (r *UserRepository) ListAll(ctx context.Context, limit, offset int) ([]*model.User, int64, error) {
	var users []*model.User
	var total int64
	db := r.db.WithContext(ctx)
	if err := db.Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Order("id ASC").Limit(limit).Offset(offset).Find(&users).Error
	return users, total, err
}

// UpdateRole 更新用户角色
func (r *UserRepository) UpdateRole(ctx context.Context, userID uint, role string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Update("role", role).Error
}

// SetActive 启用/禁用用户
func (r *UserRepository) SetActive(ctx context.Context, userID uint, active bool) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Update("is_active", active)
	return result.RowsAffected > 0, result.Error
}
