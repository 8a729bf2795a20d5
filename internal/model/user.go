package model

import (
	"strings"
	"time"
	"unicode/utf8"
)

// 用户角色
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// 子账号限制
const (
	MaxProfiles       = 5
	MaxProfileNameLen = 20
	DefaultAvatar     = "/images/avatars/default.png"
)

// User 用户模型
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         string    `json:"role" gorm:"not null;default:user"`
	IsActive     bool      `json:"isActive" gorm:"not null;default:true"`
	Profiles     []Profile `json:"profiles" gorm:"serializer:json;type:text"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Profile 用户下的子账号（家庭成员等）
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// SessionUser 专门用于 Session 存储的用户信息结构
type SessionUser struct {
	ID    uint
	Email string
	Name  string
	Role  string
}

// IsAdmin 是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// SessionUser 转换为 Session 存储结构
func (u *User) SessionUser() SessionUser {
	return SessionUser{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// FindProfile 根据 ID 查找子账号，返回下标
func (u *User) FindProfile(profileID string) (int, bool) {
	for i, p := range u.Profiles {
		if p.ID == profileID {
			return i, true
		}
	}
	return -1, false
}

// DefaultProfileName 取用户名的第一个词作为默认子账号名
func (u *User) DefaultProfileName() string {
	name := "Profile"
	if fields := strings.Fields(u.Name); len(fields) > 0 {
		name = fields[0]
	}
	return TruncateProfileName(name)
}

// TruncateProfileName 子账号名最多 20 个字符
func TruncateProfileName(name string) string {
	if utf8.RuneCountInString(name) <= MaxProfileNameLen {
		return name
	}
	return string([]rune(name)[:MaxProfileNameLen])
}

// NormalizeEmail 邮箱统一小写
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
