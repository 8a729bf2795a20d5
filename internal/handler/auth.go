package handler

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/user/streamhub/internal/middleware"
	"github.com/user/streamhub/internal/model"
	"github.com/user/streamhub/internal/service"
	"github.com/user/streamhub/internal/utils"
)

type authResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Register 注册
func (h *Handler) Register(c *gin.Context) {
	var req service.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, err)
		return
	}

	user, err := h.Users.Register(c.Request.Context(), &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	token, err := h.startSession(c, user)
	if err != nil {
		utils.Fail(c, utils.WrapInternal("注册成功但登录失败", err))
		return
	}
	utils.Created(c, authResponse{User: user, Token: token})
}

// Login 登录
func (h *Handler) Login(c *gin.Context) {
	var req service.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, err)
		return
	}

	user, err := h.Users.Login(c.Request.Context(), &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	token, err := h.startSession(c, user)
	if err != nil {
		utils.Fail(c, utils.WrapInternal("登录失败，请重试", err))
		return
	}
	utils.Success(c, authResponse{User: user, Token: token})
}

// Logout 登出
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)

	// 清理 Session
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"loggedOut": true})
}

// Me 当前登录用户
func (h *Handler) Me(c *gin.Context) {
	user, err := h.Users.Get(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, user)
}

// startSession 生成 JWT 并写入 Cookie 和 Session
func (h *Handler) startSession(c *gin.Context, user *model.User) (string, error) {
	token, err := middleware.GenerateToken(user.ID, user.Email, user.Role, h.Config.AppSecret, h.Config.JWTExpiry)
	if err != nil {
		return "", err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("token", token, int(h.Config.JWTExpiry.Seconds()), "/", "", h.Config.IsProduction(), true)

	// 保存 UserInfo 到 Session
	session := sessions.Default(c)
	session.Set(middleware.SessionUserKey, user.SessionUser())
	if err := session.Save(); err != nil {
		return "", err
	}
	return token, nil
}
