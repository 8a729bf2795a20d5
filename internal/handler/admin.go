package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/streamhub/internal/middleware"
	"github.com/user/streamhub/internal/model"
	"github.com/user/streamhub/internal/utils"
)

type userStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// AdminUsers 用户列表
func (h *Handler) AdminUsers(c *gin.Context) {
	page := pageParams(c)
	users, total, err := h.Users.List(c.Request.Context(), page)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Paginated(c, users, total, page)
}

// AdminUserStatus 启用/禁用用户，不能禁用自己
func (h *Handler) AdminUserStatus(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	var req userStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, err)
		return
	}
	if id == middleware.GetUserID(c) && !*req.IsActive {
		utils.Fail(c, utils.NewValidationError("不能禁用当前登录的账号"))
		return
	}

	user, err := h.Users.SetActive(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, user)
}

// AdminLogs 运行日志
func (h *Handler) AdminLogs(c *gin.Context) {
	level := c.Query("level")
	switch level {
	case "", model.LogLevelInfo, model.LogLevelWarning, model.LogLevelError:
	default:
		utils.BadRequest(c, "level 只能是 info、warning 或 error")
		return
	}

	page := pageParams(c)
	logs, total, err := h.Repos.Log.List(c.Request.Context(), level, page.Limit, page.Offset())
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Paginated(c, logs, total, page)
}
