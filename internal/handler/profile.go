package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/streamhub/internal/service"
	"github.com/user/streamhub/internal/utils"
)

// ListProfiles 子账号列表
func (h *Handler) ListProfiles(c *gin.Context) {
	userID, err := parseID(c, "userId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	profiles, err := h.Profiles.List(c.Request.Context(), userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.List(c, profiles)
}

// GetProfile 子账号详情
func (h *Handler) GetProfile(c *gin.Context) {
	userID, err := parseID(c, "userId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	profile, err := h.Profiles.Get(c.Request.Context(), userID, c.Param("profileId"))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, profile)
}

// CreateProfile 创建子账号
func (h *Handler) CreateProfile(c *gin.Context) {
	userID, err := parseID(c, "userId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	var req service.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, err)
		return
	}
	profile, err := h.Profiles.Create(c.Request.Context(), userID, &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Created(c, profile)
}

// UpdateProfile 更新子账号
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, err := parseID(c, "userId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	var req service.ProfilePatch
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, err)
		return
	}
	profile, err := h.Profiles.Update(c.Request.Context(), userID, c.Param("profileId"), &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, profile)
}

// DeleteProfile 删除子账号
func (h *Handler) DeleteProfile(c *gin.Context) {
	userID, err := parseID(c, "userId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	profileID := c.Param("profileId")
	if err := h.Profiles.Delete(c.Request.Context(), userID, profileID); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, gin.H{"id": profileID, "deleted": true})
}
