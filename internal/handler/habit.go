package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/streamhub/internal/repository"
	"github.com/user/streamhub/internal/service"
	"github.com/user/streamhub/internal/utils"
)

// ListHabits 用户观看记录
func (h *Handler) ListHabits(c *gin.Context) {
	userID, err := parseID(c, "userId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	filter := repository.HabitFilter{
		ContentID: queryUint(c, "contentId"),
		Completed: queryBool(c, "completed"),
	}
	page := pageParams(c)

	habits, total, err := h.Habits.List(c.Request.Context(), userID, filter, page)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Paginated(c, habits, total, page)
}

// ContentHabits 用户在某内容下的观看记录
func (h *Handler) ContentHabits(c *gin.Context) {
	userID, err := parseID(c, "userId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	contentID, err := parseID(c, "contentId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	habits, err := h.Habits.ForContent(c.Request.Context(), userID, contentID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.List(c, habits)
}

// UpdateProgress 上报播放进度
func (h *Handler) UpdateProgress(c *gin.Context) {
	userID, err := parseID(c, "userId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	var req service.ProgressInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, err)
		return
	}
	habit, err := h.Habits.RecordProgress(c.Request.Context(), userID, &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, habit)
}

// UpdateLike 设置点赞状态
func (h *Handler) UpdateLike(c *gin.Context) {
	userID, err := parseID(c, "userId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	var req service.LikeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, err)
		return
	}
	result, err := h.Habits.SetLike(c.Request.Context(), userID, &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, result.Habit)
}

// UpdateRating 设置评分
func (h *Handler) UpdateRating(c *gin.Context) {
	userID, err := parseID(c, "userId")
	if err != nil {
		utils.Fail(c, err)
		return
	}
	var req service.RatingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, err)
		return
	}
	habit, err := h.Habits.SetRating(c.Request.Context(), userID, &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, habit)
}
