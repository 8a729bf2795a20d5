package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/streamhub/internal/utils"
)

// GenreStats 分类热度统计
func (h *Handler) GenreStats(c *gin.Context) {
	stats, err := h.Stats.GenrePopularity(c.Request.Context())
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.List(c, stats)
}

// ProfileViewStats 子账号当日观看统计，date=YYYY-MM-DD 可查询其他日期
func (h *Handler) ProfileViewStats(c *gin.Context) {
	userID, err := parseID(c, "userId")
	if err != nil {
		utils.Fail(c, err)
		return
	}

	var day time.Time
	if raw := c.Query("date"); raw != "" {
		day, err = time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			utils.BadRequest(c, "日期格式应为 YYYY-MM-DD")
			return
		}
	}

	stats, err := h.Stats.ProfileViews(c.Request.Context(), userID, day)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.List(c, stats)
}
