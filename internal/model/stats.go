package model

// GenreStat 分类热度统计
type GenreStat struct {
	GenreID      uint   `json:"genreId"`
	Name         string `json:"name"`
	TotalViews   int64  `json:"totalViews"`
	TotalLikes   int64  `json:"totalLikes"`
	ContentCount int64  `json:"contentCount"`
}

// ProfileViewStat 子账号当日观看统计
type ProfileViewStat struct {
	ProfileID     string  `json:"profileId"`
	Name          string  `json:"name"`
	Image         string  `json:"image"`
	ViewCount     int64   `json:"viewCount"`
	TotalDuration float64 `json:"totalDuration"`
}
