package service

import (
	"context"
	"sort"

	"github.com/user/streamhub/internal/model"
	"github.com/user/streamhub/internal/repository"
)

// RecommendInput 推荐请求
type RecommendInput struct {
	LikedGenres  []uint `json:"likedGenres"`
	LikedContent []uint `json:"likedContent"`
	ExcludeIDs   []uint `json:"excludeIds"`
}

// Recommendation 推荐结果项
type Recommendation struct {
	Content         *model.Content
	Score           int64
	GenreMatchCount int
	Fallback        bool
}

// RecommendService 推荐服务
type RecommendService struct {
	repos *repository.Repositories
}

func NewRecommendService(repos *repository.Repositories) *RecommendService {
	return &RecommendService{repos: repos}
}

// Recommend 按偏好分类打分推荐，数量不足时用热门内容补齐
func (s *RecommendService) Recommend(ctx context.Context, in *RecommendInput, limit int) ([]Recommendation, error) {
	excluded := mergeIDs(in.LikedContent, in.ExcludeIDs)
	preferred := mergeIDs(in.LikedGenres)

	candidates, err := s.repos.Content.RecommendationCandidates(ctx, excluded, preferred)
	if err != nil {
		return nil, err
	}
	results := RankRecommendations(candidates, preferred, excluded, limit)
	if len(results) >= limit {
		return results, nil
	}

	// 热门补齐，排除已排除和已返回的内容
	skip := append([]uint{}, excluded...)
	for _, r := range results {
		skip = append(skip, r.Content.ID)
	}
	fill, err := s.repos.Content.Popular(ctx, skip, limit-len(results))
	if err != nil {
		return nil, err
	}
	for _, c := range fill {
		results = append(results, Recommendation{
			Content:         c,
			Score:           c.PopularityScore(),
			GenreMatchCount: genreMatches(c, toSet(preferred)),
			Fallback:        true,
		})
	}
	return results, nil
}

// RankRecommendations 对候选内容打分排序
// score = (播放量 + 点赞数×5) × (1 + 命中分类数)，同分时新年份优先
func RankRecommendations(candidates []*model.Content, preferred, excluded []uint, limit int) []Recommendation {
	if limit <= 0 {
		return []Recommendation{}
	}
	skip := toSet(excluded)
	wanted := toSet(preferred)

	ranked := make([]Recommendation, 0, len(candidates))
	for _, c := range candidates {
		if skip[c.ID] {
			continue
		}
		matches := genreMatches(c, wanted)
		if len(wanted) > 0 && matches == 0 {
			continue
		}
		ranked = append(ranked, Recommendation{
			Content:         c,
			Score:           c.PopularityScore() * int64(1+matches),
			GenreMatchCount: matches,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Content.ReleaseYear != b.Content.ReleaseYear {
			return a.Content.ReleaseYear > b.Content.ReleaseYear
		}
		return a.Content.ID < b.Content.ID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func genreMatches(c *model.Content, wanted map[uint]bool) int {
	n := 0
	for _, g := range c.Genres {
		if wanted[g.ID] {
			n++
		}
	}
	return n
}

func toSet(ids []uint) map[uint]bool {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// mergeIDs 合并去重，忽略 0
func mergeIDs(lists ...[]uint) []uint {
	seen := make(map[uint]bool)
	var merged []uint
	for _, list := range lists {
		for _, id := range list {
			if id == 0 || seen[id] {
				continue
			}
			seen[id] = true
			merged = append(merged, id)
		}
	}
	return merged
}
