package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
	"github.com/user/streamhub/internal/config"
	"github.com/user/streamhub/internal/utils"
	"golang.org/x/sync/singleflight"
)

// RatingLookup 按标题查询外部评分
type RatingLookup interface {
	Lookup(ctx context.Context, title string, year int) (float64, bool)
}

// RatingService 外部评分查询（OMDb 兼容接口）
type RatingService struct {
	client  *utils.HTTPClient
	baseURL string
	apiKey  string
	cache   *utils.TTLCache[ratingResult]
	group   singleflight.Group
	breaker *gobreaker.CircuitBreaker[*omdbResponse]
}

type ratingResult struct {
	Rating float64
	Found  bool
}

type omdbResponse struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	IMDbRating string `json:"imdbRating"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

var errRatingDisabled = errors.New("rating api key is not set")

// NewRatingService 创建评分查询服务
func NewRatingService(cfg *config.Config) *RatingService {
	return &RatingService{
		client:  utils.NewHTTPClient(cfg.RatingAPITimeout),
		baseURL: cfg.RatingAPIURL,
		apiKey:  cfg.RatingAPIKey,
		cache:   utils.NewTTLCache[ratingResult](1000, 12*time.Hour),
		breaker: gobreaker.NewCircuitBreaker[*omdbResponse](gobreaker.Settings{
			Name:    "rating-api",
			Timeout: time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("[RatingService] 熔断状态变化")
			},
		}),
	}
}

// Lookup 查询评分，失败或未找到时返回 false，不影响调用方流程
func (s *RatingService) Lookup(ctx context.Context, title string, year int) (float64, bool) {
	title = strings.TrimSpace(title)
	if title == "" || s.apiKey == "" {
		return 0, false
	}

	key := strings.ToLower(title) + "|" + strconv.Itoa(year)
	if cached, ok := s.cache.Get(key); ok {
		return cached.Rating, cached.Found
	}

	// 使用 singleflight 避免并发重复查询
	val, err, _ := s.group.Do(key, func() (interface{}, error) {
		return s.fetch(ctx, title, year)
	})
	if err != nil {
		log.Warn().Err(err).Str("title", title).Msg("[RatingService] 查询外部评分失败")
		return 0, false
	}

	result := val.(ratingResult)
	s.cache.Set(key, result)
	return result.Rating, result.Found
}

func (s *RatingService) fetch(ctx context.Context, title string, year int) (ratingResult, error) {
	resp, err := s.breaker.Execute(func() (*omdbResponse, error) {
		return s.request(ctx, title, year)
	})
	if err != nil {
		return ratingResult{}, err
	}

	if !strings.EqualFold(resp.Response, "true") {
		return ratingResult{}, nil
	}
	if !titlesMatch(title, resp.Title) {
		log.Debug().Str("want", title).Str("got", resp.Title).Msg("[RatingService] 标题不匹配，忽略结果")
		return ratingResult{}, nil
	}

	rating, err := strconv.ParseFloat(resp.IMDbRating, 64)
	if err != nil || rating < 0 || rating > 10 {
		return ratingResult{}, nil
	}
	return ratingResult{Rating: rating, Found: true}, nil
}

func (s *RatingService) request(ctx context.Context, title string, year int) (*omdbResponse, error) {
	if s.apiKey == "" {
		return nil, errRatingDisabled
	}
	params := url.Values{}
	params.Set("apikey", s.apiKey)
	params.Set("t", title)
	if year > 0 {
		params.Set("y", strconv.Itoa(year))
	}

	var result omdbResponse
	if err := s.client.GetJSON(ctx, s.baseURL+"?"+params.Encode(), &result); err != nil {
		return nil, fmt.Errorf("rating api: %w", err)
	}
	return &result, nil
}

// titlesMatch 返回结果的标题与查询标题足够接近才采用
func titlesMatch(want, got string) bool {
	a := strings.ToLower(strings.TrimSpace(want))
	b := strings.ToLower(strings.TrimSpace(got))
	if a == "" || b == "" {
		return false
	}
	maxDistance := len([]rune(a)) / 5
	if maxDistance < 2 {
		maxDistance = 2
	}
	return levenshtein.ComputeDistance(a, b) <= maxDistance
}
