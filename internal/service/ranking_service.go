package service

import (
	"context"
	"time"

	"promptfolio/internal/cache"
	"promptfolio/internal/models"
	"promptfolio/internal/repository"
)

// Ranking periods.
const (
	PeriodAll   = "all"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// User ranking metrics.
const (
	MetricPosts     = "posts"
	MetricLikes     = "likes"
	MetricFollowers = "followers"
)

// DefaultRankLimit is the list size when the caller does not ask for one.
const DefaultRankLimit = 10

// RankingService computes top-N leaderboards over tags and users. Results are
// cached per (metric, period, limit) and allowed to lag by up to RankingTTL.
type RankingService struct {
	tagRepo  repository.TagRepository
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewRankingService returns a new RankingService.
func NewRankingService(tagRepo repository.TagRepository, userRepo repository.UserRepository) *RankingService {
	return &RankingService{
		tagRepo:  tagRepo,
		userRepo: userRepo,
		now:      time.Now,
	}
}

// sinceFor maps a period name to the window start. Unknown periods fall back
// to all time, matching the lenient query-parameter handling elsewhere.
func (s *RankingService) sinceFor(period string) (*time.Time, string) {
	switch period {
	case PeriodWeek:
		t := s.now().AddDate(0, 0, -7)
		return &t, PeriodWeek
	case PeriodMonth:
		t := s.now().AddDate(0, -1, 0)
		return &t, PeriodMonth
	default:
		return nil, PeriodAll
	}
}

func clampRankLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return DefaultRankLimit
	}
	return limit
}

// RankTags returns the top tags by post count for the period, 1-based ranks.
func (s *RankingService) RankTags(ctx context.Context, period string, limit int) ([]models.TagRank, error) {
	limit = clampRankLimit(limit)
	since, period := s.sinceFor(period)

	var ranks []models.TagRank
	err := cache.Aside(ctx, cache.TagRankKey(period, limit), &ranks, cache.RankingTTL, func() error {
		rows, err := s.tagRepo.Rank(ctx, since, limit)
		if err != nil {
			return err
		}
		for i := range rows {
			rows[i].Rank = i + 1
		}
		ranks = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	if ranks == nil {
		ranks = []models.TagRank{}
	}
	return ranks, nil
}

// RankUsers returns the top users for the metric and period, 1-based ranks.
// The followers metric ignores the period: follow rows are not windowed.
func (s *RankingService) RankUsers(ctx context.Context, metric, period string, limit int) ([]models.UserRank, error) {
	limit = clampRankLimit(limit)
	since, period := s.sinceFor(period)

	var fetch func() ([]models.UserRank, error)
	switch metric {
	case MetricLikes:
		fetch = func() ([]models.UserRank, error) { return s.userRepo.RankByLikes(ctx, since, limit) }
	case MetricFollowers:
		metric = MetricFollowers
		period = PeriodAll
		fetch = func() ([]models.UserRank, error) { return s.userRepo.RankByFollowers(ctx, limit) }
	case MetricPosts, "":
		metric = MetricPosts
		fetch = func() ([]models.UserRank, error) { return s.userRepo.RankByPosts(ctx, since, limit) }
	default:
		return nil, models.NewValidationError("metric must be posts, likes or followers")
	}

	var ranks []models.UserRank
	err := cache.Aside(ctx, cache.UserRankKey(metric, period, limit), &ranks, cache.RankingTTL, func() error {
		rows, err := fetch()
		if err != nil {
			return err
		}
		for i := range rows {
			rows[i].Rank = i + 1
		}
		ranks = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	if ranks == nil {
		ranks = []models.UserRank{}
	}
	return ranks, nil
}
