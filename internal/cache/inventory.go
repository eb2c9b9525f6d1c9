package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix        = "user:%d"
	TagRankKeyPrefix     = "rank:tags:%s:%d"
	UserRankKeyPrefix    = "rank:users:%s:%s:%d"
	TokenBlacklistPrefix = "blacklist:%s"
)

const (
	UserTTL    = 5 * time.Minute
	RankingTTL = 5 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func TagRankKey(period string, limit int) string {
	return fmt.Sprintf(TagRankKeyPrefix, period, limit)
}

func UserRankKey(metric, period string, limit int) string {
	return fmt.Sprintf(UserRankKeyPrefix, metric, period, limit)
}

func TokenBlacklistKey(jti string) string {
	return fmt.Sprintf(TokenBlacklistPrefix, jti)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidateRankings drops all cached ranking pages. Rankings otherwise age
// out on their own within RankingTTL.
func InvalidateRankings(ctx context.Context) {
	if client == nil {
		return
	}
	for _, pattern := range []string{"rank:tags:*", "rank:users:*"} {
		keys, err := client.Keys(ctx, pattern).Result()
		if err != nil {
			continue
		}
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
	}
}
