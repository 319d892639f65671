package middleware

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	ginmiddleware "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

// RateLimiter limits requests per client IP. rateStr uses the limiter
// format ("120-M", "10-S"). With a redis client the counters are shared
// between instances, otherwise they live in process memory.
func RateLimiter(rateStr string, rdb *redis.Client) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(rateStr)
	if err != nil {
		return nil, fmt.Errorf("parsing rate %q: %w", rateStr, err)
	}

	var store limiter.Store
	if rdb != nil {
		store, err = redisstore.NewStoreWithOptions(rdb, limiter.StoreOptions{
			Prefix:   "rate_limiter:api",
			MaxRetry: 3,
		})
		if err != nil {
			return nil, fmt.Errorf("creating redis limiter store: %w", err)
		}
	} else {
		store = memorystore.NewStore()
	}

	slog.Info("rate limiter enabled", "limit", rate.Limit, "period", rate.Period, "shared", rdb != nil)

	return ginmiddleware.NewMiddleware(limiter.New(store, rate)), nil
}
