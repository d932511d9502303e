package handler

import (
	"net/http"
	"strings"
	"sync"

	"planejeja/internal/controller"
	"planejeja/internal/models"
	"planejeja/internal/repo"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Per-user request rates. Premium subscribers get more headroom.
const (
	freePlanRPS    = 5
	premiumPlanRPS = 20
	limiterBurst   = 10
)

// RateLimiter keeps one token bucket per caller, sized by plan.
type RateLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
	}
}

func (rl *RateLimiter) getLimiter(key, plan string) *rate.Limiter {
	rl.mu.RLock()
	limiter, exists := rl.limiters[key]
	rl.mu.RUnlock()
	if exists {
		return limiter
	}

	limit := rate.Limit(freePlanRPS)
	if plan == models.PlanPremium {
		limit = rate.Limit(premiumPlanRPS)
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if limiter, exists := rl.limiters[key]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(limit, limiterBurst)
	rl.limiters[key] = limiter
	return limiter
}

// Allow reports whether one more request fits the caller's budget.
func (rl *RateLimiter) Allow(key, plan string) bool {
	return rl.getLimiter(key, plan).Allow()
}

// authMiddleware resolves the caller from the Authorization bearer token and
// stores the user in the request context. Unknown or missing keys get 401.
func authMiddleware(repository *repo.Repository) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		apiKey := strings.TrimSpace(strings.TrimPrefix(ctx.GetHeader("Authorization"), "Bearer "))
		if apiKey == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": controller.MsgUnauthorized})
			return
		}

		user, err := repository.GetUserByAPIKey(apiKey)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": controller.MsgUnauthorized})
			return
		}

		ctx.Set(controller.ContextUserKey, user)
		ctx.Next()
	}
}

// rateLimitMiddleware enforces the per-user budget. It runs after auth, so
// the key is the user ID; anything unauthenticated never reaches it.
func rateLimitMiddleware(rl *RateLimiter) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		value, exists := ctx.Get(controller.ContextUserKey)
		if !exists {
			ctx.Next()
			return
		}
		user, ok := value.(*models.User)
		if !ok {
			ctx.Next()
			return
		}

		if !rl.Allow(user.ID, user.Plan) {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Limite de requisições excedido. Tente novamente em instantes.",
			})
			return
		}
		ctx.Next()
	}
}
