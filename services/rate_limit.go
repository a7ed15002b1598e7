package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strconv"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/quokit/waitlist_api/dto"
)

// RateLimitService enforces the per-client submission quota with a true
// sliding window over Redis: every attempt lands in a sorted set scored by
// arrival time, and the count inside the trailing window decides the
// outcome. Attempts are charged whether or not the submission later fails.
type RateLimitService struct {
	appContext.DefaultService

	redisSvc *RedisService

	maxRequests int
	window      time.Duration
}

const RATE_LIMIT_SVC = "rate_limit_svc"

const rateLimitKeyPrefix = "waitlist:ratelimit:"

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *appContext.Context) error {
	svc.maxRequests = quotaFromEnv()
	svc.window = windowFromEnv()
	return svc.DefaultService.Configure(ctx)
}

func quotaFromEnv() int {
	if v := os.Getenv("WAITLIST_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
		log.WithField("value", v).Warn("Invalid WAITLIST_RATE_LIMIT, using default")
	}
	return 10
}

func windowFromEnv() time.Duration {
	if v := os.Getenv("WAITLIST_RATE_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
		log.WithField("value", v).Warn("Invalid WAITLIST_RATE_WINDOW, using default")
	}
	return 24 * time.Hour
}

func (svc *RateLimitService) Start() error {
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

// SetRedisService is a test seam.
func (svc *RateLimitService) SetRedisService(redisSvc *RedisService) {
	svc.redisSvc = redisSvc
}

// Consume charges one attempt against identity and reports whether the
// request may proceed. The attempt is recorded regardless of the outcome.
func (svc *RateLimitService) Consume(ctx context.Context, identity string) (*dto.RateLimitInfo, error) {
	now := time.Now()

	count, err := svc.redisSvc.SlidingWindowCount(ctx,
		rateLimitKeyPrefix+identity, uuid.New().String(), now, svc.window)
	if err != nil {
		return nil, err
	}

	remaining := svc.maxRequests - int(count)
	if remaining < 0 {
		remaining = 0
	}

	resetTime := now.Add(svc.window)
	return &dto.RateLimitInfo{
		Allowed:   int(count) <= svc.maxRequests,
		Remaining: remaining,
		ResetTime: &resetTime,
	}, nil
}

// ClientIdentity derives the quota key from the forwarded IP and the first
// 50 characters of the user-agent, hashed so raw metadata never becomes a
// Redis key.
func ClientIdentity(ip, userAgent string) string {
	if ip == "" {
		ip = "anonymous"
	}
	if userAgent == "" {
		userAgent = "unknown"
	}
	if len(userAgent) > 50 {
		userAgent = userAgent[:50]
	}

	sum := sha256.Sum256([]byte(ip + "-" + userAgent))
	return hex.EncodeToString(sum[:16])
}
