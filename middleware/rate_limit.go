package middleware

import (
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/quokit/waitlist_api/shared"
)

// GatewayRateLimit is the coarse per-IP limiter in front of every route.
// It is a token bucket kept in process memory, independent of the
// Redis-backed waitlist quota: this one absorbs floods, the quota enforces
// the product rule.
type GatewayRateLimit struct {
	context.DefaultService

	mu      sync.Mutex
	entries map[string]*limiterEntry

	rps     rate.Limit
	burst   int
	idleTTL time.Duration

	closed chan struct{}
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

const GATEWAY_RATE_LIMIT_SVC = "gateway_rate_limit"

func (svc *GatewayRateLimit) Id() string {
	return GATEWAY_RATE_LIMIT_SVC
}

func (svc *GatewayRateLimit) Configure(ctx *context.Context) error {
	svc.entries = make(map[string]*limiterEntry)
	svc.idleTTL = 15 * time.Minute
	svc.closed = make(chan struct{})

	svc.rps = 20
	if v := os.Getenv("GATEWAY_RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			svc.rps = rate.Limit(f)
		}
	}

	svc.burst = 40
	if v := os.Getenv("GATEWAY_RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			svc.burst = n
		}
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *GatewayRateLimit) Start() error {
	go svc.janitor()
	return nil
}

func (svc *GatewayRateLimit) Shutdown() {
	close(svc.closed)
}

// Handler returns the Fiber middleware.
func (svc *GatewayRateLimit) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := shared.ClientIP(c)

		if !svc.limiterFor(ip).Allow() {
			log.WithField("ip", ip).Warn("Gateway rate limit exceeded")
			return shared.ResponseJSON(c, http.StatusTooManyRequests, "Too many requests. Please slow down.", nil)
		}

		return c.Next()
	}
}

func (svc *GatewayRateLimit) limiterFor(key string) *rate.Limiter {
	now := time.Now()

	svc.mu.Lock()
	defer svc.mu.Unlock()

	if ent, ok := svc.entries[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}

	lim := rate.NewLimiter(svc.rps, svc.burst)
	svc.entries[key] = &limiterEntry{lim: lim, lastSeen: now}
	return lim
}

// Cleanup drops limiters that have been idle past the TTL.
func (svc *GatewayRateLimit) Cleanup() {
	cutoff := time.Now().Add(-svc.idleTTL)

	svc.mu.Lock()
	defer svc.mu.Unlock()

	for k, ent := range svc.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(svc.entries, k)
		}
	}
}

func (svc *GatewayRateLimit) janitor() {
	ticker := time.NewTicker(2 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-svc.closed:
			return
		case <-ticker.C:
			svc.Cleanup()
		}
	}
}
