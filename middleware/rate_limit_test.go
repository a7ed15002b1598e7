package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestGateway(rps rate.Limit, burst int) *GatewayRateLimit {
	return &GatewayRateLimit{
		entries: make(map[string]*limiterEntry),
		rps:     rps,
		burst:   burst,
		idleTTL: 15 * time.Minute,
	}
}

func TestGateway_LimiterFor_ReusesPerKey(t *testing.T) {
	svc := newTestGateway(1, 2)

	a := svc.limiterFor("1.2.3.4")
	assert.Same(t, a, svc.limiterFor("1.2.3.4"))
	assert.NotSame(t, a, svc.limiterFor("5.6.7.8"))
}

func TestGateway_BurstThenDenied(t *testing.T) {
	svc := newTestGateway(1, 2)
	lim := svc.limiterFor("1.2.3.4")

	assert.True(t, lim.Allow())
	assert.True(t, lim.Allow())
	assert.False(t, lim.Allow())

	// Another key still has its full burst.
	assert.True(t, svc.limiterFor("5.6.7.8").Allow())
}

func TestGateway_Cleanup(t *testing.T) {
	svc := newTestGateway(1, 2)

	svc.limiterFor("stale")
	svc.limiterFor("fresh")
	svc.entries["stale"].lastSeen = time.Now().Add(-time.Hour)

	svc.Cleanup()

	assert.NotContains(t, svc.entries, "stale")
	assert.Contains(t, svc.entries, "fresh")
}

func TestGateway_Handler(t *testing.T) {
	svc := newTestGateway(1, 1)

	app := fiber.New()
	app.Use(svc.Handler())
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Forwarded-For", ip)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusOK, do("1.2.3.4"))
	assert.Equal(t, http.StatusTooManyRequests, do("1.2.3.4"))
	assert.Equal(t, http.StatusOK, do("5.6.7.8"))
}
