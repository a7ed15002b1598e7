package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quokit/waitlist_api/shared"
)

type fakeMetricsService struct {
	records []map[string]interface{}
	err     error

	network string
}

func (f *fakeMetricsService) GetNetworkMetrics(ctx context.Context, network string) ([]map[string]interface{}, error) {
	f.network = network
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func newMetricsApp(svc NetworkMetricsServiceInterface) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if appErr, ok := shared.GetAppError(err); ok {
				return c.Status(appErr.StatusCode).JSON(fiber.Map{"error": appErr.Message})
			}
			return c.SendStatus(http.StatusInternalServerError)
		},
	})
	app.Get("/api/v1/metrics/:network", NewMetricsHandler(svc).GetNetworkMetrics)
	return app
}

func TestMetricsHandler_ReturnsSnapshot(t *testing.T) {
	svc := &fakeMetricsService{
		records: []map[string]interface{}{
			{"total_gpus": float64(1200), "available_gpus": float64(340)},
		},
	}
	app := newMetricsApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/metrics/akash", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "max-age=60", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "akash", svc.network)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string][]map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Len(t, body["akash"], 1)
	assert.Equal(t, float64(1200), body["akash"][0]["total_gpus"])
}

func TestMetricsHandler_UnknownNetwork(t *testing.T) {
	svc := &fakeMetricsService{err: shared.NewBadRequestError(nil, "Unknown network")}
	app := newMetricsApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/metrics/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
