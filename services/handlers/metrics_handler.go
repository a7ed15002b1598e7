package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quokit/waitlist_api/shared"
)

type MetricsHandler struct {
	metricsSvc NetworkMetricsServiceInterface
}

func NewMetricsHandler(metricsSvc NetworkMetricsServiceInterface) *MetricsHandler {
	return &MetricsHandler{metricsSvc: metricsSvc}
}

// @Summary Get GPU network metrics
// @Description Returns the latest aggregate metrics snapshot for a tracked network
// @Tags metrics
// @Produce json
// @Param network path string true "Network name" Enums(soc, akash, aethir)
// @Success 200
// @Router /api/v1/metrics/{network} [get]
func (h *MetricsHandler) GetNetworkMetrics(c *fiber.Ctx) error {
	network := c.Params("network")

	records, err := h.metricsSvc.GetNetworkMetrics(c.UserContext(), network)
	if err != nil {
		return err
	}

	c.Set("Cache-Control", "max-age=60")
	return shared.ResponseRaw(c, fiber.StatusOK, fiber.Map{network: records})
}
