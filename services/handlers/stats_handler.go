package handlers

import (
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/quokit/waitlist_api/dto"
	"github.com/quokit/waitlist_api/shared"
)

type StatsHandler struct {
	store SubmissionStatsInterface
}

func NewStatsHandler(store SubmissionStatsInterface) *StatsHandler {
	return &StatsHandler{store: store}
}

// @Summary Waitlist signup counts
// @Description Returns the total number of signups and the per-role breakdown
// @Tags waitlist
// @Produce json
// @Success 200 {object} dto.WaitlistStatsResponse
// @Router /api/v1/waitlist/stats [get]
func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	total, err := h.store.CountSubmissions()
	if err != nil {
		log.WithError(err).Error("Failed to count submissions")
		return shared.NewInternalError(err, "Stats unavailable")
	}

	byRole, err := h.store.CountSubmissionsByRole()
	if err != nil {
		log.WithError(err).Error("Failed to count submissions by role")
		return shared.NewInternalError(err, "Stats unavailable")
	}

	c.Set("Cache-Control", "max-age=60")
	return shared.ResponseRaw(c, fiber.StatusOK, dto.WaitlistStatsResponse{
		Total:  total,
		ByRole: byRole,
	})
}
