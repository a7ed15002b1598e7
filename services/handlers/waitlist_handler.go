package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/quokit/waitlist_api/dto"
	"github.com/quokit/waitlist_api/shared"
)

type WaitlistHandler struct {
	waitlistSvc WaitlistServiceInterface
	recorder    SubmissionRecorder
}

func NewWaitlistHandler(waitlistSvc WaitlistServiceInterface, recorder SubmissionRecorder) *WaitlistHandler {
	return &WaitlistHandler{
		waitlistSvc: waitlistSvc,
		recorder:    recorder,
	}
}

// @Summary Join the waitlist
// @Description Accepts a role-discriminated waitlist submission, enforces the per-client quota and rejects duplicate emails
// @Tags waitlist
// @Accept  json
// @Produce json
// @Param submission body dto.WaitlistRequest true "Waitlist submission"
// @Success 200 {object} dto.WaitlistResponse
// @Failure 400 {object} dto.WaitlistErrorResponse
// @Failure 409 {object} dto.WaitlistErrorResponse
// @Failure 429 {object} dto.WaitlistErrorResponse
// @Failure 500 {object} dto.WaitlistErrorResponse
// @Router /api/v1/waitlist [post]
func (h *WaitlistHandler) Submit(c *fiber.Ctx) error {
	raw := c.Body()

	meta := dto.ClientMeta{
		IP:        shared.ClientIP(c),
		UserAgent: c.Get(fiber.HeaderUserAgent),
		Country:   geoCountry(c),
	}

	resp, err := h.waitlistSvc.Submit(c.UserContext(), raw, meta)
	if err != nil {
		return h.writeRejection(c, raw, err)
	}

	if h.recorder != nil {
		h.recorder.RecordSubmission("accepted")
		h.recorder.RecordQuotaRemaining(resp.Remaining)
	}

	return shared.ResponseRaw(c, fiber.StatusOK, resp)
}

func (h *WaitlistHandler) writeRejection(c *fiber.Ctx, raw []byte, err error) error {
	appErr, ok := shared.GetAppError(err)
	if !ok {
		appErr = shared.NewInternalError(err, "Failed to submit. Please try again.")
	}

	if h.recorder != nil {
		h.recorder.RecordSubmission(outcomeLabel(appErr.StatusCode))
	}

	resp := dto.WaitlistErrorResponse{Error: appErr.Message}

	if appErr.StatusCode == http.StatusBadRequest {
		if details, ok := appErr.Data.([]dto.ValidationError); ok {
			resp.Details = details
		}
		resp.ReceivedData = receivedData(raw)
	}

	return shared.ResponseRaw(c, appErr.StatusCode, resp)
}

func outcomeLabel(statusCode int) string {
	switch statusCode {
	case http.StatusBadRequest:
		return "validation_failed"
	case http.StatusConflict:
		return "duplicate_email"
	case http.StatusTooManyRequests:
		return "rate_limited"
	default:
		return "store_failure"
	}
}

// receivedData echoes the client's payload back on validation failures so
// the form can highlight what it actually sent.
func receivedData(raw []byte) interface{} {
	var parsed interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return string(raw)
	}
	return parsed
}

// geoCountry reads the advisory geo hint set by the edge proxy, if any.
func geoCountry(c *fiber.Ctx) string {
	if country := c.Get("X-Vercel-IP-Country"); country != "" {
		return country
	}
	return c.Get("CF-IPCountry")
}
