package handlers

import (
	"context"

	"github.com/quokit/waitlist_api/dto"
)

type WaitlistServiceInterface interface {
	Submit(ctx context.Context, rawPayload []byte, meta dto.ClientMeta) (*dto.WaitlistResponse, error)
}

type SubmissionStatsInterface interface {
	CountSubmissions() (int64, error)
	CountSubmissionsByRole() (map[string]int64, error)
}

type NetworkMetricsServiceInterface interface {
	GetNetworkMetrics(ctx context.Context, network string) ([]map[string]interface{}, error)
}

// SubmissionRecorder receives pipeline outcomes for monitoring.
type SubmissionRecorder interface {
	RecordSubmission(outcome string)
	RecordQuotaRemaining(remaining int)
}
