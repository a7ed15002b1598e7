package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/quokit/waitlist_api/shared"
)

// NetworkMetricsService serves the GPU network aggregates shown on the
// site's metric counters. The data-room pipeline drops one JSON snapshot
// per network into the MinIO bucket; this service reads it on demand and
// keeps a short-lived copy in Redis.
type NetworkMetricsService struct {
	appContext.DefaultService

	minioSvc *MinIOService
	redisSvc *RedisService

	cacheExpiry time.Duration
}

const NETWORK_METRICS_SVC = "network_metrics_svc"

var knownNetworks = map[string]bool{
	"soc":    true,
	"akash":  true,
	"aethir": true,
}

func (svc NetworkMetricsService) Id() string {
	return NETWORK_METRICS_SVC
}

func (svc *NetworkMetricsService) Configure(ctx *appContext.Context) error {
	svc.cacheExpiry = 10 * time.Minute
	if v := os.Getenv("METRICS_CACHE_EXPIRY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			svc.cacheExpiry = d
		}
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *NetworkMetricsService) Start() error {
	svc.minioSvc = svc.Service(MINIO_SVC).(*MinIOService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

// GetNetworkMetrics returns the latest aggregate records for one of the
// tracked networks (soc, akash, aethir).
func (svc *NetworkMetricsService) GetNetworkMetrics(ctx context.Context, network string) ([]map[string]interface{}, error) {
	if !knownNetworks[network] {
		return nil, shared.NewBadRequestError(nil, fmt.Sprintf("Unknown network: %s", network))
	}

	cacheKey := fmt.Sprintf("metrics:network:%s", network)

	var records []map[string]interface{}
	if err := svc.redisSvc.GetJSON(ctx, cacheKey, &records); err == nil && len(records) > 0 {
		log.WithField("network", network).Debug("Network metrics cache hit")
		return records, nil
	}

	objectName := fmt.Sprintf("aggregator_%s.json", network)
	data, err := svc.minioSvc.GetObjectBytes(ctx, objectName)
	if err != nil {
		log.WithError(err).WithField("network", network).Error("Failed to load metrics snapshot")
		return nil, shared.NewInternalError(err, "Metrics snapshot unavailable")
	}

	if err := json.Unmarshal(data, &records); err != nil {
		log.WithError(err).WithField("network", network).Error("Malformed metrics snapshot")
		return nil, shared.NewInternalError(err, "Metrics snapshot unavailable")
	}

	if err := svc.redisSvc.Set(ctx, cacheKey, records, svc.cacheExpiry); err != nil {
		log.WithError(err).WithField("network", network).Warn("Failed to cache network metrics")
	}

	return records, nil
}
