package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
)

// GeolocationService resolves a client IP to a country for submission
// metadata. Lookups hit ip-api.com and cache in Redis for a day; failures
// degrade to "Unknown" because the country is advisory only.
type GeolocationService struct {
	appContext.DefaultService

	httpClient  *http.Client
	apiURL      string
	redisSvc    *RedisService
	cacheExpiry time.Duration
}

const GEOLOCATION_SVC = "geolocation_svc"

func (svc GeolocationService) Id() string {
	return GEOLOCATION_SVC
}

func (svc *GeolocationService) Configure(ctx *appContext.Context) error {
	svc.httpClient = &http.Client{
		Timeout: 10 * time.Second,
	}
	svc.apiURL = "http://ip-api.com/json"
	svc.cacheExpiry = 24 * time.Hour
	return svc.DefaultService.Configure(ctx)
}

func (svc *GeolocationService) Start() error {
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

// CountryByIP returns the country name for ip, or "Unknown" when the lookup
// cannot be completed.
func (svc *GeolocationService) CountryByIP(ctx context.Context, ip string) string {
	if ip == "" || ip == "127.0.0.1" || ip == "::1" {
		return "Local"
	}

	cacheKey := fmt.Sprintf("geolocation:country:%s", ip)

	if svc.redisSvc != nil {
		cached, err := svc.redisSvc.Get(ctx, cacheKey)
		if err == nil && cached != "" {
			log.WithField("ip", ip).Debug("Geolocation cache hit")
			return cached
		}
	}

	url := fmt.Sprintf("%s/%s?fields=status,country", svc.apiURL, ip)

	resp, err := svc.httpClient.Get(url)
	if err != nil {
		log.WithError(err).WithField("ip", ip).Error("Failed to get geolocation")
		return "Unknown"
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.WithField("status", resp.StatusCode).WithField("ip", ip).Error("Geolocation API returned non-200 status")
		return "Unknown"
	}

	var result struct {
		Status  string `json:"status"`
		Country string `json:"country"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.WithError(err).WithField("ip", ip).Error("Failed to decode geolocation response")
		return "Unknown"
	}

	if result.Status != "success" || result.Country == "" {
		log.WithField("status", result.Status).WithField("ip", ip).Warn("Geolocation lookup failed")
		return "Unknown"
	}

	if svc.redisSvc != nil {
		if err := svc.redisSvc.Set(ctx, cacheKey, result.Country, svc.cacheExpiry); err != nil {
			log.WithError(err).WithField("ip", ip).Warn("Failed to cache geolocation result")
		}
	}

	return result.Country
}
