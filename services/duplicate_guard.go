package services

import (
	"context"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/quokit/waitlist_api/shared"
)

// DuplicateGuardService tracks which emails already hold a waitlist spot.
// Entries live in Redis under a 30-day TTL and are written only after a
// submission has been durably persisted, so a failed store write can never
// lock an email out. The check and the later mark are not one atomic step;
// two first-time submissions racing on the same email can both pass the
// check, which the pipeline accepts rather than requiring a transactional
// reservation.
type DuplicateGuardService struct {
	appContext.DefaultService

	redisSvc *RedisService
}

const DUPLICATE_GUARD_SVC = "duplicate_guard_svc"

const emailKeyPrefix = "waitlist:email:"

func (svc DuplicateGuardService) Id() string {
	return DUPLICATE_GUARD_SVC
}

func (svc *DuplicateGuardService) Start() error {
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

// SetRedisService is a test seam.
func (svc *DuplicateGuardService) SetRedisService(redisSvc *RedisService) {
	svc.redisSvc = redisSvc
}

// IsRegistered reports whether a live entry exists for the normalized email.
func (svc *DuplicateGuardService) IsRegistered(ctx context.Context, email string) (bool, error) {
	return svc.redisSvc.Exists(ctx, emailKeyPrefix+email)
}

// MarkRegistered records the email for the duplicate-entry window. An
// already-present entry keeps its original expiry.
func (svc *DuplicateGuardService) MarkRegistered(ctx context.Context, email string) error {
	set, err := svc.redisSvc.SetNX(ctx, emailKeyPrefix+email, "1", shared.DuplicateEmailTTL)
	if err != nil {
		return err
	}
	if !set {
		log.WithField("email", email).Warn("Duplicate guard entry already present")
	}
	return nil
}
