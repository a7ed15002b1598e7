package services

import (
	"context"
	"encoding/json"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/quokit/waitlist_api/dto"
	"github.com/quokit/waitlist_api/model"
	"github.com/quokit/waitlist_api/shared"
)

// Stage seams, so pipeline tests can swap any stage for a fake.
type quotaConsumer interface {
	Consume(ctx context.Context, identity string) (*dto.RateLimitInfo, error)
}

type duplicateIndex interface {
	IsRegistered(ctx context.Context, email string) (bool, error)
	MarkRegistered(ctx context.Context, email string) error
}

type submissionStore interface {
	CreateSubmission(submission *model.Submission) (*model.Submission, error)
}

type countryResolver interface {
	CountryByIP(ctx context.Context, ip string) string
}

// WaitlistService runs the intake pipeline: quota, schema validation, email
// normalization, duplicate check, persist, then duplicate registration.
// Each stage either passes control on or terminates the request with one of
// the fixed rejection outcomes.
type WaitlistService struct {
	appContext.DefaultService

	quota quotaConsumer
	guard duplicateIndex
	store submissionStore
	geo   countryResolver
}

const WAITLIST_SVC = "waitlist_svc"

func (svc WaitlistService) Id() string {
	return WAITLIST_SVC
}

func (svc *WaitlistService) Start() error {
	svc.quota = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.guard = svc.Service(DUPLICATE_GUARD_SVC).(*DuplicateGuardService)
	svc.store = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.geo = svc.Service(GEOLOCATION_SVC).(*GeolocationService)
	return nil
}

// SetStages is a test seam.
func (svc *WaitlistService) SetStages(quota quotaConsumer, guard duplicateIndex, store submissionStore, geo countryResolver) {
	svc.quota = quota
	svc.guard = guard
	svc.store = store
	svc.geo = geo
}

// Submit handles one raw waitlist payload. The quota is charged before the
// payload is even parsed, so malformed and invalid submissions count
// against the sender like accepted ones.
func (svc *WaitlistService) Submit(ctx context.Context, rawPayload []byte, meta dto.ClientMeta) (*dto.WaitlistResponse, error) {
	identity := ClientIdentity(meta.IP, meta.UserAgent)

	info, err := svc.quota.Consume(ctx, identity)
	if err != nil {
		log.WithError(err).Error("Quota check failed")
		return nil, shared.NewInternalError(err, "Failed to submit. Please try again.")
	}
	if !info.Allowed {
		log.WithField("identity", identity).Warn("Submission quota exceeded")
		return nil, shared.NewRateLimitError("Too many submissions. Please try again later.")
	}

	var req dto.WaitlistRequest
	if err := sonic.Unmarshal(rawPayload, &req); err != nil {
		return nil, shared.NewValidationError("Invalid submission data", []dto.ValidationError{
			{Path: "", Message: "Request body must be valid JSON"},
		})
	}

	if err := req.Validate(); err != nil {
		return nil, shared.NewValidationError("Invalid submission data", dto.FormatValidationErrors(err))
	}

	req.Normalize()

	// Defense in depth: normalization must not have produced an address the
	// syntactic check no longer accepts.
	if !dto.EmailPattern.MatchString(req.Email) {
		return nil, shared.NewValidationError("Invalid submission data", []dto.ValidationError{
			{Path: "email", Message: "Please enter a valid email"},
		})
	}

	isDuplicate, err := svc.guard.IsRegistered(ctx, req.Email)
	if err != nil {
		log.WithError(err).Error("Duplicate check failed")
		return nil, shared.NewInternalError(err, "Failed to submit. Please try again.")
	}
	if isDuplicate {
		return nil, shared.NewConflictError("Email already registered")
	}

	submission, err := svc.buildSubmission(ctx, req, meta, info.Remaining)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to submit. Please try again.")
	}

	if _, err := svc.store.CreateSubmission(submission); err != nil {
		log.WithError(err).Error("Failed to persist submission")
		return nil, shared.NewInternalError(err, "Failed to submit. Please try again.")
	}

	// Mark the email only after the record is durable: a failed persist must
	// never leave a duplicate-guard entry behind.
	if err := svc.guard.MarkRegistered(ctx, req.Email); err != nil {
		log.WithError(err).WithField("email", req.Email).Error("Failed to register duplicate guard entry")
		return nil, shared.NewInternalError(err, "Failed to submit. Please try again.")
	}

	log.WithFields(log.Fields{
		"id":    submission.ID,
		"role":  submission.Role,
		"email": submission.Email,
	}).Info("Waitlist submission accepted")

	return &dto.WaitlistResponse{
		Success:   true,
		ID:        submission.ID,
		Remaining: info.Remaining,
	}, nil
}

func (svc *WaitlistService) buildSubmission(ctx context.Context, req dto.WaitlistRequest, meta dto.ClientMeta, remaining int) (*model.Submission, error) {
	var hardware json.RawMessage
	if len(req.HardwareType) > 0 {
		data, err := json.Marshal(req.HardwareType)
		if err != nil {
			return nil, err
		}
		hardware = data
	}

	country := meta.Country
	if country == "" {
		country = svc.geo.CountryByIP(ctx, meta.IP)
	}

	now := time.Now()
	return &model.Submission{
		ID:              uuid.New().String(),
		Role:            req.Role,
		Name:            req.Name,
		Email:           req.Email,
		ProjectName:     req.ProjectName,
		ProjectLink:     req.ProjectLink,
		NetworkName:     req.NetworkName,
		NumGPUs:         int(req.NumGPUs),
		HardwareType:    hardware,
		Stage:           req.Stage,
		RoleDescription: req.RoleDescription,
		Twitter:         req.Twitter,
		Telegram:        req.Telegram,

		IP:                meta.IP,
		UserAgent:         meta.UserAgent,
		Country:           country,
		ReceivedAt:        now,
		RemainingAttempts: remaining,

		CreatedAt: now,
	}, nil
}
