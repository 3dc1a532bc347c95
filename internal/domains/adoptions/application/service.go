package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/application/types"
	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/domain"
	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/ports"
	staffdomain "github.com/Apurer/adoption-coordinator/internal/domains/staff/domain"
	"github.com/Apurer/adoption-coordinator/internal/shared/pagination"
)

// Service coordinates adoption requests against animal availability.
type Service struct {
	persistence ports.Persistence
	notifier    ports.Notifier
	logger      *slog.Logger
	retry       RetryPolicy
	now         func() time.Time
	newID       func() string
}

type Option func(*Service)

// WithNotifier sets where committed lifecycle events are delivered.
func WithNotifier(n ports.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithRetryPolicy(p RetryPolicy) Option {
	return func(s *Service) {
		s.retry = p
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewService builds the coordinator over a persistence backend.
func NewService(persistence ports.Persistence, opts ...Option) *Service {
	s := &Service{
		persistence: persistence,
		notifier:    ports.NotifierFunc(func(context.Context, ports.Notification) error { return nil }),
		logger:      slog.Default(),
		retry:       DefaultRetryPolicy(),
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Submit creates a pending request for an available animal.
// A repeated IdempotencyKey with the same payload returns the request created first.
func (s *Service) Submit(ctx context.Context, input types.SubmitInput) (*domain.AdoptionRequest, error) {
	animalID := strings.TrimSpace(input.AnimalID)
	if animalID == "" {
		return nil, mapError(domain.ErrEmptyAnimalID)
	}
	if err := domain.ValidateApplicantProfile(input.ApplicantProfile); err != nil {
		return nil, mapError(err)
	}
	key := strings.TrimSpace(input.IdempotencyKey)
	var fingerprint string
	if key != "" {
		var err error
		if fingerprint, err = FingerprintSubmission(animalID, input.ApplicantProfile); err != nil {
			return nil, mapError(fmt.Errorf("%w: %v", domain.ErrInvalidProfile, err))
		}
	}

	var (
		result  *domain.AdoptionRequest
		created *domain.AdoptionRequest
	)
	err := s.retry.run(ctx, func() error {
		result, created = nil, nil
		return s.persistence.Do(ctx, func(ctx context.Context, stores ports.Stores) error {
			if key != "" {
				record, err := stores.IdempotencyKeys.Get(ctx, key)
				if err != nil {
					return err
				}
				if record != nil {
					if record.RequestHash != fingerprint {
						return ports.ErrIdempotencyConflict
					}
					existing, err := stores.Requests.Get(ctx, record.RequestID)
					if err != nil {
						return err
					}
					result = existing
					return nil
				}
			}

			animal, err := stores.Animals.Get(ctx, animalID)
			if err != nil {
				return err
			}
			if !animal.IsAvailable() {
				return domain.ErrAnimalNotAvailable
			}
			if err := stores.Animals.RequireVersion(ctx, animal.ID, animal.Version); err != nil {
				return err
			}
			req, err := domain.NewAdoptionRequest(s.newID(), animal.ID, input.ApplicantProfile, s.now())
			if err != nil {
				return err
			}
			saved, err := stores.Requests.Create(ctx, req)
			if err != nil {
				return err
			}
			if key != "" {
				if _, err := stores.IdempotencyKeys.Save(ctx, ports.IdempotencyRecord{
					Key:         key,
					RequestHash: fingerprint,
					RequestID:   saved.ID,
					CreatedAt:   s.now(),
				}); err != nil {
					return err
				}
			}
			req.Version = saved.Version
			result, created = saved, req
			return nil
		})
	})
	if err != nil {
		return nil, mapError(err)
	}
	if created != nil {
		s.publish(ctx, created)
	}
	return result, nil
}

// Transition moves a request to the target status, keeping the animal consistent.
// Approval adopts the animal and rejects every other open request for it in the same unit of work.
func (s *Service) Transition(ctx context.Context, input types.TransitionInput) (*domain.AdoptionRequest, error) {
	requestID := strings.TrimSpace(input.RequestID)
	if requestID == "" {
		return nil, mapError(domain.ErrEmptyRequestID)
	}
	target, err := domain.ParseStatus(input.Target)
	if err != nil {
		return nil, mapError(err)
	}
	if err := input.Actor.Authorize(permissionFor(target)); err != nil {
		return nil, err
	}

	var (
		result  *domain.AdoptionRequest
		touched []*domain.AdoptionRequest
	)
	err = s.retry.run(ctx, func() error {
		result, touched = nil, nil
		return s.persistence.Do(ctx, func(ctx context.Context, stores ports.Stores) error {
			req, err := stores.Requests.Get(ctx, requestID)
			if err != nil {
				return err
			}
			if input.ExpectedVersion != nil && *input.ExpectedVersion != req.Version {
				return &StaleVersionError{Expected: *input.ExpectedVersion, Actual: req.Version}
			}
			animal, err := stores.Animals.Get(ctx, req.AnimalID)
			if err != nil {
				return err
			}
			step := transitionStep{stores: stores, req: req, animal: animal, actor: input.Actor.StaffID, at: s.now()}
			switch target {
			case domain.StatusApproved:
				err = step.approve(ctx)
			case domain.StatusInReview:
				err = step.beginReview(ctx)
			case domain.StatusRejected, domain.StatusCancelled:
				err = step.close(ctx, target)
			default:
				err = &domain.TransitionError{From: req.Status, To: target}
			}
			if err != nil {
				return err
			}
			result, touched = step.saved, step.touched
			return nil
		})
	})
	if err != nil {
		return nil, mapError(err)
	}
	for _, req := range touched {
		s.publish(ctx, req)
	}
	return result, nil
}

func permissionFor(target domain.Status) staffdomain.Permission {
	if target == domain.StatusApproved {
		return staffdomain.PermissionDecide
	}
	return staffdomain.PermissionReview
}

// transitionStep holds one attempt of a transition inside a unit of work.
type transitionStep struct {
	stores  ports.Stores
	req     *domain.AdoptionRequest
	animal  *domain.Animal
	actor   string
	at      time.Time
	saved   *domain.AdoptionRequest
	touched []*domain.AdoptionRequest
}

func (t *transitionStep) approve(ctx context.Context) error {
	if t.animal.ClaimedByOther(t.req.ID) {
		return domain.ErrAnimalNoLongerAvailable
	}
	if err := t.req.Transition(domain.StatusApproved, t.actor, t.at); err != nil {
		return err
	}
	animalVersion := t.animal.Version
	if err := t.animal.Adopt(t.req.ID); err != nil {
		return err
	}
	if _, err := t.stores.Animals.CompareAndSwap(ctx, t.animal, animalVersion); err != nil {
		return err
	}
	if err := t.saveRequest(ctx, t.req); err != nil {
		return err
	}
	t.saved = t.latest()

	competitors, err := t.stores.Requests.ListByAnimal(ctx, t.animal.ID)
	if err != nil {
		return err
	}
	for _, other := range competitors {
		if other.ID == t.req.ID || other.Status.IsTerminal() {
			continue
		}
		if err := other.AutoReject(t.actor, t.at, domain.ReasonCompetingApproval); err != nil {
			return err
		}
		if err := t.saveRequest(ctx, other); err != nil {
			return err
		}
	}
	return nil
}

func (t *transitionStep) beginReview(ctx context.Context) error {
	if err := t.req.Transition(domain.StatusInReview, t.actor, t.at); err != nil {
		return err
	}
	if t.animal.Availability == domain.AvailabilityAdopted {
		return domain.ErrAnimalNoLongerAvailable
	}
	if t.animal.IsAvailable() {
		animalVersion := t.animal.Version
		if err := t.animal.Reserve(t.req.ID); err != nil {
			return err
		}
		if _, err := t.stores.Animals.CompareAndSwap(ctx, t.animal, animalVersion); err != nil {
			return err
		}
	}
	if err := t.saveRequest(ctx, t.req); err != nil {
		return err
	}
	t.saved = t.latest()
	return nil
}

func (t *transitionStep) close(ctx context.Context, target domain.Status) error {
	if err := t.req.Transition(target, t.actor, t.at); err != nil {
		return err
	}
	animalVersion := t.animal.Version
	if t.animal.Release(t.req.ID) {
		if _, err := t.stores.Animals.CompareAndSwap(ctx, t.animal, animalVersion); err != nil {
			return err
		}
	}
	if err := t.saveRequest(ctx, t.req); err != nil {
		return err
	}
	t.saved = t.latest()
	return nil
}

// saveRequest writes req and keeps the in-memory aggregate, with its events, for publishing.
func (t *transitionStep) saveRequest(ctx context.Context, req *domain.AdoptionRequest) error {
	saved, err := t.stores.Requests.CompareAndSwap(ctx, req, req.Version)
	if err != nil {
		return err
	}
	req.Version = saved.Version
	req.UpdatedAt = saved.UpdatedAt
	t.touched = append(t.touched, req)
	return nil
}

func (t *transitionStep) latest() *domain.AdoptionRequest {
	return t.touched[len(t.touched)-1].Clone()
}

// GetRequest loads one request.
func (s *Service) GetRequest(ctx context.Context, id string) (*domain.AdoptionRequest, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, mapError(domain.ErrEmptyRequestID)
	}
	req, err := s.persistence.Stores().Requests.Get(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return req, nil
}

// ListRequests pages through requests filtered by status and animal.
func (s *Service) ListRequests(ctx context.Context, input types.ListRequestsInput) (*pagination.Page[*domain.AdoptionRequest], error) {
	pageReq, err := pagination.Normalize(input.Page, input.Limit)
	if err != nil {
		return nil, mapError(err)
	}
	var statuses []domain.Status
	for _, raw := range input.Statuses {
		for _, part := range strings.Split(raw, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			status, err := domain.ParseStatus(part)
			if err != nil {
				return nil, mapError(err)
			}
			statuses = append(statuses, status)
		}
	}
	items, total, err := s.persistence.Stores().Requests.List(ctx, ports.RequestFilter{
		Statuses: statuses,
		AnimalID: strings.TrimSpace(input.AnimalID),
		Offset:   pageReq.Offset(),
		Limit:    pageReq.Limit,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return pagination.NewPage(items, pageReq, total), nil
}

// RegisterAnimal adds an available animal. A missing ID is generated.
func (s *Service) RegisterAnimal(ctx context.Context, input types.RegisterAnimalInput) (*domain.Animal, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = s.newID()
	}
	animal, err := domain.NewAnimal(id, input.Name)
	if err != nil {
		return nil, mapError(err)
	}
	now := s.now()
	animal.CreatedAt, animal.UpdatedAt = now, now
	saved, err := s.persistence.Stores().Animals.Create(ctx, animal)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// GetAnimal loads one animal.
func (s *Service) GetAnimal(ctx context.Context, id string) (*domain.Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, mapError(domain.ErrEmptyAnimalID)
	}
	animal, err := s.persistence.Stores().Animals.Get(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return animal, nil
}

// publish hands committed events to the notifier. Failures are logged and never surface to the caller.
func (s *Service) publish(ctx context.Context, req *domain.AdoptionRequest) {
	ctx = context.WithoutCancel(ctx)
	for _, event := range req.Events() {
		n := notificationFor(event, req)
		if err := s.notifier.Notify(ctx, n); err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "adoption notification dropped",
				slog.String("request.id", req.ID),
				slog.String("event", n.Event),
				slog.String("error", err.Error()))
		}
	}
}

func notificationFor(event domain.Event, req *domain.AdoptionRequest) ports.Notification {
	n := ports.Notification{
		Event:            event.EventName(),
		RequestID:        req.ID,
		AnimalID:         req.AnimalID,
		Status:           string(req.Status),
		ApplicantProfile: req.ApplicantProfile,
		Version:          req.Version,
		OccurredAt:       event.OccurredAt(),
	}
	switch e := event.(type) {
	case domain.AdoptionRequested:
		n.Status = string(domain.StatusPending)
	case domain.AdoptionStatusChanged:
		n.Status = string(e.To)
		n.PreviousStatus = string(e.From)
		n.ActorID = e.By
		n.Reason = e.Reason
		n.Automatic = e.Automatic
	}
	return n
}

var _ ports.Service = (*Service)(nil)
