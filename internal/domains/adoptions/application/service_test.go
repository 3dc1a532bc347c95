package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	adoptionmemory "github.com/Apurer/adoption-coordinator/internal/domains/adoptions/adapters/memory"
	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/application/types"
	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/domain"
	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/ports"
	staffdomain "github.com/Apurer/adoption-coordinator/internal/domains/staff/domain"
)

var applicant = json.RawMessage(`{"name":"Ada Lovelace","email":"ada@example.org","household":{"adults":2}}`)

type recordingNotifier struct {
	mu    sync.Mutex
	sent  []ports.Notification
	fails bool
}

func (n *recordingNotifier) Notify(_ context.Context, note ports.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, note)
	if n.fails {
		return errors.New("smtp down")
	}
	return nil
}

func (n *recordingNotifier) statuses(requestID string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, note := range n.sent {
		if note.RequestID == requestID {
			out = append(out, note.Status)
		}
	}
	return out
}

type fixture struct {
	store    *adoptionmemory.Store
	svc      *Service
	notifier *recordingNotifier
	admin    staffdomain.Identity
	reviewer staffdomain.Identity
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	store := adoptionmemory.NewStore()
	notifier := &recordingNotifier{}
	base := []Option{
		WithNotifier(notifier),
		WithRetryPolicy(RetryPolicy{MaxAttempts: 5, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond}),
	}
	svc := NewService(store, append(base, opts...)...)
	admin, err := staffdomain.NewIdentity("staff-admin", "Alex", []staffdomain.Role{staffdomain.RoleAdmin})
	require.NoError(t, err)
	reviewer, err := staffdomain.NewIdentity("staff-reviewer", "Robin", []staffdomain.Role{staffdomain.RoleReviewer})
	require.NoError(t, err)
	return &fixture{store: store, svc: svc, notifier: notifier, admin: admin, reviewer: reviewer}
}

func (f *fixture) animal(t *testing.T, id string) *domain.Animal {
	t.Helper()
	animal, err := f.svc.RegisterAnimal(context.Background(), types.RegisterAnimalInput{ID: id, Name: "Animal " + id})
	require.NoError(t, err)
	return animal
}

func (f *fixture) submit(t *testing.T, animalID string) *domain.AdoptionRequest {
	t.Helper()
	req, err := f.svc.Submit(context.Background(), types.SubmitInput{AnimalID: animalID, ApplicantProfile: applicant})
	require.NoError(t, err)
	return req
}

func (f *fixture) move(t *testing.T, requestID string, target domain.Status) *domain.AdoptionRequest {
	t.Helper()
	req, err := f.svc.Transition(context.Background(), types.TransitionInput{RequestID: requestID, Target: string(target), Actor: f.admin})
	require.NoError(t, err)
	return req
}

func (f *fixture) currentAnimal(t *testing.T, id string) *domain.Animal {
	t.Helper()
	animal, err := f.svc.GetAnimal(context.Background(), id)
	require.NoError(t, err)
	return animal
}

func TestSubmit_CreatesPendingRequest(t *testing.T) {
	f := newFixture(t)
	f.animal(t, "cat-1")

	req := f.submit(t, "cat-1")
	assert.Equal(t, domain.StatusPending, req.Status)
	assert.Equal(t, int64(1), req.Version)
	assert.Nil(t, req.DecidedAt)
	assert.JSONEq(t, string(applicant), string(req.ApplicantProfile))
	assert.Equal(t, domain.AvailabilityAvailable, f.currentAnimal(t, "cat-1").Availability)
	assert.Equal(t, []string{"pending"}, f.notifier.statuses(req.ID))
}

func TestSubmit_Validation(t *testing.T) {
	f := newFixture(t)
	f.animal(t, "cat-1")

	_, err := f.svc.Submit(context.Background(), types.SubmitInput{ApplicantProfile: applicant})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.Submit(context.Background(), types.SubmitInput{AnimalID: "cat-1", ApplicantProfile: json.RawMessage(`{}`)})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrEmptyProfile)

	_, err = f.svc.Submit(context.Background(), types.SubmitInput{AnimalID: "dog-404", ApplicantProfile: applicant})
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, err, ports.ErrAnimalNotFound)
}

func TestSubmit_RejectsClaimedAnimal(t *testing.T) {
	f := newFixture(t)
	f.animal(t, "cat-1")
	first := f.submit(t, "cat-1")
	f.move(t, first.ID, domain.StatusInReview)

	_, err := f.svc.Submit(context.Background(), types.SubmitInput{AnimalID: "cat-1", ApplicantProfile: applicant})
	require.ErrorIs(t, err, ErrConflict)
	require.ErrorIs(t, err, domain.ErrAnimalNotAvailable)
}

func TestSubmit_IdempotencyKey(t *testing.T) {
	f := newFixture(t)
	f.animal(t, "cat-1")

	input := types.SubmitInput{AnimalID: "cat-1", ApplicantProfile: applicant, IdempotencyKey: "key-1"}
	first, err := f.svc.Submit(context.Background(), input)
	require.NoError(t, err)

	reordered := input
	reordered.ApplicantProfile = json.RawMessage(`{"household":{"adults":2}, "email":"ada@example.org","name":"Ada Lovelace"}`)
	again, err := f.svc.Submit(context.Background(), reordered)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Len(t, f.notifier.statuses(first.ID), 1)

	changed := input
	changed.ApplicantProfile = json.RawMessage(`{"name":"Someone Else"}`)
	_, err = f.svc.Submit(context.Background(), changed)
	require.ErrorIs(t, err, ErrConflict)
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)

	page, err := f.svc.ListRequests(context.Background(), types.ListRequestsInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestSubmit_ConcurrentSameKeyCreatesOneRequest(t *testing.T) {
	f := newFixture(t)
	f.animal(t, "cat-1")

	ids := make([]string, 8)
	var g errgroup.Group
	for i := range ids {
		g.Go(func() error {
			req, err := f.svc.Submit(context.Background(), types.SubmitInput{AnimalID: "cat-1", ApplicantProfile: applicant, IdempotencyKey: "same"})
			if err != nil {
				return err
			}
			ids[i] = req.ID
			return nil
		})
	}
	require.NoError(t, g.Wait())
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestLifecycle_ApproveAdoptsAndRejectsCompetitors(t *testing.T) {
	f := newFixture(t)
	f.animal(t, "cat-1")
	winner := f.submit(t, "cat-1")
	waiting := f.submit(t, "cat-1")
	reviewed := f.submit(t, "cat-1")

	f.move(t, winner.ID, domain.StatusInReview)
	animal := f.currentAnimal(t, "cat-1")
	assert.Equal(t, domain.AvailabilityReserved, animal.Availability)
	assert.Equal(t, winner.ID, animal.ActiveRequestID)

	f.move(t, reviewed.ID, domain.StatusInReview)
	assert.Equal(t, winner.ID, f.currentAnimal(t, "cat-1").ActiveRequestID)

	approved := f.move(t, winner.ID, domain.StatusApproved)
	assert.Equal(t, domain.StatusApproved, approved.Status)
	require.NotNil(t, approved.DecidedAt)
	assert.Equal(t, f.admin.StaffID, approved.DecidedBy)
	assert.Equal(t, int64(3), approved.Version)

	animal = f.currentAnimal(t, "cat-1")
	assert.Equal(t, domain.AvailabilityAdopted, animal.Availability)
	assert.Equal(t, winner.ID, animal.ActiveRequestID)

	for _, id := range []string{waiting.ID, reviewed.ID} {
		other, err := f.svc.GetRequest(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRejected, other.Status)
		last := other.History[len(other.History)-1]
		assert.True(t, last.Automatic)
		assert.Equal(t, domain.ReasonCompetingApproval, last.Reason)
		assert.Equal(t, f.admin.StaffID, other.DecidedBy)
	}
	assert.Equal(t, []string{"pending", "rejected"}, f.notifier.statuses(waiting.ID))
	assert.Equal(t, []string{"pending", "in_review", "approved"}, f.notifier.statuses(winner.ID))

	violations, err := NewAuditor(f.store).Audit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestTransition_InvalidMoves(t *testing.T) {
	f := newFixture(t)
	f.animal(t, "cat-1")
	req := f.submit(t, "cat-1")

	_, err := f.svc.Transition(context.Background(), types.TransitionInput{RequestID: req.ID, Target: "approved", Actor: f.admin})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.svc.Transition(context.Background(), types.TransitionInput{RequestID: req.ID, Target: "pending", Actor: f.admin})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.svc.Transition(context.Background(), types.TransitionInput{RequestID: req.ID, Target: "archived", Actor: f.admin})
	require.ErrorIs(t, err, ErrInvalidInput)

	f.move(t, req.ID, domain.StatusInReview)
	f.move(t, req.ID, domain.StatusApproved)
	_, err = f.svc.Transition(context.Background(), types.TransitionInput{RequestID: req.ID, Target: "approved", Actor: f.admin})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.svc.Transition(context.Background(), types.TransitionInput{RequestID: req.ID, Target: "cancelled", Actor: f.admin})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.svc.Transition(context.Background(), types.TransitionInput{RequestID: "missing", Target: "in_review", Actor: f.admin})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTransition_RejectTwiceIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.animal(t, "cat-1")
	req := f.submit(t, "cat-1")
	rejected := f.move(t, req.ID, domain.StatusRejected)

	_, err := f.svc.Transition(context.Background(), types.TransitionInput{RequestID: req.ID, Target: "rejected", Actor: f.admin})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	stored, err := f.svc.GetRequest(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, stored.Status)
	assert.Equal(t, rejected.Version, stored.Version)
	assert.Len(t, stored.History, len(rejected.History))
	assert.Equal(t, []string{"pending", "rejected"}, f.notifier.statuses(req.ID))
	assert.Equal(t, domain.AvailabilityAvailable, f.currentAnimal(t, "cat-1").Availability)
}

func TestTransition_Permissions(t *testing.T) {
	f := newFixture(t)
	f.animal(t, "cat-1")
	req := f.submit(t, "cat-1")

	_, err := f.svc.Transition(context.Background(), types.TransitionInput{RequestID: req.ID, Target: "in_review"})
	require.ErrorIs(t, err, staffdomain.ErrUnauthorized)

	_, err = f.svc.Transition(context.Background(), types.TransitionInput{RequestID: req.ID, Target: "in_review", Actor: f.reviewer})
	require.NoError(t, err)

	_, err = f.svc.Transition(context.Background(), types.TransitionInput{RequestID: req.ID, Target: "approved", Actor: f.reviewer})
	require.ErrorIs(t, err, staffdomain.ErrForbidden)

	stored, err := f.svc.GetRequest(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInReview, stored.Status)
}

func TestTransition_RejectAndCancelReleaseReservation(t *testing.T) {
	f := newFixture(t)
	f.animal(t, "cat-1")
	f.animal(t, "cat-2")

	first := f.submit(t, "cat-1")
	f.move(t, first.ID, domain.StatusInReview)
	f.move(t, first.ID, domain.StatusRejected)
	animal := f.currentAnimal(t, "cat-1")
	assert.Equal(t, domain.AvailabilityAvailable, animal.Availability)
	assert.Empty(t, animal.ActiveRequestID)

	second := f.submit(t, "cat-2")
	f.move(t, second.ID, domain.StatusInReview)
	cancelled := f.move(t, second.ID, domain.StatusCancelled)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	assert.Equal(t, domain.AvailabilityAvailable, f.currentAnimal(t, "cat-2").Availability)
}

func TestTransition_RejectingNonHolderKeepsReservation(t *testing.T) {
	f := newFixture(t)
	f.animal(t, "cat-1")
	holder := f.submit(t, "cat-1")
	other := f.submit(t, "cat-1")
	f.move(t, holder.ID, domain.StatusInReview)
	f.move(t, other.ID, domain.StatusInReview)

	f.move(t, other.ID, domain.StatusRejected)
	animal := f.currentAnimal(t, "cat-1")
	assert.Equal(t, domain.AvailabilityReserved, animal.Availability)
	assert.Equal(t, holder.ID, animal.ActiveRequestID)
}

func TestTransition_ApproveNonHolderWhileReserved(t *testing.T) {
	f := newFixture(t)
	f.animal(t, "cat-1")
	holder := f.submit(t, "cat-1")
	other := f.submit(t, "cat-1")
	f.move(t, holder.ID, domain.StatusInReview)
	f.move(t, other.ID, domain.StatusInReview)

	_, err := f.svc.Transition(context.Background(), types.TransitionInput{RequestID: other.ID, Target: "approved", Actor: f.admin})
	require.ErrorIs(t, err, domain.ErrAnimalNoLongerAvailable)
	require.ErrorIs(t, err, ErrConflict)
}

func TestTransition_ExpectedVersion(t *testing.T) {
	f := newFixture(t)
	f.animal(t, "cat-1")
	req := f.submit(t, "cat-1")

	stale := int64(7)
	_, err := f.svc.Transition(context.Background(), types.TransitionInput{RequestID: req.ID, Target: "in_review", Actor: f.admin, ExpectedVersion: &stale})
	require.ErrorIs(t, err, ErrConflict)
	var staleErr *StaleVersionError
	require.ErrorAs(t, err, &staleErr)
	assert.Equal(t, req.Version, staleErr.Actual)

	current := req.Version
	moved, err := f.svc.Transition(context.Background(), types.TransitionInput{RequestID: req.ID, Target: "in_review", Actor: f.admin, ExpectedVersion: &current})
	require.NoError(t, err)
	assert.Equal(t, current+1, moved.Version)
}

func TestTransition_ConcurrentApprovalsHaveOneWinner(t *testing.T) {
	for round := 0; round < 25; round++ {
		f := newFixture(t)
		f.animal(t, "dog-1")
		r2 := f.submit(t, "dog-1")
		r3 := f.submit(t, "dog-1")
		f.move(t, r2.ID, domain.StatusInReview)
		f.move(t, r3.ID, domain.StatusInReview)

		var (
			g       errgroup.Group
			wins    atomic.Int32
			results = make([]error, 2)
		)
		for i, id := range []string{r2.ID, r3.ID} {
			g.Go(func() error {
				_, err := f.svc.Transition(context.Background(), types.TransitionInput{RequestID: id, Target: "approved", Actor: f.admin})
				results[i] = err
				if err == nil {
					wins.Add(1)
				}
				return nil
			})
		}
		require.NoError(t, g.Wait())
		require.Equal(t, int32(1), wins.Load(), "round %d", round)

		var winnerID string
		for i, id := range []string{r2.ID, r3.ID} {
			if results[i] == nil {
				winnerID = id
				continue
			}
			require.ErrorIs(t, results[i], domain.ErrAnimalNoLongerAvailable, "round %d", round)
		}

		animal := f.currentAnimal(t, "dog-1")
		assert.Equal(t, domain.AvailabilityAdopted, animal.Availability)
		assert.Equal(t, winnerID, animal.ActiveRequestID)

		page, err := f.svc.ListRequests(context.Background(), types.ListRequestsInput{Statuses: []string{"approved"}, AnimalID: "dog-1"})
		require.NoError(t, err)
		require.Equal(t, 1, page.Total)
	}
}

func TestTransition_UnreservedApprovalsRaceOnAnimalVersion(t *testing.T) {
	for round := 0; round < 25; round++ {
		f := newFixture(t)
		f.animal(t, "dog-1")
		r1 := f.submit(t, "dog-1")
		r2 := f.submit(t, "dog-1")
		r3 := f.submit(t, "dog-1")
		for _, id := range []string{r1.ID, r2.ID, r3.ID} {
			f.move(t, id, domain.StatusInReview)
		}
		f.move(t, r1.ID, domain.StatusCancelled)
		released := f.currentAnimal(t, "dog-1")
		require.Equal(t, domain.AvailabilityAvailable, released.Availability)
		require.Empty(t, released.ActiveRequestID)

		var (
			g       errgroup.Group
			start   = make(chan struct{})
			ids     = []string{r2.ID, r3.ID}
			results = make([]error, len(ids))
		)
		for i, id := range ids {
			g.Go(func() error {
				<-start
				_, err := f.svc.Transition(context.Background(), types.TransitionInput{RequestID: id, Target: "approved", Actor: f.admin})
				results[i] = err
				return nil
			})
		}
		close(start)
		require.NoError(t, g.Wait())

		var winners, losers int
		var winnerID string
		for i, err := range results {
			if err == nil {
				winners++
				winnerID = ids[i]
				continue
			}
			require.ErrorIs(t, err, domain.ErrAnimalNoLongerAvailable, "round %d", round)
			losers++
		}
		require.Equal(t, 1, winners, "round %d", round)
		require.Equal(t, 1, losers, "round %d", round)

		animal := f.currentAnimal(t, "dog-1")
		assert.Equal(t, domain.AvailabilityAdopted, animal.Availability)
		assert.Equal(t, winnerID, animal.ActiveRequestID)

		violations, err := NewAuditor(f.store).Audit(context.Background())
		require.NoError(t, err)
		require.Empty(t, violations, "round %d", round)
	}
}

func TestConcurrentSubmitsDuringApprovalLeaveNoOpenRequests(t *testing.T) {
	for round := 0; round < 10; round++ {
		f := newFixture(t)
		f.animal(t, "cat-1")
		chosen := f.submit(t, "cat-1")

		var g errgroup.Group
		g.Go(func() error {
			if _, err := f.svc.Transition(context.Background(), types.TransitionInput{RequestID: chosen.ID, Target: "in_review", Actor: f.admin}); err != nil {
				return fmt.Errorf("review: %w", err)
			}
			if _, err := f.svc.Transition(context.Background(), types.TransitionInput{RequestID: chosen.ID, Target: "approved", Actor: f.admin}); err != nil {
				return fmt.Errorf("approve: %w", err)
			}
			return nil
		})
		for i := 0; i < 6; i++ {
			g.Go(func() error {
				_, err := f.svc.Submit(context.Background(), types.SubmitInput{AnimalID: "cat-1", ApplicantProfile: applicant})
				if err != nil && !errors.Is(err, domain.ErrAnimalNotAvailable) {
					return fmt.Errorf("submit: %w", err)
				}
				return nil
			})
		}
		require.NoError(t, g.Wait())

		violations, err := NewAuditor(f.store).Audit(context.Background())
		require.NoError(t, err)
		require.Empty(t, violations, "round %d", round)

		open, err := f.svc.ListRequests(context.Background(), types.ListRequestsInput{Statuses: []string{"pending", "in_review"}})
		require.NoError(t, err)
		require.Zero(t, open.Total, "round %d", round)
	}
}

func TestNotifierFailureDoesNotAffectOutcome(t *testing.T) {
	f := newFixture(t)
	f.notifier.fails = true
	f.animal(t, "cat-1")

	req := f.submit(t, "cat-1")
	moved := f.move(t, req.ID, domain.StatusInReview)
	assert.Equal(t, domain.StatusInReview, moved.Status)
}

type flakyPersistence struct {
	ports.Persistence
	failures int
	calls    int
}

func (p *flakyPersistence) Do(ctx context.Context, fn func(context.Context, ports.Stores) error) error {
	p.calls++
	if p.calls <= p.failures {
		return ports.ErrVersionConflict
	}
	return p.Persistence.Do(ctx, fn)
}

func TestRetryPolicyBoundsAttempts(t *testing.T) {
	store := adoptionmemory.NewStore()
	animal, err := domain.NewAnimal("cat-1", "Miso")
	require.NoError(t, err)
	_, err = store.Stores().Animals.Create(context.Background(), animal)
	require.NoError(t, err)

	policy := RetryPolicy{MaxAttempts: 3, InitialInterval: time.Millisecond}

	recovering := &flakyPersistence{Persistence: store, failures: 2}
	_, err = NewService(recovering, WithRetryPolicy(policy)).Submit(context.Background(), types.SubmitInput{AnimalID: "cat-1", ApplicantProfile: applicant})
	require.NoError(t, err)
	assert.Equal(t, 3, recovering.calls)

	exhausted := &flakyPersistence{Persistence: store, failures: 3}
	_, err = NewService(exhausted, WithRetryPolicy(policy)).Submit(context.Background(), types.SubmitInput{AnimalID: "cat-1", ApplicantProfile: applicant})
	require.ErrorIs(t, err, ErrConflict)
	require.ErrorIs(t, err, ports.ErrVersionConflict)
	assert.Equal(t, 3, exhausted.calls)
}

func TestListRequests_FiltersAndPages(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var tick atomic.Int64
	f := newFixture(t, WithClock(func() time.Time { return base.Add(time.Duration(tick.Add(1)) * time.Minute) }))
	f.animal(t, "cat-1")
	f.animal(t, "cat-2")
	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, f.submit(t, "cat-1").ID)
	}
	f.submit(t, "cat-2")
	f.move(t, ids[0], domain.StatusInReview)

	page, err := f.svc.ListRequests(context.Background(), types.ListRequestsInput{AnimalID: "cat-1", Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.Pages)
	require.Len(t, page.Items, 2)
	assert.Equal(t, ids[2], page.Items[0].ID)

	page, err = f.svc.ListRequests(context.Background(), types.ListRequestsInput{Statuses: []string{"pending,in_review"}})
	require.NoError(t, err)
	assert.Equal(t, 6, page.Total)

	page, err = f.svc.ListRequests(context.Background(), types.ListRequestsInput{Statuses: []string{"in_review"}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, ids[0], page.Items[0].ID)

	_, err = f.svc.ListRequests(context.Background(), types.ListRequestsInput{Statuses: []string{"lost"}})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.svc.ListRequests(context.Background(), types.ListRequestsInput{Page: -1})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestRegisterAnimal(t *testing.T) {
	f := newFixture(t)
	animal, err := f.svc.RegisterAnimal(context.Background(), types.RegisterAnimalInput{Name: "Biscuit"})
	require.NoError(t, err)
	assert.NotEmpty(t, animal.ID)
	assert.Equal(t, domain.AvailabilityAvailable, animal.Availability)
	assert.Equal(t, int64(1), animal.Version)

	_, err = f.svc.RegisterAnimal(context.Background(), types.RegisterAnimalInput{ID: animal.ID, Name: "Biscuit"})
	require.ErrorIs(t, err, ErrConflict)

	_, err = f.svc.RegisterAnimal(context.Background(), types.RegisterAnimalInput{Name: " "})
	require.ErrorIs(t, err, ErrInvalidInput)
}
