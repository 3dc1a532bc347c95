//go:build pact
// +build pact

package provider_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	pacttest "github.com/Apurer/adoption-coordinator/test/pact"

	adoptionserver "github.com/Apurer/adoption-coordinator/go"
	adoptionsmemory "github.com/Apurer/adoption-coordinator/internal/domains/adoptions/adapters/memory"
	adoptionsobs "github.com/Apurer/adoption-coordinator/internal/domains/adoptions/adapters/observability"
	adoptionsapp "github.com/Apurer/adoption-coordinator/internal/domains/adoptions/application"
	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/application/types"
	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/domain"
	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/ports"
	staffmemory "github.com/Apurer/adoption-coordinator/internal/domains/staff/adapters/memory"
	staffdomain "github.com/Apurer/adoption-coordinator/internal/domains/staff/domain"
	"github.com/Apurer/adoption-coordinator/internal/shared/pagination"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestAdoptionProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateAnimalAvailable: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.registerAnimal(t, pacttest.AvailableAnimalID)
			}
			return nil, nil
		},
		pacttest.StateAnimalAdopted: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.registerAnimal(t, pacttest.AdoptedAnimalID)
				app.seedRequest(t, pacttest.AdoptedAnimalID, domain.StatusInReview, domain.StatusApproved)
			}
			return nil, nil
		},
		pacttest.StateAnimalMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
		pacttest.StateRequestInReview: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t, adoptionsapp.WithIDGenerator(func() string { return pacttest.InReviewRequestID }))
			if setup {
				app.registerAnimal(t, pacttest.AvailableAnimalID)
				app.seedRequest(t, pacttest.AvailableAnimalID, domain.StatusInReview)
			}
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
	})
	require.NoError(t, err)
}

var admin = staffdomain.Identity{StaffID: pacttest.AdminID, Roles: []staffdomain.Role{staffdomain.RoleAdmin}}

type contractProviderApp struct {
	service *swappableService
	server  *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	gate := staffmemory.NewStaticGate()
	gate.Register(pacttest.AdminToken, admin)

	app := &contractProviderApp{service: &swappableService{}}
	app.reset(t)

	router := gin.New()
	router.Use(gin.Recovery())
	router = adoptionserver.NewRouterWithGinEngine(router, adoptionserver.ApiHandleFunctions{
		AdoptionAPI: adoptionserver.NewAdoptionAPI(app.service),
		AnimalAPI:   adoptionserver.NewAnimalAPI(app.service),
		Auth:        gate,
	})

	app.server = httptest.NewServer(router)
	t.Cleanup(app.server.Close)
	return app
}

func (a *contractProviderApp) reset(t testing.TB, opts ...adoptionsapp.Option) {
	t.Helper()
	a.service.swap(adoptionsobs.New(adoptionsapp.NewService(adoptionsmemory.NewStore(), opts...)))
}

func (a *contractProviderApp) registerAnimal(t testing.TB, id string) {
	t.Helper()
	_, err := a.service.RegisterAnimal(context.Background(), types.RegisterAnimalInput{ID: id, Name: "Pact " + id})
	require.NoError(t, err)
}

func (a *contractProviderApp) seedRequest(t testing.TB, animalID string, path ...domain.Status) {
	t.Helper()
	ctx := context.Background()
	profile, err := json.Marshal(pacttest.ExampleApplicantProfile())
	require.NoError(t, err)
	req, err := a.service.Submit(ctx, types.SubmitInput{AnimalID: animalID, ApplicantProfile: profile})
	require.NoError(t, err)
	for _, status := range path {
		_, err = a.service.Transition(ctx, types.TransitionInput{RequestID: req.ID, Target: string(status), Actor: admin})
		require.NoError(t, err)
	}
}

// swappableService lets provider states start from an empty store without rebuilding the router.
type swappableService struct {
	mu    sync.RWMutex
	inner ports.Service
}

func (s *swappableService) swap(inner ports.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inner = inner
}

func (s *swappableService) current() ports.Service {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner
}

func (s *swappableService) Submit(ctx context.Context, input types.SubmitInput) (*domain.AdoptionRequest, error) {
	return s.current().Submit(ctx, input)
}

func (s *swappableService) Transition(ctx context.Context, input types.TransitionInput) (*domain.AdoptionRequest, error) {
	return s.current().Transition(ctx, input)
}

func (s *swappableService) GetRequest(ctx context.Context, id string) (*domain.AdoptionRequest, error) {
	return s.current().GetRequest(ctx, id)
}

func (s *swappableService) ListRequests(ctx context.Context, input types.ListRequestsInput) (*pagination.Page[*domain.AdoptionRequest], error) {
	return s.current().ListRequests(ctx, input)
}

func (s *swappableService) RegisterAnimal(ctx context.Context, input types.RegisterAnimalInput) (*domain.Animal, error) {
	return s.current().RegisterAnimal(ctx, input)
}

func (s *swappableService) GetAnimal(ctx context.Context, id string) (*domain.Animal, error) {
	return s.current().GetAnimal(ctx, id)
}
