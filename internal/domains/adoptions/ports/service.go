package ports

import (
	"context"

	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/application/types"
	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/domain"
	"github.com/Apurer/adoption-coordinator/internal/shared/pagination"
)

// Service exposes the adoption use cases to transports.
type Service interface {
	Submit(ctx context.Context, input types.SubmitInput) (*domain.AdoptionRequest, error)
	Transition(ctx context.Context, input types.TransitionInput) (*domain.AdoptionRequest, error)
	GetRequest(ctx context.Context, id string) (*domain.AdoptionRequest, error)
	ListRequests(ctx context.Context, input types.ListRequestsInput) (*pagination.Page[*domain.AdoptionRequest], error)
	RegisterAnimal(ctx context.Context, input types.RegisterAnimalInput) (*domain.Animal, error)
	GetAnimal(ctx context.Context, id string) (*domain.Animal, error)
}
