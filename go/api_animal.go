package adoptionserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	adoptionmapper "github.com/Apurer/adoption-coordinator/internal/domains/adoptions/adapters/http/mapper"
	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/ports"
)

// AnimalAPI exposes animal registration and lookup.
type AnimalAPI struct {
	service ports.Service
}

// NewAnimalAPI creates an AnimalAPI backed by the provided service.
func NewAnimalAPI(service ports.Service) AnimalAPI {
	return AnimalAPI{service: service}
}

// Post /animals
// Register an animal as available for adoption
func (api *AnimalAPI) RegisterAnimal(c *gin.Context) {
	var payload adoptionmapper.RegisterAnimal
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	animal, err := api.service.RegisterAnimal(c.Request.Context(), adoptionmapper.ToRegisterAnimalInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Location", "/animals/"+animal.ID)
	c.JSON(http.StatusCreated, adoptionmapper.FromAnimal(animal))
}

// Get /animals/:animalId
// Load one animal and its availability
func (api *AnimalAPI) GetAnimal(c *gin.Context) {
	animal, err := api.service.GetAnimal(c.Request.Context(), c.Param("animalId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, adoptionmapper.FromAnimal(animal))
}
