package adoptionserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	adoptionmapper "github.com/Apurer/adoption-coordinator/internal/domains/adoptions/adapters/http/mapper"
	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/application/types"
	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/ports"
)

// AdoptionAPI wires HTTP transport with the adoptions coordinator.
type AdoptionAPI struct {
	service ports.Service
}

// NewAdoptionAPI creates an AdoptionAPI backed by the provided service.
func NewAdoptionAPI(service ports.Service) AdoptionAPI {
	return AdoptionAPI{service: service}
}

// Post /adoptions
// Submit an adoption request for an available animal
func (api *AdoptionAPI) SubmitAdoption(c *gin.Context) {
	var payload adoptionmapper.SubmitAdoption
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	key := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
	req, err := api.service.Submit(c.Request.Context(), adoptionmapper.ToSubmitInput(payload, key))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("ETag", etag(req.Version))
	c.Header("Location", "/adoptions/"+req.ID)
	c.JSON(http.StatusCreated, adoptionmapper.FromAdoptionRequest(req))
}

// Get /adoptions
// List adoption requests filtered by status and animal
func (api *AdoptionAPI) ListAdoptions(c *gin.Context) {
	page, ok := intQuery(c, "page")
	if !ok {
		return
	}
	limit, ok := intQuery(c, "limit")
	if !ok {
		return
	}
	result, err := api.service.ListRequests(c.Request.Context(), types.ListRequestsInput{
		Statuses: c.QueryArray("status"),
		AnimalID: c.Query("animalId"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, adoptionmapper.FromAdoptionPage(result))
}

// Get /adoptions/:adoptionId
// Load one adoption request with its history
func (api *AdoptionAPI) GetAdoption(c *gin.Context) {
	req, err := api.service.GetRequest(c.Request.Context(), c.Param("adoptionId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("ETag", etag(req.Version))
	c.JSON(http.StatusOK, adoptionmapper.FromAdoptionRequest(req))
}

// Patch /adoptions/:adoptionId/status
// Move an adoption request through its lifecycle
func (api *AdoptionAPI) UpdateAdoptionStatus(c *gin.Context) {
	var payload adoptionmapper.StatusPatch
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	expected, ok := ifMatchVersion(c)
	if !ok {
		return
	}
	req, err := api.service.Transition(c.Request.Context(), types.TransitionInput{
		RequestID:       c.Param("adoptionId"),
		Target:          payload.Status,
		Actor:           identityFrom(c),
		ExpectedVersion: expected,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("ETag", etag(req.Version))
	c.JSON(http.StatusOK, adoptionmapper.FromAdoptionRequest(req))
}

func etag(version int64) string {
	return strconv.Quote(strconv.FormatInt(version, 10))
}

// ifMatchVersion reads an optional If-Match header of the form "3", W/"3" or *.
func ifMatchVersion(c *gin.Context) (*int64, bool) {
	raw := strings.TrimSpace(c.GetHeader("If-Match"))
	if raw == "" || raw == "*" {
		return nil, true
	}
	raw = strings.TrimPrefix(raw, "W/")
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || version <= 0 {
		respondBadRequest(c, "If-Match must carry a request version")
		return nil, false
	}
	return &version, true
}

func intQuery(c *gin.Context, name string) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		respondBadRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return value, true
}
