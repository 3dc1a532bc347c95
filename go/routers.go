package adoptionserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	staffdomain "github.com/Apurer/adoption-coordinator/internal/domains/staff/domain"
	staffports "github.com/Apurer/adoption-coordinator/internal/domains/staff/ports"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	// Staff requires a valid staff bearer token.
	Staff bool
	// Permission, when set, is checked after authentication.
	Permission staffdomain.Permission
}

// ApiHandleFunctions bundles the handlers and the gate guarding staff routes.
type ApiHandleFunctions struct {
	AdoptionAPI AdoptionAPI
	AnimalAPI   AnimalAPI
	Auth        staffports.AuthGate
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		handlers := make([]gin.HandlerFunc, 0, 3)
		if route.Staff {
			handlers = append(handlers, RequireStaff(handleFunctions.Auth))
		}
		if route.Permission != "" {
			handlers = append(handlers, RequirePermission(route.Permission))
		}
		handlers = append(handlers, route.HandlerFunc)
		router.Handle(route.Method, route.Pattern, handlers...)
	}
	return router
}

// DefaultHandleFunc answers routes without a wired handler.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			Name:        "SubmitAdoption",
			Method:      http.MethodPost,
			Pattern:     "/adoptions",
			HandlerFunc: handleFunctions.AdoptionAPI.SubmitAdoption,
		},
		{
			Name:        "ListAdoptions",
			Method:      http.MethodGet,
			Pattern:     "/adoptions",
			HandlerFunc: handleFunctions.AdoptionAPI.ListAdoptions,
			Staff:       true,
			Permission:  staffdomain.PermissionReadAdoptions,
		},
		{
			Name:        "GetAdoption",
			Method:      http.MethodGet,
			Pattern:     "/adoptions/:adoptionId",
			HandlerFunc: handleFunctions.AdoptionAPI.GetAdoption,
			Staff:       true,
			Permission:  staffdomain.PermissionReadAdoptions,
		},
		{
			Name:        "UpdateAdoptionStatus",
			Method:      http.MethodPatch,
			Pattern:     "/adoptions/:adoptionId/status",
			HandlerFunc: handleFunctions.AdoptionAPI.UpdateAdoptionStatus,
			Staff:       true,
		},
		{
			Name:        "RegisterAnimal",
			Method:      http.MethodPost,
			Pattern:     "/animals",
			HandlerFunc: handleFunctions.AnimalAPI.RegisterAnimal,
			Staff:       true,
			Permission:  staffdomain.PermissionManageAnimals,
		},
		{
			Name:        "GetAnimal",
			Method:      http.MethodGet,
			Pattern:     "/animals/:animalId",
			HandlerFunc: handleFunctions.AnimalAPI.GetAnimal,
		},
		{
			Name:        "Healthz",
			Method:      http.MethodGet,
			Pattern:     "/healthz",
			HandlerFunc: Healthz,
		},
	}
}

// Healthz reports liveness.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
