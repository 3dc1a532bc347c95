package adoptionserver

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/application"
	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/domain"
	"github.com/Apurer/adoption-coordinator/internal/domains/adoptions/ports"
	staffdomain "github.com/Apurer/adoption-coordinator/internal/domains/staff/domain"
	apierrors "github.com/Apurer/adoption-coordinator/internal/shared/errors"
)

// Conflict codes exposed in the problem "code" member.
const (
	CodeAnimalNoLongerAvailable = "animal_no_longer_available"
	CodeAnimalNotAvailable      = "animal_not_available"
	CodeVersionConflict         = "version_conflict"
	CodeIdempotencyConflict     = "idempotency_conflict"
	CodeDuplicate               = "duplicate"
	CodeInvalidTransition       = "invalid_transition"
)

var responder = apierrors.NewResponder(
	apierrors.WithChallenge(`Bearer realm="adoptions"`),
	apierrors.WithMappers(mapAdoptionError),
)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func mapAdoptionError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apierrors.ErrOutcomeUnknown, true
	case errors.Is(err, staffdomain.ErrUnauthorized):
		return apierrors.ErrUnauthorized.WithDetail(err.Error()), true
	case errors.Is(err, staffdomain.ErrForbidden):
		return apierrors.ErrForbidden.WithDetail(err.Error()), true
	case errors.Is(err, domain.ErrAnimalNoLongerAvailable):
		return apierrors.NewConflictProblem(CodeAnimalNoLongerAvailable, "this animal was already adopted by another request"), true
	case errors.Is(err, domain.ErrAnimalNotAvailable):
		return apierrors.NewConflictProblem(CodeAnimalNotAvailable, "this animal is not available for adoption"), true
	case errors.Is(err, ports.ErrIdempotencyConflict):
		return apierrors.NewConflictProblem(CodeIdempotencyConflict, "Idempotency-Key was already used with a different payload"), true
	case errors.Is(err, ports.ErrVersionConflict):
		return apierrors.NewConflictProblem(CodeVersionConflict, err.Error()), true
	case errors.Is(err, ports.ErrDuplicate):
		return apierrors.NewConflictProblem(CodeDuplicate, err.Error()), true
	case errors.Is(err, application.ErrConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, domain.ErrInvalidTransition):
		return apierrors.ErrBadRequest.WithDetail(err.Error()).WithExtension("code", CodeInvalidTransition), true
	case errors.Is(err, application.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrUnavailable):
		return apierrors.ErrServiceUnavailable.WithDetail("storage is temporarily unavailable, retry later"), true
	}
	return apierrors.ProblemDetail{}, false
}

func respondBadRequest(c *gin.Context, detail string) {
	respondProblem(c, apierrors.ErrBadRequest.WithDetail(detail))
}
