package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/annual-plan/internal/domain"
)

// Error codes returned in the "code" field of error bodies.
const (
	codeValidation = "validation"
	codeNotFound   = "not_found"
	codeConflict   = "conflict"
	codeState      = "illegal_state"
	codeForbidden  = "forbidden"
	codeInternal   = "internal"
)

// statusFor maps an error category to its HTTP status and code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, codeValidation
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, codeForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, codeConflict
	case errors.Is(err, domain.ErrState):
		return http.StatusConflict, codeState
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

// writeError aborts the request with the status matching err. Internal
// errors are logged and replaced by a generic message.
func writeError(c *gin.Context, logger *slog.Logger, err error) {
	status, code := statusFor(err)
	body := gin.H{"error": err.Error(), "code": code}

	var invalid *domain.PlanValidationError
	if errors.As(err, &invalid) {
		body["issues"] = invalid.Issues
	}
	if status == http.StatusInternalServerError {
		logger.ErrorContext(c.Request.Context(), "request error",
			slog.String("path", c.FullPath()),
			slog.Any("error", err))
		body["error"] = "Internal server error"
	}
	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message, "code": codeValidation})
}

// mustActor reads the authenticated actor. Routes are only reachable after
// AuthMiddleware, so a miss is a wiring bug.
func mustActor(c *gin.Context) (domain.Actor, bool) {
	actor, ok := actorFromContext(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
	}
	return actor, ok
}

func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		badRequest(c, "Invalid "+name+" format.")
		return primitive.NilObjectID, false
	}
	return id, true
}

func intParam(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		badRequest(c, "Invalid "+name+": must be an integer.")
		return 0, false
	}
	return n, true
}

func dateParam(c *gin.Context, name string) (time.Time, bool) {
	return parseDateField(c, name, c.Param(name))
}

func parseDateField(c *gin.Context, field, value string) (time.Time, bool) {
	d, err := domain.ParseDate(value)
	if err != nil {
		badRequest(c, "Invalid "+field+": expected YYYY-MM-DD.")
		return time.Time{}, false
	}
	return d, true
}
