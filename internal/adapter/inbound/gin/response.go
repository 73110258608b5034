package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mockupstudio/server/internal/model"
	"github.com/mockupstudio/server/internal/utils/middleware"
	"go.uber.org/zap"
)

// Responder renders envelopes and maps domain errors to status codes.
type Responder struct {
	production bool
	logger     *zap.Logger
}

// NewResponder creates a responder. In production, unexpected errors are
// rendered without their text.
func NewResponder(production bool, logger *zap.Logger) *Responder {
	return &Responder{production: production, logger: logger}
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, model.Envelope{Status: model.StatusSuccess, Data: data})
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, model.Envelope{Status: model.StatusSuccess, Data: data})
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, model.Envelope{Status: model.StatusError, Message: message})
}

// bindJSON decodes the body. An empty body leaves dst zeroed so the
// domain reports the missing fields.
func bindJSON(c *gin.Context, dst any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

// userID returns the authenticated account; middleware.RequireAuth has
// already rejected anonymous callers.
func userID(c *gin.Context) (uuid.UUID, bool) {
	id := middleware.GetUserID(c)
	if id == uuid.Nil {
		fail(c, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, false
	}
	return id, true
}

func pathID(c *gin.Context, notFound string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, notFound)
		return uuid.Nil, false
	}
	return id, true
}
