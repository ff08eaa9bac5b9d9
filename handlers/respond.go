package handlers

import (
	"net/http"

	"hideandseek/apperr"
	"hideandseek/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError translates the domain error taxonomy to HTTP statuses.
// Internal errors are logged and masked.
func respondError(c *gin.Context, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperr.KindForbidden:
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case apperr.KindConflict:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case apperr.KindInvalid:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Log.Errorw("internal error", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error."})
	}
}

// pathUUID parses a UUID path parameter, aborting with 422 on bad input.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": name + " must be a UUID"})
		return uuid.Nil, false
	}
	return id, true
}
