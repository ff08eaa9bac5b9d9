package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ClientIDKey is the gin context key holding the authenticated client id.
const ClientIDKey = "client_id"

// ClientID extracts the X-Client-Id header. Upstream auth has already
// verified the identity; this layer only parses it.
func ClientID() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-Client-Id")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "X-Client-Id header is required"})
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "X-Client-Id must be a UUID"})
			return
		}
		c.Set(ClientIDKey, id)
		c.Next()
	}
}

// GetClientID returns the client id stored by the ClientID middleware.
func GetClientID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ClientIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
