package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/identity"
)

const contextUserKey = "user"

// AuthRequired resolves the bearer token through the identity provider
// and stores the caller on the request context.
func AuthRequired(provider identity.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		user, err := provider.VerifyToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// UserFrom returns the authenticated caller set by AuthRequired.
func UserFrom(c *gin.Context) *identity.User {
	v, ok := c.Get(contextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*identity.User)
	return user
}
