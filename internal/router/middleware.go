package router

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ItumelengS/linac-qa-app-sub000/internal/models"
	"github.com/ItumelengS/linac-qa-app-sub000/internal/repository"
)

// UserLoaderMiddleware checks for a userID in the session.
// If found, it loads the user from the database and adds it to the context.
// This ensures we don't have "zombie" sessions for users who no longer exist.
func UserLoaderMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get("userID").(uint)
		if !ok {
			// No user ID in session, proceed as a guest.
			c.Next()
			return
		}

		user, err := repository.GetUserByID(c.Request.Context(), userID)
		if err != nil || !user.Active {
			// User ID from session is invalid (user was deleted or
			// deactivated). Clear the bad session and treat as a guest.
			session.Clear()
			session.Options(sessions.Options{Path: "/", MaxAge: -1})
			if err := session.Save(); err != nil {
				log.Warn("Failed to clear stale session", zap.Error(err))
			}
			c.Next()
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

// AuthRequired checks if a valid user was loaded into the context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get("user"); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}

// AdminRequired rejects non-admin users. Runs after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get("user")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		user, ok := v.(*models.User)
		if !ok || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}
