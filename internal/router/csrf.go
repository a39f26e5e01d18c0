package router

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/ItumelengS/linac-qa-app-sub000/internal/utils"
)

// Keys for storing the token in the session and context.
const (
	csrfTokenSessionKey = "csrf_token"
	csrfTokenContextKey = "csrf_token"
	csrfTokenHeaderKey  = "X-CSRF-Token"
)

// CSRFProtection is a custom middleware to protect against CSRF attacks.
// Clients fetch the token from GET /api/csrf and echo it back in the
// X-CSRF-Token header on every unsafe request.
func CSRFProtection() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		// Get or create the real CSRF token for the session.
		var token string
		sessionToken := session.Get(csrfTokenSessionKey)

		if sessionToken == nil {
			newToken, err := utils.GenerateSecureToken(32)
			if err != nil {
				c.AbortWithError(http.StatusInternalServerError, errors.New("failed to generate CSRF token"))
				return
			}
			token = newToken
			session.Set(csrfTokenSessionKey, token)
			if err := session.Save(); err != nil {
				c.AbortWithError(http.StatusInternalServerError, errors.New("failed to save session"))
				return
			}
		} else {
			token = sessionToken.(string)
		}

		c.Set(csrfTokenContextKey, token)

		// Validate the token on unsafe methods.
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			submittedToken := c.GetHeader(csrfTokenHeaderKey)
			if submittedToken == "" || submittedToken != token {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid CSRF token"})
				return
			}
		}

		c.Next()
	}
}

// CSRFToken returns the session's token so clients can attach it to
// subsequent requests.
func CSRFToken(c *gin.Context) {
	token, _ := c.Get(csrfTokenContextKey)
	c.JSON(http.StatusOK, gin.H{"csrf_token": token})
}
