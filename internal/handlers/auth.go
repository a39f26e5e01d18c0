package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ItumelengS/linac-qa-app-sub000/internal/models"
	"github.com/ItumelengS/linac-qa-app-sub000/internal/repository"
)

type AuthHandler struct {
	log *zap.Logger
}

func NewAuthHandler(log *zap.Logger) *AuthHandler {
	return &AuthHandler{log: log}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	user, err := repository.GetUserByUsername(c.Request.Context(), req.Username)
	if err != nil || !user.CheckPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}
	if !user.Active {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is disabled"})
		return
	}

	session := sessions.Default(c)
	session.Set("userID", user.ID)
	if err := session.Save(); err != nil {
		h.log.Error("Failed to save session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		return
	}

	if err := repository.TouchLastLogin(c.Request.Context(), user.ID); err != nil {
		h.log.Warn("Failed to update last login", zap.Uint("userID", user.ID), zap.Error(err))
	}
	if err := repository.LogAudit(c.Request.Context(), user.Username, "LOGIN", "User logged in", c.ClientIP()); err != nil {
		h.log.Warn("Failed to write audit entry", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"username":  user.Username,
		"full_name": user.FullName,
		"role":      user.Role,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if user, ok := currentUser(c); ok {
		if err := repository.LogAudit(c.Request.Context(), user.Username, "LOGOUT", "User logged out", c.ClientIP()); err != nil {
			h.log.Warn("Failed to write audit entry", zap.Error(err))
		}
	}

	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout"})
		return
	}
	c.Status(http.StatusNoContent)
}

// currentUser pulls the user loaded by the session middleware.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
