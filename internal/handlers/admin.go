package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ItumelengS/linac-qa-app-sub000/internal/repository"
	"github.com/ItumelengS/linac-qa-app-sub000/internal/utils"
)

// AdminHandler covers user management and the audit trail. Every route
// here sits behind the admin middleware.
type AdminHandler struct {
	log *zap.Logger
}

func NewAdminHandler(log *zap.Logger) *AdminHandler {
	return &AdminHandler{log: log}
}

type userView struct {
	ID        uint       `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Role      string     `json:"role"`
	Active    bool       `json:"active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// ListUsers returns every account without password hashes:
// GET /api/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := repository.ListUsers(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to list users", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load users"})
		return
	}
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, userView{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			FullName:  u.FullName,
			Role:      u.Role,
			Active:    u.Active,
			LastLogin: u.LastLogin,
		})
	}
	c.JSON(http.StatusOK, views)
}

// CreateUser provisions a new account:
// POST /api/admin/users
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		FullName string `json:"full_name"`
		Role     string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user payload"})
		return
	}
	if !utils.IsValidEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
		return
	}
	if !utils.IsComplexPassword(req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters with upper, lower, number and special characters"})
		return
	}
	if !utils.IsValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role"})
		return
	}

	user, err := repository.CreateUser(req.Username, req.Email, req.Password, req.FullName, req.Role)
	if err != nil {
		h.log.Error("Failed to create user", zap.String("username", req.Username), zap.Error(err))
		c.JSON(http.StatusConflict, gin.H{"error": "Failed to create user"})
		return
	}

	admin, _ := currentUser(c)
	adminName := ""
	if admin != nil {
		adminName = admin.Username
	}
	if err := repository.LogAudit(c.Request.Context(), adminName, "CREATE_USER",
		"Created user "+user.Username+" with role "+user.Role, c.ClientIP()); err != nil {
		h.log.Warn("Failed to write audit entry", zap.Error(err))
	}

	c.JSON(http.StatusCreated, userView{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
		Active:   user.Active,
	})
}

// UpdateUser changes role, active flag or resets the password:
// PUT /api/admin/users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var req struct {
		Email    *string `json:"email"`
		FullName *string `json:"full_name"`
		Role     *string `json:"role"`
		Active   *bool   `json:"active"`
		Password *string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user payload"})
		return
	}

	user, err := repository.GetUserByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if req.Email != nil {
		if !utils.IsValidEmail(*req.Email) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
			return
		}
		user.Email = *req.Email
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Role != nil {
		if !utils.IsValidRole(*req.Role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role"})
			return
		}
		user.Role = *req.Role
	}
	if req.Active != nil {
		// An admin cannot lock themselves out.
		if admin, ok := currentUser(c); ok && admin.ID == user.ID && !*req.Active {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot deactivate your own account"})
			return
		}
		user.Active = *req.Active
	}
	if req.Password != nil {
		if !utils.IsComplexPassword(*req.Password) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters with upper, lower, number and special characters"})
			return
		}
		if err := user.SetPassword(*req.Password); err != nil {
			h.log.Error("Failed to hash password", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
			return
		}
	}

	if err := repository.UpdateUser(c.Request.Context(), user); err != nil {
		h.log.Error("Failed to update user", zap.Uint("userID", user.ID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to update user"})
		return
	}

	admin, _ := currentUser(c)
	adminName := ""
	if admin != nil {
		adminName = admin.Username
	}
	if err := repository.LogAudit(c.Request.Context(), adminName, "UPDATE_USER",
		"Updated user "+user.Username, c.ClientIP()); err != nil {
		h.log.Warn("Failed to write audit entry", zap.Error(err))
	}

	c.JSON(http.StatusOK, userView{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		Active:    user.Active,
		LastLogin: user.LastLogin,
	})
}

// AuditLog returns recent audit entries, newest first:
// GET /api/admin/audit?limit=200
func (h *AdminHandler) AuditLog(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}
	entries, err := repository.ListAuditLog(c.Request.Context(), limit)
	if err != nil {
		h.log.Error("Failed to list audit log", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load audit log"})
		return
	}
	c.JSON(http.StatusOK, entries)
}
