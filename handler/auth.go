package handler

import (
	"net/http"

	"github.com/Kavyashree-BK/ismart-agreement-sub000/config"
	"github.com/Kavyashree-BK/ismart-agreement-sub000/middleware"
	"github.com/Kavyashree-BK/ismart-agreement-sub000/pkg/rbac"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	config *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{config: cfg}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Role      string `json:"role"`
}

type SwitchRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	// Find user in config
	user := h.config.FindUser(req.Username)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	// Simple password check (in production, use bcrypt)
	if user.Password != req.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	role := user.Role
	if !rbac.Valid(role) {
		role = string(rbac.RoleChecker)
	}

	token, expiresAt, err := middleware.GenerateToken(user.Username, user.Name, role, &h.config.Auth)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format("2006-01-02T15:04:05Z07:00"),
		Username:  user.Username,
		Name:      user.Name,
		Role:      role,
	})
}

// GetCurrentUser returns the current session info
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"username": middleware.GetUsername(c),
		"name":     middleware.GetName(c),
		"role":     middleware.GetRole(c),
	})
}

// SwitchRole re-issues the session token with the requested role. There is
// no authorization check on the switch itself; the role toggle is the whole
// access model.
func (h *AuthHandler) SwitchRole(c *gin.Context) {
	var req SwitchRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !rbac.Valid(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be Checker or Approver"})
		return
	}

	token, expiresAt, err := middleware.GenerateToken(
		middleware.GetUsername(c), middleware.GetName(c), req.Role, &h.config.Auth)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format("2006-01-02T15:04:05Z07:00"),
		Username:  middleware.GetUsername(c),
		Name:      middleware.GetName(c),
		Role:      req.Role,
	})
}
