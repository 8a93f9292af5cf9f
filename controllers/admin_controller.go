package controllers

import (
	"crypto/subtle"
	"net/http"

	"github.com/ayoogunade/AyoZon/logger"
	"github.com/ayoogunade/AyoZon/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AdminController handles the admin session endpoints.
type AdminController struct {
	username string
	password string
	sessions *middleware.SessionManager
	log      *zap.Logger
}

func NewAdminController(username, password string, sessions *middleware.SessionManager, log *zap.Logger) *AdminController {
	return &AdminController{username: username, password: password, sessions: sessions, log: log}
}

// Login handles POST /admin/login.
func (ac *AdminController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(ac.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(ac.password)) == 1
	if !userOK || !passOK {
		logger.FromContext(c, ac.log).Warn("Admin login rejected", zap.String("client_ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := ac.sessions.Issue(c); err != nil {
		logger.FromContext(c, ac.log).Error("Failed to issue admin session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "is_admin": true})
}

// Logout handles POST /admin/logout.
func (ac *AdminController) Logout(c *gin.Context) {
	ac.sessions.Clear(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Status handles GET /admin/status.
func (ac *AdminController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"is_admin": ac.sessions.IsAdmin(c)})
}
