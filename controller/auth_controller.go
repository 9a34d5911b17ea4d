// api/controller/auth_controller.go
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vidora-labs/vidora/api/audit"
	"github.com/vidora-labs/vidora/api/auth"
	"github.com/vidora-labs/vidora/api/config"
	vidora_errors "github.com/vidora-labs/vidora/api/errors"
	logger "github.com/vidora-labs/vidora/api/logging"
	"github.com/vidora-labs/vidora/api/middleware"
	"github.com/vidora-labs/vidora/api/service"
	"github.com/vidora-labs/vidora/api/util"
)

type AuthController struct {
	userService  service.IUserService
	tokenService *auth.TokenService
	auditService audit.Service
}

func NewAuthController(userService service.IUserService, tokenService *auth.TokenService, auditService audit.Service) *AuthController {
	return &AuthController{
		userService:  userService,
		tokenService: tokenService,
		auditService: auditService,
	}
}

// RegisterRoutes registers the API routes
func (ac *AuthController) RegisterRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", ac.Register)
		authGroup.POST("/login", ac.Login)
		authGroup.POST("/refresh", ac.Refresh)
		authGroup.POST("/logout", middleware.RequireAuth(ac.tokenService), ac.Logout)
		authGroup.GET("/me", middleware.RequireAuth(ac.tokenService), ac.Me)
	}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Register endpoint
func (ac *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid registration data", vidora_errors.ErrInvalidUserData)
		return
	}

	// New accounts start on the free tier
	user, err := ac.userService.Register(c, req.Name, req.Email, req.Password, "free", config.GetInt("billing.plans.free"))
	if err != nil {
		switch err {
		case vidora_errors.ErrEmailTaken:
			util.RespondWithError(c, http.StatusConflict, "Email already registered", err)
		case vidora_errors.ErrInvalidUserData:
			util.RespondWithError(c, http.StatusBadRequest, "Invalid registration data", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to register user", vidora_errors.ErrInternalServer)
		}
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login endpoint
func (ac *AuthController) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid credentials payload", vidora_errors.ErrInvalidCredentials)
		return
	}

	user, err := ac.userService.Authenticate(c, req.Email, req.Password)
	if err != nil {
		if err == vidora_errors.ErrInvalidCredentials {
			c.Header("WWW-Authenticate", "Bearer")
			util.RespondWithError(c, http.StatusUnauthorized, "Invalid email or password", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to authenticate", err)
		}
		return
	}

	access, refresh, err := ac.tokenService.IssuePair(user.ID)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to issue tokens", err)
		return
	}

	ac.logAuthEvent(c, user.ID, audit.ActionLogin)

	c.JSON(http.StatusOK, gin.H{
		"access_token":  access,
		"refresh_token": refresh,
		"user":          user,
	})
}

// Refresh endpoint rotates a refresh token into a fresh pair.
func (ac *AuthController) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Missing refresh token", vidora_errors.ErrInvalidToken)
		return
	}

	claims := ac.tokenService.Validate(c, req.RefreshToken, auth.RefreshToken)
	if claims == nil {
		c.Header("WWW-Authenticate", "Bearer")
		util.RespondWithError(c, http.StatusUnauthorized, "Invalid refresh token", vidora_errors.ErrInvalidToken)
		return
	}

	// Old refresh token dies with the rotation
	ac.tokenService.Revoke(c, req.RefreshToken)

	access, refresh, err := ac.tokenService.IssuePair(claims.Subject)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to issue tokens", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  access,
		"refresh_token": refresh,
	})
}

// Logout endpoint revokes the presented access token and, when
// supplied, the refresh token.
func (ac *AuthController) Logout(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil || userID == "" {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", vidora_errors.ErrUnauthorized)
		return
	}

	if header := c.GetHeader("Authorization"); header != "" {
		token := header
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}
		if !ac.tokenService.Revoke(c, token) {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to revoke token", vidora_errors.ErrInternalServer)
			return
		}
	}

	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.RefreshToken != "" {
		ac.tokenService.Revoke(c, req.RefreshToken)
	}

	ac.logAuthEvent(c, userID, audit.ActionLogout)

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me endpoint
func (ac *AuthController) Me(c *gin.Context) {
	userID, err := util.GetUserIDFromContext(c)
	if err != nil || userID == "" {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", vidora_errors.ErrUnauthorized)
		return
	}

	user, err := ac.userService.GetUser(c, userID)
	if err != nil {
		if err == vidora_errors.ErrUserNotFound {
			util.RespondWithError(c, http.StatusNotFound, "User not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to load user", err)
		}
		return
	}

	c.JSON(http.StatusOK, user)
}

func (ac *AuthController) logAuthEvent(c *gin.Context, userID, action string) {
	log := audit.AuditLog{
		Timestamp:     time.Now(),
		UserID:        userID,
		Action:        action,
		ResourceID:    userID,
		AccessGranted: true,
		ClientIP:      c.ClientIP(),
	}
	if err := ac.auditService.LogEvent(c, log); err != nil {
		logger.Error("Failed to write auth audit log", zap.Error(err), zap.String("userID", userID))
	}
}
