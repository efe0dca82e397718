package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"collegerag/models"
	"collegerag/services"
)

const userIDKey = "user_id"

// AuthController handles registration, login and the current-user endpoint.
type AuthController struct {
	authService services.AuthService
}

// NewAuthController creates an AuthController.
func NewAuthController(service services.AuthService) *AuthController {
	return &AuthController{authService: service}
}

// Register is the handler for POST /api/v1/auth/register.
func (c *AuthController) Register(ctx *gin.Context) {
	var req models.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	user, err := c.authService.Register(req.Email, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		return
	}

	token, err := c.authService.IssueToken(user.ID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	ctx.JSON(http.StatusCreated, models.AuthResponse{User: *user, Token: token})
}

// Login is the handler for POST /api/v1/auth/login.
func (c *AuthController) Login(ctx *gin.Context) {
	var req models.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	user, err := c.authService.Authenticate(req.Email, req.Password)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect email or password"})
		return
	}

	token, err := c.authService.IssueToken(user.ID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	ctx.JSON(http.StatusOK, models.AuthResponse{User: *user, Token: token})
}

// Me is the handler for GET /api/v1/auth/me; requires AuthRequired.
func (c *AuthController) Me(ctx *gin.Context) {
	userID := ctx.GetString(userIDKey)
	user, err := c.authService.UserByID(userID)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Could not validate credentials"})
		return
	}
	ctx.JSON(http.StatusOK, user)
}

// AuthRequired validates the bearer token and stores the user ID in the
// request context.
func (c *AuthController) AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing bearer token"})
			return
		}
		userID, err := c.authService.VerifyToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Could not validate credentials"})
			return
		}
		ctx.Set(userIDKey, userID)
		ctx.Next()
	}
}
