package handlers

import (
	"chat-directory-server/internal/services"
	"chat-directory-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles name-based registration and login.
type AuthHandler struct {
	Users *services.UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{Users: users}
}

// RegisterRequest represents the request body for user registration.
type RegisterRequest struct {
	Name      string `json:"name" binding:"required"`
	SessionID string `json:"sessionId"`
}

// Register handles user registration. Names are unique, so a taken name
// answers with a conflict.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, err := h.Users.Register(c.Request.Context(), services.RegisterInput{
		Name:      req.Name,
		SessionID: req.SessionID,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.Created(c, "User registered successfully", user.WithSession())
}

// LoginRequest represents the request body for user login.
type LoginRequest struct {
	Name string `json:"name" binding:"required"`
}

// Login handles user login. There is no credential; the name identifies the user.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, err := h.Users.Login(c.Request.Context(), req.Name)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, "Login successful", user.WithSession())
}
