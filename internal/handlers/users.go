package handlers

import (
	"chat-directory-server/internal/services"
	"chat-directory-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// UserHandler handles user directory requests.
type UserHandler struct {
	Users *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{Users: users}
}

// CreateUserRequest represents the request body for entering the chat.
type CreateUserRequest struct {
	Name      string `json:"name" binding:"required"`
	SessionID string `json:"sessionId"`
}

// CreateUser returns the user owning the supplied session, or registers a
// new one.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, created, err := h.Users.Enter(c.Request.Context(), services.RegisterInput{
		Name:      req.Name,
		SessionID: req.SessionID,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	if created {
		utils.Created(c, "User created successfully", user.WithSession())
		return
	}
	utils.Success(c, "Welcome back", user.WithSession())
}

// GetUsers handles fetching all users ordered by name.
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.Users.ListUsers(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Users fetched successfully", users)
}

// GetUserByID handles fetching a single user by ID.
func (h *UserHandler) GetUserByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.Users.GetUser(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "User fetched successfully", user)
}

// GetUserByCode handles fetching a user by their friend-add code.
func (h *UserHandler) GetUserByCode(c *gin.Context) {
	user, err := h.Users.GetUserByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "User fetched successfully", user)
}

// UpdateStatusRequest represents the request body for a presence update.
type UpdateStatusRequest struct {
	UserID   *uint `json:"userId" binding:"required"`
	IsOnline bool  `json:"isOnline"`
}

// UpdateStatus handles presence updates.
func (h *UserHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if _, err := h.Users.UpdateStatus(c.Request.Context(), *req.UserID, req.IsOnline); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Status updated successfully", nil)
}

// DeleteUser handles deleting a user and everything that references them.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.Users.DeleteUser(c.Request.Context(), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "User deleted successfully", nil)
}
