package handlers

import (
	"chat-directory-server/internal/services"
	"chat-directory-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// FriendHandler handles friend requests and friend lists.
type FriendHandler struct {
	Friends *services.FriendService
}

// NewFriendHandler creates a new FriendHandler.
func NewFriendHandler(friends *services.FriendService) *FriendHandler {
	return &FriendHandler{Friends: friends}
}

// GetFriends handles listing the accepted friends of a user.
func (h *FriendHandler) GetFriends(c *gin.Context) {
	var q userQuery
	if !utils.BindQuery(c, &q) {
		return
	}

	friends, err := h.Friends.ListFriends(c.Request.Context(), q.UserID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Friends fetched successfully", friends)
}

// GetFriendRequests handles listing the requests waiting on a user.
func (h *FriendHandler) GetFriendRequests(c *gin.Context) {
	var q userQuery
	if !utils.BindQuery(c, &q) {
		return
	}

	requests, err := h.Friends.ListPendingRequests(c.Request.Context(), q.UserID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Friend requests fetched successfully", requests)
}

// SendFriendRequestRequest represents the request body for a friend request.
type SendFriendRequestRequest struct {
	SenderID   *uint `json:"senderId" binding:"required"`
	ReceiverID *uint `json:"receiverId" binding:"required"`
}

// SendFriendRequest handles creating a pending friend request.
func (h *FriendHandler) SendFriendRequest(c *gin.Context) {
	var req SendFriendRequestRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	request, err := h.Friends.SendFriendRequest(c.Request.Context(), services.FriendRequestInput{
		SenderID:   *req.SenderID,
		ReceiverID: *req.ReceiverID,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Friend request sent successfully", request)
}

// AcceptFriendRequest handles accepting a friend request.
func (h *FriendHandler) AcceptFriendRequest(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.Friends.AcceptFriendRequest(c.Request.Context(), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Friend request accepted", nil)
}

// RejectFriendRequest handles rejecting a friend request.
func (h *FriendHandler) RejectFriendRequest(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.Friends.RejectFriendRequest(c.Request.Context(), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Friend request rejected", nil)
}
