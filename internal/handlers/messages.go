package handlers

import (
	"errors"
	"net/http"

	"chat-directory-server/internal/apperror"
	"chat-directory-server/internal/services"
	"chat-directory-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// MessageHandler handles messaging related requests.
type MessageHandler struct {
	Messages *services.MessageService
	// PublicBaseURL overrides the request scheme and host in image URLs.
	PublicBaseURL string
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messages *services.MessageService, publicBaseURL string) *MessageHandler {
	return &MessageHandler{Messages: messages, PublicBaseURL: publicBaseURL}
}

type conversationQuery struct {
	UserID  uint `form:"userId" binding:"required"`
	OtherID uint `form:"otherId" binding:"required"`
}

// GetMessages handles fetching the latest messages between two users.
func (h *MessageHandler) GetMessages(c *gin.Context) {
	var q conversationQuery
	if !utils.BindQuery(c, &q) {
		return
	}

	messages, err := h.Messages.GetMessages(c.Request.Context(), q.UserID, q.OtherID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Messages fetched successfully", messages)
}

// GetUnreadCount handles fetching unread counts per sender.
func (h *MessageHandler) GetUnreadCount(c *gin.Context) {
	var q userQuery
	if !utils.BindQuery(c, &q) {
		return
	}

	counts, err := h.Messages.GetUnreadCount(c.Request.Context(), q.UserID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Unread counts fetched successfully", counts)
}

// PostMessageForm represents the multipart form for sending a message.
// The optional image travels in the "image" file field.
type PostMessageForm struct {
	SenderID   uint   `form:"senderId" json:"senderId" binding:"required"`
	ReceiverID uint   `form:"receiverId" json:"receiverId" binding:"required"`
	Content    string `form:"content" json:"content"`
}

// PostMessage handles sending a new message, optionally with an image.
func (h *MessageHandler) PostMessage(c *gin.Context) {
	var form PostMessageForm
	if err := c.ShouldBind(&form); err != nil {
		if bodyTooLarge(err) {
			utils.RespondError(c, apperror.ErrImageTooLarge)
			return
		}
		utils.BadRequest(c, "Invalid sender or receiver: "+utils.FormatValidationError(err))
		return
	}

	in := services.PostMessageInput{
		SenderID:   form.SenderID,
		ReceiverID: form.ReceiverID,
		Content:    form.Content,
		BaseURL:    h.baseURL(c),
	}

	header, err := c.FormFile("image")
	switch {
	case err == nil && header.Size > 0:
		file, err := header.Open()
		if err != nil {
			utils.BadRequest(c, "Error reading image from form: "+err.Error())
			return
		}
		defer file.Close()
		in.Image = &services.Upload{FileName: header.Filename, Size: header.Size, Body: file}
	case err == nil, errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case bodyTooLarge(err):
		utils.RespondError(c, apperror.ErrImageTooLarge)
		return
	default:
		utils.BadRequest(c, "Error retrieving image from form: "+err.Error())
		return
	}

	message, err := h.Messages.PostMessage(c.Request.Context(), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Message sent successfully", message)
}

// baseURL is PUBLIC_BASE_URL when configured. Otherwise it is taken from the
// connection itself; forwarding headers are ignored, so deployments behind a
// proxy set PUBLIC_BASE_URL.
func (h *MessageHandler) baseURL(c *gin.Context) string {
	if h.PublicBaseURL != "" {
		return h.PublicBaseURL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

func bodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// MarkReadRequest represents the request body for marking messages read.
type MarkReadRequest struct {
	UserID   *uint `json:"userId" binding:"required"`
	SenderID *uint `json:"senderId" binding:"required"`
}

// MarkAsRead handles marking every unread message from one sender as read.
func (h *MessageHandler) MarkAsRead(c *gin.Context) {
	var req MarkReadRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	updated, err := h.Messages.MarkAsRead(c.Request.Context(), *req.UserID, *req.SenderID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Messages marked as read", gin.H{"updated": updated})
}

// GetConversations handles listing the conversations of a user.
func (h *MessageHandler) GetConversations(c *gin.Context) {
	var q userQuery
	if !utils.BindQuery(c, &q) {
		return
	}

	conversations, err := h.Messages.ListConversations(c.Request.Context(), q.UserID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Conversations fetched successfully", conversations)
}

// GetImage serves a stored upload with its sniffed content type.
func (h *MessageHandler) GetImage(c *gin.Context) {
	img, err := h.Messages.OpenImage(c.Param("fileName"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	defer img.File.Close()

	c.DataFromReader(http.StatusOK, img.Size, img.ContentType, img.File, nil)
}
