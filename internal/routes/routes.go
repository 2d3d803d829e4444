package routes

import (
	"chat-directory-server/internal/config"
	"chat-directory-server/internal/handlers"
	"chat-directory-server/internal/middleware"
	"chat-directory-server/internal/services"
	"chat-directory-server/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// multipartSlack is the allowance for form fields and multipart framing on
// top of the image size limit.
const multipartSlack = 1 << 20

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, images *storage.ImageStore) {
	userService := services.NewUserService(db, images)
	messageService := services.NewMessageService(db, images)
	friendService := services.NewFriendService(db)

	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	messageHandler := handlers.NewMessageHandler(messageService, cfg.PublicBaseURL)
	friendHandler := handlers.NewFriendHandler(friendService)

	// Uploaded images are referenced by absolute URL from messages.
	router.Static("/uploads", images.Dir())

	api := router.Group("/api/chat")
	api.Use(middleware.LimitBody(cfg.Upload.MaxBytes + multipartSlack))
	{
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		api.GET("/users", userHandler.GetUsers)
		api.POST("/user", userHandler.CreateUser)
		api.GET("/user/:id", userHandler.GetUserByID)
		api.GET("/user/by-code/:code", userHandler.GetUserByCode)
		api.POST("/user/update-status", userHandler.UpdateStatus)
		api.DELETE("/user/:id", userHandler.DeleteUser)

		api.GET("/messages", messageHandler.GetMessages)
		api.GET("/unread-count", messageHandler.GetUnreadCount)
		api.POST("/message", messageHandler.PostMessage)
		api.POST("/mark-read", messageHandler.MarkAsRead)
		api.GET("/conversations", messageHandler.GetConversations)
		api.GET("/images/:fileName", messageHandler.GetImage)

		api.GET("/friends", friendHandler.GetFriends)
		api.GET("/friend-requests", friendHandler.GetFriendRequests)
		api.POST("/friend-request", friendHandler.SendFriendRequest)
		api.POST("/friend-request/:id/accept", friendHandler.AcceptFriendRequest)
		api.POST("/friend-request/:id/reject", friendHandler.RejectFriendRequest)
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
