package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-directory-server/internal/apperror"
	"chat-directory-server/internal/logger"
)

var log = logger.New("http")

// ResponseData represents the structure of a standard API response.
type ResponseData struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success sends a standard success response.
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, ResponseData{
		Status:  http.StatusOK,
		Message: message,
		Data:    data,
	})
}

// Created sends a standard resource created response.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, ResponseData{
		Status:  http.StatusCreated,
		Message: message,
		Data:    data,
	})
}

// Error sends a standard error response.
func Error(c *gin.Context, statusCode int, errorMessage string) {
	c.JSON(statusCode, ResponseData{
		Status:  statusCode,
		Message: "An error occurred",
		Error:   errorMessage,
	})
}

// BadRequest sends a 400 Bad Request error response.
func BadRequest(c *gin.Context, errorMessage string) {
	Error(c, http.StatusBadRequest, errorMessage)
}

// NotFound sends a 404 Not Found error response.
func NotFound(c *gin.Context, errorMessage string) {
	Error(c, http.StatusNotFound, errorMessage)
}

// InternalServerError sends a 500 Internal Server Error response.
func InternalServerError(c *gin.Context, errorMessage string) {
	Error(c, http.StatusInternalServerError, errorMessage)
}

// Conflict sends a 409 Conflict error response.
func Conflict(c *gin.Context, errorMessage string) {
	Error(c, http.StatusConflict, errorMessage)
}

// RespondError maps a service error onto the response envelope. Messages of
// internal errors are replaced so storage details never reach the client.
func RespondError(c *gin.Context, err error) {
	switch apperror.CodeOf(err) {
	case apperror.CodeInvalidArgument:
		BadRequest(c, apperror.MessageOf(err))
	case apperror.CodeNotFound:
		NotFound(c, apperror.MessageOf(err))
	case apperror.CodeAlreadyExists:
		Conflict(c, apperror.MessageOf(err))
	default:
		log.Error("%s %s: %+v", c.Request.Method, c.FullPath(), err)
		InternalServerError(c, "Internal server error")
	}
}
