package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"chat-directory-server/internal/utils"
)

// parseIDParam reads a positive numeric path parameter. On failure it
// writes a BadRequest response and returns false.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.BadRequest(c, "Invalid "+name+" format")
		return 0, false
	}
	return uint(id), true
}

// userQuery is the common ?userId= query.
type userQuery struct {
	UserID uint `form:"userId" binding:"required"`
}
