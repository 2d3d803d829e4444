// Package services implements the chat directory operations on top of gorm.
// Every method takes the request context, runs its statements against the
// injected handle and returns apperror values.
package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"chat-directory-server/internal/apperror"
	"chat-directory-server/internal/models"
	"chat-directory-server/internal/utils"
)

// maxCodeAttempts caps both the pre-insert collision check and the
// insert-and-retry loop for user codes.
const maxCodeAttempts = 10

func init() {
	utils.RegisterAlias("username", fmt.Sprintf("required,max=%d", models.MaxNameLength))
	utils.RegisterAlias("content", fmt.Sprintf("max=%d", models.MaxContentLength))
}

func validateInput(in interface{}) error {
	if err := utils.Validate(in); err != nil {
		return apperror.InvalidArg(utils.FormatValidationError(err))
	}
	return nil
}

// storageErr passes AppErrors through and wraps anything else.
func storageErr(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.ErrStorage(err)
}

func notFoundOr(err error, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return storageErr(err)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}
