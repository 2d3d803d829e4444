package services

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"gorm.io/gorm"

	"chat-directory-server/internal/apperror"
	"chat-directory-server/internal/logger"
	"chat-directory-server/internal/models"
	"chat-directory-server/internal/storage"
	"chat-directory-server/internal/utils"
)

// UserService manages user identities, presence and deletion.
type UserService struct {
	db      *gorm.DB
	images  *storage.ImageStore
	newCode func() string
	log     *logger.Logger
}

// NewUserService creates a UserService. images may be nil, in which case
// uploads of deleted users are left on disk.
func NewUserService(db *gorm.DB, images *storage.ImageStore) *UserService {
	return &UserService{
		db:      db,
		images:  images,
		newCode: utils.RandomCode,
		log:     logger.New("users"),
	}
}

// RegisterInput carries a display name and an optional client session token.
type RegisterInput struct {
	Name      string `validate:"username"`
	SessionID string `validate:"max=100"`
}

func (in *RegisterInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.SessionID = strings.TrimSpace(in.SessionID)
}

// Enter re-identifies a returning client by session id, or registers a new
// user. created reports which of the two happened.
func (s *UserService) Enter(ctx context.Context, in RegisterInput) (user *models.User, created bool, err error) {
	in.normalize()
	if err := validateInput(in); err != nil {
		return nil, false, err
	}

	if in.SessionID != "" {
		var existing models.User
		err := s.db.WithContext(ctx).Where("session_id = ?", in.SessionID).First(&existing).Error
		if err == nil {
			if err := s.touch(ctx, &existing, true); err != nil {
				return nil, false, err
			}
			return &existing, false, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, storageErr(err)
		}
	}

	user, err = s.create(ctx, in)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// Register creates a user, failing with a conflict if the name is taken.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.normalize()
	if err := validateInput(in); err != nil {
		return nil, err
	}
	return s.create(ctx, in)
}

// Login finds a user by exact name and marks them online.
func (s *UserService) Login(ctx context.Context, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.InvalidArg("Name is required")
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&user).Error; err != nil {
		return nil, notFoundOr(err, apperror.ErrUserNotFound)
	}
	if err := s.touch(ctx, &user, true); err != nil {
		return nil, err
	}
	s.log.Debug("user %d logged in", user.ID)
	return &user, nil
}

// UpdateStatus sets the presence flag and refreshes lastSeen.
func (s *UserService) UpdateStatus(ctx context.Context, userID uint, isOnline bool) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.touch(ctx, user, isOnline); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser looks a user up by id.
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFoundOr(err, apperror.ErrUserNotFound)
	}
	return &user, nil
}

// GetUserByCode looks a user up by their friend-add code.
func (s *UserService) GetUserByCode(ctx context.Context, code string) (*models.User, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !utils.IsValidCode(code) {
		return nil, apperror.ErrUserNotFound
	}
	var user models.User
	if err := s.db.WithContext(ctx).Where("unique_code = ?", code).First(&user).Error; err != nil {
		return nil, notFoundOr(err, apperror.ErrUserNotFound)
	}
	return &user, nil
}

// ListUsers returns every user ordered by name.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&users).Error; err != nil {
		return nil, storageErr(err)
	}
	return users, nil
}

// DeleteUser removes the user together with their messages, friend requests
// and conversations in one transaction.
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	var imageURLs []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return notFoundOr(err, apperror.ErrUserNotFound)
		}

		if err := tx.Model(&models.Message{}).
			Where("(sender_id = ? OR receiver_id = ?) AND image_url <> ''", id, id).
			Pluck("image_url", &imageURLs).Error; err != nil {
			return err
		}
		if err := tx.Where("sender_id = ? OR receiver_id = ?", id, id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("sender_id = ? OR receiver_id = ?", id, id).Delete(&models.FriendRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user1_id = ? OR user2_id = ?", id, id).Delete(&models.Conversation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return storageErr(err)
	}

	s.log.Info("deleted user %d", id)
	if s.images != nil {
		for _, u := range imageURLs {
			if err := s.images.Remove(path.Base(u)); err != nil {
				s.log.Warn("failed to remove image %s of deleted user %d: %v", u, id, err)
			}
		}
	}
	return nil
}

// GenerateUniqueCode draws codes until one is not assigned to any user. The
// result can still collide with a concurrent registration; create handles
// that through the unique index.
func (s *UserService) GenerateUniqueCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := s.newCode()
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.User{}).Where("unique_code = ?", code).Count(&count).Error; err != nil {
			return "", storageErr(err)
		}
		if count == 0 {
			return code, nil
		}
		s.log.Debug("user code %s already taken, retrying", code)
	}
	return "", apperror.ErrUniqueCodeExhausted
}

func (s *UserService) create(ctx context.Context, in RegisterInput) (*models.User, error) {
	taken, err := s.nameTaken(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.ErrNameTaken
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.GenerateUniqueCode(ctx)
		if err != nil {
			return nil, err
		}
		now := time.Now()
		user := models.User{
			Name:       in.Name,
			SessionID:  in.SessionID,
			UniqueCode: code,
			IsOnline:   true,
			LastSeen:   now,
		}
		err = s.db.WithContext(ctx).Create(&user).Error
		if err == nil {
			s.log.Info("registered user %d (%s) with code %s", user.ID, user.Name, user.UniqueCode)
			return &user, nil
		}
		if !isUniqueViolation(err) {
			return nil, storageErr(err)
		}
		// Either the name or the code lost a race; only the code is retryable.
		if taken, nameErr := s.nameTaken(ctx, in.Name); nameErr != nil {
			return nil, nameErr
		} else if taken {
			return nil, apperror.ErrNameTaken
		}
		s.log.Warn("user code %s collided on insert, retrying", code)
	}
	return nil, apperror.ErrUniqueCodeExhausted
}

func (s *UserService) nameTaken(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, storageErr(err)
	}
	return count > 0, nil
}

func (s *UserService) touch(ctx context.Context, user *models.User, isOnline bool) error {
	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{"is_online": isOnline, "last_seen": now}).Error; err != nil {
		return storageErr(err)
	}
	user.IsOnline = isOnline
	user.LastSeen = now
	return nil
}
