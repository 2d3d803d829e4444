package services

import (
	"context"

	"gorm.io/gorm"

	"chat-directory-server/internal/apperror"
	"chat-directory-server/internal/logger"
	"chat-directory-server/internal/models"
)

// FriendService manages friend requests and the friend graph derived from them.
type FriendService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFriendService(db *gorm.DB) *FriendService {
	return &FriendService{db: db, log: logger.New("friends")}
}

// ListFriends returns the other party of every accepted request involving
// userID, ordered by name.
func (s *FriendService) ListFriends(ctx context.Context, userID uint) ([]models.User, error) {
	friends := make([]models.User, 0)
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Select("users.*").
		Joins("JOIN friend_requests ON (friend_requests.sender_id = ? AND friend_requests.receiver_id = users.id) OR (friend_requests.receiver_id = ? AND friend_requests.sender_id = users.id)",
			userID, userID).
		Where("friend_requests.status = ?", models.FriendRequestAccepted).
		Order("users.name ASC").
		Find(&friends).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return friends, nil
}

// ListPendingRequests returns requests waiting on userID, newest first.
func (s *FriendService) ListPendingRequests(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	requests := make([]models.FriendRequest, 0)
	err := s.db.WithContext(ctx).
		Preload("Sender").Preload("Receiver").
		Where("receiver_id = ? AND status = ?", userID, models.FriendRequestPending).
		Order("created_at DESC").Order("id DESC").
		Find(&requests).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return requests, nil
}

// FriendRequestInput names both parties of a new request.
type FriendRequestInput struct {
	SenderID   uint `validate:"required"`
	ReceiverID uint `validate:"required"`
}

// SendFriendRequest creates a pending request. It fails if any request
// already exists between the two users, in either direction.
func (s *FriendService) SendFriendRequest(ctx context.Context, in FriendRequestInput) (*models.FriendRequest, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if in.SenderID == in.ReceiverID {
		return nil, apperror.ErrSelfFriendRequest
	}

	var request models.FriendRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.FriendRequest{}).
			Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
				in.SenderID, in.ReceiverID, in.ReceiverID, in.SenderID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return apperror.ErrFriendRequestExists
		}

		var sender, receiver models.User
		if err := tx.First(&sender, in.SenderID).Error; err != nil {
			return notFoundOr(err, apperror.ErrSenderNotFound)
		}
		if err := tx.First(&receiver, in.ReceiverID).Error; err != nil {
			return notFoundOr(err, apperror.ErrReceiverNotFound)
		}

		request = models.FriendRequest{
			SenderID:   sender.ID,
			ReceiverID: receiver.ID,
			Status:     models.FriendRequestPending,
		}
		if err := tx.Create(&request).Error; err != nil {
			if isUniqueViolation(err) {
				return apperror.ErrFriendRequestExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, storageErr(err)
	}

	s.log.Debug("friend request %d from %d to %d", request.ID, request.SenderID, request.ReceiverID)
	return &request, nil
}

// AcceptFriendRequest marks the request accepted.
func (s *FriendService) AcceptFriendRequest(ctx context.Context, id uint) (*models.FriendRequest, error) {
	return s.setStatus(ctx, id, models.FriendRequestAccepted)
}

// RejectFriendRequest marks the request rejected.
func (s *FriendService) RejectFriendRequest(ctx context.Context, id uint) (*models.FriendRequest, error) {
	return s.setStatus(ctx, id, models.FriendRequestRejected)
}

// setStatus applies status regardless of the current one, so repeating an
// accept or reject is harmless.
func (s *FriendService) setStatus(ctx context.Context, id uint, status models.FriendRequestStatus) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, id).Error; err != nil {
			return notFoundOr(err, apperror.ErrFriendRequestNotFound)
		}
		if err := tx.Model(&request).Update("status", status).Error; err != nil {
			return err
		}
		request.Status = status
		return nil
	})
	if err != nil {
		return nil, storageErr(err)
	}
	s.log.Debug("friend request %d is now %s", id, status)
	return &request, nil
}
