package services

import (
	"context"
	"io"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"chat-directory-server/internal/apperror"
	"chat-directory-server/internal/logger"
	"chat-directory-server/internal/models"
	"chat-directory-server/internal/storage"
)

// MessageService handles direct messages, read state and conversations.
type MessageService struct {
	db     *gorm.DB
	images *storage.ImageStore
	log    *logger.Logger
}

func NewMessageService(db *gorm.DB, images *storage.ImageStore) *MessageService {
	return &MessageService{db: db, images: images, log: logger.New("messages")}
}

// Upload is an image attached to a message.
type Upload struct {
	FileName string
	Size     int64
	Body     io.Reader
}

// PostMessageInput describes a message to send. BaseURL is the scheme and
// host stored image URLs are built from.
type PostMessageInput struct {
	SenderID   uint   `validate:"required"`
	ReceiverID uint   `validate:"required"`
	Content    string `validate:"content"`
	Image      *Upload
	BaseURL    string
}

// PostMessage stores a message from sender to receiver, persisting an
// attached image first. Nothing is stored when validation fails.
func (s *MessageService) PostMessage(ctx context.Context, in PostMessageInput) (*models.Message, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var sender, receiver models.User
	if err := db.First(&sender, in.SenderID).Error; err != nil {
		return nil, notFoundOr(err, apperror.ErrSenderNotFound)
	}
	if err := db.First(&receiver, in.ReceiverID).Error; err != nil {
		return nil, notFoundOr(err, apperror.ErrReceiverNotFound)
	}

	message := models.Message{
		Content:    in.Content,
		SenderName: sender.Name,
		SenderID:   models.RefTo(sender.ID),
		ReceiverID: models.RefTo(receiver.ID),
		Timestamp:  time.Now(),
		IsRead:     false,
	}

	var imageName string
	if in.Image != nil {
		ext, err := s.images.Validate(in.Image.FileName, in.Image.Size)
		if err != nil {
			return nil, err
		}
		imageName, err = s.images.Save(in.Image.Body, ext)
		if err != nil {
			return nil, storageErr(err)
		}
		message.ImageURL = in.BaseURL + "/uploads/" + imageName
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		conv, err := upsertConversation(tx, sender.ID, receiver.ID, message.Timestamp)
		if err != nil {
			return err
		}
		message.ConversationID = models.RefTo(conv.ID)
		return tx.Create(&message).Error
	})
	if err != nil {
		if imageName != "" {
			if rmErr := s.images.Remove(imageName); rmErr != nil {
				s.log.Warn("failed to remove orphaned image %s: %v", imageName, rmErr)
			}
		}
		return nil, storageErr(err)
	}

	s.log.Debug("message %d from %d to %d stored", message.ID, sender.ID, receiver.ID)
	return &message, nil
}

func upsertConversation(tx *gorm.DB, a, b uint, at time.Time) (*models.Conversation, error) {
	user1, user2 := models.OrderedPair(a, b)
	var conv models.Conversation
	err := tx.Where("user1_id = ? AND user2_id = ?", user1, user2).
		Attrs(models.Conversation{User1ID: user1, User2ID: user2, LastMessageAt: at}).
		FirstOrCreate(&conv).Error
	if err != nil {
		return nil, err
	}
	if conv.LastMessageAt.Before(at) {
		if err := tx.Model(&conv).Update("last_message_at", at).Error; err != nil {
			return nil, err
		}
	}
	return &conv, nil
}

// GetMessages returns the most recent messages exchanged between the two
// users in either direction, newest first.
func (s *MessageService) GetMessages(ctx context.Context, userID, otherID uint) ([]models.Message, error) {
	messages := make([]models.Message, 0)
	err := s.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherID, otherID, userID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: true}).
		Limit(models.MessagePageSize).
		Find(&messages).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return messages, nil
}

type unreadRow struct {
	SenderID models.Ref
	Count    int64
}

// GetUnreadCount maps each sender id to the number of unread messages they
// sent to userID. Messages whose sender was deleted count under key 0.
func (s *MessageService) GetUnreadCount(ctx context.Context, userID uint) (map[uint]int64, error) {
	var rows []unreadRow
	err := s.db.WithContext(ctx).Model(&models.Message{}).
		Select("sender_id, COUNT(*) AS count").
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Group("sender_id").
		Scan(&rows).Error
	if err != nil {
		return nil, storageErr(err)
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.SenderID.OrZero()] += row.Count
	}
	return counts, nil
}

// MarkAsRead marks every unread message from senderID to userID as read and
// returns how many changed.
func (s *MessageService) MarkAsRead(ctx context.Context, userID, senderID uint) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND is_read = ?", userID, senderID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, storageErr(res.Error)
	}
	return res.RowsAffected, nil
}

// ListConversations returns the conversations userID takes part in, most
// recently active first.
func (s *MessageService) ListConversations(ctx context.Context, userID uint) ([]models.Conversation, error) {
	conversations := make([]models.Conversation, 0)
	err := s.db.WithContext(ctx).
		Preload("User1").Preload("User2").
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("last_message_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return conversations, nil
}

// OpenImage returns a stored upload by file name.
func (s *MessageService) OpenImage(name string) (*storage.Image, error) {
	img, err := s.images.Open(name)
	if err != nil {
		return nil, storageErr(err)
	}
	return img, nil
}
