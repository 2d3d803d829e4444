package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"chat-directory-server/internal/models"
	"chat-directory-server/internal/storage"
)

var testExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp"}

type testEnv struct {
	db       *gorm.DB
	images   *storage.ImageStore
	users    *UserService
	messages *MessageService
	friends  *FriendService
}

func newTestEnv(t *testing.T, maxUploadBytes int64) *testEnv {
	t.Helper()
	db, err := models.InitDB(models.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      ":memory:",
		LogLevel: gormlogger.Silent,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	images, err := storage.NewImageStore(filepath.Join(t.TempDir(), "uploads"), maxUploadBytes, testExtensions)
	require.NoError(t, err)

	return &testEnv{
		db:       db,
		images:   images,
		users:    NewUserService(db, images),
		messages: NewMessageService(db, images),
		friends:  NewFriendService(db),
	}
}

func (e *testEnv) register(t *testing.T, name string) *models.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), RegisterInput{Name: name})
	require.NoError(t, err)
	return u
}

func (e *testEnv) send(t *testing.T, from, to *models.User, content string) *models.Message {
	t.Helper()
	m, err := e.messages.PostMessage(context.Background(), PostMessageInput{
		SenderID:   from.ID,
		ReceiverID: to.ID,
		Content:    content,
		BaseURL:    "http://chat.test",
	})
	require.NoError(t, err)
	return m
}

func (e *testEnv) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

// sequence returns a code generator that yields codes in order and then
// repeats the last one.
func sequence(codes ...string) func() string {
	i := 0
	return func() string {
		c := codes[i]
		if i < len(codes)-1 {
			i++
		}
		return c
	}
}
