package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-directory-server/internal/apperror"
	"chat-directory-server/internal/models"
	"chat-directory-server/internal/utils"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t, 1024)
	ctx := context.Background()

	alice, err := env.users.Register(ctx, RegisterInput{Name: "  Alice "})
	require.NoError(t, err)
	assert.NotZero(t, alice.ID)
	assert.Equal(t, "Alice", alice.Name)
	assert.True(t, utils.IsValidCode(alice.UniqueCode))
	assert.NotEmpty(t, alice.SessionID)
	assert.True(t, alice.IsOnline)

	bob, err := env.users.Register(ctx, RegisterInput{Name: "Bob", SessionID: "bob-session"})
	require.NoError(t, err)
	assert.NotEqual(t, alice.UniqueCode, bob.UniqueCode)
	assert.Equal(t, "bob-session", bob.SessionID)

	_, err = env.users.Register(ctx, RegisterInput{Name: "Alice"})
	assert.ErrorIs(t, err, apperror.ErrNameTaken)
	assert.Equal(t, int64(2), env.count(t, &models.User{}))
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t, 1024)
	ctx := context.Background()

	for _, name := range []string{"", "   ", strings.Repeat("x", models.MaxNameLength+1)} {
		_, err := env.users.Register(ctx, RegisterInput{Name: name})
		assert.Equal(t, apperror.CodeInvalidArgument, apperror.CodeOf(err), "name %q", name)
	}

	_, err := env.users.Register(ctx, RegisterInput{Name: strings.Repeat("x", models.MaxNameLength+1)})
	assert.EqualError(t, err, "Name must be at most 50 characters")

	_, err = env.users.Register(ctx, RegisterInput{Name: strings.Repeat("é", models.MaxNameLength)})
	assert.NoError(t, err, "length is counted in characters")
}

func TestEnterBySession(t *testing.T) {
	env := newTestEnv(t, 1024)
	ctx := context.Background()

	first, created, err := env.users.Enter(ctx, RegisterInput{Name: "Alice", SessionID: "s-1"})
	require.NoError(t, err)
	assert.True(t, created)

	_, err = env.users.UpdateStatus(ctx, first.ID, false)
	require.NoError(t, err)

	again, created, err := env.users.Enter(ctx, RegisterInput{Name: "Whatever", SessionID: "s-1"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "Alice", again.Name)
	assert.True(t, again.IsOnline)
	assert.Equal(t, int64(1), env.count(t, &models.User{}))

	_, _, err = env.users.Enter(ctx, RegisterInput{Name: "Alice", SessionID: "s-2"})
	assert.ErrorIs(t, err, apperror.ErrNameTaken)

	fresh, created, err := env.users.Enter(ctx, RegisterInput{Name: "Carol"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, fresh.SessionID)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t, 1024)
	ctx := context.Background()

	alice := env.register(t, "Alice")
	_, err := env.users.UpdateStatus(ctx, alice.ID, false)
	require.NoError(t, err)
	before, err := env.users.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	require.False(t, before.IsOnline)

	time.Sleep(5 * time.Millisecond)
	u, err := env.users.Login(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, u.ID)
	assert.True(t, u.IsOnline)

	stored, err := env.users.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsOnline)
	assert.True(t, stored.LastSeen.After(before.LastSeen))

	_, err = env.users.Login(ctx, "Nobody")
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)

	_, err = env.users.Login(ctx, " ")
	assert.Equal(t, apperror.CodeInvalidArgument, apperror.CodeOf(err))
}

func TestUpdateStatusUnknownUser(t *testing.T) {
	env := newTestEnv(t, 1024)
	_, err := env.users.UpdateStatus(context.Background(), 404, true)
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
}

func TestLookups(t *testing.T) {
	env := newTestEnv(t, 1024)
	ctx := context.Background()

	carol := env.register(t, "carol")
	env.register(t, "Alice")
	env.register(t, "bob")

	byID, err := env.users.GetUser(ctx, carol.ID)
	require.NoError(t, err)
	assert.Equal(t, "carol", byID.Name)

	byCode, err := env.users.GetUserByCode(ctx, carol.UniqueCode)
	require.NoError(t, err)
	assert.Equal(t, carol.ID, byCode.ID)

	_, err = env.users.GetUser(ctx, 999)
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
	_, err = env.users.GetUserByCode(ctx, "ZZZZZZ")
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
	_, err = env.users.GetUserByCode(ctx, "../etc")
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)

	users, err := env.users.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "Alice", users[0].Name)
	for i := 1; i < len(users); i++ {
		assert.LessOrEqual(t, users[i-1].Name, users[i].Name)
	}
}

func TestGenerateUniqueCodeSkipsTakenCodes(t *testing.T) {
	env := newTestEnv(t, 1024)
	ctx := context.Background()

	seeded := []string{"AAAAAA", "BBBBBB", "CCCCCC"}
	for i, code := range seeded {
		require.NoError(t, env.db.Create(&models.User{
			Name:       string(rune('a' + i)),
			UniqueCode: code,
		}).Error)
	}

	env.users.newCode = sequence("AAAAAA", "CCCCCC", "BBBBBB", "Q1W2E3")
	code, err := env.users.GenerateUniqueCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Q1W2E3", code)
	assert.NotContains(t, seeded, code)

	env.users.newCode = sequence("Q1W2E3", "AAAAAA")
	u, err := env.users.Register(ctx, RegisterInput{Name: "dave"})
	require.NoError(t, err)
	assert.Equal(t, "Q1W2E3", u.UniqueCode)
}

func TestGenerateUniqueCodeGivesUp(t *testing.T) {
	env := newTestEnv(t, 1024)
	require.NoError(t, env.db.Create(&models.User{Name: "a", UniqueCode: "AAAAAA"}).Error)

	env.users.newCode = sequence("AAAAAA")
	_, err := env.users.GenerateUniqueCode(context.Background())
	assert.ErrorIs(t, err, apperror.ErrUniqueCodeExhausted)

	_, err = env.users.Register(context.Background(), RegisterInput{Name: "b"})
	assert.ErrorIs(t, err, apperror.ErrUniqueCodeExhausted)
	assert.Equal(t, int64(1), env.count(t, &models.User{}))
}

func TestUniqueCodesStayUnique(t *testing.T) {
	env := newTestEnv(t, 1024)
	seen := make(map[string]bool)
	for i := 0; i < 40; i++ {
		u := env.register(t, "user-"+string(rune('A'+i)))
		assert.False(t, seen[u.UniqueCode], u.UniqueCode)
		seen[u.UniqueCode] = true
	}
}

func TestDeleteUserCascades(t *testing.T) {
	env := newTestEnv(t, 1024)
	ctx := context.Background()

	alice := env.register(t, "Alice")
	bob := env.register(t, "Bob")
	carol := env.register(t, "Carol")

	env.send(t, alice, bob, "hi bob")
	env.send(t, bob, alice, "hi alice")
	env.send(t, bob, carol, "hi carol")
	_, err := env.friends.SendFriendRequest(ctx, FriendRequestInput{SenderID: alice.ID, ReceiverID: bob.ID})
	require.NoError(t, err)
	_, err = env.friends.SendFriendRequest(ctx, FriendRequestInput{SenderID: carol.ID, ReceiverID: alice.ID})
	require.NoError(t, err)

	require.NoError(t, env.users.DeleteUser(ctx, alice.ID))

	_, err = env.users.GetUser(ctx, alice.ID)
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)

	var refs int64
	require.NoError(t, env.db.Model(&models.Message{}).
		Where("sender_id = ? OR receiver_id = ?", alice.ID, alice.ID).Count(&refs).Error)
	assert.Zero(t, refs)
	require.NoError(t, env.db.Model(&models.FriendRequest{}).
		Where("sender_id = ? OR receiver_id = ?", alice.ID, alice.ID).Count(&refs).Error)
	assert.Zero(t, refs)
	require.NoError(t, env.db.Model(&models.Conversation{}).
		Where("user1_id = ? OR user2_id = ?", alice.ID, alice.ID).Count(&refs).Error)
	assert.Zero(t, refs)

	// Unrelated rows survive.
	assert.Equal(t, int64(1), env.count(t, &models.Message{}))
	assert.Equal(t, int64(1), env.count(t, &models.Conversation{}))

	err = env.users.DeleteUser(ctx, alice.ID)
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
}
