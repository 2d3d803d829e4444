package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDBMigratesSchema(t *testing.T) {
	db, err := InitDB(DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)

	for _, table := range []interface{}{&User{}, &Message{}, &Conversation{}, &FriendRequest{}} {
		assert.True(t, db.Migrator().HasTable(table))
	}
	assert.True(t, db.Migrator().HasIndex(&User{}, "UniqueCode"))
	assert.True(t, db.Migrator().HasIndex(&FriendRequest{}, "idx_friend_pair"))
}

func TestInitDBRejectsUnknownDriver(t *testing.T) {
	_, err := InitDB(DatabaseConfig{Driver: "oracle", DSN: "x"})
	assert.Error(t, err)
}

func TestUserSessionView(t *testing.T) {
	u := User{Name: "alice", SessionID: "s-1", UniqueCode: "ABC123"}

	plain, err := jsonString(u)
	require.NoError(t, err)
	assert.NotContains(t, plain, "s-1")

	withSession, err := jsonString(u.WithSession())
	require.NoError(t, err)
	assert.Contains(t, withSession, `"sessionId":"s-1"`)
	assert.Contains(t, withSession, `"name":"alice"`)
}

func TestOrderedPair(t *testing.T) {
	a, b := OrderedPair(9, 4)
	assert.Equal(t, uint(4), a)
	assert.Equal(t, uint(9), b)
}
