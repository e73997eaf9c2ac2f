package model

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"artfolio/backend/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "artfolio-model-test")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	common.SQLitePath = filepath.Join(dir, "test.db")
	common.RedisEnabled = false
	common.RDB = nil
	if err := InitDB(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestRootAccountBootstrap(t *testing.T) {
	root, err := GetUserByUsername("root")
	require.NoError(t, err)
	assert.Equal(t, common.RoleRootUser, root.Role)
	assert.True(t, common.ValidatePasswordAndHash("123456", root.Password))
	assert.NotEmpty(t, root.Token)
}

func TestUserInsertAndValidate(t *testing.T) {
	user := User{Username: "validate_me", Password: "secret-password", Status: common.UserStatusEnabled, Role: common.RoleCommonUser}
	require.NoError(t, user.Insert())
	assert.NotEqual(t, "secret-password", user.Password, "password must be stored hashed")

	login := User{Username: "validate_me", Password: "secret-password"}
	require.NoError(t, login.ValidateAndFill())
	assert.Equal(t, user.Id, login.Id)

	bad := User{Username: "validate_me", Password: "wrong"}
	assert.Error(t, bad.ValidateAndFill())
}

func TestValidateUserToken(t *testing.T) {
	user := User{Username: "token_user", Password: "secret-password", Status: common.UserStatusEnabled, Role: common.RoleCommonUser}
	require.NoError(t, user.Insert())

	found := ValidateUserToken(user.Token)
	require.NotNil(t, found)
	assert.Equal(t, user.Id, found.Id)

	assert.Nil(t, ValidateUserToken("no-such-token"))
	assert.Nil(t, ValidateUserToken(""))
}

func TestOptionRoundTrip(t *testing.T) {
	require.NoError(t, UpdateOption(common.OptionStorageQuotaMB, "42"))
	assert.Equal(t, 42, GetIntOption(common.OptionStorageQuotaMB))

	// Persisted value survives a map reload.
	require.NoError(t, InitOptionMap())
	assert.Equal(t, 42, GetIntOption(common.OptionStorageQuotaMB))
}

func TestToggleLikeAndFollow(t *testing.T) {
	owner := User{Username: "like_owner", Password: "secret-password", Status: common.UserStatusEnabled}
	require.NoError(t, owner.Insert())
	fan := User{Username: "like_fan", Password: "secret-password", Status: common.UserStatusEnabled}
	require.NoError(t, fan.Insert())

	project := Project{Title: "likeable", OwnerId: owner.Id, IsPublished: true}
	require.NoError(t, DB.Create(&project).Error)

	liked, err := ToggleLike(fan.Id, project.Id)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), CountLikes(project.Id))

	liked, err = ToggleLike(fan.Id, project.Id)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, int64(0), CountLikes(project.Id))

	following, err := ToggleFollow(fan.Id, owner.Id)
	require.NoError(t, err)
	assert.True(t, following)
	assert.True(t, IsFollowing(fan.Id, owner.Id))
	assert.Equal(t, int64(1), CountFollowers(owner.Id))

	following, err = ToggleFollow(fan.Id, owner.Id)
	require.NoError(t, err)
	assert.False(t, following)
	assert.False(t, IsFollowing(fan.Id, owner.Id))
}

func TestConversationMarksRead(t *testing.T) {
	a := User{Username: "conv_a", Password: "secret-password", Status: common.UserStatusEnabled}
	require.NoError(t, a.Insert())
	b := User{Username: "conv_b", Password: "secret-password", Status: common.UserStatusEnabled}
	require.NoError(t, b.Insert())

	require.NoError(t, DB.Create(&Message{SenderId: a.Id, RecipientId: b.Id, Body: "first"}).Error)
	require.NoError(t, DB.Create(&Message{SenderId: b.Id, RecipientId: a.Id, Body: "second"}).Error)

	messages, err := GetConversation(b.Id, a.Id, 50)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "first", messages[0].Body)
	assert.Equal(t, "second", messages[1].Body)

	var unread int64
	DB.Model(&Message{}).Where("recipient_id = ? AND is_read = ?", b.Id, false).Count(&unread)
	assert.Equal(t, int64(0), unread)
}

func TestStorageSettingsUpsert(t *testing.T) {
	user := User{Username: "quota_user", Password: "secret-password", Status: common.UserStatusEnabled}
	require.NoError(t, user.Insert())

	_, err := GetStorageSettings(user.Id)
	assert.Error(t, err, "no settings row until an override is set")

	q := 250
	require.NoError(t, SetStorageQuota(user.Id, &q))
	settings, err := GetStorageSettings(user.Id)
	require.NoError(t, err)
	require.NotNil(t, settings.QuotaMB)
	assert.Equal(t, 250, *settings.QuotaMB)

	require.NoError(t, SetStorageQuota(user.Id, nil))
	settings, err = GetStorageSettings(user.Id)
	require.NoError(t, err)
	assert.Nil(t, settings.QuotaMB)
}

func TestRequestLogRecordAndPurge(t *testing.T) {
	if _, err := GetRequestLogThing(); err != nil {
		t.Skip("request log store unavailable")
	}

	_, err := PurgeRequestLogs(0)
	require.NoError(t, err)

	now := time.Now().Unix()
	RecordRequestLog(&RequestLog{Method: "GET", Path: "/api/gallery", Status: 200, LoggedAt: now})
	RecordRequestLog(&RequestLog{Method: "GET", Path: "/api/status", Status: 200, LoggedAt: now - 90*24*3600})

	logs, err := AllRequestLogs()
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	// Purge only the old entry.
	removed, err := PurgeRequestLogs(now - 30*24*3600)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	logs, err = AllRequestLogs()
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "/api/gallery", logs[0].Path)

	removed, err = PurgeRequestLogs(0)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}
