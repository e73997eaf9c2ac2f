package service

import (
	"path/filepath"
	"strconv"
	"testing"

	"artfolio/backend/common"
	"artfolio/backend/library/imaging"
	"artfolio/backend/library/storage"
	"artfolio/backend/library/tasks"
	"artfolio/backend/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mb = int64(1024 * 1024)

func setupServiceTest(t *testing.T) {
	t.Helper()
	common.SQLitePath = filepath.Join(t.TempDir(), "test.db")
	common.RedisEnabled = false
	common.RDB = nil
	common.ClamAVEnabled = false
	common.FFmpegEnabled = false
	require.NoError(t, model.InitDB())

	store, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	Init(store, imaging.Sanitizer{Enabled: false}, tasks.NewRunner())
}

func createTestUser(t *testing.T, username string) *model.User {
	t.Helper()
	user := model.User{
		Username: username,
		Password: "password123",
		Role:     common.RoleCommonUser,
		Status:   common.UserStatusEnabled,
	}
	require.NoError(t, user.Insert())
	return &user
}

func setGlobalQuota(t *testing.T, quotaMB int) {
	t.Helper()
	require.NoError(t, model.UpdateOption(common.OptionStorageQuotaMB, strconv.Itoa(quotaMB)))
}

// seedProjectUsage records a project whose cover claims the given size.
// The accountant trusts cached sizes, so no physical file is needed.
func seedProjectUsage(t *testing.T, ownerId int, size int64) *model.Project {
	t.Helper()
	project := model.Project{
		Title:      "seed",
		OwnerId:    ownerId,
		CoverImage: model.FileRef{Name: "projects/covers/seed.png", Size: size},
	}
	require.NoError(t, model.DB.Create(&project).Error)
	return &project
}

func TestUsageBytesSumsAllOwnedFiles(t *testing.T) {
	setupServiceTest(t)
	user := createTestUser(t, "alice")

	project := seedProjectUsage(t, user.Id, 10*mb)
	img := model.ProjectImage{ProjectId: project.Id, Image: model.FileRef{Name: "projects/gallery/a.png", Size: 2 * mb}}
	require.NoError(t, model.DB.Create(&img).Error)
	mockup := model.PackageMockup{
		OwnerId:        user.Id,
		ContainerImage: model.FileRef{Name: "mockups/containers/c.png", Size: 3 * mb},
		DesignImage:    model.FileRef{Name: "mockups/designs/d.png", Size: 1 * mb},
	}
	require.NoError(t, model.DB.Create(&mockup).Error)

	assert.Equal(t, 16*mb, UsageBytes(user.Id))
}

func TestUsageBytesIgnoresOtherUsers(t *testing.T) {
	setupServiceTest(t)
	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")

	seedProjectUsage(t, alice.Id, 10*mb)
	assert.Equal(t, int64(0), UsageBytes(bob.Id))
}

func TestWouldExceedRejectsOnlyTheIncrement(t *testing.T) {
	setupServiceTest(t)
	user := createTestUser(t, "alice")
	setGlobalQuota(t, 100)
	seedProjectUsage(t, user.Id, 95*mb)

	assert.False(t, WouldExceed(user.Id, 5*mb), "exactly at the limit is allowed")
	assert.True(t, WouldExceed(user.Id, 10*mb))

	// The rejected check must not change recorded usage.
	assert.Equal(t, 95*mb, UsageBytes(user.Id))
}

func TestWouldExceedNegativeAddClampsToZero(t *testing.T) {
	setupServiceTest(t)
	user := createTestUser(t, "alice")
	setGlobalQuota(t, 100)
	seedProjectUsage(t, user.Id, 95*mb)

	assert.False(t, WouldExceed(user.Id, -50*mb))
}

func TestPerUserOverrideBeatsGlobalDefault(t *testing.T) {
	setupServiceTest(t)
	user := createTestUser(t, "alice")
	setGlobalQuota(t, 100)
	seedProjectUsage(t, user.Id, 150*mb)

	override := 500
	require.NoError(t, model.SetStorageQuota(user.Id, &override))

	assert.Equal(t, 500, ResolveQuotaMB(user.Id))
	assert.False(t, WouldExceed(user.Id, 10*mb))
}

func TestZeroOverrideFallsBackToDefault(t *testing.T) {
	setupServiceTest(t)
	user := createTestUser(t, "alice")
	setGlobalQuota(t, 100)

	zero := 0
	require.NoError(t, model.SetStorageQuota(user.Id, &zero))
	assert.Equal(t, 100, ResolveQuotaMB(user.Id))
}

func TestNegativeOverrideMeansUnlimited(t *testing.T) {
	setupServiceTest(t)
	user := createTestUser(t, "alice")
	setGlobalQuota(t, 100)
	seedProjectUsage(t, user.Id, 500*mb)

	unlimited := -1
	require.NoError(t, model.SetStorageQuota(user.Id, &unlimited))
	assert.False(t, WouldExceed(user.Id, 1000*mb))
}

func TestGlobalQuotaZeroMeansUnlimited(t *testing.T) {
	setupServiceTest(t)
	user := createTestUser(t, "alice")
	setGlobalQuota(t, 0)
	seedProjectUsage(t, user.Id, 10000*mb)

	assert.False(t, WouldExceed(user.Id, 10000*mb))
}

func TestClearingOverrideRestoresDefault(t *testing.T) {
	setupServiceTest(t)
	user := createTestUser(t, "alice")
	setGlobalQuota(t, 100)

	override := 500
	require.NoError(t, model.SetStorageQuota(user.Id, &override))
	assert.Equal(t, 500, ResolveQuotaMB(user.Id))

	require.NoError(t, model.SetStorageQuota(user.Id, nil))
	assert.Equal(t, 100, ResolveQuotaMB(user.Id))
}
