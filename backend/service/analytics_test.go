package service

import (
	"testing"
	"time"

	"artfolio/backend/common"
	"artfolio/backend/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanPathStripsLanguagePrefix(t *testing.T) {
	assert.Equal(t, "/gallery", cleanPath("/en/gallery"))
	assert.Equal(t, "/gallery", cleanPath("/zh/gallery"))
	assert.Equal(t, "/", cleanPath("/en"))
	assert.Equal(t, "/gallery", cleanPath("/gallery"))
	assert.Equal(t, "/env/gallery", cleanPath("/env/gallery"))
	assert.Equal(t, "/", cleanPath("/"))
}

func TestPeriodCutoff(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(-24*time.Hour).Unix(), periodCutoff("24h", now))
	assert.Equal(t, now.AddDate(0, 0, -7).Unix(), periodCutoff("7d", now))
	assert.Equal(t, now.AddDate(0, 0, -30).Unix(), periodCutoff("30d", now))
	assert.Equal(t, int64(0), periodCutoff("all", now))
	assert.Equal(t, int64(0), periodCutoff("", now))
}

func TestBuildTrafficReport(t *testing.T) {
	setupServiceTest(t)
	if _, err := model.GetRequestLogThing(); err != nil {
		t.Skip("request log store unavailable")
	}
	_, err := model.PurgeRequestLogs(0)
	require.NoError(t, err)

	now := time.Now().Unix()
	model.RecordRequestLog(&model.RequestLog{UserId: 1, Path: "/en/gallery", Status: 200, DurationMs: 10, LoggedAt: now})
	model.RecordRequestLog(&model.RequestLog{UserId: 2, Path: "/zh/gallery", Status: 200, DurationMs: 30, LoggedAt: now})
	model.RecordRequestLog(&model.RequestLog{UserId: 2, Path: "/api/missing", Status: 404, DurationMs: 5, LoggedAt: now})
	model.RecordRequestLog(&model.RequestLog{UserId: 3, Path: "/api/old", Status: 200, DurationMs: 5, LoggedAt: now - 60*24*3600})

	report, err := BuildTrafficReport("7d", map[int64]bool{1: true})
	require.NoError(t, err)

	// User 1 is excluded and the 60-day-old entry misses the window.
	assert.Equal(t, int64(2), report.TotalRequests)
	assert.Equal(t, int64(1), report.StatusBuckets["2xx"])
	assert.Equal(t, int64(1), report.StatusBuckets["4xx"])

	// Language prefixes collapse in the top paths.
	found := false
	for _, pc := range report.TopPaths {
		if pc.Path == "/gallery" {
			found = true
			assert.Equal(t, int64(1), pc.Count)
		}
	}
	assert.True(t, found)

	all, err := BuildTrafficReport("all", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4), all.TotalRequests)
}

func TestStaffUserIds(t *testing.T) {
	setupServiceTest(t)

	admin := model.User{
		Username: "staff-admin",
		Password: "password123",
		Role:     common.RoleAdminUser,
		Status:   common.UserStatusEnabled,
	}
	require.NoError(t, admin.Insert())
	visitor := createTestUser(t, "staff-visitor")

	// The bootstrap root account counts as staff too.
	staff := StaffUserIds()
	assert.NotEmpty(t, staff)
	assert.True(t, staff[int64(admin.Id)])
	assert.False(t, staff[int64(visitor.Id)])
}
