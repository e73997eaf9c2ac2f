package service

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"artfolio/backend/common"
	"artfolio/backend/library/imaging"
	"artfolio/backend/library/storage"
	"artfolio/backend/library/tasks"
	"artfolio/backend/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// setupMockupTest is setupServiceTest with image processing on, since
// rendering needs the sanitizer pipeline enabled.
func setupMockupTest(t *testing.T) {
	t.Helper()
	common.SQLitePath = t.TempDir() + "/test.db"
	common.RedisEnabled = false
	common.RDB = nil
	require.NoError(t, model.InitDB())

	store, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	Init(store, imaging.Sanitizer{Enabled: true}, tasks.NewRunner())
}

func TestCreateMockupRendersPreview(t *testing.T) {
	setupMockupTest(t)
	user := createTestUser(t, "alice")

	uploads := MockupUploads{
		Container: fileHeader(t, "box.png", pngBytes(t, 80, 80, color.NRGBA{R: 255, G: 255, B: 255, A: 255})),
		Design:    fileHeader(t, "logo.png", pngBytes(t, 40, 40, color.NRGBA{R: 255, A: 255})),
	}
	mockup, err := CreateMockup(user.Id, MockupInput{
		Title: "bottle", DesignPosX: 50, DesignPosY: 50, DesignScale: 50, MaskOpacity: 100,
	}, uploads)
	require.NoError(t, err)

	require.False(t, mockup.GeneratedImage.IsZero())
	assert.True(t, strings.HasPrefix(mockup.GeneratedImage.Name, "mockups/generated/mockup_"))
	assert.True(t, strings.HasSuffix(mockup.GeneratedImage.Name, ".jpg"))
	assert.True(t, Store.Exists(mockup.GeneratedImage.Name))

	// The preview row survives a reload.
	stored, err := model.GetMockupById(mockup.Id)
	require.NoError(t, err)
	assert.Equal(t, mockup.GeneratedImage.Name, stored.GeneratedImage.Name)
}

func TestUpdateMockupReplacesPreview(t *testing.T) {
	setupMockupTest(t)
	user := createTestUser(t, "alice")

	mockup, err := CreateMockup(user.Id, MockupInput{
		Title: "v1", DesignPosX: 50, DesignPosY: 50, DesignScale: 50, MaskOpacity: 100,
	}, MockupUploads{
		Container: fileHeader(t, "box.png", pngBytes(t, 80, 80, color.NRGBA{R: 255, G: 255, B: 255, A: 255})),
		Design:    fileHeader(t, "logo.png", pngBytes(t, 40, 40, color.NRGBA{R: 255, A: 255})),
	})
	require.NoError(t, err)
	oldPreview := mockup.GeneratedImage.Name

	updated, err := UpdateMockup(mockup, MockupInput{
		Title: "v2", DesignPosX: 25, DesignPosY: 25, DesignScale: 30, DesignRotation: 45, MaskOpacity: 100,
	}, MockupUploads{})
	require.NoError(t, err)

	assert.Equal(t, "v2", updated.Title)
	assert.NotEqual(t, oldPreview, updated.GeneratedImage.Name)
	assert.False(t, Store.Exists(oldPreview), "stale preview is deleted")
	assert.True(t, Store.Exists(updated.GeneratedImage.Name))
}

func TestDeleteMockupRemovesAllAssets(t *testing.T) {
	setupMockupTest(t)
	user := createTestUser(t, "alice")

	mockup, err := CreateMockup(user.Id, MockupInput{
		Title: "gone", DesignPosX: 50, DesignPosY: 50, DesignScale: 50, MaskOpacity: 100,
	}, MockupUploads{
		Container: fileHeader(t, "box.png", pngBytes(t, 80, 80, color.NRGBA{R: 255, G: 255, B: 255, A: 255})),
		Design:    fileHeader(t, "logo.png", pngBytes(t, 40, 40, color.NRGBA{R: 255, A: 255})),
	})
	require.NoError(t, err)

	names := []string{mockup.ContainerImage.Name, mockup.DesignImage.Name, mockup.GeneratedImage.Name}
	require.NoError(t, DeleteMockup(mockup))
	for _, name := range names {
		assert.False(t, Store.Exists(name))
	}
	_, err = model.GetMockupById(mockup.Id)
	assert.Error(t, err)

	assert.Equal(t, int64(0), UsageBytes(user.Id))
}

func TestComposeMockupSwallowsMissingAssets(t *testing.T) {
	setupMockupTest(t)
	user := createTestUser(t, "alice")

	mockup := model.PackageMockup{
		OwnerId:        user.Id,
		ContainerImage: model.FileRef{Name: "mockups/containers/missing.png", Size: 100},
		DesignImage:    model.FileRef{Name: "mockups/designs/missing.png", Size: 100},
		DesignScale:    100, MaskOpacity: 100,
	}
	require.NoError(t, model.DB.Create(&mockup).Error)

	ComposeMockup(&mockup)
	assert.True(t, mockup.GeneratedImage.IsZero())
}
