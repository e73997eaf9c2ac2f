package service

import (
	"bytes"
	"mime/multipart"
	"testing"

	codes "artfolio/backend/common/errors"
	"artfolio/backend/common/i18n"
	"artfolio/backend/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name string, data []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(512 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func TestCheckFile(t *testing.T) {
	setupServiceTest(t)

	assert.NoError(t, CheckFile(fileHeader(t, "photo.png", []byte("x")), KindImage))
	assert.NoError(t, CheckFile(nil, KindImage))

	err := CheckFile(fileHeader(t, "script.exe", []byte("x")), KindImage)
	assert.True(t, i18n.IsErrorCode(err, codes.ErrBadExtension))

	big := fileHeader(t, "big.png", make([]byte, 11*mb))
	err = CheckFile(big, KindImage)
	assert.True(t, i18n.IsErrorCode(err, codes.ErrFileTooLarge))
}

func TestCreateProjectOverQuotaIsAtomic(t *testing.T) {
	setupServiceTest(t)
	user := createTestUser(t, "alice")
	setGlobalQuota(t, 1)

	uploads := ProjectUploads{Cover: fileHeader(t, "cover.png", make([]byte, 2*mb))}
	_, err := CreateProject(user.Id, ProjectInput{Title: "over", ProjectType: model.ProjectTypeImage}, uploads)
	require.Error(t, err)
	assert.True(t, i18n.IsErrorCode(err, codes.ErrQuotaExceeded))

	// Nothing recorded, nothing stored, usage unchanged.
	var count int64
	model.DB.Model(&model.Project{}).Count(&count)
	assert.Equal(t, int64(0), count)
	assert.Equal(t, int64(0), UsageBytes(user.Id))
}

func TestCreateProjectStoresFilesAndCountsUsage(t *testing.T) {
	setupServiceTest(t)
	user := createTestUser(t, "alice")
	setGlobalQuota(t, 100)

	uploads := ProjectUploads{
		Cover:  fileHeader(t, "cover.png", make([]byte, 2*mb)),
		Images: []*multipart.FileHeader{fileHeader(t, "shot.png", make([]byte, 1*mb))},
	}
	project, err := CreateProject(user.Id, ProjectInput{Title: "ok", ProjectType: model.ProjectTypeImage}, uploads)
	require.NoError(t, err)
	require.NotNil(t, project)

	assert.False(t, project.CoverImage.IsZero())
	assert.True(t, Store.Exists(project.CoverImage.Name))
	require.Len(t, project.Images, 1)
	assert.True(t, Store.Exists(project.Images[0].Image.Name))
	assert.Equal(t, 3*mb, UsageBytes(user.Id))
}

func TestDeleteProjectFreesUsage(t *testing.T) {
	setupServiceTest(t)
	user := createTestUser(t, "alice")
	setGlobalQuota(t, 100)

	uploads := ProjectUploads{Cover: fileHeader(t, "cover.png", make([]byte, 2*mb))}
	project, err := CreateProject(user.Id, ProjectInput{Title: "gone soon", ProjectType: model.ProjectTypeImage}, uploads)
	require.NoError(t, err)
	coverName := project.CoverImage.Name

	require.NoError(t, DeleteProject(project))
	assert.False(t, Store.Exists(coverName))
	assert.Equal(t, int64(0), UsageBytes(user.Id))

	// Deleting the already-removed file again is harmless.
	DeleteRef(model.FileRef{Name: coverName, Size: 2 * mb})
}

func TestUpdateProjectReplacesCover(t *testing.T) {
	setupServiceTest(t)
	user := createTestUser(t, "alice")
	setGlobalQuota(t, 100)

	project, err := CreateProject(user.Id,
		ProjectInput{Title: "v1", ProjectType: model.ProjectTypeImage},
		ProjectUploads{Cover: fileHeader(t, "one.png", make([]byte, 1*mb))})
	require.NoError(t, err)
	oldCover := project.CoverImage.Name

	updated, err := UpdateProject(project,
		ProjectInput{Title: "v2", ProjectType: model.ProjectTypeImage, IsPublished: true},
		ProjectUploads{Cover: fileHeader(t, "two.png", make([]byte, 2*mb))})
	require.NoError(t, err)

	assert.Equal(t, "v2", updated.Title)
	assert.True(t, updated.IsPublished)
	assert.NotEqual(t, oldCover, updated.CoverImage.Name)
	assert.False(t, Store.Exists(oldCover), "replaced cover is removed")
	assert.True(t, Store.Exists(updated.CoverImage.Name))
	assert.Equal(t, 2*mb, UsageBytes(user.Id))
}

func TestAddProjectImageQuotaChecked(t *testing.T) {
	setupServiceTest(t)
	user := createTestUser(t, "alice")
	setGlobalQuota(t, 2)

	project, err := CreateProject(user.Id,
		ProjectInput{Title: "p", ProjectType: model.ProjectTypeImage},
		ProjectUploads{Cover: fileHeader(t, "one.png", make([]byte, 1*mb))})
	require.NoError(t, err)

	_, err = AddProjectImage(project, fileHeader(t, "huge.png", make([]byte, 2*mb)), "")
	assert.True(t, i18n.IsErrorCode(err, codes.ErrQuotaExceeded))

	img, err := AddProjectImage(project, fileHeader(t, "fits.png", make([]byte, 1*mb)), "cap")
	require.NoError(t, err)
	assert.Equal(t, "cap", img.Caption)
	assert.Equal(t, 2*mb, UsageBytes(user.Id))
}
