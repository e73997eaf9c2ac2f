package service

import (
	"errors"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"artfolio/backend/common"
	codes "artfolio/backend/common/errors"
	"artfolio/backend/common/i18n"
	"artfolio/backend/library/imaging"
	"artfolio/backend/library/storage"
	"artfolio/backend/model"
)

// FileKind buckets uploads by media type for limits and processing.
type FileKind string

const (
	KindImage    FileKind = "image"
	KindVideo    FileKind = "video"
	KindAudio    FileKind = "audio"
	KindDocument FileKind = "document"
)

func kindLimits(kind FileKind) (maxMB int, extensions []string) {
	switch kind {
	case KindImage:
		return common.MaxImageSizeMB, common.ImageExtensions
	case KindVideo:
		return common.MaxVideoSizeMB, common.VideoExtensions
	case KindAudio:
		return common.MaxAudioSizeMB, common.AudioExtensions
	default:
		return common.MaxDocumentSizeMB, common.DocumentExtensions
	}
}

// CheckFile validates extension and size against the limits for the
// given kind. A nil header passes; absence is the caller's concern.
func CheckFile(header *multipart.FileHeader, kind FileKind) error {
	if header == nil {
		return nil
	}
	maxMB, extensions := kindLimits(kind)

	ext := strings.ToLower(filepath.Ext(header.Filename))
	allowed := false
	for _, e := range extensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return i18n.New(codes.ErrBadExtension)
	}
	if header.Size > int64(maxMB)*1024*1024 {
		return i18n.New(codes.ErrFileTooLarge)
	}
	return nil
}

// SaveUpload stores one uploaded file under dir and returns its
// reference. Images are re-encoded to strip metadata; if processing is
// off or the image cannot be decoded, the original bytes are kept.
func SaveUpload(dir string, header *multipart.FileHeader, kind FileKind) (model.FileRef, error) {
	src, err := header.Open()
	if err != nil {
		return model.FileRef{}, i18n.Wrap(codes.ErrUploadFailed, err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return model.FileRef{}, i18n.Wrap(codes.ErrUploadFailed, err)
	}

	filename := header.Filename
	if kind == KindImage {
		processed, err := Sanitizer.Sanitize(data)
		if err == nil {
			data = processed.Data
			filename = imaging.CleanName(filename, processed.Suffix)
		} else if !errors.Is(err, imaging.ErrUnavailable) {
			return model.FileRef{}, i18n.Wrap(codes.ErrUploadFailed, err)
		}
	}

	name := storage.StoredName(dir, filename)
	stored, err := Store.Save(name, data)
	if err != nil {
		return model.FileRef{}, i18n.Wrap(codes.ErrUploadFailed, err)
	}
	return model.FileRef{Name: stored, Size: int64(len(data))}, nil
}

// DeleteRef removes a stored file if the reference is set. Failures are
// logged, not returned; rows come first, files are best effort.
func DeleteRef(ref model.FileRef) {
	if ref.IsZero() {
		return
	}
	if err := Store.Delete(ref.Name); err != nil {
		common.SysError("failed to delete stored file " + ref.Name + ": " + err.Error())
	}
}

// postProcess fires the background jobs appropriate for a stored file.
func postProcess(ref model.FileRef, kind FileKind) {
	if ref.IsZero() {
		return
	}
	path := Store.Path(ref.Name)
	if path == "" {
		return
	}
	if common.ClamAVEnabled {
		Tasks.ScanFile(path)
	}
	if common.FFmpegEnabled {
		switch kind {
		case KindVideo:
			Tasks.TranscodeVideo(path, path+".mp4")
		case KindAudio:
			Tasks.TranscodeAudio(path, path+".mp3")
		}
	}
}
