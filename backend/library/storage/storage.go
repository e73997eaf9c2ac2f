package storage

import (
	"fmt"

	"artfolio/backend/common"
)

// Backend abstracts the object store holding uploaded media. Names are
// slash-separated paths relative to the backend root.
type Backend interface {
	Exists(name string) bool
	Size(name string) (int64, error)
	Read(name string) ([]byte, error)
	Save(name string, data []byte) (string, error)
	Delete(name string) error
	Path(name string) string
}

// SizedFile is anything carrying a stored object name plus the size
// recorded at upload time.
type SizedFile interface {
	FileName() string
	CachedSize() int64
}

// ResolveSize returns the byte size of a stored file, preferring the
// cached size and falling back to the backend. Missing or unreadable
// files count as zero so usage accounting degrades instead of failing.
func ResolveSize(b Backend, f SizedFile) int64 {
	name := f.FileName()
	if name == "" {
		return 0
	}
	if cached := f.CachedSize(); cached > 0 {
		return cached
	}
	if !b.Exists(name) {
		return 0
	}
	size, err := b.Size(name)
	if err != nil {
		common.SysError(fmt.Sprintf("failed to stat stored file %s: %v", name, err))
		return 0
	}
	return size
}

// StoredName builds a collision-free object name for an upload,
// keeping the original extension.
func StoredName(dir string, filename string) string {
	ext := extOf(filename)
	return dir + "/" + common.GetUUID() + ext
}

func extOf(filename string) string {
	for i := len(filename) - 1; i >= 0 && filename[i] != '/' && filename[i] != '\\'; i-- {
		if filename[i] == '.' {
			return filename[i:]
		}
	}
	return ""
}
