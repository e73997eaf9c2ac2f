package model

// FileRef points at an object in the storage backend together with the
// byte size recorded at upload time. A zero Name means no file.
type FileRef struct {
	Name string `json:"name" gorm:"size:255"`
	Size int64  `json:"size"`
}

func (f FileRef) FileName() string {
	return f.Name
}

// CachedSize returns the size recorded at upload time; zero when the
// size was never captured and must be read from the backend.
func (f FileRef) CachedSize() int64 {
	return f.Size
}

func (f FileRef) IsZero() bool {
	return f.Name == ""
}
