package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"artfolio/backend/common"
)

const deleteRetries = 5
const deleteRetryDelay = 200 * time.Millisecond

// Local stores objects as plain files under a root directory.
type Local struct {
	Root string
}

func NewLocal(root string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload root %s: %w", root, err)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &Local{Root: abs}, nil
}

// Path maps an object name to an absolute filesystem path, refusing
// names that escape the root.
func (l *Local) Path(name string) string {
	full := filepath.Join(l.Root, filepath.FromSlash(name))
	full = filepath.Clean(full)
	if full != l.Root && !strings.HasPrefix(full, l.Root+string(os.PathSeparator)) {
		return ""
	}
	return full
}

func (l *Local) Exists(name string) bool {
	p := l.Path(name)
	if p == "" {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func (l *Local) Size(name string) (int64, error) {
	p := l.Path(name)
	if p == "" {
		return 0, fmt.Errorf("invalid object name: %s", name)
	}
	info, err := os.Stat(p)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (l *Local) Read(name string) ([]byte, error) {
	p := l.Path(name)
	if p == "" {
		return nil, fmt.Errorf("invalid object name: %s", name)
	}
	return os.ReadFile(p)
}

func (l *Local) Save(name string, data []byte) (string, error) {
	p := l.Path(name)
	if p == "" {
		return "", fmt.Errorf("invalid object name: %s", name)
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", err
	}
	return name, nil
}

// Delete removes a stored file, retrying on permission errors since
// scanners on some hosts hold short-lived locks on fresh files.
func (l *Local) Delete(name string) error {
	p := l.Path(name)
	if p == "" {
		return fmt.Errorf("invalid object name: %s", name)
	}
	var err error
	for attempt := 0; attempt < deleteRetries; attempt++ {
		err = os.Remove(p)
		if err == nil || os.IsNotExist(err) {
			return nil
		}
		if !os.IsPermission(err) {
			return err
		}
		time.Sleep(deleteRetryDelay)
	}
	common.SysError(fmt.Sprintf("failed to delete %s after %d attempts: %v", name, deleteRetries, err))
	return err
}
