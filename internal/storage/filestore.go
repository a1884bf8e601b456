package storage

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
)

// FileStore persists one file per key under a directory. It is the durable
// store shared by every process using the same data dir, the way browser
// localStorage is shared by every tab of a profile. No cross-process
// locking exists; the last write to a key wins.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// keys may contain characters that are unsafe in filenames (usernames are
// user-controlled), so encode them.
func (f *FileStore) path(key string) string {
	name := base64.RawURLEncoding.EncodeToString([]byte(key)) + ".json"
	return filepath.Join(f.dir, name)
}

func (f *FileStore) Get(key string) ([]byte, bool) {
	raw, err := os.ReadFile(f.path(key))
	if err != nil {
		return nil, false
	}
	return raw, true
}

func (f *FileStore) Set(key string, value []byte) error {
	tmp := f.path(key) + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path(key))
}

func (f *FileStore) Delete(key string) {
	_ = os.Remove(f.path(key))
}

func (f *FileStore) Keys(prefix string) []string {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil
	}
	out := make([]string, 0)
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".json")
		if name == e.Name() {
			continue
		}
		raw, err := base64.RawURLEncoding.DecodeString(name)
		if err != nil {
			continue
		}
		if strings.HasPrefix(string(raw), prefix) {
			out = append(out, string(raw))
		}
	}
	return out
}
