package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"questlog/internal/snapshot"
)

type fileState struct {
	Users map[string]json.RawMessage `json:"users"`
}

// FileRepo keeps every user's snapshot in one JSON file. Snapshots
// are stored as raw messages so an unreadable user entry degrades to
// defaults at hydration instead of poisoning the whole file.
type FileRepo struct {
	mu   sync.RWMutex
	path string
	s    fileState
}

func NewFileRepo(dataDir string) (*FileRepo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	r := &FileRepo{
		path: filepath.Join(dataDir, "snapshots.json"),
		s:    fileState{Users: map[string]json.RawMessage{}},
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileRepo) load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			r.s = fileState{Users: map[string]json.RawMessage{}}
			return nil
		}
		return err
	}

	var loaded fileState
	if err := json.Unmarshal(b, &loaded); err != nil {
		return err
	}
	if loaded.Users == nil {
		loaded.Users = map[string]json.RawMessage{}
	}
	r.s = loaded
	return nil
}

func (r *FileRepo) saveLocked() error {
	b, err := json.MarshalIndent(r.s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, b, 0o644)
}

func normalizeUserID(userID string) string {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "guest"
	}
	return userID
}

// Load returns the raw snapshot bytes for a user, or nil when the
// user has never saved.
func (r *FileRepo) Load(userID string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	raw, ok := r.s.Users[normalizeUserID(userID)]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

func (r *FileRepo) Save(userID string, snap snapshot.Snapshot) error {
	b, err := snapshot.Marshal(snap)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.Users[normalizeUserID(userID)] = b
	return r.saveLocked()
}

func (r *FileRepo) Delete(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.s.Users, normalizeUserID(userID))
	return r.saveLocked()
}

// Users lists the ids with a stored snapshot.
func (r *FileRepo) Users() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.s.Users))
	for uid := range r.s.Users {
		out = append(out, uid)
	}
	return out
}
