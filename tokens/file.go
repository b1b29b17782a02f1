package tokens

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

var _ Store = (*FileStore)(nil)

// FileStore persists the pair as a JSON file under the configured data
// folder. Writes go through a temp file and rename so a crash mid-write
// never leaves a half token on disk.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(folder string) (*FileStore, error) {
	if err := os.MkdirAll(folder, 0o700); err != nil {
		return nil, errors.Wrap(err, "[NewFileStore] create data folder")
	}
	return &FileStore{path: filepath.Join(folder, "tokens.json")}, nil
}

func (s *FileStore) Save(pair Pair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(pair)
	if err != nil {
		return errors.Wrap(err, "[FileStore.Save] marshal pair")
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "[FileStore.Save] write temp file")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "[FileStore.Save] rename temp file")
	}
	return nil
}

func (s *FileStore) Load() (Pair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Pair{}, ErrNoTokens
	}
	if err != nil {
		return Pair{}, errors.Wrap(err, "[FileStore.Load] read file")
	}
	var pair Pair
	if err := json.Unmarshal(data, &pair); err != nil {
		return Pair{}, errors.Wrap(err, "[FileStore.Load] unmarshal pair")
	}
	if pair.Empty() {
		return Pair{}, ErrNoTokens
	}
	return pair, nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[FileStore.Clear] remove file")
	}
	return nil
}
