package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/josh-kwaku/reimbursement-ledger/internal/domain"
	"github.com/josh-kwaku/reimbursement-ledger/internal/logging"
)

// FileStore keeps the whole account collection in a single JSON file.
// Save rewrites the file in place; a crash mid-write can leave it truncated.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

// Load never fails: a missing, unreadable or malformed file yields an empty
// collection. Individual fields that cannot be interpreted are logged and
// loaded with a fallback value.
func (s *FileStore) Load(ctx context.Context) ([]domain.Account, error) {
	log := logging.FromContext(ctx)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Info("data file not found, starting empty", "path", s.path)
		} else {
			log.Warn("data file unreadable, starting empty", "path", s.path, "error", err)
		}
		return []domain.Account{}, nil
	}

	var records []accountRecord
	if err := json.Unmarshal(data, &records); err != nil {
		log.Warn("data file corrupt, starting empty", "path", s.path, "error", err)
		return []domain.Account{}, nil
	}

	if records == nil {
		return []domain.Account{}, nil
	}

	accounts, problems := fromRecords(records)
	for _, p := range problems {
		log.Warn("data file record not fully readable", "path", s.path, "error", p)
	}
	return accounts, nil
}

func (s *FileStore) Save(_ context.Context, accounts []domain.Account) error {
	data, err := json.MarshalIndent(toRecords(accounts), "", "  ")
	if err != nil {
		return fmt.Errorf("Save: encode: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("Save: %w: %w", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Ping checks that the directory holding the data file is reachable.
func (s *FileStore) Ping(_ context.Context) error {
	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("Ping: %w: %w", domain.ErrStorageUnavailable, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("Ping: %w: %s is not a directory", domain.ErrStorageUnavailable, dir)
	}
	return nil
}
