package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	json "github.com/goccy/go-json"

	"bjd/internal/models"
	"bjd/internal/providers"
	"bjd/internal/storage/interfaces"
)

// ObjectStore is the structured photo backend: one compressed envelope file
// per month slot, written atomically. Multi-photo records and superseded
// single-photo records live in sibling keyspaces so a legacy write can never
// clobber a sequence.
type ObjectStore struct {
	mu         sync.Mutex
	dir        string
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func newObjectStore(dir string, compressor interfaces.CompressorInterface, logger providers.Logger) *ObjectStore {
	return &ObjectStore{
		dir:        dir,
		compressor: compressor,
		logger:     logger,
	}
}

// Probe verifies the store directory is usable. A failed probe means the
// caller must fall back to the record store for the life of the process.
func (s *ObjectStore) Probe() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}
	probe := filepath.Join(s.dir, ".probe")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return err
	}
	return os.Remove(probe)
}

func (s *ObjectStore) sequencePath(month int) string {
	return filepath.Join(s.dir, "photos_"+strconv.Itoa(month)+".zst")
}

func (s *ObjectStore) legacyPath(month int) string {
	return filepath.Join(s.dir, "photo_"+strconv.Itoa(month)+".zst")
}

// Get returns the stored multi-photo record for a month, or nil when absent.
// A corrupt file is treated as absent and logged.
func (s *ObjectStore) Get(month int) *models.PhotoRecord {
	return s.read(s.sequencePath(month))
}

// GetLegacy returns the superseded single-photo record, or nil when absent.
func (s *ObjectStore) GetLegacy(month int) *models.PhotoRecord {
	return s.read(s.legacyPath(month))
}

// Put overwrites the whole multi-photo record for a month.
func (s *ObjectStore) Put(month int, rec *models.PhotoRecord) error {
	return s.write(s.sequencePath(month), rec)
}

// PutLegacy overwrites the single-photo record, independent of any stored
// sequence for the same month.
func (s *ObjectStore) PutLegacy(month int, rec *models.PhotoRecord) error {
	return s.write(s.legacyPath(month), rec)
}

// Delete removes the multi-photo record; missing files are a no-op.
func (s *ObjectStore) Delete(month int) error {
	return s.remove(s.sequencePath(month))
}

// DeleteLegacy removes the single-photo record; missing files are a no-op.
func (s *ObjectStore) DeleteLegacy(month int) error {
	return s.remove(s.legacyPath(month))
}

// Clear removes every stored record, both shapes.
func (s *ObjectStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, pattern := range []string{"photos_*.zst", "photo_*.zst"} {
		files, err := filepath.Glob(filepath.Join(s.dir, pattern))
		if err != nil {
			return fmt.Errorf("%w: %s", ErrPersistence, err)
		}
		for _, f := range files {
			if err := os.Remove(f); err != nil {
				return fmt.Errorf("%w: %s", ErrPersistence, err)
			}
		}
	}
	return nil
}

func (s *ObjectStore) read(path string) *models.PhotoRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Errorf(providers.TypeApp, "Failed to read photo file %s: %s", path, err)
		}
		return nil
	}

	decompressed, err := s.compressor.Decompress(data)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Failed to decompress photo file %s: %s", path, err)
		return nil
	}

	var rec models.PhotoRecord
	if err := json.Unmarshal(decompressed, &rec); err != nil {
		s.logger.Errorf(providers.TypeApp, "Failed to parse photo file %s: %s", path, err)
		return nil
	}
	return &rec
}

func (s *ObjectStore) write(path string, rec *models.PhotoRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	jsonData, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrPersistence, err)
	}

	compressed, err := s.compressor.Compress(jsonData)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrPersistence, err)
	}

	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, compressed, 0644); err != nil {
		return fmt.Errorf("%w: %s", ErrPersistence, err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("%w: %s", ErrPersistence, err)
	}
	return nil
}

func (s *ObjectStore) remove(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrPersistence, err)
	}
	return nil
}
