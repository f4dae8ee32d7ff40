package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	json "github.com/goccy/go-json"

	"bjd/internal/providers"
	"bjd/internal/structures"
)

const (
	keyProgress    = "progress"
	keyFirstVisit  = "first_visit"
	keyDemoSeeded  = "demo_initialized"
	keyMonthPrefix = "month_"
	// Fallback keyspace for the blob store; distinct from month record keys.
	keyPhotosPrefix = "photos_"
	// Superseded single-photo fallback keyspace, still readable.
	keyPhotoPrefix = "photo_"
)

func monthKey(month int) string       { return keyMonthPrefix + strconv.Itoa(month) }
func photosKey(month int) string      { return keyPhotosPrefix + strconv.Itoa(month) }
func legacyPhotoKey(month int) string { return keyPhotoPrefix + strconv.Itoa(month) }

const recordFileName = "records.json"

// RecordStore is the synchronous key/value store for small JSON-serializable
// values. The whole key space lives in one JSON file; every mutation rewrites
// it atomically, so a crash leaves either the old or the new state on disk.
type RecordStore struct {
	mu       sync.Mutex
	path     string
	maxBytes int
	data     map[string]string
	logger   providers.Logger
}

func NewRecordStore(conf *structures.Config, logger providers.Logger) (*RecordStore, error) {
	if err := os.MkdirAll(conf.Storage.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("cannot create data dir: %w", err)
	}

	rs := &RecordStore{
		path:     filepath.Join(conf.Storage.DataDir, recordFileName),
		maxBytes: conf.Storage.MaxRecordBytes,
		logger:   logger,
	}
	rs.load()
	return rs, nil
}

// Path returns the location of the backing file (used for backups).
func (rs *RecordStore) Path() string {
	return rs.path
}

// load reads the backing file into memory. A missing or corrupt file starts
// the store empty; corruption is logged, never fatal.
func (rs *RecordStore) load() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.data = make(map[string]string)

	raw, err := os.ReadFile(rs.path)
	if err != nil {
		if !os.IsNotExist(err) {
			rs.logger.Warnf(providers.TypeApp, "Failed to read record file %s: %s", rs.path, err)
		}
		return
	}

	if err := json.Unmarshal(raw, &rs.data); err != nil {
		rs.logger.Warnf(providers.TypeApp, "Corrupt record file %s, starting empty: %s", rs.path, err)
		rs.data = make(map[string]string)
	}
}

// Reload re-reads the backing file, discarding the in-memory view. Used after
// a backup restore replaces the file on disk.
func (rs *RecordStore) Reload() {
	rs.load()
}

// Put stores value under key and persists immediately. Returns
// ErrQuotaExceeded when the serialized store would exceed the configured
// budget; the in-memory state is rolled back on any failure.
func (rs *RecordStore) Put(key, value string) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	prev, existed := rs.data[key]
	rs.data[key] = value

	if err := rs.persistLocked(); err != nil {
		if existed {
			rs.data[key] = prev
		} else {
			delete(rs.data, key)
		}
		return err
	}
	return nil
}

// Get returns the value stored under key, or false when absent.
func (rs *RecordStore) Get(key string) (string, bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	v, ok := rs.data[key]
	return v, ok
}

// Remove deletes key; a missing key is a no-op.
func (rs *RecordStore) Remove(key string) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	prev, ok := rs.data[key]
	if !ok {
		return nil
	}
	delete(rs.data, key)

	if err := rs.persistLocked(); err != nil {
		rs.data[key] = prev
		return err
	}
	return nil
}

// Len reports the number of stored keys.
func (rs *RecordStore) Len() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.data)
}

func (rs *RecordStore) persistLocked() error {
	jsonData, err := json.Marshal(rs.data)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrPersistence, err)
	}
	if rs.maxBytes > 0 && len(jsonData) > rs.maxBytes {
		return fmt.Errorf("%w: %d bytes over %d budget", ErrQuotaExceeded, len(jsonData), rs.maxBytes)
	}

	tmpFile := rs.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrPersistence, err)
	}

	if _, err = file.Write(jsonData); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("%w: %s", ErrPersistence, err)
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("%w: %s", ErrPersistence, err)
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("%w: %s", ErrPersistence, err)
	}

	if err = os.Rename(tmpFile, rs.path); err != nil {
		return fmt.Errorf("%w: %s", ErrPersistence, err)
	}
	return nil
}
