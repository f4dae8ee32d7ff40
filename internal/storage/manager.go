package storage

import (
	"context"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"bjd/internal/models"
	"bjd/internal/providers"
)

// StorageManager is the single entry point over the record store and the
// blob store. One instance is wired at startup and passed by reference; no
// consumer knows which photo backend ended up in use.
type StorageManager struct {
	records *RecordStore
	blobs   *BlobStore
	metrics providers.MetricsProviderInterface
	logger  providers.Logger
}

func NewStorageManager(records *RecordStore, blobs *BlobStore, metrics providers.MetricsProviderInterface, logger providers.Logger) *StorageManager {
	return &StorageManager{
		records: records,
		blobs:   blobs,
		metrics: metrics,
		logger:  logger,
	}
}

// Degraded reports whether photo persistence runs on the fallback store.
func (sm *StorageManager) Degraded() bool {
	return sm.blobs.Degraded()
}

// SaveProgress stores the last-viewed month.
func (sm *StorageManager) SaveProgress(month int) error {
	if !validMonth(month) {
		return ErrInvalidMonth
	}
	return sm.records.Put(keyProgress, strconv.Itoa(month))
}

// GetProgress returns the last-viewed month, clamped to [0,12]; an absent or
// unparsable value yields 0.
func (sm *StorageManager) GetProgress() int {
	raw, ok := sm.records.Get(keyProgress)
	if !ok {
		return 0
	}
	month, err := strconv.Atoi(raw)
	if err != nil {
		sm.logger.Warnf(providers.TypeApp, "Unparsable progress value %q, using 0", raw)
		return 0
	}
	if month < 0 {
		return 0
	}
	if month > 12 {
		return 12
	}
	return month
}

// SaveMonthData persists a user-saved month record. Photos never travel with
// the record: the blob store is their source of truth.
func (sm *StorageManager) SaveMonthData(month int, rec *models.MonthRecord) error {
	if !validMonth(month) {
		return ErrInvalidMonth
	}
	if rec == nil {
		return ErrInvalidRecord
	}

	stored := rec.Clone()
	stored.Month = month
	stored.Customized = true
	stored.LastUpdated = time.Now()
	stored.Photos = nil

	jsonData, err := json.Marshal(stored)
	if err != nil {
		return err
	}

	start := time.Now()
	err = sm.records.Put(monthKey(month), string(jsonData))
	sm.metrics.ObservePersistenceDuration(time.Since(start))
	return err
}

// GetMonthData returns the user-saved record for a month, or false when none
// exists (or the stored value is corrupt, which reads as absent).
func (sm *StorageManager) GetMonthData(month int) (*models.MonthRecord, bool) {
	if !validMonth(month) {
		return nil, false
	}
	raw, ok := sm.records.Get(monthKey(month))
	if !ok {
		return nil, false
	}

	var rec models.MonthRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		sm.logger.Errorf(providers.TypeApp, "Corrupt record for month %d, treating as absent: %s", month, err)
		return nil, false
	}
	return &rec, true
}

// CustomizedCount reports how many month slots carry a user-saved record.
func (sm *StorageManager) CustomizedCount() int {
	count := 0
	for month := 0; month <= 12; month++ {
		if rec, ok := sm.GetMonthData(month); ok && rec.Customized {
			count++
		}
	}
	return count
}

// SaveMonthPhotos overwrites the whole photo sequence for a month.
func (sm *StorageManager) SaveMonthPhotos(ctx context.Context, month int, photos [][]byte) error {
	start := time.Now()
	err := sm.blobs.SavePhotos(ctx, month, photos)
	sm.metrics.ObservePersistenceDuration(time.Since(start))
	return err
}

// GetMonthPhotos returns the photo sequence for a month, empty when absent.
func (sm *StorageManager) GetMonthPhotos(ctx context.Context, month int) ([][]byte, error) {
	return sm.blobs.GetPhotos(ctx, month)
}

// DeleteMonthPhotos removes the photo sequence for a month.
func (sm *StorageManager) DeleteMonthPhotos(ctx context.Context, month int) error {
	return sm.blobs.DeletePhotos(ctx, month)
}

// SavePhoto persists one photo in the superseded single-photo shape.
func (sm *StorageManager) SavePhoto(ctx context.Context, month int, payload []byte) error {
	return sm.blobs.SavePhoto(ctx, month, payload)
}

// GetPhoto returns the single stored photo base64-encoded, "" when absent.
func (sm *StorageManager) GetPhoto(ctx context.Context, month int) (string, error) {
	return sm.blobs.GetPhoto(ctx, month)
}

// DeletePhoto removes the single-photo record.
func (sm *StorageManager) DeletePhoto(ctx context.Context, month int) error {
	return sm.blobs.DeletePhoto(ctx, month)
}

// IsFirstVisit reports whether MarkVisited has never been called.
func (sm *StorageManager) IsFirstVisit() bool {
	_, ok := sm.records.Get(keyFirstVisit)
	return !ok
}

// MarkVisited stores the first-visit timestamp.
func (sm *StorageManager) MarkVisited() error {
	return sm.records.Put(keyFirstVisit, strconv.FormatInt(time.Now().UnixMilli(), 10))
}

// IsDemoSeeded reports whether demo records were already injected.
func (sm *StorageManager) IsDemoSeeded() bool {
	_, ok := sm.records.Get(keyDemoSeeded)
	return ok
}

// MarkDemoSeeded guards demo seeding against running twice.
func (sm *StorageManager) MarkDemoSeeded() error {
	return sm.records.Put(keyDemoSeeded, strconv.FormatInt(time.Now().UnixMilli(), 10))
}

// ClearAll wipes every key in both stores: month records, progress,
// first-visit, both fallback photo key shapes, then the object store
// collection. The record store portion is cleared first; an object store
// failure propagates afterwards, so the clear is ordered, not atomic.
func (sm *StorageManager) ClearAll(ctx context.Context) error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	for month := 0; month <= 12; month++ {
		keep(sm.records.Remove(monthKey(month)))
		keep(sm.records.Remove(photosKey(month)))
		keep(sm.records.Remove(legacyPhotoKey(month)))
	}
	keep(sm.records.Remove(keyProgress))
	keep(sm.records.Remove(keyFirstVisit))
	keep(sm.records.Remove(keyDemoSeeded))

	keep(sm.blobs.Clear(ctx))
	return firstErr
}
