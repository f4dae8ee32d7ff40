package storage

import (
	"context"
	"encoding/base64"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/atomic"

	"bjd/internal/models"
	"bjd/internal/providers"
	"bjd/internal/storage/interfaces"
	"bjd/internal/structures"
)

// BlobStore persists per-month ordered photo sequences. It prefers the
// object store and degrades permanently to the record store when the probe
// fails at startup. All operations await the readiness of that probe; the
// await is idempotent because the channel is closed exactly once.
type BlobStore struct {
	records  *RecordStore
	objects  *ObjectStore
	logger   providers.Logger
	ready    chan struct{}
	degraded atomic.Bool
}

func NewBlobStore(conf *structures.Config, records *RecordStore, compressor interfaces.CompressorInterface, logger providers.Logger) *BlobStore {
	bs := &BlobStore{
		records: records,
		objects: newObjectStore(filepath.Join(conf.Storage.DataDir, "photos"), compressor, logger),
		logger:  logger,
		ready:   make(chan struct{}),
	}
	go bs.open()
	return bs
}

func (bs *BlobStore) open() {
	defer close(bs.ready)
	if err := bs.objects.Probe(); err != nil {
		bs.degraded.Store(true)
		bs.logger.Warnf(providers.TypeApp, "Photo object store unavailable, falling back to record store: %s", err)
	}
}

// Degraded reports whether the record store fallback is in use.
func (bs *BlobStore) Degraded() bool {
	return bs.degraded.Load()
}

func (bs *BlobStore) awaitReady(ctx context.Context) error {
	select {
	case <-bs.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func validMonth(month int) bool {
	return month >= 0 && month <= 12
}

// SavePhotos overwrites the whole stored sequence for a month.
func (bs *BlobStore) SavePhotos(ctx context.Context, month int, photos [][]byte) error {
	if !validMonth(month) {
		return ErrInvalidMonth
	}
	if photos == nil {
		return ErrInvalidPhotos
	}
	if err := bs.awaitReady(ctx); err != nil {
		return err
	}

	if bs.Degraded() {
		jsonData, err := json.Marshal(photos)
		if err != nil {
			return err
		}
		return bs.records.Put(photosKey(month), string(jsonData))
	}

	rec := &models.PhotoRecord{
		Month:     month,
		Photos:    photos,
		Timestamp: time.Now().UnixMilli(),
	}
	return bs.objects.Put(month, rec)
}

// GetPhotos returns the stored sequence for a month, or an empty sequence
// when none exists. A record stored in the superseded single-photo shape is
// transparently returned as a one-element sequence; when both shapes exist
// the sequence wins.
func (bs *BlobStore) GetPhotos(ctx context.Context, month int) ([][]byte, error) {
	if !validMonth(month) {
		return [][]byte{}, nil
	}
	if err := bs.awaitReady(ctx); err != nil {
		return nil, err
	}

	if bs.Degraded() {
		return bs.photosFromRecords(month), nil
	}

	if rec := bs.objects.Get(month); rec != nil {
		return rec.Sequence(), nil
	}
	if rec := bs.objects.GetLegacy(month); rec != nil {
		return rec.Sequence(), nil
	}
	return [][]byte{}, nil
}

// DeletePhotos removes the stored sequence for a month, both shapes included
// so the superseded record cannot resurface through migration.
func (bs *BlobStore) DeletePhotos(ctx context.Context, month int) error {
	if !validMonth(month) {
		return ErrInvalidMonth
	}
	if err := bs.awaitReady(ctx); err != nil {
		return err
	}

	if bs.Degraded() {
		if err := bs.records.Remove(photosKey(month)); err != nil {
			return err
		}
		return bs.records.Remove(legacyPhotoKey(month))
	}

	if err := bs.objects.Delete(month); err != nil {
		return err
	}
	return bs.objects.DeleteLegacy(month)
}

// SavePhoto persists one payload in the superseded single-photo shape,
// overwriting any previous single photo and leaving stored sequences alone.
func (bs *BlobStore) SavePhoto(ctx context.Context, month int, payload []byte) error {
	if !validMonth(month) {
		return ErrInvalidMonth
	}
	if len(payload) == 0 {
		return ErrInvalidPhotos
	}
	if err := bs.awaitReady(ctx); err != nil {
		return err
	}

	if bs.Degraded() {
		return bs.records.Put(legacyPhotoKey(month), base64.StdEncoding.EncodeToString(payload))
	}

	rec := &models.PhotoRecord{
		Month:     month,
		Blob:      payload,
		Timestamp: time.Now().UnixMilli(),
	}
	return bs.objects.PutLegacy(month, rec)
}

// GetPhoto returns the single stored photo base64-encoded, or "" when none
// exists.
func (bs *BlobStore) GetPhoto(ctx context.Context, month int) (string, error) {
	if !validMonth(month) {
		return "", nil
	}
	if err := bs.awaitReady(ctx); err != nil {
		return "", err
	}

	if bs.Degraded() {
		encoded, _ := bs.records.Get(legacyPhotoKey(month))
		return encoded, nil
	}

	rec := bs.objects.GetLegacy(month)
	if rec == nil || len(rec.Blob) == 0 {
		return "", nil
	}
	return base64.StdEncoding.EncodeToString(rec.Blob), nil
}

// DeletePhoto removes the single-photo record only.
func (bs *BlobStore) DeletePhoto(ctx context.Context, month int) error {
	if !validMonth(month) {
		return ErrInvalidMonth
	}
	if err := bs.awaitReady(ctx); err != nil {
		return err
	}

	if bs.Degraded() {
		return bs.records.Remove(legacyPhotoKey(month))
	}
	return bs.objects.DeleteLegacy(month)
}

// Clear wipes the object store collection. The fallback keys are owned by
// the record store and cleared by the storage manager.
func (bs *BlobStore) Clear(ctx context.Context) error {
	if err := bs.awaitReady(ctx); err != nil {
		return err
	}
	if bs.Degraded() {
		return nil
	}
	return bs.objects.Clear()
}

// photosFromRecords reads the fallback keys: the sequence key first, then
// the superseded single-photo key wrapped as a one-element sequence.
func (bs *BlobStore) photosFromRecords(month int) [][]byte {
	raw, ok := bs.records.Get(photosKey(month))
	if ok {
		var photos [][]byte
		if err := json.Unmarshal([]byte(raw), &photos); err != nil {
			bs.logger.Errorf(providers.TypeApp, "Corrupt fallback photos for month %d: %s", month, err)
			return [][]byte{}
		}
		if photos == nil {
			photos = [][]byte{}
		}
		return photos
	}

	encoded, ok := bs.records.Get(legacyPhotoKey(month))
	if !ok {
		return [][]byte{}
	}
	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		bs.logger.Errorf(providers.TypeApp, "Corrupt fallback photo for month %d: %s", month, err)
		return [][]byte{}
	}
	return [][]byte{payload}
}
