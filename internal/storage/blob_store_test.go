package storage

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bjd/internal/testutil"
)

func newTestBlobStore(t *testing.T) *BlobStore {
	t.Helper()
	conf := storageConfig(t.TempDir(), 0)
	logger := &testutil.MockLogger{}
	records, err := NewRecordStore(conf, logger)
	require.NoError(t, err)

	bs := NewBlobStore(conf, records, &testutil.MockCompressor{}, logger)
	require.NoError(t, bs.awaitReady(context.Background()))
	return bs
}

// newDegradedBlobStore blocks the photo directory with a plain file so the
// startup probe fails and the store falls back to the record store.
func newDegradedBlobStore(t *testing.T) *BlobStore {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "photos"), []byte("in the way"), 0644))

	conf := storageConfig(dir, 0)
	logger := &testutil.MockLogger{}
	records, err := NewRecordStore(conf, logger)
	require.NoError(t, err)

	bs := NewBlobStore(conf, records, &testutil.MockCompressor{}, logger)
	require.NoError(t, bs.awaitReady(context.Background()))
	require.True(t, bs.Degraded())
	return bs
}

func TestBlobStore_SaveAndGetPhotos(t *testing.T) {
	bs := newTestBlobStore(t)
	ctx := context.Background()

	photos := [][]byte{[]byte("one"), []byte("two"), []byte("three")}
	require.NoError(t, bs.SavePhotos(ctx, 3, photos))

	got, err := bs.GetPhotos(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, photos, got)
}

func TestBlobStore_GetPhotosAbsentIsEmpty(t *testing.T) {
	bs := newTestBlobStore(t)

	got, err := bs.GetPhotos(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{}, got)
}

func TestBlobStore_SavePhotosNilRejected(t *testing.T) {
	bs := newTestBlobStore(t)
	err := bs.SavePhotos(context.Background(), 3, nil)
	assert.ErrorIs(t, err, ErrInvalidPhotos)
}

func TestBlobStore_SavePhotosEmptySliceAllowed(t *testing.T) {
	bs := newTestBlobStore(t)
	ctx := context.Background()

	require.NoError(t, bs.SavePhotos(ctx, 3, [][]byte{[]byte("p")}))
	require.NoError(t, bs.SavePhotos(ctx, 3, [][]byte{}))

	got, err := bs.GetPhotos(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{}, got)
}

func TestBlobStore_InvalidMonth(t *testing.T) {
	bs := newTestBlobStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, bs.SavePhotos(ctx, 13, [][]byte{[]byte("p")}), ErrInvalidMonth)
	assert.ErrorIs(t, bs.SavePhotos(ctx, -1, [][]byte{[]byte("p")}), ErrInvalidMonth)
	assert.ErrorIs(t, bs.DeletePhotos(ctx, 13), ErrInvalidMonth)
	assert.ErrorIs(t, bs.SavePhoto(ctx, 13, []byte("p")), ErrInvalidMonth)

	got, err := bs.GetPhotos(ctx, 13)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{}, got)
}

func TestBlobStore_LegacyRecordReadAsSequence(t *testing.T) {
	bs := newTestBlobStore(t)
	ctx := context.Background()

	require.NoError(t, bs.SavePhoto(ctx, 6, []byte("old photo")))

	got, err := bs.GetPhotos(ctx, 6)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("old photo")}, got)
}

func TestBlobStore_SequenceWinsOverLegacy(t *testing.T) {
	bs := newTestBlobStore(t)
	ctx := context.Background()

	require.NoError(t, bs.SavePhoto(ctx, 6, []byte("old photo")))
	require.NoError(t, bs.SavePhotos(ctx, 6, [][]byte{[]byte("new1"), []byte("new2")}))

	got, err := bs.GetPhotos(ctx, 6)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("new1"), []byte("new2")}, got)
}

func TestBlobStore_DeletePhotosRemovesBothShapes(t *testing.T) {
	bs := newTestBlobStore(t)
	ctx := context.Background()

	require.NoError(t, bs.SavePhoto(ctx, 2, []byte("single")))
	require.NoError(t, bs.SavePhotos(ctx, 2, [][]byte{[]byte("seq")}))
	require.NoError(t, bs.DeletePhotos(ctx, 2))

	got, err := bs.GetPhotos(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{}, got)

	single, err := bs.GetPhoto(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, single)
}

func TestBlobStore_SingleSaveAndGet(t *testing.T) {
	bs := newTestBlobStore(t)
	ctx := context.Background()

	payload := []byte{0x01, 0x02, 0x03}
	require.NoError(t, bs.SavePhoto(ctx, 8, payload))

	encoded, err := bs.GetPhoto(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString(payload), encoded)
}

func TestBlobStore_SavePhotoEmptyRejected(t *testing.T) {
	bs := newTestBlobStore(t)
	assert.ErrorIs(t, bs.SavePhoto(context.Background(), 8, nil), ErrInvalidPhotos)
}

func TestBlobStore_DeletePhotoLeavesSequence(t *testing.T) {
	bs := newTestBlobStore(t)
	ctx := context.Background()

	require.NoError(t, bs.SavePhotos(ctx, 4, [][]byte{[]byte("seq")}))
	require.NoError(t, bs.SavePhoto(ctx, 4, []byte("single")))
	require.NoError(t, bs.DeletePhoto(ctx, 4))

	got, err := bs.GetPhotos(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("seq")}, got)
}

func TestBlobStore_AwaitReadyRespectsContext(t *testing.T) {
	bs := &BlobStore{ready: make(chan struct{})}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := bs.awaitReady(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBlobStore_DegradedFallsBackToRecords(t *testing.T) {
	bs := newDegradedBlobStore(t)
	ctx := context.Background()

	photos := [][]byte{[]byte("one"), []byte("two")}
	require.NoError(t, bs.SavePhotos(ctx, 3, photos))

	got, err := bs.GetPhotos(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, photos, got)

	// the payload really lives in the record store
	_, ok := bs.records.Get(photosKey(3))
	assert.True(t, ok)
}

func TestBlobStore_DegradedLegacyMigration(t *testing.T) {
	bs := newDegradedBlobStore(t)
	ctx := context.Background()

	require.NoError(t, bs.SavePhoto(ctx, 9, []byte("legacy")))

	got, err := bs.GetPhotos(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("legacy")}, got)
}

func TestBlobStore_DegradedSequenceWinsOverLegacy(t *testing.T) {
	bs := newDegradedBlobStore(t)
	ctx := context.Background()

	require.NoError(t, bs.SavePhoto(ctx, 9, []byte("legacy")))
	require.NoError(t, bs.SavePhotos(ctx, 9, [][]byte{[]byte("seq")}))

	got, err := bs.GetPhotos(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("seq")}, got)
}

func TestBlobStore_DegradedDelete(t *testing.T) {
	bs := newDegradedBlobStore(t)
	ctx := context.Background()

	require.NoError(t, bs.SavePhotos(ctx, 1, [][]byte{[]byte("p")}))
	require.NoError(t, bs.SavePhoto(ctx, 1, []byte("single")))
	require.NoError(t, bs.DeletePhotos(ctx, 1))

	got, err := bs.GetPhotos(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{}, got)
}

func TestBlobStore_CorruptFallbackReadsAsEmpty(t *testing.T) {
	bs := newDegradedBlobStore(t)
	ctx := context.Background()

	require.NoError(t, bs.records.Put(photosKey(5), "{corrupt"))

	got, err := bs.GetPhotos(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{}, got)
}

func TestBlobStore_CorruptRecordReadsAsAbsent(t *testing.T) {
	bs := newTestBlobStore(t)
	ctx := context.Background()

	require.NoError(t, bs.SavePhotos(ctx, 7, [][]byte{[]byte("p")}))
	require.NoError(t, os.WriteFile(bs.objects.sequencePath(7), []byte("garbage that is not json"), 0644))

	got, err := bs.GetPhotos(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{}, got)
}

func TestBlobStore_PhotoRecordRoundtripShape(t *testing.T) {
	bs := newTestBlobStore(t)
	ctx := context.Background()

	require.NoError(t, bs.SavePhotos(ctx, 10, [][]byte{[]byte("p")}))

	rec := bs.objects.Get(10)
	require.NotNil(t, rec)
	assert.Equal(t, 10, rec.Month)
	assert.NotZero(t, rec.Timestamp)
	assert.Nil(t, rec.Blob)
}
