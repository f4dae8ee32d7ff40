package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bjd/internal/models"
	"bjd/internal/storage"
	"bjd/internal/structures"
	"bjd/internal/testutil"
)

func newTestStack(t *testing.T, maxBytes int) (StateServiceInterface, *storage.StorageManager) {
	t.Helper()
	conf := &structures.Config{
		Storage: structures.StorageConfig{
			DataDir:        t.TempDir(),
			MaxRecordBytes: maxBytes,
		},
	}
	logger := &testutil.MockLogger{}
	records, err := storage.NewRecordStore(conf, logger)
	require.NoError(t, err)

	blobs := storage.NewBlobStore(conf, records, &testutil.MockCompressor{}, logger)
	// Wait for the blob store's startup probe so t.TempDir cleanup does not
	// race with the probe goroutine writing under the data dir.
	_, err = blobs.GetPhotos(context.Background(), 0)
	require.NoError(t, err)
	manager := storage.NewStorageManager(records, blobs, testutil.NewMockMetrics(), logger)
	return NewStateService(manager, logger), manager
}

func strPtr(s string) *string { return &s }

func TestStateService_DefaultState(t *testing.T) {
	ss, _ := newTestStack(t, 0)

	state := ss.GetState()
	assert.Equal(t, 0, state.CurrentMonth)
	assert.False(t, state.IsEditing)
	assert.False(t, state.IsShareModalOpen)
	require.Len(t, state.MonthsData, 13)

	for month, rec := range state.MonthsData {
		assert.Equal(t, month, rec.Month)
		assert.False(t, rec.Customized)
		assert.Equal(t, models.MonthsConfig[month].Title, rec.Title)
	}
}

func TestStateService_GetMonthDataIsACopy(t *testing.T) {
	ss, _ := newTestStack(t, 0)

	rec := ss.GetMonthData(4)
	require.NotNil(t, rec)
	rec.Story = "mutated"

	assert.NotEqual(t, "mutated", ss.GetMonthData(4).Story)
}

func TestStateService_GetMonthDataOutOfRange(t *testing.T) {
	ss, _ := newTestStack(t, 0)
	assert.Nil(t, ss.GetMonthData(-1))
	assert.Nil(t, ss.GetMonthData(13))
}

func TestStateService_SaveMonthMergesAndPersists(t *testing.T) {
	ss, manager := newTestStack(t, 0)

	err := ss.SaveMonth(3, MonthUpdate{Story: strPtr("our story")})
	require.NoError(t, err)

	cached := ss.GetMonthData(3)
	assert.Equal(t, "our story", cached.Story)
	assert.True(t, cached.Customized)
	// untouched fields keep their defaults
	assert.Equal(t, models.MonthsConfig[3].DefaultMilestones, cached.Milestones)

	saved, ok := manager.GetMonthData(3)
	require.True(t, ok)
	assert.Equal(t, "our story", saved.Story)
}

func TestStateService_SaveMonthInvalidMonth(t *testing.T) {
	ss, _ := newTestStack(t, 0)
	assert.ErrorIs(t, ss.SaveMonth(13, MonthUpdate{}), storage.ErrInvalidMonth)
}

func TestStateService_SaveMonthKeepsCacheOnPersistFailure(t *testing.T) {
	// a tiny quota makes every record write fail
	ss, _ := newTestStack(t, 32)

	err := ss.SaveMonth(3, MonthUpdate{Story: strPtr("will not fit in the quota, not even close")})
	require.ErrorIs(t, err, storage.ErrQuotaExceeded)

	cached := ss.GetMonthData(3)
	assert.NotEqual(t, "will not fit in the quota, not even close", cached.Story)
	assert.False(t, cached.Customized)
}

func TestStateService_SavePhotosRefreshesCache(t *testing.T) {
	ss, _ := newTestStack(t, 0)
	ctx := context.Background()

	photos := [][]byte{[]byte("a"), []byte("b")}
	require.NoError(t, ss.SavePhotos(ctx, 5, photos))

	cached := ss.GetMonthData(5)
	assert.Equal(t, photos, cached.Photos)
}

func TestStateService_DeletePhotosRefreshesCache(t *testing.T) {
	ss, _ := newTestStack(t, 0)
	ctx := context.Background()

	require.NoError(t, ss.SavePhotos(ctx, 5, [][]byte{[]byte("a")}))
	require.NoError(t, ss.DeletePhotos(ctx, 5))

	assert.Empty(t, ss.GetMonthData(5).Photos)
}

func TestStateService_SavePhotosInvalidInput(t *testing.T) {
	ss, _ := newTestStack(t, 0)
	ctx := context.Background()

	assert.ErrorIs(t, ss.SavePhotos(ctx, 13, [][]byte{}), storage.ErrInvalidMonth)
	assert.ErrorIs(t, ss.SavePhotos(ctx, 3, nil), storage.ErrInvalidPhotos)
}

func TestStateService_AddAndRemovePhotoAreMemoryOnly(t *testing.T) {
	ss, manager := newTestStack(t, 0)

	ss.AddPhoto(2, []byte("p1"))
	ss.AddPhoto(2, []byte("p2"))
	assert.Len(t, ss.GetMonthData(2).Photos, 2)

	ss.RemovePhoto(2, 0)
	cached := ss.GetMonthData(2)
	require.Len(t, cached.Photos, 1)
	assert.Equal(t, []byte("p2"), cached.Photos[0])

	// nothing reached persistent storage
	stored, err := manager.GetMonthPhotos(context.Background(), 2)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestStateService_RemovePhotoOutOfBounds(t *testing.T) {
	ss, _ := newTestStack(t, 0)

	ss.AddPhoto(2, []byte("p1"))
	ss.RemovePhoto(2, 5)
	ss.RemovePhoto(2, -1)

	assert.Len(t, ss.GetMonthData(2).Photos, 1)
}

func TestStateService_SetCurrentMonth(t *testing.T) {
	ss, _ := newTestStack(t, 0)

	ss.SetCurrentMonth(9)
	assert.Equal(t, 9, ss.GetState().CurrentMonth)

	// out of range is ignored
	ss.SetCurrentMonth(13)
	assert.Equal(t, 9, ss.GetState().CurrentMonth)
}

func TestStateService_EditingLifecycle(t *testing.T) {
	ss, _ := newTestStack(t, 0)

	assert.True(t, ss.StartEditing())
	assert.True(t, ss.GetState().IsEditing)

	// entering again is refused
	assert.False(t, ss.StartEditing())

	ss.StopEditing()
	assert.False(t, ss.GetState().IsEditing)
}

func TestStateService_ShareModal(t *testing.T) {
	ss, _ := newTestStack(t, 0)

	ss.SetShareModal(true)
	assert.True(t, ss.GetState().IsShareModalOpen)

	ss.ToggleShareModal()
	assert.False(t, ss.GetState().IsShareModalOpen)

	ss.ToggleShareModal()
	assert.True(t, ss.GetState().IsShareModalOpen)
}

func TestStateService_SubscribeNotifiedInOrder(t *testing.T) {
	ss, _ := newTestStack(t, 0)

	var order []string
	ss.Subscribe(func(_ AppState) { order = append(order, "first") })
	ss.Subscribe(func(_ AppState) { order = append(order, "second") })

	ss.SetCurrentMonth(1)

	assert.Equal(t, []string{"first", "second"}, order)
}

func TestStateService_SubscriberGetsSnapshot(t *testing.T) {
	ss, _ := newTestStack(t, 0)

	var got AppState
	ss.Subscribe(func(s AppState) { got = s })

	ss.SetCurrentMonth(7)

	assert.Equal(t, 7, got.CurrentMonth)
	require.Len(t, got.MonthsData, 13)

	// mutating the snapshot must not leak back into the service
	got.MonthsData[0].Story = "mutated"
	assert.NotEqual(t, "mutated", ss.GetMonthData(0).Story)
}

func TestStateService_Unsubscribe(t *testing.T) {
	ss, _ := newTestStack(t, 0)

	calls := 0
	unsubscribe := ss.Subscribe(func(_ AppState) { calls++ })

	ss.SetCurrentMonth(1)
	unsubscribe()
	ss.SetCurrentMonth(2)

	assert.Equal(t, 1, calls)
}

func TestStateService_UnsubscribePreservesOthers(t *testing.T) {
	ss, _ := newTestStack(t, 0)

	var order []string
	first := ss.Subscribe(func(_ AppState) { order = append(order, "first") })
	ss.Subscribe(func(_ AppState) { order = append(order, "second") })

	first()
	ss.SetCurrentMonth(1)

	assert.Equal(t, []string{"second"}, order)
}

func TestStateService_SubscribeNil(t *testing.T) {
	ss, _ := newTestStack(t, 0)
	unsubscribe := ss.Subscribe(nil)
	unsubscribe()
	ss.SetCurrentMonth(1)
}

func TestStateService_ResetLeavesStorageAlone(t *testing.T) {
	ss, manager := newTestStack(t, 0)

	require.NoError(t, ss.SaveMonth(3, MonthUpdate{Story: strPtr("saved")}))
	ss.SetCurrentMonth(3)

	ss.Reset()

	state := ss.GetState()
	assert.Equal(t, 0, state.CurrentMonth)
	assert.False(t, state.MonthsData[3].Customized)

	// persistent data survives
	saved, ok := manager.GetMonthData(3)
	require.True(t, ok)
	assert.Equal(t, "saved", saved.Story)
}

func TestStateService_LoadFromStorageOverlaysSavedData(t *testing.T) {
	ss, manager := newTestStack(t, 0)
	ctx := context.Background()

	require.NoError(t, manager.SaveMonthData(2, &models.MonthRecord{Story: "saved story"}))
	require.NoError(t, manager.SaveMonthPhotos(ctx, 2, [][]byte{[]byte("photo")}))
	require.NoError(t, manager.SaveProgress(2))

	require.NoError(t, ss.LoadFromStorage(ctx))

	state := ss.GetState()
	assert.Equal(t, 2, state.CurrentMonth)

	rec := state.MonthsData[2]
	assert.Equal(t, "saved story", rec.Story)
	assert.True(t, rec.Customized)
	assert.Equal(t, [][]byte{[]byte("photo")}, rec.Photos)
	// the display title always comes from the static configuration
	assert.Equal(t, models.MonthsConfig[2].Title, rec.Title)

	// untouched months keep their defaults
	assert.False(t, state.MonthsData[3].Customized)
}

func TestSeedDemoData(t *testing.T) {
	ss, manager := newTestStack(t, 0)
	logger := &testutil.MockLogger{}

	require.NoError(t, SeedDemoData(manager, logger))
	assert.True(t, manager.IsDemoSeeded())

	rec, ok := manager.GetMonthData(0)
	require.True(t, ok)
	assert.NotEmpty(t, rec.Story)

	for _, month := range []int{1, 2, 6, 12} {
		_, ok := manager.GetMonthData(month)
		assert.True(t, ok, "month %d should be seeded", month)
	}
	_, ok = manager.GetMonthData(3)
	assert.False(t, ok)

	// the state cache picks the seeds up on load
	require.NoError(t, ss.LoadFromStorage(context.Background()))
	assert.True(t, ss.GetState().MonthsData[6].Customized)
}

func TestSeedDemoData_Idempotent(t *testing.T) {
	_, manager := newTestStack(t, 0)
	logger := &testutil.MockLogger{}

	require.NoError(t, SeedDemoData(manager, logger))
	first, _ := manager.GetMonthData(0)

	require.NoError(t, manager.SaveMonthData(0, &models.MonthRecord{Story: "user edit"}))
	require.NoError(t, SeedDemoData(manager, logger))

	second, ok := manager.GetMonthData(0)
	require.True(t, ok)
	assert.Equal(t, "user edit", second.Story)
	assert.NotEqual(t, first.Story, second.Story)
}
