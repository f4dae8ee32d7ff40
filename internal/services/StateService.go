package services

import (
	"context"
	"sync"

	"bjd/internal/models"
	"bjd/internal/providers"
	"bjd/internal/storage"
)

// AppState is the full in-memory snapshot handed to subscribers.
type AppState struct {
	CurrentMonth     int                   `json:"currentMonth"`
	IsEditing        bool                  `json:"isEditing"`
	IsShareModalOpen bool                  `json:"isShareModalOpen"`
	MonthsData       []*models.MonthRecord `json:"monthsData"`
}

// Listener receives the full state snapshot after every mutation,
// synchronously and in registration order.
type Listener func(AppState)

// MonthUpdate is a partial month record merge; nil fields are left alone.
type MonthUpdate struct {
	Story      *string
	Milestones []models.Milestone
	Photos     [][]byte
}

type StateServiceInterface interface {
	LoadFromStorage(ctx context.Context) error
	GetState() AppState
	GetMonthConfig(month int) *models.MonthConfig
	GetMonthData(month int) *models.MonthRecord
	SaveMonth(month int, update MonthUpdate) error
	SavePhotos(ctx context.Context, month int, photos [][]byte) error
	DeletePhotos(ctx context.Context, month int) error
	AddPhoto(month int, payload []byte)
	RemovePhoto(month int, index int)
	SetCurrentMonth(month int)
	StartEditing() bool
	StopEditing()
	SetShareModal(open bool)
	ToggleShareModal()
	Subscribe(l Listener) func()
	Reset()
}

// StateService mirrors the 13 month records in memory, seeded from the
// static month configuration and overlaid with whatever the storage manager
// has. It is the only mutation path for stories, milestones and photos at
// the cache level, and it is never updated when a persistence call fails.
type StateService struct {
	mu        sync.Mutex
	manager   *storage.StorageManager
	logger    providers.Logger
	state     AppState
	listeners []Listener
}

func NewStateService(manager *storage.StorageManager, logger providers.Logger) StateServiceInterface {
	ss := &StateService{
		manager: manager,
		logger:  logger,
	}
	ss.state = AppState{MonthsData: defaultMonthsData()}
	return ss
}

func defaultMonthsData() []*models.MonthRecord {
	data := make([]*models.MonthRecord, 13)
	for month := 0; month <= 12; month++ {
		data[month] = models.DefaultMonthRecord(month)
	}
	return data
}

// LoadFromStorage overlays saved records and photo sequences onto the
// synthesized defaults and restores the last-viewed month. Called once at
// startup, after the blob store probe settles.
func (ss *StateService) LoadFromStorage(ctx context.Context) error {
	ss.mu.Lock()

	for month := 0; month <= 12; month++ {
		rec := ss.state.MonthsData[month]
		if saved, ok := ss.manager.GetMonthData(month); ok {
			saved.Title = rec.Title
			rec = saved
		}

		photos, err := ss.manager.GetMonthPhotos(ctx, month)
		if err != nil {
			ss.mu.Unlock()
			return err
		}
		rec.Photos = photos
		ss.state.MonthsData[month] = rec
	}
	ss.state.CurrentMonth = ss.manager.GetProgress()

	snapshot := ss.snapshotLocked()
	ss.mu.Unlock()
	ss.notify(snapshot)
	return nil
}

func (ss *StateService) GetState() AppState {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.snapshotLocked()
}

func (ss *StateService) GetMonthConfig(month int) *models.MonthConfig {
	return models.GetMonthConfig(month)
}

func (ss *StateService) GetMonthData(month int) *models.MonthRecord {
	if month < 0 || month > 12 {
		return nil
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.state.MonthsData[month].Clone()
}

// SaveMonth persists the merged record and only then updates the cache and
// notifies subscribers.
func (ss *StateService) SaveMonth(month int, update MonthUpdate) error {
	if month < 0 || month > 12 {
		return storage.ErrInvalidMonth
	}

	ss.mu.Lock()
	merged := ss.state.MonthsData[month].Clone()
	applyUpdate(merged, update)
	merged.Customized = true
	ss.mu.Unlock()

	if err := ss.manager.SaveMonthData(month, merged); err != nil {
		return err
	}

	ss.mu.Lock()
	ss.state.MonthsData[month] = merged
	snapshot := ss.snapshotLocked()
	ss.mu.Unlock()
	ss.notify(snapshot)
	return nil
}

// SavePhotos overwrites the stored photo sequence and refreshes the cached
// record from the blob store, which stays the source of truth.
func (ss *StateService) SavePhotos(ctx context.Context, month int, photos [][]byte) error {
	if err := ss.manager.SaveMonthPhotos(ctx, month, photos); err != nil {
		return err
	}
	return ss.refreshPhotos(ctx, month)
}

// DeletePhotos drops the stored sequence and refreshes the cache.
func (ss *StateService) DeletePhotos(ctx context.Context, month int) error {
	if err := ss.manager.DeleteMonthPhotos(ctx, month); err != nil {
		return err
	}
	return ss.refreshPhotos(ctx, month)
}

func (ss *StateService) refreshPhotos(ctx context.Context, month int) error {
	photos, err := ss.manager.GetMonthPhotos(ctx, month)
	if err != nil {
		return err
	}

	ss.mu.Lock()
	rec := ss.state.MonthsData[month]
	rec.Photos = photos
	rec.Customized = true
	snapshot := ss.snapshotLocked()
	ss.mu.Unlock()
	ss.notify(snapshot)
	return nil
}

// AddPhoto appends a payload to the cached photo list (memory only; the
// caller persists through SavePhotos).
func (ss *StateService) AddPhoto(month int, payload []byte) {
	if month < 0 || month > 12 {
		return
	}
	ss.mu.Lock()
	rec := ss.state.MonthsData[month]
	rec.Photos = append(rec.Photos, payload)
	rec.Customized = true
	snapshot := ss.snapshotLocked()
	ss.mu.Unlock()
	ss.notify(snapshot)
}

// RemovePhoto drops one cached photo by index; out of bounds is a no-op.
func (ss *StateService) RemovePhoto(month int, index int) {
	if month < 0 || month > 12 {
		return
	}
	ss.mu.Lock()
	rec := ss.state.MonthsData[month]
	if index < 0 || index >= len(rec.Photos) {
		ss.mu.Unlock()
		return
	}
	rec.Photos = append(rec.Photos[:index], rec.Photos[index+1:]...)
	rec.Customized = true
	snapshot := ss.snapshotLocked()
	ss.mu.Unlock()
	ss.notify(snapshot)
}

func (ss *StateService) SetCurrentMonth(month int) {
	if month < 0 || month > 12 {
		return
	}
	ss.mu.Lock()
	ss.state.CurrentMonth = month
	snapshot := ss.snapshotLocked()
	ss.mu.Unlock()
	ss.notify(snapshot)
}

// StartEditing enters edit mode; entering while already editing is a no-op
// and reports false.
func (ss *StateService) StartEditing() bool {
	ss.mu.Lock()
	if ss.state.IsEditing {
		ss.mu.Unlock()
		return false
	}
	ss.state.IsEditing = true
	snapshot := ss.snapshotLocked()
	ss.mu.Unlock()
	ss.notify(snapshot)
	return true
}

// StopEditing leaves edit mode on save or cancel.
func (ss *StateService) StopEditing() {
	ss.mu.Lock()
	if !ss.state.IsEditing {
		ss.mu.Unlock()
		return
	}
	ss.state.IsEditing = false
	snapshot := ss.snapshotLocked()
	ss.mu.Unlock()
	ss.notify(snapshot)
}

func (ss *StateService) SetShareModal(open bool) {
	ss.mu.Lock()
	ss.state.IsShareModalOpen = open
	snapshot := ss.snapshotLocked()
	ss.mu.Unlock()
	ss.notify(snapshot)
}

func (ss *StateService) ToggleShareModal() {
	ss.mu.Lock()
	ss.state.IsShareModalOpen = !ss.state.IsShareModalOpen
	snapshot := ss.snapshotLocked()
	ss.mu.Unlock()
	ss.notify(snapshot)
}

// Subscribe registers a listener and returns its unsubscribe func.
func (ss *StateService) Subscribe(l Listener) func() {
	if l == nil {
		return func() {}
	}
	ss.mu.Lock()
	ss.listeners = append(ss.listeners, l)
	index := len(ss.listeners) - 1
	ss.mu.Unlock()

	return func() {
		ss.mu.Lock()
		defer ss.mu.Unlock()
		if index < len(ss.listeners) && ss.listeners[index] != nil {
			ss.listeners[index] = nil
		}
	}
}

// Reset re-synthesizes all defaults in memory; persistent storage is left
// alone (the caller clears it separately when wanted).
func (ss *StateService) Reset() {
	ss.mu.Lock()
	ss.state = AppState{MonthsData: defaultMonthsData()}
	snapshot := ss.snapshotLocked()
	ss.mu.Unlock()
	ss.notify(snapshot)
}

func (ss *StateService) snapshotLocked() AppState {
	snapshot := ss.state
	snapshot.MonthsData = make([]*models.MonthRecord, len(ss.state.MonthsData))
	for i, rec := range ss.state.MonthsData {
		snapshot.MonthsData[i] = rec.Clone()
	}
	return snapshot
}

func (ss *StateService) notify(snapshot AppState) {
	ss.mu.Lock()
	listeners := make([]Listener, len(ss.listeners))
	copy(listeners, ss.listeners)
	ss.mu.Unlock()

	for _, l := range listeners {
		if l != nil {
			l(snapshot)
		}
	}
}

func applyUpdate(rec *models.MonthRecord, update MonthUpdate) {
	if update.Story != nil {
		rec.Story = *update.Story
	}
	if update.Milestones != nil {
		rec.Milestones = update.Milestones
	}
	if update.Photos != nil {
		rec.Photos = update.Photos
	}
}
