package storage

import (
	"context"
	"os"
	"sync"

	"github.com/roylee0704/gron"

	"bjd/internal/providers"
	"bjd/internal/storage/interfaces"
	"bjd/internal/structures"
)

// Scheduler periodically snapshots the record store to a compressed backup
// and refreshes storage gauges. Restore is called once at startup and falls
// back to the backup when the primary file is gone.
type Scheduler struct {
	config     *structures.Config
	logger     providers.Logger
	records    *RecordStore
	manager    *StorageManager
	compressor interfaces.CompressorInterface
	metrics    providers.MetricsProviderInterface
	cron       *gron.Cron
	opsMu      sync.Mutex
}

func NewScheduler(config *structures.Config, logger providers.Logger, records *RecordStore, manager *StorageManager, compressor interfaces.CompressorInterface, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:     config,
		logger:     logger,
		records:    records,
		manager:    manager,
		compressor: compressor,
		metrics:    metrics,
	}
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Storage.BackupInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		if err := s.backup(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while backing up records: %s", err)
			return
		}
		s.refreshGauges()
		s.logger.Infof(providers.TypeApp, "Backed up records to %s", s.backupPath())
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Restore rebuilds records.json from the backup when the primary file is
// missing. An intact primary always wins.
func (s *Scheduler) Restore() error {
	if _, err := os.Stat(s.records.Path()); err == nil {
		return nil
	}

	data, err := os.ReadFile(s.backupPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressed, err := s.compressor.Decompress(data)
	if err != nil {
		return err
	}

	if err := os.WriteFile(s.records.Path(), decompressed, 0644); err != nil {
		return err
	}
	s.records.Reload()
	s.logger.Warnf(providers.TypeApp, "Primary record file missing, restored from backup")
	return nil
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Backing up records...")
	if err := s.backup(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while backing up records: %s", err)
		return err
	}
	return nil
}

func (s *Scheduler) backupPath() string {
	return s.records.Path() + ".bak.zst"
}

func (s *Scheduler) backup() error {
	data, err := os.ReadFile(s.records.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	compressed, err := s.compressor.Compress(data)
	if err != nil {
		return err
	}

	tmpFile := s.backupPath() + ".tmp"
	if err := os.WriteFile(tmpFile, compressed, 0644); err != nil {
		return err
	}
	return os.Rename(tmpFile, s.backupPath())
}

func (s *Scheduler) refreshGauges() {
	s.metrics.SetCustomizedMonths(s.manager.CustomizedCount())
	s.metrics.SetDegradedBackend(s.manager.Degraded())

	ctx := context.Background()
	for month := 0; month <= 12; month++ {
		photos, err := s.manager.GetMonthPhotos(ctx, month)
		if err != nil {
			continue
		}
		s.metrics.SetPhotosTotal(month, len(photos))
	}
}
