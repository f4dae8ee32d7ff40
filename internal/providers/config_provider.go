package providers

import (
	"fmt"
	"github.com/spf13/viper"
	"path/filepath"
	"strings"

	"bjd/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "BJD_LOG_LEVEL")
	viper.BindEnv("storage.dataDir", "BJD_DATA_DIR")
	viper.BindEnv("storage.maxRecordBytes", "BJD_MAX_RECORD_BYTES")
	viper.BindEnv("storage.backupInterval", "BJD_BACKUP_INTERVAL")
	viper.BindEnv("cache.enabled", "BJD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "BJD_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "BabyJourneyDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode
	conf.Demo = flags.DemoMode

	return &conf, nil
}
