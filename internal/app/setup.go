package app

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/meshplus/bitxhub-kit/log"
	"github.com/meshplus/ethbridge/internal/loggers"
	"github.com/meshplus/ethbridge/internal/repo"
)

// Setup loads the config of repoRoot and initializes logging. Log levels
// follow later edits of the config file.
func Setup(repoRoot string) (*repo.Config, error) {
	repo.SetPath(repoRoot)

	config, err := repo.UnmarshalConfig(repoRoot)
	if err != nil {
		return nil, fmt.Errorf("init config error: %s", err)
	}

	err = log.Initialize(
		log.WithReportCaller(config.Log.ReportCaller),
		log.WithPersist(true),
		log.WithFilePath(filepath.Join(repoRoot, config.Log.Dir)),
		log.WithFileName(config.Log.Filename),
		log.WithMaxSize(2*1024*1024),
		log.WithMaxAge(24*time.Hour),
		log.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		return nil, fmt.Errorf("log initialize: %w", err)
	}

	loggers.InitializeLogger(config)

	if err := repo.InitConfig(filepath.Join(repoRoot, repo.ConfigName), loggers.SetLevels); err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}
	return config, nil
}
