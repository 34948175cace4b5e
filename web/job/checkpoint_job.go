// Package job holds the cron jobs run by the web server.
package job

import (
	"github.com/libdesk/libdesk/database"
	"github.com/libdesk/libdesk/logger"
	"github.com/libdesk/libdesk/util/common"
)

// CheckpointJob folds the SQLite write-ahead log back into the database file.
type CheckpointJob struct{}

func NewCheckpointJob() *CheckpointJob {
	return new(CheckpointJob)
}

func (j *CheckpointJob) Run() {
	defer common.Recover("checkpoint job")
	if !database.IsSQLite() {
		return
	}
	if err := database.Checkpoint(); err != nil {
		logger.Warning("checkpoint job err:", err)
		return
	}
	logger.Debug("sqlite wal checkpoint done")
}
