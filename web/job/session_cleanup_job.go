package job

import (
	"github.com/libdesk/libdesk/logger"
	"github.com/libdesk/libdesk/util/common"
)

// SessionStore is the part of the session store the cleanup job needs.
type SessionStore interface {
	Cleanup() (int64, error)
}

// SessionCleanupJob deletes expired rows from the sessions table.
type SessionCleanupJob struct {
	store SessionStore
}

func NewSessionCleanupJob(store SessionStore) *SessionCleanupJob {
	return &SessionCleanupJob{store: store}
}

func (j *SessionCleanupJob) Run() {
	defer common.Recover("session cleanup job")
	removed, err := j.store.Cleanup()
	if err != nil {
		logger.Warning("session cleanup job err:", err)
		return
	}
	if removed > 0 {
		logger.Infof("removed %d expired sessions", removed)
	}
}
