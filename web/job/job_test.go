package job

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/libdesk/libdesk/caching"
	"github.com/libdesk/libdesk/config"
	"github.com/libdesk/libdesk/database"
	"github.com/libdesk/libdesk/logger"
	"github.com/libdesk/libdesk/web/service"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) {
	t.Helper()
	t.Setenv("LIBDESK_LOG_FOLDER", t.TempDir())
	logger.InitLogger(logging.DEBUG)
	t.Cleanup(logger.CloseLogger)

	err := database.InitDB(&config.DatabaseConfig{
		Type:   config.DatabaseTypeSQLite,
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "job.db")},
	})
	require.NoError(t, err)
	t.Cleanup(func() { database.CloseDB() })
}

func TestCheckpointJob(t *testing.T) {
	setupDB(t)
	assert.NotPanics(t, NewCheckpointJob().Run)
}

func TestCirculationReportJob(t *testing.T) {
	setupDB(t)
	db := database.GetDB()
	cache := caching.NewCache(time.Minute)

	books := service.NewBookService(db, cache)
	students := service.NewStudentService(db, cache)
	issues := service.NewIssueService(db, cache)

	book, err := books.AddBook("X", "Author", "1111111111111")
	require.NoError(t, err)
	student, err := students.AddStudent("A", "a@example.com")
	require.NoError(t, err)
	_, err = issues.IssueBook(book.Id, student.Id)
	require.NoError(t, err)

	NewCirculationReportJob(service.NewDashboardService(db, cache), issues, 24*time.Hour).Run()

	logs := circulationReport(t)
	assert.Contains(t, logs, "students=1 books=1 available=0 on_loan=1 issued=1 returned=0")
}

func circulationReport(t *testing.T) string {
	t.Helper()
	for _, line := range logger.GetLogs(20, "INFO") {
		if strings.Contains(line, "circulation report:") {
			return line
		}
	}
	t.Fatal("no circulation report logged")
	return ""
}

type fakeStore struct {
	removed int64
	err     error
	calls   int
}

func (f *fakeStore) Cleanup() (int64, error) {
	f.calls++
	return f.removed, f.err
}

func TestSessionCleanupJob(t *testing.T) {
	store := &fakeStore{removed: 2}
	NewSessionCleanupJob(store).Run()
	assert.Equal(t, 1, store.calls)

	failing := &fakeStore{err: errors.New("db closed")}
	assert.NotPanics(t, NewSessionCleanupJob(failing).Run)
}
