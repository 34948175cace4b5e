// Package logger provides leveled logging for libdesk on top of go-logging,
// writing to stderr and, once InitLogger runs, to a log file. Recent entries
// are kept in memory so the CLI and tests can inspect them.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/libdesk/libdesk/config"
	"github.com/op/go-logging"
)

const (
	module           = "libdesk"
	maxLogBufferSize = 4096
	logFileName      = "libdesk.log"
	timeFormat       = "2006/01/02 15:04:05"
)

type entry struct {
	time  string
	level logging.Level
	log   string
}

var (
	logger  *logging.Logger
	logFile *os.File

	bufMu     sync.Mutex
	logBuffer []entry
)

func init() {
	logger = logging.MustGetLogger(module)
	logger.SetBackend(leveled(consoleBackend(), logging.WARNING))
}

// InitLogger sets the console level and adds a DEBUG-level file backend under
// config.GetLogFolder. A file that cannot be opened is reported on stderr and skipped.
func InitLogger(level logging.Level) {
	backends := []logging.Backend{leveled(consoleBackend(), level)}
	if fb := fileBackend(); fb != nil {
		backends = append(backends, leveled(fb, logging.DEBUG))
	}
	logger.SetBackend(logging.MultiLogger(backends...))
}

func leveled(b logging.Backend, level logging.Level) logging.LeveledBackend {
	lb := logging.AddModuleLevel(b)
	lb.SetLevel(level, module)
	return lb
}

func consoleBackend() logging.Backend {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	return logging.NewBackendFormatter(backend, newFormatter())
}

func fileBackend() logging.Backend {
	logDir := config.GetLogFolder()
	if err := os.MkdirAll(logDir, 0o750); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log folder %s: %v\n", logDir, err)
		return nil
	}

	logPath := filepath.Join(logDir, logFileName)
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o660)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", logPath, err)
		return nil
	}
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = file

	return logging.NewBackendFormatter(logging.NewLogBackend(file, "", 0), newFormatter())
}

func newFormatter() logging.Formatter {
	return logging.MustStringFormatter(`%{time:` + timeFormat + `} %{level} - %{message}`)
}

// CloseLogger closes the log file. Console logging keeps working afterwards.
func CloseLogger() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	logger.SetBackend(leveled(consoleBackend(), logging.WARNING))
}

func Debug(args ...any) {
	logger.Debug(args...)
	addToBuffer(logging.DEBUG, fmt.Sprint(args...))
}

func Debugf(format string, args ...any) {
	logger.Debugf(format, args...)
	addToBuffer(logging.DEBUG, fmt.Sprintf(format, args...))
}

func Info(args ...any) {
	logger.Info(args...)
	addToBuffer(logging.INFO, fmt.Sprint(args...))
}

func Infof(format string, args ...any) {
	logger.Infof(format, args...)
	addToBuffer(logging.INFO, fmt.Sprintf(format, args...))
}

func Notice(args ...any) {
	logger.Notice(args...)
	addToBuffer(logging.NOTICE, fmt.Sprint(args...))
}

func Noticef(format string, args ...any) {
	logger.Noticef(format, args...)
	addToBuffer(logging.NOTICE, fmt.Sprintf(format, args...))
}

func Warning(args ...any) {
	logger.Warning(args...)
	addToBuffer(logging.WARNING, fmt.Sprint(args...))
}

func Warningf(format string, args ...any) {
	logger.Warningf(format, args...)
	addToBuffer(logging.WARNING, fmt.Sprintf(format, args...))
}

func Error(args ...any) {
	logger.Error(args...)
	addToBuffer(logging.ERROR, fmt.Sprint(args...))
}

func Errorf(format string, args ...any) {
	logger.Errorf(format, args...)
	addToBuffer(logging.ERROR, fmt.Sprintf(format, args...))
}

func addToBuffer(level logging.Level, msg string) {
	bufMu.Lock()
	defer bufMu.Unlock()
	if len(logBuffer) >= maxLogBufferSize {
		logBuffer = logBuffer[1:]
	}
	logBuffer = append(logBuffer, entry{
		time:  time.Now().Format(timeFormat),
		level: level,
		log:   msg,
	})
}

// GetLogs returns up to c of the newest buffered entries whose level is at
// least as severe as level, newest first.
func GetLogs(c int, level string) []string {
	logLevel, err := logging.LogLevel(level)
	if err != nil {
		logLevel = logging.DEBUG
	}

	bufMu.Lock()
	defer bufMu.Unlock()
	var output []string
	for i := len(logBuffer) - 1; i >= 0 && len(output) < c; i-- {
		if logBuffer[i].level <= logLevel {
			output = append(output, fmt.Sprintf("%s %s - %s", logBuffer[i].time, logBuffer[i].level, logBuffer[i].log))
		}
	}
	return output
}
