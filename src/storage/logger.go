package storage

import (
	"fmt"
	"os"
	"sync"
	"time"

	"TitanicInsight/src/config"
)

// LogLevel classifies log entries.
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARNING
	ERROR
	FATAL
)

// Logger writes leveled entries to a file and fans them out to subscribers.
type Logger struct {
	filename    string
	file        *os.File
	mu          sync.Mutex
	subscribers []chan string
}

// NewLogger opens (or creates) the log file in append mode.
func NewLogger(filename string) (*Logger, error) {
	file, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	return &Logger{
		filename: filename,
		file:     file,
	}, nil
}

func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Log writes one entry and notifies subscribers. Subscribers with a full
// channel are skipped rather than blocked on.
func (l *Logger) Log(level LogLevel, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := fmt.Sprintf("[%s] %s: %s\n",
		time.Now().Format("2006-01-02 15:04:05"),
		level.String(),
		message)

	l.file.WriteString(entry)

	for _, ch := range l.subscribers {
		select {
		case ch <- entry:
		default:
		}
	}
}

// CheckRotate rotates the log file once it grows past the configured size.
func (l *Logger) CheckRotate(cfg *config.Config) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	info, err := l.file.Stat()
	if err != nil {
		return err
	}

	if cfg.LogMaxSize > 0 && info.Size() > cfg.LogMaxSize {
		return l.rotate()
	}
	return nil
}

// rotate must be called with l.mu held.
func (l *Logger) rotate() error {
	if l.file != nil {
		l.file.Close()
		rotated := fmt.Sprintf("%s.%s", l.filename, time.Now().Format("20060102150405"))
		if err := os.Rename(l.filename, rotated); err != nil {
			return err
		}
	}

	file, err := os.OpenFile(l.filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	l.file = file
	return nil
}

// Subscribe returns a buffered channel receiving every future log entry.
// Used by the dashboard's /logs endpoint.
func (l *Logger) Subscribe() <-chan string {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch := make(chan string, 100)
	l.subscribers = append(l.subscribers, ch)
	return ch
}

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARNING:
		return "WARNING"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

func (l *Logger) Debug(msg string)   { l.Log(DEBUG, msg) }
func (l *Logger) Info(msg string)    { l.Log(INFO, msg) }
func (l *Logger) Warning(msg string) { l.Log(WARNING, msg) }
func (l *Logger) Error(msg string)   { l.Log(ERROR, msg) }
func (l *Logger) Fatal(msg string)   { l.Log(FATAL, msg) }
