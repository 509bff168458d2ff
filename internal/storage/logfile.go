package storage

import (
	"context"
	"fmt"
	"io"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

const logTimeLayout = "01/02/2006 03:04:05 PM"

// LogFile appends one tab-separated line per record to a rotating file.
type LogFile struct {
	mu sync.Mutex
	w  io.WriteCloser
}

// NewLogFile opens (or creates) path, rotating after maxSizeMB megabytes.
func NewLogFile(path string, maxSizeMB, maxBackups int) *LogFile {
	return &LogFile{w: &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     28,
	}}
}

func (l *LogFile) Write(_ context.Context, r Record) error {
	line := fmt.Sprintf("%s \t SIZE: %dKB\tDEPTH: %d\tRANK: %d\t%s\n",
		r.CrawledAt.Format(logTimeLayout), r.Size/1000, r.Depth, r.Score, r.URL)

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := io.WriteString(l.w, line); err != nil {
		return fmt.Errorf("write crawl log: %w", err)
	}
	return nil
}

func (l *LogFile) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Close()
}
