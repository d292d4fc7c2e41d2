package output

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/kneescan/vag-analyzer/pkg/vag"
)

// ResultLog is an append-only log of classification results, one
// self-describing JSON record per line. Safe for concurrent appends.
type ResultLog struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// OpenResultLog opens (or creates) the log at path for appending
func OpenResultLog(path string) (*ResultLog, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open result log: %w", err)
	}
	return &ResultLog{
		file: file,
		enc:  json.NewEncoder(file),
	}, nil
}

// Append writes one result record
func (l *ResultLog) Append(result vag.ClassificationResult) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.enc.Encode(result); err != nil {
		return fmt.Errorf("failed to append result: %w", err)
	}
	return nil
}

// Close flushes and closes the log file
func (l *ResultLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}
