package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/kneescan/vag-analyzer/pkg/logging"
	"github.com/kneescan/vag-analyzer/pkg/vag"
)

// RecordingSource replays a recorded acquisition session from disk.
// Two line formats are recognized, matching what the acquisition
// firmware writes over serial:
//
//	Mic: 123 Piezo: 45
//	123,45
//
// Timestamps are synthesized from the configured nominal sample rate.
// Malformed lines are skipped and counted, never fatal.
type RecordingSource struct {
	path       string
	sampleRate float64
	logger     logging.Logger

	skipped atomic.Int64
}

// NewRecordingSource creates a source that replays the given file
func NewRecordingSource(path string, sampleRate float64, logger logging.Logger) (*RecordingSource, error) {
	if sampleRate <= 0 {
		return nil, vag.NewAnalysisError("", vag.ErrCodeInvalidConfig,
			fmt.Sprintf("sample rate must be positive, got %v", sampleRate), nil)
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	return &RecordingSource{
		path:       path,
		sampleRate: sampleRate,
		logger: logger.WithFields(logging.Fields{
			"component": "recording_source",
			"path":      path,
		}),
	}, nil
}

// Info returns the recording's nominal acquisition parameters
func (r *RecordingSource) Info() Info {
	return Info{
		Name:       r.path,
		SampleRate: r.sampleRate,
		Channels:   len(vag.Channels),
	}
}

// SkippedLines returns the number of malformed lines ignored so far.
// Safe to call while the stream is still being read.
func (r *RecordingSource) SkippedLines() int64 {
	return r.skipped.Load()
}

// Samples streams the recording, emitting one mic and one piezo sample
// per line
func (r *RecordingSource) Samples(ctx context.Context) (<-chan vag.Sample, error) {
	file, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open recording: %w", err)
	}

	out := make(chan vag.Sample, 256)

	go func() {
		defer close(out)
		defer file.Close()

		scanner := bufio.NewScanner(file)
		var index int64

		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			mic, piezo, ok := parseLine(line)
			if !ok {
				r.skipped.Add(1)
				continue
			}

			for _, s := range []vag.Sample{
				{Index: index, Channel: vag.ChannelMic, Value: mic},
				{Index: index, Channel: vag.ChannelPiezo, Value: piezo},
			} {
				select {
				case out <- s:
				case <-ctx.Done():
					return
				}
			}
			index++
		}

		if err := scanner.Err(); err != nil && err != io.EOF {
			r.logger.Error(err, "Recording read failed")
		}

		r.logger.Debug("Recording replay finished", logging.Fields{
			"lines_emitted": index,
			"lines_skipped": r.skipped.Load(),
		})
	}()

	return out, nil
}

// parseLine handles both the labeled serial format and plain CSV
func parseLine(line string) (mic, piezo int32, ok bool) {
	if strings.Contains(line, "Mic") && strings.Contains(line, "Piezo") {
		fields := strings.Fields(strings.ReplaceAll(line, ":", " "))
		micIdx, piezoIdx := -1, -1
		for i, f := range fields {
			switch f {
			case "Mic":
				micIdx = i + 1
			case "Piezo":
				piezoIdx = i + 1
			}
		}
		if micIdx < 0 || piezoIdx < 0 || micIdx >= len(fields) || piezoIdx >= len(fields) {
			return 0, 0, false
		}
		m, err1 := parseValue(fields[micIdx])
		p, err2 := parseValue(fields[piezoIdx])
		if err1 != nil || err2 != nil {
			return 0, 0, false
		}
		return m, p, true
	}

	if strings.Contains(line, ",") {
		parts := strings.Split(line, ",")
		if len(parts) != 2 {
			return 0, 0, false
		}
		m, err1 := parseValue(strings.TrimSpace(parts[0]))
		p, err2 := parseValue(strings.TrimSpace(parts[1]))
		if err1 != nil || err2 != nil {
			return 0, 0, false
		}
		return m, p, true
	}

	return 0, 0, false
}

// parseValue accepts integer ADC readings, tolerating a fractional
// part some logger firmwares emit
func parseValue(s string) (int32, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int32(f), nil
}
