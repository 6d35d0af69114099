package stats

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/scenelab/scenedetect/errs"
	"github.com/scenelab/scenedetect/timecode"
)

// statsCSVHeaderPrefix is the fixed leading columns of the stats CSV,
// before the per-metric columns.
var statsCSVHeaderPrefix = []string{"Frame Number", "Timecode"}

// SaveCSV writes the table to path in RFC 4180 form: header row
// "Frame Number, Timecode, <metric-key>, ...", one row per processed
// frame, frame numbers 1-based, timecodes HH:MM:SS.nnn, numeric cells
// using '.' as the decimal separator with no scientific notation. An
// existing file is overwritten.
func (m *Manager) SaveCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &errs.IoError{Op: "create stats csv", Err: err}
	}
	defer f.Close()

	w := csv.NewWriter(f)

	m.mu.RLock()
	keys := make([]MetricKey, len(m.keys))
	copy(keys, m.keys)
	fps := m.framerate
	m.mu.RUnlock()

	header := append(append([]string{}, statsCSVHeaderPrefix...), metricKeysToStrings(keys)...)
	if err := w.Write(header); err != nil {
		return &errs.IoError{Op: "write stats csv header", Err: err}
	}

	for _, fn := range m.FrameNumbers() {
		m.mu.RLock()
		row := m.rows[fn]
		vals := make(map[MetricKey]float64, len(row))
		for k, v := range row {
			vals[k] = v
		}
		m.mu.RUnlock()

		tc := timecode.FromFrames(fn, fps)
		record := make([]string, 0, len(header))
		record = append(record, strconv.FormatInt(fn, 10), tc.ToString())
		for _, k := range keys {
			if v, ok := vals[k]; ok {
				record = append(record, formatFloat(v))
			} else {
				record = append(record, "")
			}
		}
		if err := w.Write(record); err != nil {
			return &errs.IoError{Op: "write stats csv row", Err: err}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return &errs.IoError{Op: "flush stats csv", Err: err}
	}

	m.mu.Lock()
	m.dirty = false
	m.mu.Unlock()
	return nil
}

// LoadCSV reads a stats table previously written by SaveCSV, merging
// into the current table. A table with no registered keys adopts the
// file's metric columns; a table that already has registered keys
// discards columns outside that set. A
// legacy header line beginning with '#' is recognized and skipped for
// backward compatibility. Missing registered metrics simply remain
// absent (GetMetrics reports them as not present) rather than erroring.
func (m *Manager) LoadCSV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &errs.IoError{Op: "open stats csv", Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return &errs.StatsFileFormatError{Path: path, Reason: "missing header row"}
	}
	if len(header) > 0 && strings.HasPrefix(header[0], "#") {
		header, err = r.Read()
		if err != nil {
			return &errs.StatsFileFormatError{Path: path, Reason: "missing header row after legacy comment"}
		}
	}
	if len(header) < 2 || header[0] != statsCSVHeaderPrefix[0] || header[1] != statsCSVHeaderPrefix[1] {
		return &errs.StatsFileFormatError{Path: path, Reason: "unrecognized header"}
	}

	metricCols := header[2:]
	keys := make([]MetricKey, len(metricCols))
	for i, c := range metricCols {
		keys[i] = MetricKey(c)
	}

	// A manager with no prior registrations bootstraps its key set from
	// the file. A manager that already has registered keys (typically
	// because a detector has registered the metrics it expects before
	// loading a cache from a prior run) keeps that set fixed: columns in
	// the file that aren't among its registered keys are discarded
	// rather than silently growing the schema.
	m.mu.RLock()
	preRegistered := len(m.keys) > 0
	known := make(map[MetricKey]bool, len(m.keySet))
	for k := range m.keySet {
		known[k] = true
	}
	m.mu.RUnlock()

	if !preRegistered {
		m.RegisterMetricKeys(keys...)
		for _, k := range keys {
			known[k] = true
		}
	}

	for {
		record, err := r.Read()
		if err != nil {
			break
		}
		if len(record) < 2 {
			continue
		}
		fn, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return &errs.StatsFileFormatError{Path: path, Reason: fmt.Sprintf("invalid frame number %q", record[0])}
		}
		values := make(map[MetricKey]float64)
		for i, k := range keys {
			if !known[k] {
				continue
			}
			col := i + 2
			if col >= len(record) {
				break
			}
			cell := strings.TrimSpace(record[col])
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return &errs.StatsFileFormatError{Path: path, Reason: fmt.Sprintf("invalid value %q for %s at frame %d", cell, k, fn)}
			}
			values[k] = v
		}
		if len(values) > 0 {
			m.SetMetrics(fn, values)
		}
	}

	m.mu.Lock()
	m.dirty = false
	m.mu.Unlock()
	return nil
}

func metricKeysToStrings(keys []MetricKey) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}

// formatFloat renders v without scientific notation, trimming trailing
// zeros so integral metrics stay compact (e.g. "0" rather than
// "0.000000").
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	return s
}

