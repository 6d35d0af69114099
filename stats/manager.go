// Package stats implements the per-frame metric cache detectors share
// within a run: a write-through table keyed by (frame number, metric
// key) that can be persisted to and reloaded from CSV so a second run at
// a different threshold skips recomputing pixel-derived metrics.
package stats

import (
	"sort"
	"sync"

	"github.com/scenelab/scenedetect/timecode"
)

// MetricKey is a short ASCII identifier a detector registers to publish
// a per-frame scalar metric, e.g. "content_val", "delta_hue".
type MetricKey string

// Manager is a write-through cache shared among detectors in a single
// run. A single-writer-per-frame-column pattern holds in practice (the
// pipeline drives dispatch serially and detectors write disjoint
// metric keys for the same frame), so a single mutex guarding the
// frame-index map is sufficient; writes are small and stay off the hot
// decode path.
type Manager struct {
	mu        sync.RWMutex
	keys      []MetricKey          // registration order; also the CSV column order
	keySet    map[MetricKey]bool
	rows      map[int64]map[MetricKey]float64
	framerate timecode.Framerate
	dirty     bool
}

// NewManager creates an empty Manager. framerate is used only to format
// the Timecode column when saving CSV.
func NewManager(framerate timecode.Framerate) *Manager {
	return &Manager{
		keySet:    make(map[MetricKey]bool),
		rows:      make(map[int64]map[MetricKey]float64),
		framerate: framerate,
	}
}

// RegisterMetricKeys establishes the column set. Idempotent: keys
// already registered are ignored, preserving first-registration order.
func (m *Manager) RegisterMetricKeys(keys ...MetricKey) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		if !m.keySet[k] {
			m.keySet[k] = true
			m.keys = append(m.keys, k)
		}
	}
}

// Keys returns the registered metric keys in registration order.
func (m *Manager) Keys() []MetricKey {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]MetricKey, len(m.keys))
	copy(out, m.keys)
	return out
}

// SetMetrics writes one or more metric values for frameNumber (1-based),
// marking the table dirty. Keys not already registered are registered
// implicitly, matching the invariant that a written key is always a
// member of the registered set.
func (m *Manager) SetMetrics(frameNumber int64, values map[MetricKey]float64) {
	if len(values) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range values {
		if !m.keySet[k] {
			m.keySet[k] = true
			m.keys = append(m.keys, k)
		}
	}
	row, ok := m.rows[frameNumber]
	if !ok {
		row = make(map[MetricKey]float64, len(values))
		m.rows[frameNumber] = row
	}
	for k, v := range values {
		row[k] = v
	}
	m.dirty = true
}

// GetMetrics reads the requested keys for frameNumber. A key that is
// unregistered, or registered but not present for this frame, is simply
// absent from the returned map (the caller checks presence with a
// two-value map read, mirroring NotPresent).
func (m *Manager) GetMetrics(frameNumber int64, keys ...MetricKey) map[MetricKey]float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[MetricKey]float64, len(keys))
	row := m.rows[frameNumber]
	if row == nil {
		return out
	}
	for _, k := range keys {
		if v, ok := row[k]; ok {
			out[k] = v
		}
	}
	return out
}

// MetricPresent reports whether key has a recorded value for
// frameNumber, letting a detector skip recomputation on a cache hit.
func (m *Manager) MetricPresent(frameNumber int64, key MetricKey) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	row := m.rows[frameNumber]
	if row == nil {
		return false
	}
	_, ok := row[key]
	return ok
}

// Dirty reports whether metrics have been written since the table was
// created or last saved.
func (m *Manager) Dirty() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dirty
}

// FrameNumbers returns every frame number with at least one recorded
// metric, in ascending order.
func (m *Manager) FrameNumbers() []int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]int64, 0, len(m.rows))
	for k := range m.rows {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
