// Package sensor provides the presence detector that decides whether a
// frame is worth processing. A background monitor polls a distance reader
// and keeps the latest reading behind a lock; callers probe it without
// blocking.
package sensor

import (
	"math"
	"sync"
	"time"
)

// Reader measures the distance to the nearest object in centimeters.
// Implementations wrap real hardware (an HC-SR04 style trigger/echo pair)
// or a stub for hosts without GPIO.
type Reader interface {
	Measure() (float64, error)
}

// DefaultPollInterval is how often the monitor refreshes its reading.
const DefaultPollInterval = 100 * time.Millisecond

// Monitor polls a Reader in the background and exposes the latest
// distance. A failed measurement reads as +Inf, which never counts as an
// object.
type Monitor struct {
	reader   Reader
	interval time.Duration

	mu       sync.RWMutex
	distance float64

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewMonitor creates a monitor for the reader. A non-positive interval
// falls back to DefaultPollInterval.
func NewMonitor(r Reader, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Monitor{
		reader:   r,
		interval: interval,
		distance: math.Inf(1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the polling goroutine. It measures once immediately so
// the first probe after Start sees a real reading.
func (m *Monitor) Start() {
	go func() {
		defer close(m.done)
		m.poll()
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-m.stop:
				return
			case <-ticker.C:
				m.poll()
			}
		}
	}()
}

// Stop terminates the polling goroutine and waits for it to exit.
func (m *Monitor) Stop() {
	m.once.Do(func() { close(m.stop) })
	<-m.done
}

func (m *Monitor) poll() {
	d, err := m.reader.Measure()
	if err != nil {
		d = math.Inf(1)
	}
	m.mu.Lock()
	m.distance = d
	m.mu.Unlock()
}

// Distance returns the latest reading in centimeters, +Inf when nothing
// has been measured yet or the last measurement failed.
func (m *Monitor) Distance() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.distance
}

// ObjectWithin reports whether the latest reading is at or inside the
// threshold. It never blocks.
func (m *Monitor) ObjectWithin(threshold float64) bool {
	d := m.Distance()
	return !math.IsInf(d, 1) && d <= threshold
}

// StubReader is a fixed-value Reader for tests and hosts without the
// sensor hardware.
type StubReader struct {
	mu    sync.Mutex
	value float64
	err   error
}

// NewStubReader returns a stub that always reads the given distance.
func NewStubReader(distance float64) *StubReader {
	return &StubReader{value: distance}
}

// Set changes the stubbed distance.
func (s *StubReader) Set(distance float64) {
	s.mu.Lock()
	s.value = distance
	s.mu.Unlock()
}

// Fail makes every following measurement return err.
func (s *StubReader) Fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Measure implements Reader.
func (s *StubReader) Measure() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	return s.value, nil
}
