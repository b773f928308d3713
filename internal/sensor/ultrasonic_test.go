package sensor

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestMonitorReportsReading(t *testing.T) {
	reader := NewStubReader(12.5)
	m := NewMonitor(reader, time.Millisecond)
	m.Start()
	defer m.Stop()

	deadline := time.Now().Add(time.Second)
	for m.Distance() != 12.5 {
		if time.Now().After(deadline) {
			t.Fatalf("Distance() = %v, want 12.5", m.Distance())
		}
		time.Sleep(time.Millisecond)
	}

	if !m.ObjectWithin(15) {
		t.Error("ObjectWithin(15) = false with a 12.5cm reading")
	}
	if m.ObjectWithin(10) {
		t.Error("ObjectWithin(10) = true with a 12.5cm reading")
	}
}

func TestMonitorFailedMeasurement(t *testing.T) {
	reader := NewStubReader(12.5)
	reader.Fail(errors.New("echo timeout"))

	m := NewMonitor(reader, time.Millisecond)
	m.Start()
	defer m.Stop()

	time.Sleep(20 * time.Millisecond)
	if d := m.Distance(); !math.IsInf(d, 1) {
		t.Errorf("Distance() = %v after failures, want +Inf", d)
	}
	if m.ObjectWithin(1000) {
		t.Error("ObjectWithin() must never trigger on a failed reading")
	}
}

func TestMonitorBeforeStart(t *testing.T) {
	m := NewMonitor(NewStubReader(5), time.Millisecond)
	if d := m.Distance(); !math.IsInf(d, 1) {
		t.Errorf("Distance() before Start = %v, want +Inf", d)
	}
}
