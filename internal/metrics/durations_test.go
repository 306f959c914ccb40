package metrics

import (
	"testing"
	"time"
)

func TestDurationsSnapshotPercentiles(t *testing.T) {
	d := NewDurations()
	for _, ms := range []int64{100, 200, 300, 400, 500} {
		d.Record(time.Duration(ms) * time.Millisecond)
	}

	snap := d.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
}

func TestDurationsEmpty(t *testing.T) {
	if snap := NewDurations().Snapshot(); snap != (Snapshot{}) {
		t.Fatalf("expected zero snapshot, got %+v", snap)
	}
}

func TestDurationsRecordClampsNegative(t *testing.T) {
	d := NewDurations()
	d.Record(-10 * time.Millisecond)
	snap := d.Snapshot()
	if snap.MinMs != 0 || snap.MaxMs != 0 {
		t.Fatalf("expected clamped duration=0, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}
