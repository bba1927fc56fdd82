package observ

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func fakeClock(steps ...time.Duration) func() time.Time {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	i := 0
	return func() time.Time {
		at := base.Add(steps[i])
		i++
		return at
	}
}

func TestTimerReport(t *testing.T) {
	timer := NewTimer()
	// две перекрывающиеся фазы: [0,10] и [5,20]
	timer.now = fakeClock(0, 5*time.Millisecond, 10*time.Millisecond, 20*time.Millisecond)

	a := timer.Begin("targets")
	b := timer.Begin("check")
	timer.End(a, "")
	timer.End(b, "2 blocks")
	timer.End(9, "ignored")

	report := timer.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(report.Phases))
	}
	if report.Phases[0].DurationMS != 10 || report.Phases[1].DurationMS != 15 {
		t.Errorf("durations = %v", report.Phases)
	}
	if report.TotalMS != 20 {
		t.Errorf("TotalMS = %v, want 20", report.TotalMS)
	}

	summary := timer.Summary()
	if !strings.Contains(summary, "// 2 blocks") || !strings.Contains(summary, "total") {
		t.Errorf("unexpected summary:\n%s", summary)
	}
}

func TestTimerTime(t *testing.T) {
	timer := NewTimer()
	timer.now = fakeClock(0, time.Millisecond)

	boom := errors.New("boom")
	err := timer.Time("render", func() (string, error) { return "", boom })
	if !errors.Is(err, boom) {
		t.Fatalf("Time returned %v", err)
	}
	if got := timer.Report().Phases[0].Note; got != "failed" {
		t.Errorf("note = %q, want failed", got)
	}
}

func TestTimerEmpty(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || r.Phases != nil {
		t.Errorf("empty report = %+v", r)
	}
}
