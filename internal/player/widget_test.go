package player

import (
	"errors"
	"math"
	"testing"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		seconds  float64
		expected string
	}{
		{"zero", 0, "0:00"},
		{"under a minute", 42, "0:42"},
		{"exactly one minute", 60, "1:00"},
		{"minutes and seconds", 65, "1:05"},
		{"truncates fractions", 65.9, "1:05"},
		{"long track", 599, "9:59"},
		{"over ten minutes", 754, "12:34"},
		{"negative", -5, "0:00"},
		{"NaN", math.NaN(), "0:00"},
		{"positive infinity", math.Inf(1), "0:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.seconds); got != tt.expected {
				t.Errorf("FormatDuration(%v) = %q, expected %q", tt.seconds, got, tt.expected)
			}
		})
	}
}

func TestClassifyMediaError(t *testing.T) {
	tests := []struct {
		code     int
		expected ErrorKind
	}{
		{1, ErrorAborted},
		{2, ErrorNetwork},
		{3, ErrorDecode},
		{4, ErrorUnsupported},
		{0, ErrorDecode},
		{99, ErrorDecode},
	}

	for _, tt := range tests {
		if got := ClassifyMediaError(tt.code); got != tt.expected {
			t.Errorf("ClassifyMediaError(%d) = %q, expected %q", tt.code, got, tt.expected)
		}
	}
}

func TestWidgetStartsPaused(t *testing.T) {
	w := NewWidget(nil)
	st := w.Snapshot()
	if st.Status != StatusPaused {
		t.Errorf("new widget status = %q, expected paused", st.Status)
	}
	if st.ID == "" {
		t.Error("widget should have an instance identifier")
	}
	if st.ElapsedText != "0:00" || st.TotalText != "0:00" {
		t.Errorf("new widget time display = %q / %q", st.ElapsedText, st.TotalText)
	}
}

func TestToggleWithoutSource(t *testing.T) {
	w := NewWidget(nil)
	status, err := w.Toggle()
	if !errors.Is(err, ErrNoSource) {
		t.Errorf("expected ErrNoSource, got %v", err)
	}
	if status != StatusPaused {
		t.Errorf("status = %q, expected paused", status)
	}
}

func TestToggleStartsAndPauses(t *testing.T) {
	w := NewWidget(nil)
	w.LoadTrack("albums/demo/tracks/one.mp3")

	status, err := w.Toggle()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != StatusPlaying {
		t.Errorf("after first toggle: %q, expected playing", status)
	}

	status, err = w.Toggle()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != StatusPaused {
		t.Errorf("after second toggle: %q, expected paused", status)
	}
}

func TestToggleRejectedByStartHook(t *testing.T) {
	rejection := errors.New("autoplay blocked")
	calls := 0
	w := NewWidget(func(source string) error {
		calls++
		return rejection
	})
	w.LoadTrack("albums/demo/tracks/one.mp3")

	status, err := w.Toggle()
	if !errors.Is(err, rejection) {
		t.Errorf("expected the rejection to propagate, got %v", err)
	}
	if status != StatusPaused {
		t.Errorf("rejected start must leave the widget paused, got %q", status)
	}
	if calls != 1 {
		t.Errorf("start hook called %d times, expected 1", calls)
	}
}

func TestToggleFromBufferingPauses(t *testing.T) {
	w := NewWidget(nil)
	w.LoadTrack("src")
	w.Toggle()
	w.Buffering()

	status, err := w.Toggle()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != StatusPaused {
		t.Errorf("toggling a buffering widget should pause it, got %q", status)
	}
}

func TestLoadTrackResetsState(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(w *Widget)
	}{
		{"from playing", func(w *Widget) {
			w.LoadTrack("old")
			w.Toggle()
			w.ReportProgress(30, 120)
		}},
		{"from errored", func(w *Widget) {
			w.LoadTrack("old")
			w.Fail(ErrorNetwork)
		}},
		{"from ended", func(w *Widget) {
			w.LoadTrack("old")
			w.Finish()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWidget(nil)
			tt.prepare(w)
			w.LoadTrack("new")

			st := w.Snapshot()
			if st.Status != StatusPaused {
				t.Errorf("status = %q, expected paused", st.Status)
			}
			if st.Source != "new" {
				t.Errorf("source = %q, expected new", st.Source)
			}
			if st.Elapsed != 0 || st.Duration != 0 || st.Progress != 0 {
				t.Errorf("progress not reset: %+v", st)
			}
			if st.Error != ErrorNone {
				t.Errorf("error not cleared: %q", st.Error)
			}
		})
	}
}

func TestBufferingOnlyFromPlaying(t *testing.T) {
	w := NewWidget(nil)
	w.LoadTrack("src")

	w.Buffering()
	if st := w.Snapshot(); st.Status != StatusPaused {
		t.Errorf("paused widget must ignore buffering, got %q", st.Status)
	}

	w.Toggle()
	w.Buffering()
	if st := w.Snapshot(); st.Status != StatusBuffering {
		t.Errorf("playing widget should enter buffering, got %q", st.Status)
	}
}

func TestReportProgressResumesFromBuffering(t *testing.T) {
	w := NewWidget(nil)
	w.LoadTrack("src")
	w.Toggle()
	w.Buffering()

	w.ReportProgress(12, 240)
	st := w.Snapshot()
	if st.Status != StatusPlaying {
		t.Errorf("progress should end buffering, got %q", st.Status)
	}
	if st.Elapsed != 12 || st.Duration != 240 {
		t.Errorf("progress not recorded: %+v", st)
	}
	if st.Progress != 5 {
		t.Errorf("progress percent = %v, expected 5", st.Progress)
	}
	if st.ElapsedText != "0:12" || st.TotalText != "4:00" {
		t.Errorf("time display = %q / %q", st.ElapsedText, st.TotalText)
	}
}

func TestProgressClamping(t *testing.T) {
	tests := []struct {
		name     string
		elapsed  float64
		total    float64
		expected float64
	}{
		{"normal", 30, 120, 25},
		{"past the end", 500, 120, 100},
		{"unknown duration", 30, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWidget(nil)
			w.LoadTrack("src")
			w.ReportProgress(tt.elapsed, tt.total)
			if got := w.Progress(); got != tt.expected {
				t.Errorf("Progress() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestFinishKeepsSource(t *testing.T) {
	w := NewWidget(nil)
	w.LoadTrack("src")
	w.Toggle()
	w.ReportProgress(100, 100)
	w.Finish()

	st := w.Snapshot()
	if st.Status != StatusEnded {
		t.Errorf("status = %q, expected ended", st.Status)
	}
	if st.Elapsed != 0 {
		t.Errorf("elapsed = %v, expected 0", st.Elapsed)
	}
	if st.Source != "src" {
		t.Errorf("source = %q, expected src to stay loaded", st.Source)
	}

	// A finished widget can start over from the beginning.
	status, err := w.Toggle()
	if err != nil || status != StatusPlaying {
		t.Errorf("replay after finish: status %q, err %v", status, err)
	}
}

func TestFailRecordsErrorKind(t *testing.T) {
	w := NewWidget(nil)
	w.LoadTrack("src")
	w.Fail(ErrorUnsupported)

	st := w.Snapshot()
	if st.Status != StatusErrored {
		t.Errorf("status = %q, expected errored", st.Status)
	}
	if st.Error != ErrorUnsupported {
		t.Errorf("error = %q, expected unsupported", st.Error)
	}
}

func TestManager(t *testing.T) {
	m := NewManager(nil)

	w := m.Create("albums/demo/tracks/one.mp3")
	if w.Snapshot().Source != "albums/demo/tracks/one.mp3" {
		t.Error("created widget should carry the requested source")
	}
	if m.Count() != 1 {
		t.Errorf("count = %d, expected 1", m.Count())
	}

	got, ok := m.Get(w.ID())
	if !ok || got != w {
		t.Error("lookup by ID should return the same widget")
	}

	if _, ok := m.Get("nope"); ok {
		t.Error("unknown ID should not resolve")
	}

	empty := m.Create("")
	if empty.Snapshot().Source != "" {
		t.Error("widget created without a source should stay empty")
	}

	m.Remove(w.ID())
	if _, ok := m.Get(w.ID()); ok {
		t.Error("removed widget should not resolve")
	}
	if m.Count() != 1 {
		t.Errorf("count after remove = %d, expected 1", m.Count())
	}
}
