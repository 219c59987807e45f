package player

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is the playback state of a single widget instance
type Status string

const (
	StatusPaused    Status = "paused"
	StatusPlaying   Status = "playing"
	StatusBuffering Status = "buffering"
	StatusEnded     Status = "ended"
	StatusErrored   Status = "errored"
)

// ErrorKind classifies a media-level playback error for diagnostics
type ErrorKind string

const (
	ErrorNone        ErrorKind = ""
	ErrorAborted     ErrorKind = "aborted"     // playback aborted by the user
	ErrorNetwork     ErrorKind = "network"     // network failure while fetching media
	ErrorDecode      ErrorKind = "decode"      // media could not be decoded
	ErrorUnsupported ErrorKind = "unsupported" // source format not supported
)

// ClassifyMediaError maps a numeric media-element error code to an ErrorKind.
// Codes follow the HTML media error convention (1=aborted, 2=network,
// 3=decode, 4=src unsupported); anything else counts as a decode failure.
func ClassifyMediaError(code int) ErrorKind {
	switch code {
	case 1:
		return ErrorAborted
	case 2:
		return ErrorNetwork
	case 3:
		return ErrorDecode
	case 4:
		return ErrorUnsupported
	default:
		return ErrorDecode
	}
}

// ErrNoSource is returned when playback is requested before a track is loaded
var ErrNoSource = errors.New("no track loaded")

// StartFunc requests playback to start for a source. A non-nil error means
// the request was rejected (e.g. blocked by the host environment) and the
// widget must stay paused.
type StartFunc func(source string) error

// State is a point-in-time snapshot of a widget, safe to hand out
type State struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Status      Status    `json:"status"`
	Elapsed     float64   `json:"elapsed"`  // seconds
	Duration    float64   `json:"duration"` // seconds, 0 when unknown
	Progress    float64   `json:"progress"` // 0-100
	ElapsedText string    `json:"elapsedText"`
	TotalText   string    `json:"totalText"`
	Error       ErrorKind `json:"error,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Widget is a self-contained playback control with its own state machine.
// Instances are independent; state is never shared between widgets.
type Widget struct {
	id    string
	start StartFunc

	mu       sync.RWMutex
	source   string
	status   Status
	elapsed  float64
	duration float64
	errKind  ErrorKind
	updated  time.Time
}

// NewWidget creates a paused widget with no source. start may be nil, in
// which case playback requests always succeed.
func NewWidget(start StartFunc) *Widget {
	return &Widget{
		id:      uuid.New().String(),
		start:   start,
		status:  StatusPaused,
		updated: time.Now(),
	}
}

// ID returns the widget's instance identifier
func (w *Widget) ID() string {
	return w.id
}

// LoadTrack sets the media source and resets the widget to paused with zero
// progress and no error, regardless of the prior state.
func (w *Widget) LoadTrack(source string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.source = source
	w.status = StatusPaused
	w.elapsed = 0
	w.duration = 0
	w.errKind = ErrorNone
	w.updated = time.Now()
}

// Toggle flips between playing and paused. Starting playback goes through
// the start hook; a rejected start leaves the widget paused and returns the
// rejection. Pausing is synchronous and cannot fail.
func (w *Widget) Toggle() (Status, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.status == StatusPlaying || w.status == StatusBuffering {
		w.status = StatusPaused
		w.updated = time.Now()
		return w.status, nil
	}

	if w.source == "" {
		return w.status, ErrNoSource
	}
	if w.start != nil {
		if err := w.start(w.source); err != nil {
			// Rejected playback request: stay paused, surface the failure.
			w.status = StatusPaused
			w.updated = time.Now()
			return w.status, err
		}
	}

	w.status = StatusPlaying
	w.errKind = ErrorNone
	w.updated = time.Now()
	return w.status, nil
}

// Buffering marks the transient buffering state. Only meaningful while
// playback is underway; a paused widget stays paused.
func (w *Widget) Buffering() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.status == StatusPlaying {
		w.status = StatusBuffering
		w.updated = time.Now()
	}
}

// ReportProgress records elapsed/total playback time. A buffering widget
// returns to playing once progress resumes.
func (w *Widget) ReportProgress(elapsed, total float64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if elapsed >= 0 {
		w.elapsed = elapsed
	}
	if total > 0 {
		w.duration = total
	}
	if w.status == StatusBuffering {
		w.status = StatusPlaying
	}
	w.updated = time.Now()
}

// Finish marks the end of the media: progress resets to zero and the control
// reverts to its paused appearance, but the source stays loaded.
func (w *Widget) Finish() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.status = StatusEnded
	w.elapsed = 0
	w.updated = time.Now()
}

// Fail records a media-level error. The widget does not retry.
func (w *Widget) Fail(kind ErrorKind) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.status = StatusErrored
	w.errKind = kind
	w.updated = time.Now()
}

// Progress returns the playback position as a percentage, clamped to 0-100
func (w *Widget) Progress() float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return progressPercent(w.elapsed, w.duration)
}

// Snapshot returns a copy of the widget's current state
func (w *Widget) Snapshot() State {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return State{
		ID:          w.id,
		Source:      w.source,
		Status:      w.status,
		Elapsed:     w.elapsed,
		Duration:    w.duration,
		Progress:    progressPercent(w.elapsed, w.duration),
		ElapsedText: FormatDuration(w.elapsed),
		TotalText:   FormatDuration(w.duration),
		Error:       w.errKind,
		UpdatedAt:   w.updated,
	}
}

func progressPercent(elapsed, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	pct := elapsed / duration * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
