// Package playback implements the media playback controller: it owns the
// state of a single playback session, turns user intent into commands for
// an underlying playback primitive, and folds the primitive's status
// events back into that state.
//
// All session mutation happens on the controller's event loop goroutine.
// Callers interact only through Do and Updates.
package playback

import (
	"fmt"
	"math"
	"time"
)

// State is the top-level playback state. Seeking is an overlay flag on
// Playing/Paused and not a state of its own.
type State int

const (
	// Unavailable means no media URL was supplied. This is not an error.
	Unavailable State = iota
	Loading
	Ready
	Playing
	Paused
	Error
)

func (s State) String() string {
	switch s {
	case Unavailable:
		return "unavailable"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable copy of the observable session state.
type Snapshot struct {
	SessionID string
	MediaURL  string
	Title     string
	State     State

	Playing bool    // intended play state, not decoder ground truth
	Volume  float64 // stored volume in [0,1]
	Muted   bool

	Duration float64 // seconds
	Position float64 // seconds, in [0, Duration] once Duration is known

	Seeking       bool
	ScrubFraction float64 // local scrubber value while Seeking

	Ready  bool
	Failed bool
	Err    error

	Fullscreen      bool
	ControlsVisible bool
	LegendVisible   bool

	// Requested is set once the user asked for an unavailable title.
	Requested bool
}

// Progress returns the scrubber position in [0,1]. While seeking the
// local scrubber value wins; otherwise it is Position/Duration, or 0
// when the duration is not known.
func (s Snapshot) Progress() float64 {
	if s.Seeking {
		return s.ScrubFraction
	}
	return progressFraction(s.Position, s.Duration)
}

// AudibleVolume is the volume actually sent to the primitive.
func (s Snapshot) AudibleVolume() float64 {
	if s.Muted {
		return 0
	}
	return s.Volume
}

// Elapsed formats the position and duration as "m:ss / m:ss".
func (s Snapshot) Elapsed() string {
	pos := s.Position
	if s.Seeking {
		pos = s.ScrubFraction * s.Duration
	}
	return FormatClock(pos) + " / " + FormatClock(s.Duration)
}

// FormatClock formats seconds as H:MM:SS or M:SS.
func FormatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	d := time.Duration(seconds) * time.Second
	h := int(d / time.Hour)
	m := int(d%time.Hour) / int(time.Minute)
	sec := int(d%time.Minute) / int(time.Second)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}

func progressFraction(position, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	return clamp(position/duration, 0, 1)
}

// clamp bounds v to [lo, hi]. NaN maps to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampVolume keeps a volume in [0,1].
func clampVolume(v float64) float64 {
	return clamp(v, 0, 1)
}

// stepVolume applies a ±step adjustment and drops the float noise that
// repeated steps accumulate.
func stepVolume(v, delta float64) float64 {
	v = clampVolume(v + delta)
	return math.Round(v*1000) / 1000
}

// clampPosition keeps a position in [0, duration]. An unknown duration
// only bounds the position from below.
func clampPosition(position, duration float64) float64 {
	if math.IsNaN(position) || position < 0 {
		return 0
	}
	if duration > 0 && position > duration {
		return duration
	}
	if math.IsInf(position, 1) {
		return 0
	}
	return position
}
