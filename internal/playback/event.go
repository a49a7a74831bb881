package playback

import (
	"context"
	"errors"
)

var (
	// ErrNoMedia is returned by primitives asked to load an empty URL.
	ErrNoMedia = errors.New("no media URL")

	// ErrClosed reports that the primitive went away under the session.
	ErrClosed = errors.New("playback primitive closed")
)

// Event is a status message emitted by a Primitive.
type Event interface {
	isEvent()
}

// ReadyEvent reports that the media is loaded and can play.
type ReadyEvent struct{}

// ProgressEvent reports the decoder's current position in seconds.
// Progress events are high frequency and may be repeated or arrive out
// of order relative to user commands.
type ProgressEvent struct {
	Position float64
}

// DurationEvent reports the media duration in seconds.
type DurationEvent struct {
	Duration float64
}

// FailedEvent reports a decoder or transport error. It is terminal for
// the session.
type FailedEvent struct {
	Err error
}

// FullscreenEvent is the platform's fullscreen change notification.
type FullscreenEvent struct {
	On bool
}

func (ReadyEvent) isEvent()      {}
func (ProgressEvent) isEvent()   {}
func (DurationEvent) isEvent()   {}
func (FailedEvent) isEvent()     {}
func (FullscreenEvent) isEvent() {}

// Primitive is the underlying media playback capability. It decodes and
// renders; the controller only issues commands and tracks reported state.
type Primitive interface {
	// Load starts (or restarts) playback of url, paused.
	Load(ctx context.Context, url string) error

	SetPaused(paused bool) error

	// SetVolume sets the audible volume in [0,1].
	SetVolume(volume float64) error

	// SeekTo seeks to an absolute position in seconds. Fire-and-forget:
	// the next progress event is the only confirmation.
	SeekTo(seconds float64) error

	// SetFullscreen requests entering or leaving fullscreen. The change
	// is confirmed by a FullscreenEvent.
	SetFullscreen(on bool) error

	// Fullscreen queries the current fullscreen state.
	Fullscreen() (bool, error)

	// Events returns the status event stream. It is closed by Close.
	Events() <-chan Event

	Close() error
}
