package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// fakePrimitive records every command it receives.
type fakePrimitive struct {
	mu         sync.Mutex
	calls      []string
	seeks      []float64
	volumes    []float64
	fullscreen bool
	loadErr    error
	closed     bool
	events     chan Event
}

func newFakePrimitive() *fakePrimitive {
	return &fakePrimitive{events: make(chan Event, 64)}
}

func (f *fakePrimitive) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakePrimitive) Load(ctx context.Context, url string) error {
	f.record("load " + url)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loadErr
}

func (f *fakePrimitive) SetPaused(paused bool) error {
	f.record(fmt.Sprintf("pause %v", paused))
	return nil
}

func (f *fakePrimitive) SetVolume(v float64) error {
	f.mu.Lock()
	f.volumes = append(f.volumes, v)
	f.mu.Unlock()
	f.record(fmt.Sprintf("volume %.2f", v))
	return nil
}

func (f *fakePrimitive) SeekTo(seconds float64) error {
	f.mu.Lock()
	f.seeks = append(f.seeks, seconds)
	f.mu.Unlock()
	f.record(fmt.Sprintf("seek %.1f", seconds))
	return nil
}

func (f *fakePrimitive) SetFullscreen(on bool) error {
	f.record(fmt.Sprintf("fullscreen %v", on))
	return nil
}

func (f *fakePrimitive) Fullscreen() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fullscreen, nil
}

func (f *fakePrimitive) Events() <-chan Event {
	return f.events
}

func (f *fakePrimitive) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakePrimitive) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakePrimitive) seekCalls() []float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]float64(nil), f.seeks...)
}

func (f *fakePrimitive) lastVolume() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.volumes) == 0 {
		return -1
	}
	return f.volumes[len(f.volumes)-1]
}

func (f *fakePrimitive) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// fakeTimer counts arms and cancels and reports whether a hide is pending.
type fakeTimer struct {
	arms    int
	cancels int
	pending bool
	last    time.Duration
}

func (t *fakeTimer) Arm(d time.Duration) {
	t.arms++
	t.pending = true
	t.last = d
}

func (t *fakeTimer) Cancel() {
	t.cancels++
	t.pending = false
}

func testOptions() Options {
	o := DefaultOptions()
	o.Logger = slog.New(slog.DiscardHandler)
	return o
}

// readySession returns a started, ready session with a known duration.
func readySession(duration float64) (*session, *fakePrimitive, *fakeTimer) {
	prim := newFakePrimitive()
	timer := &fakeTimer{}
	s := newSession("https://example.com/movie.mp4", "Movie", prim, timer, testOptions(), testOptions().Logger)
	s.start(context.Background())
	s.handle(DurationEvent{Duration: duration})
	s.handle(ReadyEvent{})
	return s, prim, timer
}

var errDecode = errors.New("decode error")
