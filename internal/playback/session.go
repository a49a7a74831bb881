package playback

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
)

// hideTimer is the single pending auto-hide callback. Arm replaces any
// pending callback; Cancel drops it.
type hideTimer interface {
	Arm(d time.Duration)
	Cancel()
}

// session is the mutable PlaybackSession. It is not safe for concurrent
// use; the controller loop is its only caller.
type session struct {
	id    string
	url   string
	title string
	prim  Primitive
	timer hideTimer
	opts  Options
	base  *slog.Logger
	log   *slog.Logger

	playing  bool
	started  bool // has been played at least once since ready
	volume   float64
	muted    bool
	duration float64
	position float64

	seeking bool
	scrub   float64

	ready  bool
	failed bool
	err    error

	fullscreen bool
	controls   bool
	legend     bool
	requested  bool
}

func newSession(url, title string, prim Primitive, timer hideTimer, opts Options, log *slog.Logger) *session {
	s := &session{
		url:    url,
		title:  title,
		prim:   prim,
		timer:  timer,
		opts:   opts,
		base:   log,
		volume: clampVolume(opts.Volume),
	}
	s.reset()
	return s
}

// reset starts a fresh session for the same URL. Stored volume and mute
// survive; everything else belongs to the previous attempt.
func (s *session) reset() {
	s.id = uuid.NewString()
	s.playing = false
	s.started = false
	s.duration = 0
	s.position = 0
	s.seeking = false
	s.scrub = 0
	s.ready = false
	s.failed = false
	s.err = nil
	s.controls = true
	s.legend = s.url != ""
	s.timer.Cancel()
	s.log = s.base.With("session", s.id)
}

func (s *session) state() State {
	switch {
	case s.url == "":
		return Unavailable
	case s.failed:
		return Error
	case !s.ready:
		return Loading
	case s.playing:
		return Playing
	case s.started:
		return Paused
	default:
		return Ready
	}
}

func (s *session) snapshot() Snapshot {
	visible := s.controls || !s.ready
	return Snapshot{
		SessionID:       s.id,
		MediaURL:        s.url,
		Title:           s.title,
		State:           s.state(),
		Playing:         s.playing,
		Volume:          s.volume,
		Muted:           s.muted,
		Duration:        s.duration,
		Position:        s.position,
		Seeking:         s.seeking,
		ScrubFraction:   s.scrub,
		Ready:           s.ready,
		Failed:          s.failed,
		Err:             s.err,
		Fullscreen:      s.fullscreen,
		ControlsVisible: visible,
		LegendVisible:   s.legend && visible,
		Requested:       s.requested,
	}
}

// start wires the session to the primitive: load, fullscreen sync, then
// initial volume.
func (s *session) start(ctx context.Context) {
	if s.url == "" {
		return
	}
	s.log.Info("session started", "url", s.url, "title", s.title)
	if err := s.prim.Load(ctx, s.url); err != nil {
		s.fail(err)
		return
	}
	if fs, err := s.prim.Fullscreen(); err == nil {
		s.fullscreen = fs
	}
	s.issue(s.prim.SetVolume(s.audible()))
}

// apply executes one user command.
func (s *session) apply(ctx context.Context, cmd Command) {
	switch s.state() {
	case Unavailable:
		if cmd.Kind == CmdRequestTitle && !s.requested {
			s.requested = true
			s.log.Info("title requested", "title", s.title)
		}
		return
	case Error:
		if cmd.Kind == CmdRetry {
			s.log.Info("retrying after error", "err", s.err)
			s.reset()
			s.start(ctx)
		}
		return
	}

	switch cmd.Kind {
	case CmdTogglePlay:
		s.playing = !s.playing
		if s.playing && s.ready {
			s.started = true
		}
		s.issue(s.prim.SetPaused(!s.playing))
		s.touch()

	case CmdSeekBegin:
		s.seeking = true
		s.scrub = progressFraction(s.position, s.duration)
		s.touch()

	case CmdSeekDrag:
		if !s.seeking {
			return
		}
		s.scrub = clamp(cmd.Value, 0, 1)
		s.touch()

	case CmdSeekCommit:
		if !s.seeking {
			return
		}
		s.seeking = false
		s.seek(s.scrub * s.duration)
		s.touch()

	case CmdSkip:
		step := s.opts.SkipStep.Seconds()
		if cmd.Value < 0 {
			step = -step
		}
		s.seek(s.position + step)
		s.touch()

	case CmdSetVolume:
		s.setVolume(cmd.Value)
		s.touch()

	case CmdAdjustVolume:
		delta := s.opts.VolumeStep
		if cmd.Value < 0 {
			delta = -delta
		}
		s.setVolume(stepVolume(s.volume, delta))
		s.touch()

	case CmdToggleMute:
		s.muted = !s.muted
		s.issue(s.prim.SetVolume(s.audible()))
		s.touch()

	case CmdToggleFullscreen:
		// isFullscreen follows the primitive's change notification only.
		s.issue(s.prim.SetFullscreen(!s.fullscreen))
		s.touch()

	case CmdToggleLegend:
		s.legend = !s.legend
		s.touch()

	case CmdActivity:
		s.touch()
	}
}

// handle folds one primitive status event into the session.
func (s *session) handle(ev Event) {
	if s.url == "" {
		return
	}
	switch ev := ev.(type) {
	case ReadyEvent:
		if s.failed {
			return
		}
		if !s.ready {
			s.log.Debug("media ready", "duration", s.duration)
		}
		s.ready = true
		if s.playing {
			s.started = true
		}
		s.reschedule()

	case ProgressEvent:
		if s.seeking || s.failed {
			return
		}
		s.position = clampPosition(ev.Position, s.duration)

	case DurationEvent:
		if ev.Duration < 0 || math.IsNaN(ev.Duration) || math.IsInf(ev.Duration, 0) {
			return
		}
		s.duration = ev.Duration
		s.position = clampPosition(s.position, s.duration)

	case FailedEvent:
		s.fail(ev.Err)

	case FullscreenEvent:
		s.fullscreen = ev.On
	}
}

// idleElapsed runs when the auto-hide timer fires.
func (s *session) idleElapsed() {
	if !s.playing || !s.ready || s.seeking || s.failed {
		return
	}
	s.controls = false
	s.legend = false
}

func (s *session) seek(target float64) {
	target = clampPosition(target, s.duration)
	// Provisional until the next progress event confirms it.
	s.position = target
	s.issue(s.prim.SeekTo(target))
}

func (s *session) setVolume(v float64) {
	s.volume = clampVolume(v)
	s.muted = false
	s.issue(s.prim.SetVolume(s.audible()))
}

func (s *session) audible() float64 {
	if s.muted {
		return 0
	}
	return s.volume
}

// touch registers a qualifying interaction: controls become visible and
// the idle timer is rescheduled or cancelled.
func (s *session) touch() {
	s.controls = true
	s.reschedule()
}

// reschedule is evaluated on every qualifying transition. Only a ready,
// playing session has a pending hide.
func (s *session) reschedule() {
	if s.playing && s.ready && !s.failed {
		s.timer.Arm(s.opts.ControlsTimeout)
		return
	}
	s.timer.Cancel()
}

func (s *session) fail(err error) {
	if err == nil {
		err = ErrClosed
	}
	if !s.failed {
		s.log.Warn("playback failed", "err", err)
	}
	s.failed = true
	s.ready = false
	s.playing = false
	s.seeking = false
	s.err = err
	s.controls = true
	s.timer.Cancel()
}

// issue records the outcome of a primitive command. A primitive that
// cannot take commands has failed the session.
func (s *session) issue(err error) {
	if err != nil {
		s.fail(err)
	}
}
