package playback

import (
	"context"
	"log/slog"
	"time"
)

// Options tunes a Controller.
type Options struct {
	// ControlsTimeout is the idle window after which controls hide while
	// playing.
	ControlsTimeout time.Duration
	// SkipStep is the distance of a skip forward/back.
	SkipStep time.Duration
	// VolumeStep is the volume delta of a volume up/down.
	VolumeStep float64
	// Volume is the initial stored volume.
	Volume float64
	Logger *slog.Logger
}

// DefaultOptions returns the stock player tuning.
func DefaultOptions() Options {
	return Options{
		ControlsTimeout: 3 * time.Second,
		SkipStep:        10 * time.Second,
		VolumeStep:      0.1,
		Volume:          1,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.ControlsTimeout <= 0 {
		o.ControlsTimeout = d.ControlsTimeout
	}
	if o.SkipStep <= 0 {
		o.SkipStep = d.SkipStep
	}
	if o.VolumeStep <= 0 {
		o.VolumeStep = d.VolumeStep
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Controller owns one playback surface. Create it with New, start its
// event loop with Run, send user intent with Do and render from Updates.
type Controller struct {
	prim    Primitive
	sess    *session
	timer   *loopTimer
	cmds    chan Command
	updates chan Snapshot
	done    chan struct{}
	initial Snapshot
}

// New creates a controller for mediaURL. An empty mediaURL yields an
// Unavailable surface that never touches prim; prim may then be nil.
func New(prim Primitive, mediaURL, title string, opts Options) *Controller {
	opts = opts.withDefaults()
	t := newLoopTimer()
	c := &Controller{
		prim:    prim,
		timer:   t,
		cmds:    make(chan Command, 32),
		updates: make(chan Snapshot, 1),
		done:    make(chan struct{}),
	}
	c.sess = newSession(mediaURL, title, prim, t, opts, opts.Logger)
	c.initial = c.sess.snapshot()
	return c
}

// Initial returns the state the controller starts in, for rendering
// before the first update arrives.
func (c *Controller) Initial() Snapshot {
	return c.initial
}

// Updates delivers snapshots after every state change. Only the latest
// snapshot is kept; slow readers skip intermediate states. The channel
// is closed when Run returns.
func (c *Controller) Updates() <-chan Snapshot {
	return c.updates
}

// Do queues a command for the event loop. It blocks only when the queue
// is full and returns immediately once the controller has stopped.
func (c *Controller) Do(cmd Command) {
	select {
	case c.cmds <- cmd:
	case <-c.done:
	}
}

// Done is closed when Run has returned.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Run is the controller's event loop and the only goroutine that mutates
// the session. The primitive's event subscription is held for the
// lifetime of Run and released on every exit path. Run returns when ctx
// is cancelled or the primitive's event stream ends; playback failures
// are session state, not return values.
func (c *Controller) Run(ctx context.Context) error {
	defer close(c.done)
	defer close(c.updates)
	defer c.timer.Cancel()

	var events <-chan Event
	if c.sess.url != "" {
		events = c.prim.Events()
		defer func() {
			if err := c.prim.Close(); err != nil {
				c.sess.log.Debug("closing primitive", "err", err)
			}
		}()
		c.sess.start(ctx)
	}
	c.publish()

	for {
		select {
		case <-ctx.Done():
			c.sess.log.Debug("controller stopped", "reason", ctx.Err())
			return nil

		case cmd := <-c.cmds:
			c.sess.apply(ctx, cmd)

		case ev, ok := <-events:
			if !ok {
				c.sess.handle(FailedEvent{Err: ErrClosed})
				c.publish()
				return nil
			}
			c.sess.handle(ev)

		case <-c.timer.C():
			c.sess.idleElapsed()
		}
		c.publish()
	}
}

func (c *Controller) publish() {
	snap := c.sess.snapshot()
	select {
	case <-c.updates:
	default:
	}
	c.updates <- snap
}

// loopTimer is the controller's single auto-hide timer. Stop and Reset
// discard any pending fire, so there is never more than one.
type loopTimer struct {
	t *time.Timer
}

func newLoopTimer() *loopTimer {
	t := time.NewTimer(time.Hour)
	t.Stop()
	return &loopTimer{t: t}
}

func (l *loopTimer) Arm(d time.Duration) { l.t.Reset(d) }
func (l *loopTimer) Cancel()             { l.t.Stop() }
func (l *loopTimer) C() <-chan time.Time { return l.t.C }
