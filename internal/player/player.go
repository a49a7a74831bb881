// Package player launches media players. All player invocations use
// exec.Command with explicit argument slices; nothing goes through a shell.
//
// mpv is driven over its JSON IPC socket and implements playback.Primitive,
// so the controller can own the playback state. Other players are handed
// the URL and left alone.
package player

import (
	"errors"
	"log/slog"
	"os/exec"
	"time"
)

// ErrExited is reported when the player process goes away underneath us.
var ErrExited = errors.New("player exited")

// Player is the interface shared by every player implementation.
type Player interface {
	// Name returns the player name.
	Name() string

	// Available checks if the player binary exists in PATH.
	Available() bool
}

// Options configures a player.
type Options struct {
	// Binary overrides the executable looked up in PATH.
	Binary string
	// Title is shown in the player window.
	Title string
	// Args are appended to the generated arguments.
	Args []string
	// ReplyTimeout bounds each IPC round trip.
	ReplyTimeout time.Duration
	Logger       *slog.Logger
}

func (o Options) withDefaults(name string) Options {
	if o.Binary == "" {
		o.Binary = name
	}
	if o.ReplyTimeout <= 0 {
		o.ReplyTimeout = 5 * time.Second
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// New creates a player by name. Unknown names fall back to mpv.
func New(name string, opts Options) Player {
	switch name {
	case "vlc", "iina", "celluloid":
		return NewExternal(name, opts)
	default:
		return NewMPV(opts)
	}
}

func lookPath(bin string) bool {
	_, err := exec.LookPath(bin)
	return err == nil
}
