package player

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// External hands a URL to a player that has no IPC channel (vlc, iina,
// celluloid). Playback state is not tracked.
type External struct {
	name string
	opts Options
}

// NewExternal returns a launcher for the named player.
func NewExternal(name string, opts Options) *External {
	return &External{name: name, opts: opts.withDefaults(name)}
}

func (e *External) Name() string { return e.name }

func (e *External) Available() bool { return lookPath(e.opts.Binary) }

// args builds the launch arguments. iina and celluloid accept mpv-style flags.
func (e *External) args(url, title string) []string {
	args := []string{url}
	switch e.name {
	case "vlc":
		if title != "" {
			args = append(args, "--meta-title", title)
		}
		args = append(args, "--play-and-exit")
	default:
		if title != "" {
			args = append(args, "--force-media-title="+title)
		}
	}
	return append(args, e.opts.Args...)
}

// Command returns the unstarted player process for url. The caller owns
// its stdio.
func (e *External) Command(url, title string) *exec.Cmd {
	e.opts.Logger.Debug("launching player", "player", e.name, "url", url)
	return exec.Command(e.opts.Binary, e.args(url, title)...)
}

// Launch runs the player in the foreground until it exits or ctx ends.
func (e *External) Launch(ctx context.Context, url, title string) error {
	cmd := exec.CommandContext(ctx, e.opts.Binary, e.args(url, title)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	e.opts.Logger.Debug("launching player", "player", e.name, "url", url)
	return ExitResult(e.name, cmd.Run())
}

// ExitResult maps a finished player process to an error. Players exit
// non-zero when the user closes the window, so that is not a failure.
func ExitResult(name string, err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return fmt.Errorf("running %s: %w", name, err)
}
