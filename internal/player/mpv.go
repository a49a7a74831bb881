package player

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"mazflix/internal/playback"
)

var _ playback.Primitive = (*MPV)(nil)

// Properties observed for the lifetime of the connection. The index+1 is
// the observer ID.
var observed = []string{"time-pos", "duration", "fullscreen"}

const socketWait = 5 * time.Second

// MPV drives an mpv process through its IPC socket, which lives at a
// randomized temp path (prevents symlink attacks).
type MPV struct {
	opts Options
	log  *slog.Logger

	mu      sync.Mutex
	cmd     *exec.Cmd
	conn    net.Conn
	dir     string
	nextID  int
	pending map[int]chan ipcMessage
	writeMu sync.Mutex

	events     chan playback.Event
	quit       chan struct{}
	readerDone chan struct{}
	exited     chan struct{}
	closeOnce  sync.Once
}

// NewMPV returns an mpv player. The process is started on the first Load.
func NewMPV(opts Options) *MPV {
	opts = opts.withDefaults("mpv")
	return &MPV{
		opts:       opts,
		log:        opts.Logger.With("player", "mpv"),
		pending:    make(map[int]chan ipcMessage),
		events:     make(chan playback.Event, 64),
		quit:       make(chan struct{}),
		readerDone: make(chan struct{}),
	}
}

func (m *MPV) Name() string { return "mpv" }

func (m *MPV) Available() bool { return lookPath(m.opts.Binary) }

// args builds the launch arguments as an explicit slice.
func (m *MPV) args(socket string) []string {
	args := []string{
		"--idle=yes",
		"--keep-open=yes",
		"--pause=yes",
		"--force-window=yes",
		"--really-quiet",
		"--input-ipc-server=" + socket,
	}
	if m.opts.Title != "" {
		args = append(args, "--force-media-title="+m.opts.Title)
	}
	return append(args, m.opts.Args...)
}

// Load starts mpv if needed and replaces the current file with url.
// Readiness arrives later as a ReadyEvent.
func (m *MPV) Load(ctx context.Context, url string) error {
	if url == "" {
		return playback.ErrNoMedia
	}
	if err := m.start(ctx); err != nil {
		return err
	}
	if _, err := m.command("loadfile", url, "replace"); err != nil {
		return fmt.Errorf("loading %s: %w", url, err)
	}
	return nil
}

func (m *MPV) SetPaused(paused bool) error {
	_, err := m.command("set_property", "pause", paused)
	return err
}

// SetVolume maps [0,1] onto mpv's 0-100 scale.
func (m *MPV) SetVolume(v float64) error {
	_, err := m.command("set_property", "volume", v*100)
	return err
}

func (m *MPV) SeekTo(seconds float64) error {
	_, err := m.command("seek", seconds, "absolute")
	return err
}

func (m *MPV) SetFullscreen(on bool) error {
	_, err := m.command("set_property", "fullscreen", on)
	return err
}

func (m *MPV) Fullscreen() (bool, error) {
	data, err := m.command("get_property", "fullscreen")
	if err != nil {
		return false, err
	}
	var on bool
	if err := json.Unmarshal(data, &on); err != nil {
		return false, fmt.Errorf("decoding fullscreen: %w", err)
	}
	return on, nil
}

// Events returns the notification stream. It is closed once the
// connection to mpv ends or Close is called.
func (m *MPV) Events() <-chan playback.Event { return m.events }

// Close asks mpv to quit, kills it if it lingers and removes the socket dir.
func (m *MPV) Close() error {
	m.closeOnce.Do(func() {
		close(m.quit)

		m.mu.Lock()
		conn, cmd, dir, exited := m.conn, m.cmd, m.dir, m.exited
		m.mu.Unlock()

		if conn != nil {
			m.writeMu.Lock()
			_ = conn.SetWriteDeadline(time.Now().Add(time.Second))
			_, _ = conn.Write([]byte(`{"command":["quit"]}` + "\n"))
			m.writeMu.Unlock()
			conn.Close()
			<-m.readerDone
		} else {
			close(m.events)
		}

		if cmd != nil {
			select {
			case <-exited:
			case <-time.After(2 * time.Second):
				m.log.Debug("mpv did not quit, killing")
				_ = cmd.Process.Kill()
			}
		}
		if dir != "" {
			os.RemoveAll(dir)
		}
	})
	return nil
}

func (m *MPV) start(ctx context.Context) error {
	m.mu.Lock()
	running := m.conn != nil
	m.mu.Unlock()
	if running {
		return nil
	}
	select {
	case <-m.quit:
		return playback.ErrClosed
	default:
	}

	dir, err := os.MkdirTemp("", "mazflix-mpv-*")
	if err != nil {
		return fmt.Errorf("creating temp dir for mpv socket: %w", err)
	}
	socket := filepath.Join(dir, "socket")

	// Stdout and stderr stay detached; the terminal belongs to the UI.
	cmd := exec.Command(m.opts.Binary, m.args(socket)...)
	if err := cmd.Start(); err != nil {
		os.RemoveAll(dir)
		return fmt.Errorf("starting mpv: %w", err)
	}
	m.log.Debug("mpv started", "pid", cmd.Process.Pid, "socket", socket)
	exited := make(chan struct{})
	go func() {
		err := cmd.Wait()
		m.log.Debug("mpv process ended", "err", err)
		close(exited)
	}()

	conn, err := dialSocket(ctx, socket, exited)
	if err != nil {
		_ = cmd.Process.Kill()
		<-exited
		os.RemoveAll(dir)
		return fmt.Errorf("connecting to mpv: %w", err)
	}

	m.mu.Lock()
	m.cmd, m.dir, m.exited = cmd, dir, exited
	m.mu.Unlock()
	m.attach(conn)
	return m.observe()
}

// dialSocket waits for mpv to create its socket.
func dialSocket(ctx context.Context, socket string, exited <-chan struct{}) (net.Conn, error) {
	ctx, cancel := context.WithTimeout(ctx, socketWait)
	defer cancel()
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

	var d net.Dialer
	for {
		conn, err := d.DialContext(ctx, "unix", socket)
		if err == nil {
			return conn, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for %s: %w", socket, ctx.Err())
		case <-exited:
			return nil, ErrExited
		case <-tick.C:
		}
	}
}

// attach binds a connected socket and starts reading from it.
func (m *MPV) attach(conn net.Conn) {
	m.mu.Lock()
	m.conn = conn
	m.mu.Unlock()
	go m.read(conn)
}

func (m *MPV) observe() error {
	for i, name := range observed {
		if _, err := m.command("observe_property", i+1, name); err != nil {
			return fmt.Errorf("observing %s: %w", name, err)
		}
	}
	return nil
}

type ipcRequest struct {
	Command   []any `json:"command"`
	RequestID int   `json:"request_id"`
}

type ipcMessage struct {
	RequestID int             `json:"request_id"`
	Error     string          `json:"error"`
	Data      json.RawMessage `json:"data"`
	Event     string          `json:"event"`
	Name      string          `json:"name"`
	Reason    string          `json:"reason"`
	FileError string          `json:"file_error"`
}

// command sends one request and waits for its reply.
func (m *MPV) command(args ...any) (json.RawMessage, error) {
	m.mu.Lock()
	conn := m.conn
	if conn == nil {
		m.mu.Unlock()
		return nil, fmt.Errorf("mpv %v: not running", args[0])
	}
	m.nextID++
	id := m.nextID
	reply := make(chan ipcMessage, 1)
	m.pending[id] = reply
	m.mu.Unlock()
	defer m.forget(id)

	data, err := json.Marshal(ipcRequest{Command: args, RequestID: id})
	if err != nil {
		return nil, fmt.Errorf("encoding mpv %v: %w", args[0], err)
	}
	data = append(data, '\n')

	m.writeMu.Lock()
	_, err = conn.Write(data)
	m.writeMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("writing mpv %v: %w", args[0], err)
	}

	timer := time.NewTimer(m.opts.ReplyTimeout)
	defer timer.Stop()
	select {
	case msg := <-reply:
		if msg.Error != "" && msg.Error != "success" {
			return nil, fmt.Errorf("mpv %v: %s", args[0], msg.Error)
		}
		return msg.Data, nil
	case <-timer.C:
		return nil, fmt.Errorf("mpv %v: no reply after %s", args[0], m.opts.ReplyTimeout)
	case <-m.readerDone:
		return nil, ErrExited
	}
}

func (m *MPV) forget(id int) {
	m.mu.Lock()
	delete(m.pending, id)
	m.mu.Unlock()
}

func (m *MPV) resolve(msg ipcMessage) {
	m.mu.Lock()
	reply, ok := m.pending[msg.RequestID]
	m.mu.Unlock()
	if ok {
		reply <- msg
	}
}

func (m *MPV) read(conn net.Conn) {
	defer close(m.readerDone)
	defer close(m.events)

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	for scanner.Scan() {
		var msg ipcMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			m.log.Debug("skipping malformed ipc line", "err", err)
			continue
		}
		if msg.Event == "" {
			m.resolve(msg)
			continue
		}
		ev, ok := translate(msg)
		if !ok {
			continue
		}
		if !m.emit(ev) {
			return
		}
	}

	select {
	case <-m.quit:
		return
	default:
	}
	m.log.Debug("mpv connection lost", "err", scanner.Err())
	m.emit(playback.FailedEvent{Err: ErrExited})
}

// emit delivers ev unless the player is closing. Progress is dropped when
// the consumer lags; the next position supersedes it.
func (m *MPV) emit(ev playback.Event) bool {
	if _, ok := ev.(playback.ProgressEvent); ok {
		select {
		case m.events <- ev:
		default:
		}
		return true
	}
	select {
	case m.events <- ev:
		return true
	case <-m.quit:
		return false
	}
}

// translate maps an mpv event onto a playback event.
func translate(msg ipcMessage) (playback.Event, bool) {
	switch msg.Event {
	case "file-loaded":
		return playback.ReadyEvent{}, true
	case "end-file":
		if msg.Reason != "error" {
			return nil, false
		}
		reason := msg.FileError
		if reason == "" {
			reason = "unknown error"
		}
		return playback.FailedEvent{Err: errors.New("mpv: " + reason)}, true
	case "property-change":
		return translateProperty(msg.Name, msg.Data)
	}
	return nil, false
}

func translateProperty(name string, data json.RawMessage) (playback.Event, bool) {
	switch name {
	case "time-pos", "duration":
		var v *float64
		if err := json.Unmarshal(data, &v); err != nil || v == nil {
			return nil, false
		}
		if name == "duration" {
			return playback.DurationEvent{Duration: *v}, true
		}
		return playback.ProgressEvent{Position: *v}, true
	case "fullscreen":
		var on bool
		if err := json.Unmarshal(data, &on); err != nil {
			return nil, false
		}
		return playback.FullscreenEvent{On: on}, true
	}
	return nil, false
}
