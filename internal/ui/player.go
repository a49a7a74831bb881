package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"mazflix/internal/playback"
)

// Screen position of the scrubber: App padding (1 row, 2 cols) plus the
// title and state lines above it.
const (
	scrubRow = 1 + 2
	scrubCol = 2
)

var keyNames = map[string]string{
	" ":     "space",
	"left":  "←",
	"right": "→",
	"up":    "↑",
	"down":  "↓",
}

// shortcutKeys renders playback.Shortcuts for the help legend.
type shortcutKeys []key.Binding

func newShortcutKeys(skip time.Duration) shortcutKeys {
	var bindings shortcutKeys
	for _, s := range playback.Shortcuts {
		name := s.Keys[0]
		if n, ok := keyNames[name]; ok {
			name = n
		}
		desc := s.Help
		if s.Command.Kind == playback.CmdSkip {
			dir := "forward"
			if s.Command.Value < 0 {
				dir = "back"
			}
			desc = fmt.Sprintf("%s %s", dir, skip)
		}
		bindings = append(bindings, key.NewBinding(key.WithKeys(s.Keys...), key.WithHelp(name, desc)))
	}
	return bindings
}

func (k shortcutKeys) ShortHelp() []key.Binding  { return k }
func (k shortcutKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k[:len(k)/2], k[len(k)/2:]} }

// PlayerModel renders a playback controller and routes keys to it. It
// holds the controller only while mounted.
type PlayerModel struct {
	styles   Styles
	keys     shortcutKeys
	help     help.Model
	progress progress.Model
	volume   progress.Model

	ctrl      *playback.Controller
	cancel    context.CancelFunc
	done      <-chan struct{}
	gen       int
	snap      playback.Snapshot
	scrubbing bool
	width     int
}

func NewPlayerModel(styles Styles, skip time.Duration) PlayerModel {
	h := help.New()
	h.ShowAll = true
	return PlayerModel{
		styles:   styles,
		keys:     newShortcutKeys(skip),
		help:     h,
		progress: progress.New(progress.WithSolidFill("#E50914"), progress.WithoutPercentage()),
		volume:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(12)),
	}
}

// Mount starts ctrl's event loop and subscribes to its snapshots.
func (m *PlayerModel) Mount(ctrl *playback.Controller) tea.Cmd {
	m.Unmount()
	ctx, cancel := context.WithCancel(context.Background())
	m.gen++
	m.ctrl = ctrl
	m.cancel = cancel
	m.done = ctrl.Done()
	m.snap = ctrl.Initial()
	m.scrubbing = false
	go ctrl.Run(ctx)
	return waitForSnapshot(ctrl, m.gen)
}

// Unmount stops the controller. Pending snapshot reads end when Run
// closes the updates channel.
func (m *PlayerModel) Unmount() {
	if m.cancel != nil {
		m.cancel()
	}
	m.ctrl = nil
	m.cancel = nil
}

// Wait blocks until the last mounted controller has released its
// backend, or timeout passes.
func (m PlayerModel) Wait(timeout time.Duration) {
	if m.done == nil {
		return
	}
	select {
	case <-m.done:
	case <-time.After(timeout):
	}
}

// Mounted reports whether a controller is attached.
func (m PlayerModel) Mounted() bool { return m.ctrl != nil }

// Snapshot returns the last rendered state.
func (m PlayerModel) Snapshot() playback.Snapshot { return m.snap }

func (m *PlayerModel) SetSize(w, h int) {
	m.width = w
	m.progress.Width = max(w-2, 10)
	m.help.Width = w
}

func waitForSnapshot(ctrl *playback.Controller, gen int) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ctrl.Updates()
		if !ok {
			return playerClosedMsg{gen: gen}
		}
		return snapshotMsg{gen: gen, snap: snap}
	}
}

func (m PlayerModel) Update(msg tea.Msg) (PlayerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		if msg.gen != m.gen || m.ctrl == nil {
			return m, nil
		}
		m.snap = msg.snap
		return m, waitForSnapshot(m.ctrl, m.gen)

	case tea.KeyMsg:
		if m.ctrl == nil {
			return m, nil
		}
		switch msg.String() {
		case "r":
			if m.snap.State == playback.Error {
				m.ctrl.Do(playback.Retry())
			}
			return m, nil
		case "enter":
			if m.snap.State == playback.Unavailable {
				m.ctrl.Do(playback.RequestTitle())
			}
			return m, nil
		}
		if m.snap.State == playback.Unavailable {
			return m, nil
		}
		if cmd, ok := playback.Lookup(msg.String(), false); ok {
			m.ctrl.Do(cmd)
		}
		return m, nil

	case tea.MouseMsg:
		if m.ctrl == nil {
			return m, nil
		}
		m.mouse(msg)
		return m, nil
	}
	return m, nil
}

// mouse maps pointer input to activity and scrubber drags.
func (m *PlayerModel) mouse(msg tea.MouseMsg) {
	onBar := msg.Y == scrubRow && msg.X >= scrubCol && msg.X < scrubCol+m.progress.Width
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && onBar:
		m.scrubbing = true
		m.ctrl.Do(playback.SeekBegin())
		m.ctrl.Do(playback.SeekDrag(scrubFraction(msg.X, m.progress.Width)))
	case msg.Action == tea.MouseActionMotion && m.scrubbing:
		m.ctrl.Do(playback.SeekDrag(scrubFraction(msg.X, m.progress.Width)))
	case msg.Action == tea.MouseActionRelease && m.scrubbing:
		m.scrubbing = false
		m.ctrl.Do(playback.SeekCommit())
	default:
		m.ctrl.Do(playback.Activity())
	}
}

// scrubFraction converts a pointer column to a scrubber fraction.
func scrubFraction(x, width int) float64 {
	if width <= 1 {
		return 0
	}
	f := float64(x-scrubCol) / float64(width-1)
	return min(max(f, 0), 1)
}

func (m PlayerModel) View() string {
	s := m.snap
	title := m.styles.Header.Render(s.Title)

	switch s.State {
	case playback.Unavailable:
		body := "No video available for this title."
		if s.Requested {
			body += "\n\n" + m.styles.Notice.Render("Request noted. Thanks!")
		} else {
			body += "\n\n" + m.styles.Muted.Render("enter request this title")
		}
		return title + "\n\n" + m.styles.Placeholder.Render(body) + "\n\n" + m.styles.Help.Render("esc back")

	case playback.Error:
		msg := "Playback failed"
		if s.Err != nil {
			msg += ": " + s.Err.Error()
		}
		return title + "\n\n" + m.styles.ErrorText.Render(msg) + "\n\n" + m.styles.Help.Render("r retry • esc back")
	}

	if !s.ControlsVisible {
		return title
	}

	var b strings.Builder
	b.WriteString(title + "\n")
	b.WriteString(m.stateLine(s) + "\n")
	b.WriteString(m.progress.ViewAs(s.Progress()) + "\n")
	b.WriteString(m.styles.Muted.Render(s.Elapsed()) + "\n\n")

	vol := fmt.Sprintf("vol %3.0f%%", s.Volume*100)
	if s.Muted {
		vol = "muted"
	}
	b.WriteString(m.volume.ViewAs(s.AudibleVolume()) + " " + m.styles.Muted.Render(vol))
	if s.Fullscreen {
		b.WriteString("  " + m.styles.Notice.Render("⛶ fullscreen"))
	}
	b.WriteString("\n")

	if s.LegendVisible {
		b.WriteString(m.styles.Legend.Render(m.help.View(m.keys)) + "\n")
	} else {
		b.WriteString(m.styles.Help.Render("? shortcuts • esc back") + "\n")
	}
	return b.String()
}

func (m PlayerModel) stateLine(s playback.Snapshot) string {
	var icon string
	switch s.State {
	case playback.Loading:
		icon = "… loading"
	case playback.Playing:
		icon = "▶ playing"
	case playback.Paused:
		icon = "⏸ paused"
	default:
		icon = "■ ready"
	}
	if s.Seeking {
		icon += " (seeking)"
	}
	return m.styles.State.Render(icon)
}
