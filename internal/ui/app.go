// Package ui is the terminal front end: a movie browser, a detail page,
// the playback surface and the streaming listings.
package ui

import (
	"context"
	"log/slog"
	"os/exec"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mazflix/internal/catalog"
	"mazflix/internal/media"
	"mazflix/internal/playback"
	"mazflix/internal/player"
)

const (
	minWidth  = 40
	minHeight = 12

	shutdownTimeout = 3 * time.Second
)

// Catalog is the movie metadata source.
type Catalog interface {
	Search(ctx context.Context, query string, page int) (*catalog.Page, error)
	Movie(ctx context.Context, id int) (*media.MovieDetail, error)
}

// Resolver maps a movie to its playable video.
type Resolver interface {
	Resolve(id int) media.VideoSource
}

// Launcher starts a player that runs outside the TUI.
type Launcher interface {
	Name() string
	Command(url, title string) *exec.Cmd
}

// Options configures an AppModel.
type Options struct {
	Catalog Catalog
	Videos  Resolver

	// NewPrimitive returns a fresh playback backend for one session.
	// When nil, playable titles go to Launcher instead.
	NewPrimitive func(title string) playback.Primitive
	Launcher     Launcher
	Playback     playback.Options

	// Query seeds the browser. Movie, when set, opens its detail page.
	// Service opens the streaming view on that platform ("trending" for
	// the cross-platform list). URL, when set, starts playing it directly.
	Query   string
	Movie   int
	Service string
	URL     string
	Title   string

	Logger *slog.Logger
}

// AppModel routes messages between the views.
type AppModel struct {
	opts   Options
	styles Styles
	log    *slog.Logger

	browse    BrowseModel
	detail    DetailModel
	player    PlayerModel
	streaming StreamingModel

	state    view
	previous view
	direct   bool // started in the player; leaving it quits
	lastPlay playMsg
	closed   bool
	notice   string

	width, height int
}

func New(opts Options) AppModel {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Playback.Logger == nil {
		opts.Playback.Logger = opts.Logger
	}
	skip := opts.Playback.SkipStep
	if skip <= 0 {
		skip = playback.DefaultOptions().SkipStep
	}

	styles := DefaultStyles()
	m := AppModel{
		opts:      opts,
		styles:    styles,
		log:       opts.Logger,
		browse:    NewBrowseModel(opts.Catalog, styles, opts.Query),
		detail:    NewDetailModel(opts.Catalog, opts.Videos, styles),
		player:    NewPlayerModel(styles, skip),
		streaming: NewStreamingModel(styles),
		state:     browseView,
	}
	if opts.Service != "" {
		m.streaming.Select(opts.Service)
		m.state = streamingView
	}
	m.direct = opts.URL != ""
	return m
}

// Run starts the program and blocks until the user quits.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithMouseAllMotion())
	final, err := p.Run()
	if app, ok := final.(AppModel); ok {
		app.player.Unmount()
		app.player.Wait(shutdownTimeout)
	}
	return err
}

func (m AppModel) Init() tea.Cmd {
	switch {
	case m.opts.URL != "":
		src := media.VideoSource{URL: m.opts.URL, Available: true}
		msg := playMsg{title: m.opts.Title, source: src}
		return func() tea.Msg { return msg }
	case m.opts.Movie > 0:
		id := m.opts.Movie
		return tea.Batch(m.browse.Init(), func() tea.Msg { return openDetailMsg{id: id} })
	}
	return m.browse.Init()
}

// View renders the active screen.
func (m AppModel) View() string {
	if m.width > 0 && (m.width < minWidth || m.height < minHeight) {
		return m.styles.Muted.Render("Terminal too small.")
	}

	var body string
	switch m.state {
	case detailView:
		body = m.detail.View()
	case playerView:
		return m.styles.App.Render(m.player.View())
	case streamingView:
		body = m.streaming.View()
	default:
		body = m.browse.View()
	}

	header := m.styles.Header.Render("MazFlix")
	if m.notice != "" {
		header += "  " + m.styles.ErrorText.Render(m.notice)
	}
	return m.styles.App.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", body))
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		w, h := msg.Width-4, msg.Height-4
		m.browse.SetSize(w, h)
		m.detail.SetSize(w, h)
		m.player.SetSize(w, h)
		m.streaming.SetSize(w, h)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.state == playerView {
			m.player, cmd = m.player.Update(msg)
		}
		return m, cmd

	case moviesMsg, moviesErrMsg:
		m.browse, cmd = m.browse.Update(msg)
		return m, cmd

	case openDetailMsg:
		m.log.Debug("opening detail", "id", msg.id)
		m.notice = ""
		m.state = detailView
		return m, m.detail.Load(msg.id)

	case detailMsg, detailErrMsg:
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd

	case playMsg:
		return m.play(msg)

	case snapshotMsg:
		m.player, cmd = m.player.Update(msg)
		return m, cmd

	case playerClosedMsg:
		if msg.gen == m.player.gen {
			m.closed = true
		}
		return m, nil

	case externalDoneMsg:
		if msg.err != nil {
			m.log.Error("external player", "err", msg.err)
			m.notice = msg.err.Error()
		}
		return m, nil
	}

	// Spinner ticks carry their own ID; each view ignores the others'.
	var bcmd, dcmd tea.Cmd
	m.browse, bcmd = m.browse.Update(msg)
	m.detail, dcmd = m.detail.Update(msg)
	return m, tea.Batch(bcmd, dcmd)
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	k := msg.String()

	if k == "ctrl+c" {
		m.player.Unmount()
		return m, tea.Quit
	}

	switch m.state {
	case playerView:
		switch k {
		case "esc", "q", "backspace":
			m.player.Unmount()
			if m.direct {
				return m, tea.Quit
			}
			m.state = m.previous
			return m, nil
		case "r":
			// A closed controller cannot retry; start a fresh one.
			if m.closed && m.player.Snapshot().State == playback.Error {
				return m.play(m.lastPlay)
			}
		}
		m.player, cmd = m.player.Update(msg)
		return m, cmd

	case detailView:
		switch k {
		case "q":
			return m, tea.Quit
		case "esc", "backspace":
			m.state = browseView
			return m, nil
		case "p", "enter":
			if play, ok := m.detail.Play(); ok {
				return m.play(play)
			}
			return m, nil
		}
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd

	case streamingView:
		switch k {
		case "q":
			return m, tea.Quit
		case "tab", "esc":
			m.state = browseView
			return m, nil
		}
		m.streaming, cmd = m.streaming.Update(msg)
		return m, cmd
	}

	if !m.browse.InputFocused() {
		switch k {
		case "q":
			return m, tea.Quit
		case "tab":
			m.state = streamingView
			return m, nil
		}
	}
	m.browse, cmd = m.browse.Update(msg)
	return m, cmd
}

// play opens the playback surface for msg. Titles without a source get
// the unavailable placeholder; with no in-process backend the external
// player takes over the terminal.
func (m AppModel) play(msg playMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	url := ""
	if msg.source.Available {
		url = msg.source.URL
	}

	if url != "" && m.opts.NewPrimitive == nil {
		if m.opts.Launcher == nil {
			m.notice = "no player configured"
			return m, nil
		}
		m.log.Info("handing off to external player", "player", m.opts.Launcher.Name(), "title", msg.title)
		c := m.opts.Launcher.Command(url, msg.title)
		name := m.opts.Launcher.Name()
		return m, tea.ExecProcess(c, func(err error) tea.Msg {
			return externalDoneMsg{err: player.ExitResult(name, err)}
		})
	}

	var prim playback.Primitive
	if url != "" {
		prim = m.opts.NewPrimitive(msg.title)
	}
	ctrl := playback.New(prim, url, msg.title, m.opts.Playback)

	if m.state != playerView {
		m.previous = m.state
	}
	m.state = playerView
	m.lastPlay = msg
	m.closed = false
	m.log.Debug("mounting player", "title", msg.title, "available", url != "")
	return m, m.player.Mount(ctrl)
}
