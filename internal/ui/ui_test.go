package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"mazflix/internal/catalog"
	"mazflix/internal/media"
	"mazflix/internal/playback"
)

type fakeCatalog struct {
	movies []media.Movie
	detail map[int]*media.MovieDetail
}

func (c *fakeCatalog) Search(ctx context.Context, query string, page int) (*catalog.Page, error) {
	return &catalog.Page{Page: 1, TotalPages: 1, Results: c.movies}, nil
}

func (c *fakeCatalog) Movie(ctx context.Context, id int) (*media.MovieDetail, error) {
	d, ok := c.detail[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return d, nil
}

type fakeResolver map[int]string

func (r fakeResolver) Resolve(id int) media.VideoSource {
	url := r[id]
	return media.VideoSource{URL: url, Quality: "HD", Available: url != ""}
}

type fakePrimitive struct {
	mu     sync.Mutex
	calls  []string
	events chan playback.Event
}

func newFakePrimitive() *fakePrimitive {
	return &fakePrimitive{events: make(chan playback.Event, 8)}
}

func (f *fakePrimitive) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakePrimitive) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakePrimitive) Load(ctx context.Context, url string) error {
	f.record("load " + url)
	return nil
}
func (f *fakePrimitive) SetPaused(p bool) error        { f.record(fmt.Sprintf("pause %v", p)); return nil }
func (f *fakePrimitive) SetVolume(v float64) error     { f.record(fmt.Sprintf("volume %.2f", v)); return nil }
func (f *fakePrimitive) SeekTo(s float64) error        { f.record(fmt.Sprintf("seek %.0f", s)); return nil }
func (f *fakePrimitive) SetFullscreen(on bool) error   { f.record(fmt.Sprintf("fullscreen %v", on)); return nil }
func (f *fakePrimitive) Fullscreen() (bool, error)     { return false, nil }
func (f *fakePrimitive) Events() <-chan playback.Event { return f.events }
func (f *fakePrimitive) Close() error                  { f.record("close"); return nil }

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

var testMovies = []media.Movie{
	{ID: 550, Title: "Fight Club", VoteAverage: 8.4, Popularity: 60, ReleaseDate: "1999-10-15"},
	{ID: 72, Title: "Detour", VoteAverage: 6.9, Popularity: 5, ReleaseDate: "1945-11-30"},
	{ID: 13, Title: "Forrest Gump", VoteAverage: 8.5, Popularity: 80, ReleaseDate: "1994-06-23"},
	{ID: 99, Title: "Plan 9", VoteAverage: 4.1, Popularity: 2, ReleaseDate: "1957-07-22"},
}

func testApp(prim *fakePrimitive) AppModel {
	opts := Options{
		Catalog: &fakeCatalog{
			movies: testMovies,
			detail: map[int]*media.MovieDetail{
				550: {ID: 550, Title: "Fight Club", Runtime: 139, Budget: 63000000},
				99:  {ID: 99, Title: "Plan 9"},
			},
		},
		Videos: fakeResolver{550: "https://archive.org/download/x/fight.mp4"},
		Logger: slog.New(slog.DiscardHandler),
	}
	if prim != nil {
		opts.NewPrimitive = func(string) playback.Primitive { return prim }
	}
	m := New(opts)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(AppModel)
}

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	app, ok := next.(AppModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return app, cmd
}

func TestBrowseIgnoresStaleResults(t *testing.T) {
	b := NewBrowseModel(&fakeCatalog{}, DefaultStyles(), "noir")

	b, _ = b.Update(moviesMsg{query: "western", page: &catalog.Page{Results: testMovies}})
	if n := len(b.resultsList.Items()); n != 0 {
		t.Fatalf("stale results applied: %d items", n)
	}
	if !b.isLoading {
		t.Error("stale results ended loading")
	}

	b, _ = b.Update(moviesMsg{query: "noir", page: &catalog.Page{Results: testMovies}})
	if n := len(b.resultsList.Items()); n != len(testMovies) {
		t.Errorf("items = %d, want %d", n, len(testMovies))
	}

	b, _ = b.Update(moviesErrMsg{query: "western", err: errors.New("boom")})
	if b.err != nil {
		t.Error("stale error applied")
	}
}

func TestBrowseSortAndFilter(t *testing.T) {
	b := NewBrowseModel(&fakeCatalog{}, DefaultStyles(), "")
	b, _ = b.Update(moviesMsg{query: "", page: &catalog.Page{Results: testMovies}})

	first := func() string {
		m, _ := b.Selected()
		return m.Title
	}
	if got := first(); got != "Forrest Gump" {
		t.Errorf("popularity order starts with %q", got)
	}

	b, _ = b.Update(keyMsg("s"))
	if b.sortKey != catalog.SortRating {
		t.Fatalf("sort key = %v, want rating", b.sortKey)
	}

	b, _ = b.Update(keyMsg("r"))
	b, _ = b.Update(keyMsg("r"))
	if b.filter.MinRating != 7 {
		t.Fatalf("min rating = %v, want 7", b.filter.MinRating)
	}
	if n := len(b.resultsList.Items()); n != 2 {
		t.Errorf("items with rating >= 7 = %d, want 2", n)
	}
	if !strings.Contains(b.resultsList.Title, "★ ≥ 7") {
		t.Errorf("title = %q", b.resultsList.Title)
	}

	b, _ = b.Update(keyMsg("c"))
	if n := len(b.resultsList.Items()); n != len(testMovies) {
		t.Errorf("after clear items = %d", n)
	}
}

func TestBrowseEnterOpensDetail(t *testing.T) {
	b := NewBrowseModel(&fakeCatalog{}, DefaultStyles(), "")
	b, _ = b.Update(moviesMsg{query: "", page: &catalog.Page{Results: testMovies}})

	_, cmd := b.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("enter produced no command")
	}
	msg, ok := cmd().(openDetailMsg)
	if !ok || msg.id != 13 {
		t.Errorf("msg = %#v, want openDetailMsg{13}", msg)
	}
}

func TestTypingInSearchDoesNotTriggerShortcuts(t *testing.T) {
	m := testApp(nil)
	m, _ = update(t, m, keyMsg("/"))
	if !m.browse.InputFocused() {
		t.Fatal("search not focused")
	}

	for _, k := range []string{"q", "s", "r"} {
		m, _ = update(t, m, keyMsg(k))
	}
	if m.state != browseView {
		t.Fatalf("state = %v after typing", m.state)
	}
	if got := m.browse.textInput.Value(); got != "qsr" {
		t.Errorf("input = %q, want qsr", got)
	}
	if m.browse.sortKey != catalog.SortPopularity || m.browse.filter.MinRating != 0 {
		t.Error("shortcut applied while typing")
	}

	m, _ = update(t, m, keyMsg("esc"))
	_, cmd := update(t, m, keyMsg("q"))
	if !isQuit(cmd) {
		t.Error("q did not quit once search lost focus")
	}
}

func TestTabSwitchesToStreaming(t *testing.T) {
	m := testApp(nil)
	m, _ = update(t, m, keyMsg("tab"))
	if m.state != streamingView {
		t.Fatalf("state = %v, want streaming", m.state)
	}
	m, _ = update(t, m, keyMsg("right"))
	if m.streaming.Service() != "amazon-prime" {
		t.Errorf("service = %q", m.streaming.Service())
	}
	if !strings.Contains(m.View(), "Amazon Prime Video") {
		t.Error("tab row missing")
	}
	m, _ = update(t, m, keyMsg("tab"))
	if m.state != browseView {
		t.Errorf("state = %v, want browse", m.state)
	}
}

func TestStreamingTabsWrap(t *testing.T) {
	s := NewStreamingModel(DefaultStyles())
	s, _ = s.Update(keyMsg("left"))
	if s.Service() != TrendingTab {
		t.Fatalf("service = %q, want trending", s.Service())
	}
	if len(s.list.Items()) == 0 {
		t.Error("trending tab empty")
	}
	s, _ = s.Update(keyMsg("right"))
	if s.Service() != "netflix" {
		t.Errorf("service = %q, want netflix", s.Service())
	}

	if !s.Select("hulu") || s.Service() != "hulu" {
		t.Errorf("Select(hulu) left service %q", s.Service())
	}
	if s.Select("betamax") || s.Service() != "hulu" {
		t.Error("unknown service changed the tab")
	}
}

func TestDetailView(t *testing.T) {
	d := NewDetailModel(&fakeCatalog{}, fakeResolver{550: "https://archive.org/download/x/fight.mp4"}, DefaultStyles())
	d.SetSize(80, 30)
	d.Load(550)

	if _, ok := d.Play(); ok {
		t.Error("Play available before details loaded")
	}

	// A reply for a movie that is no longer shown is ignored.
	d, _ = d.Update(detailMsg{detail: &media.MovieDetail{ID: 13, Title: "Forrest Gump"}})
	if d.detail != nil {
		t.Fatal("stale detail applied")
	}

	d, _ = d.Update(detailMsg{detail: &media.MovieDetail{
		ID:          550,
		Title:       "Fight Club",
		ReleaseDate: "1999-10-15",
		VoteAverage: 8.4,
		Tagline:     "Mischief. Mayhem. Soap.",
		Runtime:     139,
		Budget:      63000000,
		Genres:      []media.Genre{{ID: 18, Name: "Drama"}},
	}})

	view := d.View()
	for _, want := range []string{"Fight Club", "Mischief", "1999", "139 min", "★ 8.4/10", "Drama", "$63,000,000", "N/A", "HD video available"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	play, ok := d.Play()
	if !ok || play.title != "Fight Club" || !play.source.Available {
		t.Errorf("Play() = %+v, %v", play, ok)
	}
}

func TestDetailError(t *testing.T) {
	d := NewDetailModel(&fakeCatalog{}, fakeResolver{}, DefaultStyles())
	d.Load(7)
	d, _ = d.Update(detailErrMsg{id: 7, err: catalog.ErrNotFound})
	if !strings.Contains(d.View(), "Movie not found") {
		t.Errorf("view = %q", d.View())
	}
}

// nextSnapshot runs a pending snapshot subscription and feeds the result
// back into the app.
func nextSnapshot(t *testing.T, m AppModel, cmd tea.Cmd) (AppModel, tea.Cmd, playback.Snapshot) {
	t.Helper()
	if cmd == nil {
		t.Fatal("no snapshot subscription")
	}
	got := make(chan tea.Msg, 1)
	go func() { got <- cmd() }()

	select {
	case msg := <-got:
		snap, ok := msg.(snapshotMsg)
		if !ok {
			t.Fatalf("got %T, want snapshotMsg", msg)
		}
		m, cmd = update(t, m, snap)
		return m, cmd, snap.snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return m, nil, playback.Snapshot{}
}

func TestPlayerRoutesKeys(t *testing.T) {
	prim := newFakePrimitive()
	m := testApp(prim)
	t.Cleanup(func() { m.player.Unmount() })

	m, _ = update(t, m, openDetailMsg{id: 550})
	m, _ = update(t, m, detailMsg{detail: &media.MovieDetail{ID: 550, Title: "Fight Club"}})
	m, cmd := update(t, m, keyMsg("p"))
	if m.state != playerView {
		t.Fatalf("state = %v, want player", m.state)
	}

	m, cmd, snap := nextSnapshot(t, m, cmd)
	if snap.State != playback.Loading || snap.Title != "Fight Club" {
		t.Fatalf("first snapshot = %v %q", snap.State, snap.Title)
	}
	if !snap.LegendVisible || !strings.Contains(m.View(), "play/pause") {
		t.Error("legend not shown at start")
	}

	m, _ = update(t, m, keyMsg(" "))
	m, cmd, snap = nextSnapshot(t, m, cmd)
	if !snap.Playing {
		t.Error("space did not toggle play")
	}

	m, _ = update(t, m, keyMsg("?"))
	m, _, snap = nextSnapshot(t, m, cmd)
	if snap.LegendVisible {
		t.Error("? did not hide the legend")
	}
	if !strings.Contains(m.View(), "? shortcuts") {
		t.Error("legend hint not rendered")
	}

	calls := prim.Calls()
	if len(calls) == 0 || calls[0] != "load https://archive.org/download/x/fight.mp4" {
		t.Errorf("calls = %v", calls)
	}

	m, _ = update(t, m, keyMsg("esc"))
	if m.state != detailView {
		t.Errorf("esc returned to %v, want detail", m.state)
	}
	if m.player.Mounted() {
		t.Error("player still mounted")
	}
}

func TestPlayerUnavailable(t *testing.T) {
	m := testApp(newFakePrimitive())
	t.Cleanup(func() { m.player.Unmount() })

	m, _ = update(t, m, openDetailMsg{id: 99})
	m, _ = update(t, m, detailMsg{detail: &media.MovieDetail{ID: 99, Title: "Plan 9"}})
	m, cmd := update(t, m, keyMsg("p"))

	m, cmd, snap := nextSnapshot(t, m, cmd)
	if snap.State != playback.Unavailable {
		t.Fatalf("state = %v, want unavailable", snap.State)
	}
	if !strings.Contains(m.View(), "No video available") {
		t.Error("placeholder not rendered")
	}

	// Player shortcuts do nothing on the placeholder.
	m, _ = update(t, m, keyMsg(" "))
	m, _ = update(t, m, keyMsg("enter"))
	m, _, snap = nextSnapshot(t, m, cmd)
	if !snap.Requested || snap.Playing {
		t.Errorf("snapshot = %+v, want requested and not playing", snap)
	}
	if !strings.Contains(m.View(), "Request noted") {
		t.Error("request confirmation not rendered")
	}
}

func TestDirectPlayQuitsOnEsc(t *testing.T) {
	prim := newFakePrimitive()
	m := New(Options{
		Catalog:      &fakeCatalog{},
		Videos:       fakeResolver{},
		NewPrimitive: func(string) playback.Primitive { return prim },
		URL:          "https://example.com/detour.mp4",
		Title:        "Detour",
	})
	msg := m.Init()()
	m, _ = update(t, m, msg)
	if m.state != playerView {
		t.Fatalf("state = %v, want player", m.state)
	}
	_, cmd := update(t, m, keyMsg("esc"))
	if !isQuit(cmd) {
		t.Error("esc did not quit a direct play")
	}
}

// awaitSnapshot reads snapshots until one satisfies ok.
func awaitSnapshot(t *testing.T, m AppModel, cmd tea.Cmd, ok func(playback.Snapshot) bool) (AppModel, tea.Cmd) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		var snap playback.Snapshot
		m, cmd, snap = nextSnapshot(t, m, cmd)
		if ok(snap) {
			return m, cmd
		}
	}
	t.Fatal("snapshot condition never met")
	return m, cmd
}

func TestPointerMoveShowsControls(t *testing.T) {
	prim := newFakePrimitive()
	m := testApp(prim)
	m.opts.Playback.ControlsTimeout = 50 * time.Millisecond
	t.Cleanup(func() { m.player.Unmount() })

	m, cmd := update(t, m, playMsg{title: "Detour", source: media.VideoSource{URL: "https://example.com/d.mp4", Available: true}})
	prim.events <- playback.ReadyEvent{}
	m, _ = update(t, m, keyMsg(" "))
	m, cmd = awaitSnapshot(t, m, cmd, func(s playback.Snapshot) bool {
		return s.Playing && !s.ControlsVisible
	})
	if strings.Contains(m.View(), "vol") {
		t.Error("controls rendered while hidden")
	}

	m, _ = update(t, m, tea.MouseMsg{X: 40, Y: 20, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
	m, _ = awaitSnapshot(t, m, cmd, func(s playback.Snapshot) bool { return s.ControlsVisible })
	if !strings.Contains(m.View(), "vol") {
		t.Error("controls not rendered after pointer move")
	}
	if m.player.scrubbing {
		t.Error("hover started a scrub")
	}
}

func TestStaleSnapshotsDropped(t *testing.T) {
	m := testApp(newFakePrimitive())
	t.Cleanup(func() { m.player.Unmount() })

	m, _ = update(t, m, playMsg{title: "Detour", source: media.VideoSource{URL: "https://example.com/d.mp4", Available: true}})
	gen := m.player.gen

	m, cmd := update(t, m, snapshotMsg{gen: gen - 1, snap: playback.Snapshot{Title: "old"}})
	if cmd != nil || m.player.Snapshot().Title == "old" {
		t.Error("snapshot from a previous mount applied")
	}
}

func TestScrubFraction(t *testing.T) {
	tests := []struct {
		x, width int
		want     float64
	}{
		{scrubCol, 11, 0},
		{scrubCol + 5, 11, 0.5},
		{scrubCol + 10, 11, 1},
		{0, 11, 0},
		{500, 11, 1},
		{5, 1, 0},
	}
	for _, tt := range tests {
		if got := scrubFraction(tt.x, tt.width); got != tt.want {
			t.Errorf("scrubFraction(%d, %d) = %v, want %v", tt.x, tt.width, got, tt.want)
		}
	}
}

func TestShortcutHelpUsesSkipStep(t *testing.T) {
	keys := newShortcutKeys(15 * time.Second)
	var descs []string
	for _, b := range keys {
		descs = append(descs, b.Help().Key+" "+b.Help().Desc)
	}
	joined := strings.Join(descs, "|")
	for _, want := range []string{"space play/pause", "← back 15s", "→ forward 15s", "m mute"} {
		if !strings.Contains(joined, want) {
			t.Errorf("help %q missing %q", joined, want)
		}
	}
}

func TestTooSmall(t *testing.T) {
	m := testApp(nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 5})
	if !strings.Contains(m.View(), "too small") {
		t.Error("small terminal not reported")
	}
}

func TestBrowseWithoutCatalog(t *testing.T) {
	b := NewBrowseModel(nil, DefaultStyles(), "")
	msg := b.fetch("")()
	b, _ = b.Update(msg)
	if !errors.Is(b.err, catalog.ErrNoAPIKey) {
		t.Errorf("err = %v, want ErrNoAPIKey", b.err)
	}
	if !strings.Contains(b.View(), "no TMDB API key") {
		t.Errorf("view = %q", b.View())
	}
}
