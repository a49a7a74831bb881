package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mazflix/internal/catalog"
	"mazflix/internal/media"
)

const fetchTimeout = 30 * time.Second

// ratingSteps is the cycle of minimum ratings behind the "r" key.
var ratingSteps = []float64{0, 6, 7, 8}

type movieItem struct {
	movie media.Movie
}

func (i movieItem) FilterValue() string { return i.movie.Title }
func (i movieItem) Title() string       { return i.movie.Title }
func (i movieItem) Description() string {
	return fmt.Sprintf("%s  ★ %.1f  %s", i.movie.Year(), i.movie.VoteAverage, i.movie.ShortOverview(70))
}

// BrowseModel is the search box and result list.
type BrowseModel struct {
	catalog Catalog
	styles  Styles

	textInput   textinput.Model
	resultsList list.Model
	spinner     spinner.Model

	query     string
	movies    []media.Movie
	filter    catalog.Filter
	sortKey   catalog.SortKey
	ratingIdx int
	isLoading bool
	err       error
}

func NewBrowseModel(c Catalog, styles Styles, query string) BrowseModel {
	ti := textinput.New()
	ti.Placeholder = "Search movies..."
	ti.CharLimit = 120
	ti.SetValue(query)

	li := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	li.SetShowStatusBar(false)
	li.SetFilteringEnabled(false)
	li.SetShowHelp(false)
	li.KeyMap.Quit.SetEnabled(false)
	li.Styles.Title = styles.Header

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	m := BrowseModel{
		catalog:     c,
		styles:      styles,
		textInput:   ti,
		resultsList: li,
		spinner:     s,
		query:       query,
		isLoading:   true,
	}
	m.resultsList.Title = m.listTitle()
	return m
}

func (m BrowseModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch(m.query))
}

func (m BrowseModel) fetch(query string) tea.Cmd {
	c := m.catalog
	return func() tea.Msg {
		if c == nil {
			return moviesErrMsg{query: query, err: catalog.ErrNoAPIKey}
		}
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		page, err := c.Search(ctx, query, 1)
		if err != nil {
			return moviesErrMsg{query: query, err: err}
		}
		return moviesMsg{query: query, page: page}
	}
}

// InputFocused reports whether keystrokes belong to the search box.
func (m BrowseModel) InputFocused() bool { return m.textInput.Focused() }

func (m *BrowseModel) SetSize(w, h int) {
	m.textInput.Width = w - 4
	m.resultsList.SetSize(w, h-2)
}

// Selected returns the highlighted movie.
func (m BrowseModel) Selected() (media.Movie, bool) {
	item, ok := m.resultsList.SelectedItem().(movieItem)
	return item.movie, ok
}

func (m BrowseModel) Update(msg tea.Msg) (BrowseModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case moviesMsg:
		if msg.query != m.query {
			return m, nil
		}
		m.isLoading = false
		m.err = nil
		m.movies = msg.page.Results
		m.refresh()
		return m, nil

	case moviesErrMsg:
		if msg.query != m.query {
			return m, nil
		}
		m.isLoading = false
		m.err = msg.err
		return m, nil

	case spinner.TickMsg:
		if !m.isLoading {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.textInput.Focused() {
			switch msg.String() {
			case "esc", "tab":
				m.textInput.Blur()
				return m, nil
			case "enter":
				m.textInput.Blur()
				m.query = m.textInput.Value()
				m.isLoading = true
				m.err = nil
				m.resultsList.Title = m.listTitle()
				return m, tea.Batch(m.spinner.Tick, m.fetch(m.query))
			}
			m.textInput, cmd = m.textInput.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "/":
			return m, m.textInput.Focus()
		case "enter":
			if movie, ok := m.Selected(); ok {
				id := movie.ID
				return m, func() tea.Msg { return openDetailMsg{id: id} }
			}
			return m, nil
		case "s":
			m.sortKey = (m.sortKey + 1) % (catalog.SortRelease + 1)
			m.refresh()
			return m, nil
		case "r":
			m.ratingIdx = (m.ratingIdx + 1) % len(ratingSteps)
			m.filter.MinRating = ratingSteps[m.ratingIdx]
			m.refresh()
			return m, nil
		case "c":
			m.ratingIdx = 0
			m.filter = catalog.Filter{}
			m.refresh()
			return m, nil
		}
		m.resultsList, cmd = m.resultsList.Update(msg)
		return m, cmd
	}

	if m.textInput.Focused() {
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *BrowseModel) refresh() {
	movies := catalog.Sort(m.filter.Apply(m.movies), m.sortKey)
	items := make([]list.Item, len(movies))
	for i, movie := range movies {
		items[i] = movieItem{movie: movie}
	}
	m.resultsList.SetItems(items)
	m.resultsList.Title = m.listTitle()
}

func (m BrowseModel) listTitle() string {
	title := "Popular movies"
	if m.query != "" {
		title = fmt.Sprintf("Results for %q", m.query)
	}
	title += " · sort: " + m.sortKey.String()
	if m.filter.MinRating > 0 {
		title += fmt.Sprintf(" · ★ ≥ %g", m.filter.MinRating)
	}
	return title
}

func (m BrowseModel) View() string {
	inputView := m.textInput.View()
	var mainView string

	switch {
	case m.isLoading:
		mainView = m.spinner.View() + " Loading movies..."
	case m.err != nil:
		mainView = m.styles.ErrorText.Render(fmt.Sprintf("Error: %v", m.err))
	case len(m.resultsList.Items()) == 0:
		mainView = m.styles.Muted.Render("No movies found.")
	default:
		mainView = m.resultsList.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, inputView, "", mainView)
}
