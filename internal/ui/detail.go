package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"mazflix/internal/catalog"
	"mazflix/internal/media"
)

// DetailModel shows one movie and where it can be played.
type DetailModel struct {
	catalog Catalog
	videos  Resolver
	styles  Styles
	spinner spinner.Model

	id        int
	detail    *media.MovieDetail
	source    media.VideoSource
	isLoading bool
	err       error
	width     int
}

func NewDetailModel(c Catalog, videos Resolver, styles Styles) DetailModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner
	return DetailModel{catalog: c, videos: videos, styles: styles, spinner: s}
}

// Load starts fetching movie id.
func (m *DetailModel) Load(id int) tea.Cmd {
	m.id = id
	m.detail = nil
	m.err = nil
	m.isLoading = true
	m.source = media.VideoSource{}
	if m.videos != nil {
		m.source = m.videos.Resolve(id)
	}

	c := m.catalog
	fetch := func() tea.Msg {
		if c == nil {
			return detailErrMsg{id: id, err: catalog.ErrNoAPIKey}
		}
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		d, err := c.Movie(ctx, id)
		if err != nil {
			return detailErrMsg{id: id, err: err}
		}
		return detailMsg{detail: d}
	}
	return tea.Batch(m.spinner.Tick, fetch)
}

func (m *DetailModel) SetSize(w, h int) { m.width = w }

// Play returns the message that starts playback of the shown movie.
func (m DetailModel) Play() (playMsg, bool) {
	if m.detail == nil {
		return playMsg{}, false
	}
	return playMsg{title: m.detail.Title, source: m.source}, true
}

func (m DetailModel) Update(msg tea.Msg) (DetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case detailMsg:
		if msg.detail.ID != m.id {
			return m, nil
		}
		m.isLoading = false
		m.detail = msg.detail
	case detailErrMsg:
		if msg.id != m.id {
			return m, nil
		}
		m.isLoading = false
		m.err = msg.err
	case spinner.TickMsg:
		if m.isLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m DetailModel) View() string {
	if m.isLoading {
		return m.spinner.View() + " Loading movie details..."
	}
	if m.err != nil {
		return m.styles.ErrorText.Render("Movie not found: "+m.err.Error()) + "\n\n" +
			m.styles.Help.Render("esc back")
	}
	if m.detail == nil {
		return ""
	}
	d := m.detail

	var b strings.Builder
	b.WriteString(m.styles.Header.Render(d.Title) + "\n")
	if d.Tagline != "" {
		b.WriteString(m.styles.Subtitle.Render(d.Tagline) + "\n")
	}

	runtime := "Unknown duration"
	if d.Runtime > 0 {
		runtime = fmt.Sprintf("%d min", d.Runtime)
	}
	meta := []string{d.Year(), runtime}
	if d.VoteAverage > 0 {
		meta = append(meta, m.styles.Rating.Render(fmt.Sprintf("★ %.1f/10", d.VoteAverage)))
	}
	b.WriteString(m.styles.Muted.Render(strings.Join(meta, " • ")) + "\n\n")

	overview := d.Overview
	if overview == "" {
		overview = "No description available"
	}
	if m.width > 0 {
		overview = lipgloss.NewStyle().Width(m.width).Render(overview)
	}
	b.WriteString(overview + "\n\n")

	m.row(&b, "Genres", strings.Join(d.GenreNames(), ", "))
	m.row(&b, "Budget", money(d.Budget))
	m.row(&b, "Revenue", money(d.Revenue))
	m.row(&b, "Production", strings.Join(d.CompanyNames(), ", "))
	m.row(&b, "Languages", strings.Join(d.LanguageNames(), ", "))

	b.WriteString("\n")
	if m.source.Available {
		b.WriteString(m.styles.Notice.Render("▶ "+m.source.Quality+" video available") + "\n")
	} else {
		b.WriteString(m.styles.Muted.Render("No video available for this title") + "\n")
	}
	b.WriteString(m.styles.Help.Render("p play • esc back • q quit"))
	return b.String()
}

func (m DetailModel) row(b *strings.Builder, label, value string) {
	if value == "" {
		value = "N/A"
	}
	b.WriteString(m.styles.Label.Render(label) + value + "\n")
}

func money(v int64) string {
	if v <= 0 {
		return ""
	}
	return "$" + humanize.Comma(v)
}
