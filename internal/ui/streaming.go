package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mazflix/internal/media"
	"mazflix/internal/streaming"
)

// TrendingTab is the Service of the cross-platform tab.
const TrendingTab = "trending"

type streamItem struct {
	title media.StreamingTitle
}

func (i streamItem) FilterValue() string { return i.title.Title }
func (i streamItem) Title() string       { return fmt.Sprintf("%s (%d)", i.title.Title, i.title.Year) }
func (i streamItem) Description() string {
	return fmt.Sprintf("%s  ★ %.1f  %s", i.title.Genre, i.title.Rating, strings.Join(i.title.Platforms, ", "))
}

// StreamingModel lists what is on each streaming platform, one tab per
// platform plus a trending tab.
type StreamingModel struct {
	styles Styles
	tabs   []media.Platform
	active int
	list   list.Model
	demo   bool
	now    func() time.Time
}

func NewStreamingModel(styles Styles) StreamingModel {
	tabs := append(streaming.Platforms(), media.Platform{ID: TrendingTab, Name: "Trending"})

	li := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	li.SetShowStatusBar(false)
	li.SetFilteringEnabled(false)
	li.SetShowHelp(false)
	li.KeyMap.Quit.SetEnabled(false)
	li.SetShowTitle(false)

	m := StreamingModel{styles: styles, tabs: tabs, list: li, now: time.Now}
	m.load()
	return m
}

// Select switches to the tab for service. Unknown IDs leave the
// selection alone.
func (m *StreamingModel) Select(service string) bool {
	for i, p := range m.tabs {
		if p.ID == service {
			m.active = i
			m.load()
			return true
		}
	}
	return false
}

// Service returns the platform ID of the active tab.
func (m StreamingModel) Service() string { return m.tabs[m.active].ID }

func (m *StreamingModel) SetSize(w, h int) { m.list.SetSize(w, h-5) }

func (m *StreamingModel) load() {
	var listing streaming.Listing
	if id := m.Service(); id == TrendingTab {
		listing = streaming.Trending(m.now())
	} else {
		listing = streaming.Currently(id)
	}
	items := make([]list.Item, len(listing.Titles))
	for i, t := range listing.Titles {
		items[i] = streamItem{title: t}
	}
	m.list.SetItems(items)
	m.list.Select(0)
	m.demo = listing.Demo
}

func (m StreamingModel) Update(msg tea.Msg) (StreamingModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "right", "l", "n":
			m.active = (m.active + 1) % len(m.tabs)
			m.load()
			return m, nil
		case "left", "h", "p":
			m.active = (m.active - 1 + len(m.tabs)) % len(m.tabs)
			m.load()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m StreamingModel) View() string {
	var tabs []string
	for i, p := range m.tabs {
		style := m.styles.InactiveTab
		if i == m.active {
			style = m.styles.ActiveTab
			if p.Color != "" && p.Color != "#000000" {
				style = style.BorderForeground(lipgloss.Color(p.Color))
			}
		}
		tabs = append(tabs, style.Render(p.Name))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	body := m.list.View()
	if len(m.list.Items()) == 0 {
		body = m.styles.Muted.Render("Nothing streaming here right now.")
	}
	footer := "←/→ platform • tab browse • q quit"
	if m.demo {
		footer = "demo data • " + footer
	}
	return lipgloss.JoinVertical(lipgloss.Left, row, body, m.styles.Help.Render(footer))
}
