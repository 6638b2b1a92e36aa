package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/taichizzz/anime-recommender/internal/models"
	"github.com/taichizzz/anime-recommender/internal/session"
)

type focusArea int

const (
	focusInput focusArea = iota
	focusList
)

// searchDoneMsg carries the outcome of a search started with BeginSearch.
type searchDoneMsg struct {
	ticket session.SearchTicket
	items  []models.CatalogItem
	err    error
}

// recommendDoneMsg carries the outcome of a request started with BeginRecommend.
type recommendDoneMsg struct {
	ticket session.RecommendTicket
	items  []models.RecommendationItem
	err    error
}

// Model is the single-screen search, select and recommend view.
type Model struct {
	ctx         context.Context
	controller  *session.Controller
	searcher    session.Searcher
	recommender session.Recommender

	input  textinput.Model
	focus  focusArea
	cursor int
	width  int
	height int
}

// New builds a model over controller. searcher and recommender must be the
// adapters the controller was built with; calls run outside the controller lock.
func New(ctx context.Context, controller *session.Controller, searcher session.Searcher, recommender session.Recommender) Model {
	ti := textinput.New()
	ti.Placeholder = "Try: naruto, attack on titan, frieren..."
	ti.CharLimit = 200
	ti.Width = 60
	ti.Focus()

	return Model{
		ctx:         ctx,
		controller:  controller,
		searcher:    searcher,
		recommender: recommender,
		input:       ti,
		focus:       focusInput,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-10, 20)
		return m, nil

	case searchDoneMsg:
		m.controller.FinishSearch(msg.ticket, msg.items, msg.err)
		m.clampCursor()
		return m, nil

	case recommendDoneMsg:
		m.controller.FinishRecommend(msg.ticket, msg.items, msg.err)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == KeyCtrlC {
			return m, tea.Quit
		}
		if m.focus == focusList {
			return m.updateList(msg)
		}
		return m.updateInput(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyEnter:
		m.controller.SetQuery(m.input.Value())
		return m, m.startSearch()
	case KeyTab:
		m.focus = focusList
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	results := m.controller.Snapshot().Results

	switch msg.String() {
	case KeyTab, KeyEsc:
		m.focus = focusInput
		return m, m.input.Focus()
	case KeyUp, "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case KeyDown, "j":
		if m.cursor < len(results)-1 {
			m.cursor++
		}
	case KeySpace:
		if m.cursor < len(results) {
			item := results[m.cursor]
			if m.controller.IsSelected(item.ID) {
				m.controller.Deselect(item.ID)
			} else {
				// a full selection is recorded in the state
				_ = m.controller.Select(item)
			}
		}
	case "c":
		m.controller.ClearSelection()
	case "r":
		return m, m.startRecommend()
	}
	return m, nil
}

// startSearch returns nil when the query is blank.
func (m Model) startSearch() tea.Cmd {
	ticket, err := m.controller.BeginSearch()
	if err != nil {
		return nil
	}
	ctx, searcher := m.ctx, m.searcher
	return func() tea.Msg {
		items, err := searcher.Search(ctx, ticket.Query)
		return searchDoneMsg{ticket: ticket, items: items, err: err}
	}
}

// startRecommend returns nil when nothing is selected.
func (m Model) startRecommend() tea.Cmd {
	ticket, err := m.controller.BeginRecommend()
	if err != nil {
		return nil
	}
	ctx, recommender := m.ctx, m.recommender
	return func() tea.Msg {
		items, err := recommender.Recommend(ctx, ticket.LikedIDs)
		return recommendDoneMsg{ticket: ticket, items: items, err: err}
	}
}

func (m *Model) clampCursor() {
	n := len(m.controller.Snapshot().Results)
	if m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m Model) View() string {
	v := session.Render(m.controller.Snapshot())
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Anime Recommender"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	if v.Searching {
		b.WriteString("  " + BusyStyle.Render("Searching..."))
	}
	b.WriteString("\n")

	if v.Error != "" {
		b.WriteString(ErrorStyle.Render(v.Error))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	var sel strings.Builder
	sel.WriteString(v.Header)
	if len(v.Selected) == 0 {
		sel.WriteString("\n" + DimStyle.Render("No anime selected yet."))
	}
	for _, row := range v.Selected {
		sel.WriteString("\n" + SelectedStyle.Render("• "+row.Title))
	}
	b.WriteString(BoxStyle.Render(sel.String()))
	b.WriteString("\n\n")

	for i, row := range v.Results {
		marker := "[ ]"
		if row.Selected {
			marker = "[x]"
		}
		line := fmt.Sprintf("%s %s  %s", marker, row.Title, DimStyle.Render(row.Year+" • ★ "+row.Score))
		if m.focus == focusList && i == m.cursor {
			line = CursorStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
		if m.focus == focusList && i == m.cursor {
			b.WriteString("    " + DimStyle.Render(row.Synopsis) + "\n")
		}
	}

	if v.Recommending {
		b.WriteString("\n" + BusyStyle.Render("Recommending...") + "\n")
	}
	if v.HasRecommendations() {
		b.WriteString("\n" + TitleStyle.Render("Recommendations") + "\n")
		for _, rec := range v.Recommendations {
			fmt.Fprintf(&b, "  %s  %s\n", rec.Title, DimStyle.Render(rec.Year+" • ★ "+rec.Score))
			fmt.Fprintf(&b, "    Reason: %s\n", rec.Reason)
		}
	}

	b.WriteString("\n")
	if m.focus == focusInput {
		b.WriteString(DimStyle.Render("Enter: search  Tab: results  Ctrl+C: quit"))
	} else {
		b.WriteString(DimStyle.Render("↑/↓: move  Space: select  c: clear  r: recommend  Esc: search box  Ctrl+C: quit"))
	}
	return b.String()
}
