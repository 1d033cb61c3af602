// Package tui is the interactive Bubble Tea browser over the catalog.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/kennel/internal/catalog"
	"github.com/mithrel/kennel/internal/dogs"
	"github.com/mithrel/kennel/internal/present/format"
	"github.com/mithrel/kennel/internal/query"
)

// Catalog is the slice of the catalog session the browser drives.
type Catalog interface {
	View() []dogs.Dog
	Stats() catalog.Stats
	Filters() query.FilterSpec
	ToggleFavorite(ctx context.Context, id string) (dogs.Dog, error)
	MarkSeen(ctx context.Context, id string) (dogs.Dog, error)
	RemoveDog(ctx context.Context, id string) error
	ReplaceFilter(key query.FilterKey, values ...string) error
	ApplyFilters(spec query.FilterSpec)
	ClearFilters()
}

type Options struct {
	Headers bool
	// Out receives the card of the dog chosen with enter; defaults to stdout.
	Out io.Writer
	Now time.Time
}

// Browse opens an interactive table over the catalog's current view.
func Browse(ctx context.Context, cat Catalog, opts Options) error {
	m := newModel(ctx, cat, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	fm, ok := final.(model)
	if !ok || fm.show == nil {
		return nil
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	return format.WritePrettyDog(out, *fm.show, fm.now())
}

type model struct {
	ctx          context.Context
	cat          Catalog
	table        table.Model
	dogs         []dogs.Dog
	show         *dogs.Dog
	pending      string
	headers      bool
	width        int
	height       int
	status       string
	lastDuration time.Duration
	clock        time.Time
	filter       *filterModal
}

func newModel(ctx context.Context, cat Catalog, opts Options) model {
	m := model{
		ctx:     ctx,
		cat:     cat,
		headers: opts.Headers,
		clock:   opts.Now,
	}
	m.table = table.New(table.WithColumns(m.columnsFor(16, 24, 10, 7, 12, 22, 14)), table.WithFocused(true))
	m.refresh("")
	m.applyStyles()
	return m
}

func (m model) now() time.Time {
	if m.clock.IsZero() {
		return time.Now()
	}
	return m.clock
}

// refresh reloads rows from the catalog, keeping the cursor on keepID when
// it is still listed.
func (m *model) refresh(keepID string) {
	m.dogs = m.cat.View()
	now := m.now()
	rows := make([]table.Row, 0, len(m.dogs))
	cursor := m.table.Cursor()
	for i, d := range m.dogs {
		if d.ID == keepID {
			cursor = i
		}
		rows = append(rows, table.Row{
			d.Name,
			d.Breed(),
			string(d.Age),
			string(d.Gender),
			d.Weight,
			format.Intake(d, now),
			format.Flags(d),
		})
	}
	m.table.SetRows(rows)
	if len(m.dogs) > 0 {
		m.table.SetCursor(clamp(cursor, 0, len(m.dogs)-1))
	}
}

func (m model) selected() (dogs.Dog, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.dogs) {
		return dogs.Dog{}, false
	}
	return m.dogs[idx], true
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.filter != nil {
		return m.updateFilter(msg)
	}
	switch msg := msg.(type) {
	case mutationResultMsg:
		m.pending = ""
		m.lastDuration = msg.dur
		if msg.err != nil {
			m.status = fmt.Sprintf("%s failed: %v", msg.action, msg.err)
			return m, nil
		}
		m.status = describe(msg)
		m.refresh(msg.id)
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applyLayout()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c", "ctrl+q":
			return m, tea.Quit
		case "enter":
			if d, ok := m.selected(); ok {
				m.show = &d
			}
			return m, tea.Quit
		case "f", "s", "d":
			d, ok := m.selected()
			if !ok || m.pending != "" {
				return m, nil
			}
			m.pending = d.ID
			switch msg.String() {
			case "f":
				return m, favoriteCmd(m.ctx, m.cat, d.ID)
			case "s":
				return m, seenCmd(m.ctx, m.cat, d.ID)
			default:
				m.status = fmt.Sprintf("Removing %s…", d.Name)
				m.lastDuration = 0
				return m, removeCmd(m.ctx, m.cat, d.ID, d.Name)
			}
		case "/":
			m.filter = newFilterModal(m.cat.Filters(), m.width, m.height)
			return m, nil
		case "c":
			m.cat.ClearFilters()
			m.status = "Filters cleared"
			m.lastDuration = 0
			m.refresh("")
			return m, nil
		case "u":
			if err := m.cat.ReplaceFilter(query.FilterIsAvailable, "false"); err != nil {
				m.status = err.Error()
				return m, nil
			}
			m.status = "Showing dogs no longer listed"
			m.lastDuration = 0
			m.refresh("")
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m model) updateFilter(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc", "ctrl+q":
			m.filter = nil
			return m, nil
		case "enter":
			spec, err := m.filter.apply(m.cat.Filters())
			if err != nil {
				m.status = err.Error()
				m.lastDuration = 0
				return m, nil
			}
			m.cat.ApplyFilters(spec)
			m.filter = nil
			m.status = "Filters applied"
			m.lastDuration = 0
			m.refresh("")
			return m, nil
		}
	}
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.applyLayout()
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.update(msg)
	return m, cmd
}

func describe(msg mutationResultMsg) string {
	switch msg.action {
	case actionFavorite:
		if msg.on {
			return fmt.Sprintf("Favorited %s", msg.name)
		}
		return fmt.Sprintf("Unfavorited %s", msg.name)
	case actionSeen:
		return fmt.Sprintf("Marked %s as seen", msg.name)
	default:
		return fmt.Sprintf("Removed %s", msg.name)
	}
}

func (m model) renderFooter() string {
	left := "enter=show • f=fav • s=seen • d=remove • /=filter • c=clear • u=unlisted • q=exit"

	var right string
	if m.status != "" {
		if m.lastDuration > 0 {
			right = fmt.Sprintf("%s (%s) • ", m.status, m.lastDuration.Round(time.Millisecond))
		} else {
			right = m.status + " • "
		}
	}
	st := m.cat.Stats()
	right += fmt.Sprintf("%d/%d dogs ", st.Showing, st.Total)

	width := m.table.Width()
	space := max(1, width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", space) + right
}

func (m model) renderHeader() string {
	line := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%d new", m.cat.Stats().New))
	if f := filterSummary(m.cat.Filters()); f != "" {
		line += lipgloss.NewStyle().Faint(true).Render("  " + f)
	}
	return line
}

func (m model) View() string {
	var base string
	if len(m.dogs) == 0 {
		base = m.renderHeader() + "\n(no dogs match) \n" + m.renderFooter() + "\n"
	} else {
		base = m.renderHeader() + "\n" + m.table.View() + "\n" + m.renderFooter() + "\n"
	}
	if m.filter != nil {
		return m.overlay(base, m.filter)
	}
	return base
}

func (m *model) applyLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.table.SetHeight(max(6, m.height-2))
	m.table.SetWidth(m.width)
	avail := m.width - 14
	if avail < 60 {
		return
	}
	ageW, genderW, weightW, intakeW, flagsW := 10, 7, 12, 22, 14
	rem := max(20, avail-ageW-genderW-weightW-intakeW-flagsW)
	nameW := max(8, rem*2/5)
	breedW := max(8, rem-nameW)
	m.table.SetColumns(m.columnsFor(nameW, breedW, ageW, genderW, weightW, intakeW, flagsW))
}

func (m *model) applyStyles() {
	s := table.DefaultStyles()
	if m.headers {
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
	} else {
		s.Header = s.Header.
			BorderBottom(false).
			Bold(false)
	}
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	m.table.SetStyles(s)
}

// columnsFor returns columns with or without titles based on the headers flag.
func (m *model) columnsFor(widths ...int) []table.Column {
	titles := []string{"Name", "Breed", "Age", "Gender", "Weight", "Intake", "Flags"}
	cols := make([]table.Column, len(titles))
	for i, t := range titles {
		if !m.headers {
			t = ""
		}
		cols[i] = table.Column{Title: t, Width: widths[i]}
	}
	return cols
}
