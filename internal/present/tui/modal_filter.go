package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lipglossv2 "github.com/charmbracelet/lipgloss/v2"

	"github.com/mithrel/kennel/internal/query"
)

// modalKeys are the fields editable from the filter modal. Flag filters
// have their own keys in the table view.
var modalKeys = []query.FilterKey{
	query.FilterName,
	query.FilterBreed,
	query.FilterAge,
	query.FilterWeight,
	query.FilterGender,
}

var modalPlaceholders = map[query.FilterKey]string{
	query.FilterName:   "buddy",
	query.FilterBreed:  "Beagle,Labrador Retriever",
	query.FilterAge:    "< 5 mo,2 - 5 yr",
	query.FilterWeight: "Small,Medium",
	query.FilterGender: "f | m",
}

// filterModal is a foreground modal with inputs to filter the list view.
type filterModal struct {
	inputs []textinput.Model
	width  int
	height int
	padX   int
	padY   int
	box    lipglossv2.Style
	focus  int
}

func newFilterModal(current query.FilterSpec, termW, termH int) *filterModal {
	m := &filterModal{padX: 2, padY: 1}
	for _, key := range modalKeys {
		value := ""
		if r, ok := current[key]; ok {
			value = strings.Join(r.Values(), ",")
		}
		m.inputs = append(m.inputs, newFilterInput(string(key)+": ", modalPlaceholders[key], value))
	}
	m.setFocus(0)
	m.resizeForTerm(termW, termH)
	return m
}

func newFilterInput(prompt, placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = placeholder
	ti.SetValue(value)
	return ti
}

func (m *filterModal) resizeForTerm(termW, termH int) {
	if termW <= 0 || termH <= 0 {
		termW, termH = 80, 24
	}
	w := int(float64(termW) * 0.6)
	if termW < 80 {
		w = termW - 4
	}
	w = clamp(w, max(42, min(46, termW-2)), 90)
	h := len(m.inputs) + 4 + m.padY*2 + 2
	m.width, m.height = w, h
	m.box = lipglossv2.NewStyle().
		Width(w).
		Height(h).
		Padding(m.padY, m.padX).
		Border(lipglossv2.RoundedBorder()).
		BorderForeground(lipglossv2.Color("63"))

	innerW := max(12, w-2-m.padX*2)
	for i := range m.inputs {
		m.inputs[i].Width = max(12, innerW-lipgloss.Width(m.inputs[i].Prompt))
	}
}

func (m *filterModal) setFocus(idx int) {
	m.focus = idx
	for i := range m.inputs {
		if i == idx {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m *filterModal) clear() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
}

// apply layers the modal's fields over base. Empty fields drop their key;
// keys outside the modal are left as they are.
func (m *filterModal) apply(base query.FilterSpec) (query.FilterSpec, error) {
	out := base
	if out == nil {
		out = query.FilterSpec{}
	}
	for i, key := range modalKeys {
		v := strings.TrimSpace(m.inputs[i].Value())
		if v == "" {
			out = out.Without(key)
			continue
		}
		rule, err := query.ParseFilter(key, v)
		if err != nil {
			return nil, err
		}
		out = out.With(rule)
	}
	return out, nil
}

func (m *filterModal) update(msg tea.Msg) (*filterModal, tea.Cmd) {
	n := len(m.inputs)
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.resizeForTerm(x.Width, x.Height)
		return m, nil
	case tea.KeyMsg:
		switch x.String() {
		case "tab", "down":
			m.setFocus((m.focus + 1) % n)
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + n - 1) % n)
			return m, nil
		case "ctrl+x":
			m.clear()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *filterModal) View() string {
	header := lipgloss.NewStyle().Bold(true).Render("Filters")
	help := lipgloss.NewStyle().Faint(true).Render("enter=apply • esc=cancel • tab=next • ctrl+x=clear")
	lines := []string{header, ""}
	for _, in := range m.inputs {
		lines = append(lines, in.View())
	}
	lines = append(lines, "", help)
	return m.box.Render(strings.Join(lines, "\n"))
}
