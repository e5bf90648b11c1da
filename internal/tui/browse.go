// Package tui provides the interactive skill browser: a filterable list of
// catalog entries with enter-to-install, sharing the install engine with
// the CLI commands.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"skillpack/internal/engine"
	"skillpack/internal/registry"
	"skillpack/internal/skillmd"
	"skillpack/internal/tui/styles"
)

type skillItem struct {
	entry     registry.CatalogEntry
	installed bool
}

func (i skillItem) Title() string {
	status := styles.StatusAvailable.String()
	if i.installed {
		status = styles.StatusInstalled.String()
	}
	return fmt.Sprintf("%s %s", status, i.entry.Slug)
}

func (i skillItem) Description() string {
	desc := i.entry.Description
	if desc == "" {
		desc = i.entry.Name
	}
	return skillmd.Truncate(desc, 70)
}

func (i skillItem) FilterValue() string {
	return i.entry.Slug + " " + i.entry.Name + " " + i.entry.Description
}

type installDoneMsg struct {
	result engine.InstallResult
}

type model struct {
	eng        *engine.Engine
	list       list.Model
	status     string
	installing bool
}

func newModel(eng *engine.Engine) model {
	results := eng.Search("", 0)
	items := make([]list.Item, len(results))
	for i, r := range results {
		items[i] = skillItem{entry: r.Entry, installed: r.Installed}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(styles.Primary).BorderForeground(styles.Primary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(styles.MutedColor).BorderForeground(styles.Primary)

	l := list.New(items, delegate, 80, 20)
	l.Title = "Skills"
	l.Styles.Title = styles.Title
	l.SetShowStatusBar(false)

	return model{eng: eng, list: l}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-3)
		return m, nil

	case installDoneMsg:
		m.installing = false
		res := msg.result
		if res.OK {
			m.status = styles.SuccessText.Render(fmt.Sprintf("installed %s@%s", res.Slug, res.Version))
			m.markInstalled(res.Slug)
		} else {
			m.status = styles.ErrorText.Render(fmt.Sprintf("install %s failed: %v", res.Slug, res.Err))
		}
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter":
			if m.installing {
				return m, nil
			}
			item, ok := m.list.SelectedItem().(skillItem)
			if !ok {
				return m, nil
			}
			m.installing = true
			m.status = "installing " + item.entry.Slug + "..."
			return m, installCmd(m.eng, item.entry.Slug)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	help := styles.HelpBar.Render("enter install · / filter · q quit")
	return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), m.status, help)
}

func (m *model) markInstalled(slug string) {
	for i, it := range m.list.Items() {
		si, ok := it.(skillItem)
		if ok && si.entry.Slug == slug {
			si.installed = true
			m.list.SetItem(i, si)
			return
		}
	}
}

func installCmd(eng *engine.Engine, slug string) tea.Cmd {
	return func() tea.Msg {
		return installDoneMsg{result: eng.Install(slug)}
	}
}

// Run launches the browser and blocks until the user quits.
func Run(eng *engine.Engine) error {
	p := tea.NewProgram(newModel(eng), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
