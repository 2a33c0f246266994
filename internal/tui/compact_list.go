/*
 * Copyright The Coffee Shop Authors. Licensed under the Apache-2.0 license.
 */

package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/coffeeshop/spaenv/pkg/styles"
)

// Item in our compact list.
type compactListItem struct {
	index       int
	name        string
	description string
}

func (item compactListItem) Title() string {
	return fmt.Sprintf("%s %s", item.name, styles.RenderMuted(item.description))
}

func (item compactListItem) FilterValue() string { return item.name }

// compactListDelegate renders each item on a single line.
type compactListDelegate struct{}

func (d compactListDelegate) Height() int                               { return 1 }
func (d compactListDelegate) Spacing() int                              { return 0 }
func (d compactListDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d compactListDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(compactListItem)
	if !ok {
		return
	}

	if index == m.Index() {
		fmt.Fprint(w, lipgloss.NewStyle().Foreground(styles.ColorOrange).Render("▸ "+item.Title()))
	} else {
		fmt.Fprint(w, "  "+item.Title())
	}
}

// Model for the compact selection list.
type compactListModel struct {
	title    string
	model    list.Model
	selected *compactListItem
	quitting bool
}

func (m compactListModel) Init() tea.Cmd {
	return nil
}

func (m compactListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.model.SetWidth(msg.Width)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if item, ok := m.model.SelectedItem().(compactListItem); ok {
				m.selected = &item
				m.quitting = true
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.model, cmd = m.model.Update(msg)
	return m, cmd
}

func (m compactListModel) View() string {
	content := "\n" + styles.RenderTitle(m.title) + "\n\n"
	if !m.quitting {
		content += m.model.View()
	}
	return content
}

func newCompactList(title string, items []list.Item) compactListModel {
	model := list.New(items, compactListDelegate{}, 70, min(len(items)+2, 20))
	model.SetShowTitle(false)
	model.SetFilteringEnabled(false)
	model.SetShowStatusBar(false)
	model.SetShowHelp(false)
	return compactListModel{title: title, model: model}
}

// ChooseFromListDialog lets the user pick one of the elements. The describe
// function returns the name and a muted description for each element.
func ChooseFromListDialog[T any](title string, elems []T, describe func(elem *T) (string, string)) (*T, error) {
	if !isInteractiveMode {
		return nil, fmt.Errorf("interactive mode required for selection")
	}
	if len(elems) == 0 {
		return nil, fmt.Errorf("nothing to choose from")
	}

	items := make([]list.Item, 0, len(elems))
	for ndx := range elems {
		name, description := describe(&elems[ndx])
		items = append(items, compactListItem{index: ndx, name: name, description: description})
	}

	finalModel, err := tea.NewProgram(newCompactList(title, items)).Run()
	if err != nil {
		return nil, fmt.Errorf("failed to run selection: %w", err)
	}

	selected := finalModel.(compactListModel).selected
	if selected == nil {
		return nil, fmt.Errorf("user did not select any item")
	}
	return &elems[selected.index], nil
}
