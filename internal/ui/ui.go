package ui

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/oakmoss/tonearm/internal/formatter"
	"github.com/oakmoss/tonearm/internal/tools"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ToolListView ViewState = iota
	ArgsView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	registry *tools.Registry
	width    int
	height   int

	toolList list.Model
	selected *tools.Tool
	args     textinput.Model
	result   viewport.Model
	running  bool
	err      error
	help     help.Model
	keys     keyMap
}

type invokeCompleteMsg struct {
	result *tools.Result
	err    error
}

// NewModel creates a new TUI model over a populated registry.
func NewModel(ctx context.Context, registry *tools.Registry) *Model {
	catalog := registry.List()
	items := make([]list.Item, len(catalog))
	for i, t := range catalog {
		items[i] = toolItem{tool: t}
	}

	toolList := list.New(items, list.NewDefaultDelegate(), 0, 0)
	toolList.Title = "Tools"

	args := textinput.New()
	args.Placeholder = `{"q": "blondie"}`
	args.CharLimit = 0

	return &Model{
		ctx:      ctx,
		view:     ToolListView,
		registry: registry,
		toolList: toolList,
		args:     args,
		result:   viewport.New(0, 0),
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.toolList.SetSize(msg.Width-4, msg.Height-8)
		m.result.Width = msg.Width - 4
		m.result.Height = msg.Height - 8
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ToolListView:
			return m.handleToolListKeys(msg)
		case ArgsView:
			return m.handleArgsKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case invokeCompleteMsg:
		m.running = false
		m.err = msg.err
		if msg.err != nil {
			m.result.SetContent(styles.err.Render(tools.Present(msg.err)))
		} else {
			m.result.SetContent(string(formatter.ResultToText(msg.result)))
		}
		m.view = ResultView
		return m, nil
	}

	return m.updateComponents(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case ToolListView:
		return m.renderToolList()
	case ArgsView:
		return m.renderArgs()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleToolListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if item, ok := m.toolList.SelectedItem().(toolItem); ok {
			tool := item.tool
			m.selected = &tool
			m.args.SetValue("")
			m.args.Focus()
			m.view = ArgsView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.toolList, cmd = m.toolList.Update(msg)
	return m, cmd
}

func (m *Model) handleArgsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = ToolListView
		m.err = nil
		return m, nil
	case "enter":
		return m, m.invoke()
	}

	var cmd tea.Cmd
	m.args, cmd = m.args.Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = ToolListView
		m.err = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.result, cmd = m.result.Update(msg)
	return m, cmd
}

func (m *Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ToolListView:
		m.toolList, cmd = m.toolList.Update(msg)
	case ArgsView:
		m.args, cmd = m.args.Update(msg)
	case ResultView:
		m.result, cmd = m.result.Update(msg)
	}
	return m, cmd
}

// invoke parses the entered JSON and runs the selected tool as a command.
func (m *Model) invoke() tea.Cmd {
	if m.selected == nil {
		return nil
	}

	params := tools.Params{}
	if raw := m.args.Value(); raw != "" {
		if err := json.Unmarshal([]byte(raw), &params); err != nil {
			m.err = fmt.Errorf("invalid JSON parameters: %w", err)
			return nil
		}
	}
	m.err = nil
	m.running = true

	tool := *m.selected
	ctx := m.ctx
	return func() tea.Msg {
		result, err := tool.Run(ctx, params)
		return invokeCompleteMsg{result: result, err: err}
	}
}

func (m *Model) renderToolList() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.toolList.View(), helpView)
}

func (m *Model) renderArgs() string {
	title := styles.title.Render(m.selected.Name)
	desc := fmt.Sprintf("%s\nUse when: %s", m.selected.Description, m.selected.UseWhen)

	var status string
	switch {
	case m.running:
		status = styles.help.Render("Invoking...")
	case m.err != nil:
		status = styles.err.Render(m.err.Error())
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.invoke, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\nParameters (JSON):\n%s\n%s\n\n%s", title, desc, m.args.View(), status, helpView)
}

func (m *Model) renderResult() string {
	title := styles.title.Render(m.selected.Name)
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.result.View(), helpView)
}
