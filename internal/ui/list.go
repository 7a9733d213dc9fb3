package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/oakmoss/tonearm/internal/tools"
)

var _ list.Item = toolItem{}

// toolItem wraps [tools.Tool] to implement [list.Item].
type toolItem struct {
	tool tools.Tool
}

func (i toolItem) FilterValue() string { return i.tool.Name }
func (i toolItem) Title() string       { return i.tool.Name }
func (i toolItem) Description() string { return i.tool.Description }
