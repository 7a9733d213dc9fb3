// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing and invoking tools:
//  1. [ToolListView] : Browse the registered tool catalog
//  2. [ArgsView] : Enter a JSON parameter object for the selected tool
//  3. [ResultView] : Scroll through the invocation result
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View
// pattern. Invocations run as tea commands so the interface stays responsive
// while upstream requests are in flight.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
