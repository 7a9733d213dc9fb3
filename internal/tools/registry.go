// Package tools defines the callable tool catalog exposed over the RPC
// boundary and the CLI. Each tool wraps one or more upstream calls and
// returns rendered text.
package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/oakmoss/tonearm/internal/shared"
)

// Result is the text payload a tool returns.
type Result struct {
	Text string `json:"text"`
}

// RunFunc executes a tool with boundary-shaped parameters.
type RunFunc func(ctx context.Context, params Params) (*Result, error)

// Tool is one named, described entry in the catalog.
type Tool struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	UseWhen     string  `json:"use_when"`
	SideEffects string  `json:"side_effects,omitempty"`
	Run         RunFunc `json:"-"`
}

// Registry holds the tool catalog. Registration happens once at startup;
// lookups are concurrent.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool to the catalog, replacing any previous entry with the
// same name.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name] = t
}

// Get looks a tool up by name.
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	if !ok {
		return Tool{}, fmt.Errorf("%w: %s", shared.ErrToolNotFound, name)
	}
	return t, nil
}

// List returns the catalog sorted by tool name.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}
