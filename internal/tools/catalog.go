package tools

import (
	"encoding/json"

	"github.com/charmbracelet/log"
	"github.com/oakmoss/tonearm/internal/insights"
	"github.com/oakmoss/tonearm/internal/shared"
	"github.com/oakmoss/tonearm/internal/spotify"
)

// Catalog builds the full tool set over one accessor.
type Catalog struct {
	client     *spotify.Client
	classifier insights.Classifier
	logger     *log.Logger
}

// CatalogOpts configures optional catalog behavior.
type CatalogOpts struct {
	Classifier insights.Classifier
	Logger     *log.Logger
}

// NewCatalog creates a catalog bound to a Spotify accessor.
func NewCatalog(client *spotify.Client, opts CatalogOpts) *Catalog {
	zero := insights.Classifier{}
	if opts.Classifier == zero {
		opts.Classifier = insights.DefaultClassifier()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &Catalog{client: client, classifier: opts.Classifier, logger: opts.Logger}
}

// RegisterAll registers every tool the catalog provides.
func (c *Catalog) RegisterAll(r *Registry) {
	for _, t := range c.searchTools() {
		r.Register(t)
	}
	for _, t := range c.libraryTools() {
		r.Register(t)
	}
	for _, t := range c.browseTools() {
		r.Register(t)
	}
	for _, t := range c.featureTools() {
		r.Register(t)
	}
	for _, t := range c.derivedTools() {
		r.Register(t)
	}
}

// jsonResult renders a value as an indented JSON result.
func jsonResult(v any) (*Result, error) {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return nil, err
	}
	return &Result{Text: string(data)}, nil
}

// rawResult re-indents a raw upstream payload.
func rawResult(raw json.RawMessage) (*Result, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return &Result{Text: string(raw)}, nil
	}
	return jsonResult(v)
}

// textResult wraps plain text.
func textResult(text string) *Result {
	return &Result{Text: text}
}
