package tools

import (
	"fmt"

	"github.com/oakmoss/tonearm/internal/shared"
)

// Params carries tool arguments as decoded JSON.
type Params map[string]any

// String returns a required string argument.
func (p Params) String(key string) (string, error) {
	v, ok := p[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: %s must be a non-empty string", shared.ErrInvalidArgument, key)
	}
	return s, nil
}

// StringOr returns an optional string argument with a default.
func (p Params) StringOr(key, fallback string) string {
	if s, ok := p[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

// IntOr returns an optional integer argument with a default. JSON numbers
// decode as float64.
func (p Params) IntOr(key string, fallback int) int {
	switch v := p[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}

// StringSlice returns an optional list-of-strings argument; absent keys yield
// an empty slice.
func (p Params) StringSlice(key string) ([]string, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return nil, nil
	}

	items, ok := v.([]any)
	if !ok {
		// Already-typed slices pass through.
		if typed, ok := v.([]string); ok {
			return typed, nil
		}
		return nil, fmt.Errorf("%w: %s must be a list of strings", shared.ErrInvalidArgument, key)
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a list of strings", shared.ErrInvalidArgument, key)
		}
		out = append(out, s)
	}
	return out, nil
}
