package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed   = fmt.Errorf("authentication failed")
	ErrUnauthorized = fmt.Errorf("unauthorized")
	ErrTimeout      = fmt.Errorf("operation timed out")

	// Upstream API errors
	ErrTransport = fmt.Errorf("transport failure")
	ErrUpstream  = fmt.Errorf("upstream request failed")

	// Tool and metric errors
	ErrToolNotFound = fmt.Errorf("tool not found")
	ErrEmptyGroup   = fmt.Errorf("empty record group")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
