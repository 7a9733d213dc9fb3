package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/oakmoss/tonearm/internal/shared"
	"github.com/oakmoss/tonearm/internal/tools"
)

// ToolsHandler serves the tool catalog and invocations.
type ToolsHandler struct {
	registry *tools.Registry
	logger   *log.Logger
}

// NewToolsHandler creates a handler over a populated registry.
func NewToolsHandler(registry *tools.Registry, logger *log.Logger) *ToolsHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ToolsHandler{registry: registry, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *ToolsHandler) Routes() []string {
	return []string{"/tools", "/tools/"}
}

// ServeHTTP dispatches catalog listing and tool invocation.
func (h *ToolsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/tools" && r.Method == http.MethodGet:
		h.list(w)
	case strings.HasPrefix(r.URL.Path, "/tools/") && r.Method == http.MethodPost:
		h.invoke(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ToolsHandler) list(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": h.registry.List()})
}

func (h *ToolsHandler) invoke(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/tools/")
	if name == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusNotFound, "unknown tool path")
		return
	}

	tool, err := h.registry.Get(name)
	if err != nil {
		writeError(w, http.StatusNotFound, tools.Present(err))
		return
	}

	params, err := decodeParams(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON parameter object: "+err.Error())
		return
	}

	result, err := tool.Run(r.Context(), params)
	if err != nil {
		h.logger.Warn("tool invocation failed", "tool", name, "error", err)
		writeError(w, invocationStatus(err), tools.Present(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"tool": name, "result": result.Text})
}

// decodeParams reads an optional JSON object body. An empty body means no
// parameters.
func decodeParams(body io.Reader) (tools.Params, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return tools.Params{}, nil
	}

	var params tools.Params
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, err
	}
	if params == nil {
		params = tools.Params{}
	}
	return params, nil
}

// invocationStatus maps the error taxonomy to an HTTP status.
func invocationStatus(err error) int {
	switch {
	case errors.Is(err, shared.ErrMissingArgument), errors.Is(err, shared.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrToolNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrAuthFailed), errors.Is(err, shared.ErrMissingCredentials),
		errors.Is(err, shared.ErrUpstream), errors.Is(err, shared.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// HealthHandler answers liveness probes.
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// NewToolRouter assembles the gated tool-serving router.
func NewToolRouter(registry *tools.Registry, bearerToken string, logger *log.Logger) *BasicRouter {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	router := NewBasicRouter()
	router.Use(RequestLogger(logger), BearerAuth(bearerToken, "/health"))
	router.Handle(http.MethodGet, "/health", HealthHandler())
	router.Handler(NewToolsHandler(registry, logger))
	return router
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
