package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/oakmoss/tonearm/internal/formatter"
	"github.com/oakmoss/tonearm/internal/shared"
	"github.com/oakmoss/tonearm/internal/tools"
	"github.com/urfave/cli/v3"
)

// ToolsList prints the tool catalog as text, JSON, or Markdown.
func (r *Runner) ToolsList(ctx context.Context, cmd *cli.Command) error {
	catalog := r.registry.List()

	switch {
	case cmd.Bool("json"):
		data, err := formatter.CatalogToJSON(catalog)
		if err != nil {
			return fmt.Errorf("failed to render catalog: %w", err)
		}
		return r.writePlain("%s\n", data)
	case cmd.Bool("markdown"):
		return r.writePlain("%s", formatter.CatalogToMarkdown(catalog))
	default:
		return r.writePlain("%s", formatter.CatalogToText(catalog))
	}
}

// ToolsInvoke runs one tool locally and prints the rendered result.
func (r *Runner) ToolsInvoke(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: tool name", shared.ErrMissingArgument)
	}

	tool, err := r.registry.Get(name)
	if err != nil {
		return err
	}

	params := tools.Params{}
	if raw := cmd.String("params"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &params); err != nil {
			return fmt.Errorf("%w: --params must be a JSON object: %v", shared.ErrInvalidArgument, err)
		}
	}

	r.logger.Info("invoking tool", "tool", name)

	result, err := tool.Run(ctx, params)
	if err != nil {
		r.writePlainln("%s", tools.Present(err))
		return err
	}

	return r.writePlain("%s\n", formatter.ResultToText(result))
}
