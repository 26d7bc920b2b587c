package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"treemaker/internal/app"
	"treemaker/internal/builder"
	"treemaker/internal/fsops"
	"treemaker/internal/output"
	"treemaker/internal/safety"
)

type errorFormatKey struct{}

func withErrorFormat(ctx context.Context, format string) context.Context {
	return context.WithValue(ctx, errorFormatKey{}, format)
}

func errorFormatFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(errorFormatKey{}).(string); ok {
		return v
	}
	return ""
}

func validateErrorFormat(format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "auto", "text", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("неверный --error-format %q (ожидается auto|text|json|yaml)", format)
	}
}

func effectiveErrorFormat(ctx context.Context) string {
	format := strings.ToLower(strings.TrimSpace(errorFormatFromContext(ctx)))
	if format == "" || format == "auto" {
		if ctx == nil {
			return "text"
		}
		switch output.FormatFromContext(ctx) {
		case output.FormatJSON, output.FormatNDJSON:
			return "json"
		case output.FormatYAML:
			return "yaml"
		default:
			return "text"
		}
	}
	return format
}

func printCommandError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	w := stderrFromContext(ctx)

	switch effectiveErrorFormat(ctx) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		_ = enc.Encode(buildErrorEnvelope(err))
		return
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		_ = enc.Encode(buildErrorEnvelope(err))
		_ = enc.Close()
		return
	}

	_, _ = fmt.Fprintln(w, output.ErrorStyle(ctx, w).Render("ошибка: "+err.Error()))
}

func buildErrorEnvelope(err error) map[string]interface{} {
	e := map[string]interface{}{
		"message": err.Error(),
		"type":    "error",
	}

	var fsErr *builder.FilesystemError
	switch {
	case errors.As(err, &fsErr):
		e["type"] = "filesystem"
		if errors.Is(err, fsops.ErrConflict) {
			e["type"] = "conflict"
		}
		e["path"] = fsErr.Path
		e["line"] = fsErr.Line
		e["kind"] = fsErr.Kind.String()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		e["type"] = "canceled"
	case errors.Is(err, app.ErrEmptyDiagram), errors.Is(err, safety.ErrEscape), errors.Is(err, safety.ErrInvalidName):
		e["type"] = "usage"
	}

	return map[string]interface{}{"error": e}
}
