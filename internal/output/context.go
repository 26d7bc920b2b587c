package output

import "context"

type formatKey struct{}

type queryKey struct{}

type themeKey struct{}

// WithFormat кладёт формат вывода в контекст.
func WithFormat(ctx context.Context, format Format) context.Context {
	return context.WithValue(ctx, formatKey{}, format)
}

// FormatFromContext достаёт формат; по умолчанию FormatText.
func FormatFromContext(ctx context.Context) Format {
	if v, ok := ctx.Value(formatKey{}).(Format); ok {
		return v
	}
	return FormatText
}

// WithQuery кладёт jq-запрос в контекст.
func WithQuery(ctx context.Context, query string) context.Context {
	return context.WithValue(ctx, queryKey{}, query)
}

// QueryFromContext достаёт jq-запрос.
func QueryFromContext(ctx context.Context) string {
	if q, ok := ctx.Value(queryKey{}).(string); ok {
		return q
	}
	return ""
}

// WithTheme кладёт тему текстового вывода в контекст.
func WithTheme(ctx context.Context, theme string) context.Context {
	return context.WithValue(ctx, themeKey{}, theme)
}

// ThemeFromContext возвращает тему из контекста, по умолчанию ThemeLight.
func ThemeFromContext(ctx context.Context) string {
	if t, ok := ctx.Value(themeKey{}).(string); ok && t != "" {
		return t
	}
	return ThemeLight
}
