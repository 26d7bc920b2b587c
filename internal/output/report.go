package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"treemaker/internal/plan"
)

// Темы текстового вывода.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Styles — оформление текстового отчёта.
type Styles struct {
	Created lipgloss.Style
	Exists  lipgloss.Style
	Planned lipgloss.Style
	Error   lipgloss.Style
	Summary lipgloss.Style
}

// NewStyles подбирает цвета под тему. Без терминала renderer
// сам отключает цвета, и стили печатают текст как есть.
func NewStyles(r *lipgloss.Renderer, theme string) Styles {
	palette := map[string][4]string{
		ThemeLight: {"#15803D", "#6B7280", "#1D4ED8", "#B91C1C"},
		ThemeDark:  {"#4ADE80", "#9CA3AF", "#60A5FA", "#F87171"},
	}
	c, ok := palette[theme]
	if !ok {
		c = palette[ThemeLight]
	}
	return Styles{
		Created: r.NewStyle().Foreground(lipgloss.Color(c[0])),
		Exists:  r.NewStyle().Foreground(lipgloss.Color(c[1])),
		Planned: r.NewStyle().Foreground(lipgloss.Color(c[2])),
		Error:   r.NewStyle().Foreground(lipgloss.Color(c[3])).Bold(true),
		Summary: r.NewStyle().Bold(true),
	}
}

// Report — отчёт о запуске в виде, удобном для json/yaml.
type Report struct {
	Base    string      `json:"base" yaml:"base"`
	DryRun  bool        `json:"dry_run" yaml:"dry_run"`
	Dirs    int         `json:"dirs" yaml:"dirs"`
	Files   int         `json:"files" yaml:"files"`
	Created int         `json:"created" yaml:"created"`
	Steps   []plan.Step `json:"steps" yaml:"steps"`
}

// NewReport собирает Report из плана.
func NewReport(p plan.Plan, dryRun bool) Report {
	steps := p.Steps
	if steps == nil {
		steps = []plan.Step{}
	}
	return Report{
		Base:    p.Base,
		DryRun:  dryRun,
		Dirs:    p.Dirs(),
		Files:   p.Files(),
		Created: p.Created(),
		Steps:   steps,
	}
}

// PrintReport печатает отчёт в формате из контекста.
func PrintReport(ctx context.Context, w io.Writer, r Report) error {
	format := FormatFromContext(ctx)
	p := NewPrinter(w, format)

	switch format {
	case FormatText:
		styles := NewStyles(lipgloss.NewRenderer(w), ThemeFromContext(ctx))
		return p.Print(ctx, textReport{r: r, s: styles})
	case FormatTable:
		t := Table{Headers: []string{"LINE", "KIND", "STATUS", "PATH"}}
		for _, s := range r.Steps {
			t.Rows = append(t.Rows, []string{fmt.Sprint(s.Line), s.Kind.String(), string(s.Status), s.Path})
		}
		return p.Print(ctx, t)
	case FormatNDJSON:
		items := make([]interface{}, 0, len(r.Steps))
		for _, s := range r.Steps {
			items = append(items, s)
		}
		return p.Print(ctx, items)
	default:
		return p.Print(ctx, r)
	}
}

type textReport struct {
	r Report
	s Styles
}

func (t textReport) String() string {
	var b strings.Builder
	for _, step := range t.r.Steps {
		mark, style := "=", t.s.Exists
		switch step.Status {
		case plan.Created:
			mark, style = "+", t.s.Created
		case plan.Planned:
			mark, style = "~", t.s.Planned
		}
		kind := "файл   "
		if step.Kind == plan.Directory {
			kind = "каталог"
		}
		b.WriteString(style.Render(fmt.Sprintf("%s %s %s", mark, kind, step.Path)))
		b.WriteByte('\n')
	}

	summary := fmt.Sprintf("Готово: %s (каталогов: %s, файлов: %s, создано: %s)",
		t.r.Base,
		humanize.Comma(int64(t.r.Dirs)),
		humanize.Comma(int64(t.r.Files)),
		humanize.Comma(int64(t.r.Created)))
	if t.r.DryRun {
		summary = fmt.Sprintf("Dry-run: %s (каталогов: %s, файлов: %s, будет создано: %s)",
			t.r.Base,
			humanize.Comma(int64(t.r.Dirs)),
			humanize.Comma(int64(t.r.Files)),
			humanize.Comma(int64(countPlanned(t.r.Steps))))
	}
	b.WriteString(t.s.Summary.Render(summary))
	return b.String()
}

func countPlanned(steps []plan.Step) int {
	n := 0
	for _, s := range steps {
		if s.Status == plan.Planned {
			n++
		}
	}
	return n
}

// ErrorStyle возвращает стиль ошибок для w в теме из контекста.
func ErrorStyle(ctx context.Context, w io.Writer) lipgloss.Style {
	return NewStyles(lipgloss.NewRenderer(w), ThemeFromContext(ctx)).Error
}
