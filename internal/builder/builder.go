// Package builder проходит по схеме строка за строкой и создаёт дерево на диске.
package builder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"treemaker/internal/fsops"
	"treemaker/internal/parser"
	"treemaker/internal/plan"
	"treemaker/internal/resolver"
	"treemaker/internal/safety"
)

// FilesystemError — не удалось создать элемент схемы.
// Всё, что создано до него, остаётся на диске.
type FilesystemError struct {
	Line int       // номер строки схемы, с 1
	Kind plan.Kind // что создавали
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	what := "файл"
	if e.Kind == plan.Directory {
		what = "каталог"
	}
	return fmt.Sprintf("строка %d: не удалось создать %s %s: %v", e.Line, what, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

// Builder — настройки запуска. Состояние разбора живёт только внутри Run,
// поэтому один Builder можно вызывать параллельно.
type Builder struct {
	// По умолчанию fsops.New с базой запуска.
	Materializer fsops.Materializer
	Dialect      parser.Dialect
	Logger       *slog.Logger
}

// Build создаёт дерево diagram внутри basePath с настройками по умолчанию.
func Build(ctx context.Context, basePath, diagram string) error {
	_, err := (&Builder{}).Run(ctx, basePath, diagram)
	return err
}

// Run выполняет схему и возвращает отчёт о шагах.
// Останавливается на первой ошибке: отчёт тогда содержит шаги до неё,
// а ошибка будет *FilesystemError или ошибкой контекста.
func (b *Builder) Run(ctx context.Context, basePath, diagram string) (plan.Plan, error) {
	m := b.Materializer
	if m == nil {
		m = fsops.New(fsops.Options{Root: basePath})
	}
	log := b.Logger
	if log == nil {
		log = slog.New(discardHandler{})
	}

	stack := resolver.New(basePath)
	report := plan.Plan{Base: stack.Path()}
	var indent parser.IndentTracker

	for i, raw := range strings.Split(diagram, "\n") {
		lineNum := i + 1
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("строка %d: остановлено: %w", lineNum, err)
		}

		line, ok := b.Dialect.Classify(strings.TrimSuffix(raw, "\r"))
		if !ok {
			if strings.TrimSpace(raw) != "" {
				log.Debug("строка пропущена", slog.Int("line", lineNum), slog.String("text", raw))
			}
			continue
		}

		connectors := line.Connectors
		if b.Dialect.Indent {
			connectors = indent.Connectors(line)
		}
		depth := stack.Depth(connectors)
		parent := stack.Resolve(depth)
		target, err := safety.SafeJoin(parent, line.Name)
		if err != nil {
			return report, &FilesystemError{Line: lineNum, Kind: line.Kind, Path: parent, Err: err}
		}

		var status plan.Status
		if line.Kind == plan.Directory {
			status, err = m.EnsureDir(target)
		} else {
			status, err = m.EnsureFile(target)
		}
		if err != nil {
			log.Debug("ошибка создания", slog.Int("line", lineNum), slog.String("path", target), slog.String("err", err.Error()))
			return report, &FilesystemError{Line: lineNum, Kind: line.Kind, Path: target, Err: err}
		}
		// В стек только после успешного создания.
		if line.Kind == plan.Directory {
			stack.Push(line.Name)
		}

		log.Debug(string(status),
			slog.Int("line", lineNum),
			slog.String("kind", line.Kind.String()),
			slog.String("path", target))

		report.Steps = append(report.Steps, plan.Step{
			Line:   lineNum,
			Entry:  plan.Entry{Kind: line.Kind, Name: line.Name, Depth: depth},
			Path:   target,
			Status: status,
		})
	}

	return report, nil
}

// discardHandler глушит логи, если Logger не задан.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }
