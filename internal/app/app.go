package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"treemaker/internal/builder"
	"treemaker/internal/fsops"
	"treemaker/internal/opener"
	"treemaker/internal/parser"
	"treemaker/internal/plan"
)

// ErrEmptyDiagram — во входе нет ни одной непустой строки.
var ErrEmptyDiagram = errors.New("пустая схема: нечего создавать")

// Options — все настройки одного запуска build.
type Options struct {
	InPath     string // файл со схемой, "-" — stdin
	BaseDir    string
	DryRun     bool
	ASCII      bool
	Indent     bool
	DirPerm    os.FileMode
	FilePerm   os.FileMode
	ExecGlobs  []string
	DBMode0600 bool
	Open       bool // открыть базу в файловом менеджере после успешной сборки
	Logger     *slog.Logger
}

// openDir подменяется в тестах.
var openDir = opener.Open

// ReadDiagram читает схему из файла или из stdin, если path == "-".
func ReadDiagram(path string, stdin io.Reader) (string, error) {
	var r io.Reader
	if path == "" || path == "-" {
		if stdin == nil {
			stdin = os.Stdin
		}
		r = stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("не удалось открыть входной файл %q: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("не удалось прочитать схему: %w", err)
	}
	return string(data), nil
}

// Run читает схему и создаёт по ней дерево.
func Run(ctx context.Context, o Options, stdin io.Reader) (plan.Plan, error) {
	diagram, err := ReadDiagram(o.InPath, stdin)
	if err != nil {
		return plan.Plan{}, err
	}
	return Apply(ctx, o, diagram)
}

// Apply создаёт дерево по уже прочитанной схеме.
func Apply(ctx context.Context, o Options, diagram string) (plan.Plan, error) {
	if strings.TrimSpace(diagram) == "" {
		return plan.Plan{}, ErrEmptyDiagram
	}
	base := o.BaseDir
	if strings.TrimSpace(base) == "" {
		base = "."
	}
	log := o.Logger
	if log == nil {
		log = slog.Default()
	}

	b := &builder.Builder{
		Materializer: fsops.New(fsops.Options{
			Root:       base,
			DryRun:     o.DryRun,
			DirPerm:    o.DirPerm,
			FilePerm:   o.FilePerm,
			ExecGlobs:  o.ExecGlobs,
			DBMode0600: o.DBMode0600,
		}),
		Dialect: parser.Dialect{ASCII: o.ASCII, Indent: o.Indent},
		Logger:  log,
	}

	log.Debug("сборка", slog.String("base", base), slog.Bool("dry", o.DryRun))
	p, err := b.Run(ctx, base, diagram)
	if err != nil {
		return p, err
	}

	if o.Open && !o.DryRun {
		if err := openDir(p.Base); err != nil {
			// Дерево уже создано, поэтому это только предупреждение.
			log.Warn("не удалось открыть файловый менеджер", slog.String("err", err.Error()))
		}
	}
	return p, nil
}
