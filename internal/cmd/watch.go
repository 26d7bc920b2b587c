package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"treemaker/internal/app"
	"treemaker/internal/output"
	"treemaker/internal/watch"
)

var watchFlags struct {
	in       string
	base     string
	ascii    bool
	indent   bool
	debounce time.Duration
}

// watchSignals подменяется в тестах, чтобы остановить наблюдение.
var watchSignals = func(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Пересобирать дерево при каждом изменении файла со схемой",
	Long: `Собирает дерево сразу и затем после каждого сохранения файла со схемой.
Сборка идемпотентна: добавленные строки создаются, остальное не трогается.
Ошибка сборки не останавливает наблюдение. Выход — Ctrl+C.`,
	Example: `  treemaker watch -i struct.txt -b ./proj`,
	Args:    cobra.NoArgs,
	RunE:    runWatch,
}

func init() {
	f := watchCmd.Flags()
	f.StringVarP(&watchFlags.in, "in", "i", "", "Файл со схемой")
	addBaseFlags(watchCmd, &watchFlags.base, &watchFlags.ascii, &watchFlags.indent)
	f.DurationVar(&watchFlags.debounce, "debounce", watch.DefaultDebounce, "Пауза после последнего изменения")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	in := strings.TrimSpace(watchFlags.in)
	if in == "" || in == "-" {
		return errors.New("watch требует файл: --in FILE")
	}

	base := watchFlags.base
	if !flagChanged(cmd, "base") && cfg != nil {
		base = cfg.BaseDir
	}
	opts := app.Options{
		InPath:  in,
		BaseDir: strings.TrimSpace(base),
		ASCII:   watchFlags.ascii,
		Indent:  watchFlags.indent,
		Logger:  logger,
	}

	ctx, stop := watchSignals(cmd.Context())
	defer stop()

	out := stdoutFromContext(ctx)
	return watch.Run(ctx, watch.Options{
		File:     in,
		Debounce: watchFlags.debounce,
		Logger:   logger,
	}, func(ctx context.Context) error {
		p, err := app.Run(ctx, opts, nil)
		if len(p.Steps) > 0 || err == nil {
			if perr := output.PrintReport(ctx, out, output.NewReport(p, false)); perr != nil {
				logger.Warn("не удалось вывести отчёт", "err", perr)
			}
		}
		return err
	})
}
