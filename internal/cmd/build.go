package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"treemaker/internal/app"
	"treemaker/internal/config"
	"treemaker/internal/output"
)

var buildFlags struct {
	in       string
	base     string
	dry      bool
	ascii    bool
	indent   bool
	dirPerm  string
	filePerm string
	execGlob string
	db0600   bool
	open     bool
}

var buildCmd = &cobra.Command{
	Use:   "build [FILE|-]",
	Short: "Создать каталоги и файлы по схеме",
	Long: `Читает схему из файла (или stdin при "-") и создаёт её внутри базового каталога.

Базовый каталог: --base > TREEMAKER_BASE_DIR > base_dir из настроек > текущий каталог.
Существующие каталоги и файлы остаются как есть; при ошибке уже созданное не удаляется.`,
	Example: `  treemaker build -i struct.txt -b /tmp/proj
  tree -F --noreport src | treemaker build -b /tmp/copy --indent
  treemaker build struct.txt --dry -o table`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	f := buildCmd.Flags()
	f.StringVarP(&buildFlags.in, "in", "i", "-", "Файл со схемой (- = stdin)")
	addBaseFlags(buildCmd, &buildFlags.base, &buildFlags.ascii, &buildFlags.indent)
	f.BoolVar(&buildFlags.dry, "dry", false, "Только показать, что будет создано")
	f.StringVar(&buildFlags.dirPerm, "dperm", "", "Права для новых каталогов (по умолчанию 0755)")
	f.StringVar(&buildFlags.filePerm, "fperm", "", "Права для новых файлов (по умолчанию 0644)")
	f.StringVar(&buildFlags.execGlob, "exec-glob", "", "Шаблоны исполняемых файлов через запятую (\"*.sh,bin/*\")")
	f.BoolVar(&buildFlags.db0600, "db-0600", false, "Права 0600 для *.db, *.sqlite, *.sqlite3")
	f.BoolVar(&buildFlags.open, "open", false, "Открыть базовый каталог в файловом менеджере")
	rootCmd.AddCommand(buildCmd)
}

// addBaseFlags — флаги, общие для build и watch.
func addBaseFlags(cmd *cobra.Command, base *string, ascii, indent *bool) {
	f := cmd.Flags()
	f.StringVarP(base, "base", "b", "", "Базовый каталог")
	f.BoolVar(ascii, "ascii", false, "Понимать также ASCII-ветки (|--, `--, +--)")
	f.BoolVar(indent, "indent", false, "Считать глубину по отступу (вывод tree с пробелами под └──)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	in := buildFlags.in
	if len(args) == 1 {
		if flagChanged(cmd, "in") {
			return errors.New("укажите схему либо через --in, либо аргументом")
		}
		in = args[0]
	}

	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}
	opts.InPath = in

	ctx := cmd.Context()
	p, runErr := app.Run(ctx, opts, stdinFromContext(ctx))
	if len(p.Steps) > 0 || runErr == nil {
		if err := output.PrintReport(ctx, stdoutFromContext(ctx), output.NewReport(p, opts.DryRun)); err != nil {
			if runErr == nil {
				return err
			}
			logger.Warn("не удалось вывести отчёт", "err", err)
		}
	}
	return runErr
}

// buildOptions сводит флаги и настройки: флаг > env > config > значение по умолчанию.
func buildOptions(cmd *cobra.Command) (app.Options, error) {
	c := cfg
	if c == nil {
		c = &config.Config{}
	}

	base := buildFlags.base
	if !flagChanged(cmd, "base") {
		base = c.BaseDir
	}

	dirPermStr := c.DirPerm
	if flagChanged(cmd, "dperm") {
		dirPermStr = buildFlags.dirPerm
	}
	dirPerm, err := config.ParsePerm(dirPermStr, 0o755)
	if err != nil {
		return app.Options{}, fmt.Errorf("неверный --dperm: %w", err)
	}
	filePermStr := c.FilePerm
	if flagChanged(cmd, "fperm") {
		filePermStr = buildFlags.filePerm
	}
	filePerm, err := config.ParsePerm(filePermStr, 0o644)
	if err != nil {
		return app.Options{}, fmt.Errorf("неверный --fperm: %w", err)
	}

	globs := c.ExecGlobs
	if flagChanged(cmd, "exec-glob") {
		globs = config.SplitGlobs(buildFlags.execGlob)
	}
	db0600 := c.DB0600
	if flagChanged(cmd, "db-0600") {
		db0600 = buildFlags.db0600
	}
	open := c.OpenAfterBuild
	if flagChanged(cmd, "open") {
		open = buildFlags.open
	}

	return app.Options{
		BaseDir:    strings.TrimSpace(base),
		DryRun:     buildFlags.dry,
		ASCII:      buildFlags.ascii,
		Indent:     buildFlags.indent,
		DirPerm:    dirPerm,
		FilePerm:   filePerm,
		ExecGlobs:  globs,
		DBMode0600: db0600,
		Open:       open,
		Logger:     logger,
	}, nil
}
