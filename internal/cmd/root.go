package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"treemaker/internal/config"
	"treemaker/internal/logging"
	"treemaker/internal/output"
)

var (
	// задаются при сборке через -ldflags
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersionInfo задаёт сведения о версии из флагов сборки.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = v
	rootCmd.SetVersionTemplate(versionLine())
}

// Глобальные флаги
var (
	outputFmt  string
	outputType output.Format
	queryExpr  string
	configFile string
	errorFmt   string
	verbose    bool
	quietFlag  bool
	logFile    string
	themeName  string
)

// Состояние текущего запуска: настройки после env и журнал.
var (
	cfg       *config.Config
	logger    = slog.Default()
	logCloser io.Closer
)

// envGet подменяется в тестах.
var envGet = os.Getenv

var dotEnvPath = ".env"

var rootCmd = &cobra.Command{
	Use:   "treemaker",
	Short: "Создаёт каталоги и файлы по текстовой схеме дерева",
	Long: `treemaker читает схему в формате вывода tree и создаёт по ней
каталоги и пустые файлы. Уже существующие файлы не перезаписываются.

  project/
  ├── src/
  │   └── main.go
  └── README.md

Переменные окружения:
  TREEMAKER_BASE_DIR  базовый каталог для build и watch
  TREEMAKER_OUTPUT    формат вывода по умолчанию
  TREEMAKER_THEME     тема текстового вывода (light|dark)`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(dotEnvPath); err != nil {
			return err
		}
		loaded, err := loadConfigFromFlag()
		if err != nil {
			return err
		}
		loaded.ApplyEnv(envGet)
		cfg = loaded

		// --output > env/config > json без терминала > text
		formatStr := outputFmt
		if !flagChanged(cmd, "output") {
			switch {
			case strings.TrimSpace(cfg.OutputFormat) != "":
				formatStr = cfg.OutputFormat
			case !isTerminal(cmd.OutOrStdout()):
				formatStr = string(output.FormatJSON)
			}
		}
		format, err := output.ParseFormat(formatStr)
		if err != nil {
			return err
		}
		outputType = format

		theme := themeName
		if !flagChanged(cmd, "theme") && cfg.Theme != "" {
			theme = cfg.Theme
		}
		switch theme {
		case output.ThemeLight, output.ThemeDark:
		default:
			return fmt.Errorf("неверная --theme %q (ожидается light|dark)", theme)
		}

		if err := validateErrorFormat(errorFmt); err != nil {
			return err
		}

		file := logFile
		if !flagChanged(cmd, "log-file") {
			file = cfg.LogFile
		}
		logger, logCloser = logging.New(cmd.ErrOrStderr(), logging.Options{
			Verbose: verbose,
			Quiet:   quietFlag,
			File:    file,
		})

		ctx := cmd.Context()
		ctx = withIO(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		ctx = output.WithFormat(ctx, outputType)
		ctx = output.WithQuery(ctx, queryExpr)
		ctx = output.WithTheme(ctx, theme)
		ctx = withErrorFormat(ctx, errorFmt)
		cmd.SetContext(ctx)
		return nil
	},
}

// Execute запускает корневую команду.
func Execute() error {
	cmd, err := rootCmd.ExecuteC()
	closeLog()
	if err != nil {
		ctx := rootCmd.Context()
		if cmd != nil && cmd.Context() != nil {
			ctx = cmd.Context()
		}
		printCommandError(ctx, err)
		return err
	}
	return nil
}

func closeLog() {
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
}

func versionLine() string {
	return fmt.Sprintf("treemaker %s (commit: %s, собран: %s)\n", version, commit, date)
}

func init() {
	rootCmd.SetVersionTemplate(versionLine())

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&outputFmt, "output", "o", "text", "Формат вывода (text|json|ndjson|table|yaml)")
	pf.StringVar(&queryExpr, "query", "", "jq-выражение для json/ndjson-вывода")
	pf.StringVar(&configFile, "config", "", "Файл настроек (по умолчанию ~/.config/treemaker/config.yaml)")
	pf.StringVar(&errorFmt, "error-format", "auto", "Формат ошибок (auto|text|json|yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Подробный журнал")
	pf.BoolVarP(&quietFlag, "quiet", "q", false, "Только предупреждения и ошибки")
	pf.StringVar(&logFile, "log-file", "", "Дополнительно писать журнал в файл (с ротацией)")
	pf.StringVar(&themeName, "theme", output.ThemeLight, "Тема текстового вывода (light|dark)")
}

func loadConfigFromFlag() (*config.Config, error) {
	path := strings.TrimSpace(configFile)
	if path == "" {
		var err error
		path, err = config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

func configPath() (string, error) {
	if p := strings.TrimSpace(configFile); p != "" {
		return p, nil
	}
	return config.DefaultConfigPath()
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := cmd.InheritedFlags().Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
