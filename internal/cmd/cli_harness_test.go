package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// runCLI выполняет команду через Execute и возвращает stdout и stderr.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	return runCLIEnv(t, nil, stdin, args...)
}

// runCLIEnv работает как runCLI, но с заданным окружением.
func runCLIEnv(t *testing.T, env map[string]string, stdin string, args ...string) (string, string, error) {
	t.Helper()
	restore := snapshotCLIState()
	defer restore()
	envGet = func(k string) string { return env[k] }

	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	in := strings.NewReader(stdin)

	rootCmd.SetOut(out)
	rootCmd.SetErr(errBuf)
	rootCmd.SetIn(in)
	rootCmd.SetContext(withIO(context.Background(), in, out, errBuf))

	if !hasFlag(args, "--config") {
		args = append([]string{"--config", filepath.Join(t.TempDir(), "config.yaml")}, args...)
	}
	rootCmd.SetArgs(args)

	err := Execute()
	return out.String(), errBuf.String(), err
}

func hasFlag(args []string, name string) bool {
	for _, a := range args {
		if a == name || strings.HasPrefix(a, name+"=") {
			return true
		}
	}
	return false
}

func snapshotCLIState() func() {
	prevOutputFmt := outputFmt
	prevOutputType := outputType
	prevQuery := queryExpr
	prevConfig := configFile
	prevErrorFmt := errorFmt
	prevVerbose := verbose
	prevQuiet := quietFlag
	prevLogFile := logFile
	prevTheme := themeName
	prevCfg := cfg
	prevLogger := logger
	prevEnvGet := envGet
	prevDotEnv := dotEnvPath

	prevOut := rootCmd.OutOrStdout()
	prevErr := rootCmd.ErrOrStderr()
	prevIn := rootCmd.InOrStdin()
	prevCtx := rootCmd.Context()

	envGet = func(string) string { return "" }
	dotEnvPath = filepath.Join("testdata", "missing.env")

	return func() {
		outputFmt = prevOutputFmt
		outputType = prevOutputType
		queryExpr = prevQuery
		configFile = prevConfig
		errorFmt = prevErrorFmt
		verbose = prevVerbose
		quietFlag = prevQuiet
		logFile = prevLogFile
		themeName = prevTheme
		cfg = prevCfg
		envGet = prevEnvGet
		dotEnvPath = prevDotEnv
		closeLog()
		if prevLogger == nil {
			prevLogger = slog.Default()
		}
		logger = prevLogger

		rootCmd.SetOut(prevOut)
		rootCmd.SetErr(prevErr)
		rootCmd.SetIn(prevIn)
		rootCmd.SetArgs(nil)
		resetCommands(rootCmd)
		rootCmd.SetContext(prevCtx)
	}
}

// resetCommands возвращает флагам значения по умолчанию и очищает
// контексты подкоманд, оставшиеся от прошлого запуска.
func resetCommands(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		sub.SetContext(nil)
		resetCommands(sub)
	}
}
