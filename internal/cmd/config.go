package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"treemaker/internal/config"
	"treemaker/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Настройки утилиты",
	Long: `Просмотр и изменение настроек в ~/.config/treemaker/config.yaml.

Переменные окружения TREEMAKER_* и флаги перекрывают значения из файла.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Показать действующие настройки (с учётом окружения)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := cfg
		if c == nil {
			c = &config.Config{}
		}
		ctx := cmd.Context()
		w := stdoutFromContext(ctx)
		if output.IsStructured(outputType) {
			return output.NewPrinter(w, outputType).Print(ctx, configOutput(c))
		}
		data, err := yaml.Marshal(c)
		if err != nil {
			return err
		}
		if strings.TrimSpace(string(data)) == "{}" {
			_, err = fmt.Fprintln(w, "настройки не заданы")
			return err
		}
		_, err = w.Write(data)
		return err
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Задать значение",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateConfig(cmd, func(c *config.Config) error {
			return c.Set(args[0], args[1])
		})
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Сбросить значение",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateConfig(cmd, func(c *config.Config) error {
			return c.Unset(args[0])
		})
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Список ключей",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		w := stdoutFromContext(ctx)
		if output.IsStructured(outputType) {
			return output.NewPrinter(w, outputType).Print(ctx, config.Keys())
		}
		for _, k := range config.Keys() {
			fmt.Fprintln(w, k)
		}
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Путь к файлу настроек",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		w := stdoutFromContext(ctx)
		if output.IsStructured(outputType) {
			return output.NewPrinter(w, outputType).Print(ctx, map[string]string{"path": path})
		}
		_, err = fmt.Fprintln(w, path)
		return err
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd, configUnsetCmd, configKeysCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// updateConfig меняет файл настроек. Загружаем файл заново: в cfg уже
// подмешано окружение, и его нельзя сохранять.
func updateConfig(cmd *cobra.Command, change func(*config.Config) error) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := change(c); err != nil {
		return err
	}
	if err := c.Save(path); err != nil {
		return err
	}
	logger.Debug("настройки сохранены", "path", path)

	ctx := cmd.Context()
	if output.IsStructured(outputType) {
		return output.NewPrinter(stdoutFromContext(ctx), outputType).Print(ctx, configOutput(c))
	}
	_, err = fmt.Fprintf(stdoutFromContext(ctx), "сохранено: %s\n", path)
	return err
}

func configOutput(c *config.Config) map[string]interface{} {
	globs := c.ExecGlobs
	if globs == nil {
		globs = []string{}
	}
	return map[string]interface{}{
		"base_dir":         c.BaseDir,
		"output_format":    c.OutputFormat,
		"theme":            c.Theme,
		"dir_perm":         c.DirPerm,
		"file_perm":        c.FilePerm,
		"exec_globs":       globs,
		"db_0600":          c.DB0600,
		"open_after_build": c.OpenAfterBuild,
		"log_file":         c.LogFile,
	}
}
