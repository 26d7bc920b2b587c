package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppName — имя утилиты, используется для каталога настроек.
const AppName = "treemaker"

// Переменные окружения, которые перекрывают файл настроек.
const (
	EnvBaseDir = "TREEMAKER_BASE_DIR"
	EnvOutput  = "TREEMAKER_OUTPUT"
	EnvTheme   = "TREEMAKER_THEME"
)

// Config — настройки утилиты (~/.config/treemaker/config.yaml).
type Config struct {
	BaseDir        string   `yaml:"base_dir,omitempty"`
	OutputFormat   string   `yaml:"output_format,omitempty"` // text, json, ndjson, yaml, table
	Theme          string   `yaml:"theme,omitempty"`         // light, dark
	DirPerm        string   `yaml:"dir_perm,omitempty"`      // восьмерично, "0755"
	FilePerm       string   `yaml:"file_perm,omitempty"`
	ExecGlobs      []string `yaml:"exec_globs,omitempty"`
	DB0600         bool     `yaml:"db_0600,omitempty"`
	OpenAfterBuild bool     `yaml:"open_after_build,omitempty"`
	LogFile        string   `yaml:"log_file,omitempty"`
}

// ConfigDir возвращает каталог настроек.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("не удалось определить домашний каталог: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// DefaultConfigPath возвращает путь к файлу настроек по умолчанию.
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load читает настройки из path. Если файла нет, настройки пустые.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("чтение настроек: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("разбор настроек %s: %w", path, err)
	}
	return &cfg, nil
}

// Save записывает настройки в path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("сериализация настроек: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("создание каталога настроек: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("запись настроек: %w", err)
	}
	return nil
}

// LoadDotEnv подхватывает .env из текущего каталога.
// Уже заданные переменные окружения не перезаписываются.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("чтение %s: %w", path, err)
	}
	return nil
}

// ApplyEnv перекрывает значения из файла переменными окружения.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvBaseDir)); v != "" {
		c.BaseDir = v
	}
	if v := strings.TrimSpace(getenv(EnvOutput)); v != "" {
		c.OutputFormat = v
	}
	if v := strings.TrimSpace(getenv(EnvTheme)); v != "" {
		c.Theme = v
	}
}

// Keys перечисляет ключи для Set/Unset.
func Keys() []string {
	keys := []string{
		"base_dir", "output_format", "theme", "dir_perm", "file_perm",
		"exec_globs", "db_0600", "open_after_build", "log_file",
	}
	sort.Strings(keys)
	return keys
}

// Set меняет значение ключа с проверкой формата.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "base_dir":
		c.BaseDir = value
	case "output_format":
		switch strings.ToLower(value) {
		case "text", "json", "ndjson", "yaml", "table":
			c.OutputFormat = strings.ToLower(value)
		default:
			return fmt.Errorf("неверный output_format %q (ожидается text|json|ndjson|yaml|table)", value)
		}
	case "theme":
		switch strings.ToLower(value) {
		case "light", "dark":
			c.Theme = strings.ToLower(value)
		default:
			return fmt.Errorf("неверная тема %q (ожидается light|dark)", value)
		}
	case "dir_perm", "file_perm":
		if _, err := ParsePerm(value, 0); err != nil {
			return fmt.Errorf("неверные права %s: %w", key, err)
		}
		if key == "dir_perm" {
			c.DirPerm = value
		} else {
			c.FilePerm = value
		}
	case "exec_globs":
		c.ExecGlobs = SplitGlobs(value)
	case "db_0600", "open_after_build":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: ожидается true|false, получено %q", key, value)
		}
		if key == "db_0600" {
			c.DB0600 = b
		} else {
			c.OpenAfterBuild = b
		}
	case "log_file":
		c.LogFile = value
	default:
		return fmt.Errorf("неизвестный ключ %q (см. treemaker config keys)", key)
	}
	return nil
}

// Unset сбрасывает ключ в значение по умолчанию.
func (c *Config) Unset(key string) error {
	switch key {
	case "base_dir":
		c.BaseDir = ""
	case "output_format":
		c.OutputFormat = ""
	case "theme":
		c.Theme = ""
	case "dir_perm":
		c.DirPerm = ""
	case "file_perm":
		c.FilePerm = ""
	case "exec_globs":
		c.ExecGlobs = nil
	case "db_0600":
		c.DB0600 = false
	case "open_after_build":
		c.OpenAfterBuild = false
	case "log_file":
		c.LogFile = ""
	default:
		return fmt.Errorf("неизвестный ключ %q (см. treemaker config keys)", key)
	}
	return nil
}

// ParsePerm разбирает восьмеричные права; для пустой строки возвращает def.
func ParsePerm(s string, def os.FileMode) (os.FileMode, error) {
	ss := strings.TrimSpace(s)
	if ss == "" {
		return def, nil
	}
	// base=0 понимает 0755/0o755; "755" без префикса тоже считаем восьмеричным
	if !strings.HasPrefix(ss, "0") {
		ss = "0" + ss
	}
	u, err := strconv.ParseUint(ss, 0, 32)
	if err != nil {
		return 0, err
	}
	if u > 0o7777 {
		return 0, fmt.Errorf("права вне диапазона: %s", s)
	}
	return os.FileMode(u), nil
}

// SplitGlobs разбирает список шаблонов через запятую.
func SplitGlobs(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
