package output

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/itchyny/gojq"
	"gopkg.in/yaml.v3"
)

// Format — формат вывода.
type Format string

const (
	// FormatText печатается по умолчанию.
	FormatText   Format = "text"
	FormatJSON   Format = "json"
	// FormatNDJSON печатает по одному JSON-объекту на строку.
	FormatNDJSON Format = "ndjson"
	FormatTable  Format = "table"
	FormatYAML   Format = "yaml"
)

// ParseFormat превращает строку в Format. Пустая строка даёт FormatText.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatNDJSON:
		return FormatNDJSON, nil
	case FormatTable:
		return FormatTable, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", errors.New("неверный --output (ожидается text|json|ndjson|table|yaml)")
	}
}

// IsStructured сообщает, машиночитаемый ли формат.
func IsStructured(format Format) bool {
	switch format {
	case FormatJSON, FormatNDJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// Table — явные данные для табличного вывода.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Printer печатает данные в выбранном формате.
type Printer struct {
	w      io.Writer
	format Format
}

// NewPrinter создаёт Printer, пишущий в w.
func NewPrinter(w io.Writer, format Format) *Printer {
	return &Printer{w: w, format: format}
}

// Print выводит data. Для text ожидается fmt.Stringer или строка,
// для table — Table.
func (p *Printer) Print(ctx context.Context, data interface{}) error {
	if data == nil {
		return nil
	}
	switch p.format {
	case FormatJSON:
		return p.printJSON(ctx, data, "  ")
	case FormatNDJSON:
		return p.printJSON(ctx, data, "")
	case FormatYAML:
		return p.printYAML(data)
	case FormatTable:
		t, ok := data.(Table)
		if !ok {
			return fmt.Errorf("формат table не поддерживается для %T", data)
		}
		return p.printTable(t)
	case FormatText:
		_, err := fmt.Fprintln(p.w, data)
		return err
	default:
		return fmt.Errorf("неподдерживаемый формат: %s", p.format)
	}
}

// printJSON печатает JSON и фильтрует его jq-запросом из контекста, если он задан.
// Для ndjson срез печатается поэлементно.
func (p *Printer) printJSON(ctx context.Context, data interface{}, indent string) error {
	enc := json.NewEncoder(p.w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)

	query := QueryFromContext(ctx)
	if query == "" {
		if indent == "" {
			if items, ok := data.([]interface{}); ok {
				for _, item := range items {
					if err := enc.Encode(item); err != nil {
						return err
					}
				}
				return nil
			}
		}
		return enc.Encode(data)
	}

	parsed, err := gojq.Parse(query)
	if err != nil {
		return fmt.Errorf("неверный --query: %w", err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return fmt.Errorf("неверный --query: %w", err)
	}

	// gojq понимает только map/slice/примитивы, поэтому сначала нормализуем.
	generic, err := normalize(data)
	if err != nil {
		return err
	}

	iter := code.RunWithContext(ctx, generic)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return fmt.Errorf("ошибка запроса: %w", err)
		}
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printYAML(data interface{}) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(data)
}

func (p *Printer) printTable(t Table) error {
	w := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(t.Headers, "\t"))
	for _, row := range t.Rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func normalize(data interface{}) (interface{}, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
