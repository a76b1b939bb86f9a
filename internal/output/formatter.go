package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// FormatType представляет тип форматирования вывода
type FormatType string

const (
	FormatTable FormatType = "table"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
)

// Formatter интерфейс для форматирования вывода
type Formatter interface {
	Format(data interface{}) (string, error)
}

// TableFormatter форматирует данные в виде таблицы
type TableFormatter struct{}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

func (f *TableFormatter) Format(data interface{}) (string, error) {
	switch v := data.(type) {
	case *TableData:
		return v.String(), nil
	case *PrettyTable:
		return v.String(), nil
	default:
		return fmt.Sprintf("%v", v), nil
	}
}

// JSONFormatter форматирует данные в JSON
type JSONFormatter struct {
	Pretty bool
}

func NewJSONFormatter(pretty bool) *JSONFormatter {
	return &JSONFormatter{Pretty: pretty}
}

func (f *JSONFormatter) Format(data interface{}) (string, error) {
	var output []byte
	var err error

	if f.Pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return string(output), nil
}

// YAMLFormatter форматирует данные в YAML
type YAMLFormatter struct{}

func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

func (f *YAMLFormatter) Format(data interface{}) (string, error) {
	output, err := yaml.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	return string(output), nil
}

// ColorFormatter добавляет цветовое форматирование
type ColorFormatter struct {
	Formatter Formatter
	UseColors bool
}

func NewColorFormatter(formatter Formatter, useColors bool) *ColorFormatter {
	return &ColorFormatter{
		Formatter: formatter,
		UseColors: useColors,
	}
}

func (f *ColorFormatter) Format(data interface{}) (string, error) {
	output, err := f.Formatter.Format(data)
	if err != nil {
		return "", err
	}

	if !f.UseColors {
		return output, nil
	}

	return applyColors(output), nil
}

// applyColors окрашивает строки по их содержимому
func applyColors(output string) string {
	lines := strings.Split(output, "\n")
	var result []string

	for i, line := range lines {
		switch {
		case i == 0:
			// Заголовок - синий цвет
			result = append(result, fmt.Sprintf("\033[1;34m%s\033[0m", line))
		case strings.Contains(line, "---"):
			// Разделитель - серый цвет
			result = append(result, fmt.Sprintf("\033[1;90m%s\033[0m", line))
		case strings.Contains(line, "✓") || strings.Contains(line, "active"):
			// Успех - зеленый цвет
			result = append(result, fmt.Sprintf("\033[1;32m%s\033[0m", line))
		case strings.Contains(line, "✗") || strings.Contains(line, "expired") || strings.Contains(line, "revoked") || strings.Contains(line, "disabled"):
			// Ошибка - красный цвет
			result = append(result, fmt.Sprintf("\033[1;31m%s\033[0m", line))
		case strings.Contains(line, "⚠") || strings.Contains(line, "inactive"):
			// Предупреждение - желтый цвет
			result = append(result, fmt.Sprintf("\033[1;33m%s\033[0m", line))
		default:
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// GetFormatter возвращает подходящий форматировщик
func GetFormatter(format FormatType, pretty bool, useColors bool) Formatter {
	var baseFormatter Formatter

	switch format {
	case FormatJSON:
		baseFormatter = NewJSONFormatter(pretty)
	case FormatYAML:
		baseFormatter = NewYAMLFormatter()
	case FormatTable:
		fallthrough
	default:
		baseFormatter = NewTableFormatter()
	}

	if useColors && format == FormatTable {
		return NewColorFormatter(baseFormatter, useColors)
	}

	return baseFormatter
}

// ParseFormat разбирает значение флага --output
func ParseFormat(s string) (FormatType, error) {
	switch strings.ToLower(s) {
	case "table", "":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "yaml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("неизвестный формат вывода: %s", s)
	}
}

// DetectColors определяет нужно ли использовать цвета
func DetectColors() bool {
	if colors := os.Getenv("CERTMANAGER_COLORS"); colors != "" {
		return strings.ToLower(colors) == "true"
	}

	return isTerminal()
}

// isTerminal проверяет, что вывод идет в терминал
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}

	return (fi.Mode() & os.ModeCharDevice) != 0
}
