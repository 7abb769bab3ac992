package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/termenv"
)

// Formatter is the interface for output formatting
type Formatter interface {
	Print(data any) error
	PrintList(items any, columns []Column) error
	PrintError(err error)
	PrintHint(msg string)
}

// Column defines a column for table/list output
type Column struct {
	Name  string // Display name
	Key   string // Struct field name or map key
	Width int    // Width for rich mode (0 = auto)
}

// New creates a formatter for the specified mode writing to stdout and stderr
func New(mode string) Formatter {
	return NewTo(mode, os.Stdout, os.Stderr)
}

// NewTo creates a formatter for the specified mode writing to out and errOut
func NewTo(mode string, out, errOut io.Writer) Formatter {
	switch mode {
	case "json":
		return &jsonFormatter{out: out, errOut: errOut}
	case "rich":
		return &richFormatter{out: out, errOut: errOut, profile: termenv.ColorProfile()}
	default:
		return &plainFormatter{out: out, errOut: errOut}
	}
}

// jsonFormatter outputs JSON
type jsonFormatter struct {
	out    io.Writer
	errOut io.Writer
}

func (f *jsonFormatter) Print(data any) error {
	enc := json.NewEncoder(f.out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (f *jsonFormatter) PrintList(items any, columns []Column) error {
	v := reflect.ValueOf(items)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	count := 0
	if v.Kind() == reflect.Slice {
		count = v.Len()
	}

	envelope := map[string]any{
		"data":  items,
		"count": count,
	}

	return f.Print(envelope)
}

func (f *jsonFormatter) PrintError(err error) {
	errObj := map[string]string{"error": err.Error()}
	enc := json.NewEncoder(f.errOut)
	enc.SetIndent("", "  ")
	enc.Encode(errObj)
}

func (f *jsonFormatter) PrintHint(msg string) {
	// hints are for humans; keep stderr machine-readable
}

// plainFormatter outputs tab-separated values
type plainFormatter struct {
	out    io.Writer
	errOut io.Writer
}

func (f *plainFormatter) Print(data any) error {
	pairs, ok := fields(data)
	if !ok {
		// For non-struct types, just print the value
		fmt.Fprintf(f.out, "%v\n", data)
		return nil
	}

	for _, kv := range pairs {
		fmt.Fprintf(f.out, "%s\t%s\n", kv[0], kv[1])
	}
	return nil
}

func (f *plainFormatter) PrintList(items any, columns []Column) error {
	rows, err := rowsOf(items, columns)
	if err != nil {
		return err
	}

	// Print header
	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = col.Name
	}
	fmt.Fprintf(f.out, "%s\n", strings.Join(headers, "\t"))

	for _, row := range rows {
		values := make([]string, len(columns))
		for j, col := range columns {
			values[j] = row[col.Key]
		}
		fmt.Fprintf(f.out, "%s\n", strings.Join(values, "\t"))
	}

	return nil
}

func (f *plainFormatter) PrintError(err error) {
	fmt.Fprintf(f.errOut, "error: %v\n", err)
}

func (f *plainFormatter) PrintHint(msg string) {
	fmt.Fprintf(f.errOut, "hint: %v\n", msg)
}

// richFormatter outputs styled content for terminal
type richFormatter struct {
	out     io.Writer
	errOut  io.Writer
	profile termenv.Profile
}

// style renders s with st unless the terminal has no color support
func (f *richFormatter) style(st lipgloss.Style, s string) string {
	if f.profile == termenv.Ascii {
		return s
	}
	return st.Render(s)
}

func (f *richFormatter) Print(data any) error {
	keyStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("15"))

	pairs, ok := fields(data)
	if !ok {
		fmt.Fprintf(f.out, "%v\n", data)
		return nil
	}

	for _, kv := range pairs {
		fmt.Fprintf(f.out, "%s: %s\n", f.style(keyStyle, kv[0]), f.style(valueStyle, kv[1]))
	}
	return nil
}

func (f *richFormatter) PrintList(items any, columns []Column) error {
	rows, err := rowsOf(items, columns)
	if err != nil {
		return err
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Underline(true)
	RenderTable(f.out, columns, rows, func(s string) string {
		return f.style(headerStyle, s)
	})
	return nil
}

func (f *richFormatter) PrintError(err error) {
	errorStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("9"))

	fmt.Fprintf(f.errOut, "%s\n", f.style(errorStyle, "error: "+err.Error()))
}

func (f *richFormatter) PrintHint(msg string) {
	hintStyle := lipgloss.NewStyle().
		Faint(true).
		Foreground(lipgloss.Color("8"))

	fmt.Fprintf(f.errOut, "%s\n", f.style(hintStyle, "hint: "+msg))
}

// fields flattens a struct into name/value pairs, skipping empty omitempty fields
func fields(data any) ([][2]string, bool) {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return nil, false
	}

	t := v.Type()
	pairs := make([][2]string, 0, v.NumField())
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		value := v.Field(i)
		if field.Tag.Get("json") == "-" || (strings.HasSuffix(field.Tag.Get("json"), ",omitempty") && value.IsZero()) {
			continue
		}
		pairs = append(pairs, [2]string{field.Name, fmt.Sprintf("%v", value.Interface())})
	}
	return pairs, true
}

// rowsOf converts a slice of structs or maps into rows keyed by column key
func rowsOf(items any, columns []Column) ([]map[string]string, error) {
	v := reflect.ValueOf(items)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Slice {
		return nil, fmt.Errorf("PrintList requires a slice")
	}

	rows := make([]map[string]string, v.Len())
	for i := 0; i < v.Len(); i++ {
		item := v.Index(i)
		if item.Kind() == reflect.Ptr {
			item = item.Elem()
		}

		row := make(map[string]string)
		for _, col := range columns {
			if item.Kind() == reflect.Map {
				mapVal := item.MapIndex(reflect.ValueOf(col.Key))
				if mapVal.IsValid() {
					row[col.Key] = fmt.Sprintf("%v", mapVal.Interface())
				}
			} else if item.Kind() == reflect.Struct {
				field := item.FieldByName(col.Key)
				if field.IsValid() {
					row[col.Key] = fmt.Sprintf("%v", field.Interface())
				}
			}
		}
		rows[i] = row
	}
	return rows, nil
}
