// Package export writes collection, deck and pack history data as CSV or
// JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Format represents the export format.
type Format string

const (
	// FormatCSV represents CSV export format.
	FormatCSV Format = "csv"
	// FormatJSON represents JSON export format.
	FormatJSON Format = "json"
)

// ParseFormat accepts "csv" or "json" in any case. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported export format: %s", s)
}

// ContentType is the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/json"
}

// Write encodes data to w. CSV needs a slice of structs; the header comes
// from csv tags, and fields tagged csv:"-" or unexported are skipped. An
// empty slice writes only the header.
func Write(w io.Writer, format Format, data interface{}) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	case FormatCSV:
		return writeCSV(w, data)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

// WriteFile writes data to path, creating parent directories. An existing
// file is only replaced when overwrite is set.
func WriteFile(path string, format Format, data interface{}, overwrite bool) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("file already exists: %s (use overwrite option to replace)", path)
		}
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return Write(file, format, data)
}

// GenerateFilename builds a timestamped default filename.
func GenerateFilename(exportType string, format Format, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", exportType, now.Format("20060102_150405"), format)
}

func writeCSV(w io.Writer, data interface{}) error {
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice {
		return fmt.Errorf("CSV export requires a slice, got %s", v.Kind())
	}
	elemType := v.Type().Elem()
	if elemType.Kind() == reflect.Ptr {
		elemType = elemType.Elem()
	}
	if elemType.Kind() != reflect.Struct {
		return fmt.Errorf("CSV export requires a slice of structs")
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeaders(elemType)); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		if elem.Kind() == reflect.Ptr {
			elem = elem.Elem()
		}
		if err := writer.Write(csvRow(elem)); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func csvField(f reflect.StructField) (string, bool) {
	if !f.IsExported() {
		return "", false
	}
	tag := f.Tag.Get("csv")
	switch tag {
	case "-":
		return "", false
	case "":
		return f.Name, true
	}
	return tag, true
}

func csvHeaders(t reflect.Type) []string {
	var headers []string
	for i := 0; i < t.NumField(); i++ {
		if name, ok := csvField(t.Field(i)); ok {
			headers = append(headers, name)
		}
	}
	return headers
}

func csvRow(v reflect.Value) []string {
	var row []string
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		if _, ok := csvField(t.Field(i)); ok {
			row = append(row, csvValue(v.Field(i)))
		}
	}
	return row
}

func csvValue(v reflect.Value) string {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', 2, 64)
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Slice:
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = csvValue(v.Index(i))
		}
		return strings.Join(parts, ";")
	case reflect.Struct:
		if t, ok := v.Interface().(time.Time); ok {
			if t.IsZero() {
				return ""
			}
			return t.Format(time.RFC3339)
		}
	}
	return fmt.Sprintf("%v", v.Interface())
}
