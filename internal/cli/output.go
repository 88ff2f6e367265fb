package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// OutputFormat selects how list and status commands render results.
type OutputFormat string

const (
	OutputTable OutputFormat = "table"
	OutputJSON  OutputFormat = "json"
)

// ParseOutputFormat validates an --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputTable, OutputJSON:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected table or json)", s)
	}
}

// NewTable creates a table writer with the standard styling.
func NewTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	return t
}

// WriteJSON renders v as indented JSON.
func WriteJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatConfigured renders a configured flag as a colored yes/no cell.
func FormatConfigured(configured bool) string {
	if configured {
		return text.FgGreen.Sprint("yes")
	}
	return text.FgYellow.Sprint("no")
}

// FormatExpiry renders a token expiry relative to now. The zero time means
// the provider reported no expiry.
func FormatExpiry(expiry time.Time) string {
	if expiry.IsZero() {
		return "-"
	}
	remaining := time.Until(expiry)
	if remaining <= 0 {
		return text.FgRed.Sprintf("expired %s ago", (-remaining).Round(time.Second))
	}
	return fmt.Sprintf("in %s", remaining.Round(time.Second))
}
