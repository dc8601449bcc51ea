package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

type printer struct {
	w      io.Writer
	format string
}

func newPrinter(w io.Writer, format string) (printer, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "", outputTable:
		return printer{w: w, format: outputTable}, nil
	case outputJSON:
		return printer{w: w, format: outputJSON}, nil
	}
	return printer{}, fmt.Errorf("unknown output format %q (valid: table, json)", format)
}

func (p printer) json() bool { return p.format == outputJSON }

// render writes v as JSON, or header and rows as an aligned table.
func (p printer) render(v any, header []string, rows [][]string) error {
	if p.json() {
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// message prints a line in table mode and {"message": ...} in JSON mode.
func (p printer) message(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if p.json() {
		return p.render(map[string]string{"message": msg}, nil, nil)
	}
	_, err := fmt.Fprintln(p.w, msg)
	return err
}

func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func hours(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func idOrDash(id *int64) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatInt(*id, 10)
}
