package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"sigs.k8s.io/yaml"

	"github.com/five82/ffscope/internal/listing"
	"github.com/five82/ffscope/internal/rows"
)

type outputFormat string

const (
	formatTable outputFormat = "table"
	formatJSON  outputFormat = "json"
	formatYAML  outputFormat = "yaml"
)

func parseFormat(raw string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(raw))); f {
	case formatTable, formatJSON, formatYAML:
		return f, nil
	case "":
		return formatTable, nil
	}
	return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", raw)
}

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format outputFormat, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		out, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	}
	return fmt.Errorf("format %q is not structured", format)
}

// writeTable prints records through the projection. wide keeps full hashes.
func writeTable[T any](w io.Writer, p rows.Projection[T], records []T, now time.Time, wide bool) {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	bold := color.New(color.Bold)
	headers := p.Headers()
	for i, h := range headers {
		headers[i] = bold.Sprint(h)
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for _, row := range rows.Project(records, p, nil) {
		cells := make([]string, len(row.Columns))
		for i, c := range row.Columns {
			cells[i] = cellText(c, now, wide)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	_ = tw.Flush()
}

// writeRecord prints one record as aligned label/value lines.
func writeRecord[T any](w io.Writer, p rows.Projection[T], record T, now time.Time) {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	bold := color.New(color.Bold)
	fmt.Fprintf(tw, "%s\t%s\n", bold.Sprint("ID"), p.ID(record))
	for _, col := range p.Columns {
		if col.Header == "ID" {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\n", bold.Sprint(col.Header), cellText(col.Cell(record), now, true))
	}
	_ = tw.Flush()
}

func cellText(c rows.Cell, now time.Time, wide bool) string {
	switch c.Kind {
	case rows.CellHash:
		if wide {
			return orDash(c.Value)
		}
	case rows.CellBadge:
		return toneColor(c.Tone).Sprint(c.Value)
	}
	return orDash(c.Display(now))
}

func toneColor(t rows.Tone) *color.Color {
	switch t {
	case rows.ToneSuccess:
		return color.New(color.FgGreen)
	case rows.ToneDanger:
		return color.New(color.FgRed)
	case rows.ToneWarning:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}

// writePageFooter prints the "from-to of total" line below a table.
func writePageFooter(w io.Writer, req listing.Request, total, count int) {
	p := message.NewPrinter(language.English)
	from, to := req.Skip+1, req.Skip+count
	pages := 1
	if req.Limit > 0 && total > 0 {
		pages = (total + req.Limit - 1) / req.Limit
	}
	line := p.Sprintf("%d-%d of %d  page %d/%d", from, to, total, req.Page+1, pages)
	fmt.Fprintln(w, color.New(color.Faint).Sprint(line))
}

// startSpinner shows progress on w while a request runs. It is a no-op
// unless w is a terminal. The returned func stops it.
func startSpinner(w io.Writer, msg string) func() {
	f, ok := w.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[78], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = msg
	s.Start()
	return s.Stop
}
