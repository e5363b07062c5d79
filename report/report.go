// Package report renders decoded PDU fields for the terminal.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"

	"github.com/ftl/sms-pdu/pdu"
)

type Options struct {
	// Brief skips the hideable header details.
	Brief bool
	// NoColor disables the ANSI colors regardless of the terminal.
	NoColor bool
}

type palette struct {
	label     *color.Color
	violation *color.Color
}

func newPalette(noColor bool) palette {
	result := palette{
		label:     color.New(color.Bold),
		violation: color.New(color.FgRed, color.Bold),
	}
	if noColor {
		result.label.DisableColor()
		result.violation.DisableColor()
	} else {
		result.label.EnableColor()
		result.violation.EnableColor()
	}
	return result
}

// Table writes one line per field, the values aligned in a column. The values of violations are shown in red.
// Only the value column is colored differently so the alignment holds.
func Table(w io.Writer, fields pdu.Fields, opts Options) error {
	p := newPalette(opts.NoColor)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	for _, field := range visible(fields, opts.Brief) {
		label := p.label.Sprint(field.Label)
		value := oneLine(field.Value)
		if field.Violation {
			value = p.violation.Sprint(value)
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", label, value); err != nil {
			return err
		}
	}

	return tw.Flush()
}

// JSON writes the fields as JSON array. With pretty, the output is indented and colored.
func JSON(w io.Writer, fields pdu.Fields, pretty bool, opts Options) error {
	fields = visible(fields, opts.Brief)

	var (
		data []byte
		err  error
	)
	if pretty {
		formatter := prettyjson.NewFormatter()
		formatter.DisabledColor = opts.NoColor
		data, err = formatter.Marshal(fields)
	} else {
		data, err = json.Marshal(fields)
	}
	if err != nil {
		return fmt.Errorf("cannot render fields as JSON: %w", err)
	}

	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func visible(fields pdu.Fields, brief bool) pdu.Fields {
	if !brief {
		return fields
	}
	result := make(pdu.Fields, 0, len(fields))
	for _, field := range fields {
		if !field.Hideable {
			result = append(result, field)
		}
	}
	return result
}

// oneLine keeps the table intact for values with line breaks, e.g. text messages.
func oneLine(s string) string {
	return strings.NewReplacer("\r\n", "⏎", "\n", "⏎", "\r", "⏎").Replace(s)
}
