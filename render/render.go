// Package render writes snapshots and listings for terminal output
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sig-0/exilian/search"
	"github.com/sig-0/exilian/storage/types"
)

const noDataMessage = "No data to show"

// Prices writes one "name: <value>c" line per record matching the query
func Prices(w io.Writer, s types.Snapshot[types.Record], query string) error {
	if !s.HasData() {
		return line(w, noDataMessage)
	}

	matches := search.Search(s, query)
	if len(matches) == 0 {
		return line(w, "No matches for: "+query)
	}

	for _, m := range matches {
		if err := line(w, fmt.Sprintf("%s: %sc", m.DisplayName(), FormatPrice(m.Price()))); err != nil {
			return err
		}
	}

	return nil
}

// Raw writes every record of the snapshot as a single JSON array
func Raw(w io.Writer, s types.Snapshot[types.Record]) error {
	if !s.HasData() {
		return line(w, noDataMessage)
	}

	return writeJSON(w, s.Lines)
}

// Data writes the full snapshot as JSON
func Data(w io.Writer, s types.Snapshot[types.Record]) error {
	if !s.HasData() {
		return line(w, noDataMessage)
	}

	return writeJSON(w, s)
}

// List writes the default value followed by every valid value
func List(w io.Writer, singular, plural string, values []string, def string) error {
	heading := "Valid " + plural

	var b strings.Builder

	fmt.Fprintf(&b, "DEFAULT %s: %s\n\n", strings.ToUpper(singular), def)
	fmt.Fprintf(&b, "%s\n%s\n", heading, strings.Repeat("=", len(heading)))

	for _, v := range values {
		b.WriteString(v)
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())

	return err
}

// FormatPrice formats the value with the fewest digits that represent it
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeJSON(w io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("unable to marshal JSON: %w", err)
	}

	return line(w, string(raw))
}

func line(w io.Writer, s string) error {
	_, err := fmt.Fprintln(w, s)

	return err
}
