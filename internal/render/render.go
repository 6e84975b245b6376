// Package render converts launch records and attribute sets into
// human-readable or machine-parseable output for the one-shot commands.
// Each format is a separate function; the top-level dispatchers select
// based on the format string.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/mkrebs/padwatch/internal/model"
)

// Format constants matching --format flag values.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Launches writes the latest/next pair to w in the specified format.
func Launches(w io.Writer, latest, next *model.Launch, format string) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Latest *model.Launch `json:"latest"`
			Next   *model.Launch `json:"next"`
		}{latest, next})
	}
	return launchTable(w, latest, next)
}

func launchTable(w io.Writer, latest, next *model.Launch) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"", "Name", "Time (UTC)", "Precision", "Rocket", "Site", "Status", "Recovery"})
	table.SetAutoWrapText(false)
	table.Append(launchRow("latest", latest))
	table.Append(launchRow("next", next))
	table.Render()
	return nil
}

func launchRow(label string, l *model.Launch) []string {
	if l == nil {
		return []string{label, "-", "-", "-", "-", "-", "-", "-"}
	}
	return []string{
		label,
		l.Name,
		l.Time.UTC().Format(time.RFC3339),
		string(l.Precision),
		orDash(l.RocketName),
		orDash(l.Locality),
		string(l.Status),
		string(l.CoreRecovery),
	}
}

// Attributes writes a published attribute set to w in the specified
// format. The tile HTML is summarised in table mode (it does not fit a
// terminal cell) and included verbatim in JSON mode.
func Attributes(w io.Writer, a model.Attributes, format string) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Attribute", "Value"})
	table.SetAutoWrapText(false)
	rows := [][]string{
		{"time", strconv.FormatInt(a.Time, 10)},
		{"timeStr", a.TimeStr},
		{"window", a.Window},
		{"name", a.Name},
		{"location", a.Location},
		{"rocket", a.Rocket},
		{"description", truncate(a.Description, 60)},
		{"status", a.Status},
		{"coreRecovery", a.CoreRecovery},
		{"switch", strconv.FormatBool(a.Switch)},
		{"tile", fmt.Sprintf("<%d bytes of HTML>", len(a.Tile))},
		{"generated_at", a.GeneratedAt.Format(time.RFC3339)},
	}
	for _, r := range rows {
		table.Append(r)
	}
	table.Render()
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
