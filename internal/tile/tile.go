// Package tile renders the selected launch as a dashboard tile (HTML) and
// builds the full attribute set published on every cycle. Rendering is
// pure formatting: missing display fields become explicit placeholders,
// never errors.
package tile

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/mkrebs/padwatch/internal/model"
	"github.com/mkrebs/padwatch/internal/timefmt"
)

// Layout constants matching the dashboardLayout config option.
const (
	LayoutCompact  = "compact"
	LayoutScalable = "scalable"
)

// Unavailable is the placeholder substituted for missing display fields.
const Unavailable = "unavailable"

// Options carries the presentation settings for tile rendering.
type Options struct {
	Layout       string
	TextColor    string
	ShowName     bool
	ShowLocality bool
}

// tileData is what the layout templates receive. All fields are final
// display strings; placeholder substitution happens before execution.
type tileData struct {
	Patch     string
	Name      string
	Locality  string
	Rocket    string
	TimeStr   string
	Window    string
	Status    string
	TextColor template.CSS
	ShowName  bool
	ShowSite  bool
}

var compactTmpl = template.Must(template.New("compact").Parse(strings.TrimSpace(`
<div class="padwatch-tile" style="color:{{.TextColor}};text-align:center">
<img src="{{.Patch}}" style="height:40%" alt="mission patch">
{{if .ShowName}}<div class="pw-name">{{.Name}}</div>{{end}}
<div class="pw-rocket">{{.Rocket}}{{if .ShowSite}} &middot; {{.Locality}}{{end}}</div>
<div class="pw-time">{{.TimeStr}}{{if .Window}} ({{.Window}}){{end}}</div>
<div class="pw-status">{{.Status}}</div>
</div>`)))

var scalableTmpl = template.Must(template.New("scalable").Parse(strings.TrimSpace(`
<table class="padwatch-tile" style="color:{{.TextColor}};width:100%;height:100%;text-align:center">
<tr style="height:50%"><td colspan="2"><img src="{{.Patch}}" style="max-height:100%" alt="mission patch"></td></tr>
{{if .ShowName}}<tr><td colspan="2" class="pw-name">{{.Name}}</td></tr>{{end}}
<tr><td class="pw-rocket">{{.Rocket}}</td>{{if .ShowSite}}<td class="pw-site">{{.Locality}}</td>{{end}}</tr>
<tr><td class="pw-time">{{.TimeStr}}</td><td class="pw-status">{{.Status}}</td></tr>
</table>`)))

// Render produces the tile HTML for the selected launch. A nil launch
// (no data, or display cleared during the inactivity window) renders as
// an empty tile rather than an error.
func Render(l *model.Launch, opts Options, now time.Time, loc *time.Location) (string, error) {
	if l == nil {
		return "", nil
	}

	data := tileData{
		Patch:     l.Patch(),
		Name:      orUnavailable(l.Name),
		Locality:  orUnavailable(l.Locality),
		Rocket:    orUnavailable(l.RocketName),
		TimeStr:   timefmt.Format(l.Time, l.Precision, now, loc),
		Window:    timefmt.Countdown(l.Time, now, l.Precision),
		Status:    string(l.Status),
		TextColor: template.CSS(safeColor(opts.TextColor)),
		ShowName:  opts.ShowName,
		ShowSite:  opts.ShowLocality,
	}

	tmpl := compactTmpl
	if opts.Layout == LayoutScalable {
		tmpl = scalableTmpl
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("rendering tile: %w", err)
	}
	return sb.String(), nil
}

// safeColor passes through #rgb/#rrggbb hex colors and falls back to
// white for anything else, keeping user config out of CSS injection.
func safeColor(c string) string {
	if len(c) != 4 && len(c) != 7 {
		return "#ffffff"
	}
	if c[0] != '#' {
		return "#ffffff"
	}
	for _, r := range c[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return "#ffffff"
		}
	}
	return c
}

func orUnavailable(s string) string {
	if s == "" {
		return Unavailable
	}
	return s
}

// Attributes assembles the full published attribute set for the selected
// launch. cleared indicates the inactivity window suppressed the display:
// the tile is empty and the switch is off, but the launch's own fields
// are still published so the dashboard keeps its bindings.
func Attributes(sel *model.Launch, opts Options, cleared bool, now time.Time, loc *time.Location) (model.Attributes, error) {
	a := model.Attributes{
		Switch:      !cleared,
		GeneratedAt: now.UTC(),
	}
	if sel == nil {
		a.Switch = false
		a.TimeStr = "No launch data"
		return a, nil
	}

	a.Time = sel.Time.UnixMilli()
	a.TimeStr = timefmt.Format(sel.Time, sel.Precision, now, loc)
	a.Window = timefmt.Countdown(sel.Time, now, sel.Precision)
	a.Name = orUnavailable(sel.Name)
	a.Location = orUnavailable(sel.Locality)
	a.Rocket = orUnavailable(sel.RocketName)
	a.Description = orUnavailable(sel.Description)
	a.Status = string(sel.Status)
	a.CoreRecovery = string(sel.CoreRecovery)

	if !cleared {
		html, err := Render(sel, opts, now, loc)
		if err != nil {
			return a, err
		}
		a.Tile = html
	}
	return a, nil
}
