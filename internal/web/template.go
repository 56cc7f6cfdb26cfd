package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/smkeys/cff3000/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"stateOrUnknown": func(s string) string {
		if s == "" {
			return "unknown"
		}
		return s
	},
	"stateClass": func(s string) string {
		switch s {
		case "locked":
			return "locked"
		case "unlocked":
			return "unlocked"
		case "manual", "out-of-range":
			return "warn"
		}
		return "unknown"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="60">
<title>CFF3000 Monitor</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.locked { color: green; font-weight: bold; }
.unlocked { color: #c00; font-weight: bold; }
.warn { color: orange; font-weight: bold; }
.unknown { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
.error { color: #c00; }
</style>
</head>
<body>
<h1>CFF3000 Monitor</h1>

<h2>Lock</h2>
<table>
<tr><th>State</th><td class="{{stateClass .State}}">{{stateOrUnknown .State}}</td></tr>
{{if .LastError}}<tr><th>Last error</th><td class="error">{{.LastError}}</td></tr>{{end}}
{{if not .LastQuery.IsZero}}<tr><th>Last query</th><td>{{.LastQuery.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>{{end}}
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>Query Counts</h2>
<table>
<tr><th>Locked</th><td>{{.Counts.Locked}}</td></tr>
<tr><th>Unlocked</th><td>{{.Counts.Unlocked}}</td></tr>
<tr><th>Manual</th><td>{{.Counts.Manual}}</td></tr>
<tr><th>Out of range</th><td>{{.Counts.OutOfRange}}</td></tr>
<tr><th>Errors</th><td>{{.Counts.Errors}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Chip</th><td>{{.Config.Chip}}</td></tr>
<tr><th>Lines</th><td>{{.Config.Lines}}</td></tr>
<tr><th>Interval</th><td>{{.Config.IntervalMs}}ms</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but the template needs a plain field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
