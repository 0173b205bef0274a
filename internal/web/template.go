package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/thermal-cycler/internal/status"
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
	"hms": func(d time.Duration) string {
		s := int64(d / time.Second)
		if s < 0 {
			s = 0
		}
		return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="2">
<title>Thermal Cycler</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.running { color: green; font-weight: bold; }
.idle { color: #888; }
.fault { color: red; font-weight: bold; }
.connected { color: green; }
.disconnected { color: red; }
button { font-family: monospace; padding: 6px 16px; margin-right: 8px; }
</style>
</head>
<body>
<h1>Thermal Cycler</h1>

<h2>Run</h2>
<table>
<tr><th>Phase</th><td class="{{if eq .Phase.String "FAULT"}}fault{{else if .Running}}running{{else}}idle{{end}}">{{.Phase}}</td></tr>
<tr><th>Fault</th><td class="{{if eq .Fault.String "NONE"}}idle{{else}}fault{{end}}">{{.Fault}}</td></tr>
<tr><th>Cycle</th><td>{{.Cycle}} / {{.Config.NumCycles}}</td></tr>
<tr><th>Temperature</th><td>{{printf "%.2f" .TempC}} &deg;C</td></tr>
<tr><th>Run elapsed</th><td>{{hms .RunElapsed}}</td></tr>
<tr><th>Phase elapsed</th><td>{{hms .PhaseElapsed}}</td></tr>
{{if .RunID}}<tr><th>Run ID</th><td>{{.RunID}}</td></tr>{{end}}
</table>

<form method="post" action="/run/start" style="display:inline"><button {{if .Running}}disabled{{end}}>Start run</button></form>
<form method="post" action="/run/stop" style="display:inline"><button {{if not .Running}}disabled{{end}}>Stop run</button></form>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Profile</th><td>{{if .Config.ProfilePath}}{{.Config.ProfilePath}}{{else}}defaults{{end}}</td></tr>
<tr><th>Button poll</th><td>{{.Config.ButtonPollMs}}ms</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
