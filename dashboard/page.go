package dashboard

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/aymerick/raymond"

	"github.com/aalemi-dev/anomaly-lab/monitor"
)

// Title of the page.
const Title = "System Monitoring Dashboard"

const pageTemplate = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <meta http-equiv="refresh" content="{{refresh}}">
    <title>{{title}}</title>
  </head>
  <body>
    <h1>{{title}}</h1>
    {{#if status}}
    <table>
      <thead>
        <tr><th>metric</th><th>time</th><th>value</th><th>score</th><th>state</th></tr>
      </thead>
      <tbody>
        {{#each status}}
        <tr><td>{{metric}}</td><td>{{at}}</td><td>{{value}}</td><td>{{score}}</td><td>{{state}}</td></tr>
        {{/each}}
      </tbody>
    </table>
    {{/if}}
    <div>{{{chart}}}</div>
  </body>
</html>
`

const errorTemplate = `<h1>Error loading metrics: {{err}}</h1>
`

var (
	parseOnce sync.Once
	pageTmpl  *raymond.Template
	errorTmpl *raymond.Template
	parseErr  error
)

func templates() (*raymond.Template, *raymond.Template, error) {
	parseOnce.Do(func() {
		if pageTmpl, parseErr = raymond.Parse(pageTemplate); parseErr != nil {
			return
		}
		errorTmpl, parseErr = raymond.Parse(errorTemplate)
	})
	return pageTmpl, errorTmpl, parseErr
}

// renderPage renders the dashboard around an inline SVG chart.
func renderPage(chart []byte, status []monitor.Status, refresh time.Duration) (string, error) {
	page, _, err := templates()
	if err != nil {
		return "", fmt.Errorf("parse page template: %w", err)
	}

	rows := make([]map[string]string, 0, len(status))
	for _, s := range status {
		state := "OK"
		if s.Anomaly {
			state = "Anomaly"
		}
		at := ""
		if !s.At.IsZero() {
			at = s.At.UTC().Format(time.RFC3339)
		}
		rows = append(rows, map[string]string{
			"metric": s.Metric,
			"at":     at,
			"value":  strconv.FormatFloat(s.Value, 'f', 2, 64),
			"score":  strconv.FormatFloat(s.Score, 'f', 2, 64),
			"state":  state,
		})
	}

	return page.Exec(map[string]interface{}{
		"title":   Title,
		"refresh": int(refresh / time.Second),
		"status":  rows,
		"chart":   string(chart),
	})
}

// renderError renders the page shown when the data cannot be loaded.
func renderError(loadErr error) (string, error) {
	_, page, err := templates()
	if err != nil {
		return "", fmt.Errorf("parse error template: %w", err)
	}
	return page.Exec(map[string]interface{}{"err": loadErr.Error()})
}
