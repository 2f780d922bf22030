package notify

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/aymerick/raymond"
)

// SummaryRow is one series in an anomaly summary.
type SummaryRow struct {
	ID        string
	Anomalies int
	LastTime  time.Time
	LastValue float64
}

const summaryTemplate = `<html>
  <body>
    <h2>Anomaly Detection Summary</h2>
    <p>{{at}}</p>
    <table border="0" style="text-align: center;">
      <thead>
        <tr><th>unique_id</th><th>anomaly</th><th>last_time</th><th>last_value</th></tr>
      </thead>
      <tbody>
        {{#each rows}}
        <tr><td>{{id}}</td><td>{{anomalies}}</td><td>{{lastTime}}</td><td>{{lastValue}}</td></tr>
        {{/each}}
      </tbody>
    </table>
  </body>
</html>
`

var (
	parseSummaryOnce sync.Once
	summaryTmpl      *raymond.Template
	summaryErr       error
)

// SummaryTimeLayout formats times in summaries and subjects.
const SummaryTimeLayout = "2006-01-02 15:04"

// SummarySubject is the subject line of a summary sent at the given time.
func SummarySubject(at time.Time) string {
	return "Anomaly Detection Summary | " + at.UTC().Format(SummaryTimeLayout)
}

// RenderSummary renders rows as an HTML table. Values are escaped.
func RenderSummary(rows []SummaryRow, at time.Time) (string, error) {
	parseSummaryOnce.Do(func() {
		summaryTmpl, summaryErr = raymond.Parse(summaryTemplate)
	})
	if summaryErr != nil {
		return "", fmt.Errorf("parse summary template: %w", summaryErr)
	}

	ctxRows := make([]map[string]string, 0, len(rows))
	for _, r := range rows {
		ctxRows = append(ctxRows, map[string]string{
			"id":        r.ID,
			"anomalies": strconv.Itoa(r.Anomalies),
			"lastTime":  r.LastTime.UTC().Format(SummaryTimeLayout),
			"lastValue": strconv.FormatFloat(r.LastValue, 'f', -1, 64),
		})
	}

	out, err := summaryTmpl.Exec(map[string]interface{}{
		"at":   at.UTC().Format(SummaryTimeLayout),
		"rows": ctxRows,
	})
	if err != nil {
		return "", fmt.Errorf("render summary: %w", err)
	}
	return out, nil
}

// SummaryText is the plain text alternative of RenderSummary.
func SummaryText(rows []SummaryRow, at time.Time) string {
	text := "Anomaly Detection Summary | " + at.UTC().Format(SummaryTimeLayout) + "\n\n"
	for _, r := range rows {
		text += fmt.Sprintf("%s: %d anomalies, last at %s (value %s)\n",
			r.ID, r.Anomalies, r.LastTime.UTC().Format(SummaryTimeLayout),
			strconv.FormatFloat(r.LastValue, 'f', -1, 64))
	}
	return text
}
