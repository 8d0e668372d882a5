package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"
)

// SummaryFileName is the run summary page written into the output
// directory.
const SummaryFileName = "index.html"

// ContainerSummary is one processed input on the run summary page.
type ContainerSummary struct {
	Name       string
	Providers  int
	TotalRows  int
	Calculated int
	DataRows   int

	// Workbook and CSV hold the written file names, empty when the
	// container produced no rows.
	Workbook string
	CSV      string

	// Failure holds the error text for inputs that could not be
	// processed.
	Failure string
}

// RunSummary aggregates one invocation over all of its inputs.
type RunSummary struct {
	RunID      string
	Started    time.Time
	Finished   time.Time
	Containers []ContainerSummary
}

// TotalRows sums extracted rows across all containers.
func (s RunSummary) TotalRows() int {
	n := 0
	for _, c := range s.Containers {
		n += c.TotalRows
	}
	return n
}

// Failed counts inputs that errored out.
func (s RunSummary) Failed() int {
	n := 0
	for _, c := range s.Containers {
		if c.Failure != "" {
			n++
		}
	}
	return n
}

// Duration is the wall time of the run.
func (s RunSummary) Duration() time.Duration {
	return s.Finished.Sub(s.Started).Truncate(time.Millisecond)
}

var summaryTmpl = template.Must(template.New("summary").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Field map run {{.RunID}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #999; padding: 0.3rem 0.6rem; text-align: left; }
tr.failed td { color: #a00; }
</style>
</head>
<body>
<h1>Field map extraction</h1>
<p id="run">Run {{.RunID}} started {{.Started.Format "2006-01-02 15:04:05"}}, took {{.Duration}}.</p>
<p id="totals">{{len .Containers}} containers, {{.TotalRows}} rows, {{.Failed}} failed.</p>
<table id="containers">
<thead>
<tr><th>Container</th><th>Providers</th><th>Rows</th><th>Calculated</th><th>Data</th><th>Outputs</th></tr>
</thead>
<tbody>
{{range .Containers}}
<tr{{if .Failure}} class="failed"{{end}}>
<td class="name">{{.Name}}</td>
<td class="providers">{{.Providers}}</td>
<td class="rows">{{.TotalRows}}</td>
<td class="calculated">{{.Calculated}}</td>
<td class="data">{{.DataRows}}</td>
<td class="outputs">{{if .Failure}}{{.Failure}}{{else if .Workbook}}<a href="{{.Workbook}}">{{.Workbook}}</a> <a href="{{.CSV}}">{{.CSV}}</a>{{else}}no fields{{end}}</td>
</tr>
{{end}}
</tbody>
</table>
</body>
</html>
`))

// WriteSummary renders the run summary page into dir.
func WriteSummary(dir string, s RunSummary) error {
	path := filepath.Join(dir, SummaryFileName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := summaryTmpl.Execute(f, s); err != nil {
		f.Close()
		return fmt.Errorf("render summary: %w", err)
	}
	return f.Close()
}
