package notify

import (
	"fmt"
	"html/template"
	"strings"

	"javadocbot/internal/models"
)

// RenderSubject substitutes the run date into the configured subject
// template.
func RenderSubject(tmpl string, report *models.RunReport) string {
	if tmpl == "" {
		tmpl = "Javadoc Generation Report - {date}"
	}
	return strings.ReplaceAll(tmpl, "{date}", report.Date)
}

// RenderText renders the plain-text body of the report.
func RenderText(report *models.RunReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Javadoc generation run of %s\n", report.Date)
	fmt.Fprintf(&b, "Mode: %s\n", report.Mode)
	fmt.Fprintf(&b, "Head commit: %s\n", report.HeadCommit)
	if report.DryRun {
		b.WriteString("Dry run: no branch was pushed.\n")
	}
	b.WriteString("\n")

	if report.TotalFiles() == 0 {
		fmt.Fprintf(&b, "No files needed documentation (%d files resolved).\n", report.FilesResolved)
	} else {
		fmt.Fprintf(&b, "Documented %d files: %d classes, %d methods (%d elements total).\n",
			report.TotalFiles(), report.TotalClasses(), report.TotalMethods(), report.TotalElements())
		if report.Branch != "" {
			fmt.Fprintf(&b, "Branch: %s", report.Branch)
			if report.Pushed {
				b.WriteString(" (pushed to origin)")
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		for _, f := range report.Files {
			fmt.Fprintf(&b, "  %s: %d classes, %d methods\n", f.Path, f.Classes, f.Methods)
			for _, el := range f.Elements {
				fmt.Fprintf(&b, "    - %s\n", el)
			}
		}
	}

	if len(report.Failures) > 0 {
		fmt.Fprintf(&b, "\n%d files failed:\n", len(report.Failures))
		for _, f := range report.Failures {
			fmt.Fprintf(&b, "  %s: %s\n", f.Path, f.Reason)
		}
	}
	return b.String()
}

var htmlReportTemplate = template.Must(template.New("report").Parse(`<html>
<body style="font-family: sans-serif">
<h2>Javadoc generation run of {{.Date}}</h2>
<p>Mode: <b>{{.Mode}}</b> &mdash; head commit <code>{{.HeadCommit}}</code></p>
{{if .DryRun}}<p><i>Dry run: no branch was pushed.</i></p>{{end}}
{{if eq .TotalFiles 0}}
<p>No files needed documentation ({{.FilesResolved}} files resolved).</p>
{{else}}
<p>Documented <b>{{.TotalFiles}}</b> files: {{.TotalClasses}} classes, {{.TotalMethods}} methods.</p>
{{if .Branch}}<p>Branch: <code>{{.Branch}}</code>{{if .Pushed}} (pushed to origin){{end}}</p>{{end}}
<table border="1" cellpadding="4" cellspacing="0">
<tr><th>File</th><th>Classes</th><th>Methods</th></tr>
{{range .Files}}<tr><td><code>{{.Path}}</code></td><td>{{.Classes}}</td><td>{{.Methods}}</td></tr>
{{end}}</table>
{{end}}
{{if .Failures}}
<h3>Failures</h3>
<ul>
{{range .Failures}}<li><code>{{.Path}}</code>: {{.Reason}}</li>
{{end}}</ul>
{{end}}
</body>
</html>`))

// RenderHTML renders the HTML body used by the email channel.
func RenderHTML(report *models.RunReport) (string, error) {
	var b strings.Builder
	if err := htmlReportTemplate.Execute(&b, report); err != nil {
		return "", fmt.Errorf("failed to render html report: %w", err)
	}
	return b.String(), nil
}
