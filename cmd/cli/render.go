package main

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"evodash/internal/dashboard"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Hominin Evolution Dashboard</title>
</head>
<body>
  <h1>Hominin Evolution Dashboard</h1>
  <p>Filter: {{.Snapshot.State}}</p>
  <ul>
    <li>Species: {{.Snapshot.Summary.SpeciesCount}}</li>
    <li>Time period: {{.Snapshot.Summary.TimePeriod}}</li>
    <li>Regions: {{.Snapshot.Summary.RegionCount}}</li>
  </ul>
  {{.Snapshot.Summary.Overview}}
  {{range .Panels}}
  <section>
    <h2>{{.Title}}</h2>
    <img src="{{.File}}" width="{{.Width}}" height="{{.Height}}" alt="{{.Title}}">
    {{.Insight}}
  </section>
  {{end}}
</body>
</html>
`))

type renderedPanel struct {
	Title         string
	File          string
	Width, Height int
	Insight       template.HTML
}

// renderDir writes every panel as <name>.svg and an index.html linking them.
func renderDir(ctrl *dashboard.Controller, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	var panels []renderedPanel
	for _, p := range ctrl.Panels() {
		var buf bytes.Buffer
		if err := ctrl.SVG(&buf, p.Name); err != nil {
			return fmt.Errorf("render %s: %w", p.Name, err)
		}
		file := p.Name + ".svg"
		if err := os.WriteFile(filepath.Join(dir, file), buf.Bytes(), 0o644); err != nil {
			return err
		}
		panels = append(panels, renderedPanel{
			Title: p.Title, File: file, Width: p.Width, Height: p.Height,
			Insight: dashboard.Insight(p.Name),
		})
	}

	var page bytes.Buffer
	if err := indexTemplate.Execute(&page, map[string]interface{}{
		"Snapshot": ctrl.Snapshot(),
		"Panels":   panels,
	}); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "index.html"), page.Bytes(), 0o644)
}
