package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/codeGROOVE-dev/tzmeet/pkg/geo"
	"github.com/codeGROOVE-dev/tzmeet/pkg/landmarks"
	"github.com/codeGROOVE-dev/tzmeet/pkg/tzconvert"
	"github.com/codeGROOVE-dev/tzmeet/pkg/weather"
)

// Report gathers a conversion and whatever extras were available for its
// target zone. Any of the extras may be nil.
type Report struct {
	Conversion  *tzconvert.Conversion
	Weather     *weather.Data
	Travel      *geo.TravelInfo
	Landmark    *landmarks.Info
	Coordinates *geo.Coordinates
	SourceDST   bool
	TargetDST   bool
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"hours": geo.FormatHours,
	"join":  strings.Join,
}).Parse(`<html><body>
<h1>{{.Conversion.SourceZone}} → {{.Conversion.TargetZone}}</h1>
<ul>
<li><strong>{{.Conversion.SourceZone}}</strong>: {{.Conversion.Source}}{{if .SourceDST}} (DST){{end}}</li>
<li><strong>{{.Conversion.TargetZone}}</strong>: {{.Conversion.Target}} UTC{{.Conversion.TargetOffset}}{{if .TargetDST}} (DST){{end}}</li>
{{- with .Conversion.Delta.Label}}
<li>{{.}}</li>
{{- end}}
{{- with .Conversion.DayShift.String}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- with .Weather}}
<h2>Weather in {{.Location}}</h2>
<p>{{.Description}}, {{.Temperature}}°C, humidity {{.Humidity}}%, wind {{.WindSpeed}} km/h</p>
{{- end}}
{{- with .Travel}}
<h2>Travel</h2>
<p>{{.DistanceKm}} km</p>
<ul>
{{- range .Legs}}
<li>{{.Mode}}: {{hours .Hours}}</li>
{{- end}}
</ul>
{{- end}}
{{- with .Coordinates}}
<p>Map: {{printf "%.4f" .Lat}}, {{printf "%.4f" .Lon}}</p>
{{- end}}
{{- with .Landmark}}
<h2>About the city</h2>
<p>{{.CulturalSignificance}}</p>
{{- if .Population}}
<p>Population: {{.Population}}</p>
{{- end}}
{{- if .FamousPlaces}}
<h3>Famous places</h3>
<ul>
{{- range .FamousPlaces}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- end}}
{{- if .FoodHabits}}
<h3>Food</h3>
<ul>
{{- range .FoodHabits}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- end}}
{{- if .BusinessEtiquette}}
<h3>Business etiquette</h3>
<p>{{join .BusinessEtiquette ", "}}</p>
{{- end}}
{{- end}}
</body></html>
`))

// ReportHTML renders r as an HTML fragment.
func ReportHTML(r Report) (string, error) {
	if r.Conversion == nil {
		return "", fmt.Errorf("report has no conversion")
	}
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, r); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return buf.String(), nil
}

// ReportMarkdown renders r as Markdown.
func ReportMarkdown(r Report) (string, error) {
	html, err := ReportHTML(r)
	if err != nil {
		return "", err
	}
	out, err := md.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("converting report to markdown: %w", err)
	}
	return strings.TrimSpace(out) + "\n", nil
}
