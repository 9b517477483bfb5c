package browse

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/dia3-labs/brief/internal/engine"
	"github.com/dia3-labs/brief/pkg/core"
	"github.com/dia3-labs/brief/pkg/schema"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

func (s *Server) routes(r chi.Router) {
	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/reports", s.handleListReports)
		r.Get("/reports/*", s.handleReportDetail)
		r.Get("/diagnostics", s.handleDiagnostics)
		r.Get("/profiles", s.handleProfiles)
	})

	r.Get("/", s.handleIndex)
	r.Get("/reports/*", s.handleReportHTML)
}

// reportSummary is the list-endpoint shape of one report.
type reportSummary struct {
	Path           string `json:"path"`
	Title          string `json:"title"`
	Profile        string `json:"profile,omitempty"`
	Classification string `json:"classification,omitempty"`
	Scenario       string `json:"scenario,omitempty"`
	Date           string `json:"date,omitempty"`
	Sections       int    `json:"sections"`
}

// reportDetail extends the summary with section and metric content.
type reportDetail struct {
	reportSummary
	SectionList []sectionDetail  `json:"section_list"`
	Diagnostics []diagnosticInfo `json:"diagnostics"`
}

type sectionDetail struct {
	Title   string       `json:"title"`
	Level   int          `json:"level"`
	Line    int          `json:"line"`
	Metrics []metricInfo `json:"metrics,omitempty"`
}

type metricInfo struct {
	Key   string  `json:"key,omitempty"`
	Raw   string  `json:"raw"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

type diagnosticInfo struct {
	RuleID   string `json:"rule_id"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListReports(w http.ResponseWriter, _ *http.Request) {
	corpus := s.engine.Corpus()
	if corpus == nil {
		writeJSON(w, http.StatusOK, []reportSummary{})
		return
	}

	summaries := make([]reportSummary, 0, len(corpus.Reports))
	for _, doc := range corpus.Reports {
		summaries = append(summaries, summarize(doc))
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleReportDetail(w http.ResponseWriter, r *http.Request) {
	doc := s.lookupReport(chi.URLParam(r, "*"))
	if doc == nil {
		http.NotFound(w, r)
		return
	}

	detail := reportDetail{
		reportSummary: summarize(doc),
		SectionList:   []sectionDetail{},
		Diagnostics:   []diagnosticInfo{},
	}
	for _, sec := range doc.Sections {
		if sec.IsPreamble() {
			continue
		}
		sd := sectionDetail{Title: sec.Title, Level: sec.Level, Line: sec.Heading.Line}
		for _, m := range sec.Metrics {
			sd.Metrics = append(sd.Metrics, metricInfo{
				Key:   m.Key,
				Raw:   m.RawValue,
				Value: m.Value,
				Unit:  string(m.Unit),
			})
		}
		detail.SectionList = append(detail.SectionList, sd)
	}
	if result := s.latestResult(); result != nil {
		for _, f := range result.Findings {
			if f.Path != doc.Path {
				continue
			}
			detail.Diagnostics = append(detail.Diagnostics, toDiagnosticInfo(f))
		}
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, _ *http.Request) {
	result := s.latestResult()
	if result == nil {
		writeJSON(w, http.StatusOK, map[string]any{"findings": []diagnosticInfo{}})
		return
	}

	findings := make([]map[string]any, 0, len(result.Findings))
	for _, f := range result.Findings {
		findings = append(findings, map[string]any{
			"path":     f.Path,
			"rule_id":  f.RuleID,
			"severity": f.Severity.String(),
			"message":  f.Message,
			"line":     f.Pos.Line,
			"column":   f.Pos.Col,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"findings":    findings,
		"duration_ms": result.Duration.Milliseconds(),
	})
}

func (s *Server) handleProfiles(w http.ResponseWriter, _ *http.Request) {
	type profileInfo struct {
		Name     string   `json:"name"`
		Sections []string `json:"sections"`
		Required []string `json:"required"`
	}

	var profiles []profileInfo
	for _, name := range schema.Names() {
		p, ok := schema.Get(name)
		if !ok {
			continue
		}
		info := profileInfo{Name: p.Name, Required: p.RequiredSections()}
		for _, sec := range p.Sections {
			info.Sections = append(info.Sections, sec.Title)
		}
		profiles = append(profiles, info)
	}
	writeJSON(w, http.StatusOK, profiles)
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>brief</title><style>
body { font-family: sans-serif; max-width: 60rem; margin: 2rem auto; }
table { border-collapse: collapse; width: 100%; }
td, th { text-align: left; padding: 0.3rem 0.8rem; border-bottom: 1px solid #ddd; }
</style></head>
<body>
<h1>Briefing Corpus</h1>
<table>
<tr><th>Report</th><th>Profile</th><th>Date</th><th>Issues</th></tr>
{{range .}}<tr>
<td><a href="/reports/{{.Path}}">{{.Title}}</a></td>
<td>{{.Profile}}</td>
<td>{{.Date}}</td>
<td>{{.Issues}}</td>
</tr>{{end}}
</table>
</body>
</html>`))

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title><style>
body { font-family: sans-serif; max-width: 50rem; margin: 2rem auto; }
table { border-collapse: collapse; }
td, th { text-align: left; padding: 0.3rem 0.8rem; border: 1px solid #ddd; }
</style></head>
<body>
<p><a href="/">&larr; corpus</a></p>
{{.Body}}
</body>
</html>`))

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	type row struct {
		Path, Title, Profile, Date string
		Issues                     int
	}

	var rows []row
	if corpus := s.engine.Corpus(); corpus != nil {
		result := s.latestResult()
		for _, doc := range corpus.Reports {
			issues := 0
			if result != nil {
				for _, f := range result.Findings {
					if f.Path == doc.Path {
						issues++
					}
				}
			}
			rows = append(rows, row{
				Path:    doc.Path,
				Title:   doc.Title,
				Profile: doc.Profile,
				Date:    doc.Front.Date,
				Issues:  issues,
			})
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, rows); err != nil {
		s.logger.Error("render index failed", "error", err)
	}
}

func (s *Server) handleReportHTML(w http.ResponseWriter, r *http.Request) {
	doc := s.lookupReport(chi.URLParam(r, "*"))
	if doc == nil {
		http.NotFound(w, r)
		return
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(doc.Source), &buf); err != nil {
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := reportTemplate.Execute(w, struct {
		Title string
		Body  template.HTML
	}{Title: doc.Title, Body: template.HTML(buf.String())})
	if err != nil {
		s.logger.Error("render report failed", "error", err)
	}
}

func (s *Server) lookupReport(path string) *core.Report {
	corpus := s.engine.Corpus()
	if corpus == nil || path == "" {
		return nil
	}
	return corpus.Report(path)
}

func summarize(doc *core.Report) reportSummary {
	sections := 0
	for _, sec := range doc.Sections {
		if !sec.IsPreamble() {
			sections++
		}
	}
	return reportSummary{
		Path:           doc.Path,
		Title:          doc.Title,
		Profile:        doc.Profile,
		Classification: doc.Front.Classification,
		Scenario:       doc.Front.Scenario,
		Date:           doc.Front.Date,
		Sections:       sections,
	}
}

func toDiagnosticInfo(f engine.Finding) diagnosticInfo {
	return diagnosticInfo{
		RuleID:   f.RuleID,
		Severity: f.Severity.String(),
		Message:  f.Message,
		Line:     f.Pos.Line,
		Column:   f.Pos.Col,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
