package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"
)

//go:embed templates/*.html
var templatesFS embed.FS

var htmlTemplates = template.Must(
	template.New("").Funcs(template.FuncMap{
		"date": func(layout string, t time.Time) string { return t.Format(layout) },
	}).ParseFS(templatesFS, "templates/*.html"),
)

// RenderHTML 将月度报表渲染为完整 HTML 文档
func RenderHTML(w io.Writer, r MonthlyReport) error {
	data := struct {
		ReportID string
		MonthlyReport
		Total int
	}{
		ReportID:      ReportID,
		MonthlyReport: r,
		Total:         r.TotalAttendance(),
	}
	if err := htmlTemplates.ExecuteTemplate(w, ReportID+".html", data); err != nil {
		return fmt.Errorf("渲染 HTML 报表失败: %w", err)
	}
	return nil
}
