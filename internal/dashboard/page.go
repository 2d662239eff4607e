package dashboard

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/fundamentals/internal/model"
	"github.com/sells-group/fundamentals/internal/render"
	"github.com/sells-group/fundamentals/internal/units"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/company.html"))

// pageView is the template model for the company page.
type pageView struct {
	*Page
	Meta       model.StatementMeta
	Commentary render.Commentary
	Figure     render.Figure
	Spec       map[string]any
	Header     []string
	RawRows    []rawRow
}

type rawRow struct {
	Anchor  string
	Name    string
	Current string
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	companies := h.svc.Companies()
	if len(companies) == 0 {
		writeError(w, ErrUnknownCompany)
		return
	}
	http.Redirect(w, r, "/companies/"+url.PathEscape(companies[0]), http.StatusFound)
}

func (h *handlers) page(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Page(r.Context(), chi.URLParam(r, "code"), selection(r))
	if err != nil {
		status, body := classify(err)
		if status >= http.StatusInternalServerError {
			zap.L().Error("dashboard: page failed", zap.Error(err))
		}
		http.Error(w, body.Error, status)
		return
	}

	commentary, err := render.RenderCommentary(p.Statement.Summary)
	if err != nil {
		zap.L().Error("dashboard: render commentary", zap.String("render_id", p.RenderID), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	view := pageView{
		Page:       p,
		Meta:       p.Statement.Meta,
		Commentary: commentary,
		Figure:     render.Sankey(p.Graph),
		Spec:       render.TrendSpec(p.Chart),
		Header:     p.Peers.Header(),
	}
	for _, row := range p.Statement.Table {
		view.RawRows = append(view.RawRows, rawRow{
			Anchor:  string(row.Anchor),
			Name:    row.DisplayName,
			Current: units.Grouped(row.Current, 0),
		})
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, view); err != nil {
		zap.L().Error("dashboard: execute page template", zap.String("render_id", p.RenderID), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
