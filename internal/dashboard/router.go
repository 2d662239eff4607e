package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/fundamentals/internal/peers"
	"github.com/sells-group/fundamentals/internal/render"
	"github.com/sells-group/fundamentals/internal/statement"
	"github.com/sells-group/fundamentals/internal/trend"
)

// NewRouter mounts the JSON API and the HTML pages for svc.
func NewRouter(svc *Service, origins []string) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	h := &handlers{svc: svc}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/companies", func(r chi.Router) {
		r.Get("/", h.companies)
		r.Route("/{code}", func(r chi.Router) {
			r.Get("/statement", h.statement)
			r.Get("/flow", h.flow)
			r.Get("/flow/figure", h.flowFigure)
			r.Get("/peers", h.peers)
			r.Get("/peers.xlsx", h.peersXLSX)
			r.Get("/quarterly", h.quarterly)
			r.Get("/quarterly/parameters", h.parameters)
		})
	})

	r.Get("/", h.index)
	r.Get("/companies/{code}", h.page)

	return r
}

type handlers struct {
	svc *Service
}

func (h *handlers) companies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"companies": h.svc.Companies()})
}

func (h *handlers) statement(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Statement(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *handlers) flow(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.Flow(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *handlers) flowFigure(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.Flow(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, render.Sankey(g))
}

func (h *handlers) peers(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Peers(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *handlers) peersXLSX(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Peers(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, err)
		return
	}
	if t.Warning != "" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": t.Warning})
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+t.Code+`-peers.xlsx"`)
	if err := peers.WriteXLSX(w, t); err != nil {
		zap.L().Error("dashboard: write peers workbook", zap.String("code", t.Code), zap.Error(err))
	}
}

func (h *handlers) parameters(w http.ResponseWriter, r *http.Request) {
	params, err := h.svc.Parameters(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"parameters": params,
		"default":    trend.DefaultSelection(params),
	})
}

func (h *handlers) quarterly(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Quarterly(r.Context(), chi.URLParam(r, "code"), selection(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"chart": c,
		"spec":  render.TrendSpec(c),
	})
}

func selection(r *http.Request) trend.Selection {
	q := r.URL.Query()
	return trend.Selection{Left: q.Get("left"), Right: q.Get("right")}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("dashboard: encode response", zap.Error(err))
	}
}

// errorBody is the JSON error envelope. Anchor is set for malformed
// statement tables.
type errorBody struct {
	Error  string `json:"error"`
	Anchor string `json:"anchor,omitempty"`
}

// classify maps an operation error to a status code and response body.
func classify(err error) (int, errorBody) {
	var (
		missing   *statement.MissingAnchorError
		duplicate *statement.DuplicateAnchorError
		syntax    *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &missing):
		return http.StatusUnprocessableEntity, errorBody{Error: missing.Error(), Anchor: string(missing.Anchor)}
	case errors.As(err, &duplicate):
		return http.StatusUnprocessableEntity, errorBody{Error: duplicate.Error(), Anchor: string(duplicate.Anchor)}
	case errors.As(err, &syntax), errors.As(err, &typeErr):
		return http.StatusUnprocessableEntity, errorBody{Error: "statement: malformed payload"}
	case errors.Is(err, statement.ErrNotFound), errors.Is(err, ErrUnknownCompany):
		return http.StatusNotFound, errorBody{Error: "unknown company"}
	case errors.Is(err, statement.ErrInvalidCode):
		return http.StatusBadRequest, errorBody{Error: "invalid company code"}
	default:
		return http.StatusInternalServerError, errorBody{Error: "internal error"}
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		zap.L().Error("dashboard: request failed", zap.Error(err))
	}
	writeJSON(w, status, body)
}
