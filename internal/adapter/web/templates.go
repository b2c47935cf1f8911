package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"automarket/internal/listing/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = map[string]*template.Template{}

var templateFuncs = template.FuncMap{
	"price": func(p float64) string {
		return fmt.Sprintf("%.0f €", p)
	},
}

func init() {
	pages := []string{
		"home", "detail", "login", "register",
		"new_listing", "my_listings", "unsubscribe", "not_found",
	}
	for _, page := range pages {
		pageTemplates[page] = template.Must(
			template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS,
				"templates/layout.html",
				"templates/"+page+".html",
			))
	}
}

// pageData is the envelope every template receives: the current session for
// the nav, an error banner, and the page payload.
type pageData struct {
	Session *domain.Session
	Error   string
	Data    interface{}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	if data.Session == nil {
		data.Session = sessionFrom(r.Context())
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplates[page].ExecuteTemplate(w, "layout.html", data); err != nil {
		s.logger.Error("template render failed", zap.String("page", page), zap.Error(err))
	}
}
