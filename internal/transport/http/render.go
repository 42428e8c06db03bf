package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	httpmw "github.com/cwrk-planet/epanel/internal/transport/http/middleware"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	pageList     = "list.html"
	pageDetail   = "detail.html"
	pageNotFound = "not_found.html"
)

type pages map[string]*template.Template

// каждая страница определяет свои "title"/"content", поэтому набор шаблонов на страницу свой
func parsePages() (pages, error) {
	out := make(pages, 3)
	for _, name := range []string{pageList, pageDetail, pageNotFound} {
		t, err := template.ParseFS(templatesFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

func (p pages) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	t, ok := p[name]
	if !ok {
		httpmw.L(r.Context()).Error("unknown page", slog.String("page", name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		httpmw.L(r.Context()).Error("render page failed", slog.String("page", name), slog.Any("err", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
