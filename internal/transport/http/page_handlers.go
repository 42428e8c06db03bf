package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cwrk-planet/epanel/internal/detail"
	"github.com/cwrk-planet/epanel/internal/domain"
	"github.com/cwrk-planet/epanel/internal/qr"
	"github.com/cwrk-planet/epanel/internal/shell"
	httpmw "github.com/cwrk-planet/epanel/internal/transport/http/middleware"
	"github.com/cwrk-planet/epanel/pkg/httputil"

	"github.com/go-chi/chi/v5"
)

const MsgPanelNotFound = "Panel introuvable"

type PageHandlers struct {
	Shell   *shell.Shell
	Encoder qr.Encoder
	Origin  string

	Foreground string
	Background string

	pages pages
}

type listPage struct {
	Panels []domain.Panel
	Start  int
}

type detailPage struct {
	Panel        domain.Panel
	Participants []domain.Person
	URL          string
	InlineQR     string
	Handoff      string
}

type notFoundPage struct {
	Message string
}

// GET /?from=
func (h *PageHandlers) List(w http.ResponseWriter, r *http.Request) {
	store := h.Shell.Store()
	data := listPage{Panels: store.All()}

	// возврат со страницы панели: карусель начинается с неё
	if id, err := strconv.Atoi(r.URL.Query().Get("from")); err == nil {
		if i, ok := store.IndexOf(id); ok {
			data.Start = i
		}
	}

	h.pages.render(w, r, http.StatusOK, pageList, data)
}

// GET /panel/{id}?h=
func (h *PageHandlers) Detail(w http.ResponseWriter, r *http.Request) {
	route, ok := h.route(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	p := route.Panel
	h.pages.render(w, r, http.StatusOK, pageDetail, detailPage{
		Panel:        p,
		Participants: p.Participants(),
		URL:          detail.DetailURL(h.Origin, p.ID),
		InlineQR:     qrPath(route, "inline"),
		Handoff:      route.Handoff,
	})
}

// POST /panel/{id}/select
func (h *PageHandlers) Select(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.NotFound(w, r)
		return
	}
	p, err := h.Shell.Store().ByID(id)
	if err != nil {
		h.NotFound(w, r)
		return
	}

	route, err := h.Shell.Select(p)
	if err != nil {
		httpmw.L(r.Context()).Error("select panel failed", slog.Int("panel_id", id), slog.Any("err", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	target := route.Path
	if route.Handoff != "" {
		target += "?" + url.Values{"h": {route.Handoff}}.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// GET /panel/{id}/qr.png?size=inline|zoom
func (h *PageHandlers) QR(w http.ResponseWriter, r *http.Request) {
	route, ok := h.route(r)
	if !ok {
		httputil.Error(r.Context(), w, http.StatusNotFound, MsgPanelNotFound, nil)
		return
	}

	var opts qr.Options
	switch size := r.URL.Query().Get("size"); size {
	case "", "inline":
		opts = qr.Inline(h.Foreground, h.Background)
	case "zoom":
		opts = qr.Zoom(h.Foreground, h.Background)
	default:
		httputil.Error(r.Context(), w, http.StatusBadRequest, "size must be inline or zoom", map[string]any{"size": size})
		return
	}

	png, err := h.Encoder.Encode(r.Context(), detail.DetailURL(h.Origin, route.Panel.ID), opts)
	if err != nil {
		httpmw.L(r.Context()).Error("qr encode failed", slog.Int("panel_id", route.Panel.ID), slog.Any("err", err))
		httputil.Error(r.Context(), w, http.StatusInternalServerError, "qr encode failed", nil)
		return
	}
	httputil.PNG(w, png)
}

func (h *PageHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.pages.render(w, r, http.StatusNotFound, pageNotFound, notFoundPage{Message: MsgPanelNotFound})
}

func (h *PageHandlers) route(r *http.Request) (shell.Route, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return shell.Route{}, false
	}
	route := h.Shell.Detail(id, r.URL.Query().Get("h"))
	return route, route.Kind == shell.KindDetail
}

func qrPath(route shell.Route, size string) string {
	return route.Path + "/qr.png?" + url.Values{"size": {size}}.Encode()
}
