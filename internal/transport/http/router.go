package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cwrk-planet/epanel/internal/qr"
	"github.com/cwrk-planet/epanel/internal/shell"
	httpmw "github.com/cwrk-planet/epanel/internal/transport/http/middleware"
	"github.com/cwrk-planet/epanel/internal/transport/ws"
	"github.com/cwrk-planet/epanel/pkg/httputil"

	"github.com/go-chi/chi/v5"
	middlewareChi "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Deps struct {
	Shell   *shell.Shell
	Encoder qr.Encoder
	Origin  string

	Foreground string
	Background string

	Hub *ws.Hub
	WS  *ws.Server

	// CORS для /api
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func NewRouter(d Deps) (http.Handler, error) {
	tpl, err := parsePages()
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 60 * time.Second
	}
	if d.Foreground == "" {
		d.Foreground = qr.DefaultForeground
	}
	if d.Background == "" {
		d.Background = qr.DefaultBackground
	}

	ph := &PageHandlers{
		Shell:      d.Shell,
		Encoder:    d.Encoder,
		Origin:     d.Origin,
		Foreground: d.Foreground,
		Background: d.Background,
		pages:      tpl,
	}
	ah := &APIHandlers{Store: d.Shell.Store(), Origin: d.Origin}

	r := chi.NewRouter()

	r.Use(middlewareChi.RequestID)
	r.Use(middlewareChi.RealIP)
	r.Use(middlewareChi.Recoverer)
	r.Use(httputil.MiddlewareRequestID)
	r.Use(httpmw.WithRequestLoggerCtx)
	r.Use(httpmw.RequestLogger)

	r.NotFound(ph.NotFound)

	// health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httputil.OK(w, map[string]any{"status": "ok", "sessions": d.Hub.Count()})
	})

	// websocket живёт дольше любого таймаута запроса
	r.Route("/ws", func(r chi.Router) {
		r.Get("/panels", d.WS.HandleList)
		r.Get("/panels/{id}", d.WS.HandleDetail)
	})

	r.Group(func(r chi.Router) {
		r.Use(middlewareChi.Timeout(d.RequestTimeout))
		r.Use(middlewareChi.Compress(5, "text/html", "application/json"))

		r.Get("/", ph.List)
		r.Route("/panel/{id}", func(r chi.Router) {
			r.Get("/", ph.Detail)
			r.Post("/select", ph.Select)
			r.Get("/qr.png", ph.QR)
		})

		r.Route("/api", func(r chi.Router) {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   d.AllowedOrigins,
				AllowedMethods:   []string{"GET", "OPTIONS"},
				AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
				ExposedHeaders:   []string{"X-Request-ID"},
				AllowCredentials: false,
				MaxAge:           300,
			}))

			r.Get("/panels", ah.ListPanels)
			r.Route("/panels/{id}", func(r chi.Router) {
				r.Get("/", ah.GetPanel)
				r.Get("/participants", ah.Participants)
			})
		})
	})

	return r, nil
}
