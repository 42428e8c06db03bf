package ws

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cwrk-planet/epanel/internal/carousel"
	"github.com/cwrk-planet/epanel/internal/detail"
	"github.com/cwrk-planet/epanel/internal/domain"
	"github.com/cwrk-planet/epanel/internal/qr"
	"github.com/cwrk-planet/epanel/internal/shell"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const MsgPanelNotFound = "Panel introuvable"

type Deps struct {
	Shell   *shell.Shell
	Encoder qr.Encoder
	Origin  string

	PanelPeriod       time.Duration
	ParticipantPeriod time.Duration
	Foreground        string
	Background        string

	// NewTicker overrides the carousel timer source (tests).
	NewTicker func(time.Duration) carousel.Ticker
}

type Server struct {
	upgrader websocket.Upgrader
	hub      *Hub
	deps     Deps

	pingEvery        time.Duration
	clipboardTimeout time.Duration
}

func NewServer(hub *Hub, d Deps) *Server {
	if d.PanelPeriod <= 0 {
		d.PanelPeriod = 4 * time.Second
	}
	if d.ParticipantPeriod <= 0 {
		d.ParticipantPeriod = detail.DefaultParticipantPeriod
	}
	if d.Foreground == "" {
		d.Foreground = qr.DefaultForeground
	}
	if d.Background == "" {
		d.Background = qr.DefaultBackground
	}
	if d.NewTicker == nil {
		d.NewTicker = carousel.NewTimeTicker
	}
	return &Server{
		hub:  hub,
		deps: d,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		pingEvery:        15 * time.Second,
		clipboardTimeout: 10 * time.Second,
	}
}

// HandleList: GET /ws/panels?start=
// The connection owns one carousel over every panel; it dies with the socket.
func (s *Server) HandleList(w http.ResponseWriter, r *http.Request) {
	store := s.deps.Shell.Store()
	panels := store.All()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}
	c := newWsConn(conn, ViewList)

	eng, err := carousel.New(panels, s.deps.PanelPeriod,
		carousel.WithTicker[domain.Panel](s.deps.NewTicker),
		carousel.WithOnChange(func(i int, p domain.Panel, cause carousel.Cause) {
			_ = c.Send(Message{Type: TypeSlide, Payload: SlidePayload{Index: i, Cause: string(cause), PanelID: p.ID}})
		}),
	)
	if err != nil {
		slog.Error("ws list carousel", "err", err)
		_ = c.Close()
		return
	}
	s.hub.Add(c)
	defer s.hub.Remove(c)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = c.Send(Message{Type: TypeState, Payload: ListStatePayload{
		View:     ViewList,
		Index:    eng.Index(),
		Count:    eng.Len(),
		PanelID:  eng.Current().ID,
		PeriodMS: eng.Period().Milliseconds(),
	}})
	// возврат со страницы панели: продолжаем с того же слайда
	if start := r.URL.Query().Get("start"); start != "" {
		if i, err := strconv.Atoi(start); err == nil {
			_ = eng.JumpTo(i)
		}
	}

	if err := eng.Start(ctx); err != nil {
		slog.Error("ws list carousel start", "err", err)
		_ = c.Close()
		return
	}
	defer eng.Stop()

	go s.pingLoop(ctx, c)
	s.readLoop(c, func(msg Message) {
		switch msg.Type {
		case TypeNext:
			eng.Next()
		case TypePrev:
			eng.Prev()
		case TypeJump:
			var p JumpPayload
			if decode(msg.Payload, &p) == nil {
				if err := eng.JumpTo(p.Index); err != nil {
					slog.Debug("ws list jump rejected", "index", p.Index, "err", err)
				}
			}
		case TypeSelect:
			// the button may belong to a slide other than the current one
			target := eng.Current()
			p := JumpPayload{Index: -1}
			if decode(msg.Payload, &p) == nil && p.Index >= 0 && p.Index < len(panels) {
				target = panels[p.Index]
			}
			route, err := s.deps.Shell.Select(target)
			if err != nil {
				slog.Warn("ws list select failed", "err", err)
				return
			}
			_ = c.Send(Message{Type: TypeNavigate, Payload: NavigatePayload{Path: route.Path, Handoff: route.Handoff}})
		}
	})
}

// HandleDetail: GET /ws/panels/{id}?h=
func (s *Server) HandleDetail(w http.ResponseWriter, r *http.Request) {
	route := shell.Route{Kind: shell.KindNotFound}
	if id, err := strconv.Atoi(chi.URLParam(r, "id")); err == nil {
		route = s.deps.Shell.Detail(id, r.URL.Query().Get("h"))
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}

	if route.Kind != shell.KindDetail {
		c := newWsConn(conn, ViewDetail)
		_ = c.Send(Message{Type: TypeNotFound, Payload: NotFoundPayload{Message: MsgPanelNotFound}})
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "not found"), time.Now().Add(time.Second))
		_ = c.Close()
		return
	}

	c := newWsConn(conn, "panel:"+strconv.Itoa(route.Panel.ID))
	log := slog.Default().With(slog.String("view", c.View()))

	view, err := detail.NewView(route.Panel, s.deps.Origin, s.deps.Encoder,
		detail.WithLogger(log),
		detail.WithPeriod(s.deps.ParticipantPeriod),
		detail.WithColors(s.deps.Foreground, s.deps.Background),
		detail.WithTicker(s.deps.NewTicker),
		detail.WithObserver(func(e detail.Event) { forward(c, e) }),
	)
	if err != nil {
		log.Error("ws detail view", "err", err)
		_ = c.Close()
		return
	}

	s.hub.Add(c)
	defer s.hub.Remove(c)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	eng := view.Participants()
	_ = c.Send(Message{Type: TypeState, Payload: DetailStatePayload{
		View:        ViewDetail,
		PanelID:     route.Panel.ID,
		URL:         view.URL(),
		Index:       eng.Index(),
		Count:       eng.Len(),
		PeriodMS:    eng.Period().Milliseconds(),
		Participant: participantItem(eng.Current()),
		ZoomOpen:    view.ZoomOpen(),
	}})

	if err := view.Start(ctx); err != nil {
		log.Error("ws detail start", "err", err)
		_ = c.Close()
		return
	}
	defer view.Close()

	var (
		sharing     atomic.Bool
		shareWG     sync.WaitGroup
		clipResults = make(chan bool, 1)
	)
	defer shareWG.Wait()

	go s.pingLoop(ctx, c)
	s.readLoop(c, func(msg Message) {
		switch msg.Type {
		case TypeNext:
			eng.Next()
		case TypePrev:
			eng.Prev()
		case TypeJump:
			var p JumpPayload
			if decode(msg.Payload, &p) == nil {
				if err := eng.JumpTo(p.Index); err != nil {
					log.Debug("ws detail jump rejected", "index", p.Index, "err", err)
				}
			}
		case TypeZoomOpen:
			view.OpenZoom()
		case TypeZoomClose:
			view.CloseZoom()
		case TypeShare:
			var req ShareRequest
			_ = decode(msg.Payload, &req)
			if !sharing.CompareAndSwap(false, true) {
				log.Debug("ws detail share already in progress")
				return
			}
			var sharer detail.Sharer
			if req.CanShare {
				sharer = clientSharer{c}
			}
			clip := clientClipboard{c: c, results: clipResults, timeout: s.clipboardTimeout}
			// ответ клиента приходит через этот же readLoop, поэтому ждём его вне цикла
			shareWG.Add(1)
			go func() {
				defer shareWG.Done()
				n := view.Share(ctx, sharer, clip)
				sharing.Store(false)
				if n.Kind != detail.NoticeNone {
					_ = c.Send(Message{Type: TypeNotice, Payload: n})
				}
			}()
		case TypeClipboardResult:
			var res ClipboardResultPayload
			if decode(msg.Payload, &res) == nil {
				select {
				case clipResults <- res.OK:
				default:
				}
			}
		case TypeBack:
			back := s.deps.Shell.Back()
			_ = c.Send(Message{Type: TypeNavigate, Payload: NavigatePayload{Path: back.Path}})
		}
	})
	cancel()
}

func forward(c *wsConn, e detail.Event) {
	switch e.Kind {
	case detail.EventParticipant:
		item := participantItem(e.Person)
		_ = c.Send(Message{Type: TypeSlide, Payload: SlidePayload{Index: e.Index, Cause: string(e.Cause), Participant: &item}})
	case detail.EventQRReady:
		_ = c.Send(Message{Type: TypeQRReady, Payload: QRReadyPayload{
			Size: string(e.Size),
			Src:  "data:image/png;base64," + base64.StdEncoding.EncodeToString(e.PNG),
		}})
	case detail.EventZoom:
		_ = c.Send(Message{Type: TypeZoom, Payload: ZoomPayload{Open: e.Open}})
	}
}

// clientSharer asks the browser to open its native share sheet.
type clientSharer struct{ c *wsConn }

func (s clientSharer) Share(_ context.Context, d detail.ShareData) error {
	return s.c.Send(Message{Type: TypeShare, Payload: d})
}

var (
	ErrClipboardRejected    = errors.New("clipboard write rejected by client")
	ErrClipboardUnconfirmed = errors.New("clipboard write not confirmed")
)

// clientClipboard asks the browser to copy and waits for its clipboard_result.
type clientClipboard struct {
	c       *wsConn
	results chan bool
	timeout time.Duration
}

func (cb clientClipboard) WriteText(ctx context.Context, text string) error {
	// запоздавший ответ на прошлую попытку не засчитываем
	select {
	case <-cb.results:
	default:
	}

	if err := cb.c.Send(Message{Type: TypeClipboard, Payload: ClipboardPayload{Text: text}}); err != nil {
		return err
	}

	timer := time.NewTimer(cb.timeout)
	defer timer.Stop()

	select {
	case ok := <-cb.results:
		if !ok {
			return ErrClipboardRejected
		}
		return nil
	case <-timer.C:
		return ErrClipboardUnconfirmed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) readLoop(c *wsConn, handle func(Message)) {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(1 << 16)
	_ = c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("ws read failed", "view", c.View(), "err", err)
			}
			return
		}
		// любое входящее сообщение продлевает сессию
		_ = c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		handle(msg)
	}
}

func (s *Server) pingLoop(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(s.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
		case <-ctx.Done():
			return
		case <-c.closed:
			return
		}
	}
}

// --- helpers ---

func decode(payload interface{}, dst interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, dst)
}

type wsConn struct {
	conn   *websocket.Conn
	view   string
	sendMu chan struct{}
	closed chan struct{}
	once   sync.Once
}

func newWsConn(c *websocket.Conn, view string) *wsConn {
	return &wsConn{
		conn:   c,
		view:   view,
		sendMu: make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

func (c *wsConn) Send(msg Message) error {
	select {
	case <-c.closed:
		return websocket.ErrCloseSent
	default:
	}

	c.sendMu <- struct{}{}
	defer func() { <-c.sendMu }()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))

	return c.conn.WriteJSON(msg)
}

func (c *wsConn) Close() error {
	var err error
	c.once.Do(func() {
		close(c.closed)
		err = c.conn.Close()
	})
	return err
}

func (c *wsConn) View() string { return c.view }
