package ws

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cwrk-planet/epanel/internal/carousel"
	"github.com/cwrk-planet/epanel/internal/catalog"
	"github.com/cwrk-planet/epanel/internal/detail"
	"github.com/cwrk-planet/epanel/internal/qr"
	"github.com/cwrk-planet/epanel/internal/shell"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

type stubEncoder struct{ err error }

func (e stubEncoder) Encode(_ context.Context, text string, _ qr.Options) ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	return []byte(text), nil
}

type harness struct {
	srv    *httptest.Server
	hub    *Hub
	ticker *carousel.ManualTicker
	shell  *shell.Shell
}

func newHarness(t *testing.T, enc qr.Encoder) *harness {
	t.Helper()

	store, err := catalog.New(catalog.Seed())
	require.NoError(t, err)
	sh, err := shell.New(store, time.Minute, nil)
	require.NoError(t, err)

	tk := carousel.NewManualTicker()
	hub := NewHub()
	s := NewServer(hub, Deps{
		Shell:     sh,
		Encoder:   enc,
		Origin:    "https://example.test",
		NewTicker: tk.Factory(),
	})

	r := chi.NewRouter()
	r.Get("/ws/panels", s.HandleList)
	r.Get("/ws/panels/{id}", s.HandleDetail)
	srv := httptest.NewServer(r)

	t.Cleanup(func() {
		hub.CloseAll()
		srv.Close()
		sh.Close()
	})
	return &harness{srv: srv, hub: hub, ticker: tk, shell: sh}
}

func (h *harness) dial(t *testing.T, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(h.srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

type inbound struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

func read(t *testing.T, conn *websocket.Conn) inbound {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var m inbound
	require.NoError(t, conn.ReadJSON(&m))
	return m
}

func readType(t *testing.T, conn *websocket.Conn, typ string) inbound {
	t.Helper()
	for i := 0; i < 16; i++ {
		if m := read(t, conn); m.Type == typ {
			return m
		}
	}
	t.Fatalf("no %s message", typ)
	return inbound{}
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(Message{Type: typ, Payload: payload}))
}

func TestListSession(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, stubEncoder{})
	conn := h.dial(t, "/ws/panels")

	st := read(t, conn)
	req.Equal(TypeState, st.Type)
	req.EqualValues(0, st.Payload["index"])
	req.EqualValues(5, st.Payload["count"])
	req.EqualValues(4000, st.Payload["period_ms"])
	req.Eventually(func() bool { return h.hub.CountView(ViewList) == 1 }, time.Second, time.Millisecond)

	for i := 1; i <= 3; i++ {
		h.ticker.Fire()
		m := read(t, conn)
		req.Equal(TypeSlide, m.Type)
		req.EqualValues(i, m.Payload["index"])
		req.Equal("tick", m.Payload["cause"])
	}

	send(t, conn, TypePrev, nil)
	m := read(t, conn)
	req.EqualValues(2, m.Payload["index"])
	req.Equal("prev", m.Payload["cause"])

	send(t, conn, TypeJump, JumpPayload{Index: 4})
	m = read(t, conn)
	req.EqualValues(4, m.Payload["index"])
	req.EqualValues(5, m.Payload["panel_id"])

	// out of range is ignored, next message is from the following command
	send(t, conn, TypeJump, JumpPayload{Index: 9})
	send(t, conn, TypeSelect, nil)
	m = read(t, conn)
	req.Equal(TypeNavigate, m.Type)
	req.Equal("/panel/5", m.Payload["path"])

	token, _ := m.Payload["handoff"].(string)
	route := h.shell.Detail(5, token)
	req.True(route.FromHandoff)
}

func TestListSession_TeardownStopsTimer(t *testing.T) {
	h := newHarness(t, stubEncoder{})
	conn := h.dial(t, "/ws/panels")
	read(t, conn)

	require.Eventually(t, func() bool { return h.hub.Count() == 1 }, time.Second, time.Millisecond)
	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool { return h.hub.Count() == 0 && h.ticker.Stopped() }, 2*time.Second, 5*time.Millisecond)
}

func TestDetailSession(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, stubEncoder{})
	conn := h.dial(t, "/ws/panels/3")

	st := read(t, conn)
	req.Equal(TypeState, st.Type)
	req.EqualValues(3, st.Payload["panel_id"])
	req.Equal("https://example.test/panel/3", st.Payload["url"])
	req.EqualValues(3000, st.Payload["period_ms"])
	participant := st.Payload["participant"].(map[string]any)
	req.Equal(true, participant["is_moderator"])
	req.Equal("Mamadou Diop", participant["name"])

	qrInline := readType(t, conn, TypeQRReady)
	req.Equal("inline", qrInline.Payload["size"])
	req.True(strings.HasPrefix(qrInline.Payload["src"].(string), "data:image/png;base64,"))

	h.ticker.Fire()
	m := readType(t, conn, TypeSlide)
	req.EqualValues(1, m.Payload["index"])

	send(t, conn, TypeZoomOpen, nil)
	req.Equal(true, readType(t, conn, TypeZoom).Payload["open"])
	req.Equal("zoom", readType(t, conn, TypeQRReady).Payload["size"])

	send(t, conn, TypeZoomClose, nil)
	req.Equal(false, readType(t, conn, TypeZoom).Payload["open"])

	send(t, conn, TypeShare, ShareRequest{CanShare: false})
	cb := readType(t, conn, TypeClipboard)
	req.Equal("https://example.test/panel/3", cb.Payload["text"])
	send(t, conn, TypeClipboardResult, ClipboardResultPayload{OK: true})
	n := readType(t, conn, TypeNotice)
	req.Equal("copied", n.Payload["kind"])

	send(t, conn, TypeShare, ShareRequest{CanShare: true})
	sh := readType(t, conn, TypeShare)
	req.Equal("Panel Éducation", sh.Payload["title"])
	req.Equal("Rejoignez le panel: L'avenir de l'éducation en Afrique", sh.Payload["text"])

	send(t, conn, TypeBack, nil)
	nav := readType(t, conn, TypeNavigate)
	req.Equal("/", nav.Payload["path"])
}

func TestDetailSession_NotFound(t *testing.T) {
	h := newHarness(t, stubEncoder{})

	for _, path := range []string{"/ws/panels/999", "/ws/panels/abc"} {
		conn := h.dial(t, path)
		m := read(t, conn)
		require.Equal(t, TypeNotFound, m.Type)
		require.Equal(t, MsgPanelNotFound, m.Payload["message"])

		_, _, err := conn.ReadMessage()
		require.Error(t, err)
	}
	require.Equal(t, 0, h.hub.Count())
}

func TestDetailSession_EncoderFailureKeepsSessionAlive(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, stubEncoder{err: errors.New("encoder down")})
	conn := h.dial(t, "/ws/panels/1")

	req.Equal(TypeState, read(t, conn).Type)

	send(t, conn, TypeNext, nil)
	m := readType(t, conn, TypeSlide)
	req.Equal("next", m.Payload["cause"])
	req.EqualValues(1, m.Payload["index"])
}

func TestDetailSession_ClipboardFailureGivesNeutralNotice(t *testing.T) {
	req := require.New(t)
	h := newHarness(t, stubEncoder{})
	conn := h.dial(t, "/ws/panels/2")
	req.Equal(TypeState, read(t, conn).Type)

	send(t, conn, TypeShare, ShareRequest{CanShare: false})
	cb := readType(t, conn, TypeClipboard)
	req.Equal("https://example.test/panel/2", cb.Payload["text"])

	// no notice is sent until the browser reports the copy result
	send(t, conn, TypeClipboardResult, ClipboardResultPayload{OK: false})
	n := readType(t, conn, TypeNotice)
	req.Equal(string(detail.NoticeCopyFailed), n.Payload["kind"])
	req.Equal(detail.MsgCopyFailed, n.Payload["message"])

	// the session keeps working after a failed copy
	send(t, conn, TypeShare, ShareRequest{CanShare: false})
	readType(t, conn, TypeClipboard)
	send(t, conn, TypeClipboardResult, ClipboardResultPayload{OK: true})
	n = readType(t, conn, TypeNotice)
	req.Equal(string(detail.NoticeCopied), n.Payload["kind"])
	req.Equal(detail.MsgCopied, n.Payload["message"])
}

func TestClientClipboard_Unconfirmed(t *testing.T) {
	h := newHarness(t, stubEncoder{})
	conn := h.dial(t, "/ws/panels/1")
	require.Equal(t, TypeState, read(t, conn).Type)

	var c Conn
	require.Eventually(t, func() bool {
		c = firstConn(h.hub, "panel:1")
		return c != nil
	}, time.Second, time.Millisecond)

	results := make(chan bool, 1)
	results <- true // stale answer from an earlier attempt
	clip := clientClipboard{c: c.(*wsConn), results: results, timeout: 20 * time.Millisecond}

	err := clip.WriteText(context.Background(), "https://example.test/panel/1")
	require.ErrorIs(t, err, ErrClipboardUnconfirmed)
	require.Equal(t, TypeClipboard, readType(t, conn, TypeClipboard).Type)
}

func firstConn(h *Hub, view string) Conn {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.views[view] {
		return c
	}
	return nil
}
