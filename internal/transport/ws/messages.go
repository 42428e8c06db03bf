package ws

import "github.com/cwrk-planet/epanel/internal/domain"

// Исходящие события
const (
	TypeState     = "state"           // снапшот вида при подключении
	TypeSlide     = "slide"           // карусель сдвинулась
	TypeQRReady   = "qr_ready"        // QR отрисован
	TypeZoom      = "zoom"            // модалка открыта/закрыта
	TypeShare     = "share"           // вызвать navigator.share на клиенте
	TypeClipboard = "clipboard_write" // скопировать ссылку
	TypeNotice    = "notice"          // уведомление пользователю
	TypeNavigate  = "navigate"        // переход на другой маршрут
	TypeNotFound  = "not_found"       // панель не найдена
)

// Входящие команды
const (
	TypeNext      = "next"
	TypePrev      = "prev"
	TypeJump      = "jump"
	TypeSelect    = "select"
	TypeBack      = "back"
	TypeZoomOpen  = "zoom_open"
	TypeZoomClose = "zoom_close"

	// итог navigator.clipboard.writeText на клиенте
	TypeClipboardResult = "clipboard_result"
	// TypeShare is also accepted inbound, carrying ShareRequest.
)

const (
	ViewList   = "list"
	ViewDetail = "detail"
)

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

type ParticipantItem struct {
	Name        string `json:"name"`
	Avatar      string `json:"avatar"`
	Title       string `json:"title"`
	Role        string `json:"role"`
	IsModerator bool   `json:"is_moderator"`
}

func participantItem(p domain.Person) ParticipantItem {
	return ParticipantItem{
		Name:        p.Name,
		Avatar:      p.Avatar,
		Title:       p.Title,
		Role:        p.Role(),
		IsModerator: p.IsModerator,
	}
}

type ListStatePayload struct {
	View     string `json:"view"`
	Index    int    `json:"index"`
	Count    int    `json:"count"`
	PanelID  int    `json:"panel_id"`
	PeriodMS int64  `json:"period_ms"`
}

type DetailStatePayload struct {
	View        string          `json:"view"`
	PanelID     int             `json:"panel_id"`
	URL         string          `json:"url"`
	Index       int             `json:"index"`
	Count       int             `json:"count"`
	PeriodMS    int64           `json:"period_ms"`
	Participant ParticipantItem `json:"participant"`
	ZoomOpen    bool            `json:"zoom_open"`
}

type SlidePayload struct {
	Index       int              `json:"index"`
	Cause       string           `json:"cause"`
	PanelID     int              `json:"panel_id,omitempty"`
	Participant *ParticipantItem `json:"participant,omitempty"`
}

type JumpPayload struct {
	Index int `json:"index"`
}

type QRReadyPayload struct {
	Size string `json:"size"`
	// Src is a data: URL of the PNG.
	Src string `json:"src"`
}

type ZoomPayload struct {
	Open bool `json:"open"`
}

type ShareRequest struct {
	CanShare bool `json:"can_share"`
}

type ClipboardPayload struct {
	Text string `json:"text"`
}

type ClipboardResultPayload struct {
	OK bool `json:"ok"`
}

type NavigatePayload struct {
	Path    string `json:"path"`
	Handoff string `json:"handoff,omitempty"`
}

type NotFoundPayload struct {
	Message string `json:"message"`
}
