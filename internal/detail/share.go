package detail

import (
	"context"
	"log/slog"
)

const (
	shareTextPrefix = "Rejoignez le panel: "

	MsgCopied     = "Lien copié dans le presse-papiers!"
	MsgCopyFailed = "Impossible de copier le lien"
)

type ShareData struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

// Sharer is the platform share sheet; absent on most desktop browsers.
type Sharer interface {
	Share(ctx context.Context, data ShareData) error
}

type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

type NoticeKind string

const (
	NoticeNone       NoticeKind = ""
	NoticeCopied     NoticeKind = "copied"
	NoticeCopyFailed NoticeKind = "copy_failed"
)

type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message,omitempty"`
}

func (v *View) ShareData() ShareData {
	return ShareData{
		Title: v.panel.Title,
		Text:  shareTextPrefix + v.panel.Theme,
		URL:   v.url,
	}
}

// Share uses the native share sheet when sharer is non-nil and falls back to
// copying the link. Neither path is fatal: a failed or dismissed share sheet
// yields no notice, a failed copy yields a neutral one.
func (v *View) Share(ctx context.Context, sharer Sharer, clip Clipboard) Notice {
	if sharer != nil {
		if err := sharer.Share(ctx, v.ShareData()); err != nil {
			v.log.Debug("share dismissed or failed", slog.Any("err", err))
		}
		return Notice{Kind: NoticeNone}
	}

	if clip == nil {
		return Notice{Kind: NoticeCopyFailed, Message: MsgCopyFailed}
	}
	if err := clip.WriteText(ctx, v.url); err != nil {
		v.log.Warn("clipboard write failed", slog.Any("err", err))
		return Notice{Kind: NoticeCopyFailed, Message: MsgCopyFailed}
	}
	return Notice{Kind: NoticeCopied, Message: MsgCopied}
}
