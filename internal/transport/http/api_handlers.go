package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cwrk-planet/epanel/internal/catalog"
	"github.com/cwrk-planet/epanel/internal/detail"
	"github.com/cwrk-planet/epanel/internal/domain"
	"github.com/cwrk-planet/epanel/pkg/errs"
	"github.com/cwrk-planet/epanel/pkg/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
)

type PersonDTO struct {
	Name        string `json:"name"`
	Avatar      string `json:"avatar"`
	Title       string `json:"title"`
	Role        string `json:"role"`
	IsModerator bool   `json:"is_moderator"`
}

type PanelDTO struct {
	ID        int         `json:"id"`
	Title     string      `json:"title"`
	Date      string      `json:"date"`
	Location  string      `json:"location"`
	Theme     string      `json:"theme"`
	Gradient  string      `json:"gradient"`
	URL       string      `json:"url"`
	Moderator PersonDTO   `json:"moderator"`
	Panelists []PersonDTO `json:"panelists"`
}

func toPersonDTO(p domain.Person, _ int) PersonDTO {
	return PersonDTO{
		Name:        p.Name,
		Avatar:      p.Avatar,
		Title:       p.Title,
		Role:        p.Role(),
		IsModerator: p.IsModerator,
	}
}

type APIHandlers struct {
	Store  *catalog.Store
	Origin string
}

func (h *APIHandlers) toPanelDTO(p domain.Panel, _ int) PanelDTO {
	mod := p.Moderator
	mod.IsModerator = true
	return PanelDTO{
		ID:        p.ID,
		Title:     p.Title,
		Date:      p.Date,
		Location:  p.Location,
		Theme:     p.Theme,
		Gradient:  p.Gradient,
		URL:       detail.DetailURL(h.Origin, p.ID),
		Moderator: toPersonDTO(mod, 0),
		Panelists: lo.Map(p.Panelists, toPersonDTO),
	}
}

// GET /api/panels
func (h *APIHandlers) ListPanels(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, lo.Map(h.Store.All(), h.toPanelDTO))
}

// GET /api/panels/{id}
func (h *APIHandlers) GetPanel(w http.ResponseWriter, r *http.Request) {
	p, err := h.panel(r)
	if err != nil {
		httputil.Error(r.Context(), w, errs.ToHTTP(err), "get panel failed", map[string]any{"reason": err.Error()})
		return
	}
	httputil.OK(w, h.toPanelDTO(p, 0))
}

// GET /api/panels/{id}/participants
func (h *APIHandlers) Participants(w http.ResponseWriter, r *http.Request) {
	p, err := h.panel(r)
	if err != nil {
		httputil.Error(r.Context(), w, errs.ToHTTP(err), "list participants failed", map[string]any{"reason": err.Error()})
		return
	}
	httputil.OK(w, lo.Map(p.Participants(), toPersonDTO))
}

func (h *APIHandlers) panel(r *http.Request) (domain.Panel, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return domain.Panel{}, fmt.Errorf("%w: id must be an integer", errs.ErrInvalidInput)
	}
	p, err := h.Store.ByID(id)
	if errors.Is(err, domain.ErrPanelNotFound) {
		return domain.Panel{}, fmt.Errorf("%w: %w", errs.ErrNotFound, err)
	}
	return p, err
}
