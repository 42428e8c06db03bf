// Package shell maps the two site views to paths and carries the selected
// panel from the list to its detail page.
package shell

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/cwrk-planet/epanel/internal/catalog"
	"github.com/cwrk-planet/epanel/internal/domain"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/google/uuid"
)

const DefaultHandoffTTL = 10 * time.Minute

type Kind string

const (
	KindList     Kind = "list"
	KindDetail   Kind = "detail"
	KindNotFound Kind = "not_found"
)

// Route is a resolved view. Panel is set only for KindDetail.
type Route struct {
	Kind    Kind
	Path    string
	Panel   domain.Panel
	Handoff string
	// FromHandoff reports that Panel came from the handoff rather than the store.
	FromHandoff bool
}

func ListPath() string { return "/" }

func DetailPath(id int) string { return "/panel/" + strconv.Itoa(id) }

type Shell struct {
	store    *catalog.Store
	handoffs *ristretto.Cache[string, domain.Panel]
	ttl      time.Duration
	log      *slog.Logger
}

func New(store *catalog.Store, ttl time.Duration, log *slog.Logger) (*Shell, error) {
	if ttl <= 0 {
		ttl = DefaultHandoffTTL
	}
	if log == nil {
		log = slog.Default()
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, domain.Panel]{
		NumCounters: 10_000,
		MaxCost:     1_000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("handoff cache: %w", err)
	}
	return &Shell{store: store, handoffs: c, ttl: ttl, log: log}, nil
}

func (s *Shell) Close() { s.handoffs.Close() }

func (s *Shell) Store() *catalog.Store { return s.store }

func (s *Shell) List() Route { return Route{Kind: KindList, Path: ListPath()} }

// Back always leads to the list.
func (s *Shell) Back() Route { return s.List() }

// Select moves from the list to a panel's detail view, keeping the full
// record under a short-lived handoff token.
func (s *Shell) Select(p domain.Panel) (Route, error) {
	if err := p.Validate(); err != nil {
		return Route{}, err
	}

	token := uuid.NewString()
	snapshot := p.Clone()
	if !s.handoffs.SetWithTTL(token, snapshot, 1, s.ttl) {
		// отброшено политикой кэша: деталь всё равно найдётся по id
		s.log.Debug("handoff not stored", slog.Int("panel_id", p.ID))
		token = ""
	}
	s.handoffs.Wait()

	return Route{
		Kind:    KindDetail,
		Path:    DetailPath(p.ID),
		Panel:   snapshot,
		Handoff: token,
	}, nil
}

// Resolve maps a path (plus an optional handoff token) to a route.
func (s *Shell) Resolve(path, handoff string) Route {
	p := strings.TrimSuffix(path, "/")
	if p == "" {
		return s.List()
	}

	rest, ok := strings.CutPrefix(p, "/panel/")
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return Route{Kind: KindNotFound, Path: path}
	}
	id, err := strconv.Atoi(rest)
	if err != nil {
		return Route{Kind: KindNotFound, Path: path}
	}
	return s.Detail(id, handoff)
}

// Detail prefers the handed-off record, then falls back to the store. No
// record at all is terminal.
func (s *Shell) Detail(id int, handoff string) Route {
	path := DetailPath(id)

	if handoff != "" {
		if p, ok := s.handoffs.Get(handoff); ok && p.ID == id {
			return Route{Kind: KindDetail, Path: path, Panel: p.Clone(), Handoff: handoff, FromHandoff: true}
		}
	}

	p, err := s.store.ByID(id)
	if err != nil {
		s.log.Debug("panel not resolved", slog.Int("panel_id", id), slog.Any("err", err))
		return Route{Kind: KindNotFound, Path: path}
	}
	return Route{Kind: KindDetail, Path: path, Panel: p}
}
