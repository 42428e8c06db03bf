package catalog

import (
	"errors"
	"fmt"

	"github.com/cwrk-planet/epanel/internal/domain"

	"github.com/samber/lo"
)

var ErrEmpty = errors.New("catalog is empty")

// Store is the read-only, ordered panel list. It is built once at startup
// and never changes afterwards, so it needs no locking.
type Store struct {
	panels []domain.Panel
	byID   map[int]int // id -> index in panels
}

func New(panels []domain.Panel) (*Store, error) {
	if len(panels) == 0 {
		return nil, ErrEmpty
	}

	s := &Store{
		panels: make([]domain.Panel, 0, len(panels)),
		byID:   make(map[int]int, len(panels)),
	}
	for _, p := range panels {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := s.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: %d", domain.ErrDuplicatePanelID, p.ID)
		}
		s.byID[p.ID] = len(s.panels)
		s.panels = append(s.panels, p.Clone())
	}
	return s, nil
}

func (s *Store) Len() int { return len(s.panels) }

// All returns the panels in their display order.
func (s *Store) All() []domain.Panel {
	return lo.Map(s.panels, func(p domain.Panel, _ int) domain.Panel { return p.Clone() })
}

func (s *Store) ByID(id int) (domain.Panel, error) {
	i, ok := s.byID[id]
	if !ok {
		return domain.Panel{}, fmt.Errorf("panel %d: %w", id, domain.ErrPanelNotFound)
	}
	return s.panels[i].Clone(), nil
}

// IndexOf reports the display position of a panel, used to point the list
// carousel at a panel when coming back from its detail page.
func (s *Store) IndexOf(id int) (int, bool) {
	i, ok := s.byID[id]
	return i, ok
}
