package domain

import (
	"fmt"
	"strings"
)

type Panel struct {
	ID        int      `json:"id"`
	Title     string   `json:"title"`
	Date      string   `json:"date"`
	Location  string   `json:"location"`
	Theme     string   `json:"theme"`
	Gradient  string   `json:"gradient"`
	Moderator Person   `json:"moderator"`
	Panelists []Person `json:"panelists"`
}

func (p Panel) Validate() error {
	switch {
	case p.ID <= 0:
		return fmt.Errorf("%w: id must be positive, got %d", ErrInvalidPanel, p.ID)
	case strings.TrimSpace(p.Title) == "":
		return fmt.Errorf("%w: panel %d has no title", ErrInvalidPanel, p.ID)
	case strings.TrimSpace(p.Moderator.Name) == "":
		return fmt.Errorf("%w: panel %d has no moderator", ErrInvalidPanel, p.ID)
	case len(p.Panelists) == 0:
		return fmt.Errorf("%w: panel %d has no panelists", ErrInvalidPanel, p.ID)
	}
	return nil
}

// Participants returns the moderator followed by the panelists, in order.
// The result is freshly allocated; callers may keep it.
func (p Panel) Participants() []Person {
	out := make([]Person, 0, 1+len(p.Panelists))

	m := p.Moderator
	m.IsModerator = true
	out = append(out, m)

	for _, pl := range p.Panelists {
		pl.IsModerator = false
		out = append(out, pl)
	}
	return out
}

// Lead is the first panelist, used as the panel's face in the list view.
func (p Panel) Lead() Person {
	if len(p.Panelists) == 0 {
		return Person{}
	}
	return p.Panelists[0]
}

// Clone returns a copy that shares no slices with p.
func (p Panel) Clone() Panel {
	c := p
	c.Panelists = append([]Person(nil), p.Panelists...)
	return c
}
