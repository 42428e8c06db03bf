package domain

import "errors"

var (
	ErrPanelNotFound    = errors.New("panel not found")
	ErrInvalidPanel     = errors.New("invalid panel")
	ErrDuplicatePanelID = errors.New("duplicate panel id")
)
